package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// OrderLine mirrors one line item of an order.
type OrderLine struct {
	OrderDetailID int     `json:"orderDetailId"`
	CarID         int     `json:"carId"`
	CarModel      string  `json:"carModel"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Subtotal      float64 `json:"subtotal"`
}

// Order mirrors the upstream order resource.
type Order struct {
	OrderID     string      `json:"orderId"`
	UserID      string      `json:"userId"`
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	District    string      `json:"district"`
	Ward        string      `json:"ward"`
	Note        string      `json:"note"`
	Subtotal    float64     `json:"subtotal"`
	ShippingFee float64     `json:"shippingFee"`
	Tax         float64     `json:"tax"`
	TotalAmount float64     `json:"totalAmount"`
	OrderDate   string      `json:"orderDate"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Lines       []OrderLine `json:"orderDetails"`
	Payment     *Payment    `json:"payment"`
}

// OrderLineInput is one requested line item.
type OrderLineInput struct {
	CarID     int    `json:"carId"`
	Quantity  int    `json:"quantity"`
	ColorName string `json:"colorName"`
}

// OrderInput is the checkout payload.
type OrderInput struct {
	UserID        string           `json:"userId"`
	FullName      string           `json:"fullName"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	District      string           `json:"district"`
	Ward          string           `json:"ward"`
	Note          string           `json:"note,omitempty"`
	ShippingFee   float64          `json:"shippingFee"`
	Tax           float64          `json:"tax"`
	PaymentMethod string           `json:"paymentMethod"`
	Lines         []OrderLineInput `json:"orderDetails"`
}

// OrderUpdateInput edits the delivery details of an existing order.
type OrderUpdateInput struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	District    string  `json:"district"`
	Ward        string  `json:"ward"`
	Note        string  `json:"note,omitempty"`
	ShippingFee float64 `json:"shippingFee"`
	Tax         float64 `json:"tax"`
}

// Orders talks to the order endpoints.
type Orders struct {
	c Caller
}

// NewOrders constructs the order endpoint client.
func NewOrders(c Caller) *Orders { return &Orders{c: c} }

// List returns every order.
func (a *Orders) List(ctx context.Context) ([]Order, error) {
	return call[[]Order](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/orders"))
}

// Get returns one order by id.
func (a *Orders) Get(ctx context.Context, orderID string) (Order, error) {
	return call[Order](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/orders/"+orderID))
}

// ByUser returns the orders placed by one user.
func (a *Orders) ByUser(ctx context.Context, userID string) ([]Order, error) {
	return call[[]Order](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/orders/user/"+userID))
}

// ByStatus returns the orders in one lifecycle state.
func (a *Orders) ByStatus(ctx context.Context, status string) ([]Order, error) {
	return call[[]Order](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/orders/status/"+status))
}

// Create places a new order and returns it as recorded upstream.
func (a *Orders) Create(ctx context.Context, in OrderInput) (Order, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, "/orders", in)
	if err != nil {
		return Order{}, err
	}
	return call[Order](ctx, a.c, d)
}

// Update edits the delivery details of an order.
func (a *Orders) Update(ctx context.Context, orderID string, in OrderUpdateInput) (Order, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPut, "/orders/"+orderID, in)
	if err != nil {
		return Order{}, err
	}
	return call[Order](ctx, a.c, d)
}

// SetStatus advances an order through its lifecycle.
func (a *Orders) SetStatus(ctx context.Context, orderID, status string) (Order, error) {
	q := url.Values{}
	q.Set("status", status)
	d := upstream.NewDescriptor(http.MethodPatch, fmt.Sprintf("/orders/%s/status", orderID)).WithQuery(q)
	return call[Order](ctx, a.c, d)
}

// Delete removes an order through the administrative endpoint.
func (a *Orders) Delete(ctx context.Context, orderID string) error {
	return callVoid(ctx, a.c, upstream.NewDescriptor(http.MethodDelete, "/admin/orders/"+orderID))
}

// Lines returns the line items of one order.
func (a *Orders) Lines(ctx context.Context, orderID string) ([]OrderLine, error) {
	return call[[]OrderLine](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/order-details/order/"+orderID))
}

// DeleteLine removes a single line item.
func (a *Orders) DeleteLine(ctx context.Context, orderDetailID int) error {
	d := upstream.NewDescriptor(http.MethodDelete, fmt.Sprintf("/order-details/%d", orderDetailID))
	return callVoid(ctx, a.c, d)
}
