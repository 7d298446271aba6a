package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// Payment mirrors the upstream payment resource.
type Payment struct {
	PaymentID     string  `json:"paymentId"`
	OrderID       string  `json:"orderId"`
	PaymentDate   string  `json:"paymentDate"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// PaymentInput records a payment against an order.
type PaymentInput struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// Payments talks to the payment endpoints.
type Payments struct {
	c Caller
}

// NewPayments constructs the payment endpoint client.
func NewPayments(c Caller) *Payments { return &Payments{c: c} }

// List returns every payment.
func (a *Payments) List(ctx context.Context) ([]Payment, error) {
	return call[[]Payment](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/payments"))
}

// Get returns one payment by id.
func (a *Payments) Get(ctx context.Context, paymentID string) (Payment, error) {
	return call[Payment](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/payments/"+paymentID))
}

// ByOrder returns the payment recorded for one order.
func (a *Payments) ByOrder(ctx context.Context, orderID string) (Payment, error) {
	return call[Payment](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/payments/order/"+orderID))
}

// ByStatus returns the payments in one state.
func (a *Payments) ByStatus(ctx context.Context, status string) ([]Payment, error) {
	return call[[]Payment](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/payments/status/"+status))
}

// Create records a payment against an order.
func (a *Payments) Create(ctx context.Context, in PaymentInput) (Payment, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, "/payments", in)
	if err != nil {
		return Payment{}, err
	}
	return call[Payment](ctx, a.c, d)
}

// Confirm marks a pending payment as completed.
func (a *Payments) Confirm(ctx context.Context, paymentID string) error {
	d := upstream.NewDescriptor(http.MethodPost, fmt.Sprintf("/payments/%s/confirm", paymentID))
	return callVoid(ctx, a.c, d)
}

// SetStatus moves a payment to the given state.
func (a *Payments) SetStatus(ctx context.Context, paymentID, status string) error {
	q := url.Values{}
	q.Set("status", status)
	d := upstream.NewDescriptor(http.MethodPatch, fmt.Sprintf("/payments/%s/status", paymentID)).WithQuery(q)
	return callVoid(ctx, a.c, d)
}

// Delete removes a payment through the administrative endpoint.
func (a *Payments) Delete(ctx context.Context, paymentID string) error {
	return callVoid(ctx, a.c, upstream.NewDescriptor(http.MethodDelete, "/admin/payments/"+paymentID))
}
