package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/auto88/auto88-ui/internal/domain/session"
	"github.com/auto88/auto88-ui/internal/upstream"
	"github.com/auto88/auto88-ui/internal/upstream/api"
)

// requireProfile resolves the signed-in user's profile, fetching it when the
// session only carries token claims. Anonymous visitors are bounced to the
// sign-in screen.
func (h *Handlers) requireProfile(w http.ResponseWriter, r *http.Request) (*session.Profile, bool) {
	env := EnvFromContext(r.Context())
	snap := env.Snapshot()
	if !snap.Authenticated() {
		pushFlashes(w, r, []Toast{{Level: toastError, Message: "Please sign in to continue."}})
		redirect(w, r, upstream.AuthScreenPath+"?next="+r.URL.Path)
		return nil, false
	}
	if snap.Profile != nil {
		return snap.Profile, true
	}
	u, err := env.API.Users.ByUsername(r.Context(), snap.Claims.Subject)
	if err != nil {
		h.deliver(w, r, err)
		return nil, false
	}
	return u.Profile(), true
}

// Profile renders the account screen.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	data := NewTemplateData(w, r, PageMeta{Title: "My profile", CurrentPage: "profile"}).
		With("Account", profile).
		Build()
	h.render.RenderPage(w, r, "profile", data)
}

// MyOrders renders the signed-in user's order history.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	orders, err := env.API.Orders.ByUser(r.Context(), profile.UserID)
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(orders, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "My orders", CurrentPage: "orders"}).
		With("Orders", page).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "orders", data)
}

// OrderDetail renders one order with its line items and payment.
func (h *Handlers) OrderDetail(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	if _, ok := h.requireProfile(w, r); !ok {
		return
	}
	order, err := env.API.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	data := NewTemplateData(w, r, PageMeta{Title: "Order " + order.OrderID, CurrentPage: "orders"}).
		With("Order", order).
		Build()
	h.render.RenderPage(w, r, "order_detail", data)
}

// CheckoutForm renders the order form for one car.
func (h *Handlers) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	carID, err := strconv.Atoi(r.URL.Query().Get("car"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	car, err := env.API.Cars.Get(r.Context(), carID)
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	data := NewTemplateData(w, r, PageMeta{Title: "Checkout", CurrentPage: "checkout"}).
		With("Car", car).
		With("Account", profile).
		Build()
	h.render.RenderPage(w, r, "checkout", data)
}

// CheckoutSubmit places the order and sends the user to its detail page.
func (h *Handlers) CheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	carID, err := strconv.Atoi(r.PostFormValue("carId"))
	if err != nil {
		http.Error(w, "bad car id", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	input := api.OrderInput{
		UserID:        profile.UserID,
		FullName:      strings.TrimSpace(r.PostFormValue("fullName")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		Phone:         strings.TrimSpace(r.PostFormValue("phone")),
		Address:       strings.TrimSpace(r.PostFormValue("address")),
		City:          strings.TrimSpace(r.PostFormValue("city")),
		District:      strings.TrimSpace(r.PostFormValue("district")),
		Ward:          strings.TrimSpace(r.PostFormValue("ward")),
		Note:          strings.TrimSpace(r.PostFormValue("note")),
		PaymentMethod: r.PostFormValue("paymentMethod"),
		Lines: []api.OrderLineInput{{
			CarID:     carID,
			Quantity:  quantity,
			ColorName: r.PostFormValue("color"),
		}},
	}
	if input.FullName == "" || input.Phone == "" || input.Address == "" {
		pushFlashes(w, r, []Toast{{Level: toastError,
			Message: "Name, phone, and address are required."}})
		redirect(w, r, "/checkout?car="+strconv.Itoa(carID))
		return
	}

	order, err := env.API.Orders.Create(r.Context(), input)
	if err != nil {
		h.deliver(w, r, err)
		return
	}

	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Order placed."}})
	redirect(w, r, "/orders/"+order.OrderID)
}
