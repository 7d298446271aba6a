package httpx

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/auto88/auto88-ui/internal/upstream"
	"github.com/auto88/auto88-ui/internal/upstream/api"
)

const maxUploadBytes = 10 << 20

// requireAdmin gates the admin screens on the decoded role claim. This is a
// courtesy check for the UI only; the upstream denies for real and the
// pipeline handles its 403.
func (h *Handlers) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	env := EnvFromContext(r.Context())
	snap := env.Snapshot()
	if !snap.Authenticated() {
		pushFlashes(w, r, []Toast{{Level: toastError, Message: "Please sign in to continue."}})
		redirect(w, r, upstream.AuthScreenPath+"?next="+r.URL.Path)
		return false
	}
	if !snap.IsAdmin() {
		pushFlashes(w, r, []Toast{{Level: toastError,
			Message: "You do not have access to the admin area."}})
		redirect(w, r, upstream.HomePath)
		return false
	}
	return true
}

// formFile reads an optional uploaded file into a descriptor-friendly shape.
func formFile(r *http.Request, field string) (*api.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return &api.FileUpload{Field: field, Name: header.Filename, Content: content}, nil
}

// AdminDashboard renders the admin landing page with headline counts
// gathered concurrently.
func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())

	var (
		cars     []api.Car
		orders   []api.Order
		payments []api.Payment
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		cars, err = env.API.Cars.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = env.API.Orders.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = env.API.Payments.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.deliver(w, r, err)
		return
	}

	pending := 0
	for _, o := range orders {
		if o.Status == "PENDING" {
			pending++
		}
	}
	data := NewTemplateData(w, r, PageMeta{Title: "Admin", CurrentPage: "admin"}).
		With("CarCount", len(cars)).
		With("OrderCount", len(orders)).
		With("PendingOrders", pending).
		With("PaymentCount", len(payments)).
		Build()
	h.render.RenderPage(w, r, "admin_dashboard", data)
}

// AdminCars renders the car management screen.
func (h *Handlers) AdminCars(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	cars, err := env.API.Cars.List(r.Context())
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(cars, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "Manage cars", CurrentPage: "admin"}).
		With("Cars", page).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "admin_cars", data)
}

func carInputFromForm(r *http.Request) (api.CarInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return api.CarInput{}, err
	}
	year, _ := strconv.Atoi(r.PostFormValue("manufactureYear"))
	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	image, err := formFile(r, "imageFile")
	if err != nil {
		return api.CarInput{}, err
	}
	return api.CarInput{
		Brand:           r.PostFormValue("brand"),
		Category:        r.PostFormValue("category"),
		Model:           strings.TrimSpace(r.PostFormValue("model")),
		ManufactureYear: year,
		Price:           price,
		Color:           r.PostFormValue("color"),
		Description:     r.PostFormValue("description"),
		Status:          r.PostFormValue("status"),
		Image:           image,
	}, nil
}

// AdminCarCreate adds a car to the catalog.
func (h *Handlers) AdminCarCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	input, err := carInputFromForm(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := env.API.Cars.Create(r.Context(), input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Car created."}})
	redirect(w, r, "/admin/cars")
}

// AdminCarUpdate replaces a car's attributes.
func (h *Handlers) AdminCarUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	carID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	input, err := carInputFromForm(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := env.API.Cars.Update(r.Context(), carID, input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Car updated."}})
	redirect(w, r, "/admin/cars")
}

// AdminCarDelete removes a car.
func (h *Handlers) AdminCarDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	carID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := env.API.Cars.Delete(r.Context(), carID); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Car deleted."}})
	redirect(w, r, "/admin/cars")
}

// AdminCarDetailUpsert creates or updates a car's specification sheet.
func (h *Handlers) AdminCarDetailUpsert(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	carID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	horsepower, _ := strconv.Atoi(r.PostFormValue("horsepower"))
	torque, _ := strconv.Atoi(r.PostFormValue("torque"))
	consumption, _ := strconv.ParseFloat(r.PostFormValue("fuelConsumption"), 64)
	seats, _ := strconv.Atoi(r.PostFormValue("seats"))
	weight, _ := strconv.Atoi(r.PostFormValue("weight"))
	input := api.CarDetailInput{
		Engine:          r.PostFormValue("engine"),
		Horsepower:      horsepower,
		Torque:          torque,
		Transmission:    r.PostFormValue("transmission"),
		FuelType:        r.PostFormValue("fuelType"),
		FuelConsumption: consumption,
		Seats:           seats,
		Weight:          weight,
		Dimensions:      r.PostFormValue("dimensions"),
	}

	detailID, _ := strconv.Atoi(r.PostFormValue("carDetailId"))
	if detailID > 0 {
		err = env.API.Cars.UpdateDetail(r.Context(), detailID, input)
	} else {
		err = env.API.Cars.CreateDetail(r.Context(), carID, input)
	}
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Specification saved."}})
	redirect(w, r, "/cars/"+strconv.Itoa(carID))
}

// AdminOrders renders the order management screen, optionally narrowed to a
// lifecycle state.
func (h *Handlers) AdminOrders(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())

	var (
		orders []api.Order
		err    error
	)
	status := r.URL.Query().Get("status")
	if status != "" {
		orders, err = env.API.Orders.ByStatus(r.Context(), status)
	} else {
		orders, err = env.API.Orders.List(r.Context())
	}
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(orders, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "Manage orders", CurrentPage: "admin"}).
		With("Orders", page).
		With("SelectedStatus", status).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "admin_orders", data)
}

// AdminOrderStatus advances an order through its lifecycle.
func (h *Handlers) AdminOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	orderID := r.PathValue("id")
	if _, err := env.API.Orders.SetStatus(r.Context(), orderID, r.PostFormValue("status")); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Order " + orderID + " updated."}})
	redirect(w, r, "/admin/orders")
}

// AdminOrderDelete removes an order.
func (h *Handlers) AdminOrderDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := env.API.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Order deleted."}})
	redirect(w, r, "/admin/orders")
}

// AdminPayments renders the payment management screen.
func (h *Handlers) AdminPayments(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())

	var (
		payments []api.Payment
		err      error
	)
	status := r.URL.Query().Get("status")
	if status != "" {
		payments, err = env.API.Payments.ByStatus(r.Context(), status)
	} else {
		payments, err = env.API.Payments.List(r.Context())
	}
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(payments, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "Manage payments", CurrentPage: "admin"}).
		With("Payments", page).
		With("SelectedStatus", status).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "admin_payments", data)
}

// AdminPaymentConfirm marks a pending payment completed.
func (h *Handlers) AdminPaymentConfirm(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := env.API.Payments.Confirm(r.Context(), r.PathValue("id")); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Payment confirmed."}})
	redirect(w, r, "/admin/payments")
}

// AdminPaymentStatus moves a payment to the submitted state.
func (h *Handlers) AdminPaymentStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := env.API.Payments.SetStatus(r.Context(), r.PathValue("id"), r.PostFormValue("status")); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Payment updated."}})
	redirect(w, r, "/admin/payments")
}

// AdminNews renders the article management screen.
func (h *Handlers) AdminNews(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	articles, err := env.API.News.List(r.Context())
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(articles, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "Manage news", CurrentPage: "admin"}).
		With("Articles", page).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "admin_news", data)
}

func newsInputFromForm(r *http.Request) (api.NewsInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return api.NewsInput{}, err
	}
	cover, err := formFile(r, "coverImageFile")
	if err != nil {
		return api.NewsInput{}, err
	}
	return api.NewsInput{
		Title:      strings.TrimSpace(r.PostFormValue("title")),
		Slug:       strings.TrimSpace(r.PostFormValue("slug")),
		Excerpt:    r.PostFormValue("excerpt"),
		Content:    r.PostFormValue("content"),
		Status:     r.PostFormValue("status"),
		CoverImage: cover,
	}, nil
}

// AdminNewsCreate publishes a new article.
func (h *Handlers) AdminNewsCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	input, err := newsInputFromForm(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if _, err := env.API.News.Create(r.Context(), input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Article created."}})
	redirect(w, r, "/admin/news")
}

// AdminNewsUpdate edits an article.
func (h *Handlers) AdminNewsUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	newsID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	input, err := newsInputFromForm(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if _, err := env.API.News.Update(r.Context(), newsID, input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Article updated."}})
	redirect(w, r, "/admin/news")
}

// AdminNewsDelete removes an article.
func (h *Handlers) AdminNewsDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	newsID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := env.API.News.Delete(r.Context(), newsID); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Article deleted."}})
	redirect(w, r, "/admin/news")
}

// AdminUsers renders the user management screen.
func (h *Handlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	users, err := env.API.Users.List(r.Context())
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(users, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "Manage users", CurrentPage: "admin"}).
		With("Users", page).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "admin_users", data)
}

// AdminUserCreate provisions a user with a login account.
func (h *Handlers) AdminUserCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	avatar, err := formFile(r, "avatarFile")
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := api.UserCreateInput{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Phone:    r.PostFormValue("phone"),
		Gender:   r.PostFormValue("gender"),
		DOB:      r.PostFormValue("dob"),
		Role:     r.PostFormValue("role"),
		Address:  r.PostFormValue("address"),
		Avatar:   avatar,
	}
	if _, err := env.API.Users.Create(r.Context(), input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "User created."}})
	redirect(w, r, "/admin/users")
}

// AdminUserDelete removes a user.
func (h *Handlers) AdminUserDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := env.API.Users.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "User deleted."}})
	redirect(w, r, "/admin/users")
}

// AdminPromotions renders the promotion management screen.
func (h *Handlers) AdminPromotions(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	promotions, err := env.API.Promotions.Active(r.Context())
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	data := NewTemplateData(w, r, PageMeta{Title: "Manage promotions", CurrentPage: "admin"}).
		With("Promotions", promotions).
		Build()
	h.render.RenderPage(w, r, "admin_promotions", data)
}

// AdminPromotionCreate starts a promotion.
func (h *Handlers) AdminPromotionCreate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	value, _ := strconv.ParseFloat(r.PostFormValue("discountValue"), 64)
	input := api.PromotionInput{
		Title:         strings.TrimSpace(r.PostFormValue("title")),
		Description:   r.PostFormValue("description"),
		DiscountType:  r.PostFormValue("discountType"),
		DiscountValue: value,
		StartAt:       r.PostFormValue("startAt"),
		EndAt:         r.PostFormValue("endAt"),
		Active:        r.PostFormValue("active") == "on" || r.PostFormValue("active") == "true",
		AppliesTo:     r.PostFormValue("appliesTo"),
	}
	if brands := r.PostFormValue("targetBrands"); brands != "" {
		input.TargetBrands = strings.Split(brands, ",")
	}
	if _, err := env.API.Promotions.Create(r.Context(), input); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Promotion created."}})
	redirect(w, r, "/admin/promotions")
}

// AdminPromotionDelete ends a promotion.
func (h *Handlers) AdminPromotionDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	env := EnvFromContext(r.Context())
	promotionID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := env.API.Promotions.Delete(r.Context(), promotionID); err != nil {
		h.deliver(w, r, err)
		return
	}
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Promotion removed."}})
	redirect(w, r, "/admin/promotions")
}
