package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
)

// Handlers owns the rendered storefront and admin screens.
type Handlers struct {
	render *TemplateRenderer
	logger *slog.Logger
}

// NewHandlers constructs the UI handler set.
func NewHandlers(render *TemplateRenderer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{render: render, logger: logger}
}

// RouterConfig wires the router dependencies.
type RouterConfig struct {
	Sessions *SessionManager
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	// StaticFS is rooted at frontend/static and served under /static/
	// (optional).
	StaticFS fs.FS
}

// NewRouter creates and configures the HTTP router with the browser session
// middleware applied to every UI route.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	h := NewHandlers(cfg.Renderer, cfg.Logger)

	// Public storefront
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /cars", h.CarList)
	mux.HandleFunc("GET /cars/{id}", h.CarDetail)
	mux.HandleFunc("GET /news", h.NewsList)
	mux.HandleFunc("GET /news/{id}", h.NewsDetail)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("GET /compare", h.Compare)
	mux.HandleFunc("POST /compare/{id}", h.CompareAdd)
	mux.HandleFunc("POST /compare/{id}/remove", h.CompareRemove)

	// Authentication screens
	mux.HandleFunc("GET /auth", h.AuthScreen)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	// Signed-in account screens
	mux.HandleFunc("GET /profile", h.Profile)
	mux.HandleFunc("GET /orders", h.MyOrders)
	mux.HandleFunc("GET /orders/{id}", h.OrderDetail)
	mux.HandleFunc("GET /checkout", h.CheckoutForm)
	mux.HandleFunc("POST /checkout", h.CheckoutSubmit)

	// Admin screens
	mux.HandleFunc("GET /admin", h.AdminDashboard)
	mux.HandleFunc("GET /admin/cars", h.AdminCars)
	mux.HandleFunc("POST /admin/cars", h.AdminCarCreate)
	mux.HandleFunc("POST /admin/cars/{id}", h.AdminCarUpdate)
	mux.HandleFunc("POST /admin/cars/{id}/delete", h.AdminCarDelete)
	mux.HandleFunc("POST /admin/cars/{id}/detail", h.AdminCarDetailUpsert)
	mux.HandleFunc("GET /admin/orders", h.AdminOrders)
	mux.HandleFunc("POST /admin/orders/{id}/status", h.AdminOrderStatus)
	mux.HandleFunc("POST /admin/orders/{id}/delete", h.AdminOrderDelete)
	mux.HandleFunc("GET /admin/payments", h.AdminPayments)
	mux.HandleFunc("POST /admin/payments/{id}/confirm", h.AdminPaymentConfirm)
	mux.HandleFunc("POST /admin/payments/{id}/status", h.AdminPaymentStatus)
	mux.HandleFunc("GET /admin/news", h.AdminNews)
	mux.HandleFunc("POST /admin/news", h.AdminNewsCreate)
	mux.HandleFunc("POST /admin/news/{id}", h.AdminNewsUpdate)
	mux.HandleFunc("POST /admin/news/{id}/delete", h.AdminNewsDelete)
	mux.HandleFunc("GET /admin/users", h.AdminUsers)
	mux.HandleFunc("POST /admin/users", h.AdminUserCreate)
	mux.HandleFunc("POST /admin/users/{id}/delete", h.AdminUserDelete)
	mux.HandleFunc("GET /admin/promotions", h.AdminPromotions)
	mux.HandleFunc("POST /admin/promotions", h.AdminPromotionCreate)
	mux.HandleFunc("POST /admin/promotions/{id}/delete", h.AdminPromotionDelete)

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	handler := cfg.Sessions.WithSession(mux)
	if cfg.StaticFS == nil {
		return handler
	}

	// Static assets bypass the session middleware.
	outer := http.NewServeMux()
	outer.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(cfg.StaticFS)))
	outer.Handle("/", handler)
	return outer
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
