package httpx

import (
	"net/http"
	"strings"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
	"github.com/auto88/auto88-ui/internal/upstream"
	"github.com/auto88/auto88-ui/internal/upstream/api"
)

// AuthScreen renders the combined sign-in / register screen. Signed-in users
// are sent home.
func (h *Handlers) AuthScreen(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	if env.Snapshot().Authenticated() {
		redirect(w, r, upstream.HomePath)
		return
	}
	data := NewTemplateData(w, r, PageMeta{Title: "Sign in", CurrentPage: "auth"}).
		With("Next", sanitizeNext(r.URL.Query().Get("next"))).
		Build()
	h.render.RenderPage(w, r, "auth", data)
}

// Login exchanges the submitted credentials for a token and establishes the
// session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.renderAuthError(w, r, "Username and password are required.")
		return
	}

	jwt, err := env.API.Auth.Login(r.Context(), api.LoginRequest{Username: username, Password: password})
	if err != nil {
		if apperrors.IsUnauthorized(err) || apperrors.IsUpstream(err) {
			h.renderAuthError(w, r, "Invalid username or password.")
			return
		}
		h.deliver(w, r, err)
		return
	}

	if err := env.State.Establish(r.Context(), jwt.Token, username); err != nil {
		h.renderAuthError(w, r, "Sign-in succeeded but the session could not be established.")
		return
	}

	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Welcome back, " + username + "."}})
	redirect(w, r, sanitizeNext(r.PostFormValue("next")))
}

// Register creates an account, then prompts the user to sign in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := api.RegisterRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
	}
	if req.Username == "" || req.Password == "" {
		h.renderAuthError(w, r, "Username and password are required.")
		return
	}

	if err := env.API.Auth.Register(r.Context(), req); err != nil {
		h.renderAuthError(w, r, userMessage(err))
		return
	}

	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "Account created. Please sign in."}})
	redirect(w, r, upstream.AuthScreenPath)
}

// Logout drops the session and returns to the storefront.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	env.State.Clear(r.Context())
	pushFlashes(w, r, []Toast{{Level: toastSuccess, Message: "You have been signed out."}})
	redirect(w, r, upstream.HomePath)
}

func (h *Handlers) renderAuthError(w http.ResponseWriter, r *http.Request, msg string) {
	data := NewTemplateData(w, r, PageMeta{Title: "Sign in", CurrentPage: "auth"}).
		WithToasts([]Toast{{Level: toastError, Message: msg}}).
		With("Next", sanitizeNext(r.PostFormValue("next"))).
		With("Username", r.PostFormValue("username")).
		Build()
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.render.RenderPage(w, r, "auth", data)
}

// sanitizeNext keeps post-login redirects on-site.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return upstream.HomePath
	}
	return next
}
