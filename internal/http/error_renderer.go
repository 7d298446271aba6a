package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
)

// deliver finishes a request whose upstream call failed. The pipeline has
// already decided the user-facing reaction (toasts, navigation); this
// translates it to the browser: flash the toasts, honor the recorded
// redirect, and fall back to an in-place error page for everything else.
//
// Returns true when the response has been written.
func (h *Handlers) deliver(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	env := EnvFromContext(r.Context())
	if env == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return true
	}

	toasts := env.UI.Toasts()
	if target := env.UI.Redirect(); target != "" {
		pushFlashes(w, r, toasts)
		redirect(w, r, target)
		return true
	}

	switch {
	case apperrors.IsForbidden(err):
		// Denied in place: bounce back to the page the user was on with the
		// warning queued.
		pushFlashes(w, r, toasts)
		redirect(w, r, env.UI.CurrentPath(r.Context()))
	default:
		h.logger.ErrorContext(r.Context(), "upstream call failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		data := NewTemplateData(w, r, PageMeta{Title: "Something went wrong"}).
			WithToasts(toasts).
			With("Message", userMessage(err)).
			Build()
		w.WriteHeader(errorStatus(err))
		h.render.RenderPage(w, r, "error", data)
	}
	return true
}

// redirect sends the browser to target, via header for htmx requests and a
// 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// userMessage picks a renderable message for the error page.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "The dealership service is unavailable right now. Please try again."
}

func errorStatus(err error) int {
	if status := apperrors.GetStatus(err); status >= 400 {
		return status
	}
	return http.StatusBadGateway
}
