package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "flash"

// Toast is a one-shot user notice carried across a redirect in a flash
// cookie and rendered by the layout on the next page.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	toastError   = "error"
	toastWarning = "warning"
	toastSuccess = "success"
)

// pushFlashes appends toasts to the flash cookie, preserving any already
// queued this response cycle. htmx requests additionally get the toasts
// announced through an Hx-Trigger "toast" event, since a swapped fragment
// never re-renders the layout's toast region.
func pushFlashes(w http.ResponseWriter, r *http.Request, toasts []Toast) {
	if len(toasts) == 0 {
		return
	}
	existing := readFlashes(r)
	all := append(existing, toasts...)
	raw, err := json.Marshal(all)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if IsHTMX(r) {
		SetHXTrigger(w, "toast", all)
	}
}

// popFlashes reads and clears the queued toasts.
func popFlashes(w http.ResponseWriter, r *http.Request) []Toast {
	toasts := readFlashes(r)
	if len(toasts) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return toasts
}

func readFlashes(r *http.Request) []Toast {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var toasts []Toast
	if err := json.Unmarshal(raw, &toasts); err != nil {
		return nil
	}
	return toasts
}
