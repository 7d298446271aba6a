package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	compareCookieName = "compare"
	compareTrayLimit  = 4
)

// compareTray reads the comparison tray ids from the cookie.
func compareTray(r *http.Request) []int {
	c, err := r.Cookie(compareCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.Split(c.Value, "-")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.Atoi(p); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeCompareTray(w http.ResponseWriter, ids []int) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     compareCookieName,
		Value:    strings.Join(parts, "-"),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// Compare renders the tray side by side.
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	ids := compareTray(r)

	data := NewTemplateData(w, r, PageMeta{Title: "Compare", CurrentPage: "compare"})
	if len(ids) > 0 {
		compared, err := env.API.Compare.Cars(r.Context(), ids)
		if err != nil {
			h.deliver(w, r, err)
			return
		}
		data.With("Cars", compared)
	}
	h.render.RenderPage(w, r, "compare", data.With("Count", len(ids)).Build())
}

// CompareAdd adds a car to the tray, capped at the tray limit.
func (h *Handlers) CompareAdd(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	ids := compareTray(r)
	for _, existing := range ids {
		if existing == id {
			redirect(w, r, "/compare")
			return
		}
	}
	if len(ids) >= compareTrayLimit {
		pushFlashes(w, r, []Toast{{Level: toastWarning,
			Message: "You can compare up to 4 cars at a time."}})
		redirect(w, r, "/compare")
		return
	}
	writeCompareTray(w, append(ids, id))
	redirect(w, r, "/compare")
}

// CompareRemove drops a car from the tray.
func (h *Handlers) CompareRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	ids := compareTray(r)
	kept := make([]int, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	writeCompareTray(w, kept)
	redirect(w, r, "/compare")
}
