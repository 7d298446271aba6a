package httpx

import (
	"net/http"
)

// PageMeta contains page metadata for rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a builder seeded with the base page data every
// layout render needs: meta, session identity, and queued toasts.
func NewTemplateData(w http.ResponseWriter, r *http.Request, meta PageMeta) *TemplateDataBuilder {
	data := map[string]any{
		"Title":       meta.Title,
		"CurrentPage": meta.CurrentPage,
		"Path":        r.URL.Path,
		"Toasts":      popFlashes(w, r),
	}
	if env := EnvFromContext(r.Context()); env != nil {
		snap := env.Snapshot()
		data["Authenticated"] = snap.Authenticated()
		data["IsAdmin"] = snap.IsAdmin()
		data["DisplayName"] = snap.DisplayName()
		if snap.Profile != nil {
			data["Profile"] = snap.Profile
		}
	}
	return &TemplateDataBuilder{data: data}
}

// With adds one key to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// WithToasts appends request-scoped toasts for immediate rendering.
func (b *TemplateDataBuilder) WithToasts(toasts []Toast) *TemplateDataBuilder {
	if len(toasts) == 0 {
		return b
	}
	existing, _ := b.data["Toasts"].([]Toast)
	b.data["Toasts"] = append(existing, toasts...)
	return b
}

// WithPagination adds pagination data for list views.
func (b *TemplateDataBuilder) WithPagination(p Pagination) *TemplateDataBuilder {
	b.data["Pagination"] = p
	return b
}

// Build returns the assembled map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
