package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	// TemplateFS contains layout.tmpl and pages/*.tmpl (required).
	TemplateFS fs.FS
	// Logger for template errors (optional).
	Logger *slog.Logger
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// templateFuncs builds the func map. The template pointer is filled in after
// parsing, which lets "include" dispatch to page templates by name.
func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"include": func(name string, data any) (template.HTML, error) {
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, name, data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
		"money": func(v float64) string {
			whole := fmt.Sprintf("%.0f", v)
			neg := strings.HasPrefix(whole, "-")
			whole = strings.TrimPrefix(whole, "-")
			var b strings.Builder
			for i, d := range whole {
				if i > 0 && (len(whole)-i)%3 == 0 {
					b.WriteByte(',')
				}
				b.WriteRune(d)
			}
			out := "$" + b.String()
			if neg {
				out = "-" + out
			}
			return out
		},
		"year": func() int { return time.Now().Year() },
		"lower": strings.ToLower,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		},
	}
}

// RenderPage renders the named page inside the full layout, or alone for
// htmx partial requests. Rendering goes through a buffer so a template error
// never leaves a half-written page.
func (tr *TemplateRenderer) RenderPage(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	target := "layout"
	if WantsPartial(r) {
		target = name
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Page"] = name

	var buf bytes.Buffer
	if err := tr.t.ExecuteTemplate(&buf, target, data); err != nil {
		tr.logger.Error("template render failed",
			slog.String("template", target), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
