package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// News mirrors the upstream news article resource. CoverImageURL holds a bare
// filename; use ImageURL to resolve it.
type News struct {
	NewsID        int    `json:"newsId"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	CoverImageURL string `json:"coverImageUrl"`
	Status        string `json:"status"`
	PublishedAt   string `json:"publishedAt"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// NewsInput is the writable article payload, submitted as multipart form data
// so the cover image can ride along.
type NewsInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	Status     string
	CoverImage *FileUpload
}

func (in NewsInput) form() ([][2]string, []FileUpload) {
	fields := [][2]string{
		{"title", in.Title},
		{"slug", in.Slug},
		{"content", in.Content},
		{"status", in.Status},
	}
	if in.Excerpt != "" {
		fields = append(fields, [2]string{"excerpt", in.Excerpt})
	}
	var files []FileUpload
	if in.CoverImage != nil {
		f := *in.CoverImage
		if f.Field == "" {
			f.Field = "coverImageFile"
		}
		files = append(files, f)
	}
	return fields, files
}

// NewsClient talks to the news endpoints.
type NewsClient struct {
	c Caller
}

// NewNews constructs the news endpoint client.
func NewNews(c Caller) *NewsClient { return &NewsClient{c: c} }

// List returns every article.
func (a *NewsClient) List(ctx context.Context) ([]News, error) {
	return call[[]News](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/news"))
}

// Get returns one article by id.
func (a *NewsClient) Get(ctx context.Context, newsID int) (News, error) {
	d := upstream.NewDescriptor(http.MethodGet, fmt.Sprintf("/news/%d", newsID))
	return call[News](ctx, a.c, d)
}

// Create publishes a new article.
func (a *NewsClient) Create(ctx context.Context, in NewsInput) (News, error) {
	fields, files := in.form()
	body, ct, err := encodeMultipart(fields, files...)
	if err != nil {
		return News{}, err
	}
	d := upstream.NewMultipartDescriptor(http.MethodPost, "/news", body, ct)
	return call[News](ctx, a.c, d)
}

// Update replaces an article; a nil CoverImage keeps the current one.
func (a *NewsClient) Update(ctx context.Context, newsID int, in NewsInput) (News, error) {
	fields, files := in.form()
	body, ct, err := encodeMultipart(fields, files...)
	if err != nil {
		return News{}, err
	}
	d := upstream.NewMultipartDescriptor(http.MethodPut, fmt.Sprintf("/news/%d", newsID), body, ct)
	return call[News](ctx, a.c, d)
}

// Delete removes an article.
func (a *NewsClient) Delete(ctx context.Context, newsID int) error {
	return callVoid(ctx, a.c, upstream.NewDescriptor(http.MethodDelete, fmt.Sprintf("/news/%d", newsID)))
}

// ImageURL resolves a stored cover filename to its public URL. Full URLs are
// returned untouched.
func (a *NewsClient) ImageURL(filename string) string {
	if filename == "" || strings.HasPrefix(filename, "http") {
		return filename
	}
	return strings.TrimSuffix(a.c.BaseURL(), "/") + "/image/" + filename
}
