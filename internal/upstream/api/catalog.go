package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// These read-only catalog endpoints respond with bare JSON bodies rather
// than the standard envelope.

// Meta serves the enum-style lookups backing filter dropdowns.
type Meta struct {
	c Caller
}

// NewMeta constructs the meta endpoint client.
func NewMeta(c Caller) *Meta { return &Meta{c: c} }

// Brands lists the known car brands.
func (a *Meta) Brands(ctx context.Context) ([]string, error) {
	return callRaw[[]string](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/meta/brands"))
}

// Categories lists the known car categories.
func (a *Meta) Categories(ctx context.Context) ([]string, error) {
	return callRaw[[]string](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/meta/categories"))
}

// Colors lists the known car colors.
func (a *Meta) Colors(ctx context.Context) ([]string, error) {
	return callRaw[[]string](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/meta/colors"))
}

// Home serves the landing page content.
type Home struct {
	c Caller
}

// NewHome constructs the home endpoint client.
func NewHome(c Caller) *Home { return &Home{c: c} }

// HomeSections is the landing page content bundle.
type HomeSections struct {
	Featured   []Car           `json:"featured"`
	Brands     []string        `json:"brands"`
	Categories []string        `json:"categories"`
	News       []News          `json:"news"`
	Extra      json.RawMessage `json:"extra,omitempty"`
}

// Sections fetches the landing page bundle in one call.
func (a *Home) Sections(ctx context.Context) (HomeSections, error) {
	return callRaw[HomeSections](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/home/sections"))
}

// Search runs the catalog search endpoint.
type Search struct {
	c Caller
}

// NewSearch constructs the search endpoint client.
func NewSearch(c Caller) *Search { return &Search{c: c} }

// SearchFilter narrows a car search. Zero values are omitted from the query.
type SearchFilter struct {
	Keyword  string
	Brand    string
	Category string
	Color    string
	PriceMin float64
	PriceMax float64
	YearFrom int
	YearTo   int
}

func (f SearchFilter) query() url.Values {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("keyword", f.Keyword)
	set("brand", f.Brand)
	set("category", f.Category)
	set("color", f.Color)
	if f.PriceMin > 0 {
		q.Set("priceMin", strconv.FormatFloat(f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax > 0 {
		q.Set("priceMax", strconv.FormatFloat(f.PriceMax, 'f', -1, 64))
	}
	if f.YearFrom > 0 {
		q.Set("yearFrom", strconv.Itoa(f.YearFrom))
	}
	if f.YearTo > 0 {
		q.Set("yearTo", strconv.Itoa(f.YearTo))
	}
	return q
}

// Cars returns the cars matching the filter.
func (a *Search) Cars(ctx context.Context, f SearchFilter) ([]Car, error) {
	d := upstream.NewDescriptor(http.MethodGet, "/search/cars").WithQuery(f.query())
	return callRaw[[]Car](ctx, a.c, d)
}

// Compare serves the side-by-side comparison endpoint.
type Compare struct {
	c Caller
}

// NewCompare constructs the compare endpoint client.
func NewCompare(c Caller) *Compare { return &Compare{c: c} }

// Cars returns the selected cars for side-by-side comparison.
func (a *Compare) Cars(ctx context.Context, ids []int) ([]Car, error) {
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(joined, ","))
	d := upstream.NewDescriptor(http.MethodGet, "/cars/compare").WithQuery(q)
	return callRaw[[]Car](ctx, a.c, d)
}
