package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/auto88/auto88-ui/internal/upstream/api"
)

// Home renders the landing page. The sections bundle and the running
// promotions are fetched concurrently, each call carrying its own request
// record through the pipeline.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())

	var (
		sections   api.HomeSections
		promotions []api.Promotion
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		sections, err = env.API.Home.Sections(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		promotions, err = env.API.Promotions.Active(ctx)
		if err != nil {
			// The storefront renders without the promo rail.
			h.logger.WarnContext(ctx, "promotions unavailable", "error", err)
			promotions = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.deliver(w, r, err)
		return
	}

	data := NewTemplateData(w, r, PageMeta{Title: "Auto88", CurrentPage: "home"}).
		With("Featured", sections.Featured).
		With("Brands", sections.Brands).
		With("Categories", sections.Categories).
		With("News", sections.News).
		With("Promotions", promotions).
		Build()
	h.render.RenderPage(w, r, "home", data)
}

var carSorters = map[string]func(a, b api.Car) bool{
	"price": func(a, b api.Car) bool { return a.Price < b.Price },
	"year":  func(a, b api.Car) bool { return a.ManufactureYear < b.ManufactureYear },
	"model": func(a, b api.Car) bool { return a.Model < b.Model },
}

// CarList renders the catalog. Brand and category narrow the upstream fetch;
// keyword, sorting, and paging are applied to the returned collection.
func (h *Handlers) CarList(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	q := r.URL.Query()
	brand := q.Get("brand")
	category := q.Get("category")

	var (
		cars       []api.Car
		brands     []string
		categories []string
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		cars, err = env.API.Cars.Filter(ctx, brand, category)
		return err
	})
	g.Go(func() error {
		var err error
		if brands, err = env.API.Meta.Brands(ctx); err != nil {
			h.logger.WarnContext(ctx, "brand lookup unavailable", "error", err)
		}
		if categories, err = env.API.Meta.Categories(ctx); err != nil {
			h.logger.WarnContext(ctx, "category lookup unavailable", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.deliver(w, r, err)
		return
	}

	if keyword := strings.TrimSpace(q.Get("q")); keyword != "" {
		cars = filterCars(cars, keyword)
	}
	field, dir := ParseSortParam(q, "sort", "dir")
	SortBy(cars, field, dir, carSorters)
	page, pagination := Paginate(cars, q)

	data := NewTemplateData(w, r, PageMeta{Title: "Cars", CurrentPage: "cars"}).
		With("Cars", page).
		With("Brands", brands).
		With("Categories", categories).
		With("SelectedBrand", brand).
		With("SelectedCategory", category).
		With("Keyword", q.Get("q")).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "cars", data)
}

func filterCars(cars []api.Car, keyword string) []api.Car {
	needle := strings.ToLower(keyword)
	out := make([]api.Car, 0, len(cars))
	for _, c := range cars {
		haystack := strings.ToLower(c.Model + " " + c.Brand + " " + c.Description)
		if strings.Contains(haystack, needle) {
			out = append(out, c)
		}
	}
	return out
}

// CarDetail renders one car with its specification sheet. The sheet is
// optional; cars without one still render.
func (h *Handlers) CarDetail(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	carID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var (
		car    api.Car
		detail *api.CarDetail
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		car, err = env.API.Cars.Get(ctx, carID)
		return err
	})
	g.Go(func() error {
		d, err := env.API.Cars.DetailByCar(ctx, carID)
		if err != nil {
			h.logger.InfoContext(ctx, "no specification sheet", "car_id", carID)
			return nil
		}
		detail = &d
		return nil
	})
	if err := g.Wait(); err != nil {
		h.deliver(w, r, err)
		return
	}

	data := NewTemplateData(w, r, PageMeta{Title: car.Model, CurrentPage: "cars"}).
		With("Car", car).
		With("Detail", detail).
		With("ImageURL", env.API.Cars.ImageURL(car.ImageURL)).
		Build()
	h.render.RenderPage(w, r, "car_detail", data)
}

// NewsList renders the news index.
func (h *Handlers) NewsList(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	articles, err := env.API.News.List(r.Context())
	if err != nil {
		h.deliver(w, r, err)
		return
	}
	page, pagination := Paginate(articles, r.URL.Query())

	data := NewTemplateData(w, r, PageMeta{Title: "News", CurrentPage: "news"}).
		With("Articles", page).
		WithPagination(pagination).
		Build()
	h.render.RenderPage(w, r, "news", data)
}

// NewsDetail renders one article.
func (h *Handlers) NewsDetail(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	newsID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	article, err := env.API.News.Get(r.Context(), newsID)
	if err != nil {
		h.deliver(w, r, err)
		return
	}

	data := NewTemplateData(w, r, PageMeta{Title: article.Title, CurrentPage: "news"}).
		With("Article", article).
		With("CoverURL", env.API.News.ImageURL(article.CoverImageURL)).
		Build()
	h.render.RenderPage(w, r, "news_detail", data)
}

// Search renders the catalog search screen.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	env := EnvFromContext(r.Context())
	q := r.URL.Query()
	filter := api.SearchFilter{
		Keyword:  q.Get("keyword"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
		Color:    q.Get("color"),
	}
	filter.PriceMin, _ = strconv.ParseFloat(q.Get("priceMin"), 64)
	filter.PriceMax, _ = strconv.ParseFloat(q.Get("priceMax"), 64)
	filter.YearFrom, _ = strconv.Atoi(q.Get("yearFrom"))
	filter.YearTo, _ = strconv.Atoi(q.Get("yearTo"))

	var results []api.Car
	if filter != (api.SearchFilter{}) {
		var err error
		results, err = env.API.Search.Cars(r.Context(), filter)
		if err != nil {
			h.deliver(w, r, err)
			return
		}
	}

	data := NewTemplateData(w, r, PageMeta{Title: "Search", CurrentPage: "search"}).
		With("Results", results).
		With("Filter", filter).
		With("Searched", filter != (api.SearchFilter{})).
		Build()
	h.render.RenderPage(w, r, "search", data)
}
