package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// Car mirrors the upstream car resource.
type Car struct {
	CarID           int     `json:"carId"`
	Brand           string  `json:"brand"`
	Category        string  `json:"category"`
	Model           string  `json:"model"`
	ManufactureYear int     `json:"manufactureYear"`
	Price           float64 `json:"price"`
	Color           string  `json:"color"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	ImageURL        string  `json:"imageUrl"`
}

// CarInput is the writable car payload. It is submitted as multipart form
// data so the image file can ride along.
type CarInput struct {
	Brand           string
	Category        string
	Model           string
	ManufactureYear int
	Price           float64
	Color           string
	Description     string
	Status          string
	Image           *FileUpload
}

func (in CarInput) form() ([][2]string, []FileUpload) {
	fields := [][2]string{
		{"brand", in.Brand},
		{"category", in.Category},
		{"model", in.Model},
		{"manufactureYear", strconv.Itoa(in.ManufactureYear)},
		{"price", strconv.FormatFloat(in.Price, 'f', -1, 64)},
		{"color", in.Color},
		{"description", in.Description},
		{"status", in.Status},
	}
	var files []FileUpload
	if in.Image != nil {
		f := *in.Image
		if f.Field == "" {
			f.Field = "imageFile"
		}
		files = append(files, f)
	}
	return fields, files
}

// CarDetail mirrors the upstream technical specification resource.
type CarDetail struct {
	CarDetailID     int     `json:"carDetailId"`
	CarID           int     `json:"carId"`
	Engine          string  `json:"engine"`
	Horsepower      int     `json:"horsepower"`
	Torque          int     `json:"torque"`
	Transmission    string  `json:"transmission"`
	FuelType        string  `json:"fuelType"`
	FuelConsumption float64 `json:"fuelConsumption"`
	Seats           int     `json:"seats"`
	Weight          int     `json:"weight"`
	Dimensions      string  `json:"dimensions"`
}

// CarDetailInput is the writable specification payload.
type CarDetailInput struct {
	Engine          string  `json:"engine"`
	Horsepower      int     `json:"horsepower"`
	Torque          int     `json:"torque"`
	Transmission    string  `json:"transmission"`
	FuelType        string  `json:"fuelType"`
	FuelConsumption float64 `json:"fuelConsumption"`
	Seats           int     `json:"seats"`
	Weight          int     `json:"weight"`
	Dimensions      string  `json:"dimensions"`
}

// Cars talks to the car catalog and specification endpoints.
type Cars struct {
	c Caller
}

// NewCars constructs the car endpoint client.
func NewCars(c Caller) *Cars { return &Cars{c: c} }

// List returns the full catalog.
func (a *Cars) List(ctx context.Context) ([]Car, error) {
	return call[[]Car](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/cars"))
}

// Get returns one car by id.
func (a *Cars) Get(ctx context.Context, carID int) (Car, error) {
	d := upstream.NewDescriptor(http.MethodGet, fmt.Sprintf("/cars/%d", carID))
	return call[Car](ctx, a.c, d)
}

// Filter returns cars narrowed by brand and/or category. Empty selectors fall
// back to the broader listing, cascading the way the catalog screens filter.
func (a *Cars) Filter(ctx context.Context, brand, category string) ([]Car, error) {
	path := "/cars"
	switch {
	case brand != "" && category != "":
		path = fmt.Sprintf("/cars/brand/%s/category/%s", brand, category)
	case brand != "":
		path = "/cars/brand/" + brand
	case category != "":
		path = "/cars/category/" + category
	}
	return call[[]Car](ctx, a.c, upstream.NewDescriptor(http.MethodGet, path))
}

// Create adds a car to the catalog.
func (a *Cars) Create(ctx context.Context, in CarInput) error {
	fields, files := in.form()
	body, ct, err := encodeMultipart(fields, files...)
	if err != nil {
		return err
	}
	return callVoid(ctx, a.c, upstream.NewMultipartDescriptor(http.MethodPost, "/cars", body, ct))
}

// Update replaces a car's attributes; a nil Image keeps the current one.
func (a *Cars) Update(ctx context.Context, carID int, in CarInput) error {
	fields, files := in.form()
	body, ct, err := encodeMultipart(fields, files...)
	if err != nil {
		return err
	}
	d := upstream.NewMultipartDescriptor(http.MethodPut, fmt.Sprintf("/cars/%d", carID), body, ct)
	return callVoid(ctx, a.c, d)
}

// Delete removes a car from the catalog.
func (a *Cars) Delete(ctx context.Context, carID int) error {
	return callVoid(ctx, a.c, upstream.NewDescriptor(http.MethodDelete, fmt.Sprintf("/cars/%d", carID)))
}

// ImageURL resolves a stored image filename to its public URL. Full URLs are
// returned untouched.
func (a *Cars) ImageURL(filename string) string {
	if filename == "" || strings.HasPrefix(filename, "http") {
		return filename
	}
	return strings.TrimSuffix(a.c.BaseURL(), "/") + "/cars/image/" + filename
}

// Details returns every car specification sheet.
func (a *Cars) Details(ctx context.Context) ([]CarDetail, error) {
	return call[[]CarDetail](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/car-details"))
}

// DetailByCar returns the specification sheet for one car.
func (a *Cars) DetailByCar(ctx context.Context, carID int) (CarDetail, error) {
	d := upstream.NewDescriptor(http.MethodGet, fmt.Sprintf("/car-details/car/%d", carID))
	return call[CarDetail](ctx, a.c, d)
}

// CreateDetail attaches a specification sheet to a car.
func (a *Cars) CreateDetail(ctx context.Context, carID int, in CarDetailInput) error {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, fmt.Sprintf("/car-details/%d", carID), in)
	if err != nil {
		return err
	}
	return callVoid(ctx, a.c, d)
}

// UpdateDetail replaces a specification sheet.
func (a *Cars) UpdateDetail(ctx context.Context, carDetailID int, in CarDetailInput) error {
	d, err := upstream.NewJSONDescriptor(http.MethodPut, fmt.Sprintf("/car-details/%d", carDetailID), in)
	if err != nil {
		return err
	}
	return callVoid(ctx, a.c, d)
}

// DeleteDetail removes a specification sheet.
func (a *Cars) DeleteDetail(ctx context.Context, carDetailID int) error {
	d := upstream.NewDescriptor(http.MethodDelete, fmt.Sprintf("/car-details/%d", carDetailID))
	return callVoid(ctx, a.c, d)
}
