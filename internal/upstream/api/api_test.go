package api

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
	"github.com/auto88/auto88-ui/internal/upstream"
)

// fakeCaller records the descriptors it receives and plays back scripted
// responses.
type fakeCaller struct {
	descriptors []*upstream.Descriptor
	status      int
	body        string
	base        string
}

func (f *fakeCaller) Do(_ context.Context, d *upstream.Descriptor) (*http.Response, error) {
	f.descriptors = append(f.descriptors, d)
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(f.body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func (f *fakeCaller) BaseURL() string {
	if f.base == "" {
		return "http://upstream.test/api"
	}
	return f.base
}

func (f *fakeCaller) last(t *testing.T) *upstream.Descriptor {
	t.Helper()
	require.NotEmpty(t, f.descriptors)
	return f.descriptors[len(f.descriptors)-1]
}

func TestCall_UnwrapsEnvelope(t *testing.T) {
	fc := &fakeCaller{body: `{"code":200,"message":"Success","data":[{"carId":1,"model":"Ioniq 5"}]}`}

	cars, err := NewCars(fc).List(context.Background())

	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Ioniq 5", cars[0].Model)
	d := fc.last(t)
	assert.Equal(t, http.MethodGet, d.Method)
	assert.Equal(t, "/cars", d.Path)
}

func TestCall_BusinessCodeFailure(t *testing.T) {
	fc := &fakeCaller{body: `{"code":404,"message":"car not found","data":null}`}

	_, err := NewCars(fc).Get(context.Background(), 9)

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Contains(t, err.Error(), "car not found")
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	fc := &fakeCaller{status: http.StatusInternalServerError, body: `{"code":500,"message":"boom"}`}

	_, err := NewOrders(fc).List(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatus(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestCallRaw_BareBody(t *testing.T) {
	fc := &fakeCaller{body: `["TOYOTA","VINFAST"]`}

	brands, err := NewMeta(fc).Brands(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"TOYOTA", "VINFAST"}, brands)
}

func TestCars_FilterCascade(t *testing.T) {
	tests := []struct {
		brand, category, want string
	}{
		{"", "", "/cars"},
		{"TOYOTA", "", "/cars/brand/TOYOTA"},
		{"", "SUV", "/cars/category/SUV"},
		{"TOYOTA", "SUV", "/cars/brand/TOYOTA/category/SUV"},
	}
	for _, tt := range tests {
		fc := &fakeCaller{body: `{"code":200,"message":"ok","data":[]}`}
		_, err := NewCars(fc).Filter(context.Background(), tt.brand, tt.category)
		require.NoError(t, err)
		assert.Equal(t, tt.want, fc.last(t).Path)
	}
}

func TestCars_ImageURL(t *testing.T) {
	a := NewCars(&fakeCaller{base: "http://upstream.test/api/"})
	assert.Equal(t, "http://upstream.test/api/cars/image/x.jpg", a.ImageURL("x.jpg"))
	assert.Equal(t, "http://cdn.test/y.jpg", a.ImageURL("http://cdn.test/y.jpg"))
	assert.Empty(t, a.ImageURL(""))
}

func TestCars_CreateEncodesMultipart(t *testing.T) {
	fc := &fakeCaller{body: `{"code":201,"message":"created","data":null}`}

	err := NewCars(fc).Create(context.Background(), CarInput{
		Brand:           "VINFAST",
		Category:        "SUV",
		Model:           "VF8",
		ManufactureYear: 2025,
		Price:           45000,
		Color:           "BLUE",
		Description:     "electric",
		Status:          "AVAILABLE",
		Image:           &FileUpload{Name: "vf8.jpg", Content: []byte("jpegbytes")},
	})
	require.NoError(t, err)

	d := fc.last(t)
	assert.True(t, d.Multipart)
	mediaType, params, err := mime.ParseMediaType(d.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(d.Body), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, "VF8", form.Value["model"][0])
	assert.Equal(t, "2025", form.Value["manufactureYear"][0])
	require.Len(t, form.File["imageFile"], 1)
	assert.Equal(t, "vf8.jpg", form.File["imageFile"][0].Filename)
}

func TestSearch_QueryEncoding(t *testing.T) {
	fc := &fakeCaller{body: `[]`}

	_, err := NewSearch(fc).Cars(context.Background(), SearchFilter{
		Keyword:  "hybrid",
		Brand:    "TOYOTA",
		PriceMax: 30000,
		YearFrom: 2022,
	})
	require.NoError(t, err)

	q := fc.last(t).Query
	assert.Equal(t, "hybrid", q.Get("keyword"))
	assert.Equal(t, "TOYOTA", q.Get("brand"))
	assert.Equal(t, "30000", q.Get("priceMax"))
	assert.Equal(t, "2022", q.Get("yearFrom"))
	assert.Empty(t, q.Get("category"), "zero filters are omitted")
	assert.Empty(t, q.Get("priceMin"))
}

func TestCompare_JoinsIDs(t *testing.T) {
	fc := &fakeCaller{body: `[]`}

	_, err := NewCompare(fc).Cars(context.Background(), []int{3, 7, 11})
	require.NoError(t, err)

	d := fc.last(t)
	assert.Equal(t, "/cars/compare", d.Path)
	assert.Equal(t, "3,7,11", d.Query.Get("ids"))
}

func TestOrders_SetStatusQuery(t *testing.T) {
	fc := &fakeCaller{body: `{"code":200,"message":"ok","data":{"orderId":"o-1","status":"CONFIRMED"}}`}

	order, err := NewOrders(fc).SetStatus(context.Background(), "o-1", "CONFIRMED")
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", order.Status)
	d := fc.last(t)
	assert.Equal(t, http.MethodPatch, d.Method)
	assert.Equal(t, "/orders/o-1/status", d.Path)
	assert.Equal(t, "CONFIRMED", d.Query.Get("status"))
	assert.Empty(t, d.Body)
}

func TestUsers_UpdateOmitsEmptyPassword(t *testing.T) {
	fc := &fakeCaller{body: `{"code":200,"message":"ok","data":null}`}

	err := NewUsers(fc).Update(context.Background(), "u-1", UserUpdateInput{
		FullName: "Minh Nguyen",
		Email:    "minh@example.com",
		Role:     "USER",
		Status:   "ACTIVE",
	})
	require.NoError(t, err)

	d := fc.last(t)
	_, params, err := mime.ParseMediaType(d.ContentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(bytes.NewReader(d.Body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.NotContains(t, form.Value, "password",
		"a blank password must not be submitted")
}

func TestUser_ProfileConversion(t *testing.T) {
	u := User{UserID: "u-1", Username: "minh", FullName: "Minh Nguyen", Role: "ADMIN"}
	p := u.Profile()
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, "minh", p.Username)
	assert.Equal(t, "ADMIN", p.Role)
}
