package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
)

// deadTransport fails the test if anything reaches the network.
type deadTransport struct{ t *testing.T }

func (d deadTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	d.t.Errorf("blocked call escaped to the network: %s %s", req.Method, req.URL)
	return nil, http.ErrUseLastResponse
}

func TestGate_BlocksProtectedCallWithoutToken(t *testing.T) {
	p := newTestPipeline(t, "http://upstream.test/api", ServiceOptions{
		Transport: deadTransport{t: t},
	})
	p.ui.path = "/orders"

	_, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))

	require.Error(t, err)
	assert.True(t, apperrors.IsBlocked(err))
	assert.Equal(t, []string{"Please sign in to continue."}, p.ui.errors)
	assert.Equal(t, []string{AuthScreenPath}, p.ui.navigations)
}

func TestGate_AnonymousDispatchOnAuthScreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.ui.path = AuthScreenPath

	d, err := NewJSONDescriptor(http.MethodPost, "/auth/login", map[string]string{"username": "minh"})
	require.NoError(t, err)
	resp, err := p.client.Do(context.Background(), d)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// Login rejections pass through for the form to render; no block, no
	// redirect.
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, p.ui.errors)
	assert.Empty(t, p.ui.navigations)
}

func TestGate_PublicReadNeverCarriesCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"),
			"public reads go out anonymously even for signed-in users")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)))

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/cars/42"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGate_AttachesBearerOnProtectedCall(t *testing.T) {
	token := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, token)

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, p.ui.navigations)
}
