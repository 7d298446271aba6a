package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
)

// renewalUpstream is a scripted upstream: /orders accepts only the renewed
// token, /auth/refresh hands it out.
func renewalUpstream(t *testing.T, renewed string, refreshStatus int, refreshCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		assert.Empty(t, r.Header.Get("Authorization"),
			"the renewal call must not carry the rejected bearer token")
		if refreshStatus != http.StatusOK {
			w.WriteHeader(refreshStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":200,"message":"Success","data":{"token":%q}}`, renewed)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+renewed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":200,"message":"Success","data":[]}`)
	})
	return httptest.NewServer(mux)
}

func TestReconciler_SilentRenewalAndReplay(t *testing.T) {
	ctx := context.Background()
	stale := mintToken(t, "minh", "USER", time.Now().Add(time.Minute))
	renewed := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))

	var refreshCalls atomic.Int32
	srv := renewalUpstream(t, renewed, http.StatusOK, &refreshCalls)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, stale)

	resp, err := p.client.Do(ctx, NewDescriptor(http.MethodGet, "/orders"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, renewed, p.state.Token(), "renewed token adopted into the session")
	stored, _ := p.store.Load(ctx, "test-session")
	assert.Equal(t, renewed, stored, "renewed token persisted")

	// Renewal is silent: no toast, no redirect.
	assert.Empty(t, p.ui.errors)
	assert.Empty(t, p.ui.warnings)
	assert.Empty(t, p.ui.navigations)
}

func TestReconciler_SecondRejectionPassesThrough(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		renewed := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":200,"message":"Success","data":{"token":%q}}`, renewed)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, _ *http.Request) {
		// Rejects even the renewed token.
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Minute)))

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"after one renewal cycle the 401 passes through")
	assert.Equal(t, int32(1), refreshCalls.Load(), "exactly one renewal per call, never a loop")
}

func TestReconciler_RenewalFailureExpiresSession(t *testing.T) {
	ctx := context.Background()
	var refreshCalls atomic.Int32
	srv := renewalUpstream(t, "never-issued", http.StatusUnauthorized, &refreshCalls)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Minute)))

	_, err := p.client.Do(ctx, NewDescriptor(http.MethodGet, "/orders"))

	require.Error(t, err)
	assert.True(t, apperrors.IsSessionExpired(err))
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Empty(t, p.state.Token(), "rejected session is cleared")
	stored, _ := p.store.Load(ctx, "test-session")
	assert.Empty(t, stored, "persisted token purged")
	assert.Equal(t, []string{"Your session has expired, please sign in again."}, p.ui.errors)
	assert.Equal(t, []string{AuthScreenPath}, p.ui.navigations)
}

func TestReconciler_RenewalEnvelopeWithoutToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":200,"message":"Success","data":{}}`)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Minute)))

	_, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))

	require.Error(t, err)
	assert.True(t, apperrors.IsSessionExpired(err))
	assert.Empty(t, p.state.Token())
}

func TestReconciler_RenewalCarriesSessionCookie(t *testing.T) {
	renewed := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))
	var sawCookie atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "rt-1", HttpOnly: true, Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("refreshToken"); err == nil && c.Value == "rt-1" {
			sawCookie.Store(true)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"code":200,"message":"Success","data":{"token":%q}}`, renewed)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+renewed {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.ui.path = AuthScreenPath

	// Login primes the session jar with the renewal cookie.
	login, err := p.client.Do(context.Background(), NewDescriptor(http.MethodPost, "/auth/login"))
	require.NoError(t, err)
	_ = login.Body.Close()
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Minute)))
	p.ui.path = "/orders"

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, sawCookie.Load(), "renewal relies on the jar-held cookie")
}

func TestReconciler_AuthTargetUnauthorizedPassesThrough(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)))

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodPost, "/auth/logout"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(0), refreshCalls.Load(),
		"auth endpoints are exempt from reconciliation")
}

func TestReconciler_ForbiddenOnAdminScreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)))
	p.ui.path = "/admin/cars"

	_, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/users"))

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, []string{"You do not have access to the admin area."}, p.ui.errors)
	assert.Equal(t, []string{HomePath}, p.ui.navigations)
	assert.Empty(t, p.ui.warnings)
}

func TestReconciler_ForbiddenElsewhereWarnsInPlace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)))
	p.ui.path = "/profile"

	_, err := p.client.Do(context.Background(), NewDescriptor(http.MethodDelete, "/orders/7"))

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Equal(t, []string{"You are not permitted to perform this action."}, p.ui.warnings)
	assert.Empty(t, p.ui.errors)
	assert.Empty(t, p.ui.navigations, "the user keeps their place outside the admin area")
}

func TestReconciler_ServerErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL, ServiceOptions{})
	p.establish(t, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)))

	resp, err := p.client.Do(context.Background(), NewDescriptor(http.MethodGet, "/orders"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Empty(t, p.ui.errors)
	assert.Empty(t, p.ui.warnings)
}
