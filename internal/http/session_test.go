package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto88/auto88-ui/config"
	"github.com/auto88/auto88-ui/internal/adapters/memtoken"
	"github.com/auto88/auto88-ui/internal/upstream"
)

func newTestManager(t *testing.T) (*SessionManager, *time.Time) {
	t.Helper()
	svc, err := upstream.NewService(upstream.ServiceOptions{BaseURL: "http://upstream.test"})
	require.NoError(t, err)

	now := time.Now()
	m := NewSessionManager(svc, memtoken.New(), config.SessionConfig{
		CookieName: "sid",
		TTL:        time.Hour,
	}, nil)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestWithSession_CookieCarriesConfiguredDomain(t *testing.T) {
	svc, err := upstream.NewService(upstream.ServiceOptions{BaseURL: "http://upstream.test"})
	require.NoError(t, err)
	m := NewSessionManager(svc, memtoken.New(), config.SessionConfig{
		CookieName:   "sid",
		CookieDomain: "shop.auto88.test",
		TTL:          time.Hour,
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	m.WithSession(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "shop.auto88.test", cookies[0].Domain)
}

func TestSessionManager_AcquireReusesState(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first := m.acquire(ctx, "sid-1")
	second := m.acquire(ctx, "sid-1")
	assert.Same(t, first, second)

	other := m.acquire(ctx, "sid-2")
	assert.NotSame(t, first, other)
}

func TestSessionManager_IdleSessionReplacedAfterTTL(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	first := m.acquire(ctx, "sid-1")
	*now = now.Add(2 * time.Hour)
	second := m.acquire(ctx, "sid-1")
	assert.NotSame(t, first, second)
}

func TestSessionManager_SweepDropsIdleSessions(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	m.acquire(ctx, "sid-1")
	m.acquire(ctx, "sid-2")
	*now = now.Add(2 * time.Hour)
	m.acquire(ctx, "sid-3")
	m.sweep()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Len(t, m.entries, 1)
	_, ok := m.entries["sid-3"]
	assert.True(t, ok)
}
