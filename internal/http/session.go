package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/auto88/auto88-ui/config"
	"github.com/auto88/auto88-ui/internal/domain/session"
	"github.com/auto88/auto88-ui/internal/ports"
	"github.com/auto88/auto88-ui/internal/upstream"
	"github.com/auto88/auto88-ui/internal/upstream/api"
)

// SessionManager maps browser session ids (the sid cookie) to their upstream
// session state. One SessionState per browser, holding the bearer token and
// the cookie jar with the renewal credential.
type SessionManager struct {
	svc    *upstream.Service
	store  ports.TokenStore
	cfg    config.SessionConfig
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	state    *upstream.SessionState
	lastSeen time.Time
}

// NewSessionManager constructs an empty manager.
func NewSessionManager(svc *upstream.Service, store ports.TokenStore, cfg config.SessionConfig, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		svc:     svc,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*sessionEntry),
	}
}

// acquire returns the session state for the sid, creating and rehydrating it
// on first sight. Idle sessions past the TTL are replaced.
func (m *SessionManager) acquire(ctx context.Context, sid string) *upstream.SessionState {
	m.mu.Lock()
	e, ok := m.entries[sid]
	if ok && m.now().Sub(e.lastSeen) > m.cfg.TTL {
		delete(m.entries, sid)
		ok = false
	}
	if ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return e.state
	}
	m.mu.Unlock()

	state := m.newState(sid)
	if err := state.Initialize(ctx); err != nil {
		m.logger.WarnContext(ctx, "session rehydration failed", "sid", sid, "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have raced the creation; keep the first one in.
	if e, ok := m.entries[sid]; ok {
		e.lastSeen = m.now()
		return e.state
	}
	m.entries[sid] = &sessionEntry{state: state, lastSeen: m.now()}
	return state
}

// newState wires a session state whose profile enrichment runs through a
// quiet client bound to the same state. Enrichment failures stay soft.
func (m *SessionManager) newState(sid string) *upstream.SessionState {
	var users *api.Users
	// The store owns key namespacing; the sid is the key.
	state, err := upstream.NewSessionState(upstream.SessionStateOptions{
		Store:      m.store,
		StorageKey: sid,
		Logger:     m.logger,
		Enrich: func(ctx context.Context, username string) (*session.Profile, error) {
			u, err := users.ByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			return u.Profile(), nil
		},
	})
	if err != nil {
		// Only reachable with a nil store or empty key, both fixed at wiring
		// time.
		panic(err)
	}
	users = api.NewUsers(m.svc.Bind(state, quietUI{}))
	return state
}

// sweep drops sessions idle past the TTL. Called opportunistically from the
// middleware; cheap enough to run inline.
func (m *SessionManager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.cfg.TTL)
	for sid, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, sid)
		}
	}
}

// quietUI serves background calls (enrichment, renewal inside them) that have
// no browser to notify.
type quietUI struct{}

func (quietUI) CurrentPath(context.Context) string { return "/" }
func (quietUI) NavigateTo(context.Context, string) {}
func (quietUI) Error(context.Context, string)      {}
func (quietUI) Warning(context.Context, string)    {}

// BrowserUI implements the pipeline's UI hooks for one request: toasts and
// navigations are recorded and delivered when the handler finishes.
type BrowserUI struct {
	r *http.Request

	mu       sync.Mutex
	toasts   []Toast
	redirect string
}

// CurrentPath reports the browser location: the htmx current URL when
// present, the request path otherwise.
func (u *BrowserUI) CurrentPath(context.Context) string {
	if raw := HXCurrentURL(u.r); raw != "" {
		if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
			return parsed.Path
		}
	}
	return u.r.URL.Path
}

// NavigateTo records a redirect target. The pipeline raises at most one per
// call; the last one recorded wins.
func (u *BrowserUI) NavigateTo(_ context.Context, path string) {
	u.mu.Lock()
	u.redirect = path
	u.mu.Unlock()
}

// Error records an error toast.
func (u *BrowserUI) Error(_ context.Context, msg string) {
	u.mu.Lock()
	u.toasts = append(u.toasts, Toast{Level: toastError, Message: msg})
	u.mu.Unlock()
}

// Warning records a warning toast.
func (u *BrowserUI) Warning(_ context.Context, msg string) {
	u.mu.Lock()
	u.toasts = append(u.toasts, Toast{Level: toastWarning, Message: msg})
	u.mu.Unlock()
}

// Redirect returns the recorded navigation target, or "".
func (u *BrowserUI) Redirect() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.redirect
}

// Toasts drains the recorded toasts.
func (u *BrowserUI) Toasts() []Toast {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := u.toasts
	u.toasts = nil
	return out
}

// Env carries the per-request session wiring handlers work with.
type Env struct {
	State *upstream.SessionState
	UI    *BrowserUI
	API   *api.Set
}

// Snapshot returns the current session view.
func (e *Env) Snapshot() session.Snapshot { return e.State.Snapshot() }

type envKey struct{}

// EnvFromContext returns the request environment installed by WithSession.
func EnvFromContext(ctx context.Context) *Env {
	env, _ := ctx.Value(envKey{}).(*Env)
	return env
}

// WithSession is the browser session middleware: it reads or mints the sid
// cookie, binds a pipeline client for that session, and installs the request
// environment in the context.
func (m *SessionManager) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(m.cfg.CookieName); err == nil && c.Value != "" {
			sid = c.Value
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cfg.CookieName,
				Value:    sid,
				Path:     "/",
				Domain:   m.cfg.CookieDomain,
				MaxAge:   int(m.cfg.TTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		m.sweep()
		state := m.acquire(r.Context(), sid)
		ui := &BrowserUI{r: r}
		env := &Env{
			State: state,
			UI:    ui,
			API:   api.NewSet(m.svc.Bind(state, ui)),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), envKey{}, env)))
	})
}
