package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/auto88/auto88-ui/internal/domain/session"
	"github.com/auto88/auto88-ui/internal/ports"
)

// EnrichFunc hydrates a fuller profile for a freshly established session.
// Enrichment failures are soft: the session stays authenticated on the
// token-derived minimal identity.
type EnrichFunc func(ctx context.Context, username string) (*session.Profile, error)

// SessionState is the single source of truth for "is a user authenticated,
// and as whom". It owns the persisted token (through a TokenStore), the
// decoded claims, and the per-session cookie jar that carries the upstream
// renewal credential. All mutations notify subscribers (publish-on-change).
//
// Invariant: a present token always has corresponding non-expired, decodable
// claims; anything else is purged and the session treated as anonymous.
type SessionState struct {
	store  ports.TokenStore
	key    string
	enrich EnrichFunc
	logger *slog.Logger
	now    func() time.Time
	jar    http.CookieJar

	mu      sync.RWMutex
	token   string
	claims  *session.Claims
	profile *session.Profile
	subs    []func(session.Snapshot)
}

// SessionStateOptions groups dependencies for NewSessionState.
type SessionStateOptions struct {
	// Store persists the token; required.
	Store ports.TokenStore
	// StorageKey is the well-known key the token lives under; required.
	StorageKey string
	// Enrich hydrates the profile after Establish; optional.
	Enrich EnrichFunc
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Now defaults to time.Now; injectable for tests.
	Now func() time.Time
}

// NewSessionState constructs an anonymous session bound to its storage key.
func NewSessionState(opts SessionStateOptions) (*SessionState, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if opts.StorageKey == "" {
		return nil, fmt.Errorf("storage key is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	// cookiejar.New only fails on invalid options; nil options cannot fail.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &SessionState{
		store:  opts.Store,
		key:    opts.StorageKey,
		enrich: opts.Enrich,
		logger: logger,
		now:    now,
		jar:    jar,
	}, nil
}

// Initialize rehydrates the session from persisted storage. A missing token
// leaves the session anonymous; an expired or undecodable token is purged.
// No network call is made and no signature is verified.
func (s *SessionState) Initialize(ctx context.Context) error {
	token, err := s.store.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load persisted token: %w", err)
	}
	if token == "" {
		return nil
	}

	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(s.now()) {
		s.logger.InfoContext(ctx, "purging stale persisted token", "key", s.key)
		if perr := s.store.Purge(ctx, s.key); perr != nil {
			return fmt.Errorf("purge stale token: %w", perr)
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()
	s.publish()
	return nil
}

// Establish persists the token, decodes claims, and issues a single fail-soft
// profile enrichment fetch. identityHint overrides the token subject as the
// enrichment lookup key when provided.
func (s *SessionState) Establish(ctx context.Context, token, identityHint string) error {
	claims, err := s.adopt(ctx, token)
	if err != nil {
		return err
	}

	if s.enrich == nil {
		return nil
	}
	username := identityHint
	if username == "" {
		username = claims.Subject
	}
	profile, err := s.enrich(ctx, username)
	if err != nil {
		// Fail-soft: token-derived identity is enough to stay signed in.
		s.logger.WarnContext(ctx, "profile enrichment failed",
			"username", username, "error", err)
		return nil
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	s.publish()
	return nil
}

// adopt persists and decodes a token without touching the profile. The
// reconciler uses it directly after a renewal so an enriched profile
// survives a token swap.
func (s *SessionState) adopt(ctx context.Context, token string) (*session.Claims, error) {
	claims, err := DecodeClaims(token)
	if err != nil || claims.Expired(s.now()) {
		s.Clear(ctx)
		if err == nil {
			err = fmt.Errorf("token already expired")
		}
		return nil, fmt.Errorf("reject bearer token: %w", err)
	}

	ttl := time.Duration(0)
	if !claims.ExpiresAt.IsZero() {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.store.Save(ctx, s.key, token, ttl); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()
	s.publish()
	return claims, nil
}

// Clear purges the persisted token and in-memory identity. Subsequent
// requests are treated as anonymous.
func (s *SessionState) Clear(ctx context.Context) {
	if err := s.store.Purge(ctx, s.key); err != nil {
		s.logger.ErrorContext(ctx, "purge token failed", "key", s.key, "error", err)
	}
	s.mu.Lock()
	s.token = ""
	s.claims = nil
	s.profile = nil
	s.mu.Unlock()
	s.publish()
}

// Token returns the current bearer token, or "" when anonymous. Concurrent
// refreshes are last-writer-wins; callers read whatever is current.
func (s *SessionState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns an immutable view of the session.
func (s *SessionState) Snapshot() session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return session.Snapshot{Token: s.token, Claims: s.claims, Profile: s.profile}
}

// Subscribe registers a callback invoked after every session mutation.
// Callbacks run synchronously on the mutating goroutine and must not call
// back into the session state.
func (s *SessionState) Subscribe(fn func(session.Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Jar returns the cookie jar carrying the out-of-band renewal credential for
// this session.
func (s *SessionState) Jar() http.CookieJar { return s.jar }

func (s *SessionState) publish() {
	s.mu.RLock()
	snap := session.Snapshot{Token: s.token, Claims: s.claims, Profile: s.profile}
	subs := make([]func(session.Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snap)
	}
}
