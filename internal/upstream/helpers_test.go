package upstream

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/auto88/auto88-ui/internal/adapters/memtoken"
	"github.com/auto88/auto88-ui/internal/ports"
)

// fakeUI records the presentation-side effects the pipeline raises.
type fakeUI struct {
	path        string
	errors      []string
	warnings    []string
	navigations []string
}

func (f *fakeUI) CurrentPath(context.Context) string { return f.path }

func (f *fakeUI) NavigateTo(_ context.Context, p string) {
	f.navigations = append(f.navigations, p)
}

func (f *fakeUI) Error(_ context.Context, m string) { f.errors = append(f.errors, m) }

func (f *fakeUI) Warning(_ context.Context, m string) { f.warnings = append(f.warnings, m) }

// mintToken produces a decodable bearer token. The signature is irrelevant:
// the client never verifies it.
func mintToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub, "role": role}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type testPipeline struct {
	client *Client
	state  *SessionState
	store  ports.TokenStore
	ui     *fakeUI
}

// newTestPipeline wires a service against the given upstream base URL with an
// in-memory token store and a recording UI.
func newTestPipeline(t *testing.T, baseURL string, opts ServiceOptions) *testPipeline {
	t.Helper()
	opts.BaseURL = baseURL
	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	store := memtoken.New()
	state, err := NewSessionState(SessionStateOptions{Store: store, StorageKey: "test-session"})
	if err != nil {
		t.Fatalf("new session state: %v", err)
	}
	ui := &fakeUI{path: "/cars"}
	return &testPipeline{client: svc.Bind(state, ui), state: state, store: store, ui: ui}
}

// establish seeds the session with a token without triggering enrichment.
func (p *testPipeline) establish(t *testing.T, token string) {
	t.Helper()
	if err := p.state.Establish(context.Background(), token, ""); err != nil {
		t.Fatalf("establish session: %v", err)
	}
}
