package upstream

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/auto88/auto88-ui/internal/ports"
)

const (
	// AuthScreenPath is the UI location users are sent to when they must
	// sign in.
	AuthScreenPath = "/auth"
	// AdminPathPrefix marks the administrative section of the UI.
	AdminPathPrefix = "/admin"
	// HomePath is the public landing location.
	HomePath = "/"

	defaultRefreshPath = "/auth/refresh"
	defaultTokenExpr   = "data.token"
	defaultTimeout     = 30 * time.Second
)

// Service is the process-wide half of the client pipeline: base URL, shared
// transport, allowlist, and renewal envelope configuration. Bind attaches
// per-browser-session state and UI hooks to produce a working Client.
type Service struct {
	base        *url.URL
	transport   http.RoundTripper
	timeout     time.Duration
	rules       Allowlist
	refreshPath string
	tokenExpr   jmespath.JMESPath
	logger      *slog.Logger
}

// ServiceOptions groups configuration for NewService.
type ServiceOptions struct {
	// BaseURL is the upstream API root; required, fixed for the process
	// lifetime.
	BaseURL string
	// Transport overrides the default http.Transport; optional.
	Transport http.RoundTripper
	// Timeout bounds each dispatch; defaults to 30s.
	Timeout time.Duration
	// Rules overrides the default public-endpoint allowlist; optional.
	Rules Allowlist
	// RefreshPath is the renewal endpoint, default "/auth/refresh".
	RefreshPath string
	// TokenExpr is the JMESPath locating the bearer token inside the renewal
	// response envelope, default "data.token".
	TokenExpr string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewService validates the options and constructs the shared pipeline half.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("upstream base URL must be absolute, got %q", opts.BaseURL)
	}

	expr := opts.TokenExpr
	if expr == "" {
		expr = defaultTokenExpr
	}
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile token expression %q: %w", expr, err)
	}

	svc := &Service{
		base:        base,
		transport:   opts.Transport,
		timeout:     opts.Timeout,
		rules:       opts.Rules,
		refreshPath: opts.RefreshPath,
		tokenExpr:   compiled,
		logger:      opts.Logger,
	}
	if svc.transport == nil {
		svc.transport = http.DefaultTransport
	}
	if svc.timeout <= 0 {
		svc.timeout = defaultTimeout
	}
	if svc.rules == nil {
		svc.rules = DefaultAllowlist()
	}
	if svc.refreshPath == "" {
		svc.refreshPath = defaultRefreshPath
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc, nil
}

// Bind attaches a browser session and its UI hooks, yielding the client the
// presentation layer calls. Binding is cheap; a bound client is valid for
// any number of calls on behalf of that session.
func (s *Service) Bind(state *SessionState, ui ports.UI) *Client {
	return &Client{
		svc:   s,
		state: state,
		ui:    ui,
		http: &http.Client{
			Transport: s.transport,
			Timeout:   s.timeout,
			Jar:       state.Jar(),
		},
	}
}

// Client executes calls for one browser session: request gate in front,
// response reconciler behind. Construct via Service.Bind.
type Client struct {
	svc   *Service
	state *SessionState
	ui    ports.UI
	http  *http.Client
}

// Session exposes the bound session state.
func (c *Client) Session() *SessionState { return c.state }

// BaseURL returns the configured upstream root, e.g. for building image URLs.
func (c *Client) BaseURL() string { return c.svc.base.String() }

// send performs one raw dispatch of the descriptor with the given bearer
// token ("" means anonymous).
func (c *Client) send(ctx context.Context, d *Descriptor, token string) (*http.Response, error) {
	target := *c.svc.base
	target.Path = strings.TrimSuffix(c.svc.base.Path, "/") + d.Path
	if d.Query != nil {
		target.RawQuery = d.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, target.String(), bytes.NewReader(d.Body))
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", d.Method, d.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if ct := d.contentType(); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch %s %s: %w", d.Method, d.Path, err)
	}
	return resp, nil
}
