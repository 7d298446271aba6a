package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
)

// Do runs the full pipeline for one captured call: request gate, dispatch,
// response reconciliation. Successful responses and pass-through error
// statuses are returned as-is for the caller to interpret; authentication
// failures are reconciled here.
//
// The returned response body is open; the caller owns closing it.
func (c *Client) Do(ctx context.Context, d *Descriptor) (*http.Response, error) {
	token, err := c.gate(ctx, d)
	if err != nil {
		return nil, err
	}

	for {
		resp, err := c.send(ctx, d, token)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized && isAuthTarget(d.Path):
			// Login/register rejections pass through unmodified: no renewal,
			// no notice, no redirect.
			return resp, nil

		case resp.StatusCode == http.StatusUnauthorized && !d.retried():
			if serr := d.beginRefresh(); serr != nil {
				// Structurally unreachable given the retried() guard; pass
				// the 401 through rather than looping.
				return resp, nil
			}
			drain(resp)
			c.svc.logger.InfoContext(ctx, "credential rejected, attempting renewal",
				"id", d.ID, "method", d.Method, "path", d.Path)
			if rerr := c.refresh(ctx); rerr != nil {
				c.state.Clear(ctx)
				c.ui.Error(ctx, "Your session has expired, please sign in again.")
				c.ui.NavigateTo(ctx, AuthScreenPath)
				return nil, apperrors.Wrap(rerr, apperrors.ErrCodeSessionExpired, "token renewal failed")
			}
			d.markRetried()
			// Replay once with whatever token is current now; a concurrent
			// renewal may have won the write and that is fine.
			token = c.state.Token()

		case resp.StatusCode == http.StatusForbidden:
			drain(resp)
			if strings.HasPrefix(c.ui.CurrentPath(ctx), AdminPathPrefix) {
				c.ui.Error(ctx, "You do not have access to the admin area.")
				c.ui.NavigateTo(ctx, HomePath)
			} else {
				c.ui.Warning(ctx, "You are not permitted to perform this action.")
			}
			return nil, apperrors.Forbidden(d.Method + " " + d.Path + " was denied")

		default:
			// Everything else, including a second 401 after a renewal cycle,
			// passes through for local handling.
			return resp, nil
		}
	}
}

// refresh issues the dedicated renewal call: no bearer header, renewal
// credential carried by the session's cookie jar. On success the new token is
// persisted into the session state.
func (c *Client) refresh(ctx context.Context) error {
	target := *c.svc.base
	target.Path = strings.TrimSuffix(c.svc.base.Path, "/") + c.svc.refreshPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build renewal request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch renewal request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("renewal endpoint returned %d", resp.StatusCode)
	}

	var envelope any
	if derr := json.NewDecoder(resp.Body).Decode(&envelope); derr != nil {
		return fmt.Errorf("decode renewal envelope: %w", derr)
	}
	raw, err := c.svc.tokenExpr.Search(envelope)
	if err != nil {
		return fmt.Errorf("extract token from renewal envelope: %w", err)
	}
	token, ok := raw.(string)
	if !ok || token == "" {
		return fmt.Errorf("renewal envelope carries no token")
	}

	if _, err := c.state.adopt(ctx, token); err != nil {
		return fmt.Errorf("adopt renewed token: %w", err)
	}
	return nil
}

// isAuthTarget reports whether the call targets the authentication endpoints
// themselves, which are exempt from reconciliation.
func isAuthTarget(path string) bool {
	return strings.Contains(path, "/auth")
}

// drain discards and closes a response body we will not hand to the caller,
// keeping the underlying connection reusable.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
