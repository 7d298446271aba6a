package upstream

import (
	"context"
	"strings"

	apperrors "github.com/auto88/auto88-ui/internal/errors"
)

// gate decides, before anything leaves the client, whether the call is
// public, credentialed, or blocked. It returns the bearer token to attach
// ("" for anonymous dispatch) or a Blocked error when the user had to be
// redirected to sign in.
//
// Guarantee: no protected endpoint is ever called without either a token or
// an explicit, logged user redirect.
func (c *Client) gate(ctx context.Context, d *Descriptor) (string, error) {
	if c.svc.rules.Public(d.Method, d.Path) {
		// Public reads skip authentication entirely, even when a valid
		// token exists.
		return "", nil
	}

	token := c.state.Token()
	if token == "" {
		current := c.ui.CurrentPath(ctx)
		if !strings.HasPrefix(current, AuthScreenPath) {
			c.svc.logger.InfoContext(ctx, "blocking unauthenticated call",
				"id", d.ID, "method", d.Method, "path", d.Path, "location", current)
			c.ui.Error(ctx, "Please sign in to continue.")
			c.ui.NavigateTo(ctx, AuthScreenPath)
			return "", apperrors.Blocked("sign-in required for " + d.Method + " " + d.Path)
		}
		// Already on the auth screen: login and register calls go out
		// anonymously.
		return "", nil
	}
	return token, nil
}
