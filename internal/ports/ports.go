// Package ports defines the boundary interfaces between the upstream client
// pipeline and the surrounding application. The UI layer and the storage
// adapters provide the implementations; the pipeline only sees these shapes.
package ports

import (
	"context"
	"time"
)

// TokenStore persists exactly one bearer token string per storage key.
// An empty load result means the session is anonymous.
type TokenStore interface {
	// Load returns the stored token for the key, or "" when absent.
	Load(ctx context.Context, key string) (string, error)
	// Save stores the token under the key. A non-positive ttl means the
	// store's default retention applies.
	Save(ctx context.Context, key, token string, ttl time.Duration) error
	// Purge removes the token for the key. Purging an absent key is not an
	// error.
	Purge(ctx context.Context, key string) error
}

// Notifier surfaces user-facing notices (toasts) raised by the pipeline.
type Notifier interface {
	// Error surfaces a blocking notice (sign-in required, session expired).
	Error(ctx context.Context, message string)
	// Warning surfaces a non-blocking notice (action not permitted).
	Warning(ctx context.Context, message string)
}

// Navigator lets the pipeline force client-side navigation and inspect the
// current UI location, mirroring the browser it stands in for.
type Navigator interface {
	// CurrentPath returns the UI path the user is currently on.
	CurrentPath(ctx context.Context) string
	// NavigateTo forces navigation to the given UI path.
	NavigateTo(ctx context.Context, path string)
}

// UI bundles the presentation-side hooks a bound client needs.
type UI interface {
	Notifier
	Navigator
}
