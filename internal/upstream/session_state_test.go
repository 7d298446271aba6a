package upstream

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto88/auto88-ui/internal/adapters/memtoken"
	"github.com/auto88/auto88-ui/internal/domain/session"
)

func newState(t *testing.T, opts SessionStateOptions) (*SessionState, *memtoken.Store) {
	t.Helper()
	store := memtoken.New()
	opts.Store = store
	if opts.StorageKey == "" {
		opts.StorageKey = "test-session"
	}
	state, err := NewSessionState(opts)
	require.NoError(t, err)
	return state, store
}

func TestSessionState_InitializeEmpty(t *testing.T) {
	state, _ := newState(t, SessionStateOptions{})
	require.NoError(t, state.Initialize(context.Background()))
	assert.False(t, state.Snapshot().Authenticated())
	assert.Empty(t, state.Token())
}

func TestSessionState_InitializeRehydrates(t *testing.T) {
	ctx := context.Background()
	state, store := newState(t, SessionStateOptions{})
	token := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))
	require.NoError(t, store.Save(ctx, "test-session", token, 0))

	require.NoError(t, state.Initialize(ctx))

	snap := state.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, token, snap.Token)
	assert.Equal(t, "minh", snap.Claims.Subject)
}

func TestSessionState_InitializePurgesStaleToken(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: mintToken(t, "minh", "USER", time.Now().Add(-time.Minute))},
		{name: "undecodable", token: "corrupted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, store := newState(t, SessionStateOptions{})
			require.NoError(t, store.Save(ctx, "test-session", tt.token, 0))

			require.NoError(t, state.Initialize(ctx))

			assert.False(t, state.Snapshot().Authenticated())
			stored, _ := store.Load(ctx, "test-session")
			assert.Empty(t, stored, "stale token must be purged from storage")
		})
	}
}

func TestSessionState_EstablishPersistsAndEnriches(t *testing.T) {
	ctx := context.Background()
	var asked string
	state, store := newState(t, SessionStateOptions{
		Enrich: func(_ context.Context, username string) (*session.Profile, error) {
			asked = username
			return &session.Profile{Username: username, FullName: "Minh Nguyen"}, nil
		},
	})

	token := mintToken(t, "minh", "ADMIN", time.Now().Add(time.Hour))
	require.NoError(t, state.Establish(ctx, token, ""))

	assert.Equal(t, "minh", asked)
	snap := state.Snapshot()
	assert.True(t, snap.IsAdmin())
	assert.Equal(t, "Minh Nguyen", snap.Profile.FullName)

	stored, _ := store.Load(ctx, "test-session")
	assert.Equal(t, token, stored)
}

func TestSessionState_EstablishIdentityHintWins(t *testing.T) {
	var asked string
	state, _ := newState(t, SessionStateOptions{
		Enrich: func(_ context.Context, username string) (*session.Profile, error) {
			asked = username
			return &session.Profile{Username: username}, nil
		},
	})
	token := mintToken(t, "42", "USER", time.Now().Add(time.Hour))
	require.NoError(t, state.Establish(context.Background(), token, "minh"))
	assert.Equal(t, "minh", asked)
}

func TestSessionState_EnrichmentFailureIsSoft(t *testing.T) {
	state, _ := newState(t, SessionStateOptions{
		Enrich: func(context.Context, string) (*session.Profile, error) {
			return nil, fmt.Errorf("upstream down")
		},
	})
	token := mintToken(t, "minh", "USER", time.Now().Add(time.Hour))

	require.NoError(t, state.Establish(context.Background(), token, ""))

	snap := state.Snapshot()
	assert.True(t, snap.Authenticated(), "token identity survives a failed profile fetch")
	assert.Nil(t, snap.Profile)
	assert.Equal(t, "minh", snap.DisplayName())
}

func TestSessionState_EstablishRejectsBadToken(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: mintToken(t, "minh", "USER", time.Now().Add(-time.Minute))},
		{name: "undecodable", token: "corrupted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := newState(t, SessionStateOptions{})
			assert.Error(t, state.Establish(ctx, tt.token, ""))
			assert.False(t, state.Snapshot().Authenticated())
		})
	}
}

func TestSessionState_ClearPurges(t *testing.T) {
	ctx := context.Background()
	state, store := newState(t, SessionStateOptions{})
	require.NoError(t, state.Establish(ctx, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)), ""))

	state.Clear(ctx)

	assert.False(t, state.Snapshot().Authenticated())
	stored, _ := store.Load(ctx, "test-session")
	assert.Empty(t, stored)
}

func TestSessionState_PublishOnChange(t *testing.T) {
	ctx := context.Background()
	state, _ := newState(t, SessionStateOptions{})

	var snaps []session.Snapshot
	state.Subscribe(func(s session.Snapshot) { snaps = append(snaps, s) })

	require.NoError(t, state.Establish(ctx, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)), ""))
	state.Clear(ctx)

	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Authenticated())
	assert.False(t, snaps[1].Authenticated())
}

func TestSessionState_AdoptKeepsProfile(t *testing.T) {
	ctx := context.Background()
	state, _ := newState(t, SessionStateOptions{
		Enrich: func(_ context.Context, username string) (*session.Profile, error) {
			return &session.Profile{Username: username, FullName: "Minh Nguyen"}, nil
		},
	})
	require.NoError(t, state.Establish(ctx, mintToken(t, "minh", "USER", time.Now().Add(time.Hour)), ""))

	// A token swap mid-session (renewal) must not lose the enriched profile.
	renewed := mintToken(t, "minh", "USER", time.Now().Add(2*time.Hour))
	_, err := state.adopt(ctx, renewed)
	require.NoError(t, err)

	snap := state.Snapshot()
	assert.Equal(t, renewed, snap.Token)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Minh Nguyen", snap.Profile.FullName)
}
