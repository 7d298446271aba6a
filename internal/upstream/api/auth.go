package api

import (
	"context"
	"net/http"

	"github.com/auto88/auto88-ui/internal/upstream"
)

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries new-account details.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// JWTResponse is the credential pair issued at login. The refresh credential
// additionally arrives as an HTTP-only cookie on the session jar; renewal
// relies on the cookie, not on this field.
type JWTResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Auth talks to the authentication endpoints. Token renewal is owned by the
// pipeline itself and deliberately absent here.
type Auth struct {
	c Caller
}

// NewAuth constructs the auth endpoint client.
func NewAuth(c Caller) *Auth { return &Auth{c: c} }

// Login exchanges credentials for a token pair. Dispatched from the auth
// screen, so the gate lets it out anonymously.
func (a *Auth) Login(ctx context.Context, req LoginRequest) (JWTResponse, error) {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, "/auth/login", req)
	if err != nil {
		return JWTResponse{}, err
	}
	return call[JWTResponse](ctx, a.c, d)
}

// Register creates a new account. The user signs in separately afterwards.
func (a *Auth) Register(ctx context.Context, req RegisterRequest) error {
	d, err := upstream.NewJSONDescriptor(http.MethodPost, "/auth/register", req)
	if err != nil {
		return err
	}
	return callVoid(ctx, a.c, d)
}
