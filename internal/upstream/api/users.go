package api

import (
	"context"
	"net/http"

	"github.com/auto88/auto88-ui/internal/domain/session"
	"github.com/auto88/auto88-ui/internal/upstream"
)

// User mirrors the upstream user resource.
type User struct {
	UserID    string `json:"userId"`
	FullName  string `json:"fullName"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatarUrl"`
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// Profile converts the user into the session-layer identity view.
func (u User) Profile() *session.Profile {
	return &session.Profile{
		UserID:    u.UserID,
		AccountID: u.AccountID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Status:    u.Status,
	}
}

// UserCreateInput provisions a user together with their login account.
type UserCreateInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Gender   string
	DOB      string
	Role     string
	Address  string
	Avatar   *FileUpload
}

// UserUpdateInput edits a user. An empty Password leaves the current one in
// place.
type UserUpdateInput struct {
	FullName string
	DOB      string
	Gender   string
	Phone    string
	Address  string
	Email    string
	Role     string
	Status   string
	Password string
	Avatar   *FileUpload
}

func avatarFile(f *FileUpload) []FileUpload {
	if f == nil {
		return nil
	}
	a := *f
	if a.Field == "" {
		a.Field = "avatarFile"
	}
	return []FileUpload{a}
}

// Users talks to the user administration endpoints.
type Users struct {
	c Caller
}

// NewUsers constructs the user endpoint client.
func NewUsers(c Caller) *Users { return &Users{c: c} }

// List returns every user.
func (a *Users) List(ctx context.Context) ([]User, error) {
	return call[[]User](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/users"))
}

// Get returns one user by id.
func (a *Users) Get(ctx context.Context, userID string) (User, error) {
	return call[User](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/users/"+userID))
}

// ByUsername returns one user by login name. Session enrichment rides on
// this lookup.
func (a *Users) ByUsername(ctx context.Context, username string) (User, error) {
	return call[User](ctx, a.c, upstream.NewDescriptor(http.MethodGet, "/users/username/"+username))
}

// Create provisions a user and their login account in one call.
func (a *Users) Create(ctx context.Context, in UserCreateInput) (User, error) {
	fields := [][2]string{
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
		{"fullName", in.FullName},
		{"phone", in.Phone},
		{"gender", in.Gender},
		{"dob", in.DOB},
		{"role", in.Role},
	}
	if in.Address != "" {
		fields = append(fields, [2]string{"address", in.Address})
	}
	body, ct, err := encodeMultipart(fields, avatarFile(in.Avatar)...)
	if err != nil {
		return User{}, err
	}
	d := upstream.NewMultipartDescriptor(http.MethodPost, "/users/create-with-account", body, ct)
	return call[User](ctx, a.c, d)
}

// Update edits a user's details.
func (a *Users) Update(ctx context.Context, userID string, in UserUpdateInput) error {
	fields := [][2]string{
		{"fullName", in.FullName},
		{"dob", in.DOB},
		{"gender", in.Gender},
		{"phone", in.Phone},
		{"address", in.Address},
		{"email", in.Email},
		{"role", in.Role},
		{"status", in.Status},
	}
	if in.Password != "" {
		fields = append(fields, [2]string{"password", in.Password})
	}
	body, ct, err := encodeMultipart(fields, avatarFile(in.Avatar)...)
	if err != nil {
		return err
	}
	d := upstream.NewMultipartDescriptor(http.MethodPut, "/users/"+userID, body, ct)
	return callVoid(ctx, a.c, d)
}

// Delete removes a user.
func (a *Users) Delete(ctx context.Context, userID string) error {
	return callVoid(ctx, a.c, upstream.NewDescriptor(http.MethodDelete, "/users/"+userID))
}
