package session

import (
	"context"

	"github.com/cesi-vents/vents/client"
)

// Status is the lifecycle state of the client-side session.
type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusRestoring     Status = "restoring"
	StatusAuthenticated Status = "authenticated"
	StatusError         Status = "error"
)

// Session is the authenticated state of the current client. It is a value
// snapshot; only the Controller mutates the underlying state.
type Session struct {
	Status    Status
	Profile   *client.Profile
	LastError string
}

// API defines the backend operations the controller drives. Satisfied by
// *client.Client.
type API interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, form client.RegisterForm) error
	FetchProfile(ctx context.Context) (*client.Profile, error)
	UpdateProfile(ctx context.Context, update client.ProfileUpdate) (*client.Profile, error)
	UploadAvatar(ctx context.Context, filePath string) (*client.Profile, error)
	RefreshSession(ctx context.Context) error
}

// TokenStore is the slice of the credential store the controller needs:
// checking for a persisted refresh token at startup and wiping everything on
// logout. All other token writes happen inside the HTTP client.
type TokenStore interface {
	RefreshToken(ctx context.Context) (string, error)
	ClearAll(ctx context.Context) error
}
