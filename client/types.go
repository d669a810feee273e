package client

import (
	"context"
	"time"
)

// Request and response headers of the CESI Vents backend.
const (
	HeaderAuthToken      = "x-auth-token"
	HeaderRefreshToken   = "x-refresh-token"
	HeaderNewAccessToken = "x-new-access-token"
	HeaderRequestID      = "x-request-id"
	HeaderContentSHA256  = "x-content-sha256"
)

// TokenStore defines the contract for the component that persists the
// credential pair. The client borrows tokens per request but never keeps
// copies. Reads return an empty string when no usable token is stored.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string, expiresAt time.Time) error
	ClearAccessToken(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// Profile is the authenticated user's record as returned by the backend.
// It is always replaced wholesale from server responses, never merged locally.
type Profile struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	ClubID    *int   `json:"clubId,omitempty"`
	Points    int    `json:"points"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// RegisterForm holds the fields sent to the registration endpoint.
type RegisterForm struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileUpdate holds the fields sent to the profile update endpoint.
// Empty fields are omitted and left untouched by the backend.
type ProfileUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Event contains information about a campus event.
type Event struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location"`
	Date        string  `json:"date"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Registered  int     `json:"registered"`
}

// Club contains information about a student club.
type Club struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Members     int    `json:"members"`
}
