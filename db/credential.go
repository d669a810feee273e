package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credential kinds. One row is stored per kind.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Credential holds a single stored bearer credential with its expiry.
// The access token is short-lived (minutes), the refresh token long-lived (days).
type Credential struct {
	Kind      string    `gorm:"primaryKey" json:"kind"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CredentialRepository defines decoupled operations for credential persistence.
// Reads return an empty token, not an error, when nothing usable is stored;
// callers must treat absence as "not authenticated".
type CredentialRepository interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string, expiresAt time.Time) error
	ClearAccessToken(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// gormCredentialRepo is a GORM-backed implementation of CredentialRepository.
// Use constructor NewCredentialRepository to obtain an instance.
type gormCredentialRepo struct{ db *gorm.DB }

// NewCredentialRepository creates a CredentialRepository. Accepts *gorm.DB to avoid global access.
func NewCredentialRepository(db *gorm.DB) CredentialRepository { return &gormCredentialRepo{db: db} }

func (r *gormCredentialRepo) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, KindAccess)
}

func (r *gormCredentialRepo) SetAccessToken(ctx context.Context, token string, expiresAt time.Time) error {
	return r.set(ctx, KindAccess, token, expiresAt)
}

func (r *gormCredentialRepo) ClearAccessToken(ctx context.Context) error {
	return r.clear(ctx, KindAccess)
}

func (r *gormCredentialRepo) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, KindRefresh)
}

func (r *gormCredentialRepo) SetRefreshToken(ctx context.Context, token string, expiresAt time.Time) error {
	return r.set(ctx, KindRefresh, token, expiresAt)
}

func (r *gormCredentialRepo) ClearRefreshToken(ctx context.Context) error {
	return r.clear(ctx, KindRefresh)
}

// ClearAll removes both credentials. Used on logout and on irrecoverable refresh failure.
func (r *gormCredentialRepo) ClearAll(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Where("kind IN ?", []string{KindAccess, KindRefresh}).Delete(&Credential{}).Error
}

func (r *gormCredentialRepo) get(ctx context.Context, kind string) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("repository not initialized")
	}
	var cred Credential
	err := r.db.WithContext(ctx).First(&cred, "kind = ?", kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	// Expired credentials read back as absent.
	if !cred.ExpiresAt.After(time.Now()) {
		return "", nil
	}
	return cred.Token, nil
}

func (r *gormCredentialRepo) set(ctx context.Context, kind, token string, expiresAt time.Time) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	cred := Credential{Kind: kind, Token: token, ExpiresAt: expiresAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
	}).Create(&cred).Error
}

func (r *gormCredentialRepo) clear(ctx context.Context, kind string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Delete(&Credential{}, "kind = ?", kind).Error
}
