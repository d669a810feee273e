package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CachedProfile stores the raw JSON of the last profile response so that
// `vents whoami --offline` works without a network call. It is replaced
// wholesale on every successful profile fetch and wiped on logout.
type CachedProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Payload   string    `json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileCacheRepository defines decoupled operations for the profile cache.
type ProfileCacheRepository interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, payload string) error
	Clear(ctx context.Context) error
}

// gormProfileCacheRepo is a GORM-backed implementation of ProfileCacheRepository.
type gormProfileCacheRepo struct{ db *gorm.DB }

// NewProfileCacheRepository creates a ProfileCacheRepository. Accepts *gorm.DB to avoid global access.
func NewProfileCacheRepository(db *gorm.DB) ProfileCacheRepository {
	return &gormProfileCacheRepo{db: db}
}

// Get returns the cached payload, or an empty string when no profile is cached.
func (r *gormProfileCacheRepo) Get(ctx context.Context) (string, error) {
	if r.db == nil {
		return "", fmt.Errorf("repository not initialized")
	}
	var cached CachedProfile
	err := r.db.WithContext(ctx).First(&cached).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cached.Payload, nil
}

func (r *gormProfileCacheRepo) Put(ctx context.Context, payload string) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	cached := CachedProfile{ID: 1, Payload: payload, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&cached).Error
}

func (r *gormProfileCacheRepo) Clear(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("repository not initialized")
	}
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&CachedProfile{}).Error
}
