package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cesi-vents/vents/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB points the package at a throwaway database for one test.
func openTestDB(t *testing.T) {
	t.Helper()
	tempDir := t.TempDir()
	db.Path = filepath.Join(tempDir, ".vents/vents.db")
	require.NoError(t, db.InitDB())
	t.Cleanup(func() {
		require.NoError(t, db.CloseDB())
	})
}

func TestCredentialRoundTrip(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := db.NewCredentialRepository(db.Db)

	require.NoError(t, repo.SetAccessToken(ctx, "access-1", time.Now().Add(15*time.Minute)))
	require.NoError(t, repo.SetRefreshToken(ctx, "refresh-1", time.Now().Add(7*24*time.Hour)))

	access, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)

	refresh, err := repo.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", refresh)

	// Overwrites replace the stored value.
	require.NoError(t, repo.SetAccessToken(ctx, "access-2", time.Now().Add(15*time.Minute)))
	access, err = repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
}

func TestExpiredCredentialReadsAsAbsent(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := db.NewCredentialRepository(db.Db)

	require.NoError(t, repo.SetAccessToken(ctx, "stale", time.Now().Add(-time.Minute)))

	access, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access, "expired access token should read back as absent")
}

func TestMissingCredentialReadsAsAbsent(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := db.NewCredentialRepository(db.Db)

	access, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)

	refresh, err := repo.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)
}

func TestClearAll(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := db.NewCredentialRepository(db.Db)

	require.NoError(t, repo.SetAccessToken(ctx, "a", time.Now().Add(time.Hour)))
	require.NoError(t, repo.SetRefreshToken(ctx, "r", time.Now().Add(time.Hour)))
	require.NoError(t, repo.ClearAll(ctx))

	access, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)

	refresh, err := repo.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)

	// Clearing an already empty store is fine.
	require.NoError(t, repo.ClearAll(ctx))
}

func TestClearSingleKind(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()
	repo := db.NewCredentialRepository(db.Db)

	require.NoError(t, repo.SetAccessToken(ctx, "a", time.Now().Add(time.Hour)))
	require.NoError(t, repo.SetRefreshToken(ctx, "r", time.Now().Add(time.Hour)))
	require.NoError(t, repo.ClearAccessToken(ctx))

	access, err := repo.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)

	refresh, err := repo.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", refresh)
}

func TestUninitializedRepository(t *testing.T) {
	repo := db.NewCredentialRepository(nil)
	_, err := repo.AccessToken(context.Background())
	assert.Error(t, err)
	assert.ErrorContains(t, err, "not initialized")
}

func TestInitDBCreatesFile(t *testing.T) {
	tempDir := t.TempDir()
	os.Setenv("HOME", tempDir)
	db.Path = filepath.Join(tempDir, ".vents/vents.db")
	require.NoError(t, db.InitDB())

	_, statErr := os.Stat(db.Path)
	assert.NoError(t, statErr, "Database file should exist")

	require.NoError(t, db.CloseDB())
}
