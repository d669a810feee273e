package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory TokenStore for tests, honoring per-token expiry
// the same way the sqlite-backed repository does.
type memStore struct {
	mu         sync.Mutex
	access     string
	accessExp  time.Time
	refresh    string
	refreshExp time.Time
}

func (m *memStore) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.access == "" || !m.accessExp.After(time.Now()) {
		return "", nil
	}
	return m.access, nil
}

func (m *memStore) SetAccessToken(ctx context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.accessExp = token, expiresAt
	return nil
}

func (m *memStore) ClearAccessToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	return nil
}

func (m *memStore) RefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refresh == "" || !m.refreshExp.After(time.Now()) {
		return "", nil
	}
	return m.refresh, nil
}

func (m *memStore) SetRefreshToken(ctx context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh, m.refreshExp = token, expiresAt
	return nil
}

func (m *memStore) ClearRefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh = ""
	return nil
}

func (m *memStore) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	return nil
}

func (m *memStore) snapshot() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh
}

// mintJWT produces a signed token with an exp claim, mirroring what the
// backend issues.
func mintJWT(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "42", "exp": time.Now().Add(ttl).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
