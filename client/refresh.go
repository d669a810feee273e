package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// refreshAttempt is the shared handle for one in-flight refresh. The first
// caller that observes no attempt creates one and performs the network call;
// every later caller waits on done and shares the settled outcome, so a burst
// of unauthorized responses produces exactly one refresh call.
type refreshAttempt struct {
	done  chan struct{}
	token string
	err   error
}

// refreshAccessToken obtains a fresh access token, coalescing concurrent
// callers onto a single backend call.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if att := c.refreshing; att != nil {
		c.mu.Unlock()
		select {
		case <-att.done:
			return att.token, att.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	att := &refreshAttempt{done: make(chan struct{})}
	c.refreshing = att
	c.mu.Unlock()

	att.token, att.err = c.performRefresh(ctx)

	c.mu.Lock()
	// Clear the handle so a future expiry triggers a fresh refresh.
	c.refreshing = nil
	c.mu.Unlock()
	close(att.done)

	return att.token, att.err
}

// performRefresh calls the backend's refresh endpoint with the stored refresh
// token. A rejected refresh token clears all stored credentials; a transport
// failure leaves them untouched since the token may still be valid.
func (c *Client) performRefresh(ctx context.Context) (string, error) {
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refresh == "" {
		_ = c.store.ClearAll(ctx)
		return "", clierr.New(clierr.Auth, "session expired, please log in again", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh-token", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set(HeaderRefreshToken, refresh)
	req.Header.Set(HeaderRequestID, uuid.NewString())

	log.Debug().Msg("Access token expired or missing, refreshing")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Token refresh request failed")
		return "", clierr.New(clierr.Network, "could not reach the server", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// The refresh token itself was rejected; the session cannot recover silently.
		_ = c.store.ClearAll(ctx)
		log.Info().Int("status", resp.StatusCode).Msg("Refresh token rejected, credentials cleared")
		return "", clierr.New(clierr.Auth, errorMessage(body, resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", clierr.New(clierr.Internal, errorMessage(body, resp.StatusCode), nil)
	}

	var result struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if result.Token == "" {
		result.Token = resp.Header.Get(HeaderNewAccessToken)
	}
	if result.Token == "" {
		return "", clierr.New(clierr.Internal, "refresh response carried no access token", nil)
	}

	if err := c.storeAccessToken(ctx, result.Token); err != nil {
		return "", fmt.Errorf("failed to save refreshed token: %w", err)
	}
	// The backend may rotate the refresh token alongside the access token.
	if result.RefreshToken != "" {
		if err := c.store.SetRefreshToken(ctx, result.RefreshToken, time.Now().Add(c.refreshTTL)); err != nil {
			return "", fmt.Errorf("failed to save rotated refresh token: %w", err)
		}
	}

	log.Info().Msg("Token refreshed and saved successfully.")
	return result.Token, nil
}

// RefreshSession forces an explicit refresh of the access token. Used by the
// session controller during startup restoration.
func (c *Client) RefreshSession(ctx context.Context) error {
	_, err := c.refreshAccessToken(ctx)
	return err
}

// accessExpiry determines when an access token stops being usable. Tokens are
// treated as opaque, but when one happens to be a JWT with an exp claim that
// claim wins over the configured fallback TTL.
func (c *Client) accessExpiry(token string) time.Time {
	if exp, ok := tokenExpiry(token); ok {
		return exp
	}
	return time.Now().Add(c.accessTTL)
}

// tokenExpiry does a best-effort unverified parse of a JWT exp claim.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
