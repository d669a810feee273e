package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	RequestsPerSecond float64
}

// Client is the single chokepoint for all backend calls. It attaches the
// stored credentials to outgoing requests, persists passively renewed access
// tokens, and transparently refreshes and retries once on an unauthorized
// response.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	limiter    *RateLimiter

	mu         sync.Mutex
	refreshing *refreshAttempt
}

// New creates a Client backed by the given token store.
func New(store TokenStore, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 15 * time.Minute
	}
	if opts.RefreshTokenTTL <= 0 {
		opts.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		store:      store,
		accessTTL:  opts.AccessTokenTTL,
		refreshTTL: opts.RefreshTokenTTL,
		limiter:    NewRateLimiter(opts.RequestsPerSecond),
	}
}

// apiRequest describes one backend call. Bodies are kept as byte slices so
// the request can be re-issued after a refresh.
type apiRequest struct {
	method        string
	path          string
	body          []byte
	contentType   string
	extraHeader   http.Header
	authenticated bool
}

// do dispatches a request through the chokepoint.
func (c *Client) do(ctx context.Context, r apiRequest) ([]byte, error) {
	return c.send(ctx, r, false)
}

// send performs one attempt. On an unauthorized response to an authenticated
// request it refreshes the access token and retries exactly once; the retried
// flag prevents further attempts when the backend keeps rejecting.
func (c *Client) send(ctx context.Context, r apiRequest, retried bool) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if r.body != nil {
		reader = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		log.Error().Err(err).Str("method", r.method).Str("path", r.path).Msg("Failed to create HTTP request object")
		return nil, err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for key, values := range r.extraHeader {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())

	if r.authenticated {
		if access, err := c.store.AccessToken(ctx); err == nil && access != "" {
			req.Header.Set(HeaderAuthToken, access)
		}
		// The refresh token rides along so a sliding-refresh backend can
		// upgrade the request without a round trip. The client never assumes
		// it will.
		if refresh, err := c.store.RefreshToken(ctx); err == nil && refresh != "" {
			req.Header.Set(HeaderRefreshToken, refresh)
		}
	}

	log.Debug().Str("method", r.method).Str("path", r.path).Bool("retry", retried).Msg("Sending HTTP request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", r.method).Str("path", r.path).Msg("HTTP request failed")
		return nil, clierr.New(clierr.Network, "could not reach the server", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	// Passive renewal: any response may carry a freshly issued access token.
	if token := resp.Header.Get(HeaderNewAccessToken); token != "" {
		if err := c.storeAccessToken(ctx, token); err != nil {
			log.Error().Err(err).Msg("Failed to persist passively renewed access token")
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if readErr != nil {
			log.Error().Err(readErr).Str("path", r.path).Msg("Failed to read response body")
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}
		log.Debug().Str("method", r.method).Str("path", r.path).Int("status", resp.StatusCode).Msg("HTTP request successful")
		return body, nil
	}

	msg := errorMessage(body, resp.StatusCode)
	log.Debug().Str("method", r.method).Str("path", r.path).Int("status", resp.StatusCode).Str("message", msg).Msg("HTTP request returned non-OK status")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if !r.authenticated || retried {
			return nil, clierr.New(clierr.Auth, msg, nil)
		}
		if _, err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		return c.send(ctx, r, true)
	case resp.StatusCode == http.StatusForbidden:
		return nil, clierr.New(clierr.Forbidden, msg, nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, clierr.New(clierr.NotFound, msg, nil)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, clierr.New(clierr.Validation, msg, nil)
	default:
		return nil, clierr.New(clierr.Internal, msg, nil)
	}
}

// storeAccessToken persists an access token with its introspected expiry.
func (c *Client) storeAccessToken(ctx context.Context, token string) error {
	return c.store.SetAccessToken(ctx, token, c.accessExpiry(token))
}

// errorMessage extracts the backend's error message from a response body.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("unexpected HTTP status: %d %s", status, http.StatusText(status))
}
