package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/cesi-vents/vents/pkg/hasher"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// tokenResponse is the shape of login, register, and refresh responses.
type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with email and password and persists the issued
// credential pair. A 401 here means bad credentials, not an expired session,
// so the request bypasses the refresh-and-retry path.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	body, err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	return c.storeIssuedTokens(ctx, body)
}

// Register creates an account and persists the issued credential pair,
// following the same contract as Login.
func (c *Client) Register(ctx context.Context, form RegisterForm) error {
	payload, err := json.Marshal(form)
	if err != nil {
		return err
	}

	body, err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	return c.storeIssuedTokens(ctx, body)
}

// storeIssuedTokens persists the credential pair from a login or register response.
func (c *Client) storeIssuedTokens(ctx context.Context, body []byte) error {
	var result tokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if result.Token == "" {
		return clierr.New(clierr.Internal, "server response carried no access token", nil)
	}
	if err := c.storeAccessToken(ctx, result.Token); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if result.RefreshToken != "" {
		if err := c.store.SetRefreshToken(ctx, result.RefreshToken, time.Now().Add(c.refreshTTL)); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
	}
	log.Info().Msg("Credentials saved successfully")
	return nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	body, err := c.do(ctx, apiRequest{
		method:        http.MethodGet,
		path:          "/auth/profile",
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return parseProfile(body)
}

// UpdateProfile submits changed profile fields and returns the server's
// canonical representation.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, apiRequest{
		method:        http.MethodPut,
		path:          "/auth/profile",
		body:          payload,
		contentType:   "application/json",
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return parseProfile(body)
}

// UploadAvatar uploads an image file as the user's avatar and returns the
// updated profile. The file's sha256 rides along in an integrity header.
func (c *Client) UploadAvatar(ctx context.Context, filePath string) (*Profile, error) {
	checksum, err := hasher.FileChecksum(filePath, "sha256")
	if err != nil {
		return nil, fmt.Errorf("failed to hash avatar file: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	progressBar := progressbar.NewOptions64(
		info.Size(),
		progressbar.OptionSetDescription(fmt.Sprintf("Uploading %s", filepath.Base(filePath))),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", filepath.Base(filePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, io.TeeReader(file, progressBar)); err != nil {
		return nil, fmt.Errorf("failed to read avatar file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	extra := http.Header{}
	extra.Set(HeaderContentSHA256, checksum)

	body, err := c.do(ctx, apiRequest{
		method:        http.MethodPost,
		path:          "/auth/upload-avatar",
		body:          buf.Bytes(),
		contentType:   writer.FormDataContentType(),
		extraHeader:   extra,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return parseProfile(body)
}

// parseProfile decodes a profile response body.
func parseProfile(body []byte) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		log.Error().Err(err).Msg("Failed to parse profile JSON")
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &profile, nil
}
