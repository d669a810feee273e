package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// FetchClubs retrieves the list of student clubs.
func (c *Client) FetchClubs(ctx context.Context) ([]Club, error) {
	body, err := c.do(ctx, apiRequest{
		method:        http.MethodGet,
		path:          "/clubs",
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}

	var clubs []Club
	if err := json.Unmarshal(body, &clubs); err != nil {
		log.Error().Err(err).Msg("Failed to parse clubs JSON")
		return nil, fmt.Errorf("failed to parse clubs response: %w", err)
	}
	log.Info().Int("count", len(clubs)).Msg("Successfully fetched clubs")
	return clubs, nil
}

// JoinClub adds the authenticated user to a club.
func (c *Client) JoinClub(ctx context.Context, id int) error {
	_, err := c.do(ctx, apiRequest{
		method:        http.MethodPost,
		path:          fmt.Sprintf("/clubs/%d/join", id),
		authenticated: true,
	})
	return err
}
