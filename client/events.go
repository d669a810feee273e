package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// FetchEvents retrieves the list of campus events.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	body, err := c.do(ctx, apiRequest{
		method:        http.MethodGet,
		path:          "/events",
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		log.Error().Err(err).Msg("Failed to parse events JSON")
		return nil, fmt.Errorf("failed to parse events response: %w", err)
	}
	log.Info().Int("count", len(events)).Msg("Successfully fetched events")
	return events, nil
}

// FetchEvent retrieves the details of a single event.
func (c *Client) FetchEvent(ctx context.Context, id int) (*Event, error) {
	body, err := c.do(ctx, apiRequest{
		method:        http.MethodGet,
		path:          fmt.Sprintf("/events/%d", id),
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error().Err(err).Msg("Failed to parse event JSON")
		return nil, fmt.Errorf("failed to parse event response: %w", err)
	}
	return &event, nil
}

// RegisterForEvent registers the authenticated user for an event.
func (c *Client) RegisterForEvent(ctx context.Context, id int) error {
	_, err := c.do(ctx, apiRequest{
		method:        http.MethodPost,
		path:          fmt.Sprintf("/events/%d/register", id),
		authenticated: true,
	})
	return err
}
