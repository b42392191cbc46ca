package eventbrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// DefaultAPIURL is the public v3 REST API root.
const DefaultAPIURL = "https://www.eventbriteapi.com/v3"

// Client calls the per-event REST API endpoints.
type Client struct {
	baseURL string
	token   string
	fetcher *Fetcher
}

// NewClient creates an API client. An empty baseURL falls back to
// DefaultAPIURL; a trailing slash is tolerated.
func NewClient(baseURL, token string, fetcher *Fetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		fetcher: fetcher,
	}
}

// FetchTicketing returns the event payload with ticket availability expanded.
func (c *Client) FetchTicketing(ctx context.Context, eventID string) (*domain.Ticketing, error) {
	endpoint := fmt.Sprintf("%s/events/%s/?expand=ticket_availability", c.baseURL, eventID)

	body, err := c.fetcher.FetchJSON(ctx, endpoint, c.token)
	if err != nil {
		return nil, fmt.Errorf("fetch ticketing: %w", err)
	}

	ticketing := &domain.Ticketing{}
	if err := json.Unmarshal(body, ticketing); err != nil {
		return nil, fmt.Errorf("decode ticketing: %w", err)
	}

	return ticketing, nil
}

// structuredContent is the slice of the structured-content payload carrying
// description text. Modules without a body block are skipped.
type structuredContent struct {
	Modules []struct {
		Data struct {
			Body *struct {
				Text string `json:"text"`
			} `json:"body"`
		} `json:"data"`
	} `json:"modules"`
}

// FetchStructuredDescription returns the concatenated description text of
// the event's listing page modules.
func (c *Client) FetchStructuredDescription(ctx context.Context, eventID string) (string, error) {
	endpoint := fmt.Sprintf("%s/events/%s/structured_content/?purpose=listing", c.baseURL, eventID)

	body, err := c.fetcher.FetchJSON(ctx, endpoint, c.token)
	if err != nil {
		return "", fmt.Errorf("fetch structured content: %w", err)
	}

	var content structuredContent
	if err := json.Unmarshal(body, &content); err != nil {
		return "", fmt.Errorf("decode structured content: %w", err)
	}

	var text strings.Builder

	for _, module := range content.Modules {
		if module.Data.Body != nil {
			text.WriteString(module.Data.Body.Text)
		}
	}

	return text.String(), nil
}
