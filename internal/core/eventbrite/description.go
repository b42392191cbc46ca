package eventbrite

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

const logFieldEventID = "event_id"

// DescriptionSource resolves full event descriptions. The structured-content
// API is authoritative; when it fails the source falls back to extracting
// readable text from the public event page.
type DescriptionSource struct {
	client  *Client
	fetcher *Fetcher
	logger  *zerolog.Logger
}

// NewDescriptionSource creates a DescriptionSource.
func NewDescriptionSource(client *Client, fetcher *Fetcher, logger *zerolog.Logger) *DescriptionSource {
	return &DescriptionSource{
		client:  client,
		fetcher: fetcher,
		logger:  logger,
	}
}

// FetchDescription returns the best available description text for ev.
func (s *DescriptionSource) FetchDescription(ctx context.Context, ev domain.RawEvent) (string, error) {
	text, err := s.client.FetchStructuredDescription(ctx, ev.ID)
	if err == nil {
		return text, nil
	}

	if ev.URL == "" {
		return "", err
	}

	s.logger.Debug().Str(logFieldEventID, ev.ID).Err(err).Msg("structured content unavailable, reading event page")

	return s.readEventPage(ctx, ev.URL)
}

// readEventPage extracts the readable text of the public event page.
func (s *DescriptionSource) readEventPage(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse event page url: %w", err)
	}

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch event page: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("extract readable text: %w", err)
	}

	return strings.TrimSpace(article.TextContent), nil
}
