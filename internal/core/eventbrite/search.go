package eventbrite

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// Log field constants.
const (
	logFieldSearchURL = "search_url"
	logFieldPage      = "page"
	logFieldCount     = "count"
)

// DefaultSearchURLs returns the default marketplace searches. The US site has
// no automotive sub-category, so its search covers the whole
// auto-boat-and-air category and relies on classification to weed out the
// boats and the planes.
func DefaultSearchURLs() []string {
	return []string{
		"https://www.eventbrite.com/d/united-states/auto-boat-and-air--events/?page=",
		"https://www.eventbrite.com/d/canada/auto-boat-and-air--events/automotive/?page=",
		"https://www.eventbrite.com/d/united-kingdom/auto-boat-and-air--events/automotive/?page=",
		"https://www.eventbrite.com/d/australia/auto-boat-and-air--events/automotive/?page=",
	}
}

// Scraper walks marketplace search pages and collects embedded raw events.
type Scraper struct {
	fetcher *Fetcher
	logger  *zerolog.Logger
}

// NewScraper creates a Scraper.
func NewScraper(fetcher *Fetcher, logger *zerolog.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Scrape fetches search pages startPage through maxPages-1, appending the
// page number to searchURL. It stops early at the end-of-results marker or
// an empty page, and returns the events found together with the number of
// pages that yielded them. On a page error the events scraped so far are
// returned alongside it so one broken page does not void the marketplace.
func (s *Scraper) Scrape(ctx context.Context, searchURL string, startPage, maxPages int) ([]domain.RawEvent, int, error) {
	var events []domain.RawEvent

	pages := 0

	for page := startPage; page < maxPages; page++ {
		body, err := s.fetcher.Fetch(ctx, searchURL+strconv.Itoa(page))
		if err != nil {
			return events, pages, fmt.Errorf("fetch page %d: %w", page, err)
		}

		pageEvents, done, err := ExtractEvents(body)
		if err != nil {
			return events, pages, fmt.Errorf("page %d: %w", page, err)
		}

		if done {
			s.logger.Debug().Str(logFieldSearchURL, searchURL).Int(logFieldPage, page).Msg("end of search results")

			break
		}

		if len(pageEvents) == 0 {
			s.logger.Debug().Str(logFieldSearchURL, searchURL).Int(logFieldPage, page).Msg("empty search page")

			break
		}

		s.logger.Info().
			Str(logFieldSearchURL, searchURL).
			Int(logFieldPage, page).
			Int(logFieldCount, len(pageEvents)).
			Msg("scraped search page")

		pages++
		events = append(events, pageEvents...)
	}

	return events, pages, nil
}

// Marketplace returns the country segment of a marketplace search URL, used
// as a stable log and metric label. URLs without a /d/ segment fall back to
// the host.
func Marketplace(searchURL string) string {
	parsed, err := url.Parse(searchURL)
	if err != nil {
		return "unknown"
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) {
			return parts[i+1]
		}
	}

	return parsed.Host
}
