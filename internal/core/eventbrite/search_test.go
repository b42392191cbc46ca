package eventbrite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

func newTestScraper() *Scraper {
	logger := zerolog.Nop()

	return NewScraper(NewFetcher(100, 5*time.Second), &logger)
}

func eventIDs(events []domain.RawEvent) []string {
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}

	return ids
}

func TestScraper_Scrape(t *testing.T) {
	pages := map[string]string{
		"1": searchPage("101", "102"),
		"2": searchPage("103"),
		"3": endOfResultsPage,
	}

	var requested []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)

		fmt.Fprint(w, pages[page])
	}))
	defer server.Close()

	events, pages, err := newTestScraper().Scrape(context.Background(), server.URL+"/d/united-states/auto-boat-and-air--events/?page=", 1, 6)
	require.NoError(t, err)
	require.Equal(t, []string{"101", "102", "103"}, eventIDs(events))
	require.Equal(t, 2, pages, "only pages that yielded events count")
	require.Equal(t, []string{"1", "2", "3"}, requested, "pagination should stop at the end-of-results page")
}

func TestScraper_Scrape_EmptyPageStops(t *testing.T) {
	pages := map[string]string{
		"1": searchPage("101"),
		"2": searchPage(),
	}

	var requested []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)

		fmt.Fprint(w, pages[page])
	}))
	defer server.Close()

	events, pages, err := newTestScraper().Scrape(context.Background(), server.URL+"/?page=", 1, 6)
	require.NoError(t, err)
	require.Equal(t, []string{"101"}, eventIDs(events))
	require.Equal(t, 1, pages)
	require.Equal(t, []string{"1", "2"}, requested)
}

func TestScraper_Scrape_PageLimit(t *testing.T) {
	var requested []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)

		fmt.Fprint(w, searchPage("10"+page))
	}))
	defer server.Close()

	events, pages, err := newTestScraper().Scrape(context.Background(), server.URL+"/?page=", 1, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"101", "102"}, eventIDs(events))
	require.Equal(t, 2, pages)
	require.Equal(t, []string{"1", "2"}, requested, "maxPages is an exclusive bound")
}

func TestScraper_Scrape_MidPaginationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		fmt.Fprint(w, searchPage("101", "102"))
	}))
	defer server.Close()

	events, pages, err := newTestScraper().Scrape(context.Background(), server.URL+"/?page=", 1, 6)
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.Equal(t, []string{"101", "102"}, eventIDs(events), "events scraped before the failure should survive")
	require.Equal(t, 1, pages)
}

func TestScraper_Scrape_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, pages, err := newTestScraper().Scrape(ctx, "https://www.eventbrite.com/?page=", 1, 6)
	require.Error(t, err)
	require.Empty(t, events)
	require.Zero(t, pages)
}

func TestMarketplace(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "marketplace search url",
			url:  "https://www.eventbrite.com/d/united-states/auto-boat-and-air--events/?page=",
			want: "united-states",
		},
		{
			name: "sub-category url",
			url:  "https://www.eventbrite.com/d/canada/auto-boat-and-air--events/automotive/?page=",
			want: "canada",
		},
		{
			name: "no marketplace segment",
			url:  "https://www.eventbrite.com/?page=",
			want: "www.eventbrite.com",
		},
		{
			name: "unparseable url",
			url:  "http://bad url with spaces/d/x/",
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Marketplace(tt.url))
		})
	}
}
