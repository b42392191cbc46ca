package eventbrite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const ticketingResponse = `{
	"is_free": false,
	"ticket_availability": {
		"maximum_ticket_price": {"currency": "USD", "major_value": "45.00"}
	},
	"start": {"timezone": "America/Chicago", "local": "2026-09-12T09:00:00", "utc": "2026-09-12T14:00:00Z"},
	"end": {"timezone": "America/Chicago", "local": "2026-09-12T17:00:00", "utc": "2026-09-12T22:00:00Z"}
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "secret-token", NewFetcher(100, 5*time.Second))
}

func TestNewClient(t *testing.T) {
	fetcher := NewFetcher(100, 5*time.Second)

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "default base url", baseURL: "", want: DefaultAPIURL},
		{name: "trailing slash trimmed", baseURL: "https://api.example.com/v3/", want: "https://api.example.com/v3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, "tok", fetcher)
			if client.baseURL != tt.want {
				t.Errorf("NewClient() baseURL = %q, want %q", client.baseURL, tt.want)
			}
		})
	}
}

func TestClient_FetchTicketing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events/123/", r.URL.Path)
		require.Equal(t, "ticket_availability", r.URL.Query().Get("expand"))
		require.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		fmt.Fprint(w, ticketingResponse)
	}))

	ticketing, err := client.FetchTicketing(context.Background(), "123")
	require.NoError(t, err)

	require.False(t, ticketing.IsFree)
	require.NotNil(t, ticketing.TicketAvailability)
	require.NotNil(t, ticketing.TicketAvailability.MaximumTicketPrice)
	require.Equal(t, "USD", ticketing.TicketAvailability.MaximumTicketPrice.Currency)
	require.Equal(t, "45.00", ticketing.TicketAvailability.MaximumTicketPrice.MajorValue)
	require.NotNil(t, ticketing.Start)
	require.Equal(t, "America/Chicago", ticketing.Start.Timezone)
	require.Equal(t, "2026-09-12T09:00:00", ticketing.Start.Local)
	require.NotNil(t, ticketing.End)
	require.Equal(t, "2026-09-12T22:00:00Z", ticketing.End.UTC)
}

func TestClient_FetchTicketing_HTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchTicketing(context.Background(), "123")
	require.ErrorIs(t, err, ErrHTTPStatus)
}

func TestClient_FetchTicketing_BadJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))

	_, err := client.FetchTicketing(context.Background(), "123")
	require.Error(t, err)
}

func TestClient_FetchStructuredDescription(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events/55/structured_content/", r.URL.Path)
		require.Equal(t, "listing", r.URL.Query().Get("purpose"))

		fmt.Fprint(w, `{"modules": [
			{"data": {"body": {"text": "Join us for the biggest "}}},
			{"data": {"image": {"url": "https://img.evbuc.com/55.jpg"}}},
			{"data": {"body": {"text": "car show of the year."}}}
		]}`)
	}))

	text, err := client.FetchStructuredDescription(context.Background(), "55")
	require.NoError(t, err)
	require.Equal(t, "Join us for the biggest car show of the year.", text)
}

func TestClient_FetchStructuredDescription_NoModules(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"modules": []}`)
	}))

	text, err := client.FetchStructuredDescription(context.Background(), "55")
	require.NoError(t, err)
	require.Equal(t, "", text)
}
