package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

func TestWriteEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", EventsFile)

	events := []domain.CanonicalEvent{
		{
			Name:         "Cars and Coffee",
			BookingURL:   "https://www.eventbrite.com/e/101",
			EventType:    "public",
			Price:        domain.FreePrice(),
			SocialMedias: []string{},
		},
	}

	require.NoError(t, WriteEvents(path, events))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, `[{"name":"Cars and Coffee"`), "got %q", text)
	require.Contains(t, text, `"coverImage":{}`)
	require.Contains(t, text, `"socialMedias":[]`)
}

func TestWriteEvents_EmptyIsArray(t *testing.T) {
	tests := []struct {
		name   string
		events []domain.CanonicalEvent
	}{
		{name: "nil slice"},
		{name: "empty slice", events: []domain.CanonicalEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), EventsFile)

			require.NoError(t, WriteEvents(path, tt.events))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, "[]", string(data))
		})
	}
}

func TestWriteRawDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), RawDumpFile)

	events := []domain.RawEvent{
		{ID: "101", Name: "Cars and Coffee", URL: "https://www.eventbrite.com/e/101"},
		{ID: "102", Name: "Truck Meet"},
	}

	require.NoError(t, WriteRawDump(path, events))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, `[{"id":"101"`), "got %q", text)
	require.Contains(t, text, `"id":"102"`)
}

func TestWriteNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)

	events := []domain.RawEvent{
		{ID: "101", Name: "Cars and Coffee"},
		{ID: "102", Name: "Harbor Lights"},
	}

	require.NoError(t, WriteNames(path, events))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Cars and Coffee\nHarbor Lights\n", string(data))
}

func TestWriteNames_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)

	require.NoError(t, WriteNames(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "", string(data))
}

func TestWriteEvents_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "dir", EventsFile)

	require.NoError(t, WriteEvents(path, nil))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
