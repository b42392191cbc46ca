// Package export writes harvest results to disk: converted events as JSON
// arrays, the grey review name list as plain text and the optional raw dump.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// Canonical output file names.
const (
	EventsFile     = "eventbrite_events.json"
	GreyEventsFile = "grey_eventbrite_events.json"
	NamesFile      = "_event_names.txt"
	RawDumpFile    = "raw_events.json"
)

const outputDirPerm = 0o700

// WriteEvents writes converted events as a JSON array. A nil or empty slice
// encodes as []; consumers never see null.
func WriteEvents(path string, events []domain.CanonicalEvent) error {
	if events == nil {
		events = []domain.CanonicalEvent{}
	}

	return writeFile(path, func(writer *bufio.Writer) error {
		line, err := json.Marshal(events)
		if err != nil {
			return fmt.Errorf("failed to encode events: %w", err)
		}

		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write events: %w", err)
		}

		return nil
	})
}

// WriteRawDump writes raw events exactly as scraped, for offline replay.
func WriteRawDump(path string, events []domain.RawEvent) error {
	if events == nil {
		events = []domain.RawEvent{}
	}

	return writeFile(path, func(writer *bufio.Writer) error {
		line, err := json.Marshal(events)
		if err != nil {
			return fmt.Errorf("failed to encode raw events: %w", err)
		}

		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write raw events: %w", err)
		}

		return nil
	})
}

// WriteNames writes one event name per line, the quick-scan review list for
// the grey bucket.
func WriteNames(path string, events []domain.RawEvent) error {
	return writeFile(path, func(writer *bufio.Writer) error {
		for _, ev := range events {
			if _, err := writer.WriteString(ev.Name); err != nil {
				return fmt.Errorf("failed to write name: %w", err)
			}

			if err := writer.WriteByte('\n'); err != nil {
				return fmt.Errorf("failed to write newline: %w", err)
			}
		}

		return nil
	})
}

func writeFile(path string, write func(*bufio.Writer) error) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), outputDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	writer := bufio.NewWriter(f)

	if err := write(writer); err != nil {
		return err
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
