// Package dedup collapses scraped events that share a source identifier.
//
// The same event shows up on several search pages and in several
// marketplaces, so one harvest sees an ID repeatedly. The identifier is the
// whole identity: payloads are never compared, the latest occurrence wins,
// and output keeps the order in which IDs were first seen so downstream
// conversion and export stay deterministic.
package dedup

import (
	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// Log key constants for deduplication.
const logKeyEventID = "event_id"

// Result contains the deduplicated events with metadata.
type Result struct {
	// Events holds one event per distinct ID, in first-seen order, each
	// carrying the payload of its latest occurrence.
	Events []domain.RawEvent

	// DroppedCount is the number of occurrences collapsed into earlier ones.
	DroppedCount int
}

// ByID collapses events sharing an ID. Logger may be nil.
func ByID(events []domain.RawEvent, logger *zerolog.Logger) Result {
	result := Result{
		Events: make([]domain.RawEvent, 0, len(events)),
	}

	index := make(map[string]int, len(events))

	for _, ev := range events {
		if at, seen := index[ev.ID]; seen {
			result.Events[at] = ev
			result.DroppedCount++

			if logger != nil {
				logger.Debug().Str(logKeyEventID, ev.ID).Msg("collapsing repeated occurrence")
			}

			continue
		}

		index[ev.ID] = len(result.Events)
		result.Events = append(result.Events, ev)
	}

	return result
}
