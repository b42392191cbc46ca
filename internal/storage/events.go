package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
)

// EventRecord is one archived classification outcome within a run.
type EventRecord struct {
	RunID      string
	EventID    string
	Name       string
	Bucket     domain.Bucket
	WhiteScore int
	BlackScore int
	Promoted   bool
	StartsAt   string // start timestamp as reported by ticketing
	Payload    any    // archived as jsonb
}

// SaveEvent upserts one event record for a run.
func (db *DB) SaveEvent(ctx context.Context, rec EventRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO harvested_events (run_id, event_id, name, bucket, white_score, black_score, promoted, starts_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, event_id) DO UPDATE SET
			name = EXCLUDED.name,
			bucket = EXCLUDED.bucket,
			white_score = EXCLUDED.white_score,
			black_score = EXCLUDED.black_score,
			promoted = EXCLUDED.promoted,
			starts_at = EXCLUDED.starts_at,
			payload = EXCLUDED.payload
	`, toUUID(rec.RunID), rec.EventID, SanitizeUTF8(rec.Name), string(rec.Bucket),
		toInt4(rec.WhiteScore), toInt4(rec.BlackScore), rec.Promoted,
		toTimestamptzPtr(parseEventTime(rec.StartsAt)), payload)
	if err != nil {
		return fmt.Errorf("save harvested event: %w", err)
	}

	return nil
}

// parseEventTime best-effort parses a source timestamp. Unparseable values
// archive as NULL rather than failing the write.
func parseEventTime(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}

	return &t
}
