package db

import (
	"context"
	"fmt"
	"time"
)

// DropReasonStat aggregates drop-log entries by reason.
type DropReasonStat struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// SaveDrop upserts the latest drop outcome for an event. Repeated drops of
// the same event across runs keep a single row carrying the newest reason.
func (db *DB) SaveDrop(ctx context.Context, runID, eventID, name, reason, detail string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO event_drop_log (event_id, run_id, name, reason, detail)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			name = EXCLUDED.name,
			reason = EXCLUDED.reason,
			detail = EXCLUDED.detail,
			updated_at = NOW()
	`, eventID, toUUID(runID), toText(name), reason, toText(detail))
	if err != nil {
		return fmt.Errorf("save event drop log: %w", err)
	}

	return nil
}

// GetDropReasonStats returns drop counts grouped by reason for entries
// touched since the given time.
func (db *DB) GetDropReasonStats(ctx context.Context, since time.Time, limit int) ([]DropReasonStat, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT reason, COUNT(*)::int
		FROM event_drop_log
		WHERE updated_at >= $1
		GROUP BY reason
		ORDER BY COUNT(*) DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query drop reason stats: %w", err)
	}
	defer rows.Close()

	stats := make([]DropReasonStat, 0, limit)

	for rows.Next() {
		var entry DropReasonStat
		if err := rows.Scan(&entry.Reason, &entry.Count); err != nil {
			return nil, fmt.Errorf("scan drop reason stat row: %w", err)
		}

		stats = append(stats, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drop reason stats rows: %w", err)
	}

	return stats, nil
}
