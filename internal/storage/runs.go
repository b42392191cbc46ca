package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// HarvestRun is one archived pipeline run. FinishedAt is nil while the run is
// still in flight.
type HarvestRun struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Status         string     `json:"status"`
	PagesScraped   int        `json:"pages_scraped"`
	EventsScanned  int        `json:"events_scanned"`
	WhiteCount     int        `json:"white_count"`
	GreyCount      int        `json:"grey_count"`
	PromotedCount  int        `json:"promoted_count"`
	DroppedCount   int        `json:"dropped_count"`
	ConvertedCount int        `json:"converted_count"`
	Error          string     `json:"error,omitempty"`
}

// RunStats carries the final counters written when a run finishes.
type RunStats struct {
	Status         string
	PagesScraped   int
	EventsScanned  int
	WhiteCount     int
	GreyCount      int
	PromotedCount  int
	DroppedCount   int
	ConvertedCount int
	Error          string
}

// CreateRun inserts a new run in the running state and returns its id.
func (db *DB) CreateRun(ctx context.Context) (string, error) {
	id := uuid.New().String()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO harvest_runs (id, started_at, status)
		VALUES ($1, NOW(), $2)
	`, toUUID(id), RunStatusRunning)
	if err != nil {
		return "", fmt.Errorf("create harvest run: %w", err)
	}

	return id, nil
}

// FinishRun records the final counters and status of a run.
func (db *DB) FinishRun(ctx context.Context, runID string, stats RunStats) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE harvest_runs SET
			finished_at = NOW(),
			status = $2,
			pages_scraped = $3,
			events_scanned = $4,
			white_count = $5,
			grey_count = $6,
			promoted_count = $7,
			dropped_count = $8,
			converted_count = $9,
			error = $10
		WHERE id = $1
	`, toUUID(runID), stats.Status,
		toInt4(stats.PagesScraped), toInt4(stats.EventsScanned),
		toInt4(stats.WhiteCount), toInt4(stats.GreyCount),
		toInt4(stats.PromotedCount), toInt4(stats.DroppedCount),
		toInt4(stats.ConvertedCount), toText(stats.Error))
	if err != nil {
		return fmt.Errorf("finish harvest run: %w", err)
	}

	return nil
}

// GetRecentRuns returns the most recently started runs, newest first.
func (db *DB) GetRecentRuns(ctx context.Context, limit int) ([]HarvestRun, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, started_at, finished_at, status,
			pages_scraped, events_scanned, white_count, grey_count,
			promoted_count, dropped_count, converted_count, error
		FROM harvest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, safeIntToInt32(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	runs := make([]HarvestRun, 0, limit)

	for rows.Next() {
		var (
			run        HarvestRun
			id         pgtype.UUID
			startedAt  pgtype.Timestamptz
			finishedAt pgtype.Timestamptz
			errText    pgtype.Text
		)

		if err := rows.Scan(&id, &startedAt, &finishedAt, &run.Status,
			&run.PagesScraped, &run.EventsScanned, &run.WhiteCount, &run.GreyCount,
			&run.PromotedCount, &run.DroppedCount, &run.ConvertedCount, &errText); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		run.ID = fromUUID(id)
		run.StartedAt = fromTimestamptz(startedAt)
		run.Error = fromText(errText)

		if finishedAt.Valid {
			finished := finishedAt.Time
			run.FinishedAt = &finished
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
