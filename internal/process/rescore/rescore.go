// Package rescore implements the second classification pass over undecided
// events.
//
// The first pass only sees an event's name and summary. For events that ended
// up grey, this pass fetches the full description and scores it against the
// same term lists; a description that is clearly automotive promotes the
// event. The pass is strictly additive: events already kept are never
// re-examined, and nothing here can demote or drop an event.
package rescore

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
	"github.com/motorlist/eventbrite-harvester/internal/process/match"
)

// Defaults applied by New for out-of-range arguments.
const (
	DefaultWhiteScoreThreshold = 3
	DefaultWorkers             = 4
)

// Log field constants.
const (
	logFieldEventID    = "event_id"
	logFieldWhiteScore = "white_score"
	logFieldBlackScore = "black_score"
)

// DescriptionProvider fetches the full description text for one event.
// Implementations make an external call per event.
type DescriptionProvider interface {
	FetchDescription(ctx context.Context, ev domain.RawEvent) (string, error)
}

// Result is the outcome of one rescoring pass. The two slices partition the
// input and preserve its order.
type Result struct {
	// Promoted holds events whose descriptions scored into the keep list.
	Promoted []domain.RawEvent

	// Grey holds the events that stayed undecided.
	Grey []domain.RawEvent

	// FetchErrors maps event IDs to the description fetch error that left
	// them grey with a zero score.
	FetchErrors map[string]error
}

// Rescorer scores event descriptions against the white and black term lists.
type Rescorer struct {
	provider  DescriptionProvider
	white     []string
	black     []string
	threshold int
	workers   int
	logger    *zerolog.Logger
}

// New creates a Rescorer. An event is promoted when its description's white
// score is at least threshold and strictly beats its black score.
// Non-positive threshold or workers fall back to the defaults.
func New(provider DescriptionProvider, white, black []string, threshold, workers int, logger *zerolog.Logger) *Rescorer {
	if threshold <= 0 {
		threshold = DefaultWhiteScoreThreshold
	}

	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Rescorer{
		provider:  provider,
		white:     append([]string(nil), white...),
		black:     append([]string(nil), black...),
		threshold: threshold,
		workers:   workers,
		logger:    logger,
	}
}

// Rescore fetches descriptions with bounded concurrency and partitions events
// into promoted and still-grey. A failed fetch scores zero and leaves the
// event grey; it never aborts the pass. Cancelling ctx stops dispatching and
// records the context error for the events that were not scored.
func (r *Rescorer) Rescore(ctx context.Context, events []domain.RawEvent) Result {
	result := Result{
		Promoted:    make([]domain.RawEvent, 0, len(events)),
		Grey:        make([]domain.RawEvent, 0, len(events)),
		FetchErrors: make(map[string]error),
	}

	if len(events) == 0 {
		return result
	}

	type scoreResult struct {
		index    int
		promoted bool
		err      error
	}

	sem := make(chan struct{}, r.workers)
	results := make(chan scoreResult, len(events))

	promoted := make([]bool, len(events))
	errs := make([]error, len(events))

	dispatched := 0

	for i, ev := range events {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}

		// Acquire worker slot (blocks if all workers busy)
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		}

		dispatched++

		go func(i int, ev domain.RawEvent) {
			defer func() { <-sem }() // Release worker slot

			ok, err := r.scoreEvent(ctx, ev)
			results <- scoreResult{index: i, promoted: ok, err: err}
		}(i, ev)
	}

	for n := 0; n < dispatched; n++ {
		res := <-results
		promoted[res.index] = res.promoted
		errs[res.index] = res.err
	}

	for i, ev := range events {
		switch {
		case errs[i] != nil:
			result.FetchErrors[ev.ID] = errs[i]
			result.Grey = append(result.Grey, ev)

			r.logger.Warn().Str(logFieldEventID, ev.ID).Err(errs[i]).Msg("description fetch failed, event stays grey")
		case promoted[i]:
			result.Promoted = append(result.Promoted, ev)

			r.logger.Info().Str(logFieldEventID, ev.ID).Str("url", ev.URL).Msg("promoted to keep list")
		default:
			result.Grey = append(result.Grey, ev)
		}
	}

	return result
}

// scoreEvent fetches and scores one description. The caser is created per
// call because folding casers are not safe for concurrent use.
func (r *Rescorer) scoreEvent(ctx context.Context, ev domain.RawEvent) (bool, error) {
	desc, err := r.provider.FetchDescription(ctx, ev)
	if err != nil {
		return false, err
	}

	folded := cases.Fold().String(desc)

	w := match.Score(folded, r.white)
	b := match.Score(folded, r.black)

	r.logger.Debug().
		Str(logFieldEventID, ev.ID).
		Int(logFieldWhiteScore, w).
		Int(logFieldBlackScore, b).
		Msg("rescored description")

	return w > b && w >= r.threshold, nil
}
