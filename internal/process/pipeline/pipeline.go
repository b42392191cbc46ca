// Package pipeline orchestrates one full harvest: scrape the marketplace
// searches, classify and rescore the raw events, collapse duplicates, convert
// survivors to the contracted schema and export the result, archiving run
// records along the way when a database is configured.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
	"github.com/motorlist/eventbrite-harvester/internal/core/eventbrite"
	"github.com/motorlist/eventbrite-harvester/internal/output/export"
	"github.com/motorlist/eventbrite-harvester/internal/platform/config"
	"github.com/motorlist/eventbrite-harvester/internal/platform/observability"
	"github.com/motorlist/eventbrite-harvester/internal/process/classify"
	"github.com/motorlist/eventbrite-harvester/internal/process/convert"
	"github.com/motorlist/eventbrite-harvester/internal/process/dedup"
	"github.com/motorlist/eventbrite-harvester/internal/process/rescore"
	db "github.com/motorlist/eventbrite-harvester/internal/storage"
)

// Repository archives harvest runs, event records and drops. All writes are
// best-effort; a failed write is logged and never aborts the harvest.
type Repository interface {
	CreateRun(ctx context.Context) (string, error)
	FinishRun(ctx context.Context, runID string, stats db.RunStats) error
	SaveEvent(ctx context.Context, rec db.EventRecord) error
	SaveDrop(ctx context.Context, runID, eventID, name, reason, detail string) error
}

// Compile-time assertion that *db.DB implements Repository.
var _ Repository = (*db.DB)(nil)

// Scraper walks one marketplace search and returns its raw events together
// with the number of pages that yielded them.
type Scraper interface {
	Scrape(ctx context.Context, searchURL string, startPage, maxPages int) ([]domain.RawEvent, int, error)
}

// errConversionPanic marks a conversion that panicked instead of returning.
var errConversionPanic = errors.New("conversion panicked")

type Pipeline struct {
	cfg        *config.Config
	database   Repository
	scraper    Scraper
	classifier *classify.Classifier
	rescorer   *rescore.Rescorer
	converter  *convert.Converter
	logger     *zerolog.Logger
}

// New creates a Pipeline. A nil database runs the harvest file-only.
func New(cfg *config.Config, database Repository, scraper Scraper, classifier *classify.Classifier, rescorer *rescore.Rescorer, converter *convert.Converter, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		database:   database,
		scraper:    scraper,
		classifier: classifier,
		rescorer:   rescorer,
		converter:  converter,
		logger:     logger,
	}
}

// runState carries one harvest's identity, archive handle and counters.
type runState struct {
	id       string
	repo     Repository // nil disables archiving for this run
	stats    db.RunStats
	promoted map[string]bool
	logger   zerolog.Logger
}

// Run executes one full harvest. Per-event and per-marketplace failures are
// logged, counted and skipped; Run only fails when the output files cannot
// be written or the harvest was interrupted.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	state := p.newRunState(ctx)

	state.logger.Info().Msg("starting harvest run")

	white, grey := p.scrapeAndClassify(ctx, state)
	white, grey = p.rescoreGrey(ctx, state, white, grey)

	if p.cfg.SaveRawDump {
		p.writeRawDump(state, white)
	}

	whiteUnique := p.dedupList(state, white, domain.BucketWhite)
	greyUnique := p.dedupList(state, grey, domain.BucketGrey)

	accepted := p.convertList(ctx, state, whiteUnique, domain.BucketWhite)
	review := p.convertList(ctx, state, greyUnique, domain.BucketGrey)

	err := p.writeOutputs(ctx, state, accepted, review, greyUnique)

	p.finishRun(state, started, err)

	return err
}

// newRunState opens the archive record for the harvest. When the insert
// fails the harvest still runs, file-only, under a locally generated id.
func (p *Pipeline) newRunState(ctx context.Context) *runState {
	state := &runState{
		id:       uuid.New().String(),
		repo:     p.database,
		promoted: make(map[string]bool),
	}

	if state.repo != nil {
		id, err := state.repo.CreateRun(ctx)
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to create run record, archiving disabled for this run")

			state.repo = nil
		} else {
			state.id = id
		}
	}

	state.logger = p.logger.With().Str(LogFieldRunID, state.id).Logger()

	return state
}

func (p *Pipeline) searchURLs() []string {
	if len(p.cfg.SearchURLs) > 0 {
		return p.cfg.SearchURLs
	}

	return eventbrite.DefaultSearchURLs()
}

// scrapeAndClassify is the first pass: walk every marketplace search and
// sort the raw events into the white and grey lists. A broken marketplace
// contributes whatever pages it managed before failing.
func (p *Pipeline) scrapeAndClassify(ctx context.Context, state *runState) (white, grey []domain.RawEvent) {
	for _, searchURL := range p.searchURLs() {
		if ctx.Err() != nil {
			break
		}

		market := eventbrite.Marketplace(searchURL)
		logger := state.logger.With().Str(LogFieldMarketplace, market).Logger()

		events, pages, err := p.scraper.Scrape(ctx, searchURL, p.cfg.StartPage, p.cfg.MaxSearchPages)

		state.stats.PagesScraped += pages
		observability.PagesScraped.WithLabelValues(market).Add(float64(pages))

		if err != nil {
			observability.FetchFailures.WithLabelValues(fetchKindSearchPage).Inc()
			logger.Error().Err(err).Msg("marketplace scrape aborted, keeping partial results")
		}

		w, g := p.classifyEvents(ctx, state, events)
		white = append(white, w...)
		grey = append(grey, g...)

		logger.Info().
			Int("pages", pages).
			Int("events", len(events)).
			Int("white", len(w)).
			Int("grey", len(g)).
			Msg("marketplace scanned")
	}

	return white, grey
}

func (p *Pipeline) classifyEvents(ctx context.Context, state *runState, events []domain.RawEvent) (white, grey []domain.RawEvent) {
	for _, ev := range events {
		state.stats.EventsScanned++
		observability.EventsScanned.Inc()

		decision := p.classifier.Classify(ev)
		observability.EventsClassified.WithLabelValues(string(decision)).Inc()

		switch decision {
		case classify.DecisionWhite:
			state.stats.WhiteCount++
			white = append(white, ev)
		case classify.DecisionGrey:
			if p.cfg.IncludeGreyList {
				// Reviewing grey events is off: treat undecided as kept.
				state.stats.WhiteCount++
				white = append(white, ev)

				continue
			}

			state.stats.GreyCount++
			grey = append(grey, ev)
		case classify.DecisionReject:
			state.stats.DroppedCount++
			state.logger.Debug().Str(LogFieldEventID, ev.ID).Str("name", ev.Name).Msg("rejected event")
			p.recordDrop(ctx, state, ev, dropReasonBlackTerm, "")
		}
	}

	return white, grey
}

// rescoreGrey is the second pass: fetch descriptions for the grey events and
// move the ones that score automotive onto the white list.
func (p *Pipeline) rescoreGrey(ctx context.Context, state *runState, white, grey []domain.RawEvent) ([]domain.RawEvent, []domain.RawEvent) {
	if len(grey) == 0 {
		return white, grey
	}

	state.logger.Info().Int(LogFieldCount, len(grey)).Msg("rescoring grey events by description")

	result := p.rescorer.Rescore(ctx, grey)

	state.stats.PromotedCount += len(result.Promoted)
	observability.EventsPromoted.Add(float64(len(result.Promoted)))
	observability.FetchFailures.WithLabelValues(fetchKindDescription).Add(float64(len(result.FetchErrors)))

	for _, ev := range result.Promoted {
		state.promoted[ev.ID] = true
	}

	state.logger.Info().
		Int("promoted", len(result.Promoted)).
		Int("still_grey", len(result.Grey)).
		Int("fetch_errors", len(result.FetchErrors)).
		Msg("rescore pass complete")

	return append(white, result.Promoted...), result.Grey
}

func (p *Pipeline) dedupList(state *runState, events []domain.RawEvent, bucket domain.Bucket) []domain.RawEvent {
	result := dedup.ByID(events, &state.logger)

	if result.DroppedCount > 0 {
		observability.DuplicatesCollapsed.Add(float64(result.DroppedCount))
		state.logger.Info().
			Str(LogFieldList, string(bucket)).
			Int(LogFieldCount, result.DroppedCount).
			Msg("collapsed duplicate events")
	}

	return result.Events
}

// convertList converts the deduplicated events of one list, skipping and
// recording the ones whose ticketing lookup fails or whose conversion
// panics. Converted events are archived with their parsed start time.
func (p *Pipeline) convertList(ctx context.Context, state *runState, events []domain.RawEvent, bucket domain.Bucket) []domain.CanonicalEvent {
	if len(events) == 0 {
		return []domain.CanonicalEvent{}
	}

	state.logger.Info().
		Str(LogFieldList, string(bucket)).
		Int(LogFieldCount, len(events)).
		Msg("converting events, fetching ticketing per event")

	converted := make([]domain.CanonicalEvent, 0, len(events))

	for _, ev := range events {
		canonical, err := p.convertEvent(ctx, state, ev)
		if err != nil {
			p.skipEvent(ctx, state, ev, err)

			continue
		}

		state.stats.ConvertedCount++
		observability.EventsConverted.WithLabelValues(string(bucket)).Inc()

		p.archiveEvent(ctx, state, ev, bucket, canonical.StartDateUTC)

		converted = append(converted, canonical)
	}

	state.logger.Info().
		Str(LogFieldList, string(bucket)).
		Int(LogFieldCount, len(converted)).
		Msg("conversion pass complete")

	return converted
}

// convertEvent shields the harvest from a panicking conversion; one
// malformed payload must not take down the batch.
func (p *Pipeline) convertEvent(ctx context.Context, state *runState, ev domain.RawEvent) (canonical domain.CanonicalEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			state.logger.Error().
				Interface("panic", r).
				Str(LogFieldEventID, ev.ID).
				Msg("recovered conversion panic")

			err = fmt.Errorf("%w: %v", errConversionPanic, r)
		}
	}()

	return p.converter.Convert(ctx, ev)
}

func (p *Pipeline) skipEvent(ctx context.Context, state *runState, ev domain.RawEvent, err error) {
	reason := dropReasonTicketingLookup
	if errors.Is(err, errConversionPanic) {
		reason = dropReasonConversionPanic
	}

	if errors.Is(err, convert.ErrTicketingLookup) {
		observability.FetchFailures.WithLabelValues(fetchKindTicketing).Inc()
	}

	state.stats.DroppedCount++
	observability.EventsSkipped.WithLabelValues(reason).Inc()

	state.logger.Warn().Err(err).Str(LogFieldEventID, ev.ID).Msg("skipping event, conversion failed")
	p.recordDrop(ctx, state, ev, reason, err.Error())
}

func (p *Pipeline) writeRawDump(state *runState, events []domain.RawEvent) {
	path := p.cfg.OutputPath(p.cfg.RawDumpFile)

	if err := export.WriteRawDump(path, events); err != nil {
		state.logger.Error().Err(err).Str(LogFieldFile, path).Msg("failed to write raw dump")

		return
	}

	state.logger.Info().Int(LogFieldCount, len(events)).Str(LogFieldFile, path).Msg("saved raw event dump")
}

// writeOutputs writes the accepted list, the grey-for-review list and the
// grey name index. The names come from the raw grey events so that events
// skipped during conversion still show up for review.
func (p *Pipeline) writeOutputs(ctx context.Context, state *runState, accepted, review []domain.CanonicalEvent, greyRaw []domain.RawEvent) error {
	// Never overwrite the previous harvest's files from a half-canceled run.
	if ctx.Err() != nil {
		return fmt.Errorf("harvest interrupted: %w", ctx.Err())
	}

	eventsPath := p.cfg.OutputPath(p.cfg.EventsFile)
	if err := export.WriteEvents(eventsPath, accepted); err != nil {
		return fmt.Errorf("write accepted events: %w", err)
	}

	state.logger.Info().Int(LogFieldCount, len(accepted)).Str(LogFieldFile, eventsPath).Msg("saved accepted events")

	greyPath := p.cfg.OutputPath(p.cfg.GreyEventsFile)
	if err := export.WriteEvents(greyPath, review); err != nil {
		return fmt.Errorf("write grey events: %w", err)
	}

	state.logger.Info().Int(LogFieldCount, len(review)).Str(LogFieldFile, greyPath).Msg("saved grey events for review")

	namesPath := p.cfg.OutputPath(p.cfg.NamesFile)
	if err := export.WriteNames(namesPath, greyRaw); err != nil {
		return fmt.Errorf("write event names: %w", err)
	}

	return nil
}

func (p *Pipeline) finishRun(state *runState, started time.Time, runErr error) {
	elapsed := time.Since(started)

	status := db.RunStatusCompleted
	if runErr != nil {
		status = db.RunStatusFailed
	}

	observability.RunsTotal.WithLabelValues(status).Inc()
	observability.RunDuration.Observe(elapsed.Seconds())
	observability.LastRunTimestamp.SetToCurrentTime()

	state.stats.Status = status
	if runErr != nil {
		state.stats.Error = runErr.Error()
	}

	if state.repo != nil {
		// The run context may already be canceled; the final update gets its
		// own deadline so the record does not stay stuck in running.
		finishCtx, cancel := context.WithTimeout(context.Background(), FinishTimeout)
		defer cancel()

		if err := state.repo.FinishRun(finishCtx, state.id, state.stats); err != nil {
			state.logger.Warn().Err(err).Msg("failed to finish run record")
		}
	}

	state.logger.Info().
		Str("status", status).
		Dur("elapsed", elapsed).
		Int("pages", state.stats.PagesScraped).
		Int("scanned", state.stats.EventsScanned).
		Int("white", state.stats.WhiteCount).
		Int("grey", state.stats.GreyCount).
		Int("promoted", state.stats.PromotedCount).
		Int("dropped", state.stats.DroppedCount).
		Int("converted", state.stats.ConvertedCount).
		Msg("harvest run finished")
}

func (p *Pipeline) archiveEvent(ctx context.Context, state *runState, ev domain.RawEvent, bucket domain.Bucket, startsAt string) {
	if state.repo == nil {
		return
	}

	whiteScore, blackScore := p.classifier.Scores(ev)

	rec := db.EventRecord{
		RunID:      state.id,
		EventID:    ev.ID,
		Name:       ev.Name,
		Bucket:     bucket,
		WhiteScore: whiteScore,
		BlackScore: blackScore,
		Promoted:   state.promoted[ev.ID],
		StartsAt:   startsAt,
		Payload:    ev,
	}

	if err := state.repo.SaveEvent(ctx, rec); err != nil {
		state.logger.Warn().Err(err).Str(LogFieldEventID, ev.ID).Msg("failed to archive event")
	}
}

func (p *Pipeline) recordDrop(ctx context.Context, state *runState, ev domain.RawEvent, reason, detail string) {
	if state.repo == nil {
		return
	}

	if err := state.repo.SaveDrop(ctx, state.id, ev.ID, ev.Name, reason, detail); err != nil {
		state.logger.Warn().Err(err).Str(LogFieldEventID, ev.ID).Msg("failed to save drop log")
	}
}
