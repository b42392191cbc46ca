package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/eventbrite"
	"github.com/motorlist/eventbrite-harvester/internal/platform/config"
	"github.com/motorlist/eventbrite-harvester/internal/platform/observability"
	"github.com/motorlist/eventbrite-harvester/internal/platform/worker"
	"github.com/motorlist/eventbrite-harvester/internal/process/classify"
	"github.com/motorlist/eventbrite-harvester/internal/process/convert"
	"github.com/motorlist/eventbrite-harvester/internal/process/pipeline"
	"github.com/motorlist/eventbrite-harvester/internal/process/rescore"
	db "github.com/motorlist/eventbrite-harvester/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := eventbrite.LoadToken(cfg.TokenFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.TokenFile).
			Msg("failed to load Eventbrite API token; put a private token in the file or point EVENTBRITE_TOKEN_FILE elsewhere")
	}

	database := openDatabase(ctx, cfg, &logger)
	if database != nil {
		defer database.Close()
	}

	healthServer := observability.NewServer(database, cfg.HealthPort, &logger)

	// Start health server in background
	go func() {
		if err := healthServer.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	harvester, err := buildPipeline(cfg, database, token, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	if err := run(ctx, cfg, harvester, &logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("harvester stopped")
			return
		}

		logger.Fatal().Err(err).Msg("harvester error")
	}
}

func newLogger(level string) zerolog.Logger {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Warn().Str("level", level).Msg("unknown log level, using info")

		parsed = zerolog.InfoLevel
	}

	return logger.Level(parsed)
}

// openDatabase connects and migrates the archive database, or returns nil
// when DATABASE_URL is unset and the harvester runs file-only.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *db.DB {
	if !cfg.Archiving() {
		logger.Info().Msg("DATABASE_URL not set, harvest archiving disabled")

		return nil
	}

	dbCfg := cfg.DatabaseCfg()

	poolOpts := db.PoolOptions{
		MaxConns:          dbCfg.MaxConnections,
		MinConns:          dbCfg.MinConnections,
		MaxConnIdleTime:   dbCfg.MaxConnIdleTime,
		MaxConnLifetime:   dbCfg.MaxConnLifetime,
		HealthCheckPeriod: dbCfg.HealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, dbCfg.URL, poolOpts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	return database
}

// loadTerms resolves the classification term lists, preferring the override
// files when configured.
func loadTerms(cfg *config.Config) (white, black []string, err error) {
	white = classify.DefaultWhiteTerms()
	black = classify.DefaultBlackTerms()

	if cfg.WhiteTermsFile != "" {
		if white, err = classify.LoadTermsFile(cfg.WhiteTermsFile); err != nil {
			return nil, nil, fmt.Errorf("load white terms: %w", err)
		}
	}

	if cfg.BlackTermsFile != "" {
		if black, err = classify.LoadTermsFile(cfg.BlackTermsFile); err != nil {
			return nil, nil, fmt.Errorf("load black terms: %w", err)
		}
	}

	return white, black, nil
}

func buildPipeline(cfg *config.Config, database *db.DB, token string, logger *zerolog.Logger) (*pipeline.Pipeline, error) {
	white, black, err := loadTerms(cfg)
	if err != nil {
		return nil, err
	}

	fetcher := eventbrite.NewFetcher(cfg.FetchRPS, cfg.FetchTimeout)
	client := eventbrite.NewClient(cfg.APIURL, token, fetcher)
	scraper := eventbrite.NewScraper(fetcher, logger)
	descriptions := eventbrite.NewDescriptionSource(client, fetcher, logger)

	classifier := classify.New(white, black)
	rescorer := rescore.New(descriptions, white, black, cfg.WhiteScoreThreshold, cfg.RescoreWorkers, logger)
	converter := convert.New(client, logger)

	var repo pipeline.Repository
	if database != nil {
		repo = database
	}

	return pipeline.New(cfg, repo, scraper, classifier, rescorer, converter, logger), nil
}

// run executes one harvest, or keeps harvesting on an interval when
// RUN_INTERVAL is set. Interval mode survives failed runs.
func run(ctx context.Context, cfg *config.Config, harvester *pipeline.Pipeline, logger *zerolog.Logger) error {
	if cfg.RunInterval <= 0 {
		return harvester.Run(ctx)
	}

	logger.Info().Dur("interval", cfg.RunInterval).Msg("running in interval mode")

	return worker.Loop(ctx, worker.Config{
		Name:         "harvester",
		PollInterval: cfg.RunInterval,
		Process:      harvester.Run,
		OnError: func(err error) bool {
			logger.Error().Err(err).Msg("harvest run failed, retrying next interval")

			return true
		},
		Logger: logger,
	})
}
