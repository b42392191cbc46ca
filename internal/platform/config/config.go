package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the harvester configuration, read from the environment. Every key
// has a workable default; a bare `harvester` run scrapes the four default
// marketplaces and writes results to the current directory.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Archive database. Empty disables archiving; the pipeline runs file-only.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Eventbrite access.
	TokenFile string `env:"EVENTBRITE_TOKEN_FILE" envDefault:"eventbrite_api_key.txt"`
	APIURL    string `env:"EVENTBRITE_API_URL"` // empty uses the public v3 API

	// Search scope. Empty SearchURLs falls back to the default marketplaces.
	SearchURLs     []string `env:"SEARCH_URLS" envSeparator:","`
	StartPage      int      `env:"START_PAGE" envDefault:"1"`
	MaxSearchPages int      `env:"MAX_SEARCH_PAGES" envDefault:"6"`

	// Classification.
	WhiteScoreThreshold int    `env:"WHITE_SCORE_THRESHOLD" envDefault:"3"`
	IncludeGreyList     bool   `env:"INCLUDE_GREY_LIST" envDefault:"false"`
	WhiteTermsFile      string `env:"WHITE_TERMS_FILE"`
	BlackTermsFile      string `env:"BLACK_TERMS_FILE"`

	// Output files.
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"."`
	EventsFile     string `env:"EVENTS_FILE" envDefault:"eventbrite_events.json"`
	GreyEventsFile string `env:"GREY_EVENTS_FILE" envDefault:"grey_eventbrite_events.json"`
	NamesFile      string `env:"NAMES_FILE" envDefault:"_event_names.txt"`
	RawDumpFile    string `env:"RAW_DUMP_FILE" envDefault:"raw_events.json"`
	SaveRawDump    bool   `env:"SAVE_RAW_DUMP" envDefault:"false"`

	// Fetching.
	FetchRPS     float64       `env:"FETCH_RPS" envDefault:"0.5"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`

	// Rescoring.
	RescoreWorkers int `env:"RESCORE_WORKERS" envDefault:"4"`

	// Scheduling. Zero runs the pipeline once and exits.
	RunInterval time.Duration `env:"RUN_INTERVAL" envDefault:"0"`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8090"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// Archiving reports whether the run archive database is configured.
func (c *Config) Archiving() bool {
	return c.DatabaseURL != ""
}

// OutputPath resolves an output file name against the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}
