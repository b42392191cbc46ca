package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testErrLoad = "Load() error = %v"

func clearHarvesterEnv() {
	// Explicitly unset variables that might be in .env to test actual defaults
	keys := []string{
		"LOG_LEVEL", "DATABASE_URL", "EVENTBRITE_TOKEN_FILE", "EVENTBRITE_API_URL",
		"SEARCH_URLS", "START_PAGE", "MAX_SEARCH_PAGES", "WHITE_SCORE_THRESHOLD",
		"INCLUDE_GREY_LIST", "SAVE_RAW_DUMP", "OUTPUT_DIR", "EVENTS_FILE",
		"GREY_EVENTS_FILE", "NAMES_FILE", "RAW_DUMP_FILE", "FETCH_RPS",
		"FETCH_TIMEOUT", "RESCORE_WORKERS", "RUN_INTERVAL", "HEALTH_PORT",
		"WHITE_TERMS_FILE", "BLACK_TERMS_FILE",
	}
	for _, key := range keys {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearHarvesterEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, want %q", cfg.LogLevel, "info")
	}

	if cfg.TokenFile != "eventbrite_api_key.txt" {
		t.Errorf("TokenFile default = %q, want %q", cfg.TokenFile, "eventbrite_api_key.txt")
	}

	if cfg.StartPage != 1 {
		t.Errorf("StartPage default = %d, want %d", cfg.StartPage, 1)
	}

	if cfg.MaxSearchPages != 6 {
		t.Errorf("MaxSearchPages default = %d, want %d", cfg.MaxSearchPages, 6)
	}

	if cfg.WhiteScoreThreshold != 3 {
		t.Errorf("WhiteScoreThreshold default = %d, want %d", cfg.WhiteScoreThreshold, 3)
	}

	if cfg.IncludeGreyList {
		t.Error("IncludeGreyList should default to false")
	}

	if cfg.SaveRawDump {
		t.Error("SaveRawDump should default to false")
	}

	if cfg.OutputDir != "." {
		t.Errorf("OutputDir default = %q, want %q", cfg.OutputDir, ".")
	}

	if cfg.EventsFile != "eventbrite_events.json" {
		t.Errorf("EventsFile default = %q, want %q", cfg.EventsFile, "eventbrite_events.json")
	}

	if cfg.FetchRPS != 0.5 {
		t.Errorf("FetchRPS default = %v, want %v", cfg.FetchRPS, 0.5)
	}

	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout default = %v, want %v", cfg.FetchTimeout, 10*time.Second)
	}

	if cfg.RunInterval != 0 {
		t.Errorf("RunInterval default = %v, want 0", cfg.RunInterval)
	}

	if cfg.HealthPort != 8090 {
		t.Errorf("HealthPort default = %d, want %d", cfg.HealthPort, 8090)
	}

	if len(cfg.SearchURLs) != 0 {
		t.Errorf("SearchURLs default = %v, want empty", cfg.SearchURLs)
	}

	if cfg.Archiving() {
		t.Error("Archiving() should be false without DATABASE_URL")
	}
}

func TestLoad_SearchURLs(t *testing.T) {
	clearHarvesterEnv()
	t.Setenv("SEARCH_URLS", "https://www.eventbrite.com/d/united-states/auto--events/?page=,https://www.eventbrite.ca/d/canada/auto--events/?page=")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if len(cfg.SearchURLs) != 2 {
		t.Fatalf("SearchURLs length = %d, want %d", len(cfg.SearchURLs), 2)
	}

	if cfg.SearchURLs[1] != "https://www.eventbrite.ca/d/canada/auto--events/?page=" {
		t.Errorf("SearchURLs[1] = %q", cfg.SearchURLs[1])
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearHarvesterEnv()
	t.Setenv("DATABASE_URL", "postgres://localhost/harvest")
	t.Setenv("INCLUDE_GREY_LIST", "true")
	t.Setenv("SAVE_RAW_DUMP", "true")
	t.Setenv("MAX_SEARCH_PAGES", "11")
	t.Setenv("RUN_INTERVAL", "6h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if !cfg.Archiving() {
		t.Error("Archiving() should be true with DATABASE_URL set")
	}

	if !cfg.IncludeGreyList {
		t.Error("IncludeGreyList = false, want true")
	}

	if !cfg.SaveRawDump {
		t.Error("SaveRawDump = false, want true")
	}

	if cfg.MaxSearchPages != 11 {
		t.Errorf("MaxSearchPages = %d, want %d", cfg.MaxSearchPages, 11)
	}

	if cfg.RunInterval != 6*time.Hour {
		t.Errorf("RunInterval = %v, want %v", cfg.RunInterval, 6*time.Hour)
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	clearHarvesterEnv()
	t.Setenv("START_PAGE", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("expected error for invalid START_PAGE")
	}
}

func TestConfig_OutputPath(t *testing.T) {
	cfg := &Config{OutputDir: "/var/harvest"}

	want := filepath.Join("/var/harvest", "eventbrite_events.json")
	if got := cfg.OutputPath("eventbrite_events.json"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestConfig_DatabaseCfg(t *testing.T) {
	cfg := &Config{
		DatabaseURL:      "postgres://localhost/harvest",
		DBMaxConnections: 7,
		DBMinConnections: 3,
	}

	dbCfg := cfg.DatabaseCfg()

	if dbCfg.URL != cfg.DatabaseURL {
		t.Errorf("DatabaseCfg().URL = %q, want %q", dbCfg.URL, cfg.DatabaseURL)
	}

	if dbCfg.MaxConnections != 7 || dbCfg.MinConnections != 3 {
		t.Errorf("DatabaseCfg() pool sizes = %d/%d, want 7/3", dbCfg.MaxConnections, dbCfg.MinConnections)
	}
}
