package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/motorlist/eventbrite-harvester/internal/core/domain"
	"github.com/motorlist/eventbrite-harvester/internal/process/classify"
)

const (
	defaultReportPath = "classification_report.jsonl"
	outputDirPerm     = 0o700
	errFmt            = "%v\n"
)

var errInputRequired = errors.New("a raw event dump is required (-in)")

type classifyConfig struct {
	inPath    string
	outPath   string
	whitePath string
	blackPath string
}

type reportRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Verdict    string `json:"verdict"`
	WhiteScore int    `json:"white_score"`
	BlackScore int    `json:"black_score"`
}

// Replays first-pass classification over a saved raw event dump, for tuning
// the term lists without re-scraping.
func main() {
	cfg := parseFlags()

	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, errFmt, err)
		os.Exit(1)
	}

	if err := runClassify(cfg); err != nil {
		fmt.Fprintf(os.Stderr, errFmt, err)
		os.Exit(1)
	}
}

func parseFlags() classifyConfig {
	cfg := classifyConfig{}

	flag.StringVar(&cfg.inPath, "in", "", "Raw event dump to classify (raw_events.json)")
	flag.StringVar(&cfg.outPath, "out", defaultReportPath, "Output JSONL path")
	flag.StringVar(&cfg.whitePath, "white", "", "White term file (defaults to the built-in list)")
	flag.StringVar(&cfg.blackPath, "black", "", "Black term file (defaults to the built-in list)")

	flag.Parse()

	return cfg
}

func validateConfig(cfg classifyConfig) error {
	if cfg.inPath == "" {
		return errInputRequired
	}

	return nil
}

func runClassify(cfg classifyConfig) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	events, err := readDump(cfg.inPath)
	if err != nil {
		return err
	}

	white, black, err := loadTerms(cfg)
	if err != nil {
		return err
	}

	classifier := classify.New(white, black)

	counts := make(map[classify.Decision]int)
	records := make([]reportRecord, 0, len(events))

	for _, ev := range events {
		verdict := classifier.Classify(ev)
		whiteScore, blackScore := classifier.Scores(ev)

		counts[verdict]++
		records = append(records, reportRecord{
			ID:         ev.ID,
			Name:       ev.Name,
			Verdict:    string(verdict),
			WhiteScore: whiteScore,
			BlackScore: blackScore,
		})
	}

	if err := writeRecords(records, cfg.outPath); err != nil {
		return err
	}

	logger.Info().
		Int("events", len(events)).
		Int("white", counts[classify.DecisionWhite]).
		Int("grey", counts[classify.DecisionGrey]).
		Int("reject", counts[classify.DecisionReject]).
		Str("path", cfg.outPath).
		Msg("Classified raw event dump")

	return nil
}

func readDump(path string) ([]domain.RawEvent, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	var events []domain.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode dump: %w", err)
	}

	return events, nil
}

func loadTerms(cfg classifyConfig) (white, black []string, err error) {
	white = classify.DefaultWhiteTerms()
	black = classify.DefaultBlackTerms()

	if cfg.whitePath != "" {
		if white, err = classify.LoadTermsFile(cfg.whitePath); err != nil {
			return nil, nil, fmt.Errorf("failed to load white terms: %w", err)
		}
	}

	if cfg.blackPath != "" {
		if black, err = classify.LoadTermsFile(cfg.blackPath); err != nil {
			return nil, nil, fmt.Errorf("failed to load black terms: %w", err)
		}
	}

	return white, black, nil
}

func writeRecords(records []reportRecord, outPath string) error {
	cleanPath := filepath.Clean(outPath)

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

	for _, rec := range records {
		if err := writeRecord(writer, rec); err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

func writeRecord(writer *bufio.Writer, rec reportRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}
