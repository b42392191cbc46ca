package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesScraped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_pages_scraped_total",
		Help: "The total number of search pages scraped",
	}, []string{"marketplace"})

	EventsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_events_scanned_total",
		Help: "The total number of raw events collected from search pages",
	})

	EventsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_events_classified_total",
		Help: "The total number of events classified, by outcome",
	}, []string{"bucket"})

	EventsPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_events_promoted_total",
		Help: "The total number of grey events promoted by rescoring",
	})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_fetch_failures_total",
		Help: "The total number of fetch failures by kind",
	}, []string{"kind"})

	EventsConverted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_events_converted_total",
		Help: "The total number of events converted to the output format, by list",
	}, []string{"list"})

	EventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_events_skipped_total",
		Help: "The total number of events skipped during conversion, by reason",
	}, []string{"reason"})

	DuplicatesCollapsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_duplicates_collapsed_total",
		Help: "The total number of repeated event occurrences collapsed by dedup",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harvest_runs_total",
		Help: "The total number of harvest runs by status",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "harvest_run_duration_seconds",
		Help:    "Duration in seconds of a full harvest run",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200, 1800, 3600},
	})

	LastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "harvest_last_run_timestamp_seconds",
		Help: "Unix timestamp of the last completed harvest run",
	})
)
