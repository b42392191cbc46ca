package pipeline

import "time"

// Drop log reason constants
const (
	dropReasonBlackTerm       = "black_term"
	dropReasonTicketingLookup = "ticketing_lookup_failed"
	dropReasonConversionPanic = "conversion_panic"
)

// Fetch failure metric label constants
const (
	fetchKindSearchPage  = "search_page"
	fetchKindDescription = "description"
	fetchKindTicketing   = "ticketing"
)

// Log field constants
const (
	LogFieldRunID       = "run_id"
	LogFieldEventID     = "event_id"
	LogFieldMarketplace = "marketplace"
	LogFieldList        = "list"
	LogFieldFile        = "file"
	LogFieldCount       = "count"
)

// FinishTimeout bounds the final run-record update, which must still land
// after the harvest context is canceled.
const FinishTimeout = 10 * time.Second
