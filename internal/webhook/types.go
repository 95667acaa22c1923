package webhook

import "time"

// Event types delivered to the configured endpoint.
const (
	EventTypeRosterSummary = "roster.summary"
	EventTypePullSummary   = "pull.summary"
)

// Event is the envelope for all webhook deliveries
type Event struct {
	// EventID is a ULID assigned at delivery time
	EventID string `json:"event_id"`
	// EventType identifies the payload shape in Data
	EventType string `json:"event_type"`
	// Timestamp is the delivery time in UTC
	Timestamp time.Time `json:"timestamp"`
	// Data is the event payload
	Data interface{} `json:"data"`
}

// RosterSummary reports the outcome of one roster refresh run
type RosterSummary struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
	Errored int `json:"errored"`
}

// PullSummary reports the outcome of one ingestion run
type PullSummary struct {
	RunID            string `json:"run_id"`
	WindowAfter      string `json:"window_after"`
	WindowBefore     string `json:"window_before"`
	Fetched          int    `json:"fetched"`
	RawInserted      int    `json:"raw_inserted"`
	Inserted         int    `json:"inserted"`
	SkippedInvalid   int    `json:"skipped_invalid"`
	SkippedDuplicate int    `json:"skipped_duplicate"`
	Dropped          int    `json:"dropped"`
}
