package store

import (
	"context"
	"time"

	"github.com/ozfortress/slurwatch/internal/store/schema"
)

// MessageExport is a message row joined with the player roster, as used by
// report export.
type MessageExport struct {
	OccurredAt  time.Time
	SteamID64   int64
	DisplayName string
	Text        string
	LogID       *int64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetPlayerSteamIDs retrieves all linked steam64 ids from the roster
	GetPlayerSteamIDs(ctx context.Context) ([]int64, error)
	// GetMaxRosterID retrieves the highest known roster id, 0 when empty
	GetMaxRosterID(ctx context.Context) (int64, error)
	// UpsertPlayer inserts or updates a roster entry keyed by roster id.
	// A linked steam id is never overwritten with null and a non-empty
	// display name is never overwritten with a blank one.
	UpsertPlayer(ctx context.Context, player *schema.Player) error
	// InsertRawMessages appends rows to the raw audit table without
	// deduplication and returns the number of rows written
	InsertRawMessages(ctx context.Context, rows []*schema.RawMessage) (int, error)
	// InsertMessages inserts validated rows keyed by dedupe hash; rows whose
	// hash already exists are skipped. Returns the number actually inserted.
	InsertMessages(ctx context.Context, rows []*schema.Message) (int, error)
	// ListMessages retrieves messages joined with roster names, newest
	// first; since is optional
	ListMessages(ctx context.Context, since *time.Time) ([]MessageExport, error)
	// GetWatermark retrieves the last-successful-run timestamp, nil if unset
	GetWatermark(ctx context.Context) (*time.Time, error)
	// SetWatermark stores the last-successful-run timestamp
	SetWatermark(ctx context.Context, t time.Time) error
}
