package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ozfortress/slurwatch/internal/steamid"
	"github.com/ozfortress/slurwatch/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// AutoMigrate creates or updates the schema for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Player{},
		&schema.Message{},
		&schema.RawMessage{},
		&schema.KeyValueStore{},
	)
}

// GetPlayerSteamIDs retrieves all linked steam64 ids from the roster
func (s *pgStore) GetPlayerSteamIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&schema.Player{}).
		Where("steamid64 IS NOT NULL AND steamid64 >= ?", int64(steamid.Base)).
		Order("steamid64").
		Distinct().
		Pluck("steamid64", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get player steam ids: %w", err)
	}
	return ids, nil
}

// GetMaxRosterID retrieves the highest known roster id, 0 when empty
func (s *pgStore) GetMaxRosterID(ctx context.Context) (int64, error) {
	var maxID *int64
	err := s.db.WithContext(ctx).
		Model(&schema.Player{}).
		Select("MAX(roster_id)").
		Scan(&maxID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max roster id: %w", err)
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

// UpsertPlayer inserts or updates a roster entry keyed by roster id
func (s *pgStore) UpsertPlayer(ctx context.Context, player *schema.Player) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "roster_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			// A linked steam id is never cleared, only replaced.
			"steamid64": gorm.Expr("COALESCE(EXCLUDED.steamid64, players.steamid64)"),
			// Only overwrite the name when the incoming one is non-blank.
			"display_name": gorm.Expr(
				"CASE WHEN NULLIF(TRIM(EXCLUDED.display_name), '') IS NOT NULL THEN TRIM(EXCLUDED.display_name) ELSE players.display_name END"),
			"profile_url":       gorm.Expr("COALESCE(EXCLUDED.profile_url, players.profile_url)"),
			"steam_profile_url": gorm.Expr("COALESCE(EXCLUDED.steam_profile_url, players.steam_profile_url)"),
			"updated_at":        gorm.Expr("now()"),
			"last_checked_at":   gorm.Expr("now()"),
		}),
	}).Create(player).Error
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.RosterID, err)
	}
	return nil
}

// InsertRawMessages appends rows to the raw audit table without deduplication
func (s *pgStore) InsertRawMessages(ctx context.Context, rows []*schema.RawMessage) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error
	if err != nil {
		return 0, fmt.Errorf("failed to insert raw messages: %w", err)
	}
	return len(rows), nil
}

// InsertMessages inserts validated rows keyed by dedupe hash. Rows are
// written one at a time so the inserted count is exact and a mid-run crash
// leaves complete rows behind.
func (s *pgStore) InsertMessages(ctx context.Context, rows []*schema.Message) (int, error) {
	inserted := 0
	for _, row := range rows {
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash_key"}},
			DoNothing: true,
		}).Create(row)
		if res.Error != nil {
			return inserted, fmt.Errorf("failed to insert message %s: %w", row.HashKey, res.Error)
		}
		inserted += int(res.RowsAffected)
	}
	return inserted, nil
}

// ListMessages retrieves messages joined with roster names, newest first
func (s *pgStore) ListMessages(ctx context.Context, since *time.Time) ([]MessageExport, error) {
	q := s.db.WithContext(ctx).
		Table("messages").
		Select("messages.occurred_at, messages.steamid64, COALESCE(players.display_name, '') AS display_name, messages.text, messages.logid AS log_id").
		Joins("LEFT JOIN players ON players.steamid64 = messages.steamid64").
		Order("messages.occurred_at DESC")
	if since != nil {
		q = q.Where("messages.occurred_at >= ?", *since)
	}

	var rows []MessageExport
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return rows, nil
}
