package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ozfortress/slurwatch/internal/store/schema"
)

// watermarkKey is the key_value_store key holding the timestamp of the last
// fully successful ingestion run.
const watermarkKey = "ingest_watermark"

// GetWatermark retrieves the last-successful-run timestamp, nil if unset
func (s *pgStore) GetWatermark(ctx context.Context) (*time.Time, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", watermarkKey).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watermark: %w", err)
	}

	t, err := time.Parse(time.RFC3339, kv.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse watermark: %w", err)
	}
	t = t.UTC()

	return &t, nil
}

// SetWatermark stores the last-successful-run timestamp
func (s *pgStore) SetWatermark(ctx context.Context, t time.Time) error {
	kv := schema.KeyValueStore{
		Key:   watermarkKey,
		Value: t.UTC().Format(time.RFC3339),
	}

	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set watermark: %w", err)
	}

	return nil
}
