package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/store"
)

// Modes are the report windows written by WriteAll, in days; 0 means the
// full history.
var Modes = []int{1, 7, 31, 180, 0}

// Writer exports flagged messages joined with roster names as CSV files,
// one file per window.
type Writer struct {
	store     store.Store
	clock     adapter.Clock
	outputDir string
}

// NewWriter creates a new report writer
func NewWriter(st store.Store, clock adapter.Clock, outputDir string) *Writer {
	return &Writer{
		store:     st,
		clock:     clock,
		outputDir: outputDir,
	}
}

// WriteAll writes one CSV per window. A failed window is logged and skipped
// so one bad export does not lose the rest.
func (w *Writer) WriteAll(ctx context.Context) error {
	var failed int
	for _, days := range Modes {
		if err := w.WriteCSV(ctx, days); err != nil {
			failed++
			logger.Warn("report export failed", zap.Int("days", days), zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d report exports failed", failed, len(Modes))
	}

	return nil
}

// WriteCSV writes the report for one window. days <= 0 exports the full
// history.
func (w *Writer) WriteCSV(ctx context.Context, days int) error {
	var since *time.Time
	name := "messages_all.csv"
	if days > 0 {
		t := w.clock.Now().UTC().AddDate(0, 0, -days)
		since = &t
		name = fmt.Sprintf("messages_%dd.csv", days)
	}

	rows, err := w.store.ListMessages(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(w.outputDir, name)
	f, err := os.Create(path) //nolint:gosec,G304 // Path is operator configured
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close report file", zap.String("path", path), zap.Error(err))
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"occurred_at", "steamid64", "display_name", "text", "logid"}); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, row := range rows {
		logID := ""
		if row.LogID != nil {
			logID = strconv.FormatInt(*row.LogID, 10)
		}
		record := []string{
			row.OccurredAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(row.SteamID64, 10),
			row.DisplayName,
			row.Text,
			logID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	logger.Info("report written", zap.String("path", path), zap.Int("rows", len(rows)))

	return nil
}
