package ingest

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/config"
	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/providers/slurstf"
	"github.com/ozfortress/slurwatch/internal/registry"
	"github.com/ozfortress/slurwatch/internal/report"
	"github.com/ozfortress/slurwatch/internal/roster"
	"github.com/ozfortress/slurwatch/internal/steamid"
	"github.com/ozfortress/slurwatch/internal/store"
	"github.com/ozfortress/slurwatch/internal/store/schema"
	"github.com/ozfortress/slurwatch/internal/webhook"
)

// timeLayouts are accepted for upstream timestamps; zoneless values are
// treated as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// PullResult reports the outcome of one ingestion pull
type PullResult struct {
	// Fetched is the number of rows returned upstream
	Fetched int
	// Dropped is the number of rows removed by the allow-list filter
	Dropped int
	// RawInserted is the number of rows written to the audit table
	RawInserted int
	// Inserted is the number of new deduplicated messages
	Inserted int
	// SkippedInvalid is the number of rows kept in the audit table only
	SkippedInvalid int
	// SkippedDuplicate is the number of valid rows whose hash already existed
	SkippedDuplicate int
}

// Coordinator drives one ingestion cycle: resolve the time window, pull
// flagged messages for the known roster, and merge them idempotently.
type Coordinator struct {
	config    *config.IngestConfig
	store     store.Store
	client    slurstf.Client
	lexicon   registry.WordList
	allowlist registry.WordList
	clock     adapter.Clock
}

// NewCoordinator creates a new ingestion coordinator
func NewCoordinator(cfg *config.IngestConfig, st store.Store, client slurstf.Client, lexicon registry.WordList, allowlist registry.WordList, clock adapter.Clock) *Coordinator {
	return &Coordinator{
		config:    cfg,
		store:     st,
		client:    client,
		lexicon:   lexicon,
		allowlist: allowlist,
		clock:     clock,
	}
}

// Window resolves the [after, before) pull window. The lower bound is the
// stored watermark when one exists, but never more than the configured
// lookback behind now: duplicate-safe merging makes overlap cheap, while an
// unbounded catch-up after long downtime would not finish in one run.
func (c *Coordinator) Window(ctx context.Context) (after time.Time, before time.Time, err error) {
	before = c.clock.Now().UTC()
	after = before.Add(-time.Duration(c.config.LookbackHours) * time.Hour)

	watermark, err := c.store.GetWatermark(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to resolve pull window: %w", err)
	}
	if watermark != nil && watermark.After(after) {
		after = *watermark
	}

	return after, before, nil
}

// Pull fetches flagged messages for all linked roster accounts over the
// given window and merges them. Re-running any window is safe: raw rows are
// append-only audit data and validated rows dedupe on their hash key.
func (c *Coordinator) Pull(ctx context.Context, after time.Time, before time.Time) (*PullResult, error) {
	ids, err := c.store.GetPlayerSteamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster steam ids: %w", err)
	}
	if c.config.MaxIDs > 0 && len(ids) > c.config.MaxIDs {
		logger.Warn("capping roster id set",
			zap.Int("total", len(ids)), zap.Int("max", c.config.MaxIDs))
		ids = ids[:c.config.MaxIDs]
	}
	if len(ids) == 0 {
		logger.Info("no linked roster accounts, nothing to pull")
		return &PullResult{}, nil
	}

	afterISO := after.UTC().Format(time.RFC3339)
	beforeISO := before.UTC().Format(time.RFC3339)
	logger.Info("pulling flagged messages",
		zap.Int("ids", len(ids)), zap.String("after", afterISO), zap.String("before", beforeISO))

	rows, err := c.client.FetchMessages(ctx, ids, afterISO, beforeISO)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := &PullResult{Fetched: len(rows)}

	// Every upstream row is audited verbatim, including rows the filter or
	// validation later rejects.
	rawRows := make([]*schema.RawMessage, 0, len(rows))
	for i := range rows {
		rawRows = append(rawRows, rawFromRow(&rows[i]))
	}
	result.RawInserted, err = c.store.InsertRawMessages(ctx, rawRows)
	if err != nil {
		return nil, fmt.Errorf("failed to insert raw messages: %w", err)
	}

	kept := make([]slurstf.Row, 0, len(rows))
	for _, row := range rows {
		if c.dropRow(row) {
			result.Dropped++
			continue
		}
		kept = append(kept, row)
	}

	messages := make([]*schema.Message, 0, len(kept))
	for i := range kept {
		msg, ok := c.validateRow(&kept[i])
		if !ok {
			result.SkippedInvalid++
			continue
		}
		messages = append(messages, msg)
	}

	result.Inserted, err = c.store.InsertMessages(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to insert messages: %w", err)
	}
	result.SkippedDuplicate = len(messages) - result.Inserted

	logger.Info("pull complete",
		zap.Int("fetched", result.Fetched),
		zap.Int("dropped", result.Dropped),
		zap.Int("raw_inserted", result.RawInserted),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped_invalid", result.SkippedInvalid),
		zap.Int("skipped_duplicate", result.SkippedDuplicate))

	return result, nil
}

// dropRow applies the allow-list filter. A lexicon hit always keeps the row;
// an allow-list hit on a row the lexicon does not flag is treated as a false
// positive and dropped, but only when dropping is enabled.
func (c *Coordinator) dropRow(row slurstf.Row) bool {
	if !c.config.AllowlistDrop {
		return false
	}
	if c.lexicon != nil && c.lexicon.MatchesWord(row.Text) {
		return false
	}
	return c.allowlist != nil && c.allowlist.MatchesWord(row.Text)
}

// validateRow maps a normalized upstream row to a messages row, rejecting
// rows that cannot satisfy the table's invariants.
func (c *Coordinator) validateRow(row *slurstf.Row) (*schema.Message, bool) {
	if !steamid.IsSteam64(row.SteamID64) || row.OccurredAt == "" || row.Text == "" {
		return nil, false
	}

	sid, err := strconv.ParseInt(row.SteamID64, 10, 64)
	if err != nil {
		return nil, false
	}

	occurredAt, ok := c.parseTime(row.OccurredAt)
	if !ok {
		return nil, false
	}

	msg := &schema.Message{
		HashKey:    DedupeKey(row.SteamID64, row.OccurredAt, row.Text),
		SteamID64:  sid,
		OccurredAt: occurredAt,
		Text:       row.Text,
	}
	if row.LogID != "" {
		if logID, err := strconv.ParseInt(row.LogID, 10, 64); err == nil {
			msg.LogID = &logID
		}
	}
	if row.MessageID != "" {
		messageID := row.MessageID
		msg.MessageID = &messageID
	}

	return msg, true
}

func (c *Coordinator) parseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := c.clock.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// rawFromRow maps a normalized upstream row to its audit record.
func rawFromRow(row *slurstf.Row) *schema.RawMessage {
	raw := &schema.RawMessage{
		Source:  slurstf.Source,
		Payload: []byte(row.Payload),
	}
	if row.MessageID != "" {
		raw.MessageID = &row.MessageID
	}
	if row.SteamID != "" {
		raw.SteamID = &row.SteamID
	}
	if row.LogID != "" {
		raw.LogID = &row.LogID
	}
	if row.OccurredAt != "" {
		raw.OccurredAtText = &row.OccurredAt
	}
	if row.Text != "" {
		raw.Text = &row.Text
	}
	return raw
}

// RunDaily executes the full daily cycle: refresh the roster, pull the
// window, export reports, deliver summaries, then advance the watermark.
// Only the pull is fatal; everything downstream of it degrades to warnings
// so a broken webhook endpoint or full disk cannot lose ingested data.
func (c *Coordinator) RunDaily(ctx context.Context, refresher *roster.Refresher, notifier webhook.Notifier, writer *report.Writer) error {
	runID := ulid.MustNew(ulid.Timestamp(c.clock.Now().UTC()), rand.Reader).String()
	logger.Info("daily run starting", zap.String("run_id", runID))

	var rosterResult roster.Result
	rosterOK := false
	if refresher != nil {
		result, err := refresher.Refresh(ctx)
		if err != nil {
			logger.Warn("roster refresh failed, pulling with existing roster",
				zap.String("run_id", runID), zap.Error(err))
		} else {
			rosterResult = result
			rosterOK = true
		}
	}

	after, before, err := c.Window(ctx)
	if err != nil {
		return err
	}

	pullResult, err := c.Pull(ctx, after, before)
	if err != nil {
		return fmt.Errorf("pull failed, watermark not advanced: %w", err)
	}

	if writer != nil {
		if err := writer.WriteAll(ctx); err != nil {
			logger.Warn("report export incomplete", zap.String("run_id", runID), zap.Error(err))
		}
	}

	if notifier != nil {
		if rosterOK {
			summary := webhook.RosterSummary{
				Checked: rosterResult.Checked,
				Changed: rosterResult.Changed,
				Errored: rosterResult.Errored,
			}
			if err := notifier.PostRosterSummary(ctx, summary); err != nil {
				logger.Warn("roster summary delivery failed", zap.String("run_id", runID), zap.Error(err))
			}
		}
		summary := webhook.PullSummary{
			RunID:            runID,
			WindowAfter:      after.UTC().Format(time.RFC3339),
			WindowBefore:     before.UTC().Format(time.RFC3339),
			Fetched:          pullResult.Fetched,
			RawInserted:      pullResult.RawInserted,
			Inserted:         pullResult.Inserted,
			SkippedInvalid:   pullResult.SkippedInvalid,
			SkippedDuplicate: pullResult.SkippedDuplicate,
			Dropped:          pullResult.Dropped,
		}
		if err := notifier.PostPullSummary(ctx, summary); err != nil {
			logger.Warn("pull summary delivery failed", zap.String("run_id", runID), zap.Error(err))
		}
	}

	if err := c.store.SetWatermark(ctx, before); err != nil {
		return fmt.Errorf("failed to advance watermark: %w", err)
	}

	logger.Info("daily run complete", zap.String("run_id", runID))

	return nil
}
