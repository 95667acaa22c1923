package slurstf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/registry"
	"github.com/ozfortress/slurwatch/internal/steamid"
)

// Source is the upstream identifier recorded on audit rows.
const Source = "slurs.tf"

// MaxBatchSize is the hard per-request cap on steam ids; the API rejects
// larger batches.
const MaxBatchSize = 10

// Config holds configuration for the slurs.tf client
type Config struct {
	// BaseURL is the API root, e.g. "https://slurs.tf"
	BaseURL string
	// Category is the server-side content classification parameter
	// ("total"); empty omits it
	Category string
	// BatchSize is the number of steam ids per request, capped at MaxBatchSize
	BatchSize int
	// PageLimit is the page size; a page with fewer rows signals the last page
	PageLimit int
	// PageDelay is the politeness delay between pages and between batches
	PageDelay time.Duration
	// RetrySchedule is the wait schedule applied to soft failures on the
	// same page before the batch is abandoned
	RetrySchedule []time.Duration
}

// Row is a normalized message row. Payload keeps the verbatim upstream JSON
// for the audit store; the other fields are best-effort normalizations of
// the several legacy field names the API has used.
type Row struct {
	// SteamID64 is the canonical 17-digit identifier, "" when underivable
	SteamID64 string
	// SteamID is the identifier exactly as reported upstream
	SteamID string
	// Text is the message body
	Text string
	// OccurredAt is the ISO-8601 timestamp string as reported upstream
	OccurredAt string
	// LogID is the stringified match-log id, "" when absent
	LogID string
	// MessageID is the upstream message identifier, "" when absent
	MessageID string
	// Payload is the verbatim upstream row
	Payload json.RawMessage
}

// Client defines the interface for slurs.tf operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/slurstf_client.go -package=mocks -mock_names=Client=MockSlursClient
type Client interface {
	// FetchMessages fetches flagged messages for the given steam64 ids over
	// the [after, before) ISO-8601 window. A failed batch is logged and
	// skipped; partial results are always returned.
	FetchMessages(ctx context.Context, ids []int64, after, before string) ([]Row, error)
}

// SlursClient implements Client against the slurs.tf messages API
type SlursClient struct {
	config     *Config
	httpClient adapter.HTTPClient
	clock      adapter.Clock
	lexicon    registry.WordList
}

// NewClient creates a new slurs.tf client. The lexicon word list backs the
// local filter used by the degraded-mode fallback; when it is empty the
// fallback fails closed.
func NewClient(config *Config, httpClient adapter.HTTPClient, clock adapter.Clock, lexicon registry.WordList) Client {
	return &SlursClient{
		config:     config,
		httpClient: httpClient,
		clock:      clock,
		lexicon:    lexicon,
	}
}

// softStatus classifies a failed page request. Page-level outcomes that are
// not hard errors: an HTTP status code as text, or one of the transport
// classifications below.
type softStatus string

const (
	statusTimeout softStatus = "timeout"
	statusConnErr softStatus = "conn_err"
	statusNonJSON softStatus = "non_json"
	statusEmpty   softStatus = "empty"
)

// serverish reports whether a soft status indicates a server-side problem
// that the category fallback may resolve.
func serverish(s softStatus) bool {
	switch s {
	case "500", "502", "503", "504", statusTimeout, statusConnErr, statusNonJSON, statusEmpty:
		return true
	}
	return false
}

// FetchMessages fetches flagged messages for the given steam64 ids.
func (c *SlursClient) FetchMessages(ctx context.Context, ids []int64, after, before string) ([]Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	batchSize := c.config.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	if batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	var rows []Row
	for start := 0; start < len(ids); start += batchSize {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		rows = append(rows, c.fetchBatch(ctx, batch, after, before)...)

		// Be gentle between batches too.
		if end < len(ids) && c.config.PageDelay > 0 {
			c.clock.Sleep(c.config.PageDelay)
		}
	}

	return rows, nil
}

// fetchBatch fetches one batch of ids, falling back to an unclassified
// request filtered by the local lexicon when the classified one fails with a
// server-side problem. A batch that cannot be fetched is abandoned; it never
// aborts the run.
func (c *SlursClient) fetchBatch(ctx context.Context, batch []int64, after, before string) []Row {
	useCategory := c.config.Category != ""

	raw, ok, last := c.paginate(ctx, batch, useCategory, after, before)
	if ok {
		return normalizeRows(raw)
	}

	if useCategory && serverish(last) {
		logger.Info("retrying batch without category",
			zap.String("ids", formatIDs(batch)), zap.String("last_status", string(last)))

		raw2, ok2, _ := c.paginate(ctx, batch, false, after, before)
		if ok2 {
			// The unclassified response needs the local lexicon filter to
			// approximate the server-side classification. An empty lexicon
			// fails closed: the batch is discarded rather than risk
			// importing unflagged content.
			if c.lexicon == nil || c.lexicon.Len() == 0 {
				logger.Warn("lexicon empty, discarding unclassified batch",
					zap.String("ids", formatIDs(batch)))
				return nil
			}
			all := normalizeRows(raw2)
			kept := make([]Row, 0, len(all))
			for _, row := range all {
				if c.lexicon.ContainsAny(row.Text) {
					kept = append(kept, row)
				}
			}
			logger.Info("lexicon filtered fallback batch",
				zap.Int("kept", len(kept)), zap.Int("total", len(all)))
			return kept
		}
	}

	logger.Warn("abandoning batch after retries",
		zap.String("ids", formatIDs(batch)), zap.String("last_status", string(last)))
	// Partial pages collected before the failure are still returned.
	return normalizeRows(raw)
}

// paginate pulls pages for one batch until a page returns fewer than the
// limit. Soft failures retry the same offset through the configured
// schedule; exhaustion returns the partial rows with ok=false.
// pageLimit returns the configured page size clamped to at least 1 so the
// short-page termination check can always trip.
func (c *SlursClient) pageLimit() int {
	if c.config.PageLimit < 1 {
		return 1
	}
	return c.config.PageLimit
}

func (c *SlursClient) paginate(ctx context.Context, batch []int64, withCategory bool, after, before string) ([]json.RawMessage, bool, softStatus) {
	var out []json.RawMessage
	offset := 0
	limit := c.pageLimit()
	var last softStatus

	for {
		var page []json.RawMessage

		operation := func() error {
			rows, status := c.pageRequest(ctx, batch, offset, withCategory, after, before)
			if status != "" {
				last = status
				return fmt.Errorf("page request soft failure: %s", status)
			}
			page = rows
			return nil
		}

		err := backoff.Retry(operation, backoff.WithContext(newScheduleBackOff(c.config.RetrySchedule), ctx))
		if err != nil {
			logger.Warn("giving up on page",
				zap.Int("offset", offset), zap.String("last_status", string(last)))
			return out, false, last
		}

		out = append(out, page...)

		if len(page) < limit {
			return out, true, ""
		}
		offset += limit

		// Throttle between pages.
		if c.config.PageDelay > 0 {
			c.clock.Sleep(c.config.PageDelay)
		}
	}
}

// pageRequest issues one page request and classifies the outcome. A missing
// "data" key on a 2xx response is a valid empty page.
func (c *SlursClient) pageRequest(ctx context.Context, batch []int64, offset int, withCategory bool, after, before string) ([]json.RawMessage, softStatus) {
	reqURL := c.buildURL(batch, offset, withCategory, after, before)
	logger.Debug("messages request", zap.String("url", reqURL))

	status, body, err := c.httpClient.GetRaw(ctx, reqURL, nil)
	if err != nil {
		if isTimeout(err) {
			logger.Warn("timeout on messages request", zap.String("url", reqURL), zap.Error(err))
			return nil, statusTimeout
		}
		logger.Warn("connection error on messages request", zap.String("url", reqURL), zap.Error(err))
		return nil, statusConnErr
	}

	if status < 200 || status >= 300 {
		logger.Info("messages request rejected",
			zap.Int("status", status), zap.Int("offset", offset), zap.String("body", snippet(body)))
		return nil, softStatus(strconv.Itoa(status))
	}

	if len(body) == 0 {
		return nil, statusEmpty
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Info("non-JSON success body on messages request",
			zap.Int("offset", offset), zap.String("body", snippet(body)))
		return nil, statusNonJSON
	}

	logger.Debug("messages page", zap.Int("rows", len(resp.Data)), zap.Int("offset", offset))
	return resp.Data, ""
}

// buildURL assembles a messages request with repeated steamid parameters.
func (c *SlursClient) buildURL(batch []int64, offset int, withCategory bool, after, before string) string {
	var q []string
	for _, id := range batch {
		q = append(q, "steamid="+strconv.FormatInt(id, 10))
	}
	if withCategory {
		q = append(q, "category="+url.QueryEscape(c.config.Category))
	}
	if after != "" {
		q = append(q, "after="+url.QueryEscape(after))
	}
	if before != "" {
		q = append(q, "before="+url.QueryEscape(before))
	}
	q = append(q, "limit="+strconv.Itoa(c.pageLimit()))
	q = append(q, "offset="+strconv.Itoa(offset))

	return strings.TrimRight(c.config.BaseURL, "/") + "/api/messages?" + strings.Join(q, "&")
}

// scheduleBackOff replays a fixed wait schedule, then stops. It carries the
// soft-failure retry policy (default 10s/30s/5m/15m) for one page.
type scheduleBackOff struct {
	schedule []time.Duration
	next     int
}

func newScheduleBackOff(schedule []time.Duration) backoff.BackOff {
	return &scheduleBackOff{schedule: schedule}
}

func (b *scheduleBackOff) NextBackOff() time.Duration {
	if b.next >= len(b.schedule) {
		return backoff.Stop
	}
	d := b.schedule[b.next]
	b.next++
	return d
}

func (b *scheduleBackOff) Reset() {
	b.next = 0
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	for e := err; e != nil; e = unwrap(e) {
		if t, ok := e.(timeout); ok && t.Timeout() {
			return true
		}
	}
	return false
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func snippet(body []byte) string {
	s := strings.ReplaceAll(string(body), "\n", " ")
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// legacyRow covers the several field names the API has used across versions.
type legacyRow struct {
	SteamID     json.RawMessage `json:"steamid"`
	SteamID64   json.RawMessage `json:"steamid64"`
	Message     json.RawMessage `json:"message"`
	Text        json.RawMessage `json:"text"`
	MsgTimeISO  json.RawMessage `json:"msg_time_iso"`
	LogDate     json.RawMessage `json:"logdate"`
	MessageDate json.RawMessage `json:"messagedate"`
	Time        json.RawMessage `json:"time"`
	LogID       json.RawMessage `json:"logid"`
	MessageID   json.RawMessage `json:"message_id"`
}

// normalizeRows maps raw upstream rows to the stable Row shape.
func normalizeRows(raw []json.RawMessage) []Row {
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, normalizeRow(r))
	}
	return rows
}

// normalizeRow guarantees a best-effort ISO timestamp, a text field, a
// stringified log id and a canonical steam64 derived from whichever
// identifier form was present upstream.
func normalizeRow(raw json.RawMessage) Row {
	var legacy legacyRow
	_ = json.Unmarshal(raw, &legacy)

	row := Row{Payload: raw}

	row.OccurredAt = firstNonEmpty(
		asString(legacy.MsgTimeISO),
		asString(legacy.LogDate),
		asString(legacy.MessageDate),
		asString(legacy.Time),
	)

	row.Text = asString(legacy.Message)
	if row.Text == "" {
		row.Text = asString(legacy.Text)
	}

	row.LogID = asString(legacy.LogID)
	row.MessageID = asString(legacy.MessageID)

	row.SteamID = asString(legacy.SteamID64)
	if row.SteamID == "" {
		row.SteamID = asString(legacy.SteamID)
	}
	if steamid.IsSteam64(row.SteamID) {
		row.SteamID64 = row.SteamID
	} else if id, err := steamid.ToSteam64(row.SteamID); err == nil {
		row.SteamID64 = strconv.FormatUint(id, 10)
	}

	return row
}

// asString decodes a JSON scalar as a trimmed string, tolerating numbers.
func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
