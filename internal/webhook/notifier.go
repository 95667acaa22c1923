package webhook

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/logger"
)

// Notifier defines the interface for delivering run summaries
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// PostRosterSummary delivers the outcome of a roster refresh run
	PostRosterSummary(ctx context.Context, summary RosterSummary) error
	// PostPullSummary delivers the outcome of an ingestion run
	PostPullSummary(ctx context.Context, summary PullSummary) error
}

// HTTPNotifier implements Notifier by posting signed events to a single
// configured endpoint. An empty URL disables delivery.
type HTTPNotifier struct {
	url        string
	secret     string
	httpClient adapter.HTTPClient
	clock      adapter.Clock
}

// NewNotifier creates a new webhook notifier
func NewNotifier(url string, secret string, httpClient adapter.HTTPClient, clock adapter.Clock) Notifier {
	return &HTTPNotifier{
		url:        url,
		secret:     secret,
		httpClient: httpClient,
		clock:      clock,
	}
}

// PostRosterSummary delivers the outcome of a roster refresh run
func (n *HTTPNotifier) PostRosterSummary(ctx context.Context, summary RosterSummary) error {
	return n.post(ctx, EventTypeRosterSummary, summary)
}

// PostPullSummary delivers the outcome of an ingestion run
func (n *HTTPNotifier) PostPullSummary(ctx context.Context, summary PullSummary) error {
	return n.post(ctx, EventTypePullSummary, summary)
}

func (n *HTTPNotifier) post(ctx context.Context, eventType string, data interface{}) error {
	if n.url == "" {
		logger.Debug("webhook URL not configured, skipping delivery", zap.String("event_type", eventType))
		return nil
	}

	now := n.clock.Now().UTC()
	event := Event{
		EventID:   ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		EventType: eventType,
		Timestamp: now,
		Data:      data,
	}

	payload, signature, timestamp, err := GenerateSignedPayload(n.secret, event)
	if err != nil {
		return fmt.Errorf("failed to sign webhook event: %w", err)
	}

	headers := map[string]string{
		"X-Webhook-Signature": signature,
		"X-Webhook-Timestamp": strconv.FormatInt(timestamp, 10),
		"X-Webhook-Event-ID":  event.EventID,
	}

	if _, err := n.httpClient.Post(ctx, n.url, "application/json", headers, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("failed to deliver webhook event: %w", err)
	}

	logger.Info("webhook event delivered",
		zap.String("event_type", eventType), zap.String("event_id", event.EventID))

	return nil
}
