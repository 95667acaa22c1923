package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozfortress/slurwatch/internal/webhook"
)

func TestGenerateSignedPayload(t *testing.T) {
	t.Run("generates valid payload and signature", func(t *testing.T) {
		secret := "test-secret-key"
		event := webhook.Event{
			EventID:   "01JG8XAMPLE1234567890123456",
			EventType: webhook.EventTypePullSummary,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			Data: webhook.PullSummary{
				RunID:    "01JG8XAMPLE1234567890123456",
				Fetched:  10,
				Inserted: 7,
			},
		}

		payload, signature, timestamp, err := webhook.GenerateSignedPayload(secret, event)
		require.NoError(t, err)

		// Verify payload is valid JSON
		var parsedEvent webhook.Event
		err = json.Unmarshal(payload, &parsedEvent)
		require.NoError(t, err)
		assert.Equal(t, event.EventID, parsedEvent.EventID)
		assert.Equal(t, event.EventType, parsedEvent.EventType)

		// Verify signature format
		assert.Contains(t, signature, "sha256=")
		assert.Greater(t, len(signature), 7) // "sha256=" + hash

		// Verify timestamp is reasonable (within last few seconds)
		now := time.Now().Unix()
		assert.GreaterOrEqual(t, now, timestamp)
		assert.Less(t, now-timestamp, int64(5))

		// Verify signature can be validated
		signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, event.EventID, string(payload))
		h := hmac.New(sha256.New, []byte(secret))
		h.Write([]byte(signaturePayload))
		expectedSignature := "sha256=" + hex.EncodeToString(h.Sum(nil))
		assert.Equal(t, expectedSignature, signature)
	})

	t.Run("different events produce different signatures", func(t *testing.T) {
		secret := "test-secret-key"

		event1 := webhook.Event{
			EventID:   "01JG8XAMPLE1111111111111111",
			EventType: webhook.EventTypeRosterSummary,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			Data:      webhook.RosterSummary{Checked: 20},
		}

		event2 := webhook.Event{
			EventID:   "01JG8XAMPLE2222222222222222",
			EventType: webhook.EventTypeRosterSummary,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			Data:      webhook.RosterSummary{Checked: 21},
		}

		_, signature1, _, err := webhook.GenerateSignedPayload(secret, event1)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload(secret, event2)
		require.NoError(t, err)

		// Signatures should be different
		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		event := webhook.Event{
			EventID:   "01JG8XAMPLE1234567890123456",
			EventType: webhook.EventTypePullSummary,
			Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			Data:      webhook.PullSummary{RunID: "r"},
		}

		_, signature1, _, err := webhook.GenerateSignedPayload("secret-one", event)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload("secret-two", event)
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})
}
