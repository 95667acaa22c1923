package schema

import "time"

// Message represents the messages table - one validated, deduplicated
// flagged chat message. Rows are immutable after insert and are never
// deleted by this system.
type Message struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// HashKey is sha256(steamid64|timestamp_iso|text) and is the sole
	// uniqueness constraint for this entity
	HashKey string `gorm:"column:hash_key;not null;uniqueIndex;type:text"`
	// SteamID64 is the account the message is attributed to
	SteamID64 int64 `gorm:"column:steamid64;not null;index"`
	// LogID links to the external match-log viewer when present
	LogID *int64 `gorm:"column:logid"`
	// MessageID is the upstream message identifier when present
	MessageID *string `gorm:"column:message_id;type:text"`
	// OccurredAt is the UTC time the message was sent, as reported upstream
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index"`
	// Text is the message body
	Text string `gorm:"column:text;not null;type:text"`
	// CreatedAt is the ingestion time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
