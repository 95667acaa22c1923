package schema

import (
	"time"

	"gorm.io/datatypes"
)

// RawMessage represents the raw_messages audit table - a verbatim,
// unvalidated copy of every upstream row, stored without deduplication for
// traceability.
type RawMessage struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Source identifies the upstream API
	Source string `gorm:"column:source;not null;type:text"`
	// MessageID is the upstream message identifier, if any
	MessageID *string `gorm:"column:message_id;type:text"`
	// SteamID is the account identifier exactly as reported upstream
	// (steam3 or steam64 form)
	SteamID *string `gorm:"column:steamid;type:text"`
	// LogID is the stringified upstream log id, if any
	LogID *string `gorm:"column:logid;type:text"`
	// OccurredAtText is the upstream timestamp string, unparsed
	OccurredAtText *string `gorm:"column:occurred_at_text;type:text"`
	// Text is the message body as reported upstream
	Text *string `gorm:"column:text;type:text"`
	// Payload is the verbatim upstream JSON row
	Payload datatypes.JSON `gorm:"column:payload"`
	// CreatedAt is the ingestion time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the RawMessage model
func (RawMessage) TableName() string {
	return "raw_messages"
}
