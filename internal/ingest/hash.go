package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DedupeKey derives the stable identity of a message from its attributed
// account, upstream timestamp string and exact text. Upstream ids are not
// trusted for identity, so two rows agreeing on these three fields are the
// same message regardless of which run or page delivered them.
func DedupeKey(steamID64 string, occurredAtISO string, text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", steamID64, occurredAtISO, text)))
	return hex.EncodeToString(sum[:])
}
