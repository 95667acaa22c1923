package steamid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Base is the offset between a Steam account ID and its 64-bit form.
// A Steam3 identifier like "[U:1:33844719]" maps to Base + 33844719.
const Base uint64 = 76561197960265728

// ErrNoAccountID is returned when a candidate identifier contains no digits
// to derive an account ID from. Callers should treat the identifier as
// unknown and skip the record.
var ErrNoAccountID = errors.New("no account id in identifier")

var digitRun = regexp.MustCompile(`\d+`)

// ToSteam64 converts a platform identifier to its canonical 64-bit form.
// Accepted inputs are Steam3 strings ("[U:1:33844719]", "U:1:33844719"),
// bare account IDs ("33844719") and already-canonical 17-digit values,
// which pass through unchanged.
func ToSteam64(s string) (uint64, error) {
	if s == "" {
		return 0, ErrNoAccountID
	}

	if IsSteam64(s) {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse steam64 %q: %w", s, err)
		}
		return id, nil
	}

	runs := digitRun.FindAllString(s, -1)
	if len(runs) == 0 {
		return 0, ErrNoAccountID
	}

	accountID, err := strconv.ParseUint(runs[len(runs)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse account id %q: %w", runs[len(runs)-1], err)
	}

	return Base + accountID, nil
}

// IsSteam64 reports whether s is a canonical 17-digit identifier at or above
// the base constant.
func IsSteam64(s string) bool {
	if len(s) != 17 {
		return false
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return false
	}
	return id >= Base
}

// ProfileURL returns the steamcommunity profile URL for a steam64 ID.
func ProfileURL(id uint64) string {
	return fmt.Sprintf("https://steamcommunity.com/profiles/%d", id)
}
