package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	trackingPrefix   string = "RPT-"
	trackingAlphabet string = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	trackingLength   int    = 8
)

var trackingPattern = regexp.MustCompile(`^RPT-[A-Z0-9]{8}$`)

// NewTrackingID mints a tracking credential of the form RPT-XXXXXXXX. The
// suffix comes from crypto/rand so the token cannot be derived from the
// submission time or any sequence. Uniqueness is enforced at the store.
func NewTrackingID() (string, error) {
	suffix := make([]byte, trackingLength)

	for i := 0; i < trackingLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingAlphabet))))
		if err != nil {
			return "", fmt.Errorf("Could not generate tracking ID: %w", err)
		}

		suffix[i] = trackingAlphabet[num.Int64()]
	}

	return trackingPrefix + string(suffix), nil
}

// IsValidTrackingID gates lookups. Anything that fails the pattern must be
// rejected before a store query is issued.
func IsValidTrackingID(id string) bool {
	return trackingPattern.MatchString(id)
}

// NormalizeTrackingID trims and upcases user input the way the lookup form
// does, so RPT-ab12cd34 and RPT-AB12CD34 resolve the same report.
func NormalizeTrackingID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// TrackingSearchPattern builds a LIKE pattern matching the input anywhere
// inside a stored token. Both sides are upcased, so the match is effectively
// case-insensitive, and metacharacters in the input match literally.
func TrackingSearchPattern(s string) string {
	return "%" + EscapeLike(NormalizeTrackingID(s)) + "%"
}
