package booking

import (
	"strings"

	"github.com/google/uuid"
)

func defaultIDGenerator() string {
	return uuid.NewString()
}

// bookingReference builds the short human-facing code printed on
// confirmations, e.g. BK3F2A9C01D4.
func bookingReference(gen func() string) string {
	raw := strings.ToUpper(strings.ReplaceAll(gen(), "-", ""))
	if len(raw) > 10 {
		raw = raw[:10]
	}
	return "BK" + raw
}
