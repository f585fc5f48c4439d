package parse

import (
	"fmt"
	"time"
)

// ResolveYear resolves an ambiguous two-digit year to four digits using a
// rolling window: years up to ten past the current year resolve to 20xx,
// everything else to 19xx. The boundary moves forward every year, so
// callers needing determinism must pin now.
//
// Input must be exactly two ASCII digits; anything else is a caller error.
func ResolveYear(twoDigit string, now time.Time) (int, error) {
	if len(twoDigit) != 2 || twoDigit[0] < '0' || twoDigit[0] > '9' || twoDigit[1] < '0' || twoDigit[1] > '9' {
		return 0, fmt.Errorf("two-digit year must be exactly two ASCII digits, got %q", twoDigit)
	}

	value := int(twoDigit[0]-'0')*10 + int(twoDigit[1]-'0')

	// Ten-year lookahead: recent releases with two-digit years are far more
	// common than 19xx ones, but clearly old values ("79", "99") must still
	// land in the previous century. The pivot wraps at 100 like the year
	// digits themselves.
	pivot := (now.Year()%100 + 10) % 100
	if value <= pivot {
		return 2000 + value, nil
	}
	return 1900 + value, nil
}
