package store

import (
	"fmt"
	"time"
)

// timeFormat keeps sub-second precision so that newest-first ordering is
// stable even for rows created in the same second. The fraction is fixed
// width: a trimming format would make a whole-second timestamp ("...05Z")
// sort lexically after a fractional one in the same second ('Z' > '.').
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
// SQLite has no native datetime type; we store RFC3339 TEXT.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
