package kml

import (
	"strings"
	"time"

	"github.com/cdarbon/giscore/internal/xlog"
)

// parseKMLTime accepts the lenient XSD lexical forms spec §4.3 names: yyyy,
// yyyy-MM, yyyy-MM-dd, and a full dateTime with optional seconds/fraction
// and optional timezone (missing timezone defaults to UTC; a missing Z or
// seconds field is tolerated). Non-dateTime forms have hour-of-day zeroed.
// Invalid input is logged and the zero time is returned.
func parseKMLTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	switch len(s) {
	case 4: // yyyy
		if t, err := time.Parse("2006", s); err == nil {
			return t.UTC()
		}
	case 7: // yyyy-MM
		if t, err := time.Parse("2006-01", s); err == nil {
			return t.UTC()
		}
	case 10: // yyyy-MM-dd
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC()
		}
	}

	normalized := normalizeDateTime(s)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04Z",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC()
		}
	}

	xlog.Log.Warn().Str("time", s).Msg("kml: malformed timestamp, defaulting to zero time")
	return time.Time{}
}

// normalizeDateTime tolerates a missing trailing Z by appending one when no
// other timezone offset is present, so "2009-03-14T18:10" parses the same as
// "2009-03-14T18:10:00Z" (spec §8 scenario 6).
func normalizeDateTime(s string) string {
	if strings.ContainsAny(s, "Zz") {
		return s
	}
	if idx := strings.IndexAny(s, "T"); idx >= 0 {
		rest := s[idx+1:]
		if !strings.ContainsAny(rest, "+-") {
			return s + "Z"
		}
	}
	return s
}
