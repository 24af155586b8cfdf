package utils

import (
	"strconv"
	"strings"
	"time"
)

// Formats accepted for member-supplied custom expiration dates, tried in
// order. Date-only formats parse to midnight UTC.
var supportedDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseFlexibleDate parses input against the supported formats, also
// accepting unix timestamps in a sane range. Reports false when nothing
// matched.
func ParseFlexibleDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}

	if unixTime, err := strconv.ParseInt(input, 10, 64); err == nil {
		// Valid range: 1970-2100
		if unixTime > 0 && unixTime < 4102444800 {
			return time.Unix(unixTime, 0).UTC(), true
		}
		return time.Time{}, false
	}

	for _, format := range supportedDateFormats {
		if parsed, err := time.Parse(format, input); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
