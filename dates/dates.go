// Package dates turns the publication date strings found in syndication feeds
// into comparable instants.
package dates

import (
	"strings"
	"time"
)

// Layouts accepted for entry publication dates, tried in order.
var Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 GMT",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// Layouts accepted for from/to query bounds. Zone-less values are read as UTC.
var BoundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize parses a publication date. A string that matches none of the
// layouts yields the current time, so a bad date sorts as "now" instead of
// failing the operation that needed it.
func Normalize(text string) time.Time {
	return NormalizeAt(text, time.Now())
}

// NormalizeAt is Normalize with an explicit fallback instant.
func NormalizeAt(text string, fallback time.Time) time.Time {
	if t, ok := Parse(text); ok {
		return t
	}
	return fallback
}

// Parse reports whether text matches one of Layouts.
func Parse(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBound parses a strict ISO 8601 date-time used as a filter bound.
// The second return value is false when the criterion should be ignored.
func ParseBound(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range BoundLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
