package hackathon

import (
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Upstream platforms mostly
// send ISO dates, a few still send human-readable ones.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
}

// ParseDate attempts to parse an ISO-ish date string into a UTC time.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC()
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}

// Day returns the calendar date of t in t's own location, as midnight UTC.
// Parsed dates are already in UTC, so a wall-clock now in any zone
// compares against them by the date the user sees on their calendar.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FarFuture is the date used in place of a missing deadline when sorting.
var FarFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// DeadlineOrFarFuture returns the parsed deadline, or FarFuture when the
// record has none or it does not parse.
func (r *Record) DeadlineOrFarFuture() time.Time {
	if d := ParseDate(r.Deadline); !d.IsZero() {
		return d
	}
	return FarFuture
}

// FormatDate renders a date as "Jan 2, 2006", or "TBA" when it does not parse.
func FormatDate(text string) string {
	t := ParseDate(text)
	if t.IsZero() {
		return "TBA"
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateRange renders "start - end", collapsing to one date when the
// range is a single day.
func FormatDateRange(start, end string) string {
	if ParseDate(start).IsZero() {
		return "TBA"
	}
	from := FormatDate(start)
	if end == "" || end == start {
		return from
	}
	to := FormatDate(end)
	if to == "TBA" || to == from {
		return from
	}
	return from + " - " + to
}
