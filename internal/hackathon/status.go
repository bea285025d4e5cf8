package hackathon

import "time"

// Status is the lifecycle bucket of a hackathon relative to "now".
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusEnded    Status = "ended"
	StatusUnknown  Status = "unknown"
)

// ClassifyStatus derives the status of r at the given time.
//
// Comparison happens at day granularity: start and end are truncated to
// their UTC calendar day, now to its calendar day in its own location, and
// the range [start, end] is inclusive.
// A missing or unparseable end date falls back to the start date. When the
// end date precedes the start date the range is empty, so the record is
// upcoming before its start day and ended from the start day on.
func ClassifyStatus(r *Record, now time.Time) Status {
	start := ParseDate(r.StartDate)
	if start.IsZero() {
		return StatusUnknown
	}
	start = Day(start)

	end := start
	if e := ParseDate(r.EndDate); !e.IsZero() {
		end = Day(e)
	}

	today := Day(now)
	switch {
	case today.Before(start):
		return StatusUpcoming
	case !today.After(end):
		return StatusOngoing
	default:
		return StatusEnded
	}
}
