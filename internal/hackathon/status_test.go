package hackathon

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantYear int
		wantDay  int
		wantZero bool
	}{
		{name: "ISO date", text: "2026-03-13", wantYear: 2026, wantDay: 13},
		{name: "RFC3339", text: "2026-03-13T18:30:00Z", wantYear: 2026, wantDay: 13},
		{name: "RFC3339 with offset", text: "2026-03-13T01:00:00+05:30", wantYear: 2026, wantDay: 12},
		{name: "Local timestamp", text: "2026-03-13T09:00:00", wantYear: 2026, wantDay: 13},
		{name: "Fractional seconds", text: "2026-03-13T09:00:00.123456", wantYear: 2026, wantDay: 13},
		{name: "Space separated", text: "2026-03-13 09:00:00", wantYear: 2026, wantDay: 13},
		{name: "Month name", text: "Mar 13 2026", wantYear: 2026, wantDay: 13},
		{name: "Month name with comma", text: "Mar 13, 2026", wantYear: 2026, wantDay: 13},
		{name: "Empty", text: "", wantZero: true},
		{name: "Garbage", text: "next week", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.text)
			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.text, got)
				}
				return
			}
			if got.Year() != tt.wantYear || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q) = %v, want year %d day %d", tt.text, got, tt.wantYear, tt.wantDay)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) location = %v, want UTC", tt.text, got.Location())
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		end   string
		want  Status
	}{
		{name: "No start date", start: "", end: "2026-03-12", want: StatusUnknown},
		{name: "Unparseable start", start: "soon", end: "", want: StatusUnknown},
		{name: "Starts tomorrow", start: "2026-03-11", end: "2026-03-12", want: StatusUpcoming},
		{name: "Starts today", start: "2026-03-10", end: "2026-03-12", want: StatusOngoing},
		{name: "Starts later today", start: "2026-03-10T20:00:00Z", end: "", want: StatusOngoing},
		{name: "Ends today", start: "2026-03-08", end: "2026-03-10", want: StatusOngoing},
		{name: "Ended yesterday", start: "2026-03-01", end: "2026-03-09", want: StatusEnded},
		{name: "Single day in the past", start: "2026-03-09", end: "", want: StatusEnded},
		{name: "Unparseable end falls back to start", start: "2026-03-10", end: "tbd", want: StatusOngoing},
		{name: "End before start, before start day", start: "2026-03-20", end: "2026-03-05", want: StatusUpcoming},
		{name: "End before start, on start day", start: "2026-03-10", end: "2026-03-01", want: StatusEnded},
		{name: "End before start, after start day", start: "2026-03-08", end: "2026-03-01", want: StatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{StartDate: tt.start, EndDate: tt.end}
			if got := ClassifyStatus(r, now); got != tt.want {
				t.Errorf("ClassifyStatus(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestClassifyStatus_LocalDay(t *testing.T) {
	r := &Record{StartDate: "2026-06-11", EndDate: "2026-06-12"}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		// 04:00 UTC on June 11, still the evening of June 10 in New York.
		{"evening west of UTC", time.Date(2026, time.June, 10, 23, 0, 0, 0, time.FixedZone("EST", -5*3600)), StatusUpcoming},
		// 22:00 UTC on June 10, already June 11 in Tokyo.
		{"morning east of UTC", time.Date(2026, time.June, 11, 7, 0, 0, 0, time.FixedZone("JST", 9*3600)), StatusOngoing},
		{"late on the last day", time.Date(2026, time.June, 12, 23, 59, 0, 0, time.FixedZone("EST", -5*3600)), StatusOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStatus(r, tt.now); got != tt.want {
				t.Errorf("ClassifyStatus() at %v = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestDay(t *testing.T) {
	local := time.Date(2026, time.June, 10, 23, 0, 0, 0, time.FixedZone("EST", -5*3600))
	want := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	if got := Day(local); !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", local, got, want)
	}
}

func TestClassifyStatus_AlwaysDefined(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	dates := []string{"", "x", "2026-06-01", "2026-05-01", "2026-07-01", "0000-00-00", "2026-13-40"}
	valid := map[Status]bool{StatusUpcoming: true, StatusOngoing: true, StatusEnded: true, StatusUnknown: true}

	for _, start := range dates {
		for _, end := range dates {
			got := ClassifyStatus(&Record{StartDate: start, EndDate: end}, now)
			if !valid[got] {
				t.Errorf("ClassifyStatus(%q, %q) = %q, not a defined status", start, end, got)
			}
		}
	}
}

func TestRecord_DeadlineOrFarFuture(t *testing.T) {
	if got := (&Record{}).DeadlineOrFarFuture(); !got.Equal(FarFuture) {
		t.Errorf("missing deadline = %v, want FarFuture", got)
	}
	if got := (&Record{Deadline: "never"}).DeadlineOrFarFuture(); !got.Equal(FarFuture) {
		t.Errorf("unparseable deadline = %v, want FarFuture", got)
	}
	want := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := (&Record{Deadline: "2026-04-01"}).DeadlineOrFarFuture(); !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestFormatDateRange(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"", "", "TBA"},
		{"2026-04-04", "", "Apr 4, 2026"},
		{"2026-04-04", "2026-04-04", "Apr 4, 2026"},
		{"2026-04-04", "2026-04-06", "Apr 4, 2026 - Apr 6, 2026"},
		{"2026-04-04", "garbage", "Apr 4, 2026"},
	}

	for _, tt := range tests {
		if got := FormatDateRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatDateRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestScore_PrizeMonotonic(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	base := Record{StartDate: "2026-03-20", Deadline: "2026-03-15", ParticipantsCount: json.RawMessage(`50`)}

	prizes := []string{``, `null`, `"$0"`, `"$1"`, `"$500"`, `"$1,000"`, `"$5,000"`, `"$10,000"`, `"$1M"`}
	prev := -1e9
	for _, p := range prizes {
		r := base
		r.PrizePool = json.RawMessage(p)
		got := Score(&r, now)
		if got < prev {
			t.Errorf("Score with prize %s = %v, lower than smaller prize score %v", p, got, prev)
		}
		prev = got
	}
}

func TestScore_PrefersLiveOverEnded(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	live := &Record{StartDate: "2026-03-09", EndDate: "2026-03-11"}
	ended := &Record{StartDate: "2026-02-01", EndDate: "2026-02-03"}

	if Score(live, now) <= Score(ended, now) {
		t.Errorf("ongoing score %v should exceed ended score %v", Score(live, now), Score(ended, now))
	}
}
