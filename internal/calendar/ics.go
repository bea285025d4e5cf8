package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
const maxLineOctets = 75

// HasDate reports whether r carries a start date or a deadline that can be
// placed on a calendar.
func HasDate(r *hackathon.Record) bool {
	return !hackathon.ParseDate(r.StartDate).IsZero() || !hackathon.ParseDate(r.Deadline).IsZero()
}

// GenerateICS generates an iCalendar (.ics) file for one record. stamp is
// written as DTSTAMP. The calendar is empty when the record has no usable
// date; check HasDate first.
func GenerateICS(r *hackathon.Record, stamp time.Time) string {
	var ics strings.Builder
	writeHeader(&ics, "")
	writeEvent(&ics, r, stamp)
	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

// GenerateBulkICS generates one calendar holding an all-day event for every
// dated record. Returns "" when no record has a date.
func GenerateBulkICS(records []*hackathon.Record, calendarName string, stamp time.Time) string {
	dated := 0
	for _, r := range records {
		if HasDate(r) {
			dated++
		}
	}
	if dated == 0 {
		return ""
	}

	var ics strings.Builder
	writeHeader(&ics, calendarName)
	for _, r := range records {
		writeEvent(&ics, r, stamp)
	}
	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeHeader(ics *strings.Builder, calendarName string) {
	writeLine(ics, "BEGIN:VCALENDAR")
	writeLine(ics, "VERSION:2.0")
	writeLine(ics, "PRODID:-//hackfind//hackfind//EN")
	writeLine(ics, "CALSCALE:GREGORIAN")
	writeLine(ics, "METHOD:PUBLISH")
	if calendarName != "" {
		writeLine(ics, "X-WR-CALNAME:"+escapeICS(calendarName))
	}
}

func writeEvent(ics *strings.Builder, r *hackathon.Record, stamp time.Time) {
	start, end, isDeadline := eventDays(r)
	if start.IsZero() {
		return
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@hackfind", escapeICS(string(r.ID))))
	writeLine(ics, "DTSTAMP:"+formatICSTime(stamp))

	// All-day events; DTEND is exclusive.
	writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(start))
	writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(end))

	summary := r.DisplayTitle()
	if isDeadline {
		summary = "Deadline: " + summary
	}
	writeLine(ics, "SUMMARY:"+escapeICS(summary))

	writeLine(ics, "DESCRIPTION:"+escapeICS(describe(r)))

	if location := hackathon.NormalizeLocation(r.Location); location != "TBA" {
		writeLine(ics, "LOCATION:"+escapeICS(location))
	}
	if r.URL != "" {
		writeLine(ics, "URL:"+r.URL)
	}
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, tag := range r.Tags {
			tags[i] = escapeICS(tag)
		}
		writeLine(ics, "CATEGORIES:"+strings.Join(tags, ","))
	}

	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "SEQUENCE:0")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// eventDays returns the first day and the exclusive end day of the event.
// Records without a start date are placed on their deadline.
func eventDays(r *hackathon.Record) (start, end time.Time, isDeadline bool) {
	start = hackathon.ParseDate(r.StartDate)
	if start.IsZero() {
		deadline := hackathon.ParseDate(r.Deadline)
		if deadline.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		day := hackathon.Day(deadline)
		return day, day.AddDate(0, 0, 1), true
	}

	start = hackathon.Day(start)
	last := hackathon.ParseDate(r.EndDate)
	if last.IsZero() || hackathon.Day(last).Before(start) {
		last = start
	}
	return start, hackathon.Day(last).AddDate(0, 0, 1), false
}

func describe(r *hackathon.Record) string {
	var lines []string
	if r.Source != "" {
		lines = append(lines, "Source: "+r.Source)
	}
	if r.Organizer != "" {
		lines = append(lines, "Organizer: "+r.Organizer)
	}
	lines = append(lines, "Prize: "+hackathon.NormalizePrize(r.PrizePool).Display)
	if mode := r.EffectiveMode(); mode != "unknown" {
		lines = append(lines, "Mode: "+mode)
	}
	if r.Deadline != "" {
		lines = append(lines, "Deadline: "+hackathon.FormatDate(r.Deadline))
	}
	if text := hackathon.PlainText(r.Description); text != "" {
		lines = append(lines, "", text)
	}
	if r.URL != "" {
		lines = append(lines, "", "Details: "+r.URL)
	}
	return strings.Join(lines, "\n")
}

// writeLine writes one content line, folding it at maxLineOctets without
// splitting a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines lose one octet to the leading space.
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
