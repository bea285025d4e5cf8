package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/hackfind/internal/api"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format value.
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Listing is the output form of one record with every field normalized.
type Listing struct {
	ID           hackathon.ID     `json:"id"`
	Title        string           `json:"title"`
	Source       string           `json:"source,omitempty"`
	Organizer    string           `json:"organizer,omitempty"`
	Status       hackathon.Status `json:"status"`
	Dates        string           `json:"dates"`
	StartDate    string           `json:"start_date,omitempty"`
	EndDate      string           `json:"end_date,omitempty"`
	Deadline     string           `json:"deadline,omitempty"`
	Location     string           `json:"location"`
	Mode         string           `json:"mode"`
	Prize        hackathon.Prize  `json:"prize"`
	Participants int              `json:"participants,omitempty"`
	TeamSize     string           `json:"team_size,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	URL          string           `json:"url,omitempty"`
	Bookmarked   bool             `json:"bookmarked"`
}

func newListing(r *hackathon.Record, now time.Time, bookmarked bool) Listing {
	return Listing{
		ID:           r.ID,
		Title:        r.DisplayTitle(),
		Source:       r.Source,
		Organizer:    r.Organizer,
		Status:       hackathon.ClassifyStatus(r, now),
		Dates:        hackathon.FormatDateRange(r.StartDate, r.EndDate),
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Deadline:     r.Deadline,
		Location:     hackathon.NormalizeLocation(r.Location),
		Mode:         r.EffectiveMode(),
		Prize:        hackathon.NormalizePrize(r.PrizePool),
		Participants: r.ParticipantCount(),
		TeamSize:     r.TeamSize(),
		Tags:         r.Tags,
		URL:          r.URL,
		Bookmarked:   bookmarked,
	}
}

// ListResult contains data to be output by list and bookmarks
type ListResult struct {
	FetchedAt  time.Time `json:"fetched_at"`
	Filters    string    `json:"filters"`
	Summary    string    `json:"summary"`
	Total      int       `json:"total"`
	Matching   int       `json:"matching"`
	Count      int       `json:"count"`
	Hackathons []Listing `json:"hackathons"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *ListResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs any value as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *ListResult, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No hackathons found.")
		if result.Summary != "" {
			fmt.Fprintf(w, "\n%s\n", result.Summary)
		}
		return nil
	}

	for _, h := range result.Hackathons {
		mark := ""
		if h.Bookmarked {
			mark = "* "
		}
		fmt.Fprintf(w, "%s[%s] %s (%s)\n", mark, h.Source, h.Title, h.Status)
		fmt.Fprintf(w, "     %s | %s | %s\n", h.Prize.Display, h.Dates, h.Location)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", h.ID)
			if h.Organizer != "" {
				fmt.Fprintf(w, "     Organizer: %s\n", h.Organizer)
			}
			fmt.Fprintf(w, "     Mode: %s\n", h.Mode)
			if h.Deadline != "" {
				fmt.Fprintf(w, "     Deadline: %s\n", hackathon.FormatDate(h.Deadline))
			}
			if h.Participants > 0 {
				fmt.Fprintf(w, "     Participants: %d\n", h.Participants)
			}
			if h.TeamSize != "" {
				fmt.Fprintf(w, "     %s\n", h.TeamSize)
			}
			if len(h.Tags) > 0 {
				fmt.Fprintf(w, "     Tags: %s\n", strings.Join(h.Tags, ", "))
			}
			if h.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", h.URL)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", result.Summary)
	if verbose && result.Filters != "" {
		fmt.Fprintf(w, "%s\n", result.Filters)
	}
	return nil
}

// writeSources outputs the source names one per line, or as a JSON array.
func writeSources(w io.Writer, sources []string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, sources)
	}
	if len(sources) == 0 {
		fmt.Fprintln(w, "No sources found.")
		return nil
	}
	for _, s := range sources {
		fmt.Fprintln(w, s)
	}
	return nil
}

// writeSearchResults outputs AI search hits.
func writeSearchResults(w io.Writer, query string, results []api.SearchResult, format OutputFormat) error {
	if format == FormatJSON {
		type hit struct {
			api.SearchResult
			Prize hackathon.Prize `json:"prize"`
		}
		hits := make([]hit, len(results))
		for i, r := range results {
			hits[i] = hit{SearchResult: r, Prize: r.Prize()}
		}
		return writeJSON(w, struct {
			Query   string `json:"query"`
			Count   int    `json:"count"`
			Results []hit  `json:"results"`
		}{query, len(hits), hits})
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", query)
		return nil
	}

	for i, r := range results {
		title := r.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		fmt.Fprintf(w, "%d. %s", i+1, title)
		if r.Source != "" {
			fmt.Fprintf(w, " [%s]", r.Source)
		}
		fmt.Fprintf(w, " | %s\n", r.Prize().Display)
		if r.AIReason != "" {
			fmt.Fprintf(w, "   %s\n", r.AIReason)
		}
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.URL)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d results\n", len(results))
	return nil
}

// writeMetrics prints the process metrics, one per line, for --verbose.
func writeMetrics(w io.Writer, snap logger.Snapshot) {
	names := snap.Names()
	if len(names) == 0 {
		return
	}

	fmt.Fprintln(w, "Metrics:")
	for _, name := range names {
		if v, ok := snap.Counters[name]; ok {
			fmt.Fprintf(w, "  %s: %d\n", name, v)
		}
		if v, ok := snap.Gauges[name]; ok {
			fmt.Fprintf(w, "  %s: %g\n", name, v)
		}
		if v, ok := snap.Timings[name]; ok {
			fmt.Fprintf(w, "  %s: count=%d avg=%s max=%s\n", name, v.Count, v.Average, v.Max)
		}
	}
}
