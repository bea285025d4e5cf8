package hackathon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ID is a record identifier. Upstream sources send either JSON strings or
// JSON numbers; both are held as their string form.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// FlexInt decodes integers that may arrive as numbers, numeric strings or
// garbage. Anything unparseable decodes to zero rather than failing.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(parseLooseNumber(data))
	return nil
}

// Record is one hackathon listing as received from the API.
// Records are never modified after decoding.
type Record struct {
	ID                ID              `json:"id"`
	Title             string          `json:"title,omitempty"`
	Description       string          `json:"description,omitempty"`
	Organizer         string          `json:"organizer,omitempty"`
	Source            string          `json:"source,omitempty"`
	Mode              string          `json:"mode,omitempty"`
	Location          json.RawMessage `json:"location,omitempty"`
	StartDate         string          `json:"start_date,omitempty"`
	EndDate           string          `json:"end_date,omitempty"`
	Deadline          string          `json:"deadline,omitempty"`
	PrizePool         json.RawMessage `json:"prize_pool,omitempty"`
	ParticipantsCount json.RawMessage `json:"participants_count,omitempty"`
	Participants      json.RawMessage `json:"participants,omitempty"`
	TeamSizeMin       FlexInt         `json:"team_size_min,omitempty"`
	TeamSizeMax       FlexInt         `json:"team_size_max,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	URL               string          `json:"url,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" when the record has none.
func (r *Record) DisplayTitle() string {
	if strings.TrimSpace(r.Title) == "" {
		return "Untitled"
	}
	return r.Title
}

// DecodeRecords decodes a JSON array of records element by element.
// Elements that cannot be decoded are skipped and counted so that one bad
// upstream entry never empties the whole list.
func DecodeRecords(elems []json.RawMessage) ([]*Record, int) {
	records := make([]*Record, 0, len(elems))
	skipped := 0
	for _, raw := range elems {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped++
			continue
		}
		records = append(records, &r)
	}
	return records, skipped
}

// rawString returns the value of raw when it is a JSON string.
func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// isNull reports whether raw is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// leadingNumber matches the numeric prefix of a string, like parseInt does.
var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// parseLooseNumber reads an integer out of a JSON number or numeric string.
// Commas are ignored ("1,200") and trailing text is dropped ("300 teams").
// Returns 0 when nothing parses.
func parseLooseNumber(raw []byte) int {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0
	}
	text := string(raw)
	if s, ok := rawString(raw); ok {
		text = s
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	match := leadingNumber.FindString(text)
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
