package hackathon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Upstream platforms encode location and prize inconsistently: a flat
// string, a structured object, or a string holding a serialized object.
// The helpers below are best-effort workarounds for that data, not a schema.

var (
	locationKeyPattern = regexp.MustCompile(`['"]location['"]\s*:\s*['"]([^'"]+)['"]`)
	nameKeyPattern     = regexp.MustCompile(`['"]name['"]\s*:\s*['"]([^'"]+)['"]`)
	braceValuePattern  = regexp.MustCompile(`['"]([^'"]+)['"](?:\s*}|\s*,\s*['"]icon)`)

	currencyPrefix = `(?:[\$€£¥₹]|USD|EUR|INR|GBP)`
	monetaryPrize  = regexp.MustCompile(`^` + currencyPrefix + `\s*[\d,]*\d`)
	zeroPrize      = regexp.MustCompile(`^` + currencyPrefix + `?\s*0(\.0+)?$`)
	bareAmount     = regexp.MustCompile(`^[\d,]*\d(\.\d+)?$`)
	amountPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kKmM]\b)?`)
)

// NormalizeLocation turns a raw location value into display text.
// It never fails; unknown shapes fall back to "TBA" or the raw text.
func NormalizeLocation(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return "TBA"
	}

	switch raw[0] {
	case '"':
		s, ok := rawString(raw)
		if !ok || strings.TrimSpace(s) == "" {
			return "TBA"
		}
		return locationFromString(s)
	case '{':
		return locationFromObject(raw)
	default:
		return string(raw)
	}
}

func locationFromString(s string) string {
	if m := locationKeyPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := nameKeyPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if strings.HasPrefix(s, "{") {
		if m := braceValuePattern.FindStringSubmatch(s); m != nil && m[1] != "globe" && m[1] != "location" {
			return m[1]
		}
	}
	return s
}

func locationFromObject(raw json.RawMessage) string {
	fields, err := stringFields(raw)
	if err != nil {
		return "TBA"
	}

	for _, key := range []string{"location", "name", "city"} {
		for _, f := range fields {
			if f.key == key && f.value != "" {
				return f.value
			}
		}
	}

	for _, f := range fields {
		if len(f.value) > 1 {
			return f.value
		}
	}
	return "TBA"
}

type field struct {
	key   string
	value string
}

// stringFields returns the string-valued members of a JSON object in
// document order. Non-string members are skipped.
func stringFields(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if s, ok := rawString(value); ok {
			fields = append(fields, field{key: key, value: s})
		}
	}
	return fields, nil
}

// PrizeCategory distinguishes cash prizes from textual rewards and from
// listings that state no prize at all.
type PrizeCategory string

const (
	PrizeMonetary    PrizeCategory = "monetary"
	PrizeNonCash     PrizeCategory = "non-cash"
	PrizeUnspecified PrizeCategory = "unspecified"
)

// Prize is the display form of a raw prize value.
type Prize struct {
	Display  string        `json:"display"`
	Category PrizeCategory `json:"category"`
}

var prizeTBD = Prize{Display: "Prize TBD", Category: PrizeUnspecified}

// NormalizePrize classifies a raw prize_pool value.
func NormalizePrize(raw json.RawMessage) Prize {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return prizeTBD
	}

	s, ok := rawString(raw)
	if !ok {
		// Bare JSON number, or some other non-string value
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Prize{Display: "Non-Cash Prize", Category: PrizeNonCash}
		}
		if n <= 0 {
			return prizeTBD
		}
		return Prize{Display: "$" + formatThousands(n), Category: PrizeMonetary}
	}

	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return prizeTBD
	case zeroPrize.MatchString(s):
		return prizeTBD
	case monetaryPrize.MatchString(s):
		return Prize{Display: s, Category: PrizeMonetary}
	case bareAmount.MatchString(s):
		return Prize{Display: "$" + s, Category: PrizeMonetary}
	default:
		return Prize{Display: "Non-Cash Prize", Category: PrizeNonCash}
	}
}

// PrizeAmount returns the numeric magnitude of a monetary prize, ignoring
// currency. Non-cash and unspecified prizes are 0.
func PrizeAmount(raw json.RawMessage) float64 {
	if NormalizePrize(raw).Category != PrizeMonetary {
		return 0
	}

	raw = bytes.TrimSpace(raw)
	s, ok := rawString(raw)
	if !ok {
		n, _ := strconv.ParseFloat(string(raw), 64)
		return n
	}

	m := amountPattern.FindStringSubmatch(strings.ReplaceAll(s, ",", ""))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		n *= 1_000
	case "m":
		n *= 1_000_000
	}
	return n
}

// ParticipantCount returns participants_count, falling back to
// participants. Unparseable values count as 0.
func (r *Record) ParticipantCount() int {
	if n := parseLooseNumber(r.ParticipantsCount); n > 0 {
		return n
	}
	if n := parseLooseNumber(r.Participants); n > 0 {
		return n
	}
	return 0
}

// EffectiveMode returns the lower-cased mode, overridden to "online" when
// the normalized location names a virtual venue.
func (r *Record) EffectiveMode() string {
	loc := strings.ToLower(NormalizeLocation(r.Location))
	if loc == "online" || loc == "virtual" || loc == "remote" || strings.Contains(loc, "online") {
		return "online"
	}
	mode := strings.ToLower(strings.TrimSpace(r.Mode))
	if mode == "" {
		return "unknown"
	}
	return mode
}

// TeamSize describes the allowed team size, e.g. "Solo", "Team: 4" or
// "Team: 2-5". Empty when the record gives no size.
func (r *Record) TeamSize() string {
	lo, hi := int(r.TeamSizeMin), int(r.TeamSizeMax)
	switch {
	case lo > 0 && hi > 0 && lo != hi:
		return fmt.Sprintf("Team: %d-%d", lo, hi)
	case lo > 0 || hi > 0:
		size := max(lo, hi)
		if size == 1 {
			return "Solo"
		}
		return fmt.Sprintf("Team: %d", size)
	default:
		return ""
	}
}

// formatThousands renders n without decimals and with comma separators.
// Amounts beyond int64 range are printed in exponent form.
func formatThousands(n float64) string {
	if n >= 1e18 {
		return strconv.FormatFloat(n, 'g', 6, 64)
	}
	digits := strconv.FormatInt(int64(n), 10)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
