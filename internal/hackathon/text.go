package hackathon

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an upstream description. Several platforms
// return HTML fragments; plain strings pass through with whitespace folded.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// SearchText returns the lower-cased plain-text description used for
// free-text matching.
func (r *Record) SearchText() string {
	return strings.ToLower(PlainText(r.Description))
}
