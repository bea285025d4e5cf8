package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// SearchResult is one AI-ranked hit.
type SearchResult struct {
	Title     string          `json:"title"`
	URL       string          `json:"url,omitempty"`
	AIReason  string          `json:"ai_reason,omitempty"`
	PrizePool json.RawMessage `json:"prize_pool,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// Prize returns the normalized prize of the result.
func (r SearchResult) Prize() hackathon.Prize {
	return hackathon.NormalizePrize(r.PrizePool)
}

// AISearch runs a natural-language query against GET /search/ai. The server
// answers with either a bare array or an object with a "results" array.
func (c *Client) AISearch(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/search/ai", params, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Results) == 0 {
			return nil, fmt.Errorf("/search/ai: %w: missing results", ErrMalformed)
		}
		raw = wrapped.Results
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("/search/ai: %w: results is not an array", ErrMalformed)
	}

	results := make([]SearchResult, 0, len(elems))
	for _, elem := range elems {
		var r SearchResult
		if err := json.Unmarshal(elem, &r); err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}
