package api

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/hackfind/internal/filter"
	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
)

// FetchSources returns the source names reported by GET /sources, sorted
// and without blanks or duplicates.
func (c *Client) FetchSources(ctx context.Context) ([]string, error) {
	var resp struct {
		Sources []string `json:"sources"`
	}
	if err := c.getJSON(ctx, "/sources", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Sources == nil {
		return nil, fmt.Errorf("/sources: %w: missing sources", ErrMalformed)
	}

	seen := make(map[string]bool, len(resp.Sources))
	out := make([]string, 0, len(resp.Sources))
	for _, s := range resp.Sources {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// SourcesOrDerive returns FetchSources, or the sources present in records
// when the endpoint fails. It never returns an error.
func (c *Client) SourcesOrDerive(ctx context.Context, records []*hackathon.Record) []string {
	sources, err := c.FetchSources(ctx)
	if err != nil {
		c.log().Warn("Sources endpoint unavailable, deriving from records", logger.Fields{
			"error": err.Error(),
		})
		return filter.KnownSources(records)
	}
	return sources
}
