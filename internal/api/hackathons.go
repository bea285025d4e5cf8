package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
	"github.com/pfrederiksen/hackfind/internal/logger"
)

// pageResponse is one page of GET /hackathons.
type pageResponse struct {
	Events json.RawMessage   `json:"events"`
	Total  hackathon.FlexInt `json:"total"`
}

// Page is a decoded page of records.
type Page struct {
	Records []*hackathon.Record
	// Received counts every element of the page, including skipped ones.
	Received int
	Skipped  int
	Total    int
}

// FetchPage requests one page of records.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(c.pageSize))
	if c.sortBy != "" {
		params.Set("sort_by", c.sortBy)
	}

	var resp pageResponse
	if err := c.getJSON(ctx, "/hackathons", params, &resp); err != nil {
		return nil, err
	}

	events := bytes.TrimSpace(resp.Events)
	if len(events) == 0 || bytes.Equal(events, []byte("null")) {
		return nil, fmt.Errorf("/hackathons: %w: missing events", ErrMalformed)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(events, &elems); err != nil {
		return nil, fmt.Errorf("/hackathons: %w: events is not an array", ErrMalformed)
	}

	records, skipped := hackathon.DecodeRecords(elems)
	return &Page{
		Records:  records,
		Received: len(elems),
		Skipped:  skipped,
		Total:    int(resp.Total),
	}, nil
}

// FetchAll pages through /hackathons in order until a short page arrives or
// the reported total is reached. Page N+1 is only requested after page N
// succeeded. Any failure discards the pages already fetched, and so does a
// listing that would need more than the configured page limit.
func (c *Client) FetchAll(ctx context.Context) ([]*hackathon.Record, error) {
	start := time.Now()
	defer logger.StartTimer("api.fetch_all")()
	log := c.log()

	var all []*hackathon.Record
	received, skipped := 0, 0

	for page := 1; ; page++ {
		if page > c.maxPages {
			err := fmt.Errorf("/hackathons: %w: page limit %d reached", ErrMalformed, c.maxPages)
			log.Error("Fetching hackathons failed", logger.Fields{
				"max_pages": c.maxPages,
				"records":   len(all),
			}, err)
			return nil, err
		}

		pageStart := time.Now()
		p, err := c.FetchPage(ctx, page)
		if err != nil {
			log.Error("Fetching hackathons failed", logger.Fields{
				"page": page,
			}, err)
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}
		logger.RecordTiming("api.page", time.Since(pageStart))
		logger.IncrCounter("api.pages_fetched")

		all = append(all, p.Records...)
		received += p.Received
		skipped += p.Skipped

		log.Debug("Fetched page", logger.Fields{
			"page":    page,
			"events":  p.Received,
			"skipped": p.Skipped,
			"total":   p.Total,
		})

		if p.Received < c.pageSize || received >= p.Total {
			break
		}
	}

	if skipped > 0 {
		logger.AddCounter("api.records_skipped", int64(skipped))
		log.Warn("Skipped undecodable records", logger.Fields{
			"skipped": skipped,
		})
	}

	logger.SetGauge("api.records", float64(len(all)))
	log.Info("Fetched hackathons", logger.Fields{
		"records":  len(all),
		"duration": time.Since(start).String(),
	})

	return all, nil
}
