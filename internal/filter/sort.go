package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/hackfind/internal/hackathon"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortRelevance    SortOrder = "relevance"
	SortPrize        SortOrder = "prize"
	SortDeadline     SortOrder = "deadline"
	SortParticipants SortOrder = "participants"
	SortLatest       SortOrder = "latest"
	SortTitle        SortOrder = "title"
)

// SortOrders lists every supported order, in the order they are offered to users.
var SortOrders = []SortOrder{SortRelevance, SortPrize, SortDeadline, SortParticipants, SortLatest, SortTitle}

// Sort orders records in place. The sort is stable, so records that compare
// equal keep their input order.
func Sort(records []*hackathon.Record, order SortOrder, now time.Time) {
	switch order {
	case SortPrize:
		keys := make(map[*hackathon.Record]float64, len(records))
		for _, r := range records {
			keys[r] = hackathon.PrizeAmount(r.PrizePool)
		}
		sort.SliceStable(records, func(i, j int) bool {
			return keys[records[i]] > keys[records[j]]
		})
	case SortDeadline:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DeadlineOrFarFuture().Before(records[j].DeadlineOrFarFuture())
		})
	case SortParticipants:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ParticipantCount() > records[j].ParticipantCount()
		})
	case SortLatest:
		sort.SliceStable(records, func(i, j int) bool {
			return hackathon.ParseDate(records[i].StartDate).After(hackathon.ParseDate(records[j].StartDate))
		})
	case SortTitle:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].DisplayTitle()) < strings.ToLower(records[j].DisplayTitle())
		})
	default:
		// Scores depend on now, so compute them once per pass
		scores := make(map[*hackathon.Record]float64, len(records))
		for _, r := range records {
			scores[r] = hackathon.Score(r, now)
		}
		sort.SliceStable(records, func(i, j int) bool {
			return scores[records[i]] > scores[records[j]]
		})
	}
}
