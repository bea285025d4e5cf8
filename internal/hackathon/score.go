package hackathon

import (
	"math"
	"time"
)

// Relevance weights. Only the ordering they produce is observable.
const (
	prizeWeight        = 20.0
	nonCashBonus       = 5.0
	participantsWeight = 5.0
	ongoingBonus       = 15.0
	upcomingBonus      = 10.0
	endedPenalty       = -25.0
	openDeadlineBonus  = 3.0
)

// Score computes the synthetic relevance used by the "relevance" sort.
// Higher is more relevant. For records that differ only in prize, a larger
// monetary prize never scores lower.
func Score(r *Record, now time.Time) float64 {
	var score float64

	switch NormalizePrize(r.PrizePool).Category {
	case PrizeMonetary:
		score += prizeWeight * math.Log10(1+PrizeAmount(r.PrizePool))
	case PrizeNonCash:
		score += nonCashBonus
	}

	if n := r.ParticipantCount(); n > 0 {
		score += participantsWeight * math.Log10(1+float64(n))
	}

	switch ClassifyStatus(r, now) {
	case StatusOngoing:
		score += ongoingBonus
	case StatusUpcoming:
		days := Day(ParseDate(r.StartDate)).Sub(Day(now)).Hours() / 24
		score += math.Max(0, upcomingBonus-days/30)
	case StatusEnded:
		score += endedPenalty
	}

	if d := ParseDate(r.Deadline); !d.IsZero() && !Day(d).Before(Day(now)) {
		score += openDeadlineBonus
	}

	return score
}
