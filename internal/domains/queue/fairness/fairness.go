// Package fairness orders hosts so that those who hosted least recently are called first.
//
// A score is the number of whole weeks since the host last accepted, with hosts that never
// accepted pinned above everyone else. Hosts are then grouped into five-week tiers and
// shuffled within a tier, so hosts with similar history take turns at the front.
package fairness

import (
	"bedcall/shared/timezone"
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	NeverAcceptedScore = math.MaxInt32
	NeverAcceptedTier  = NeverAcceptedScore/TierWidth + 1

	TierWidth    = 5
	WeeksPerYear = 52

	week = 7 * 24 * time.Hour
)

// Week is a 1-based week of year. Year zero means the year is unknown.
type Week struct {
	Year   int
	Number int
}

// WeekOf counts whole weeks since January 1 in the application timezone.
func WeekOf(t time.Time) Week {
	local := timezone.ToAppTime(t)
	start := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, local.Location())

	return Week{
		Year:   local.Year(),
		Number: int(local.Sub(start)/week) + 1,
	}
}

type History struct {
	LastAccepted  *Week
	AcceptedCount int
	DeclinedCount int
}

// ElapsedWeeks is never negative. Without a year on both sides a negative
// difference is read as a single year rollover.
func ElapsedWeeks(last, now Week) int {
	elapsed := now.Number - last.Number

	if last.Year != 0 && now.Year != 0 {
		elapsed += WeeksPerYear * (now.Year - last.Year)
	} else if elapsed < 0 {
		elapsed += WeeksPerYear
	}

	return max(elapsed, 0)
}

// Score is higher for hosts that should be called sooner.
func Score(history History, now Week) int {
	if history.LastAccepted == nil {
		return NeverAcceptedScore
	}

	return min(ElapsedWeeks(*history.LastAccepted, now), NeverAcceptedScore-1)
}

func Tier(score int) int {
	if score >= NeverAcceptedScore {
		return NeverAcceptedTier
	}

	return score / TierWidth
}

type Ranked struct {
	HostID string
	Score  int
}

// ShuffleTiers returns items ordered by score descending with the members of each tier
// shuffled by rng. The input slice is left untouched.
func ShuffleTiers(items []Ranked, rng *rand.Rand) []Ranked {
	ranked := slices.Clone(items)

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})

	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && Tier(ranked[end].Score) == Tier(ranked[start].Score) {
			end++
		}

		tier := ranked[start:end]
		for i := len(tier) - 1; i > 0; i-- {
			j := rng.IntN(i + 1)
			tier[i], tier[j] = tier[j], tier[i]
		}

		start = end
	}

	return ranked
}

// Rank scores every host against now and returns the call order.
func Rank(histories map[string]History, hostIDs []string, now Week, rng *rand.Rand) []Ranked {
	items := make([]Ranked, 0, len(hostIDs))
	for _, hostID := range hostIDs {
		items = append(items, Ranked{HostID: hostID, Score: Score(histories[hostID], now)})
	}

	return ShuffleTiers(items, rng)
}
