package fairness_test

import (
	"bedcall/internal/domains/queue/fairness"
	"bedcall/shared/timezone"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekPtr(year, number int) *fairness.Week {
	return &fairness.Week{Year: year, Number: number}
}

func TestWeekOf(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want fairness.Week
	}{
		{name: "january first", at: time.Date(2026, 1, 1, 12, 0, 0, 0, timezone.GetLocation()), want: fairness.Week{Year: 2026, Number: 1}},
		{name: "day seven", at: time.Date(2026, 1, 7, 23, 0, 0, 0, timezone.GetLocation()), want: fairness.Week{Year: 2026, Number: 1}},
		{name: "day eight", at: time.Date(2026, 1, 8, 0, 0, 0, 0, timezone.GetLocation()), want: fairness.Week{Year: 2026, Number: 2}},
		{name: "last day", at: time.Date(2026, 12, 31, 12, 0, 0, 0, timezone.GetLocation()), want: fairness.Week{Year: 2026, Number: 53}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fairness.WeekOf(tt.at))
		})
	}
}

func TestElapsedWeeks(t *testing.T) {
	tests := []struct {
		name string
		last fairness.Week
		now  fairness.Week
		want int
	}{
		{name: "same year", last: fairness.Week{Year: 2026, Number: 10}, now: fairness.Week{Year: 2026, Number: 14}, want: 4},
		{name: "wraparound with years", last: fairness.Week{Year: 2025, Number: 51}, now: fairness.Week{Year: 2026, Number: 2}, want: 3},
		{name: "wraparound without years", last: fairness.Week{Number: 51}, now: fairness.Week{Number: 2}, want: 3},
		{name: "two years back", last: fairness.Week{Year: 2024, Number: 20}, now: fairness.Week{Year: 2026, Number: 20}, want: 104},
		{name: "future acceptance clamps to zero", last: fairness.Week{Year: 2026, Number: 20}, now: fairness.Week{Year: 2026, Number: 18}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fairness.ElapsedWeeks(tt.last, tt.now))
		})
	}
}

func TestScore_NeverAcceptedFirst(t *testing.T) {
	now := fairness.Week{Year: 2026, Number: 30}

	never := fairness.Score(fairness.History{DeclinedCount: 9}, now)
	ancient := fairness.Score(fairness.History{LastAccepted: weekPtr(1990, 1), AcceptedCount: 1}, now)

	assert.Equal(t, fairness.NeverAcceptedScore, never)
	assert.Greater(t, never, ancient)
}

func TestScore_MonotonicStaleness(t *testing.T) {
	now := fairness.Week{Year: 2026, Number: 30}

	previous := -1
	for number := 29; number >= 1; number-- {
		score := fairness.Score(fairness.History{LastAccepted: weekPtr(2026, number)}, now)
		assert.GreaterOrEqual(t, score, previous, "older acceptance must never score lower")
		previous = score
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, 0, fairness.Tier(0))
	assert.Equal(t, 0, fairness.Tier(4))
	assert.Equal(t, 1, fairness.Tier(5))
	assert.Equal(t, fairness.NeverAcceptedTier, fairness.Tier(fairness.NeverAcceptedScore))
	assert.Greater(t, fairness.NeverAcceptedTier, fairness.Tier(fairness.NeverAcceptedScore-1))
}

func TestShuffleTiers_OrderAndPermutation(t *testing.T) {
	items := []fairness.Ranked{
		{HostID: "recent-a", Score: 1},
		{HostID: "never-a", Score: fairness.NeverAcceptedScore},
		{HostID: "mid-a", Score: 7},
		{HostID: "recent-b", Score: 3},
		{HostID: "never-b", Score: fairness.NeverAcceptedScore},
		{HostID: "mid-b", Score: 9},
	}
	original := slices.Clone(items)

	ranked := fairness.ShuffleTiers(items, rand.New(rand.NewPCG(1, 2)))

	require.Len(t, ranked, len(items))
	assert.Equal(t, original, items, "input must not be reordered")
	assert.ElementsMatch(t, items, ranked)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, fairness.Tier(ranked[i-1].Score), fairness.Tier(ranked[i].Score))
	}

	assert.ElementsMatch(t, []string{"never-a", "never-b"}, []string{ranked[0].HostID, ranked[1].HostID})
	assert.ElementsMatch(t, []string{"mid-a", "mid-b"}, []string{ranked[2].HostID, ranked[3].HostID})
	assert.ElementsMatch(t, []string{"recent-a", "recent-b"}, []string{ranked[4].HostID, ranked[5].HostID})
}

func TestShuffleTiers_Distribution(t *testing.T) {
	items := []fairness.Ranked{
		{HostID: "a", Score: 10},
		{HostID: "b", Score: 11},
		{HostID: "c", Score: 12},
	}

	rng := rand.New(rand.NewPCG(42, 7))
	firsts := map[string]int{}

	const rounds = 3000
	for range rounds {
		firsts[fairness.ShuffleTiers(items, rng)[0].HostID]++
	}

	for _, id := range []string{"a", "b", "c"} {
		assert.InDelta(t, rounds/3, firsts[id], rounds*0.06, "host %s should lead about a third of the time", id)
	}
}

func TestShuffleTiers_Deterministic(t *testing.T) {
	items := []fairness.Ranked{{HostID: "a", Score: 1}, {HostID: "b", Score: 2}, {HostID: "c", Score: 3}}

	first := fairness.ShuffleTiers(items, rand.New(rand.NewPCG(9, 9)))
	second := fairness.ShuffleTiers(items, rand.New(rand.NewPCG(9, 9)))

	assert.Equal(t, first, second)
}

func TestRank(t *testing.T) {
	now := fairness.Week{Year: 2026, Number: 40}
	histories := map[string]fairness.History{
		"recent": {LastAccepted: weekPtr(2026, 39), AcceptedCount: 4},
		"stale":  {LastAccepted: weekPtr(2025, 40), AcceptedCount: 1},
	}

	ranked := fairness.Rank(histories, []string{"recent", "new", "stale"}, now, rand.New(rand.NewPCG(3, 4)))

	require.Len(t, ranked, 3)
	assert.Equal(t, "new", ranked[0].HostID)
	assert.Equal(t, "stale", ranked[1].HostID)
	assert.Equal(t, 52, ranked[1].Score)
	assert.Equal(t, "recent", ranked[2].HostID)
	assert.Equal(t, 1, ranked[2].Score)
}
