package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
)

func entryAt(now time.Time, age time.Duration, usd float64) models.GiveawayEntry {
	return models.GiveawayEntry{TimestampMs: now.Add(-age).UnixMilli(), USDAmount: usd}
}

func TestComputeBucketTotals(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	entries := []models.GiveawayEntry{
		entryAt(now, time.Hour, 1),
		entryAt(now, 5*day, 2),
		entryAt(now, 10*day, 4),
		entryAt(now, 20*day, 8),
		entryAt(now, 40*day, 16),
	}

	totals := ComputeBucketTotals(entries, now, 3)

	assert.Equal(t, 31.0, totals.All)
	assert.Equal(t, 3.0, totals.Weekly)
	assert.Equal(t, 7.0, totals.Biweekly)
	assert.Equal(t, 15.0, totals.Monthly)
	assert.Equal(t, 1.0, totals.Custom)
}

func TestComputeBucketTotals_InclusiveBoundary(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	entries := []models.GiveawayEntry{
		entryAt(now, WeeklyWindow, 1),
		entryAt(now, WeeklyWindow+time.Millisecond, 10),
	}

	totals := ComputeBucketTotals(entries, now, 0)

	assert.Equal(t, 1.0, totals.Weekly)
	assert.Equal(t, 11.0, totals.Biweekly)
	assert.Zero(t, totals.Custom)
}

func TestComputeBucketTotals_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		entries := make([]models.GiveawayEntry, 0, n)
		for i := 0; i < n; i++ {
			age := time.Duration(rng.Int63n(int64(60 * day)))
			entries = append(entries, entryAt(now, age, float64(rng.Intn(100000))/100))
		}

		totals := ComputeBucketTotals(entries, now, rng.Intn(40))
		assert.LessOrEqual(t, totals.Weekly, totals.Biweekly)
		assert.LessOrEqual(t, totals.Biweekly, totals.Monthly)
		assert.LessOrEqual(t, totals.Monthly, totals.All)
	}
}

func TestRankLeaderboard(t *testing.T) {
	board := map[string]models.WinnerStats{
		"low":      {Wins: 9, TotalUSD: 5},
		"high":     {Wins: 1, TotalUSD: 100},
		"tie-few":  {Wins: 1, TotalUSD: 50},
		"tie-many": {Wins: 3, TotalUSD: 50},
	}

	rows := RankLeaderboard(board)

	require.Len(t, rows, 4)
	ids := []string{rows[0].WinnerID, rows[1].WinnerID, rows[2].WinnerID, rows[3].WinnerID}
	assert.Equal(t, []string{"high", "tie-many", "tie-few", "low"}, ids)
}

func TestRankLeaderboard_OrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 100; round++ {
		board := make(map[string]models.WinnerStats)
		n := rng.Intn(20)
		for i := 0; i < n; i++ {
			board[string(rune('a'+i))] = models.WinnerStats{Wins: rng.Intn(4), TotalUSD: float64(rng.Intn(5))}
		}
		rows := RankLeaderboard(board)
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			assert.GreaterOrEqual(t, prev.TotalUSD, cur.TotalUSD)
			if prev.TotalUSD == cur.TotalUSD {
				assert.GreaterOrEqual(t, prev.Wins, cur.Wins)
			}
		}
	}
}

func TestTopN(t *testing.T) {
	rows := []models.LeaderboardRow{{WinnerID: "a"}, {WinnerID: "b"}, {WinnerID: "c"}}
	assert.Len(t, TopN(rows, 2), 2)
	assert.Len(t, TopN(rows, 10), 3)
	assert.Len(t, TopN(rows, 0), 3)
}

func TestRankDistribution(t *testing.T) {
	rows := RankDistribution(map[models.Source]float64{
		models.SourceOthers:  5,
		models.SourceCasino:  50,
		models.SourceDiscord: 5,
	})

	require.Len(t, rows, 3)
	assert.Equal(t, models.SourceCasino, rows[0].Source)
	assert.Equal(t, models.SourceDiscord, rows[1].Source)
	assert.Equal(t, models.SourceOthers, rows[2].Source)
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	winner := "u1"
	e := entryAt(now, time.Hour, 10)
	e.WinnerID = &winner
	e.Source = models.SourceTwitter
	snap := store.Snapshot{Entries: []models.GiveawayEntry{e}, Aggregate: store.Recompute([]models.GiveawayEntry{e})}
	cfg := models.DefaultTrackingConfig(60)

	summary := BuildSummary(snap, cfg, now, 1)

	assert.Equal(t, 10.0, summary.Totals.All)
	assert.Equal(t, 1, summary.EntryCount)
	assert.Equal(t, cfg.Buckets, summary.Buckets)
	assert.Equal(t, now.UnixMilli(), summary.GeneratedAt)
	require.Len(t, summary.Leaderboard, 1)
	assert.Equal(t, "u1", summary.Leaderboard[0].WinnerID)
	require.Len(t, summary.Distribution, 1)
	assert.Equal(t, models.SourceTwitter, summary.Distribution[0].Source)
}
