package service

import (
	"cmp"
	"slices"
	"time"

	"giveaway-tracker/internal/features/tracker/models"
	"giveaway-tracker/internal/features/tracker/store"
)

const day = 24 * time.Hour

// Bucket windows
const (
	WeeklyWindow   = 7 * day
	BiweeklyWindow = 14 * day
	MonthlyWindow  = 30 * day
)

// ComputeBucketTotals sums USD amounts over trailing windows ending at now.
// Membership is inclusive and buckets overlap. customDays sizes the custom
// bucket; a non-positive value leaves it at zero.
func ComputeBucketTotals(entries []models.GiveawayEntry, now time.Time, customDays int) models.BucketTotals {
	var totals models.BucketTotals
	nowMs := now.UnixMilli()
	customWindow := time.Duration(customDays) * day

	for i := range entries {
		e := &entries[i]
		age := time.Duration(nowMs-e.TimestampMs) * time.Millisecond

		totals.All += e.USDAmount
		if age <= WeeklyWindow {
			totals.Weekly += e.USDAmount
		}
		if age <= BiweeklyWindow {
			totals.Biweekly += e.USDAmount
		}
		if age <= MonthlyWindow {
			totals.Monthly += e.USDAmount
		}
		if customDays > 0 && age <= customWindow {
			totals.Custom += e.USDAmount
		}
	}
	return totals
}

// RankLeaderboard orders winners by total USD, then by wins, both
// descending. Exact ties fall back to winner id so the output is stable
// across calls.
func RankLeaderboard(board map[string]models.WinnerStats) []models.LeaderboardRow {
	rows := make([]models.LeaderboardRow, 0, len(board))
	for id, stats := range board {
		rows = append(rows, models.LeaderboardRow{WinnerID: id, Wins: stats.Wins, TotalUSD: stats.TotalUSD})
	}
	slices.SortFunc(rows, func(a, b models.LeaderboardRow) int {
		if c := cmp.Compare(b.TotalUSD, a.TotalUSD); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.WinnerID, b.WinnerID)
	})
	return rows
}

// TopN truncates a ranking to at most n rows. n <= 0 keeps everything.
func TopN(rows []models.LeaderboardRow, n int) []models.LeaderboardRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// RankDistribution lists source totals by USD descending.
func RankDistribution(dist map[models.Source]float64) []models.DistributionRow {
	rows := make([]models.DistributionRow, 0, len(dist))
	for source, total := range dist {
		rows = append(rows, models.DistributionRow{Source: source, TotalUSD: total})
	}
	slices.SortFunc(rows, func(a, b models.DistributionRow) int {
		if c := cmp.Compare(b.TotalUSD, a.TotalUSD); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})
	return rows
}

// BuildSummary renders a snapshot into the display payload.
func BuildSummary(snap store.Snapshot, cfg models.TrackingConfig, now time.Time, leaderboardSize int) models.Summary {
	return models.Summary{
		Totals:       ComputeBucketTotals(snap.Entries, now, cfg.CustomDays),
		Buckets:      cfg.Buckets,
		CustomDays:   cfg.CustomDays,
		Leaderboard:  TopN(RankLeaderboard(snap.Aggregate.Leaderboard), leaderboardSize),
		Distribution: RankDistribution(snap.Aggregate.Distribution),
		EntryCount:   len(snap.Entries),
		GeneratedAt:  now.UnixMilli(),
	}
}
