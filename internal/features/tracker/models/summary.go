package models

// WinnerStats is the leaderboard record of one winner.
type WinnerStats struct {
	Wins     int     `json:"wins"`
	TotalUSD float64 `json:"total_usd"`
}

// SummaryAggregate holds the running totals derived from the entry log.
type SummaryAggregate struct {
	Leaderboard  map[string]WinnerStats `json:"leaderboard"`
	Distribution map[Source]float64     `json:"distribution"`
}

func NewSummaryAggregate() SummaryAggregate {
	return SummaryAggregate{
		Leaderboard:  make(map[string]WinnerStats),
		Distribution: make(map[Source]float64),
	}
}

// Apply folds one entry into the aggregate.
func (a *SummaryAggregate) Apply(e *GiveawayEntry) {
	if a.Leaderboard == nil {
		a.Leaderboard = make(map[string]WinnerStats)
	}
	if a.Distribution == nil {
		a.Distribution = make(map[Source]float64)
	}
	if e.WinnerID != nil {
		stats := a.Leaderboard[*e.WinnerID]
		stats.Wins++
		stats.TotalUSD += e.USDAmount
		a.Leaderboard[*e.WinnerID] = stats
	}
	a.Distribution[e.SourceOrDefault()] += e.USDAmount
}

// Clone returns a deep copy safe to hand out of the store.
func (a SummaryAggregate) Clone() SummaryAggregate {
	out := NewSummaryAggregate()
	for k, v := range a.Leaderboard {
		out.Leaderboard[k] = v
	}
	for k, v := range a.Distribution {
		out.Distribution[k] = v
	}
	return out
}

// TrackedData is the persisted document holding the entry log and aggregate.
type TrackedData struct {
	Entries   []GiveawayEntry  `json:"entries"`
	Aggregate SummaryAggregate `json:"aggregate"`
}

// LeaderboardRow is one ranked leaderboard line.
type LeaderboardRow struct {
	WinnerID string  `json:"winner_id"`
	Wins     int     `json:"wins"`
	TotalUSD float64 `json:"total_usd"`
}

// DistributionRow is one source share of the total.
type DistributionRow struct {
	Source   Source  `json:"source"`
	TotalUSD float64 `json:"total_usd"`
}

// BucketTotals are USD sums over trailing windows.
type BucketTotals struct {
	All      float64 `json:"all"`
	Weekly   float64 `json:"weekly"`
	Biweekly float64 `json:"biweekly"`
	Monthly  float64 `json:"monthly"`
	Custom   float64 `json:"custom"`
}

// Summary is everything the display needs to render.
type Summary struct {
	Totals       BucketTotals      `json:"totals"`
	Buckets      BucketToggles     `json:"buckets"`
	CustomDays   int               `json:"custom_days"`
	Leaderboard  []LeaderboardRow  `json:"leaderboard"`
	Distribution []DistributionRow `json:"distribution"`
	EntryCount   int               `json:"entry_count"`
	GeneratedAt  int64             `json:"generated_at"`
}

// DataView is the full admin read of the tracked data.
type DataView struct {
	Entries     []GiveawayEntry  `json:"entries"`
	Aggregate   SummaryAggregate `json:"aggregate"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
	Totals      BucketTotals     `json:"totals"`
}

// CycleResult reports one rescan and refresh cycle.
type CycleResult struct {
	Channels   int   `json:"channels"`
	Appended   int   `json:"appended"`
	EntryCount int   `json:"entry_count"`
	DurationMs int64 `json:"duration_ms"`
}
