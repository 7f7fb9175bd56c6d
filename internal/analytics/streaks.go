package analytics

import "trade-journal-go/internal/ingest"

// Streak describes a run of consecutive wins: the streak still alive at the
// end of the series, the best streak ever and how many times a streak was
// broken by a loss.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
	Resets  int `json:"resets"`
}

// Streaks holds win streaks at trade granularity and at day granularity
// (a day wins when its net pnl is positive).
type Streaks struct {
	Trades Streak `json:"trades"`
	Days   Streak `json:"days"`
}

// ComputeStreaks computes trade-level and day-level win streaks, walking
// trades in exit-time order.
func ComputeStreaks(trades []ingest.Trade) Streaks {
	ordered := sortedByExit(trades)

	wins := make([]bool, len(ordered))
	for i, t := range ordered {
		wins[i] = t.PnL > 0
	}

	daily := DailyPnL(trades)
	dayWins := make([]bool, len(daily))
	for i, d := range daily {
		dayWins[i] = d.PnL > 0
	}

	return Streaks{Trades: streakOf(wins), Days: streakOf(dayWins)}
}

func streakOf(wins []bool) Streak {
	var s Streak
	run := 0
	for _, w := range wins {
		if w {
			run++
			if run > s.Best {
				s.Best = run
			}
			continue
		}
		if run > 0 {
			s.Resets++
		}
		run = 0
	}
	s.Current = run
	return s
}

// LongestLosingStreak returns the longest run of consecutive losing trades,
// in exit-time order.
func LongestLosingStreak(trades []ingest.Trade) int {
	ordered := sortedByExit(trades)
	streak, longest := 0, 0
	for _, t := range ordered {
		if t.PnL < 0 {
			streak++
			if streak > longest {
				longest = streak
			}
		} else {
			streak = 0
		}
	}
	return longest
}
