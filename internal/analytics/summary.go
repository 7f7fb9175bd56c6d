// Package analytics computes aggregate statistics over the canonical trade
// table. All functions are pure: they treat pnl and r_multiple as already
// derived by ingestion and never modify their input.
package analytics

import (
	"math"
	"sort"

	"trade-journal-go/internal/ingest"
)

// Summary holds the headline KPIs for a set of trades.
type Summary struct {
	TotalTrades     int     `json:"total_trades"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"` // 0..1
	GrossProfit     float64 `json:"gross_profit"`
	GrossLoss       float64 `json:"gross_loss"` // <= 0
	NetPnL          float64 `json:"net_pnl"`
	ProfitFactor    float64 `json:"profit_factor"` // may be +Inf, callers must handle it before JSON encoding
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"` // <= 0
	PayoffRatio     float64 `json:"payoff_ratio"`
	Expectancy      float64 `json:"expectancy"`
	TotalFees       float64 `json:"total_fees"`
	AvgDurationMins float64 `json:"avg_duration_mins"`
}

// Summarize computes the Summary KPIs.
//
// Expectancy = winRate*avgWin + (1-winRate)*avgLoss. ProfitFactor is +Inf
// when there are profits but no losses, 0 when there are no profits at all.
func Summarize(trades []ingest.Trade) Summary {
	s := Summary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return s
	}

	var durTotal float64
	for _, t := range trades {
		s.NetPnL += t.PnL
		s.TotalFees += t.Fees
		durTotal += t.DurationMinutes()
		if t.PnL > 0 {
			s.Wins++
			s.GrossProfit += t.PnL
		} else if t.PnL < 0 {
			s.Losses++
			s.GrossLoss += t.PnL
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	s.AvgDurationMins = durTotal / float64(s.TotalTrades)

	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}

	switch {
	case s.GrossLoss != 0:
		s.ProfitFactor = s.GrossProfit / math.Abs(s.GrossLoss)
	case s.GrossProfit > 0:
		s.ProfitFactor = math.Inf(1)
	}

	if s.AvgLoss != 0 {
		s.PayoffRatio = s.AvgWin / math.Abs(s.AvgLoss)
	} else if s.AvgWin > 0 {
		s.PayoffRatio = math.Inf(1)
	}

	s.Expectancy = s.WinRate*s.AvgWin + (1-s.WinRate)*s.AvgLoss
	return s
}

// SideSplit holds per-direction performance.
type SideSplit struct {
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	NetPnL  float64 `json:"net_pnl"`
}

// LongShortSplit breaks performance down by trade direction.
func LongShortSplit(trades []ingest.Trade) (long, short SideSplit) {
	for _, t := range trades {
		s := &long
		if t.Side == ingest.SideShort {
			s = &short
		}
		s.Trades++
		s.NetPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
		}
	}
	if long.Trades > 0 {
		long.WinRate = float64(long.Wins) / float64(long.Trades)
	}
	if short.Trades > 0 {
		short.WinRate = float64(short.Wins) / float64(short.Trades)
	}
	return long, short
}

// sortedByExit returns the trades ordered by exit time, earliest first.
// Ties keep their input order.
func sortedByExit(trades []ingest.Trade) []ingest.Trade {
	out := make([]ingest.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(out[j].ExitTime)
	})
	return out
}
