package analytics

import (
	"time"

	"trade-journal-go/internal/ingest"
)

// EquityPoint is one step of an equity curve.
type EquityPoint struct {
	Time        time.Time `json:"time"`
	PnL         float64   `json:"pnl"`
	CumPnL      float64   `json:"cum_pnl"`
	Equity      float64   `json:"equity"`
	Peak        float64   `json:"peak"`
	DrawdownAbs float64   `json:"dd_abs"` // <= 0
	DrawdownPct float64   `json:"dd_pct"` // <= 0, percent
}

// EquityCurve is an equity series plus its worst drawdown.
type EquityCurve struct {
	Points      []EquityPoint `json:"points"`
	MaxDrawdown float64       `json:"max_drawdown"` // <= 0
}

// BuildEquity builds a per-trade equity curve from the starting equity:
// cumulative pnl, running peak, and absolute/percent drawdown at every step.
// Trades are walked in exit-time order; pnl realizes when a trade closes.
func BuildEquity(trades []ingest.Trade, startEquity float64) EquityCurve {
	ordered := sortedByExit(trades)

	curve := EquityCurve{Points: make([]EquityPoint, 0, len(ordered))}
	cum := 0.0
	peak := startEquity
	for _, t := range ordered {
		cum += t.PnL
		equity := startEquity + cum
		if equity > peak {
			peak = equity
		}
		p := EquityPoint{
			Time:        t.ExitTime,
			PnL:         t.PnL,
			CumPnL:      cum,
			Equity:      equity,
			Peak:        peak,
			DrawdownAbs: equity - peak,
		}
		if peak > 0 {
			p.DrawdownPct = (equity/peak - 1.0) * 100.0
		}
		if p.DrawdownAbs < curve.MaxDrawdown {
			curve.MaxDrawdown = p.DrawdownAbs
		}
		curve.Points = append(curve.Points, p)
	}
	return curve
}

// DailyEquity buckets pnl into calendar days (by exit date) and builds the
// equity curve on the daily series.
func DailyEquity(trades []ingest.Trade, startEquity float64) EquityCurve {
	daily := DailyPnL(trades)

	curve := EquityCurve{Points: make([]EquityPoint, 0, len(daily))}
	cum := 0.0
	peak := startEquity
	for _, d := range daily {
		cum += d.PnL
		equity := startEquity + cum
		if equity > peak {
			peak = equity
		}
		p := EquityPoint{
			Time:        d.Date,
			PnL:         d.PnL,
			CumPnL:      cum,
			Equity:      equity,
			Peak:        peak,
			DrawdownAbs: equity - peak,
		}
		if peak > 0 {
			p.DrawdownPct = (equity/peak - 1.0) * 100.0
		}
		if p.DrawdownAbs < curve.MaxDrawdown {
			curve.MaxDrawdown = p.DrawdownAbs
		}
		curve.Points = append(curve.Points, p)
	}
	return curve
}

// DayPnL is the realized pnl of one calendar day.
type DayPnL struct {
	Date   time.Time `json:"date"`
	PnL    float64   `json:"pnl"`
	Trades int       `json:"trades"`
}

// DailyPnL sums pnl per calendar day of the exit time, ascending by date.
func DailyPnL(trades []ingest.Trade) []DayPnL {
	ordered := sortedByExit(trades)

	var out []DayPnL
	for _, t := range ordered {
		day := time.Date(t.ExitTime.Year(), t.ExitTime.Month(), t.ExitTime.Day(), 0, 0, 0, 0, t.ExitTime.Location())
		if n := len(out); n > 0 && out[n-1].Date.Equal(day) {
			out[n-1].PnL += t.PnL
			out[n-1].Trades++
			continue
		}
		out = append(out, DayPnL{Date: day, PnL: t.PnL, Trades: 1})
	}
	return out
}
