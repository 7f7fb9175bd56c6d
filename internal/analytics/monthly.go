package analytics

import (
	"math"
	"sort"
	"time"

	"trade-journal-go/internal/ingest"
)

// MonthlyStat aggregates one calendar month.
type MonthlyStat struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	PnLSum  float64 `json:"pnl_sum"`
	RSum    float64 `json:"rr_sum"`
	Wins    int     `json:"wins"`
	Trades  int     `json:"trades"`
	WinRate float64 `json:"win_rate"` // percent
}

// MonthlyStats aggregates trades per (year, month) of the exit time,
// ascending. R multiples come from the derived column where present; trades
// without one fall back to pnl divided by the median absolute loss of the
// whole set, so R columns stay comparable on files without risk data.
func MonthlyStats(trades []ingest.Trade) []MonthlyStat {
	riskProxy := medianAbsLoss(trades)

	byMonth := make(map[[2]int]*MonthlyStat)
	for _, t := range trades {
		key := [2]int{t.ExitTime.Year(), int(t.ExitTime.Month())}
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyStat{Year: key[0], Month: key[1]}
			byMonth[key] = m
		}
		m.Trades++
		m.PnLSum += t.PnL
		m.RSum += rMultiple(t, riskProxy)
		if t.PnL > 0 {
			m.Wins++
		}
	}

	out := make([]MonthlyStat, 0, len(byMonth))
	for _, m := range byMonth {
		if m.Trades > 0 {
			m.WinRate = float64(m.Wins) / float64(m.Trades) * 100.0
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func rMultiple(t ingest.Trade, riskProxy float64) float64 {
	if t.RMultiple != nil {
		return *t.RMultiple
	}
	if riskProxy == 0 {
		riskProxy = 1.0
	}
	return t.PnL / riskProxy
}

// medianAbsLoss returns the median of the absolute losing pnls, or 1 when
// there are no losses.
func medianAbsLoss(trades []ingest.Trade) float64 {
	var losses []float64
	for _, t := range trades {
		if t.PnL < 0 {
			losses = append(losses, math.Abs(t.PnL))
		}
	}
	if len(losses) == 0 {
		return 1.0
	}
	sort.Float64s(losses)
	mid := len(losses) / 2
	if len(losses)%2 == 1 {
		return losses[mid]
	}
	return (losses[mid-1] + losses[mid]) / 2
}

// CalendarDay is one cell of the monthly calendar view.
type CalendarDay struct {
	Day    int     `json:"day"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
	Win    bool    `json:"win"`
}

// CalendarRollup returns per-day pnl for one calendar month; days without
// trades are omitted.
func CalendarRollup(trades []ingest.Trade, year int, month time.Month) []CalendarDay {
	var out []CalendarDay
	for _, d := range DailyPnL(trades) {
		if d.Date.Year() != year || d.Date.Month() != month {
			continue
		}
		out = append(out, CalendarDay{
			Day:    d.Date.Day(),
			PnL:    d.PnL,
			Trades: d.Trades,
			Win:    d.PnL > 0,
		})
	}
	return out
}
