package ingest

import (
	"strconv"
	"time"
)

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Trade is one row of the canonical trade table produced by ingestion.
// PnL and RMultiple are derived, everything else comes from the source file.
type Trade struct {
	TradeID    string            `json:"trade_id"`
	Symbol     string            `json:"symbol"`
	Side       Side              `json:"side"`
	EntryTime  time.Time         `json:"entry_time"`
	ExitTime   time.Time         `json:"exit_time"`
	EntryPrice float64           `json:"entry_price"`
	ExitPrice  float64           `json:"exit_price"`
	Qty        float64           `json:"qty"`
	Fees       float64           `json:"fees"`
	Session    string            `json:"session,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	PnL        float64           `json:"pnl"`
	RMultiple  *float64          `json:"r_multiple,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// DurationMinutes returns the holding time of the trade in minutes.
func (t Trade) DurationMinutes() float64 {
	return t.ExitTime.Sub(t.EntryTime).Minutes()
}

// tradeRow pairs a normalized trade with source bookkeeping the validator
// needs: the position of the row in the file and which required fields were
// absent or empty in the source.
type tradeRow struct {
	trade   Trade
	index   int // 1-based data row number, header excluded
	missing []string
}

// ident returns the identifier used in error reports: the trade id when the
// source provided one, otherwise the row position.
func (r tradeRow) ident() string {
	if r.trade.TradeID != "" {
		return r.trade.TradeID
	}
	return "row " + strconv.Itoa(r.index)
}
