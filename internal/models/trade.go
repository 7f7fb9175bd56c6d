package models

import (
	"time"

	"gorm.io/gorm"
)

// TradeRecord is one imported trade persisted to the database. The canonical
// table produced by ingestion is stored as-is; pnl and r_multiple are never
// re-derived after import.
type TradeRecord struct {
	gorm.Model
	JournalSlug string    `gorm:"index" json:"journal"`
	ImportID    string    `gorm:"index" json:"import_id"`
	TradeID     string    `json:"trade_id"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"` // "long" or "short"
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	Qty         float64   `json:"qty"`
	Fees        float64   `json:"fees"`
	Session     string    `json:"session,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	PnL         float64   `json:"pnl"`
	RMultiple   *float64  `json:"r_multiple,omitempty"`
	Extra       string    `json:"extra,omitempty"` // passthrough columns as JSON
}
