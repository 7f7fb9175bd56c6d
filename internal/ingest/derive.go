package ingest

import "strings"

// derive computes the derived columns over a validated table.
//
// pnl = (exit_price - entry_price) * qty * dir - fees, dir = +1 for long and
// -1 for short, in exactly that order with no rounding. r_multiple is set
// only when a passthrough risk column carries a non-zero value for the row.
func derive(rows []tradeRow) {
	for i := range rows {
		t := &rows[i].trade

		dir := 1.0
		if t.Side == SideShort {
			dir = -1.0
		}
		t.PnL = (t.ExitPrice-t.EntryPrice)*t.Qty*dir - t.Fees

		if risk, ok := riskFor(t); ok && risk != 0 {
			r := t.PnL / risk
			t.RMultiple = &r
		}
	}
}

// riskFor looks up the passthrough risk column case-insensitively.
func riskFor(t *Trade) (float64, bool) {
	for k, v := range t.Extra {
		if strings.EqualFold(strings.TrimSpace(k), "risk") {
			return parseNumber(v)
		}
	}
	return 0, false
}
