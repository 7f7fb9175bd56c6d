package ingest

import (
	"fmt"
	"strings"
	"time"
)

// table is the raw parsed CSV: a trimmed header plus data rows.
type table struct {
	header []string
	rows   [][]string

	// lower header name -> column index, first occurrence wins
	index map[string]int
}

func newTable(header []string, rows [][]string) *table {
	t := &table{header: header, rows: rows, index: make(map[string]int, len(header))}
	for i, c := range header {
		t.header[i] = strings.TrimSpace(c)
		key := strings.ToLower(t.header[i])
		if _, ok := t.index[key]; !ok {
			t.index[key] = i
		}
	}
	return t
}

// cell returns the trimmed value of the named column in a row, or "" when
// the column is absent or the row is short.
func (t *table) cell(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) hasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// normalizeNative converts a native one-row-per-trade table into canonical
// rows. Missing fees default to 0, missing session/notes to "". Columns
// outside the known set are preserved unmodified as passthrough.
func normalizeNative(t *table) ([]tradeRow, error) {
	known := map[string]struct{}{
		"trade_id": {}, "symbol": {}, "side": {}, "entry_time": {}, "exit_time": {},
		"entry_price": {}, "exit_price": {}, "qty": {}, "fees": {},
		"session": {}, "notes": {},
	}

	out := make([]tradeRow, 0, len(t.rows))
	for n, row := range t.rows {
		r := tradeRow{index: n + 1}

		r.trade.TradeID = t.cell(row, "trade_id")
		if r.trade.TradeID == "" {
			r.missing = append(r.missing, "trade_id")
		}
		r.trade.Symbol = strings.ToUpper(t.cell(row, "symbol"))
		if r.trade.Symbol == "" {
			r.missing = append(r.missing, "symbol")
		}
		if raw := t.cell(row, "side"); raw == "" {
			r.missing = append(r.missing, "side")
		} else {
			r.trade.Side = parseSide(raw)
		}

		var err error
		if r.trade.EntryTime, err = requireTime(t, row, r.index, "entry_time", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.ExitTime, err = requireTime(t, row, r.index, "exit_time", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.EntryPrice, err = requireNumber(t, row, r.index, "entry_price", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.ExitPrice, err = requireNumber(t, row, r.index, "exit_price", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.Qty, err = requireNumber(t, row, r.index, "qty", &r.missing); err != nil {
			return nil, err
		}

		// fees default to 0 when the cell is empty
		if raw := t.cell(row, "fees"); raw != "" {
			v, ok := parseNumber(raw)
			if !ok {
				return nil, &ParseError{Row: r.index, Field: "fees", Value: raw}
			}
			r.trade.Fees = v
		}

		r.trade.Session = t.cell(row, "session")
		r.trade.Notes = t.cell(row, "notes")

		for i, name := range t.header {
			if _, ok := known[strings.ToLower(name)]; ok {
				continue
			}
			if i >= len(row) {
				continue
			}
			if r.trade.Extra == nil {
				r.trade.Extra = make(map[string]string)
			}
			r.trade.Extra[name] = row[i]
		}

		out = append(out, r)
	}
	return out, nil
}

// requireTime parses a required timestamp cell. An empty cell is recorded as
// missing for the validator; a non-empty cell that does not parse fails the
// whole ingestion.
func requireTime(t *table, row []string, rowIdx int, name string, missing *[]string) (time.Time, error) {
	raw := t.cell(row, name)
	if raw == "" {
		*missing = append(*missing, name)
		return time.Time{}, nil
	}
	v, ok := parseTime(raw)
	if !ok {
		return time.Time{}, &ParseError{Row: rowIdx, Field: name, Value: raw}
	}
	return v, nil
}

// requireNumber is the numeric counterpart of requireTime.
func requireNumber(t *table, row []string, rowIdx int, name string, missing *[]string) (float64, error) {
	raw := t.cell(row, name)
	if raw == "" {
		*missing = append(*missing, name)
		return 0, nil
	}
	v, ok := parseNumber(raw)
	if !ok {
		return 0, &ParseError{Row: rowIdx, Field: name, Value: raw}
	}
	return v, nil
}

// pairedNoteFields are broker-export metrics folded into notes instead of
// being dropped.
var pairedNoteFields = []string{"run-up", "drawdown", "cumulative p&l"}

// pairedHalf accumulates the entry or exit leg of a broker-export trade.
type pairedHalf struct {
	seen   bool
	rowIdx int
	time   string
	price  string
	qty    string
	signal string
	symbol string
}

// normalizePaired merges the two-rows-per-trade broker export into canonical
// rows: entry time/price from the row tagged Entry, exit time/price from the
// row tagged Exit, side inferred from the entry signal text, fees fixed at 0.
func normalizePaired(t *table) ([]tradeRow, error) {
	keyCol := ""
	for _, k := range tradeKeyColumns {
		if t.hasColumn(k) {
			keyCol = k
			break
		}
	}

	type pair struct {
		id      string
		entry   pairedHalf
		exit    pairedHalf
		metrics map[string]string
	}

	var order []string
	pairs := make(map[string]*pair)

	for n, row := range t.rows {
		id := t.cell(row, keyCol)
		p, ok := pairs[id]
		if !ok {
			p = &pair{id: id, metrics: make(map[string]string)}
			pairs[id] = p
			order = append(order, id)
		}

		half := &p.entry
		kind := strings.ToLower(t.cell(row, "type"))
		isExit := strings.HasPrefix(kind, "exit")
		if isExit {
			half = &p.exit
		}
		half.seen = true
		half.rowIdx = n + 1
		half.time = t.cell(row, "date/time")
		half.price = t.cell(row, "price")
		half.qty = t.cell(row, "position size")
		half.signal = t.cell(row, "signal")
		half.symbol = t.cell(row, "symbol")

		// per-trade metrics settle on the exit row; exit values win over
		// whatever the entry row carried
		for _, f := range pairedNoteFields {
			if v := t.cell(row, f); v != "" {
				if _, have := p.metrics[f]; isExit || !have {
					p.metrics[f] = v
				}
			}
		}
	}

	out := make([]tradeRow, 0, len(order))
	for _, id := range order {
		p := pairs[id]
		r := tradeRow{index: p.entry.rowIdx}
		if !p.entry.seen {
			r.index = p.exit.rowIdx
		}

		r.trade.TradeID = p.id
		if r.trade.TradeID == "" {
			r.missing = append(r.missing, "trade_id")
		}

		r.trade.Symbol = strings.ToUpper(firstNonEmpty(p.entry.symbol, p.exit.symbol))
		if r.trade.Symbol == "" {
			r.missing = append(r.missing, "symbol")
		}

		// side: prefer the entry signal, fall back to the exit signal,
		// default long when inference fails (matching the source format's
		// long-only exports that carry no direction text)
		side, ok := inferSide(p.entry.signal)
		if !ok {
			side, ok = inferSide(p.exit.signal)
		}
		if !ok {
			side = SideLong
		}
		r.trade.Side = side

		var err error
		if r.trade.EntryTime, err = pairedTime(p.entry, "entry_time", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.ExitTime, err = pairedTime(p.exit, "exit_time", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.EntryPrice, err = pairedNumber(p.entry.price, p.entry.rowIdx, "entry_price", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.ExitPrice, err = pairedNumber(p.exit.price, p.exit.rowIdx, "exit_price", &r.missing); err != nil {
			return nil, err
		}
		if r.trade.Qty, err = pairedNumber(firstNonEmpty(p.entry.qty, p.exit.qty), r.index, "qty", &r.missing); err != nil {
			return nil, err
		}

		// the export carries no commission data
		r.trade.Fees = 0

		var notes []string
		if p.entry.signal != "" {
			notes = appendNote(notes, "entry", p.entry.signal)
		}
		if p.exit.signal != "" {
			notes = appendNote(notes, "exit", p.exit.signal)
		}
		for _, f := range pairedNoteFields {
			if v, ok := p.metrics[f]; ok {
				notes = appendNote(notes, noteKey(f), v)
			}
		}
		r.trade.Notes = strings.Join(notes, "; ")

		out = append(out, r)
	}
	return out, nil
}

func pairedTime(h pairedHalf, field string, missing *[]string) (time.Time, error) {
	if h.time == "" {
		*missing = append(*missing, field)
		return time.Time{}, nil
	}
	v, ok := parseTime(h.time)
	if !ok {
		return time.Time{}, &ParseError{Row: h.rowIdx, Field: field, Value: h.time}
	}
	return v, nil
}

func pairedNumber(raw string, rowIdx int, field string, missing *[]string) (float64, error) {
	if raw == "" {
		*missing = append(*missing, field)
		return 0, nil
	}
	v, ok := parseNumber(raw)
	if !ok {
		return 0, &ParseError{Row: rowIdx, Field: field, Value: raw}
	}
	return v, nil
}

func appendNote(notes []string, key, value string) []string {
	return append(notes, fmt.Sprintf("%s=%s", key, value))
}

func noteKey(col string) string {
	k := strings.ReplaceAll(strings.ToLower(col), " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return strings.ReplaceAll(k, "&", "n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
