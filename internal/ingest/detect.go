package ingest

import "strings"

// Format is the detected shape of an incoming CSV.
type Format int

const (
	// FormatNative is one row per completed trade with all required
	// columns present directly.
	FormatNative Format = iota
	// FormatPaired is a broker/platform export with two rows per trade
	// (entry and exit) that need to be merged.
	FormatPaired
)

func (f Format) String() string {
	if f == FormatPaired {
		return "paired-rows"
	}
	return "native"
}

// requiredColumns is the native one-row-per-trade schema.
var requiredColumns = []string{
	"trade_id", "symbol", "side", "entry_time", "exit_time",
	"entry_price", "exit_price", "qty", "fees",
}

// tradeKeyColumns are the header names broker exports use for the shared
// trade/signal identifier, in preference order.
var tradeKeyColumns = []string{"trade #", "trade no", "trade"}

// DetectFormat classifies a CSV header as native or paired-rows.
// Native detection takes priority: a file satisfying both heuristics is
// treated as native. If neither pattern matches, a SchemaError naming the
// missing native columns is returned.
func DetectFormat(header []string) (Format, error) {
	cols := make(map[string]struct{}, len(header))
	for _, c := range header {
		cols[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return FormatNative, nil
	}

	// Broker export: a type column (entry/exit marker), a combined
	// date/time column, a price column, and a trade identifier.
	_, hasType := cols["type"]
	_, hasDateTime := cols["date/time"]
	_, hasPrice := cols["price"]
	hasKey := false
	for _, k := range tradeKeyColumns {
		if _, ok := cols[k]; ok {
			hasKey = true
			break
		}
	}
	if hasType && hasDateTime && hasPrice && hasKey {
		return FormatPaired, nil
	}

	return FormatNative, &SchemaError{Missing: missing}
}
