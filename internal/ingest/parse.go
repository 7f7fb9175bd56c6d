package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)
	kiloRe   = regexp.MustCompile(`\b[kK]\b`)
)

// parseNumber converts messy numeric strings like "4.51 K USDT",
// "$1,234.56" or "24.7%" into a float. Currency and unit text is stripped,
// commas are removed, and a standalone K token multiplies by 1000.
// The second return is false when no number could be extracted.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	mult := 1.0
	if kiloRe.MatchString(s) {
		mult = 1000.0
	}

	m := numberRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}

// timeLayouts are tried in order. ISO-8601 forms first, then the common
// locale forms seen in broker exports ("Sep 05, 2025 06:31").
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

// parseTime parses a timestamp string. Timezone-naive values are accepted
// as-is with no implicit zone assignment. The second return is false when
// no layout matches.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseSide lowercases and maps a side value. Unrecognized values pass
// through lowercased so the validator can report them under the side rule.
func parseSide(s string) Side {
	return Side(strings.ToLower(strings.TrimSpace(s)))
}

// inferSide extracts a direction from free-form signal text, e.g.
// "Open Long", "buy the dip", "Short entry". The second return is false
// when the text carries no recognizable direction.
func inferSide(signal string) (Side, bool) {
	s := strings.ToLower(signal)
	switch {
	case strings.Contains(s, "short"), strings.Contains(s, "sell"):
		return SideShort, true
	case strings.Contains(s, "long"), strings.Contains(s, "buy"):
		return SideLong, true
	}
	return "", false
}
