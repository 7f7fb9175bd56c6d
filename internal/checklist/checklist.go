// Package checklist scores pre-trade checklists: graded select-one items
// plus flat-bonus confluences, rolled up into a percentage and a letter
// grade.
package checklist

import (
	"encoding/json"
	"fmt"
	"math"

	"trade-journal-go/internal/models"
)

// Score computes the checklist percentage and grade.
//
// The checklist tops out at 100 regardless of item count: with N items each
// contributes (selected/max) * 100/N. Confluences that are switched on add
// their points as a flat bonus. The final value is capped at 100 and
// rounded.
func Score(items []models.ChecklistItem, confs []models.Confluence) (int, string, error) {
	n := len(items)
	if n == 0 {
		n = 1
	}
	perItem := 100.0 / float64(n)

	base := 0.0
	for _, it := range items {
		pts, err := optionPoints(it)
		if err != nil {
			return 0, "", err
		}
		if len(pts) == 0 {
			continue
		}
		max := 0.0
		for _, v := range pts {
			if v > max {
				max = v
			}
		}
		if max <= 0 {
			continue
		}
		base += pts[it.Value] / max * perItem
	}

	bonus := 0.0
	for _, c := range confs {
		if c.On {
			bonus += c.Points
		}
	}

	pct := int(math.Round(math.Min(100.0, base+bonus)))
	return pct, grade(pct), nil
}

func grade(pct int) string {
	switch {
	case pct >= 96:
		return "S"
	case pct >= 90:
		return "A+"
	case pct >= 85:
		return "A"
	case pct >= 80:
		return "A-"
	case pct >= 75:
		return "B+"
	case pct >= 70:
		return "B"
	case pct >= 65:
		return "B-"
	default:
		return "C"
	}
}

func optionPoints(it models.ChecklistItem) (map[string]float64, error) {
	if it.Options == "" {
		return nil, nil
	}
	var pts map[string]float64
	if err := json.Unmarshal([]byte(it.Options), &pts); err != nil {
		return nil, fmt.Errorf("checklist item %q has invalid options: %w", it.Name, err)
	}
	return pts, nil
}

func mustOptions(pts map[string]float64) string {
	b, _ := json.Marshal(pts)
	return string(b)
}

// DefaultTemplate is the built-in pre-trade checklist, seeded on first run.
func DefaultTemplate() models.ChecklistTemplate {
	bias := make(map[string]float64, 10)
	for i := 1; i <= 10; i++ {
		bias[fmt.Sprintf("%d", i)] = float64(i)
	}
	sweep := map[string]float64{
		"Equal High/Low":    10.0,
		"Internal High/Low": 9.0,
		"External High/Low": 9.7,
		"Data High/Low":     10.0,
		"ITH/ITL":           9.5,
		"LRLR >3":           10.0,
		"LRLR <3":           9.2,
	}
	momentum := map[string]float64{"Low": 8.0, "Medium": 8.8, "High": 9.5, "Very High": 10.0}
	ifvg := map[string]float64{"Small": 8.8, "Medium": 9.6, "Large": 10.0}
	poi := map[string]float64{"Daily FVG": 10.0, "H4 FVG": 10.0, "H1 FVG": 9.8, "M15 FVG": 9.5}

	return models.ChecklistTemplate{
		Name: "A+ iFVG Setup",
		Items: []models.ChecklistItem{
			{Name: "Bias Confidence", Options: mustOptions(bias), Value: "10"},
			{Name: "Liquidity Sweep", Options: mustOptions(sweep), Value: "External High/Low"},
			{Name: "Draw on Liquidity", Options: mustOptions(sweep), Value: "LRLR >3"},
			{Name: "Momentum", Options: mustOptions(momentum), Value: "High"},
			{Name: "iFVG", Options: mustOptions(ifvg), Value: "Large"},
			{Name: "Point of Interest", Options: mustOptions(poi), Value: "H4 FVG"},
		},
		Confluences: []models.Confluence{
			{Name: "12 EMA (1H)", Points: 1},
			{Name: "12 EMA (4H)", Points: 2},
			{Name: "12 EMA (15m)", Points: 1},
			{Name: "12 EMA (Daily)", Points: 2},
			{Name: "Fundamentals", Points: 3},
			{Name: "CVD", Points: 1},
			{Name: "TSO, TDO", Points: 2},
			{Name: "Key levels", Points: 2},
			{Name: "Stairstep", Points: 2},
		},
	}
}
