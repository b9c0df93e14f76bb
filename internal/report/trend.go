package report

import (
	"sort"

	"budgetboard/internal/core"
)

// TrendPoint is one month of a category's spending series.
type TrendPoint struct {
	Month   string     `json:"month"`
	Actual  core.Money `json:"actual"`
	Rolling float64    `json:"rolling"` // trailing 3-month mean, in currency units
}

// RollingAverages computes, for each tracked expense category, its per-month
// actual totals in chronological order together with a trailing window-of-3
// average. The window uses min-periods-1 semantics: the first two points of a
// series average 1 and 2 values respectively, so no point is ever undefined.
// The whole series is recomputed from scratch on every call; data volumes are
// personal-scale and no incremental state is worth carrying.
func RollingAverages(txs []core.Transaction, categories []string) map[string][]TrendPoint {
	tracked := make(map[string]bool, len(categories))
	for _, c := range categories {
		tracked[c] = true
	}

	// Per-category, per-month totals of expense actuals.
	totals := make(map[string]map[string]core.Money)
	for _, tx := range txs {
		if tx.Type != core.Expense || !tracked[tx.Category] {
			continue
		}
		months, ok := totals[tx.Category]
		if !ok {
			months = make(map[string]core.Money)
			totals[tx.Category] = months
		}
		months[tx.Month] = months[tx.Month].Add(tx.Actual)
	}

	out := make(map[string][]TrendPoint, len(totals))
	for category, months := range totals {
		keys := make([]string, 0, len(months))
		for m := range months {
			keys = append(keys, m)
		}
		sort.Strings(keys)

		points := make([]TrendPoint, 0, len(keys))
		for i, m := range keys {
			start := i - 2
			if start < 0 {
				start = 0
			}
			var sum int64
			for _, w := range keys[start : i+1] {
				sum += months[w].Cents
			}
			points = append(points, TrendPoint{
				Month:   m,
				Actual:  months[m],
				Rolling: float64(sum) / float64(i+1-start) / 100.0,
			})
		}
		out[category] = points
	}
	return out
}
