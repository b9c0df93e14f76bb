package report

import (
	"time"

	"budgetboard/internal/core"
)

// MonthReport bundles everything the dashboard shows for one month.
type MonthReport struct {
	Month      string                 `json:"month"`
	Summary    core.MonthSummary      `json:"summary"`
	Sections   core.SectionTotals     `json:"sections"`
	Categories []core.CategorySummary `json:"categories"`
	Pace       Pace                   `json:"pace"`
	Alerts     []Alert                `json:"alerts"`
}

// BuildMonthReport runs the whole reporting pipeline for one month. An empty
// month falls back to the month of the most recent transaction, then to the
// configured default.
func BuildMonthReport(txs []core.Transaction, budgets core.BudgetMap, settings core.Settings, month string, now time.Time) MonthReport {
	if month == "" {
		month = CurrentMonth(txs, settings.DefaultMonth)
	}

	cats := AggregateByCategory(txs, month, budgets)
	totalBudget, spentToDate := TotalsForPace(cats)
	pace := PaceForMonth(month, totalBudget, spentToDate, now)

	var summary core.MonthSummary
	for _, m := range AggregateByMonth(txs) {
		if m.Month == month {
			summary = m
			break
		}
	}
	if summary.Month == "" {
		summary.Month = month
	}

	return MonthReport{
		Month:      month,
		Summary:    summary,
		Sections:   SectionBreakdown(txs, month),
		Categories: cats,
		Pace:       pace,
		Alerts:     EvaluateGuardrails(pace, cats, settings),
	}
}
