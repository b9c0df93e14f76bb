package report

import (
	"strconv"
	"strings"
	"time"

	"budgetboard/internal/core"
)

// Pace compares actual cumulative spend against a linearly interpolated
// expected spend for the month under analysis. Flat daily spend is the
// implicit model; this is a smoothing aid, not a forecast.
type Pace struct {
	Month          string     `json:"month"`
	DaysInMonth    int        `json:"days_in_month"`
	DayOfMonth     int        `json:"day_of_month"` // elapsed days clamped to [0, DaysInMonth]
	TotalBudget    core.Money `json:"total_budget"`
	SpentToDate    core.Money `json:"spent_to_date"`
	ExpectedToDate float64    `json:"expected_to_date"` // TotalBudget * DayOfMonth / DaysInMonth, in units
}

// PaceForMonth computes the pacing snapshot for a month. Day counts come from
// calendar arithmetic, so leap years and the December rollover are exact. The
// day-of-month is clamped to [0, daysInMonth]: analyzing a past month pins the
// expectation at the full budget, a future month at zero. A month key that is
// not a real month degenerates to a zero pace instead of failing.
func PaceForMonth(month string, totalBudget, spentToDate core.Money, now time.Time) Pace {
	p := Pace{Month: month, TotalBudget: totalBudget, SpentToDate: spentToDate}

	year, mon, ok := splitMonthKey(month)
	if !ok {
		return p
	}

	start := time.Date(year, time.Month(mon), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	p.DaysInMonth = int(end.Sub(start).Hours() / 24)

	day := int(now.UTC().Sub(start).Hours()/24) + 1
	if day > p.DaysInMonth {
		day = p.DaysInMonth
	}
	if day < 0 {
		day = 0
	}
	p.DayOfMonth = day

	if p.DaysInMonth == 0 {
		// Unreachable with calendar arithmetic, but the degenerate case is
		// defined as zero rather than a division by zero.
		return p
	}
	p.ExpectedToDate = totalBudget.Units() * float64(p.DayOfMonth) / float64(p.DaysInMonth)
	return p
}

// TotalsForPace sums the budget and actual of expense-type category summaries,
// the two inputs the pace tracker and the burn-rate guardrail share.
func TotalsForPace(cats []core.CategorySummary) (totalBudget, spentToDate core.Money) {
	for _, c := range cats {
		if c.Type != core.Expense {
			continue
		}
		totalBudget = totalBudget.Add(c.Budget)
		spentToDate = spentToDate.Add(c.Actual)
	}
	return totalBudget, spentToDate
}

func splitMonthKey(month string) (year, mon int, ok bool) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	mon, err = strconv.Atoi(parts[1])
	if err != nil || mon < 1 || mon > 12 {
		return 0, 0, false
	}
	return year, mon, true
}
