package core

// MonthSummary is the per-month rollup of actual amounts.
type MonthSummary struct {
	Month   string `json:"month"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Savings Money  `json:"savings"` // Income - Expense, may be negative
}

// SavingsRate returns savings as a percentage of income. Months without income
// report exactly 0 rather than dividing by zero.
func (m MonthSummary) SavingsRate() float64 {
	if m.Income.Cents <= 0 {
		return 0
	}
	return m.Savings.Units() / m.Income.Units() * 100
}

// CategorySummary is the per-category budget-vs-actual rollup for one month.
type CategorySummary struct {
	Category string  `json:"category"`
	Type     TxType  `json:"type"`
	Section  Section `json:"section"`
	Budget   Money   `json:"budget"`
	Actual   Money   `json:"actual"`
	Variance Money   `json:"variance"` // Budget - Actual; negative means overspent
}

// SectionTotals is the 50/30/20 view of a single month: expense actuals split
// by section, with savings defined as whatever income is left (never negative
// in this view, matching the dashboard presentation).
type SectionTotals struct {
	Month   string `json:"month"`
	Income  Money  `json:"income"`
	Needs   Money  `json:"needs"`
	Wants   Money  `json:"wants"`
	Savings Money  `json:"savings"`
}
