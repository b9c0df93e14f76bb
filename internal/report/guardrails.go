package report

import (
	"fmt"
	"sort"

	"budgetboard/internal/core"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one guardrail breach. Alerts are plain descriptive messages; there
// is no suppression, escalation or acknowledgment state.
type Alert struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Category string   `json:"category,omitempty"` // empty for month-wide rules
	Message  string   `json:"message"`
}

// Rule names, one per guardrail.
const (
	RuleEarlyBurn = "early_burn_rate"
	RuleHardCap   = "hard_cap"
	RuleRiskLimit = "risk_limit"
)

// Early burn-rate policy: spending 80% of the budget before the 20th of the
// month trips the alert. Fixed policy, not configurable.
const (
	earlyBurnDay   = 20
	earlyBurnRatio = 0.8
)

// Categories the risk-limit rule watches.
const (
	RiskCategoryTrade = "Trade"
	RiskCategoryBet   = "Bet"
)

// EvaluateGuardrails checks the threshold rules against one month of
// aggregated data. It is a pure function of its inputs: evaluating twice
// yields the same alerts, in a deterministic order (burn rate, hard caps by
// category name, risk limits).
func EvaluateGuardrails(pace Pace, cats []core.CategorySummary, s core.Settings) []Alert {
	var alerts []Alert

	// 1. Early burn rate: strict comparisons on both the day and the ratio.
	if pace.TotalBudget.Cents > 0 &&
		pace.DayOfMonth < earlyBurnDay &&
		pace.SpentToDate.Units() > earlyBurnRatio*pace.TotalBudget.Units() {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Rule:     RuleEarlyBurn,
			Message:  "Overall spending has reached 80% of the monthly budget before the 20th. Slow down now.",
		})
	}

	spent := expenseActualByCategory(cats)

	// 2. Hard caps: one alert per breached category, strict > against the cap.
	capNames := make([]string, 0, len(s.HardCaps))
	for name, cap := range s.HardCaps {
		if cap.Cents > 0 {
			capNames = append(capNames, name)
		}
	}
	sort.Strings(capNames)
	for _, name := range capNames {
		cap := s.HardCaps[name]
		if spent[name].GreaterThan(cap) {
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Rule:     RuleHardCap,
				Category: name,
				Message:  fmt.Sprintf("Category %q exceeded its hard cap of %s. Consider a spending freeze.", name, cap),
			})
		}
	}

	// 3. Risk limits for Trade and Bet; a zero limit disables the rule.
	riskLimits := []struct {
		category string
		limit    core.Money
	}{
		{RiskCategoryTrade, s.MaxLossLimitTrade},
		{RiskCategoryBet, s.MaxLossLimitBet},
	}
	for _, rl := range riskLimits {
		if rl.limit.Cents > 0 && spent[rl.category].GreaterThan(rl.limit) {
			alerts = append(alerts, Alert{
				Severity: SeverityCritical,
				Rule:     RuleRiskLimit,
				Category: rl.category,
				Message:  fmt.Sprintf("%s: loss limit of %s exceeded. Pause activity.", rl.category, rl.limit),
			})
		}
	}

	return alerts
}

func expenseActualByCategory(cats []core.CategorySummary) map[string]core.Money {
	out := make(map[string]core.Money, len(cats))
	for _, c := range cats {
		if c.Type != core.Expense {
			continue
		}
		out[c.Category] = out[c.Category].Add(c.Actual)
	}
	return out
}
