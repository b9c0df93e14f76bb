package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/phpdave11/gofpdf"

	"budgetboard/internal/core"
	"budgetboard/internal/report"
)

const maxOverspendRecommendations = 5

// BuildMonthlyReport renders the month report as a one-page PDF document.
// Settings feed the recommendations section only.
func BuildMonthlyReport(r report.MonthReport, settings core.Settings) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Budget Board Monthly Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Budget Board")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Report Month: %s", r.Month))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Income: %s   Expenses: %s   Savings: %s   Savings Rate: %.1f%%",
		r.Summary.Income, r.Summary.Expense, r.Summary.Savings, r.Summary.SavingsRate()))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Needs: %s   Wants: %s   Set Aside: %s",
		r.Sections.Needs, r.Sections.Wants, r.Sections.Savings))
	pdf.Ln(10)

	writeCategoryTable(pdf, r.Categories)
	writeAlerts(pdf, r.Alerts)
	writeRecommendations(pdf, r, settings)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCategoryTable(pdf *gofpdf.Fpdf, cats []core.CategorySummary) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Budget vs Actual")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(60, 7, "Category")
	pdf.Cell(25, 7, "Type")
	pdf.Cell(35, 7, "Budget")
	pdf.Cell(35, 7, "Actual")
	pdf.Cell(35, 7, "Variance")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, c := range cats {
		pdf.Cell(60, 7, c.Category)
		pdf.Cell(25, 7, string(c.Type))
		pdf.Cell(35, 7, c.Budget.String())
		pdf.Cell(35, 7, c.Actual.String())
		pdf.Cell(35, 7, c.Variance.String())
		pdf.Ln(7)
	}
	pdf.Ln(4)
}

func writeAlerts(pdf *gofpdf.Fpdf, alerts []report.Alert) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Alerts")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if len(alerts) == 0 {
		pdf.Cell(0, 7, "No active alerts.")
		pdf.Ln(7)
	}
	for _, a := range alerts {
		pdf.MultiCell(0, 7, fmt.Sprintf("[%s] %s", a.Severity, a.Message), "", "L", false)
	}
	pdf.Ln(4)
}

func writeRecommendations(pdf *gofpdf.Fpdf, r report.MonthReport, settings core.Settings) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Recommendations")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	recs := Recommendations(r, settings)
	if len(recs) == 0 {
		pdf.Cell(0, 7, "On track. Keep it up.")
		pdf.Ln(7)
		return
	}
	for _, rec := range recs {
		pdf.MultiCell(0, 7, "- "+rec, "", "L", false)
	}
}

// Recommendations derives plain-language suggestions from the month report:
// the gap to the savings goal, the worst overspent categories, and a nudge to
// review subscriptions when they carry spend.
func Recommendations(r report.MonthReport, settings core.Settings) []string {
	var recs []string

	if settings.SavingsGoal.Cents > 0 && settings.SavingsGoal.GreaterThan(r.Summary.Savings) {
		gap := settings.SavingsGoal.Sub(r.Summary.Savings)
		recs = append(recs, fmt.Sprintf("Savings are %s short of the %s monthly goal.",
			gap, settings.SavingsGoal))
	}

	if settings.SavingsRateGoalPct > 0 && r.Summary.SavingsRate() < float64(settings.SavingsRateGoalPct) {
		recs = append(recs, fmt.Sprintf("Savings rate is %.1f%%, below the %d%% target.",
			r.Summary.SavingsRate(), settings.SavingsRateGoalPct))
	}

	overspent := make([]core.CategorySummary, 0, len(r.Categories))
	for _, c := range r.Categories {
		if c.Type == core.Expense && c.Variance.Cents < 0 {
			overspent = append(overspent, c)
		}
	}
	sort.Slice(overspent, func(i, j int) bool {
		if overspent[i].Variance.Cents != overspent[j].Variance.Cents {
			return overspent[i].Variance.Cents < overspent[j].Variance.Cents
		}
		return overspent[i].Category < overspent[j].Category
	})
	if len(overspent) > maxOverspendRecommendations {
		overspent = overspent[:maxOverspendRecommendations]
	}
	for _, c := range overspent {
		over := core.Money{Cents: -c.Variance.Cents}
		recs = append(recs, fmt.Sprintf("Cut back on %s: %s over budget.", c.Category, over))
	}

	for _, c := range r.Categories {
		if strings.Contains(strings.ToLower(c.Category), "subs") && c.Actual.Cents > 0 {
			recs = append(recs, fmt.Sprintf("Review recurring subscriptions (%s this month).", c.Actual))
			break
		}
	}

	return recs
}
