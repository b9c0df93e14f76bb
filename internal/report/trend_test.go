package report

import (
	"math"
	"testing"

	"budgetboard/internal/core"
)

func TestRollingAveragesWindow(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01", "Restaurant", core.Expense, core.Wants, 0, 10000), // 100
		tx("2024-02", "Restaurant", core.Expense, core.Wants, 0, 20000), // 200
		tx("2024-03", "Restaurant", core.Expense, core.Wants, 0, 30000), // 300
		tx("2024-04", "Restaurant", core.Expense, core.Wants, 0, 60000), // 600
	}

	series := RollingAverages(txs, []string{"Restaurant"})
	points := series["Restaurant"]
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}

	// min-periods-1 semantics: 1, 2, then full windows of 3
	want := []float64{100, 150, 200, (200 + 300 + 600) / 3.0}
	for i, p := range points {
		if math.Abs(p.Rolling-want[i]) > 1e-9 {
			t.Fatalf("point %d (%s): expected %v, got %v", i, p.Month, want[i], p.Rolling)
		}
	}
	if points[0].Month != "2024-01" || points[3].Month != "2024-04" {
		t.Fatalf("points not chronological: %+v", points)
	}
}

func TestRollingAveragesSumsWithinMonth(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01", "Clothing", core.Expense, core.Wants, 0, 5000),
		tx("2024-01", "Clothing", core.Expense, core.Wants, 0, 7000),
	}
	points := RollingAverages(txs, []string{"Clothing"})["Clothing"]
	if len(points) != 1 || points[0].Actual.Cents != 12000 || points[0].Rolling != 120 {
		t.Fatalf("expected single summed point, got %+v", points)
	}
}

func TestRollingAveragesIgnoresUntrackedAndIncome(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01", "Salary", core.Income, core.Savings, 0, 100000),
		tx("2024-01", "Transport", core.Expense, core.Needs, 0, 3000),
	}
	series := RollingAverages(txs, []string{"Salary", "Clothing"})
	if len(series) != 0 {
		t.Fatalf("expected no series, got %v", series)
	}
}
