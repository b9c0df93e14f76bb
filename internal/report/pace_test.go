package report

import (
	"testing"
	"time"

	"budgetboard/internal/core"
)

func TestPaceMidMonth(t *testing.T) {
	// 30-day month, day 15, budget 300 -> expected 150 exactly
	now := time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)
	p := PaceForMonth("2024-04", core.Money{Cents: 30000}, core.Money{Cents: 10000}, now)

	if p.DaysInMonth != 30 {
		t.Fatalf("expected 30 days, got %d", p.DaysInMonth)
	}
	if p.DayOfMonth != 15 {
		t.Fatalf("expected day 15, got %d", p.DayOfMonth)
	}
	if p.ExpectedToDate != 150 {
		t.Fatalf("expected 150, got %v", p.ExpectedToDate)
	}
}

func TestPaceCalendarArithmetic(t *testing.T) {
	now := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		month string
		days  int
	}{
		{"2024-02", 29}, // leap year
		{"2023-02", 28},
		{"2024-12", 31}, // December rollover
		{"2024-04", 30},
	}
	for _, tc := range cases {
		p := PaceForMonth(tc.month, core.Money{}, core.Money{}, now)
		if p.DaysInMonth != tc.days {
			t.Fatalf("%s: expected %d days, got %d", tc.month, tc.days, p.DaysInMonth)
		}
	}
}

func TestPaceClamping(t *testing.T) {
	budget := core.Money{Cents: 30000}

	// A month entirely in the past pins the expectation at the full budget.
	past := PaceForMonth("2024-01", budget, core.Money{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if past.DayOfMonth != 31 || past.ExpectedToDate != 300 {
		t.Fatalf("past month should clamp to full budget, got %+v", past)
	}

	// A future month clamps to zero.
	future := PaceForMonth("2024-09", budget, core.Money{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if future.DayOfMonth != 0 || future.ExpectedToDate != 0 {
		t.Fatalf("future month should clamp to zero, got %+v", future)
	}
}

func TestPaceDegenerateMonth(t *testing.T) {
	for _, month := range []string{"", "garbage", "2024", "2024-13", "20xx-01"} {
		p := PaceForMonth(month, core.Money{Cents: 100}, core.Money{Cents: 50}, time.Now())
		if p.DaysInMonth != 0 || p.ExpectedToDate != 0 {
			t.Fatalf("%q: degenerate month should yield zero pace, got %+v", month, p)
		}
	}
}

func TestTotalsForPace(t *testing.T) {
	cats := []core.CategorySummary{
		{Category: "Salary", Type: core.Income, Actual: core.Money{Cents: 200000}},
		{Category: "Rent", Type: core.Expense, Budget: core.Money{Cents: 90000}, Actual: core.Money{Cents: 80000}},
		{Category: "Clothing", Type: core.Expense, Budget: core.Money{Cents: 10000}, Actual: core.Money{Cents: 5000}},
	}
	budget, spent := TotalsForPace(cats)
	if budget.Cents != 100000 || spent.Cents != 85000 {
		t.Fatalf("expected 100000/85000, got %d/%d", budget.Cents, spent.Cents)
	}
}
