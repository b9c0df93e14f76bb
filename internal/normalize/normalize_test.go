package normalize

import (
	"reflect"
	"testing"

	"budgetboard/internal/core"
)

func testCatalog() core.Catalog {
	return core.NewCatalog([]core.CatalogEntry{
		{Category: "Salary", Type: core.Income, Section: core.Savings},
		{Category: "Rent", Type: core.Expense, Section: core.Needs},
		{Category: "Clothing", Type: core.Expense, Section: core.Wants},
	})
}

func TestNormalizeCoercion(t *testing.T) {
	rows := []RawRow{
		{Month: "2024-01-15", Date: "2024-01-15", Category: "Rent", Type: "expense", Budget: "900", Actual: "800.50"},
		{Month: "", Date: "not-a-date", Category: "Salary", Type: "INCOME", Budget: "n/a", Actual: "2000"},
		{Month: "2024-02", Category: "Mystery", Type: "transfer", Actual: "10", Section: "Wants"},
	}

	got := Normalize(rows, testCatalog(), "2024-03")

	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}

	rent := got[0]
	if rent.Month != "2024-01" {
		t.Fatalf("month should be truncated to YYYY-MM, got %q", rent.Month)
	}
	if rent.Type != core.Expense {
		t.Fatalf("expected title-cased Expense, got %q", rent.Type)
	}
	if rent.Budget.Cents != 90000 || rent.Actual.Cents != 80050 {
		t.Fatalf("unexpected amounts: budget=%d actual=%d", rent.Budget.Cents, rent.Actual.Cents)
	}
	if rent.Section != core.Needs {
		t.Fatalf("section should come from catalog, got %q", rent.Section)
	}
	if rent.Date.IsEmpty() {
		t.Fatal("valid date should be parsed")
	}

	salary := got[1]
	if salary.Month != "2024-03" {
		t.Fatalf("blank month should default, got %q", salary.Month)
	}
	if !salary.Date.IsEmpty() {
		t.Fatal("unparseable date should become the zero date")
	}
	if salary.Budget.Cents != 0 {
		t.Fatalf("non-numeric budget should coerce to 0, got %d", salary.Budget.Cents)
	}
	if salary.Type != core.Income {
		t.Fatalf("expected Income, got %q", salary.Type)
	}

	mystery := got[2]
	if mystery.Type != "Transfer" {
		t.Fatalf("unrecognized types pass through title-cased, got %q", mystery.Type)
	}
	if mystery.Section != core.Wants {
		t.Fatalf("unknown category should keep the row's section, got %q", mystery.Section)
	}
}

func TestNormalizeNeverFails(t *testing.T) {
	rows := []RawRow{{}, {Month: "x", Date: "y", Budget: "z", Actual: "w", Type: "?"}}
	got := Normalize(rows, core.Catalog{}, "2024-01")
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].Month != "2024-01" || got[0].Actual.Cents != 0 {
		t.Fatalf("empty row should land on defaults: %+v", got[0])
	}
}

func TestRenormalizeIdempotent(t *testing.T) {
	rows := []RawRow{
		{Month: "2024-01", Category: "Rent", Type: "Expense", Budget: "900", Actual: "800"},
		{Month: "2024-01", Category: "Salary", Type: "Income", Actual: "2000"},
		{Month: "2024-02", Category: "Mystery", Type: "Other", Actual: "5", Section: "Wants"},
	}
	cat := testCatalog()

	once := Normalize(rows, cat, "2024-01")
	twice := Renormalize(once, cat, "2024-01")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("renormalization should be a no-op:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestRenormalizeRecomputesSection(t *testing.T) {
	cat := testCatalog()
	txs := Normalize([]RawRow{{Month: "2024-01", Category: "Clothing", Type: "Expense", Actual: "50"}}, cat, "2024-01")
	if txs[0].Section != core.Wants {
		t.Fatalf("expected Wants, got %q", txs[0].Section)
	}

	// Catalog change moves Clothing to Needs; the stored section must not win.
	moved := core.NewCatalog([]core.CatalogEntry{
		{Category: "Clothing", Type: core.Expense, Section: core.Needs},
	})
	got := Renormalize(txs, moved, "2024-01")
	if got[0].Section != core.Needs {
		t.Fatalf("section should track the current catalog, got %q", got[0].Section)
	}
}
