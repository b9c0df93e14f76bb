package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgetboard/internal/services"
	"budgetboard/internal/state"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewBudgetService(state.New(), nil, nil, []string{"Groceries"})
	srv := NewServer(":0", svc)
	t.Cleanup(func() {
		srv.rateLimiter.stop()
		close(srv.stopCacheCleanup)
	})
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransactionAndReport(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-01","category":"Groceries","type":"expense","budget":"400","actual":"350"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	var created struct {
		Category string `json:"category"`
		Section  string `json:"section"`
		Actual   struct {
			Cents int64 `json:"cents"`
		} `json:"actual"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Category != "Groceries" || created.Section != "Needs" || created.Actual.Cents != 35000 {
		t.Fatalf("created = %+v, want normalized Groceries/Needs/35000", created)
	}

	rr = do(t, srv, http.MethodGet, "/report/month?month=2024-01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("report status=%d", rr.Code)
	}
	var rep struct {
		Month      string `json:"month"`
		Categories []struct {
			Category string `json:"category"`
			Variance struct {
				Cents int64 `json:"cents"`
			} `json:"variance"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Month != "2024-01" || len(rep.Categories) != 1 || rep.Categories[0].Variance.Cents != 5000 {
		t.Fatalf("report = %+v, want one category with variance 5000", rep)
	}
}

func TestReportCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-01","category":"Rent","type":"Expense","actual":"900"}`)
	do(t, srv, http.MethodGet, "/report/month?month=2024-01", "")

	// A new transaction must show up despite the cached first response.
	do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-01","category":"Groceries","type":"Expense","actual":"100"}`)

	rr := do(t, srv, http.MethodGet, "/report/month?month=2024-01", "")
	var rep struct {
		Categories []json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(rep.Categories) != 2 {
		t.Fatalf("categories = %d, want 2 after cache invalidation", len(rep.Categories))
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	csv := "Month,Category,Type,Budget,Actual\n2024-01,Groceries,Expense,400,350\n2024-01,Salary,Income,0,2000\n"
	rr := do(t, srv, http.MethodPost, "/transactions/import?replace=true", csv)
	if rr.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"imported":2`) {
		t.Fatalf("import body = %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/export.csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("export content type = %q", got)
	}
	if !strings.Contains(rr.Body.String(), "2024-01,,Salary,Income") {
		t.Errorf("export body missing salary row:\n%s", rr.Body.String())
	}
}

func TestCatalogReplaceRejectsMissingColumn(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/catalog", "Category,Type\nGroceries,Expense\n")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("catalog put status=%d, want 400", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/catalog", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("catalog get status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Groceries") {
		t.Error("default catalog should survive a failed replace")
	}
}

func TestBudgetsValidation(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/budgets", `{"Groceries":"banana"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("budgets status=%d, want 400", rr.Code)
	}

	rr = do(t, srv, http.MethodPut, "/budgets", `{"Groceries":"400"}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("budgets status=%d, want 204", rr.Code)
	}
}

func TestSettingsUpdateWarnings(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/settings",
		`{"default_month":"2024-01","savings_goal":"300","paydays":"1,banana"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("settings status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "invalid paydays") {
		t.Errorf("expected payday warning, got %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/settings", "")
	if !strings.Contains(rr.Body.String(), `"default_month":"2024-01"`) {
		t.Errorf("settings not applied: %s", rr.Body.String())
	}
}

func TestTrendsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-01","category":"Groceries","type":"Expense","actual":"100"}`)
	do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-02","category":"Groceries","type":"Expense","actual":"200"}`)

	rr := do(t, srv, http.MethodGet, "/report/trends", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("trends status=%d", rr.Code)
	}
	var trends map[string][]struct {
		Month   string  `json:"month"`
		Rolling float64 `json:"rolling"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &trends); err != nil {
		t.Fatalf("decode trends: %v", err)
	}
	series := trends["Groceries"]
	if len(series) != 2 || series[1].Rolling != 150 {
		t.Fatalf("trends = %+v, want two points ending at 150", trends)
	}
}

func TestPDFEndpoint(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/transactions",
		`{"month":"2024-01","category":"Groceries","type":"Expense","budget":"400","actual":"350"}`)

	rr := do(t, srv, http.MethodGet, "/report/pdf?month=2024-01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("pdf status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("pdf content type = %q", got)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Error("pdf body should start with %PDF")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodDelete, "/transactions", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", rr.Code)
	}
}
