package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budgetboard/internal/core"
	"budgetboard/internal/normalize"
	"budgetboard/internal/report"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// transactionRequest mirrors one raw dashboard row; every field is free text
// and goes through the same coercion as a CSV import.
type transactionRequest struct {
	Month    string `json:"month"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Budget   string `json:"budget"`
	Actual   string `json:"actual"`
	Section  string `json:"section"`
}

type transactionResponse struct {
	Month    string     `json:"month"`
	Date     string     `json:"date,omitempty"`
	Category string     `json:"category"`
	Type     string     `json:"type"`
	Budget   core.Money `json:"budget"`
	Actual   core.Money `json:"actual"`
	Section  string     `json:"section"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		Month:    tx.Month,
		Category: tx.Category,
		Type:     string(tx.Type),
		Budget:   tx.Budget,
		Actual:   tx.Actual,
		Section:  string(tx.Section),
	}
	if !tx.Date.IsEmpty() {
		resp.Date = tx.Date.Format(dateLayout)
	}
	return resp
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	tx, err := s.svc.RecordTransaction(r.Context(), normalize.RawRow{
		Month:    req.Month,
		Date:     req.Date,
		Category: req.Category,
		Type:     req.Type,
		Budget:   req.Budget,
		Actual:   req.Actual,
		Section:  req.Section,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	replace := r.URL.Query().Get("replace") == "true"
	n, err := s.svc.ImportCSV(r.Context(), r.Body, replace)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := s.svc.ExportCSV(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

type monthReportResponse struct {
	report.MonthReport
	SavingsRate float64 `json:"savings_rate"`
}

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	rep, ok := s.reportCache.Get(month)
	if !ok {
		rep = s.svc.MonthReport(r.Context(), month, time.Now())
		s.reportCache.Set(month, rep)
	}

	writeJSON(w, http.StatusOK, monthReportResponse{
		MonthReport: rep,
		SavingsRate: rep.Summary.SavingsRate(),
	})
}

type monthSummaryResponse struct {
	core.MonthSummary
	SavingsRate float64 `json:"savings_rate"`
}

func (s *Server) handleMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sums := s.svc.MonthlySummaries(r.Context())
	out := make([]monthSummaryResponse, 0, len(sums))
	for _, m := range sums {
		out = append(out, monthSummaryResponse{MonthSummary: m, SavingsRate: m.SavingsRate()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	trends, ok := s.trendsCache.Get("trends")
	if !ok {
		trends = s.svc.Trends(r.Context())
		s.trendsCache.Set("trends", trends)
	}
	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleMonthReportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	doc, err := s.svc.MonthReportPDF(r.Context(), month, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="budget-report.pdf"`)
	_, _ = w.Write(doc)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.svc.Catalog(r.Context()))
	case http.MethodPut:
		if err := s.svc.ReplaceCatalogCSV(r.Context(), r.Body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.invalidateCaches()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	budgets := make(map[string]core.Money, len(req))
	for category, raw := range req {
		amount, err := parseMoney(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("budget for %q: %v", category, err))
			return
		}
		budgets[category] = amount
	}

	s.svc.SetBudgets(r.Context(), budgets)
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

// settingsRequest carries the whole settings form; amounts are free-text and
// parsed with the same rules as transaction amounts.
type settingsRequest struct {
	DefaultMonth           string            `json:"default_month"`
	NearBudgetThresholdPct int               `json:"near_budget_threshold_pct"`
	SavingsGoal            string            `json:"savings_goal"`
	SavingsRateGoalPct     int               `json:"savings_rate_goal_pct"`
	NoSpendGoal            int               `json:"no_spend_goal"`
	Paydays                string            `json:"paydays"`
	MaxLossLimitTrade      string            `json:"max_loss_limit_trade"`
	MaxLossLimitBet        string            `json:"max_loss_limit_bet"`
	HardCaps               map[string]string `json:"hard_caps"`
}

type settingsResponse struct {
	DefaultMonth           string                `json:"default_month"`
	NearBudgetThresholdPct int                   `json:"near_budget_threshold_pct"`
	SavingsGoal            core.Money            `json:"savings_goal"`
	SavingsRateGoalPct     int                   `json:"savings_rate_goal_pct"`
	NoSpendGoal            int                   `json:"no_spend_goal"`
	Paydays                []int                 `json:"paydays"`
	MaxLossLimitTrade      core.Money            `json:"max_loss_limit_trade"`
	MaxLossLimitBet        core.Money            `json:"max_loss_limit_bet"`
	HardCaps               map[string]core.Money `json:"hard_caps"`
}

func toSettingsResponse(s core.Settings) settingsResponse {
	return settingsResponse{
		DefaultMonth:           s.DefaultMonth,
		NearBudgetThresholdPct: s.NearBudgetThresholdPct,
		SavingsGoal:            s.SavingsGoal,
		SavingsRateGoalPct:     s.SavingsRateGoalPct,
		NoSpendGoal:            s.NoSpendGoal,
		Paydays:                s.Paydays,
		MaxLossLimitTrade:      s.MaxLossLimitTrade,
		MaxLossLimitBet:        s.MaxLossLimitBet,
		HardCaps:               s.HardCaps,
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toSettingsResponse(s.svc.Settings(r.Context())))
	case http.MethodPut:
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		next := core.Settings{
			DefaultMonth:           req.DefaultMonth,
			NearBudgetThresholdPct: req.NearBudgetThresholdPct,
			SavingsRateGoalPct:     req.SavingsRateGoalPct,
			NoSpendGoal:            req.NoSpendGoal,
		}

		var err error
		if next.SavingsGoal, err = parseMoney(req.SavingsGoal); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("savings_goal: %v", err))
			return
		}
		if next.MaxLossLimitTrade, err = parseMoney(req.MaxLossLimitTrade); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("max_loss_limit_trade: %v", err))
			return
		}
		if next.MaxLossLimitBet, err = parseMoney(req.MaxLossLimitBet); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("max_loss_limit_bet: %v", err))
			return
		}
		next.HardCaps = make(map[string]core.Money, len(req.HardCaps))
		for category, raw := range req.HardCaps {
			cap, err := parseMoney(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("hard cap for %q: %v", category, err))
				return
			}
			next.HardCaps[category] = cap
		}

		warnings := s.svc.UpdateSettings(r.Context(), next, req.Paydays)
		s.invalidateCaches()
		writeJSON(w, http.StatusOK, map[string]any{
			"warnings": warnings,
			"settings": toSettingsResponse(s.svc.Settings(r.Context())),
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// parseMoney parses a free-text amount; blank means zero.
func parseMoney(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseAmountToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
