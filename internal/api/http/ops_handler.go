package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
	"fleetrental-backend/internal/service"
)

// OpsHandler exposes the manual entry points of the billing and analytics
// engines. The routes are the on-demand counterpart of the scheduled jobs and
// run the exact same service code. Authentication and scope resolution happen
// upstream; the handler only translates the optional company_id query
// parameter into a Scope.
type OpsHandler struct {
	billing   service.BillingService
	analytics service.AnalyticsService
}

func NewOpsHandler(billing service.BillingService, analytics service.AnalyticsService) *OpsHandler {
	return &OpsHandler{billing: billing, analytics: analytics}
}

// RunBilling triggers a billing cycle and returns the same stats shape the
// scheduled run produces. A non-zero failed count means the ledger holds
// FAILED entries for this run.
func (h *OpsHandler) RunBilling(w http.ResponseWriter, r *http.Request) {
	stats, err := h.billing.RunBillingCycle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *OpsHandler) BillingStats(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.billing.TodayStats(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *OpsHandler) DriversInDebt(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	debtors, err := h.billing.DriversInDebt(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	if debtors == nil {
		debtors = []domain.DebtorRecord{}
	}
	writeJSON(w, http.StatusOK, debtors)
}

// RunAnalytics recomputes daily metrics for a given date (default yesterday).
func (h *OpsHandler) RunAnalytics(w http.ResponseWriter, r *http.Request) {
	day := time.Now().AddDate(0, 0, -1)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, domain.Validationf("invalid date %q, want YYYY-MM-DD", raw))
			return
		}
		day = parsed
	}

	processed, err := h.analytics.RecalculateDaily(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":                day.Format("2006-01-02"),
		"companies_processed": processed,
	})
}

func (h *OpsHandler) CleanupAnalytics(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.analytics.CleanupExpired(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows_deleted": deleted})
}

func scopeFromQuery(r *http.Request) (domain.Scope, error) {
	raw := r.URL.Query().Get("company_id")
	if raw == "" {
		return domain.ScopeAll(), nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return domain.Scope{}, domain.Validationf("invalid company_id %q", raw)
	}
	return domain.ScopeCompany(int32(id)), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientDeposit):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
