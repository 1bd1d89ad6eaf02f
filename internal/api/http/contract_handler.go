package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/service"
)

// ContractHandler is the thin inbound adapter for the contract lifecycle.
// The caller's scope arrives pre-resolved from the auth layer upstream; here
// it is taken from the company_id query parameter the gateway injects.
type ContractHandler struct {
	contracts service.ContractService
}

func NewContractHandler(contracts service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type createContractDTO struct {
	DriverID  int32           `json:"driver_id"`
	VehicleID int32           `json:"vehicle_id"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Deposit   decimal.Decimal `json:"deposit"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date,omitempty"`
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var dto createContractDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}

	start, err := time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		writeError(w, domain.Validationf("invalid start_date %q, want YYYY-MM-DD", dto.StartDate))
		return
	}
	req := service.CreateContractRequest{
		DriverID:  dto.DriverID,
		VehicleID: dto.VehicleID,
		DailyRate: dto.DailyRate,
		Deposit:   dto.Deposit,
		StartDate: start,
	}
	if dto.EndDate != "" {
		end, err := time.Parse("2006-01-02", dto.EndDate)
		if err != nil {
			writeError(w, domain.Validationf("invalid end_date %q, want YYYY-MM-DD", dto.EndDate))
			return
		}
		req.EndDate = &end
	}

	contract, err := h.contracts.Create(r.Context(), req, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

type transitionDTO struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	EndDate string `json:"end_date,omitempty"`
}

func (h *ContractHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	contractID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var dto transitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}

	req := service.TransitionRequest{
		Status: domain.ContractStatus(dto.Status),
		Reason: dto.Reason,
	}
	if dto.EndDate != "" {
		end, err := time.Parse("2006-01-02", dto.EndDate)
		if err != nil {
			writeError(w, domain.Validationf("invalid end_date %q, want YYYY-MM-DD", dto.EndDate))
			return
		}
		req.EndDate = &end
	}

	contract, err := h.contracts.TransitionStatus(r.Context(), contractID, req, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Remove(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	contractID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.contracts.Remove(r.Context(), contractID, scope); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return int32(id), nil
}
