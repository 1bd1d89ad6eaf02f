package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires all inbound routes.
func NewRouter(contracts *ContractHandler, ops *OpsHandler) *mux.Router {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/contracts", contracts.Create).Methods(http.MethodPost)
	v1.HandleFunc("/contracts/{id:[0-9]+}/status", contracts.TransitionStatus).Methods(http.MethodPatch)
	v1.HandleFunc("/contracts/{id:[0-9]+}", contracts.Remove).Methods(http.MethodDelete)

	v1.HandleFunc("/billing/run", ops.RunBilling).Methods(http.MethodPost)
	v1.HandleFunc("/billing/stats", ops.BillingStats).Methods(http.MethodGet)
	v1.HandleFunc("/billing/debtors", ops.DriversInDebt).Methods(http.MethodGet)

	v1.HandleFunc("/analytics/run", ops.RunAnalytics).Methods(http.MethodPost)
	v1.HandleFunc("/analytics/cleanup", ops.CleanupAnalytics).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return r
}
