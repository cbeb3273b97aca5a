package coverage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/coverage", h.check)
	r.Get("/{type}/snapshot", h.snapshot)
	r.Post("/{type}/release-lock", h.releaseLock)
}

type coverageRequest struct {
	Type           ledger.AccountType `json:"type"`
	RequiredAmount string             `json:"required_amount"`
	CycleID        string             `json:"cycle_id,omitempty"`
	Description    string             `json:"description,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req coverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	required, err := decimal.NewFromString(req.RequiredAmount)
	if err != nil {
		http.Error(w, "invalid required_amount", http.StatusBadRequest)
		return
	}

	var coverage *ledger.CoverageContext
	if req.CycleID != "" || req.Description != "" {
		coverage = &ledger.CoverageContext{CycleID: req.CycleID, Description: req.Description}
	}

	account, err := h.svc.EnsureCoverage(r.Context(), chi.URLParam(r, "orgID"), req.Type, required, coverage)
	if err != nil {
		writeCoverageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(coverageResponse{
		Covered:   true,
		AccountID: account.ID.String(),
		Type:      account.Type,
		Balance:   account.Balance.String(),
		Required:  required.String(),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeCoverageError(w http.ResponseWriter, err error) {
	var insufficient *ledger.InsufficientFundsError
	if errors.As(err, &insufficient) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(coverageResponse{
			Covered:   false,
			Type:      insufficient.Type,
			Balance:   insufficient.Balance.String(),
			Required:  insufficient.Required.String(),
			Shortfall: insufficient.Shortfall.String(),
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	switch {
	case errors.Is(err, ledger.ErrUnsupportedType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrAccountNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	typ := ledger.AccountType(chi.URLParam(r, "type"))

	snap, err := h.svc.Snapshot(r.Context(), chi.URLParam(r, "orgID"), typ)
	if err != nil {
		writeCoverageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSnapshotResponse(snap)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) releaseLock(w http.ResponseWriter, r *http.Request) {
	typ := ledger.AccountType(chi.URLParam(r, "type"))

	account, err := h.svc.Account(r.Context(), chi.URLParam(r, "orgID"), typ)
	if err != nil {
		writeCoverageError(w, err)
		return
	}

	if err := h.svc.ReleaseLock(r.Context(), account.ID); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
