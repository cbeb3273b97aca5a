package contribution

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/idempotency"
)

type Handler struct {
	svc *contribution.Service
}

func NewHandler(svc *contribution.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/payroll", h.recordPayroll)
	r.Post("/pos", h.recordPOS)
	r.Get("/unapplied", h.listUnapplied)
	r.Get("/summary", h.summary)
}

type recordContributionRequest struct {
	Amount         string `json:"amount"`
	ActorID        string `json:"actor_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Payload        any    `json:"payload"`
}

func (h *Handler) recordPayroll(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.svc.RecordPayroll)
}

func (h *Handler) recordPOS(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.svc.RecordPOS)
}

type recordFunc func(ctx context.Context, params contribution.RecordParams) error

func (h *Handler) record(w http.ResponseWriter, r *http.Request, rec recordFunc) {
	var req recordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	err = rec(r.Context(), contribution.RecordParams{
		OrgID:          chi.URLParam(r, "orgID"),
		Amount:         amount,
		ActorID:        req.ActorID,
		IdempotencyKey: req.IdempotencyKey,
		Payload:        req.Payload,
	})
	if err != nil {
		writeRecordError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func writeRecordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contribution.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, idempotency.ErrMissingKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, idempotency.ErrPayloadMismatch):
		http.Error(w, "idempotency key reused with a different payload", http.StatusConflict)
	case errors.Is(err, idempotency.ErrReplay):
		http.Error(w, "duplicate request ignored", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) listUnapplied(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListUnapplied(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summaryResponse{
		WithholdingSecured: sum.WithholdingSecured.String(),
		ConsumptionSecured: sum.ConsumptionSecured.String(),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
