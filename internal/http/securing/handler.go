package securing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lodgeguard/lodgeguard/internal/banking"
	"github.com/lodgeguard/lodgeguard/internal/securing"
)

type Handler struct {
	svc *securing.Service
}

func NewHandler(svc *securing.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/run", h.run)
}

type runResponse struct {
	BatchesApplied       int    `json:"batches_applied"`
	ContributionsApplied int    `json:"contributions_applied"`
	WithholdingSecured   string `json:"withholding_secured"`
	ConsumptionSecured   string `json:"consumption_secured"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Run(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		if banking.Retryable(err) {
			http.Error(w, "banking partner unavailable, retry later", http.StatusServiceUnavailable)
			return
		}

		if errors.Is(err, banking.ErrPartnerRejected) || errors.Is(err, banking.ErrAmountMismatch) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(runResponse{
		BatchesApplied:       result.BatchesApplied,
		ContributionsApplied: result.ContributionsApplied,
		WithholdingSecured:   result.WithholdingSecured.String(),
		ConsumptionSecured:   result.ConsumptionSecured.String(),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
