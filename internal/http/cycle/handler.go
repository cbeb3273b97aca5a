package cycle

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lodgeguard/lodgeguard/internal/cycle"
)

const defaultListLimit = 12

type Handler struct {
	svc *cycle.Service
}

func NewHandler(svc *cycle.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/orchestrate", h.orchestrate)
	r.Get("/", h.list)
}

type orchestrateResponse struct {
	OrgID           string `json:"org_id"`
	CyclesEvaluated int    `json:"cycles_evaluated"`
	Ready           int    `json:"ready"`
	Blocked         int    `json:"blocked"`
}

func (h *Handler) orchestrate(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Orchestrate(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		if errors.Is(err, cycle.ErrLocked) {
			http.Error(w, "orchestration already running for this org", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(orchestrateResponse{
		OrgID:           summary.OrgID,
		CyclesEvaluated: summary.CyclesEvaluated,
		Ready:           summary.Ready,
		Blocked:         summary.Blocked,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	cycles, err := h.svc.ListRecent(r.Context(), chi.URLParam(r, "orgID"), limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(cycles)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
