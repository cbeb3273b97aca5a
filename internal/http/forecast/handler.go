package forecast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/forecast"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type Handler struct {
	forecasts *forecast.Service
	ledger    *ledger.Service
}

func NewHandler(forecasts *forecast.Service, ldg *ledger.Service) *Handler {
	return &Handler{forecasts: forecasts, ledger: ldg}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Get("/tier", h.tier)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	lookback := 0

	if s := r.URL.Query().Get("lookback"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid lookback", http.StatusBadRequest)
			return
		}

		lookback = n
	}

	alpha := decimal.Zero

	if s := r.URL.Query().Get("alpha"); s != "" {
		a, err := decimal.NewFromString(s)
		if err != nil || !a.IsPositive() || a.GreaterThan(decimal.NewFromInt(1)) {
			http.Error(w, "invalid alpha", http.StatusBadRequest)
			return
		}

		alpha = a
	}

	result, err := h.forecasts.Forecast(r.Context(), chi.URLParam(r, "orgID"), lookback, alpha)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// tier classifies how comfortably the designated account for a tax type
// covers its forecast obligation.
func (h *Handler) tier(w http.ResponseWriter, r *http.Request) {
	typ := ledger.AccountType(r.URL.Query().Get("type"))
	if !ledger.ValidType(typ) {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}

	margin := decimal.Zero

	if s := r.URL.Query().Get("margin"); s != "" {
		m, err := decimal.NewFromString(s)
		if err != nil || m.IsNegative() {
			http.Error(w, "invalid margin", http.StatusBadRequest)
			return
		}

		margin = m
	}

	orgID := chi.URLParam(r, "orgID")

	snap, err := h.ledger.Snapshot(r.Context(), orgID, typ)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	result, err := h.forecasts.Forecast(r.Context(), orgID, 0, decimal.Zero)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	projected := result.WithholdingForecast
	if typ == ledger.TypeConsumptionBuffer {
		projected = result.ConsumptionForecast
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tierResponse{
		Type:     typ,
		Tier:     forecast.ComputeTierStatus(snap.Balance, projected, margin),
		Balance:  snap.Balance.String(),
		Forecast: projected.String(),
		Margin:   margin.String(),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
