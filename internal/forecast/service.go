package forecast

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/cycle"
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=forecast

// CycleSource supplies the historical cycles that seed the model, newest
// first.
type CycleSource interface {
	ListRecent(ctx context.Context, orgID string, limit int) ([]*cycle.Cycle, error)
}

type Service struct {
	cycles CycleSource
}

func NewService(cycles CycleSource) *Service {
	return &Service{cycles: cycles}
}

// Trend holds per-period obligation deltas fitted over the lookback window.
type Trend struct {
	WithholdingDelta decimal.Decimal
	ConsumptionDelta decimal.Decimal
}

type Intervals struct {
	Withholding ConfidenceInterval
	Consumption ConfidenceInterval
}

type Result struct {
	WithholdingForecast decimal.Decimal
	ConsumptionForecast decimal.Decimal
	BaselineCycles      int
	Trend               Trend
	Intervals           Intervals
}

// Forecast projects the org's next withholding and consumption obligations
// from its most recent cycles. Zero lookback or alpha fall back to defaults.
func (s *Service) Forecast(ctx context.Context, orgID string, lookback int, alpha decimal.Decimal) (*Result, error) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	if !alpha.IsPositive() {
		alpha = DefaultAlpha
	}

	cycles, err := s.cycles.ListRecent(ctx, orgID, lookback)
	if err != nil {
		return nil, fmt.Errorf("loading recent cycles: %w", err)
	}

	if len(cycles) == 0 {
		return &Result{}, nil
	}

	withholding := make([]decimal.Decimal, 0, len(cycles))
	consumption := make([]decimal.Decimal, 0, len(cycles))

	// ListRecent returns newest first; the model weights oldest-first series.
	for i := len(cycles) - 1; i >= 0; i-- {
		withholding = append(withholding, cycles[i].WithholdingRequired)
		consumption = append(consumption, cycles[i].ConsumptionRequired)
	}

	withholdingDetail := AnalyzeSeries(withholding, alpha)
	consumptionDetail := AnalyzeSeries(consumption, alpha)

	return &Result{
		WithholdingForecast: withholdingDetail.Forecast,
		ConsumptionForecast: consumptionDetail.Forecast,
		BaselineCycles:      len(cycles),
		Trend: Trend{
			WithholdingDelta: withholdingDetail.TrendDelta,
			ConsumptionDelta: consumptionDetail.TrendDelta,
		},
		Intervals: Intervals{
			Withholding: withholdingDetail.Confidence,
			Consumption: consumptionDetail.Confidence,
		},
	}, nil
}
