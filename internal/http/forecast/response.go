package forecast

import (
	"github.com/lodgeguard/lodgeguard/internal/forecast"
	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type intervalResponse struct {
	Lower             string `json:"lower"`
	Upper             string `json:"upper"`
	StandardDeviation string `json:"standard_deviation"`
	SampleSize        int    `json:"sample_size"`
}

type forecastResponse struct {
	WithholdingForecast string           `json:"withholding_forecast"`
	ConsumptionForecast string           `json:"consumption_forecast"`
	BaselineCycles      int              `json:"baseline_cycles"`
	WithholdingDelta    string           `json:"withholding_delta"`
	ConsumptionDelta    string           `json:"consumption_delta"`
	WithholdingInterval intervalResponse `json:"withholding_interval"`
	ConsumptionInterval intervalResponse `json:"consumption_interval"`
}

type tierResponse struct {
	Type     ledger.AccountType  `json:"type"`
	Tier     forecast.TierStatus `json:"tier"`
	Balance  string              `json:"balance"`
	Forecast string              `json:"forecast"`
	Margin   string              `json:"margin"`
}

func toIntervalResponse(ci forecast.ConfidenceInterval) intervalResponse {
	return intervalResponse{
		Lower:             ci.Lower.String(),
		Upper:             ci.Upper.String(),
		StandardDeviation: ci.StandardDeviation.String(),
		SampleSize:        ci.SampleSize,
	}
}

func toResponse(result *forecast.Result) forecastResponse {
	return forecastResponse{
		WithholdingForecast: result.WithholdingForecast.String(),
		ConsumptionForecast: result.ConsumptionForecast.String(),
		BaselineCycles:      result.BaselineCycles,
		WithholdingDelta:    result.Trend.WithholdingDelta.String(),
		ConsumptionDelta:    result.Trend.ConsumptionDelta.String(),
		WithholdingInterval: toIntervalResponse(result.Intervals.Withholding),
		ConsumptionInterval: toIntervalResponse(result.Intervals.Consumption),
	}
}
