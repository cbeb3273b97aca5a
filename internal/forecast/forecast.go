package forecast

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultAlpha is the EWMA smoothing factor applied when the caller does not
// supply one. DefaultLookback bounds how many recent cycles feed the model.
var DefaultAlpha = decimal.NewFromFloat(0.6)

const DefaultLookback = 6

// ConfidenceInterval is a 95% interval around a forecast, clamped at zero.
type ConfidenceInterval struct {
	Lower             decimal.Decimal
	Upper             decimal.Decimal
	StandardDeviation decimal.Decimal
	SampleSize        int
}

// SeriesDetail is the full analysis of one obligation series.
type SeriesDetail struct {
	Forecast   decimal.Decimal
	TrendDelta decimal.Decimal
	Confidence ConfidenceInterval
}

// AnalyzeSeries forecasts the next value of an oldest-first series using an
// exponentially weighted moving average: the most recent value carries weight
// one and each older value decays by alpha. Also fits a least-squares trend
// and a confidence interval over the same window.
func AnalyzeSeries(values []decimal.Decimal, alpha decimal.Decimal) SeriesDetail {
	if len(values) == 0 {
		return SeriesDetail{}
	}

	weighted := decimal.Zero
	weightSum := decimal.Zero
	weight := decimal.NewFromInt(1)

	for i := len(values) - 1; i >= 0; i-- {
		weighted = weighted.Add(values[i].Mul(weight))
		weightSum = weightSum.Add(weight)
		weight = weight.Mul(alpha)
	}

	forecast := decimal.Zero
	if weightSum.IsPositive() {
		forecast = weighted.Div(weightSum)
	}

	return SeriesDetail{
		Forecast:   forecast,
		TrendDelta: regressionDelta(values),
		Confidence: confidenceInterval(values, forecast),
	}
}

// regressionDelta is the ordinary least-squares slope of (index, value) pairs
// with indices 1..n. Zero when fewer than two points exist.
func regressionDelta(values []decimal.Decimal) decimal.Decimal {
	count := len(values)
	if count <= 1 {
		return decimal.Zero
	}

	two := decimal.NewFromInt(2)
	xMean := decimal.NewFromInt(int64(1 + count)).Div(two)
	yMean := sum(values).Div(decimal.NewFromInt(int64(count)))

	numerator := decimal.Zero
	denominator := decimal.Zero

	for i, value := range values {
		x := decimal.NewFromInt(int64(i + 1))
		dx := x.Sub(xMean)
		numerator = numerator.Add(dx.Mul(value.Sub(yMean)))
		denominator = denominator.Add(dx.Mul(dx))
	}

	if !denominator.IsPositive() {
		return decimal.Zero
	}

	return numerator.Div(denominator)
}

func confidenceInterval(values []decimal.Decimal, forecast decimal.Decimal) ConfidenceInterval {
	count := len(values)
	if count <= 1 {
		clamped := decimal.Max(decimal.Zero, forecast)

		return ConfidenceInterval{
			Lower:      clamped,
			Upper:      clamped,
			SampleSize: count,
		}
	}

	mean := sum(values).Div(decimal.NewFromInt(int64(count)))

	variance := decimal.Zero
	for _, value := range values {
		d := value.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}

	variance = variance.Div(decimal.NewFromInt(int64(count - 1)))

	stddev := math.Sqrt(variance.InexactFloat64())
	margin := decimal.NewFromFloat(1.96 * stddev / math.Sqrt(float64(count)))

	return ConfidenceInterval{
		Lower:             decimal.Max(decimal.Zero, forecast.Sub(margin)),
		Upper:             decimal.Max(decimal.Zero, forecast.Add(margin)),
		StandardDeviation: decimal.NewFromFloat(stddev),
		SampleSize:        count,
	}
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, value := range values {
		total = total.Add(value)
	}

	return total
}

// TierStatus classifies how comfortably a designated account covers its
// forecast obligation.
type TierStatus string

const (
	TierReserve  TierStatus = "reserve"
	TierAutomate TierStatus = "automate"
	TierEscalate TierStatus = "escalate"
)

// ComputeTierStatus compares a balance against the forecast: reserve when the
// balance clears the forecast plus margin, automate when it merely clears the
// forecast, escalate otherwise.
func ComputeTierStatus(balance, forecast, margin decimal.Decimal) TierStatus {
	if balance.GreaterThanOrEqual(forecast.Add(margin)) {
		return TierReserve
	}

	if balance.GreaterThanOrEqual(forecast) {
		return TierAutomate
	}

	return TierEscalate
}
