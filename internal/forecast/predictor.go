// internal/forecast/predictor.go
package forecast

import (
	"context"
	"math"
	"time"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// DefaultHorizonDays is the documented default forecast length.
const DefaultHorizonDays = 30

// Request carries everything a predictor needs: the aggregated daily
// series, the horizon and any detected seasonality hints.
type Request struct {
	Series      []domain.TimePoint
	HorizonDays int
	Seasonality domain.SeasonalityResult
}

// Predictor produces a raw forecast curve from a historical series. The
// LLM-backed implementation is a black box behind this interface; the
// orchestrator owns all post-processing.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, req Request) ([]domain.ForecastPoint, error)
}

// NaivePredictor is the deterministic fallback: a moving-average level
// with symmetric 95% bounds. It keeps the system usable without an LLM
// key and backs the orchestrator when the external call fails.
type NaivePredictor struct {
	Window int
}

func NewNaivePredictor() *NaivePredictor {
	return &NaivePredictor{Window: 30}
}

func (p *NaivePredictor) Name() string { return "naive" }

func (p *NaivePredictor) Predict(ctx context.Context, req Request) ([]domain.ForecastPoint, error) {
	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}

	window := p.Window
	if window <= 0 {
		window = 30
	}

	values := make([]float64, 0, window)
	for i := len(req.Series) - 1; i >= 0 && len(values) < window; i-- {
		values = append(values, req.Series[i].Value)
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	if len(values) > 0 {
		mean /= float64(len(values))
	}

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	if len(values) > 0 {
		variance /= float64(len(values))
	}
	spread := 1.96 * math.Sqrt(variance)

	start := time.Now()
	if len(req.Series) > 0 {
		start = req.Series[len(req.Series)-1].Date
	}

	points := make([]domain.ForecastPoint, horizon)
	for i := range points {
		points[i] = domain.ForecastPoint{
			Date:       start.AddDate(0, 0, i+1).Format("2006-01-02"),
			Predicted:  mean,
			UpperBound: mean + spread,
			LowerBound: math.Max(0, mean-spread),
		}
	}
	return points, nil
}
