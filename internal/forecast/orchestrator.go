// internal/forecast/orchestrator.go
package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockcast-app/stockcast/internal/analytics"
	"github.com/stockcast-app/stockcast/internal/domain"
)

// Orchestrator merges seasonality detection with the black-box
// prediction call and post-processes the result into a chart-ready
// series. The analytics core consumes its output as an
// already-materialized sequence.
type Orchestrator struct {
	predictor Predictor
	fallback  Predictor
	detector  *analytics.SeasonalityDetector
}

// NewOrchestrator wires a primary predictor with a fallback. A nil
// primary means the fallback serves every request.
func NewOrchestrator(primary Predictor) *Orchestrator {
	return &Orchestrator{
		predictor: primary,
		fallback:  NewNaivePredictor(),
		detector:  analytics.NewSeasonalityDetector(),
	}
}

// Forecast runs the full pipeline: defensive sort, seasonality
// detection, prediction (with fallback on failure), seasonal scaling
// and bound repair.
func (o *Orchestrator) Forecast(ctx context.Context, series []domain.TimePoint, horizonDays int) (*domain.ForecastResponse, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	sorted := make([]domain.TimePoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	seasonality := o.detector.Detect(sorted)

	req := Request{Series: sorted, HorizonDays: horizonDays, Seasonality: seasonality}

	points, source, err := o.predict(ctx, req)
	if err != nil {
		return nil, err
	}

	points = analytics.ApplySeasonality(points, seasonality)
	points = sanitize(points, horizonDays)

	return &domain.ForecastResponse{
		Points:      points,
		Seasonality: seasonality,
		Source:      source,
		GeneratedAt: time.Now(),
	}, nil
}

func (o *Orchestrator) predict(ctx context.Context, req Request) ([]domain.ForecastPoint, string, error) {
	if o.predictor != nil {
		points, err := o.predictor.Predict(ctx, req)
		if err == nil {
			return points, o.predictor.Name(), nil
		}
		log.Warn().Err(err).Str("predictor", o.predictor.Name()).Msg("forecast: primary predictor failed, falling back")
	}

	points, err := o.fallback.Predict(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("fallback predictor failed: %w", err)
	}
	return points, o.fallback.Name(), nil
}

// sanitize trims the series to the horizon, clamps negatives and
// restores upper >= predicted >= lower on every point.
func sanitize(points []domain.ForecastPoint, horizon int) []domain.ForecastPoint {
	if len(points) > horizon {
		points = points[:horizon]
	}
	for i := range points {
		if points[i].Predicted < 0 {
			points[i].Predicted = 0
		}
		if points[i].LowerBound < 0 {
			points[i].LowerBound = 0
		}
		if points[i].LowerBound > points[i].Predicted {
			points[i].LowerBound = points[i].Predicted
		}
		if points[i].UpperBound < points[i].Predicted {
			points[i].UpperBound = points[i].Predicted
		}
	}
	return points
}
