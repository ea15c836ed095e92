package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast-app/stockcast/internal/domain"
)

type stubPredictor struct {
	name   string
	points []domain.ForecastPoint
	err    error
	called bool
}

func (s *stubPredictor) Name() string { return s.name }

func (s *stubPredictor) Predict(ctx context.Context, req Request) ([]domain.ForecastPoint, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.points, nil
}

func flatSeries(days int, value float64) []domain.TimePoint {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	series := make([]domain.TimePoint, days)
	for i := range series {
		series[i] = domain.TimePoint{Date: start.AddDate(0, 0, i), Value: value}
	}
	return series
}

func TestForecastUsesPrimaryPredictor(t *testing.T) {
	stub := &stubPredictor{
		name: "stub",
		points: []domain.ForecastPoint{
			{Date: "2025-03-15", Predicted: 50, UpperBound: 60, LowerBound: 40},
		},
	}
	orch := NewOrchestrator(stub)

	resp, err := orch.Forecast(context.Background(), flatSeries(40, 100), 1)
	require.NoError(t, err)
	assert.True(t, stub.called)
	assert.Equal(t, "stub", resp.Source)
	require.Len(t, resp.Points, 1)
}

func TestForecastFallsBackOnPredictorError(t *testing.T) {
	stub := &stubPredictor{name: "stub", err: errors.New("quota exhausted")}
	orch := NewOrchestrator(stub)

	resp, err := orch.Forecast(context.Background(), flatSeries(40, 100), 30)
	require.NoError(t, err)
	assert.Equal(t, "naive", resp.Source)
	assert.Len(t, resp.Points, 30)

	// flat history forecasts the level
	assert.InDelta(t, 100.0, resp.Points[0].Predicted, 1e-9)
}

func TestForecastDefaultsHorizon(t *testing.T) {
	orch := NewOrchestrator(nil)

	resp, err := orch.Forecast(context.Background(), flatSeries(40, 100), 0)
	require.NoError(t, err)
	assert.Len(t, resp.Points, DefaultHorizonDays)
}

func TestForecastSanitizesBounds(t *testing.T) {
	stub := &stubPredictor{
		name: "stub",
		points: []domain.ForecastPoint{
			{Date: "2025-03-15", Predicted: -5, UpperBound: -10, LowerBound: -20},
			{Date: "2025-03-16", Predicted: 10, UpperBound: 5, LowerBound: 50},
		},
	}
	orch := NewOrchestrator(stub)

	resp, err := orch.Forecast(context.Background(), flatSeries(40, 100), 2)
	require.NoError(t, err)

	for _, p := range resp.Points {
		assert.GreaterOrEqual(t, p.Predicted, 0.0)
		assert.GreaterOrEqual(t, p.UpperBound, p.Predicted)
		assert.LessOrEqual(t, p.LowerBound, p.Predicted)
		assert.GreaterOrEqual(t, p.LowerBound, 0.0)
	}
}

func TestForecastTrimsToHorizon(t *testing.T) {
	points := make([]domain.ForecastPoint, 45)
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = domain.ForecastPoint{
			Date: start.AddDate(0, 0, i).Format("2006-01-02"), Predicted: 10, UpperBound: 12, LowerBound: 8,
		}
	}
	stub := &stubPredictor{name: "stub", points: points}
	orch := NewOrchestrator(stub)

	resp, err := orch.Forecast(context.Background(), flatSeries(40, 100), 30)
	require.NoError(t, err)
	assert.Len(t, resp.Points, 30)
}

func TestNaivePredictorShortSeries(t *testing.T) {
	p := NewNaivePredictor()

	points, err := p.Predict(context.Background(), Request{Series: flatSeries(5, 20), HorizonDays: 7})
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.InDelta(t, 20.0, points[0].Predicted, 1e-9)

	// dates run consecutively from the day after the last observation
	first, err := time.Parse("2006-01-02", points[0].Date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 6, 0, 0, 0, 0, time.UTC), first)
}

func TestParseForecastJSONWithFences(t *testing.T) {
	text := "```json\n[{\"date\":\"2025-03-15\",\"predicted\":42,\"upper_bound\":50,\"lower_bound\":35}]\n```"
	points, err := parseForecastJSON(text)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 42.0, points[0].Predicted)
}
