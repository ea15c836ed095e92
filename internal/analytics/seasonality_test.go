package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// weeklySeries builds days of data where weekends sell far more than weekdays.
func weeklySeries(days int) []domain.TimePoint {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	series := make([]domain.TimePoint, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		value := 100.0
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			value = 300.0
		}
		series = append(series, domain.TimePoint{Date: date, Value: value})
	}
	return series
}

func TestDetectInsufficientData(t *testing.T) {
	d := NewSeasonalityDetector()

	series := weeklySeries(10)
	result := d.Detect(series)

	assert.False(t, result.Detected)
	assert.Equal(t, domain.PatternNone, result.Pattern)
	assert.NotEmpty(t, result.Reason)
}

func TestDetectWeeklyPattern(t *testing.T) {
	d := NewSeasonalityDetector()

	result := d.Detect(weeklySeries(56))

	require.True(t, result.Detected)
	assert.Equal(t, domain.PatternWeekly, result.Pattern)
	assert.Greater(t, result.Strength, 0.3)

	require.Len(t, result.DayOfWeekProfile, 7)
	assert.Equal(t, 300.0, result.DayOfWeekProfile[int(time.Saturday)])
	assert.Equal(t, 100.0, result.DayOfWeekProfile[int(time.Monday)])
	assert.Greater(t, result.WeekendEffect, 0.0)

	peakDay := time.Weekday(result.PeakDay)
	assert.True(t, peakDay == time.Saturday || peakDay == time.Sunday)
}

func TestDetectConstantSeries(t *testing.T) {
	d := NewSeasonalityDetector()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]domain.TimePoint, 60)
	for i := range series {
		series[i] = domain.TimePoint{Date: start.AddDate(0, 0, i), Value: 42}
	}

	result := d.Detect(series)
	assert.False(t, result.Detected)
	assert.Equal(t, domain.PatternNone, result.Pattern)
	assert.Equal(t, 0.0, result.Strength)
}

func TestDetectSortsDefensively(t *testing.T) {
	d := NewSeasonalityDetector()

	series := weeklySeries(56)
	// shuffle deterministically by reversing
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}

	result := d.Detect(series)
	assert.True(t, result.Detected)
	assert.Equal(t, domain.PatternWeekly, result.Pattern)
}

func TestApplySeasonality(t *testing.T) {
	profile := []float64{200, 100, 100, 100, 100, 100, 200} // Sun..Sat
	seasonality := domain.SeasonalityResult{
		Detected:         true,
		Pattern:          domain.PatternWeekly,
		Strength:         0.6,
		DayOfWeekProfile: profile,
	}

	forecast := []domain.ForecastPoint{
		{Date: "2025-01-06", Predicted: 70, UpperBound: 84, LowerBound: 56}, // Monday
		{Date: "2025-01-11", Predicted: 70, UpperBound: 84, LowerBound: 56}, // Saturday
	}

	out := ApplySeasonality(forecast, seasonality)

	overall := (200.0*2 + 100.0*5) / 7
	assert.InDelta(t, 70*100/overall, out[0].Predicted, 1e-9)
	assert.InDelta(t, 70*200/overall, out[1].Predicted, 1e-9)

	// input untouched
	assert.Equal(t, 70.0, forecast[0].Predicted)
	assert.Equal(t, 70.0, forecast[1].Predicted)
}

func TestApplySeasonalityNoPattern(t *testing.T) {
	forecast := []domain.ForecastPoint{{Date: "2025-01-06", Predicted: 70, UpperBound: 84, LowerBound: 56}}
	out := ApplySeasonality(forecast, domain.SeasonalityResult{Detected: false, Pattern: domain.PatternNone})
	assert.Equal(t, forecast, out)
}
