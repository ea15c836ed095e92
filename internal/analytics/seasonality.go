package analytics

import (
	"sort"
	"time"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// DefaultMinPoints is the minimum series length for seasonality detection.
const DefaultMinPoints = 30

// Autocorrelation thresholds for accepting a pattern. Weekly wins ties.
const (
	weeklyLag        = 7
	monthlyLag       = 30
	weeklyThreshold  = 0.3
	monthlyThreshold = 0.2
)

// SeasonalityDetector finds weekly or monthly periodicity in a demand
// series via normalized autocorrelation.
type SeasonalityDetector struct {
	MinPoints int
}

// NewSeasonalityDetector creates a detector with the default minimum of
// 30 observations.
func NewSeasonalityDetector() *SeasonalityDetector {
	return &SeasonalityDetector{MinPoints: DefaultMinPoints}
}

// Detect computes lag-7 and lag-30 autocorrelation over the series and
// decides on a pattern. Fewer than MinPoints observations yields a soft
// "insufficient data" result, not an error.
func (d *SeasonalityDetector) Detect(series []domain.TimePoint) domain.SeasonalityResult {
	minPoints := d.MinPoints
	if minPoints <= 0 {
		minPoints = DefaultMinPoints
	}

	if len(series) < minPoints {
		return domain.SeasonalityResult{
			Detected: false,
			Pattern:  domain.PatternNone,
			Reason:   "insufficient data for seasonality detection",
		}
	}

	// Input is expected sorted; re-sort defensively.
	sorted := make([]domain.TimePoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}

	weeklyStrength := autocorrelation(values, weeklyLag)
	monthlyStrength := autocorrelation(values, monthlyLag)

	result := domain.SeasonalityResult{Pattern: domain.PatternNone}

	switch {
	case weeklyStrength > weeklyThreshold:
		result.Detected = true
		result.Pattern = domain.PatternWeekly
		result.Strength = weeklyStrength
		d.fillWeeklyProfile(&result, sorted)
	case monthlyStrength > monthlyThreshold:
		result.Detected = true
		result.Pattern = domain.PatternMonthly
		result.Strength = monthlyStrength
	}

	return result
}

// fillWeeklyProfile computes day-of-week averages (0 = Sunday), the peak
// and low days, and the weekend effect relative to weekdays.
func (d *SeasonalityDetector) fillWeeklyProfile(result *domain.SeasonalityResult, series []domain.TimePoint) {
	var sums, counts [7]float64
	for _, p := range series {
		day := int(p.Date.Weekday())
		sums[day] += p.Value
		counts[day]++
	}

	profile := make([]float64, 7)
	for day := 0; day < 7; day++ {
		if counts[day] > 0 {
			profile[day] = sums[day] / counts[day]
		}
	}
	result.DayOfWeekProfile = profile

	peak, low := 0, 0
	for day := 1; day < 7; day++ {
		if profile[day] > profile[peak] {
			peak = day
		}
		if profile[day] < profile[low] {
			low = day
		}
	}
	result.PeakDay = peak
	result.LowDay = low

	avgWeekend := (profile[time.Saturday] + profile[time.Sunday]) / 2
	var weekdaySum float64
	for day := time.Monday; day <= time.Friday; day++ {
		weekdaySum += profile[day]
	}
	avgWeekday := weekdaySum / 5
	if avgWeekday != 0 {
		result.WeekendEffect = (avgWeekend - avgWeekday) / avgWeekday
	}
}

// autocorrelation returns |sum((x[i]-mean)(x[i+lag]-mean))| / sum((x[i]-mean)^2).
// A constant series has zero denominator and yields strength 0.
func autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var num, denom float64
	for i := 0; i < n-lag; i++ {
		num += (values[i] - mean) * (values[i+lag] - mean)
	}
	for _, v := range values {
		denom += (v - mean) * (v - mean)
	}

	if denom == 0 {
		return 0
	}
	r := num / denom
	if r < 0 {
		r = -r
	}
	return r
}

// ApplySeasonality scales each forecast point by its day-of-week factor
// (day average / overall average). The input series is left untouched;
// a missing pattern, a zero overall average or an unparseable date keeps
// the factor at 1.
func ApplySeasonality(forecast []domain.ForecastPoint, seasonality domain.SeasonalityResult) []domain.ForecastPoint {
	out := make([]domain.ForecastPoint, len(forecast))
	copy(out, forecast)

	if !seasonality.Detected || seasonality.Pattern != domain.PatternWeekly || len(seasonality.DayOfWeekProfile) != 7 {
		return out
	}

	var overall float64
	for _, avg := range seasonality.DayOfWeekProfile {
		overall += avg
	}
	overall /= 7
	if overall == 0 {
		return out
	}

	for i := range out {
		date, err := time.Parse("2006-01-02", out[i].Date)
		if err != nil {
			continue
		}
		factor := seasonality.DayOfWeekProfile[int(date.Weekday())] / overall
		out[i].Predicted *= factor
		out[i].UpperBound *= factor
		out[i].LowerBound *= factor
	}
	return out
}
