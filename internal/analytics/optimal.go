package analytics

import (
	"math"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// Urgency thresholds relative to the reorder point.
const (
	urgentFraction   = 0.5
	criticalFraction = 0.25
)

// forecastBufferFactor pads the near-term forecasted draw-down by 20%.
const forecastBufferFactor = 1.2

// OptimalOrderQty computes the recommended, forecast-adjusted and
// capacity-capped order quantity for one product. Only the first 7
// forecast points contribute to the near-term demand estimate.
func OptimalOrderQty(forecast []domain.ForecastPoint, currentStock, reorderPoint, maxStock float64) domain.OptimalOrder {
	recommended := math.Max(0, reorderPoint-currentStock)

	var demand7d float64
	for i, point := range forecast {
		if i >= 7 {
			break
		}
		demand7d += point.Predicted
	}

	adjusted := math.Max(recommended, demand7d*forecastBufferFactor)

	// Never exceed capacity, never go negative.
	final := math.Max(0, math.Min(adjusted, maxStock-currentStock))

	return domain.OptimalOrder{
		Recommended: recommended,
		Adjusted:    adjusted,
		Final:       final,
		Urgent:      currentStock < reorderPoint*urgentFraction,
		Critical:    currentStock < reorderPoint*criticalFraction,
	}
}
