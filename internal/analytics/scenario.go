package analytics

import (
	"math"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// Severity thresholds on the demand multiplier.
const (
	severityHighMultiplier   = 1.5
	severityMediumMultiplier = 1.2
)

// ScenarioEngine applies parameterized what-if perturbations to a base
// forecast and projects per-product stock impact. The base forecast is
// never mutated; every run returns a fresh sequence.
type ScenarioEngine struct {
	health *HealthEngine
}

// NewScenarioEngine wires the engine with a health engine for the
// per-product daily demand figures the projections need.
func NewScenarioEngine(health *HealthEngine) *ScenarioEngine {
	if health == nil {
		health = NewHealthEngine()
	}
	return &ScenarioEngine{health: health}
}

// Apply runs a scenario against the base forecast. An unknown scenario
// type is a pass-through with zero impact rather than an error, keeping
// what-if callers resilient.
func (e *ScenarioEngine) Apply(base []domain.ForecastPoint, scenario domain.Scenario, products []domain.Product, sales []domain.SalesRecord) domain.ScenarioResult {
	multiplier := paramOr(scenario.Parameters, "multiplier", 1)
	duration := int(paramOr(scenario.Parameters, "duration", float64(len(base))))

	result := domain.ScenarioResult{}

	switch scenario.Type {
	case domain.ScenarioDemandShock:
		result.Forecast = scaleForecast(base, multiplier, duration)
	case domain.ScenarioPromotion:
		result.Forecast = scaleForecast(base, multiplier, duration)
		result.Impacts = e.promotionImpacts(products, sales, multiplier, duration)
	case domain.ScenarioSupplyDisruption:
		// The forecast series itself is untouched; the disruption shows
		// up as per-product stockout exposure.
		result.Forecast = copyForecast(base)
		multiplier = 1
		result.Impacts = e.disruptionImpacts(products, sales, scenario.Parameters)
	default:
		result.Forecast = copyForecast(base)
		multiplier = 1
	}

	result.Summary = summarize(base, multiplier)
	return result
}

// disruptionImpacts projects demand over the delayed lead time against
// current stock.
func (e *ScenarioEngine) disruptionImpacts(products []domain.Product, sales []domain.SalesRecord, params map[string]float64) []domain.StockImpact {
	delayDays := paramOr(params, "delay_days", 0)

	metrics := e.health.ComputeHealth(products, sales, nil)
	impacts := make([]domain.StockImpact, 0, len(products))
	for i, product := range products {
		leadTime := float64(product.LeadTimeDays)
		if leadTime <= 0 {
			leadTime = float64(e.health.LeadTimeDays)
		}
		demand := metrics[i].DailyDemand * (delayDays + leadTime)
		impacts = append(impacts, domain.StockImpact{
			ProductID:              product.ID,
			ProductName:            product.Name,
			DemandDuringDisruption: demand,
			StockoutRisk:           math.Max(0, demand-product.CurrentStock),
		})
	}
	return impacts
}

// promotionImpacts projects stock after the promo draw-down and flags
// reorder needs.
func (e *ScenarioEngine) promotionImpacts(products []domain.Product, sales []domain.SalesRecord, multiplier float64, duration int) []domain.StockImpact {
	metrics := e.health.ComputeHealth(products, sales, nil)
	impacts := make([]domain.StockImpact, 0, len(products))
	for i, product := range products {
		remaining := product.CurrentStock - metrics[i].DailyDemand*multiplier*float64(duration)
		impacts = append(impacts, domain.StockImpact{
			ProductID:       product.ID,
			ProductName:     product.Name,
			StockAfterPromo: remaining,
			NeedsReorder:    remaining < 0,
		})
	}
	return impacts
}

func summarize(base []domain.ForecastPoint, multiplier float64) domain.ScenarioSummary {
	var totalBaseline float64
	for _, point := range base {
		totalBaseline += point.Predicted
	}

	severity := "low"
	switch {
	case multiplier > severityHighMultiplier:
		severity = "high"
	case multiplier > severityMediumMultiplier:
		severity = "medium"
	}

	return domain.ScenarioSummary{
		PercentageChange:  int(math.Round((multiplier - 1) * 100)),
		TotalDemandImpact: math.Round(totalBaseline * (multiplier - 1)),
		Severity:          severity,
	}
}

// scaleForecast multiplies the first duration points; later points stay
// unchanged.
func scaleForecast(base []domain.ForecastPoint, multiplier float64, duration int) []domain.ForecastPoint {
	out := copyForecast(base)
	for i := range out {
		if i >= duration {
			break
		}
		out[i].Predicted *= multiplier
		out[i].UpperBound *= multiplier
		out[i].LowerBound *= multiplier
	}
	return out
}

func copyForecast(base []domain.ForecastPoint) []domain.ForecastPoint {
	out := make([]domain.ForecastPoint, len(base))
	copy(out, base)
	return out
}

func paramOr(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}
