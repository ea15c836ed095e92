package analytics

import (
	"math"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// Defaults applied when a product omits the corresponding fields.
const (
	DefaultLeadTimeDays = 7
	DefaultServiceLevel = 0.95
)

// HealthEngine combines the inventory formulas with per-product sales
// aggregation into health metric rows.
type HealthEngine struct {
	LeadTimeDays int
	ServiceLevel float64
}

// NewHealthEngine creates an engine with the documented defaults
// (7-day lead time, 95% service level).
func NewHealthEngine() *HealthEngine {
	return &HealthEngine{
		LeadTimeDays: DefaultLeadTimeDays,
		ServiceLevel: DefaultServiceLevel,
	}
}

// ComputeHealth derives one HealthMetric per product, in product order.
// Daily demand averages over daily-aggregated totals while the standard
// deviation runs over raw per-record quantities; the asymmetry is
// intentional and load-bearing for the resulting safety stock magnitude.
func (e *HealthEngine) ComputeHealth(products []domain.Product, sales []domain.SalesRecord, forecast []domain.ForecastPoint) []domain.HealthMetric {
	metrics := make([]domain.HealthMetric, 0, len(products))

	for _, product := range products {
		matched := matchSales(product, sales)

		metric := domain.HealthMetric{
			ProductID:   product.ID,
			ProductName: product.Name,
		}

		dailyTotals := aggregateDaily(matched)
		var total float64
		for _, v := range dailyTotals {
			total += v
		}
		if len(dailyTotals) > 0 {
			metric.DailyDemand = total / float64(len(dailyTotals))
		}

		metric.DemandStdDev = populationStdDev(matched)

		leadTime := float64(product.LeadTimeDays)
		if leadTime <= 0 {
			leadTime = float64(e.LeadTimeDays)
		}
		serviceLevel := e.ServiceLevel
		if serviceLevel <= 0 {
			serviceLevel = DefaultServiceLevel
		}

		metric.SafetyStock = SafetyStock(metric.DailyDemand, leadTime, serviceLevel, metric.DemandStdDev)
		metric.ReorderPoint = ReorderPoint(metric.DailyDemand, leadTime, metric.SafetyStock)
		metric.StockoutProbability = StockoutProbability(metric.DailyDemand, metric.SafetyStock, metric.DemandStdDev)

		// Inventory value ratios use annualized demand at unit cost.
		cogs := metric.DailyDemand * 365 * product.UnitCost
		avgInventory := product.CurrentStock * product.UnitCost
		metric.TurnoverRate = Turnover(cogs, avgInventory)
		metric.DaysOfInventory = DaysOfInventoryOutstanding(avgInventory, cogs)

		metric.ForecastAccuracy = forecastAccuracy(dailyTotals, forecast)

		metrics = append(metrics, metric)
	}

	return metrics
}

// matchSales filters records belonging to a product. An ID match takes
// priority; records without a product ID fall back to name matching.
func matchSales(product domain.Product, sales []domain.SalesRecord) []domain.SalesRecord {
	var matched []domain.SalesRecord
	for _, rec := range sales {
		if rec.ProductID != "" {
			if rec.ProductID == product.ID {
				matched = append(matched, rec)
			}
			continue
		}
		if rec.ProductName != "" && rec.ProductName == product.Name {
			matched = append(matched, rec)
		}
	}
	return matched
}

// aggregateDaily sums quantities per calendar date.
func aggregateDaily(sales []domain.SalesRecord) map[string]float64 {
	totals := make(map[string]float64)
	for _, rec := range sales {
		totals[rec.Date.Format("2006-01-02")] += rec.Quantity
	}
	return totals
}

// populationStdDev is computed over raw per-record quantities, not the
// daily aggregation.
func populationStdDev(sales []domain.SalesRecord) float64 {
	if len(sales) == 0 {
		return 0
	}
	var mean float64
	for _, rec := range sales {
		mean += rec.Quantity
	}
	mean /= float64(len(sales))

	var variance float64
	for _, rec := range sales {
		diff := rec.Quantity - mean
		variance += diff * diff
	}
	variance /= float64(len(sales))
	return math.Sqrt(variance)
}

// forecastAccuracy is max(0, 1-MAPE) over forecast dates with a nonzero
// actual daily total. Nil when no dates matched.
func forecastAccuracy(actuals map[string]float64, forecast []domain.ForecastPoint) *float64 {
	var sumPctErr float64
	matched := 0
	for _, point := range forecast {
		actual, ok := actuals[point.Date]
		if !ok || actual == 0 {
			continue
		}
		sumPctErr += math.Abs(actual-point.Predicted) / actual
		matched++
	}
	if matched == 0 {
		return nil
	}
	accuracy := math.Max(0, 1-sumPctErr/float64(matched))
	return &accuracy
}
