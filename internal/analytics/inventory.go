package analytics

import "math"

// Service-level z-scores for safety stock. Unrecognized levels fall back
// to the 95% value.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.99: 2.33,
}

const defaultZScore = 1.65

// EOQ returns the economic order quantity sqrt(2*D*S/H). The second
// return value is false when any input is zero or negative, in which
// case the quantity is not defined.
func EOQ(annualDemand, orderingCost, holdingCost float64) (float64, bool) {
	if annualDemand <= 0 || orderingCost <= 0 || holdingCost <= 0 {
		return 0, false
	}
	return math.Sqrt(2 * annualDemand * orderingCost / holdingCost), true
}

// ReorderPoint is the stock level at which a new order should be placed.
func ReorderPoint(avgDailyDemand, leadTimeDays, safetyStock float64) float64 {
	return avgDailyDemand*leadTimeDays + safetyStock
}

// SafetyStock buffers against demand variability over the lead time:
// z(serviceLevel) * stddev * sqrt(leadTime).
func SafetyStock(avgDailyDemand, leadTimeDays, serviceLevel, demandStdDev float64) float64 {
	z, ok := zScores[serviceLevel]
	if !ok {
		z = defaultZScore
	}
	return z * demandStdDev * math.Sqrt(leadTimeDays)
}

// Turnover is COGS divided by average inventory value, 0 when there is
// no inventory.
func Turnover(cogs, avgInventory float64) float64 {
	if avgInventory == 0 {
		return 0
	}
	return cogs / avgInventory
}

// DaysOfInventoryOutstanding converts inventory value into days of cover
// over a 365-day year, 0 when COGS is 0.
func DaysOfInventoryOutstanding(avgInventory, cogs float64) float64 {
	if cogs == 0 {
		return 0
	}
	return avgInventory / cogs * 365
}

// FillRate is unitsShipped / unitsOrdered. No orders means a perfect
// fill, so 0/0 returns 1 by convention.
func FillRate(unitsShipped, unitsOrdered float64) float64 {
	if unitsOrdered == 0 {
		return 1
	}
	return unitsShipped / unitsOrdered
}

// StockoutProbability estimates P(demand exceeds safety stock during a
// cycle) with the closed-form normal tail approximation
// p = exp(-0.717z - 0.416z^2), clamped to [0,1]. Zero variability means
// zero stockout probability.
func StockoutProbability(avgDemand, safetyStock, demandStdDev float64) float64 {
	if demandStdDev == 0 {
		return 0
	}
	z := safetyStock / demandStdDev
	p := math.Exp(-0.717*z - 0.416*z*z)
	return clamp01(p)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round2 rounds to two decimal places. Applied only at presentation
// boundaries so chained formulas keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
