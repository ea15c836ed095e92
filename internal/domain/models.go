// internal/domain/models.go
package domain

import "time"

// SalesRecord is a single historical sales observation. Records are
// immutable once ingested; aggregations are derived, never written back.
type SalesRecord struct {
	Date        time.Time `json:"date"`
	ProductID   string    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    float64   `json:"quantity"`
	Revenue     float64   `json:"revenue,omitempty"`
}

// Product is a catalog entry. ID uniqueness is enforced at the catalog
// boundary; numeric fields are expected to be >= 0.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	UnitCost     float64 `json:"unit_cost"`
	UnitPrice    float64 `json:"unit_price"`
	CurrentStock float64 `json:"current_stock"`
	LeadTimeDays int     `json:"lead_time_days,omitempty"`
	ReorderPoint float64 `json:"reorder_point,omitempty"`
	SafetyStock  float64 `json:"safety_stock,omitempty"`
	MaxStock     float64 `json:"max_stock,omitempty"`
}

// TimePoint is one (date, value) observation of an aggregated series.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastPoint is one day of a predicted demand series. Dates are ISO
// calendar date strings (2006-01-02). Bounds satisfy upper >= predicted >= lower.
type ForecastPoint struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted"`
	UpperBound float64 `json:"upper_bound"`
	LowerBound float64 `json:"lower_bound"`
}

// SeasonalityPattern identifies the detected periodicity of a series.
type SeasonalityPattern string

const (
	PatternNone    SeasonalityPattern = "none"
	PatternWeekly  SeasonalityPattern = "weekly"
	PatternMonthly SeasonalityPattern = "monthly"
)

// SeasonalityResult is the outcome of autocorrelation-based detection.
// Detected=false with a Reason is a valid "insufficient data" result,
// not an error.
type SeasonalityResult struct {
	Detected         bool               `json:"detected"`
	Pattern          SeasonalityPattern `json:"pattern"`
	Strength         float64            `json:"strength"`
	Reason           string             `json:"reason,omitempty"`
	DayOfWeekProfile []float64          `json:"day_of_week_profile,omitempty"` // 7 entries, index 0 = Sunday
	PeakDay          int                `json:"peak_day,omitempty"`
	LowDay           int                `json:"low_day,omitempty"`
	WeekendEffect    float64            `json:"weekend_effect,omitempty"`
}

// HealthMetric is the per-product inventory health row. Recomputed fresh
// on every report; never persisted beyond the caller-held session.
type HealthMetric struct {
	ProductID           string   `json:"product_id"`
	ProductName         string   `json:"product_name"`
	DailyDemand         float64  `json:"daily_demand"`
	DemandStdDev        float64  `json:"demand_std_dev"`
	SafetyStock         float64  `json:"safety_stock"`
	ReorderPoint        float64  `json:"reorder_point"`
	StockoutProbability float64  `json:"stockout_probability"`
	TurnoverRate        float64  `json:"turnover_rate"`
	DaysOfInventory     float64  `json:"days_of_inventory"`
	ForecastAccuracy    *float64 `json:"forecast_accuracy,omitempty"` // nil when no forecast dates matched actuals
}

// ABCClass is the value-based inventory segment of a product.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ABCItem is a product with its annual value share, annotated by the classifier.
type ABCItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Value     float64  `json:"value"`
	Class     ABCClass `json:"class,omitempty"`
}

// OptimalOrder is the recommended order quantity for one product.
type OptimalOrder struct {
	ProductID   string  `json:"product_id"`
	Recommended float64 `json:"recommended"`
	Adjusted    float64 `json:"adjusted"`
	Final       float64 `json:"final"`
	Urgent      bool    `json:"urgent"`
	Critical    bool    `json:"critical"`
}

// ScenarioType is the closed set of supported what-if perturbations.
type ScenarioType string

const (
	ScenarioDemandShock      ScenarioType = "demand_shock"
	ScenarioSupplyDisruption ScenarioType = "supply_disruption"
	ScenarioPromotion        ScenarioType = "promotion"
	ScenarioCustom           ScenarioType = "custom"
)

// Scenario is a parameterized perturbation applied against a base forecast.
type Scenario struct {
	Type       ScenarioType       `json:"type"`
	Parameters map[string]float64 `json:"parameters"`
}

// StockImpact reports the projected effect of a scenario on one product.
type StockImpact struct {
	ProductID              string  `json:"product_id"`
	ProductName            string  `json:"product_name,omitempty"`
	DemandDuringDisruption float64 `json:"demand_during_disruption,omitempty"`
	StockoutRisk           float64 `json:"stockout_risk,omitempty"`
	StockAfterPromo        float64 `json:"stock_after_promo,omitempty"`
	NeedsReorder           bool    `json:"needs_reorder,omitempty"`
}

// ScenarioSummary is the headline impact of a scenario run.
type ScenarioSummary struct {
	PercentageChange  int     `json:"percentage_change"`
	TotalDemandImpact float64 `json:"total_demand_impact"`
	Severity          string  `json:"severity"`
}

// ScenarioResult is the outcome of applying a scenario: a new forecast
// sequence plus per-product impacts. The base forecast is never mutated.
type ScenarioResult struct {
	Forecast []ForecastPoint `json:"forecast"`
	Impacts  []StockImpact   `json:"impacts"`
	Summary  ScenarioSummary `json:"summary"`
}

// InventoryReport bundles the per-product analytics for one session.
type InventoryReport struct {
	Metrics     []HealthMetric `json:"metrics"`
	Classes     []ABCItem      `json:"classes"`
	Orders      []OptimalOrder `json:"orders"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ForecastResponse is the chart-ready output of the forecast orchestrator.
type ForecastResponse struct {
	Points      []ForecastPoint   `json:"points"`
	Seasonality SeasonalityResult `json:"seasonality"`
	Source      string            `json:"source"` // gemini, naive or cache
	GeneratedAt time.Time         `json:"generated_at"`
}
