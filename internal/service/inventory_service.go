package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stockcast-app/stockcast/internal/analytics"
	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/repository"
)

// InventoryService derives the full per-product report (health metrics,
// ABC classes, optimal orders) for a session. Everything is recomputed
// fresh on each call; only the rounding for presentation happens here.
type InventoryService struct {
	store    *repository.SessionStore
	health   *analytics.HealthEngine
	scenario *analytics.ScenarioEngine
}

func NewInventoryService(store *repository.SessionStore) *InventoryService {
	health := analytics.NewHealthEngine()
	return &InventoryService{
		store:    store,
		health:   health,
		scenario: analytics.NewScenarioEngine(health),
	}
}

// BuildReport computes the inventory report for a session. A missing
// forecast degrades gracefully: accuracy stays unset and order
// quantities fall back to the reorder-point gap.
func (s *InventoryService) BuildReport(ctx context.Context, sessionID string) (*domain.InventoryReport, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %q not found", sessionID)
	}
	if len(session.Products) == 0 {
		return nil, fmt.Errorf("session %q has no product catalog", sessionID)
	}

	metrics := s.health.ComputeHealth(session.Products, session.Sales, session.Forecast)

	items := make([]domain.ABCItem, len(session.Products))
	for i, product := range session.Products {
		items[i] = domain.ABCItem{
			ProductID: product.ID,
			Name:      product.Name,
			Value:     annualValue(product, metrics[i]),
		}
	}
	classes := analytics.ClassifyABC(items)

	orders := make([]domain.OptimalOrder, len(session.Products))
	for i, product := range session.Products {
		order := analytics.OptimalOrderQty(session.Forecast, product.CurrentStock, metrics[i].ReorderPoint, product.MaxStock)
		order.ProductID = product.ID
		orders[i] = roundOrder(order)
	}

	for i := range metrics {
		metrics[i] = roundMetric(metrics[i])
	}
	for i := range classes {
		classes[i].Value = analytics.Round2(classes[i].Value)
	}

	return &domain.InventoryReport{
		Metrics:     metrics,
		Classes:     classes,
		Orders:      orders,
		GeneratedAt: time.Now(),
	}, nil
}

// annualValue ranks products by annualized demand at selling price.
func annualValue(product domain.Product, metric domain.HealthMetric) float64 {
	return metric.DailyDemand * 365 * product.UnitPrice
}

// Rounding is confined to this presentation boundary so chained
// formulas upstream keep full precision.
func roundMetric(m domain.HealthMetric) domain.HealthMetric {
	m.DailyDemand = analytics.Round2(m.DailyDemand)
	m.DemandStdDev = analytics.Round2(m.DemandStdDev)
	m.SafetyStock = analytics.Round2(m.SafetyStock)
	m.ReorderPoint = analytics.Round2(m.ReorderPoint)
	m.StockoutProbability = analytics.Round2(m.StockoutProbability)
	m.TurnoverRate = analytics.Round2(m.TurnoverRate)
	m.DaysOfInventory = analytics.Round2(m.DaysOfInventory)
	if m.ForecastAccuracy != nil {
		rounded := analytics.Round2(*m.ForecastAccuracy)
		m.ForecastAccuracy = &rounded
	}
	return m
}

func roundOrder(o domain.OptimalOrder) domain.OptimalOrder {
	o.Recommended = analytics.Round2(o.Recommended)
	o.Adjusted = analytics.Round2(o.Adjusted)
	o.Final = analytics.Round2(o.Final)
	return o
}
