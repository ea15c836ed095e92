package service

import (
	"context"
	"fmt"

	"github.com/stockcast-app/stockcast/internal/analytics"
	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/repository"
)

// ScenarioService runs what-if perturbations against a session's base
// forecast. The stored forecast is never modified; each run returns a
// fresh projection.
type ScenarioService struct {
	store  *repository.SessionStore
	engine *analytics.ScenarioEngine
}

func NewScenarioService(store *repository.SessionStore) *ScenarioService {
	return &ScenarioService{
		store:  store,
		engine: analytics.NewScenarioEngine(nil),
	}
}

// Apply evaluates a scenario for a session. A forecast must have been
// generated first; the catalog and sales feed the per-product impact
// projections.
func (s *ScenarioService) Apply(ctx context.Context, sessionID string, scenario domain.Scenario) (*domain.ScenarioResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %q not found", sessionID)
	}
	if len(session.Forecast) == 0 {
		return nil, fmt.Errorf("session %q has no base forecast; generate one first", sessionID)
	}

	result := s.engine.Apply(session.Forecast, scenario, session.Products, session.Sales)
	return &result, nil
}
