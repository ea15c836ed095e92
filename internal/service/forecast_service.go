package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stockcast-app/stockcast/internal/cache"
	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/forecast"
	"github.com/stockcast-app/stockcast/internal/ingest"
	"github.com/stockcast-app/stockcast/internal/repository"
)

// cacheTailPoints is how many trailing observations key the cache; more
// history than this does not change the entry identity.
const cacheTailPoints = 14

// ForecastService drives the orchestrator for a session: aggregate the
// stored sales, consult the time-boxed cache, generate, store.
type ForecastService struct {
	store *repository.SessionStore
	orch  *forecast.Orchestrator
	cache cache.ForecastCache
}

func NewForecastService(store *repository.SessionStore, orch *forecast.Orchestrator, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{store: store, orch: orch, cache: cacheImpl}
}

// Generate produces (or replays) the demand forecast for a session and
// records it as the session's base forecast.
func (s *ForecastService) Generate(ctx context.Context, sessionID string, horizonDays int) (*domain.ForecastResponse, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %q not found", sessionID)
	}
	if len(session.Sales) == 0 {
		return nil, fmt.Errorf("session %q has no sales history", sessionID)
	}

	series := ingest.AggregateDaily(session.Sales)

	key := cache.ForecastKey{
		SessionID:   sessionID,
		HorizonDays: horizonDays,
		SeriesTail:  seriesTail(series),
	}

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		cached.Source = "cache"
		s.store.SetForecast(sessionID, cached.Points)
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	response, err := s.orch.Forecast(ctx, series, horizonDays)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, response); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	s.store.SetForecast(sessionID, response.Points)
	return response, nil
}

func seriesTail(series []domain.TimePoint) []domain.TimePoint {
	if len(series) <= cacheTailPoints {
		return series
	}
	return series[len(series)-cacheTailPoints:]
}
