package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockcast-app/stockcast/internal/config"
	"github.com/stockcast-app/stockcast/internal/domain"
)

const (
	forecastKeyPrefix     = "forecast:session"
	forecastScanBatchSize = 100
)

// ForecastKey identifies a cached forecast: the opaque session key plus
// the parameters that shaped the series.
type ForecastKey struct {
	SessionID   string
	HorizonDays int
	SeriesTail  []domain.TimePoint // recent observations; a changed tail invalidates the entry
}

// ForecastCache is the time-boxed forecast store owned by the
// orchestration layer. The analytics core has no cache of its own.
type ForecastCache interface {
	Get(ctx context.Context, key ForecastKey) (*domain.ForecastResponse, bool, error)
	Set(ctx context.Context, key ForecastKey, response *domain.ForecastResponse) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache builds a redis-backed cache, or a noop cache when
// caching is disabled.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, key ForecastKey) (*domain.ForecastResponse, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var response domain.ForecastResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return &response, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, key ForecastKey, response *domain.ForecastResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}
	if err := c.client.Set(ctx, buildForecastKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateSession(ctx context.Context, sessionID string) error {
	prefix := fmt.Sprintf("%s:%s:", forecastKeyPrefix, sessionID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, forecastScanBatchSize)
}

func (n *noopForecastCache) Get(ctx context.Context, key ForecastKey) (*domain.ForecastResponse, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, key ForecastKey, response *domain.ForecastResponse) error {
	return nil
}

func (n *noopForecastCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return nil
}

func buildForecastKey(key ForecastKey) string {
	return fmt.Sprintf("%s:%s:%s", forecastKeyPrefix, key.SessionID, forecastParamsHash(key))
}

// forecastParamsHash folds the horizon and the series tail into a stable
// digest so a changed history or horizon misses the cache.
func forecastParamsHash(key ForecastKey) string {
	h := sha1.New()
	fmt.Fprintf(h, "horizon=%d", key.HorizonDays)
	for _, p := range key.SeriesTail {
		fmt.Fprintf(h, "|%s=%.4f", p.Date.Format("2006-01-02"), p.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}
