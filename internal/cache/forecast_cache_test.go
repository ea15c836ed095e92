package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast-app/stockcast/internal/domain"
)

func TestForecastKeyHashing(t *testing.T) {
	tail := []domain.TimePoint{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Value: 10},
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Value: 12},
	}

	a := buildForecastKey(ForecastKey{SessionID: "s1", HorizonDays: 30, SeriesTail: tail})
	b := buildForecastKey(ForecastKey{SessionID: "s1", HorizonDays: 30, SeriesTail: tail})
	assert.Equal(t, a, b)

	// a changed horizon or tail must miss
	c := buildForecastKey(ForecastKey{SessionID: "s1", HorizonDays: 14, SeriesTail: tail})
	assert.NotEqual(t, a, c)

	changed := append([]domain.TimePoint(nil), tail...)
	changed[1].Value = 13
	d := buildForecastKey(ForecastKey{SessionID: "s1", HorizonDays: 30, SeriesTail: changed})
	assert.NotEqual(t, a, d)
}

func TestNoopForecastCache(t *testing.T) {
	c := NewNoopForecastCache()
	ctx := context.Background()

	key := ForecastKey{SessionID: "s1", HorizonDays: 30}
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, &domain.ForecastResponse{}))
	require.NoError(t, c.InvalidateSession(ctx, "s1"))
}
