package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEOQ(t *testing.T) {
	qty, ok := EOQ(1000, 50, 10)
	require.True(t, ok)
	assert.Equal(t, 100.0, qty)

	_, ok = EOQ(0, 50, 10)
	assert.False(t, ok)

	_, ok = EOQ(1000, 50, 0)
	assert.False(t, ok, "zero holding cost must not divide")
}

func TestReorderPoint(t *testing.T) {
	assert.Equal(t, 90.0, ReorderPoint(10, 7, 20))
}

func TestSafetyStock(t *testing.T) {
	// z=1.65 at the 95% service level
	assert.InDelta(t, 1.65*5*2, SafetyStock(10, 4, 0.95, 5), 1e-9)

	// zero variability means zero buffer regardless of service level
	assert.Equal(t, 0.0, SafetyStock(10, 4, 0.95, 0))
	assert.Equal(t, 0.0, SafetyStock(10, 4, 0.99, 0))

	// unrecognized service levels fall back to the 95% z-score
	assert.InDelta(t, SafetyStock(10, 4, 0.95, 5), SafetyStock(10, 4, 0.42, 5), 1e-9)
}

func TestTurnover(t *testing.T) {
	assert.Equal(t, 4.0, Turnover(20000, 5000))
	assert.Equal(t, 0.0, Turnover(20000, 0))
}

func TestDaysOfInventoryOutstanding(t *testing.T) {
	assert.InDelta(t, 50.0, DaysOfInventoryOutstanding(5000, 36500), 1e-9)
	assert.Equal(t, 0.0, DaysOfInventoryOutstanding(5000, 0))
}

func TestFillRate(t *testing.T) {
	assert.InDelta(t, 0.95, FillRate(950, 1000), 1e-9)
	// no orders means a perfect fill by convention
	assert.Equal(t, 1.0, FillRate(0, 0))
}

func TestStockoutProbability(t *testing.T) {
	assert.Equal(t, 0.0, StockoutProbability(10, 20, 0))

	// bounded in [0,1] across the non-negative input space
	inputs := []struct{ demand, safety, stddev float64 }{
		{0, 0, 1},
		{10, 0, 5},
		{10, 100, 0.001},
		{1000, 1, 500},
	}
	for _, in := range inputs {
		p := StockoutProbability(in.demand, in.safety, in.stddev)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}

	// more safety stock means less risk
	low := StockoutProbability(10, 5, 10)
	high := StockoutProbability(10, 50, 10)
	assert.Greater(t, low, high)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.236))
}
