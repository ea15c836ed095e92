package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast-app/stockcast/internal/domain"
)

func TestUpsertProductsRejectsDuplicates(t *testing.T) {
	store := NewSessionStore()

	err := store.UpsertProducts("s1", []domain.Product{
		{ID: "p1"}, {ID: "p1"},
	})
	require.Error(t, err)

	err = store.UpsertProducts("s1", []domain.Product{{ID: ""}})
	require.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	store := NewSessionStore()

	require.NoError(t, store.UpsertProducts("s1", []domain.Product{{ID: "p1", Name: "Widget"}}))
	store.AppendSales("s1", []domain.SalesRecord{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), ProductID: "p1", Quantity: 5},
	})
	store.SetForecast("s1", []domain.ForecastPoint{{Date: "2025-03-02", Predicted: 6}})

	session, ok := store.Get("s1")
	require.True(t, ok)
	assert.Len(t, session.Products, 1)
	assert.Len(t, session.Sales, 1)
	assert.Len(t, session.Forecast, 1)

	// returned copy is detached from the store
	session.Products[0].Name = "changed"
	again, _ := store.Get("s1")
	assert.Equal(t, "Widget", again.Products[0].Name)
}

func TestGetUnknownSession(t *testing.T) {
	store := NewSessionStore()
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestDeleteSession(t *testing.T) {
	store := NewSessionStore()
	store.AppendSales("s1", nil)
	store.Delete("s1")
	_, ok := store.Get("s1")
	assert.False(t, ok)
}
