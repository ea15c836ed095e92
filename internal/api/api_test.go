package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/forecast"
	"github.com/stockcast-app/stockcast/internal/repository"
	"github.com/stockcast-app/stockcast/internal/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := repository.NewSessionStore()
	services := &Services{
		Store:     store,
		Inventory: service.NewInventoryService(store),
		Forecast:  service.NewForecastService(store, forecast.NewOrchestrator(nil), nil),
		Scenario:  service.NewScenarioService(store),
	}
	return NewRouter(services, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testSales(days int) []domain.SalesRecord {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	sales := make([]domain.SalesRecord, days)
	for i := range sales {
		sales[i] = domain.SalesRecord{Date: start.AddDate(0, 0, i), ProductID: "p1", Quantity: 10}
	}
	return sales
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/products", []domain.Product{
		{ID: "p1", Name: "Widget", UnitCost: 2, UnitPrice: 5, CurrentStock: 100, MaxStock: 500},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/sales", testSales(14))
	require.Equal(t, http.StatusOK, rec.Code)

	var upload struct {
		Accepted int `json:"accepted"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.Equal(t, 14, upload.Accepted)
	assert.Equal(t, 0, upload.Skipped)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/s1/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.InventoryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Metrics, 1)
	assert.InDelta(t, 10.0, report.Metrics[0].DailyDemand, 1e-9)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/s1/report", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestForecastAndScenarioEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/products", []domain.Product{{ID: "p1", CurrentStock: 50}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/sales", testSales(30))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/forecast?horizon_days=14", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var forecastResp domain.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forecastResp))
	assert.Len(t, forecastResp.Points, 14)
	assert.Equal(t, "naive", forecastResp.Source)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/scenario", domain.Scenario{
		Type:       domain.ScenarioDemandShock,
		Parameters: map[string]float64{"multiplier": 1.5, "duration": 7},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ScenarioResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Forecast, 14)
	assert.Equal(t, 50, result.Summary.PercentageChange)
}

func TestForecastWithoutSales(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/forecast", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploadRejectsMalformedPayloads(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/products", []domain.Product{{ID: "p1", UnitCost: -1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSalesUploadSkipsInvalidRows(t *testing.T) {
	router := newTestRouter()

	payload := []map[string]any{
		{"date": "2025-03-01T00:00:00Z", "quantity": 10},
		{"date": "2025-03-02T00:00:00Z", "quantity": -5},
		{"quantity": 3},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/sales", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var upload struct {
		Accepted int `json:"accepted"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &upload))
	assert.Equal(t, 1, upload.Accepted)
	assert.Equal(t, 2, upload.Skipped)
}

func TestScenarioTypeValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/products", []domain.Product{{ID: "p1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/sales", testSales(10))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// an unrecognized type is a no-op projection, not an error
	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/s1/scenario", domain.Scenario{Type: "volcano"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ScenarioResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Summary.PercentageChange)
}
