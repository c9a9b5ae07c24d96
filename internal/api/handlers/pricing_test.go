package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skyfare/internal/api/handlers"
	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/models"
	"skyfare/internal/pricing"
	"skyfare/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingRouter(repo *fakeFlightRepo, history *fakeHistoryRepo) *gin.Engine {
	cfg := config.DefaultPricingConfig()
	cfg.ModelPath = ""
	engine := pricing.NewEngine(cfg, nil, logger.NewNop(), nil)
	orchestrator := pricing.NewOrchestrator(engine, repo, history, cfg, logger.NewNop(), nil)

	handler := handlers.NewPricingHandler(engine, orchestrator, repo, history)
	router := gin.New()
	router.GET("/flights/:id/price/predict", handler.PredictForFlight)
	router.GET("/flights/:id/price-history", handler.PriceHistory)
	router.POST("/pricing/predict", handler.Predict)
	router.POST("/pricing/batch-update", handler.BatchUpdate)
	return router
}

func TestPricingHandler_PredictForFlight(t *testing.T) {
	flight := testutil.NewFlight(
		testutil.WithDeparture(time.Date(2026, time.February, 21, 10, 0, 0, 0, time.UTC)),
		testutil.WithSeats(180, 54),
		testutil.WithBasePrice(5000),
	)
	router := newPricingRouter(newFakeFlightRepo(flight), &fakeHistoryRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET",
		"/flights/"+flight.ID.String()+"/price/predict?search_date=2026-02-19T10:00:00Z", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	// 2 days out (+0.5), Saturday (+0.2), 30% seats (+0.08), off-season
	// (+0.15) on neutral demand: multiplier 1.93
	assert.InDelta(t, 5000, result.BasePrice, 1e-9)
	assert.InDelta(t, 1.93, result.PriceMultiplier, 1e-9)
	assert.InDelta(t, 9650, result.PredictedPrice, 1e-9)
	assert.Equal(t, models.TrendRising, result.Trend)
	assert.Equal(t, 2, result.Factors.DaysUntilDeparture)
	assert.True(t, result.Factors.IsWeekend)
}

func TestPricingHandler_PredictForFlight_Errors(t *testing.T) {
	flight := testutil.NewFlight()
	router := newPricingRouter(newFakeFlightRepo(flight), &fakeHistoryRepo{})

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"bad id", "/flights/nope/price/predict", http.StatusBadRequest},
		{"unknown flight", "/flights/" + uuid.New().String() + "/price/predict", http.StatusNotFound},
		{"bad search date", "/flights/" + flight.ID.String() + "/price/predict?search_date=tomorrow", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.url, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPricingHandler_Predict_InlineSnapshot(t *testing.T) {
	router := newPricingRouter(newFakeFlightRepo(), &fakeHistoryRepo{})

	search := time.Date(2026, time.February, 19, 10, 0, 0, 0, time.UTC)
	reqBody := models.PredictRequest{
		FlightNumber:   "SF302",
		Origin:         "DEL",
		Destination:    "BOM",
		DepartureTime:  time.Date(2026, time.February, 21, 10, 0, 0, 0, time.UTC),
		TotalSeats:     180,
		AvailableSeats: 54,
		BasePrice:      5000,
		SearchDate:     &search,
	}
	body, _ := json.Marshal(reqBody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/pricing/predict", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 9650, result.PredictedPrice, 1e-9)
	assert.Contains(t, result.Explanation, "Weekend travel")
}

func TestPricingHandler_Predict_Validation(t *testing.T) {
	router := newPricingRouter(newFakeFlightRepo(), &fakeHistoryRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"missing base price", `{"departureTime": "2026-03-01T10:00:00Z"}`},
		{"missing departure", `{"basePrice": 5000}`},
		{"lowercase airport code", `{"departureTime": "2026-03-01T10:00:00Z", "basePrice": 5000, "origin": "del"}`},
		{"long airport code", `{"departureTime": "2026-03-01T10:00:00Z", "basePrice": 5000, "destination": "BOMB"}`},
		{"negative seats", `{"departureTime": "2026-03-01T10:00:00Z", "basePrice": 5000, "availableSeats": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/pricing/predict", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPricingHandler_Predict_DefaultsApplied(t *testing.T) {
	router := newPricingRouter(newFakeFlightRepo(), &fakeHistoryRepo{})

	// Only the required fields: route and seats fall back to defaults
	body := `{"departureTime": "` + time.Now().AddDate(0, 0, 30).Format(time.RFC3339) + `", "basePrice": 4000}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/pricing/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 0, result.Factors.SeatAvailability, 1e-9)
	assert.Greater(t, result.PredictedPrice, 0.0)
}

func TestPricingHandler_BatchUpdate(t *testing.T) {
	flights := []models.Flight{
		testutil.NewFlight(),
		testutil.NewFlight(),
		testutil.NewFlight(testutil.WithStatus(models.FlightStatusCancelled)),
	}
	repo := newFakeFlightRepo(flights...)
	history := &fakeHistoryRepo{}
	router := newPricingRouter(repo, history)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/pricing/batch-update", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result models.BatchPricingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	// Cancelled flights are never selected
	assert.Equal(t, 2, result.TotalFlights)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, history.entries, 2)
}

func TestPricingHandler_PriceHistory(t *testing.T) {
	flight := testutil.NewFlight()
	history := &fakeHistoryRepo{entries: []models.PriceHistoryEntry{
		{ID: uuid.New(), FlightID: flight.ID, Price: 5200, Source: models.PriceSourceRule, Timestamp: time.Now().AddDate(0, 0, -2)},
		{ID: uuid.New(), FlightID: flight.ID, Price: 5400, Source: models.PriceSourceAI, Timestamp: time.Now().AddDate(0, 0, -1)},
		{ID: uuid.New(), FlightID: uuid.New(), Price: 9999, Source: models.PriceSourceManual, Timestamp: time.Now()},
	}}
	router := newPricingRouter(newFakeFlightRepo(flight), history)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/flights/"+flight.ID.String()+"/price-history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var entries []models.PriceHistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func TestPricingHandler_PriceHistory_EmptyIsArray(t *testing.T) {
	flight := testutil.NewFlight()
	router := newPricingRouter(newFakeFlightRepo(flight), &fakeHistoryRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/flights/"+flight.ID.String()+"/price-history", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestPricingHandler_PriceHistory_DaysValidation(t *testing.T) {
	flight := testutil.NewFlight()
	router := newPricingRouter(newFakeFlightRepo(flight), &fakeHistoryRepo{})

	for _, days := range []string{"0", "-1", "366", "soon"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/flights/"+flight.ID.String()+"/price-history?days="+days, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)
	}
}
