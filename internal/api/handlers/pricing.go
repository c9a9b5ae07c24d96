package handlers

import (
	"net/http"
	"strconv"
	"time"

	"skyfare/internal/models"
	"skyfare/internal/pricing"
	"skyfare/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingHandler handles prediction and repricing requests
type PricingHandler struct {
	engine       *pricing.Engine
	orchestrator *pricing.Orchestrator
	flights      repository.FlightRepository
	history      repository.PriceHistoryRepository
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(engine *pricing.Engine, orchestrator *pricing.Orchestrator, flights repository.FlightRepository, history repository.PriceHistoryRepository) *PricingHandler {
	return &PricingHandler{
		engine:       engine,
		orchestrator: orchestrator,
		flights:      flights,
		history:      history,
	}
}

// PredictForFlight godoc
// @Summary Predict the price of a stored flight
// @Description Runs the pricing engine for a flight as seen at the optional search date
// @Tags pricing
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param search_date query string false "Search date (RFC3339, defaults to now)"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 404 {object} models.ErrorResponse "Flight not found"
// @Router /flights/{id}/price/predict [get]
func (h *PricingHandler) PredictForFlight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid flight ID"})
		return
	}

	var searchDate time.Time
	if raw := c.Query("search_date"); raw != "" {
		searchDate, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid search_date format, use RFC3339"})
			return
		}
	}

	flight, err := h.flights.GetByID(c.Request.Context(), id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "flight not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch flight"})
		return
	}

	result, _ := h.engine.PredictPrice(c.Request.Context(), flight, searchDate)
	c.JSON(http.StatusOK, result)
}

// Predict godoc
// @Summary Predict the price of an inline flight snapshot
// @Description Runs the pricing engine for a flight supplied in the request body
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body models.PredictRequest true "Flight snapshot"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /pricing/predict [post]
func (h *PricingHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	flight := &models.Flight{
		FlightNumber:   req.FlightNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.AvailableSeats,
		BasePrice:      req.BasePrice,
		Currency:       req.Currency,
	}

	var searchDate time.Time
	if req.SearchDate != nil {
		searchDate = *req.SearchDate
	}

	result, _ := h.engine.PredictPrice(c.Request.Context(), flight, searchDate)
	c.JSON(http.StatusOK, result)
}

// BatchUpdate godoc
// @Summary Reprice the whole fleet
// @Description Recomputes and persists prices for all active future flights
// @Tags pricing
// @Accept json
// @Produce json
// @Success 200 {object} models.BatchPricingResult
// @Failure 500 {object} models.ErrorResponse "Flight selection failed"
// @Router /pricing/batch-update [post]
func (h *PricingHandler) BatchUpdate(c *gin.Context) {
	result, err := h.orchestrator.UpdateAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "batch repricing failed to start"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PriceHistory godoc
// @Summary Get a flight's price history
// @Description Returns price history entries within the trailing window, oldest first
// @Tags pricing
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param days query int false "Trailing window in days (default 30, max 365)"
// @Success 200 {array} models.PriceHistoryEntry
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Router /flights/{id}/price-history [get]
func (h *PricingHandler) PriceHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid flight ID"})
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 || days > 365 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "days must be between 1 and 365"})
			return
		}
	}

	entries, err := h.history.Query(c.Request.Context(), id, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch price history"})
		return
	}
	if entries == nil {
		entries = []models.PriceHistoryEntry{}
	}

	c.JSON(http.StatusOK, entries)
}
