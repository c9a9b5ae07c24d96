package handlers

import (
	"net/http"
	"time"

	"skyfare/internal/models"
	"skyfare/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FlightHandler handles flight-related requests
type FlightHandler struct {
	repo    repository.FlightRepository
	history repository.PriceHistoryRepository
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(repo repository.FlightRepository, history repository.PriceHistoryRepository) *FlightHandler {
	return &FlightHandler{repo: repo, history: history}
}

// ListFlights godoc
// @Summary List flights
// @Description Returns flights matching the given filters
// @Tags flights
// @Accept json
// @Produce json
// @Param origin query string false "Origin airport code"
// @Param destination query string false "Destination airport code"
// @Param status query string false "Flight status"
// @Param departure_after query string false "Departure lower bound (RFC3339)"
// @Param departure_before query string false "Departure upper bound (RFC3339)"
// @Success 200 {array} models.Flight
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /flights [get]
func (h *FlightHandler) ListFlights(c *gin.Context) {
	filter := repository.FlightFilter{}

	if origin := c.Query("origin"); origin != "" {
		filter.Origin = &origin
	}
	if destination := c.Query("destination"); destination != "" {
		filter.Destination = &destination
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	if after := c.Query("departure_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid departure_after format, use RFC3339"})
			return
		}
		filter.DepartureAfter = &t
	}
	if before := c.Query("departure_before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid departure_before format, use RFC3339"})
			return
		}
		filter.DepartureBefore = &t
	}

	maxLimit := 1000
	filter.Limit = &maxLimit

	flights, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch flights"})
		return
	}

	c.JSON(http.StatusOK, flights)
}

// GetFlight godoc
// @Summary Get a flight by ID
// @Tags flights
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} models.Flight
// @Failure 400 {object} models.ErrorResponse "Invalid flight ID"
// @Failure 404 {object} models.ErrorResponse "Flight not found"
// @Router /flights/{id} [get]
func (h *FlightHandler) GetFlight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid flight ID"})
		return
	}

	flight, err := h.repo.GetByID(c.Request.Context(), id)
	if err == repository.ErrNotFound {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "flight not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch flight"})
		return
	}

	c.JSON(http.StatusOK, flight)
}

// UpdatePrice godoc
// @Summary Manually override a flight's current price
// @Description Sets the current price and records a manual price history entry
// @Tags flights
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param request body models.UpdatePriceRequest true "New price"
// @Success 200 {object} models.Flight
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "Flight not found"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /flights/{id}/price [put]
func (h *FlightHandler) UpdatePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid flight ID"})
		return
	}

	var req models.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.UpdatePrice(ctx, id, req.Price); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "flight not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update price"})
		return
	}

	entry := &models.PriceHistoryEntry{
		FlightID: id,
		Price:    req.Price,
		Source:   models.PriceSourceManual,
		Reason:   req.Reason,
	}
	if err := h.history.Append(ctx, entry); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to record price history"})
		return
	}

	flight, err := h.repo.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch flight"})
		return
	}

	c.JSON(http.StatusOK, flight)
}
