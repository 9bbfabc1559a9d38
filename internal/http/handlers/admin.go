package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/utils"
)

type createRouteRequest struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	DistanceKM  float64  `json:"distanceKm"`
	DurationMin int      `json:"durationMinutes"`
	Stops       []string `json:"stops"`
}

// POST /api/admin/routes
func (h *Handlers) CreateRoute(c *gin.Context) {
	var req createRouteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	route, err := h.Store.CreateRoute(models.Route{
		FromCity:    req.From,
		ToCity:      req.To,
		DistanceKM:  req.DistanceKM,
		DurationMin: req.DurationMin,
		Stops:       req.Stops,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}

type createBusRequest struct {
	Number    string   `json:"number"`
	Operator  string   `json:"operator"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
}

// POST /api/admin/buses
func (h *Handlers) CreateBus(c *gin.Context) {
	var req createBusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	bus, err := h.Store.CreateBus(models.Bus{
		Number:    req.Number,
		Operator:  req.Operator,
		Capacity:  req.Capacity,
		Amenities: req.Amenities,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

type createScheduleRequest struct {
	BusID     string `json:"busId"`
	RouteID   string `json:"routeId"`
	Departure string `json:"departure"` // RFC 3339
	Arrival   string `json:"arrival"`
	Price     string `json:"price"` // decimal, e.g. "10.00"
}

// POST /api/admin/schedules
func (h *Handlers) CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	departure, err := time.Parse(time.RFC3339, req.Departure)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "departure", Msg: "expected RFC 3339 timestamp", Err: err})
		return
	}
	arrival, err := time.Parse(time.RFC3339, req.Arrival)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "arrival", Msg: "expected RFC 3339 timestamp", Err: err})
		return
	}
	price, err := utils.ParseMoney(req.Price)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "price", Msg: "invalid amount", Err: err})
		return
	}
	schedule, err := h.Store.CreateSchedule(models.Schedule{
		BusID:      req.BusID,
		RouteID:    req.RouteID,
		Departure:  departure,
		Arrival:    arrival,
		PriceCents: price,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// PUT /api/admin/routes/:id/deactivate
func (h *Handlers) DeactivateRoute(c *gin.Context) {
	if err := h.Store.SetRouteActive(c.Param("id"), false); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// PUT /api/admin/buses/:id/deactivate
func (h *Handlers) DeactivateBus(c *gin.Context) {
	if err := h.Store.SetBusActive(c.Param("id"), false); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// PUT /api/admin/schedules/:id/cancel
func (h *Handlers) CancelSchedule(c *gin.Context) {
	status := models.ScheduleCancelled
	if err := h.Store.UpdateSchedule(c.Param("id"), models.ScheduleUpdate{Status: &status}); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GET /api/admin/analytics
func (h *Handlers) AnalyticsSummary(c *gin.Context) {
	summary, err := h.Analytics.Summary()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
