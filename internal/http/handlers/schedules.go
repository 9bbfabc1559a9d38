package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/utils"
)

// GET /api/schedules
func (h *Handlers) ListSchedules(c *gin.Context) {
	schedules, err := h.Store.ListSchedules()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GET /api/schedules/search?routeId=&date=YYYY-MM-DD
func (h *Handlers) SearchSchedules(c *gin.Context) {
	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err})
			return
		}
		date = parsed
	}
	schedules, err := h.Store.SearchSchedules(c.Query("routeId"), date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GET /api/schedules/:id
func (h *Handlers) GetSchedule(c *gin.Context) {
	details, err := h.Store.GetScheduleWithDetails(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
