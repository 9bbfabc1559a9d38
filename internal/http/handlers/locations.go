package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/buses/locations returns the current fleet snapshot. The
// same data flows over the real-time channel; polling this endpoint is
// the fallback for clients that missed a broadcast.
func (h *Handlers) ListBusLocations(c *gin.Context) {
	locations, err := h.Store.ListLocations()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
