package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"subscribers": h.Hub.Count(),
	})
}
