package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/routes
func (h *Handlers) ListRoutes(c *gin.Context) {
	routes, err := h.Store.ListRoutes()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/routes/search?from=&to=
func (h *Handlers) SearchRoutes(c *gin.Context) {
	routes, err := h.Store.SearchRoutes(c.Query("from"), c.Query("to"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}
