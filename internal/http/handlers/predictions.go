package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

type createPredictionRequest struct {
	RouteID   string `json:"routeId"`
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	Predicted int    `json:"predicted"`
}

// POST /api/admin/predictions
func (h *Handlers) CreatePrediction(c *gin.Context) {
	var req createPredictionRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := h.Predictions.Create(models.DemandPrediction{
		RouteID:   req.RouteID,
		Date:      req.Date,
		Hour:      req.Hour,
		Predicted: req.Predicted,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prediction": p})
}

type recordActualRequest struct {
	Actual *int `json:"actual"`
}

// PUT /api/admin/predictions/:id/actual
func (h *Handlers) RecordPredictionActual(c *gin.Context) {
	var req recordActualRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Actual == nil {
		RespondDomainError(c, domain.ValidationError{Field: "actual", Msg: "required"})
		return
	}
	p, err := h.Predictions.RecordActual(c.Param("id"), *req.Actual)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction": p})
}

// GET /api/admin/predictions?routeId=
func (h *Handlers) ListPredictions(c *gin.Context) {
	list, err := h.Predictions.ListByRoute(c.Query("routeId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": list})
}
