package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses. Each
// booking failure keeps its own code so clients can react to capacity
// vs validation vs payment distinctly.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsCapacity(err):
		respondError(c, http.StatusConflict, "capacity_exceeded", err.Error(), nil)
	case domain.IsPayment(err):
		respondError(c, http.StatusPaymentRequired, "payment_failed", err.Error(), nil)
	case domain.IsIntegrity(err):
		// A dangling reference is a data defect; log it loudly and do
		// not dress it up as a client problem.
		log.Printf("[INTEGRITY] request_id=%s err=%v", middleware.GetRequestID(c), err)
		respondError(c, http.StatusInternalServerError, "integrity_error", "data integrity violation", nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
