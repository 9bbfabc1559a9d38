package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/http/middleware"
	"busline/internal/utils"
)

type processPaymentRequest struct {
	BookingID string `json:"bookingId"`
	Amount    string `json:"amount"` // decimal, e.g. "10.00"
}

// POST /api/payment/process pays for an existing unpaid booking.
func (h *Handlers) ProcessPayment(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	var req processPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := h.Store.GetBooking(req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ident.IsAdmin && booking.UserID != ident.UserID {
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return
	}

	amount := booking.TotalCents
	if req.Amount != "" {
		parsed, err := utils.ParseMoney(req.Amount)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "amount", Msg: "invalid amount", Err: err})
			return
		}
		if parsed != booking.TotalCents {
			RespondDomainError(c, domain.ValidationError{Field: "amount", Msg: "does not match booking total"})
			return
		}
		amount = parsed
	}

	txID, err := h.Payments.Charge(c.Request.Context(), amount, booking.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.Store.UpdateBookingPayment(booking.ID, "paid"); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "payment", "process", "booking_id="+booking.ID+" tx="+txID)
	c.JSON(http.StatusOK, gin.H{"transactionId": txID, "status": "paid"})
}
