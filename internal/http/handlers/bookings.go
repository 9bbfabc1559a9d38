package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"busline/internal/domain/models"
	"busline/internal/http/middleware"
	"busline/internal/services"
	"busline/internal/utils"
)

type createBookingRequest struct {
	ScheduleID string                  `json:"scheduleId"`
	Seats      []string                `json:"seats"`
	SeatList   string                  `json:"seatList"` // alternative: "1A,1B"
	Passenger  models.PassengerDetails `json:"passenger"`
}

func (r createBookingRequest) seatLabels() []string {
	if len(r.Seats) > 0 {
		return r.Seats
	}
	return utils.SplitSeatList(r.SeatList)
}

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := h.Bookings.Book(c.Request.Context(), services.BookingRequest{
		UserID:     ident.UserID,
		ScheduleID: req.ScheduleID,
		Seats:      req.seatLabels(),
		Passenger:  req.Passenger,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "booking", "create",
		"booking_id="+booking.ID+" schedule_id="+booking.ScheduleID)
	c.JSON(http.StatusCreated, gin.H{"booking": booking, "total": utils.FormatMoney(booking.TotalCents)})
}

// GET /api/bookings/user
func (h *Handlers) ListUserBookings(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	bookings, err := h.Store.ListBookingsByUser(ident.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// POST /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	booking, err := h.Bookings.Cancel(ident, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "booking", "cancel", "booking_id="+booking.ID)
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
