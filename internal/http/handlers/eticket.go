package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/http/middleware"
	"busline/internal/utils"
)

// GET /api/bookings/:id/eticket
func (h *Handlers) BookingETicket(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	details, err := h.Store.GetBookingWithDetails(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ident.IsAdmin && details.Booking.UserID != ident.UserID {
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return
	}

	pdfBytes, filename, err := buildETicketPDF(details)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "failed to render e-ticket", Err: err})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func buildETicketPDF(d models.BookingDetails) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger : %s", safe(d.Booking.PassengerName)),
		fmt.Sprintf("Phone     : %s", safe(d.Booking.PassengerPhone)),
		fmt.Sprintf("Route     : %s -> %s", safe(d.Schedule.Route.FromCity), safe(d.Schedule.Route.ToCity)),
		fmt.Sprintf("Departure : %s", d.Schedule.Schedule.Departure.Format("2006-01-02 15:04")),
		fmt.Sprintf("Bus       : %s (%s)", safe(d.Schedule.Bus.Number), safe(d.Schedule.Bus.Operator)),
		fmt.Sprintf("Seats     : %s", strings.Join(d.Booking.Seats, ", ")),
		fmt.Sprintf("Total     : %s", utils.FormatMoney(d.Booking.TotalCents)),
		fmt.Sprintf("Booking   : %s", d.Booking.ID),
		fmt.Sprintf("Payment   : %s", safe(d.Booking.PaymentStatus)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket at boarding. Each listed seat admits one passenger.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", d.Booking.ID)
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
