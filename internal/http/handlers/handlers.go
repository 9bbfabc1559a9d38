package handlers

import (
	"busline/internal/hub"
	"busline/internal/services"
	"busline/internal/store"
)

// Handlers carries the wired collaborators. Nothing here reaches for
// globals; tests assemble their own instance around an in-memory store.
type Handlers struct {
	Store       store.Store
	Bookings    *services.BookingService
	Payments    *services.PaymentService
	Analytics   services.AnalyticsService
	Predictions services.PredictionService
	Hub         *hub.Hub
	JWTSecret   []byte
}

func New(st store.Store, bookings *services.BookingService, payments *services.PaymentService, h *hub.Hub, jwtSecret []byte) *Handlers {
	return &Handlers{
		Store:       st,
		Bookings:    bookings,
		Payments:    payments,
		Analytics:   services.AnalyticsService{Store: st},
		Predictions: services.PredictionService{Store: st},
		Hub:         h,
		JWTSecret:   jwtSecret,
	}
}
