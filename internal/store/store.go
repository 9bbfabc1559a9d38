// Package store owns every domain entity. All other components go
// through the Store contract; nothing holds entity references across
// operations, so a backing can serialize mutation however it likes.
package store

import (
	"strings"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

// Store is the entity contract shared by the in-memory backing (tests,
// demo mode) and the MySQL backing. Writes are observed in program
// order by all subsequent reads.
type Store interface {
	CreateUser(u models.User) (models.User, error)
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)

	CreateRoute(r models.Route) (models.Route, error)
	GetRoute(id string) (models.Route, error)
	ListRoutes() ([]models.Route, error)
	SearchRoutes(from, to string) ([]models.Route, error)
	SetRouteActive(id string, active bool) error

	CreateBus(b models.Bus) (models.Bus, error)
	GetBus(id string) (models.Bus, error)
	ListBuses() ([]models.Bus, error)
	SetBusActive(id string, active bool) error

	CreateSchedule(s models.Schedule) (models.Schedule, error)
	GetSchedule(id string) (models.Schedule, error)
	ListSchedules() ([]models.Schedule, error)
	SearchSchedules(routeID string, date time.Time) ([]models.Schedule, error)
	UpdateSchedule(id string, upd models.ScheduleUpdate) error
	GetScheduleWithDetails(id string) (models.ScheduleDetails, error)

	CreateBooking(b models.Booking) (models.Booking, error)
	GetBooking(id string) (models.Booking, error)
	ListBookings() ([]models.Booking, error)
	ListBookingsByUser(userID string) ([]models.Booking, error)
	ListBookingsBySchedule(scheduleID string) ([]models.Booking, error)
	UpdateBookingStatus(id string, status models.BookingStatus) error
	UpdateBookingPayment(id string, paymentStatus string) error
	GetBookingWithDetails(id string) (models.BookingDetails, error)

	UpsertLocation(loc models.BusLocation) error
	GetLocation(busID string) (models.BusLocation, error)
	ListLocations() ([]models.BusLocation, error)

	CreatePrediction(p models.DemandPrediction) (models.DemandPrediction, error)
	RecordPredictionActual(id string, actual int) (models.DemandPrediction, error)
	ListPredictionsByRoute(routeID string) ([]models.DemandPrediction, error)
}

// Field-level checks shared by both backings. Referential checks stay
// in the backing since they need store state.

func validateUser(u models.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return domain.ValidationError{Field: "email", Msg: "required"}
	}
	if strings.TrimSpace(u.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	if u.PasswordHash == "" {
		return domain.ValidationError{Field: "password", Msg: "required"}
	}
	return nil
}

func validateRoute(r models.Route) error {
	if strings.TrimSpace(r.FromCity) == "" {
		return domain.ValidationError{Field: "from", Msg: "required"}
	}
	if strings.TrimSpace(r.ToCity) == "" {
		return domain.ValidationError{Field: "to", Msg: "required"}
	}
	if r.DistanceKM < 0 {
		return domain.ValidationError{Field: "distanceKm", Msg: "must not be negative"}
	}
	if r.DurationMin < 0 {
		return domain.ValidationError{Field: "durationMinutes", Msg: "must not be negative"}
	}
	return nil
}

func validateBus(b models.Bus) error {
	if strings.TrimSpace(b.Number) == "" {
		return domain.ValidationError{Field: "number", Msg: "required"}
	}
	if b.Capacity <= 0 {
		return domain.ValidationError{Field: "capacity", Msg: "must be positive"}
	}
	return nil
}

func validateSchedule(s models.Schedule) error {
	if s.BusID == "" {
		return domain.ValidationError{Field: "busId", Msg: "required"}
	}
	if s.RouteID == "" {
		return domain.ValidationError{Field: "routeId", Msg: "required"}
	}
	if s.Departure.IsZero() || s.Arrival.IsZero() {
		return domain.ValidationError{Field: "departure", Msg: "departure and arrival are required"}
	}
	if !s.Arrival.After(s.Departure) {
		return domain.ValidationError{Field: "arrival", Msg: "must be after departure"}
	}
	if s.PriceCents < 0 {
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if s.AvailableSeats < 0 {
		return domain.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
	}
	return nil
}

func validateBooking(b models.Booking) error {
	if b.UserID == "" {
		return domain.ValidationError{Field: "userId", Msg: "required"}
	}
	if b.ScheduleID == "" {
		return domain.ValidationError{Field: "scheduleId", Msg: "required"}
	}
	if len(b.Seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	if b.TotalCents < 0 {
		return domain.ValidationError{Field: "totalCents", Msg: "must not be negative"}
	}
	return nil
}

func validateLocation(loc models.BusLocation, capacity int) error {
	if loc.BusID == "" {
		return domain.ValidationError{Field: "busId", Msg: "required"}
	}
	if loc.Occupancy < 0 || loc.Occupancy > capacity {
		return domain.ValidationError{Field: "occupancy", Msg: "outside bus capacity"}
	}
	if loc.DelayMinutes < 0 {
		return domain.ValidationError{Field: "delayMinutes", Msg: "must not be negative"}
	}
	return nil
}

func validatePrediction(p models.DemandPrediction) error {
	if p.RouteID == "" {
		return domain.ValidationError{Field: "routeId", Msg: "required"}
	}
	if strings.TrimSpace(p.Date) == "" {
		return domain.ValidationError{Field: "date", Msg: "required"}
	}
	if p.Hour < 0 || p.Hour > 23 {
		return domain.ValidationError{Field: "hour", Msg: "must be between 0 and 23"}
	}
	if p.Predicted < 0 {
		return domain.ValidationError{Field: "predicted", Msg: "must not be negative"}
	}
	return nil
}

// predictionAccuracy derives accuracy (0..100) from predicted vs actual
// demand once the actual is known.
func predictionAccuracy(predicted, actual int) float64 {
	denom := actual
	if denom < 1 {
		denom = 1
	}
	diff := predicted - actual
	if diff < 0 {
		diff = -diff
	}
	acc := 100 * (1 - float64(diff)/float64(denom))
	if acc < 0 {
		return 0
	}
	return acc
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
