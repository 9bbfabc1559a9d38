package services

import (
	"context"
	"strings"
	"sync"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/store"
	"busline/internal/utils"
)

// Publisher delivers a domain event to live subscribers. The hub
// satisfies this; tests inject doubles.
type Publisher interface {
	Broadcast(ev domain.Event)
}

// BookingService turns seat-selection requests into inventory-consistent
// bookings. Commits against the same schedule serialize on a
// per-schedule lock so available_seats never goes negative and no seat
// label is sold twice.
type BookingService struct {
	Store    store.Store
	Events   Publisher
	Payments *PaymentService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBookingService(st store.Store, events Publisher, payments *PaymentService) *BookingService {
	return &BookingService{
		Store:    st,
		Events:   events,
		Payments: payments,
		locks:    map[string]*sync.Mutex{},
	}
}

func (s *BookingService) scheduleLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// BookingRequest is the validated payload handed in by the dispatcher.
type BookingRequest struct {
	UserID     string
	ScheduleID string
	Seats      []string
	Passenger  models.PassengerDetails
}

// Book runs the full flow: precheck, payment charge, atomic commit.
// A failed or timed-out charge never reaches the commit path.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (models.Booking, error) {
	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return models.Booking{}, err
	}

	sc, err := s.Store.GetSchedule(req.ScheduleID)
	if err != nil {
		return models.Booking{}, err
	}
	if !sc.Status.Bookable() {
		return models.Booking{}, domain.NotFoundError{Resource: "bookable schedule"}
	}
	if len(seats) > sc.AvailableSeats {
		return models.Booking{}, domain.CapacityError{ScheduleID: sc.ID, Requested: len(seats), Available: sc.AvailableSeats}
	}

	paymentStatus := "unpaid"
	if s.Payments != nil {
		if _, err := s.Payments.Charge(ctx, sc.PriceCents*int64(len(seats)), req.ScheduleID); err != nil {
			return models.Booking{}, err
		}
		paymentStatus = "paid"
	}

	return s.CreateBooking(req.UserID, req.ScheduleID, seats, req.Passenger, paymentStatus)
}

// CreateBooking atomically decrements schedule inventory and persists
// the booking. No other commit against the same schedule observes an
// intermediate state.
func (s *BookingService) CreateBooking(userID, scheduleID string, seatLabels []string, passenger models.PassengerDetails, paymentStatus string) (models.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Booking{}, domain.ValidationError{Field: "userId", Msg: "required"}
	}
	seats, err := normalizeSeats(seatLabels)
	if err != nil {
		return models.Booking{}, err
	}

	lock := s.scheduleLock(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sc, err := s.Store.GetSchedule(scheduleID)
	if err != nil {
		return models.Booking{}, err
	}
	if !sc.Status.Bookable() {
		return models.Booking{}, domain.NotFoundError{Resource: "bookable schedule"}
	}
	if len(seats) > sc.AvailableSeats {
		return models.Booking{}, domain.CapacityError{ScheduleID: sc.ID, Requested: len(seats), Available: sc.AvailableSeats}
	}
	if err := s.checkSeatsFree(scheduleID, seats); err != nil {
		return models.Booking{}, err
	}

	remaining := sc.AvailableSeats - len(seats)
	if err := s.Store.UpdateSchedule(scheduleID, models.ScheduleUpdate{AvailableSeats: &remaining}); err != nil {
		return models.Booking{}, err
	}
	created, err := s.Store.CreateBooking(models.Booking{
		UserID:         userID,
		ScheduleID:     scheduleID,
		Seats:          seats,
		TotalCents:     sc.PriceCents * int64(len(seats)),
		Status:         models.BookingConfirmed,
		PassengerName:  passenger.Name,
		PassengerPhone: passenger.Phone,
		PaymentStatus:  paymentStatus,
	})
	if err != nil {
		// Put the decrement back so nothing partial survives.
		restore := sc.AvailableSeats
		_ = s.Store.UpdateSchedule(scheduleID, models.ScheduleUpdate{AvailableSeats: &restore})
		return models.Booking{}, err
	}

	if s.Events != nil {
		s.Events.Broadcast(domain.Event{
			Type: domain.EventBookingCreated,
			Data: domain.BookingCreated{BookingID: created.ID, ScheduleID: created.ScheduleID},
		})
	}
	return created, nil
}

// Cancel flips a booking to cancelled and restores its seat count.
// Cancelling an already-cancelled booking is a no-op.
func (s *BookingService) Cancel(ident domain.Identity, bookingID string) (models.Booking, error) {
	b, err := s.Store.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !ident.IsAdmin && b.UserID != ident.UserID {
		// Do not leak other users' bookings.
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}

	lock := s.scheduleLock(b.ScheduleID)
	lock.Lock()
	defer lock.Unlock()

	b, err = s.Store.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status == models.BookingCancelled {
		return b, nil
	}

	sc, err := s.Store.GetSchedule(b.ScheduleID)
	if err != nil {
		return models.Booking{}, err
	}
	restored := sc.AvailableSeats + len(b.Seats)
	if err := s.Store.UpdateSchedule(b.ScheduleID, models.ScheduleUpdate{AvailableSeats: &restored}); err != nil {
		return models.Booking{}, err
	}
	if err := s.Store.UpdateBookingStatus(bookingID, models.BookingCancelled); err != nil {
		return models.Booking{}, err
	}
	b.Status = models.BookingCancelled
	return b, nil
}

// checkSeatsFree rejects seat labels already held by an active booking
// on the schedule. Runs inside the per-schedule lock.
func (s *BookingService) checkSeatsFree(scheduleID string, seats []string) error {
	existing, err := s.Store.ListBookingsBySchedule(scheduleID)
	if err != nil {
		return err
	}
	taken := map[string]bool{}
	for _, b := range existing {
		if b.Status == models.BookingCancelled {
			continue
		}
		for _, seat := range b.Seats {
			taken[seat] = true
		}
	}
	for _, seat := range seats {
		if taken[seat] {
			return domain.ValidationError{Field: "seats", Msg: "seat " + seat + " is already taken"}
		}
	}
	return nil
}

func normalizeSeats(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.ToUpper(utils.TrimOrEmpty(s))
		if s == "" {
			continue
		}
		if seen[s] {
			return nil, domain.ValidationError{Field: "seats", Msg: "duplicate seat " + s}
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	return out, nil
}
