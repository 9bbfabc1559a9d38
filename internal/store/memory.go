package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

// Memory is the transient backing. A single RWMutex serializes all
// mutation, which gives the sequential consistency the contract asks
// for; reads share the lock. Records are copied on the way in and out
// so callers never hold a reference into the store.
type Memory struct {
	mu sync.RWMutex

	users       map[string]models.User
	routes      map[string]models.Route
	buses       map[string]models.Bus
	schedules   map[string]models.Schedule
	bookings    map[string]models.Booking
	locations   map[string]models.BusLocation // keyed by bus id
	predictions map[string]models.DemandPrediction
}

func NewMemory() *Memory {
	return &Memory{
		users:       map[string]models.User{},
		routes:      map[string]models.Route{},
		buses:       map[string]models.Bus{},
		schedules:   map[string]models.Schedule{},
		bookings:    map[string]models.Booking{},
		locations:   map[string]models.BusLocation{},
		predictions: map[string]models.DemandPrediction{},
	}
}

func newID() string { return uuid.NewString() }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// --- users ---

func (m *Memory) CreateUser(u models.User) (models.User, error) {
	if err := validateUser(u); err != nil {
		return models.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.users {
		if existing.Email == email {
			return models.User{}, domain.ValidationError{Field: "email", Msg: "already registered"}
		}
	}
	u.ID = newID()
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) GetUser(id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (m *Memory) GetUserByEmail(email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

// --- routes ---

func (m *Memory) CreateRoute(r models.Route) (models.Route, error) {
	if err := validateRoute(r); err != nil {
		return models.Route{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = newID()
	r.Active = true
	r.Stops = cloneStrings(r.Stops)
	m.routes[r.ID] = r
	r.Stops = cloneStrings(r.Stops)
	return r, nil
}

func (m *Memory) GetRoute(id string) (models.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	r.Stops = cloneStrings(r.Stops)
	return r, nil
}

func (m *Memory) ListRoutes() ([]models.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Route, 0, len(m.routes))
	for _, r := range m.routes {
		r.Stops = cloneStrings(r.Stops)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SearchRoutes(from, to string) ([]models.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	out := []models.Route{}
	for _, r := range m.routes {
		if !r.Active {
			continue
		}
		if from != "" && !strings.EqualFold(r.FromCity, from) {
			continue
		}
		if to != "" && !strings.EqualFold(r.ToCity, to) {
			continue
		}
		r.Stops = cloneStrings(r.Stops)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SetRouteActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[id]
	if !ok {
		return domain.NotFoundError{Resource: "route"}
	}
	r.Active = active
	m.routes[id] = r
	return nil
}

// --- buses ---

func (m *Memory) CreateBus(b models.Bus) (models.Bus, error) {
	if err := validateBus(b); err != nil {
		return models.Bus{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.buses {
		if strings.EqualFold(existing.Number, b.Number) {
			return models.Bus{}, domain.ValidationError{Field: "number", Msg: "already in use"}
		}
	}
	b.ID = newID()
	b.Active = true
	b.Amenities = cloneStrings(b.Amenities)
	m.buses[b.ID] = b
	b.Amenities = cloneStrings(b.Amenities)
	return b, nil
}

func (m *Memory) GetBus(id string) (models.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buses[id]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	b.Amenities = cloneStrings(b.Amenities)
	return b, nil
}

func (m *Memory) ListBuses() ([]models.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Bus, 0, len(m.buses))
	for _, b := range m.buses {
		b.Amenities = cloneStrings(b.Amenities)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *Memory) SetBusActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buses[id]
	if !ok {
		return domain.NotFoundError{Resource: "bus"}
	}
	b.Active = active
	m.buses[id] = b
	return nil
}

// --- schedules ---

func (m *Memory) CreateSchedule(s models.Schedule) (models.Schedule, error) {
	if err := validateSchedule(s); err != nil {
		return models.Schedule{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	bus, ok := m.buses[s.BusID]
	if !ok {
		return models.Schedule{}, domain.NotFoundError{Resource: "bus"}
	}
	if _, ok := m.routes[s.RouteID]; !ok {
		return models.Schedule{}, domain.NotFoundError{Resource: "route"}
	}
	if s.AvailableSeats == 0 {
		s.AvailableSeats = bus.Capacity
	}
	if s.AvailableSeats > bus.Capacity {
		return models.Schedule{}, domain.ValidationError{Field: "availableSeats", Msg: "exceeds bus capacity"}
	}
	if s.Status == "" {
		s.Status = models.ScheduleScheduled
	}
	s.ID = newID()
	m.schedules[s.ID] = s
	return s, nil
}

func (m *Memory) GetSchedule(id string) (models.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[id]
	if !ok {
		return models.Schedule{}, domain.NotFoundError{Resource: "schedule"}
	}
	return s, nil
}

func (m *Memory) ListSchedules() ([]models.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Departure.Before(out[j].Departure) })
	return out, nil
}

func (m *Memory) SearchSchedules(routeID string, date time.Time) ([]models.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Schedule{}
	for _, s := range m.schedules {
		if routeID != "" && s.RouteID != routeID {
			continue
		}
		if !date.IsZero() && !sameDate(s.Departure, date) {
			continue
		}
		if s.Status == models.ScheduleCancelled {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Departure.Before(out[j].Departure) })
	return out, nil
}

func (m *Memory) UpdateSchedule(id string, upd models.ScheduleUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	if upd.Departure != nil {
		s.Departure = *upd.Departure
	}
	if upd.Arrival != nil {
		s.Arrival = *upd.Arrival
	}
	if upd.PriceCents != nil {
		if *upd.PriceCents < 0 {
			return domain.ValidationError{Field: "price", Msg: "must not be negative"}
		}
		s.PriceCents = *upd.PriceCents
	}
	if upd.AvailableSeats != nil {
		seats := *upd.AvailableSeats
		if seats < 0 {
			return domain.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
		}
		if bus, ok := m.buses[s.BusID]; ok && seats > bus.Capacity {
			return domain.ValidationError{Field: "availableSeats", Msg: "exceeds bus capacity"}
		}
		s.AvailableSeats = seats
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	if upd.Optimized != nil {
		s.Optimized = *upd.Optimized
	}
	m.schedules[id] = s
	return nil
}

func (m *Memory) GetScheduleWithDetails(id string) (models.ScheduleDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scheduleDetailsLocked(id)
}

func (m *Memory) scheduleDetailsLocked(id string) (models.ScheduleDetails, error) {
	s, ok := m.schedules[id]
	if !ok {
		return models.ScheduleDetails{}, domain.NotFoundError{Resource: "schedule"}
	}
	bus, ok := m.buses[s.BusID]
	if !ok {
		return models.ScheduleDetails{}, domain.IntegrityError{Resource: "schedule " + id, Ref: "bus " + s.BusID}
	}
	route, ok := m.routes[s.RouteID]
	if !ok {
		return models.ScheduleDetails{}, domain.IntegrityError{Resource: "schedule " + id, Ref: "route " + s.RouteID}
	}
	bus.Amenities = cloneStrings(bus.Amenities)
	route.Stops = cloneStrings(route.Stops)
	return models.ScheduleDetails{Schedule: s, Bus: bus, Route: route}, nil
}

// --- bookings ---

func (m *Memory) CreateBooking(b models.Booking) (models.Booking, error) {
	if err := validateBooking(b); err != nil {
		return models.Booking{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[b.UserID]; !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "user"}
	}
	if _, ok := m.schedules[b.ScheduleID]; !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "schedule"}
	}
	b.ID = newID()
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	b.BookedAt = time.Now().UTC()
	b.Seats = cloneStrings(b.Seats)
	m.bookings[b.ID] = b
	b.Seats = cloneStrings(b.Seats)
	return b, nil
}

func (m *Memory) GetBooking(id string) (models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	b.Seats = cloneStrings(b.Seats)
	return b, nil
}

func (m *Memory) ListBookings() ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		b.Seats = cloneStrings(b.Seats)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

func (m *Memory) ListBookingsByUser(userID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		b.Seats = cloneStrings(b.Seats)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

func (m *Memory) ListBookingsBySchedule(scheduleID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.ScheduleID != scheduleID {
			continue
		}
		b.Seats = cloneStrings(b.Seats)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

func (m *Memory) UpdateBookingStatus(id string, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *Memory) UpdateBookingPayment(id string, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	b.PaymentStatus = paymentStatus
	m.bookings[id] = b
	return nil
}

func (m *Memory) GetBookingWithDetails(id string) (models.BookingDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.BookingDetails{}, domain.NotFoundError{Resource: "booking"}
	}
	details, err := m.scheduleDetailsLocked(b.ScheduleID)
	if err != nil {
		if domain.IsNotFound(err) {
			err = domain.IntegrityError{Resource: "booking " + id, Ref: "schedule " + b.ScheduleID}
		}
		return models.BookingDetails{}, err
	}
	b.Seats = cloneStrings(b.Seats)
	return models.BookingDetails{Booking: b, Schedule: details}, nil
}

// --- locations ---

func (m *Memory) UpsertLocation(loc models.BusLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bus, ok := m.buses[loc.BusID]
	if !ok {
		return domain.NotFoundError{Resource: "bus"}
	}
	if err := validateLocation(loc, bus.Capacity); err != nil {
		return err
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now().UTC()
	}
	m.locations[loc.BusID] = loc
	return nil
}

func (m *Memory) GetLocation(busID string) (models.BusLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[busID]
	if !ok {
		return models.BusLocation{}, domain.NotFoundError{Resource: "bus location"}
	}
	return loc, nil
}

func (m *Memory) ListLocations() ([]models.BusLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.BusLocation, 0, len(m.locations))
	for _, loc := range m.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusID < out[j].BusID })
	return out, nil
}

// --- predictions ---

func (m *Memory) CreatePrediction(p models.DemandPrediction) (models.DemandPrediction, error) {
	if err := validatePrediction(p); err != nil {
		return models.DemandPrediction{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[p.RouteID]; !ok {
		return models.DemandPrediction{}, domain.NotFoundError{Resource: "route"}
	}
	p.ID = newID()
	p.Actual = nil
	p.Accuracy = nil
	p.CreatedAt = time.Now().UTC()
	m.predictions[p.ID] = p
	return p, nil
}

func (m *Memory) RecordPredictionActual(id string, actual int) (models.DemandPrediction, error) {
	if actual < 0 {
		return models.DemandPrediction{}, domain.ValidationError{Field: "actual", Msg: "must not be negative"}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.predictions[id]
	if !ok {
		return models.DemandPrediction{}, domain.NotFoundError{Resource: "prediction"}
	}
	acc := predictionAccuracy(p.Predicted, actual)
	p.Actual = &actual
	p.Accuracy = &acc
	m.predictions[id] = p
	return p, nil
}

func (m *Memory) ListPredictionsByRoute(routeID string) ([]models.DemandPrediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.DemandPrediction{}
	for _, p := range m.predictions {
		if routeID != "" && p.RouteID != routeID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}
