package store

import (
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

type fixture struct {
	store    *Memory
	user     models.User
	route    models.Route
	bus      models.Bus
	schedule models.Schedule
}

func newFixture(t *testing.T, capacity int, priceCents int64) fixture {
	t.Helper()
	st := NewMemory()

	user, err := st.CreateUser(models.User{Email: "rider@example.com", PasswordHash: "x", Name: "Rider"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	route, err := st.CreateRoute(models.Route{FromCity: "Jakarta", ToCity: "Bandung", DistanceKM: 150, DurationMin: 180})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	bus, err := st.CreateBus(models.Bus{Number: "BL-1", Operator: "Busline", Capacity: capacity})
	if err != nil {
		t.Fatalf("create bus: %v", err)
	}
	departure := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	schedule, err := st.CreateSchedule(models.Schedule{
		BusID:      bus.ID,
		RouteID:    route.ID,
		Departure:  departure,
		Arrival:    departure.Add(3 * time.Hour),
		PriceCents: priceCents,
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return fixture{store: st, user: user, route: route, bus: bus, schedule: schedule}
}

func TestCreateScheduleDefaultsSeatsToCapacity(t *testing.T) {
	f := newFixture(t, 40, 1000)
	if f.schedule.AvailableSeats != 40 {
		t.Fatalf("available seats = %d, want 40", f.schedule.AvailableSeats)
	}
	if f.schedule.Status != models.ScheduleScheduled {
		t.Fatalf("status = %s, want scheduled", f.schedule.Status)
	}
}

func TestCreateScheduleRejectsBadInput(t *testing.T) {
	f := newFixture(t, 40, 1000)
	departure := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	_, err := f.store.CreateSchedule(models.Schedule{
		BusID: f.bus.ID, RouteID: f.route.ID,
		Departure: departure, Arrival: departure.Add(-time.Hour),
		PriceCents: 1000,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("arrival before departure: got %v, want validation error", err)
	}

	_, err = f.store.CreateSchedule(models.Schedule{
		BusID: f.bus.ID, RouteID: f.route.ID,
		Departure: departure, Arrival: departure.Add(time.Hour),
		PriceCents: -1,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("negative price: got %v, want validation error", err)
	}

	_, err = f.store.CreateSchedule(models.Schedule{
		BusID: "missing", RouteID: f.route.ID,
		Departure: departure, Arrival: departure.Add(time.Hour),
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("missing bus: got %v, want not found", err)
	}
}

func TestCreateBusRejectsNonPositiveCapacity(t *testing.T) {
	st := NewMemory()
	if _, err := st.CreateBus(models.Bus{Number: "B-1", Capacity: 0}); !domain.IsValidation(err) {
		t.Fatalf("zero capacity: got %v, want validation error", err)
	}
	if _, err := st.CreateBus(models.Bus{Number: "B-1", Capacity: -5}); !domain.IsValidation(err) {
		t.Fatalf("negative capacity: got %v, want validation error", err)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	st := NewMemory()
	if _, err := st.GetSchedule("nope"); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
	if _, err := st.GetBooking("nope"); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
	if err := st.UpdateBookingStatus("nope", models.BookingCancelled); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestSearchRoutesActiveOnlyExactMatch(t *testing.T) {
	f := newFixture(t, 40, 1000)
	other, err := f.store.CreateRoute(models.Route{FromCity: "Jakarta", ToCity: "Surabaya"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if err := f.store.SetRouteActive(other.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := f.store.SearchRoutes("jakarta", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != f.route.ID {
		t.Fatalf("search returned %d routes, want only the active Jakarta-Bandung route", len(got))
	}

	got, err = f.store.SearchRoutes("Jakarta", "Bogor")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("search for unserved pair returned %d routes, want 0", len(got))
	}
}

func TestSearchSchedulesMatchesCalendarDate(t *testing.T) {
	f := newFixture(t, 40, 1000)

	// Same calendar date, different time of day.
	got, err := f.store.SearchSchedules(f.route.ID, time.Date(2026, 9, 10, 23, 59, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("same-date search returned %d schedules, want 1", len(got))
	}

	got, err = f.store.SearchSchedules(f.route.ID, time.Date(2026, 9, 11, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("next-day search returned %d schedules, want 0", len(got))
	}

	// Cancelled schedules never show up.
	status := models.ScheduleCancelled
	if err := f.store.UpdateSchedule(f.schedule.ID, models.ScheduleUpdate{Status: &status}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err = f.store.SearchSchedules(f.route.ID, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cancelled schedule still returned by search")
	}
}

func TestUpdateScheduleValidatesSeats(t *testing.T) {
	f := newFixture(t, 40, 1000)

	bad := -1
	if err := f.store.UpdateSchedule(f.schedule.ID, models.ScheduleUpdate{AvailableSeats: &bad}); !domain.IsValidation(err) {
		t.Fatalf("negative seats: got %v, want validation error", err)
	}
	over := 41
	if err := f.store.UpdateSchedule(f.schedule.ID, models.ScheduleUpdate{AvailableSeats: &over}); !domain.IsValidation(err) {
		t.Fatalf("over-capacity seats: got %v, want validation error", err)
	}
	ok := 12
	if err := f.store.UpdateSchedule(f.schedule.ID, models.ScheduleUpdate{AvailableSeats: &ok}); err != nil {
		t.Fatalf("update: %v", err)
	}
	sc, err := f.store.GetSchedule(f.schedule.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sc.AvailableSeats != 12 {
		t.Fatalf("available seats = %d, want 12", sc.AvailableSeats)
	}
}

func TestScheduleDetailsJoin(t *testing.T) {
	f := newFixture(t, 40, 1000)

	details, err := f.store.GetScheduleWithDetails(f.schedule.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Bus.ID != f.bus.ID || details.Route.ID != f.route.ID {
		t.Fatalf("join resolved wrong bus/route")
	}
}

func TestBookingDetailsIntegrityError(t *testing.T) {
	f := newFixture(t, 40, 1000)
	b, err := f.store.CreateBooking(models.Booking{
		UserID: f.user.ID, ScheduleID: f.schedule.ID, Seats: []string{"1A"}, TotalCents: 1000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Break the foreign reference behind the store's back.
	f.store.mu.Lock()
	delete(f.store.buses, f.bus.ID)
	f.store.mu.Unlock()

	if _, err := f.store.GetBookingWithDetails(b.ID); !domain.IsIntegrity(err) {
		t.Fatalf("got %v, want integrity error", err)
	}
}

func TestUpsertLocationEnforcesOccupancyBounds(t *testing.T) {
	f := newFixture(t, 40, 1000)

	err := f.store.UpsertLocation(models.BusLocation{BusID: f.bus.ID, Occupancy: 41})
	if !domain.IsValidation(err) {
		t.Fatalf("over-capacity occupancy: got %v, want validation error", err)
	}
	err = f.store.UpsertLocation(models.BusLocation{BusID: f.bus.ID, Occupancy: -1})
	if !domain.IsValidation(err) {
		t.Fatalf("negative occupancy: got %v, want validation error", err)
	}

	if err := f.store.UpsertLocation(models.BusLocation{BusID: f.bus.ID, Latitude: -6.2, Longitude: 106.8, Occupancy: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	loc, err := f.store.GetLocation(f.bus.ID)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if loc.Occupancy != 10 || loc.UpdatedAt.IsZero() {
		t.Fatalf("location not stored as expected: %+v", loc)
	}

	// Second upsert mutates in place, list still has one row.
	if err := f.store.UpsertLocation(models.BusLocation{BusID: f.bus.ID, Latitude: -6.21, Longitude: 106.81, Occupancy: 12}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	locs, err := f.store.ListLocations()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(locs) != 1 || locs[0].Occupancy != 12 {
		t.Fatalf("expected one updated location row, got %+v", locs)
	}
}

func TestPredictionAccuracyDerivation(t *testing.T) {
	f := newFixture(t, 40, 1000)

	p, err := f.store.CreatePrediction(models.DemandPrediction{RouteID: f.route.ID, Date: "2026-09-10", Hour: 8, Predicted: 90})
	if err != nil {
		t.Fatalf("create prediction: %v", err)
	}
	if p.Actual != nil || p.Accuracy != nil {
		t.Fatalf("fresh prediction should not carry actual/accuracy")
	}

	p, err = f.store.RecordPredictionActual(p.ID, 100)
	if err != nil {
		t.Fatalf("record actual: %v", err)
	}
	if p.Actual == nil || *p.Actual != 100 {
		t.Fatalf("actual not recorded: %+v", p)
	}
	if p.Accuracy == nil || *p.Accuracy < 89.999 || *p.Accuracy > 90.001 {
		t.Fatalf("accuracy = %v, want 90", p.Accuracy)
	}

	if _, err := f.store.CreatePrediction(models.DemandPrediction{RouteID: f.route.ID, Date: "2026-09-10", Hour: 24, Predicted: 1}); !domain.IsValidation(err) {
		t.Fatalf("hour 24: got %v, want validation error", err)
	}
}

func TestDuplicateEmailAndBusNumberRejected(t *testing.T) {
	st := NewMemory()
	if _, err := st.CreateUser(models.User{Email: "a@b.c", PasswordHash: "x", Name: "A"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := st.CreateUser(models.User{Email: "A@B.C", PasswordHash: "x", Name: "B"}); !domain.IsValidation(err) {
		t.Fatalf("duplicate email: got %v, want validation error", err)
	}
	if _, err := st.CreateBus(models.Bus{Number: "BL-1", Capacity: 10}); err != nil {
		t.Fatalf("create bus: %v", err)
	}
	if _, err := st.CreateBus(models.Bus{Number: "bl-1", Capacity: 10}); !domain.IsValidation(err) {
		t.Fatalf("duplicate number: got %v, want validation error", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	f := newFixture(t, 40, 1000)
	b, err := f.store.CreateBooking(models.Booking{
		UserID: f.user.ID, ScheduleID: f.schedule.ID, Seats: []string{"1A", "1B"}, TotalCents: 2000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	b.Seats[0] = "HACKED"
	fresh, err := f.store.GetBooking(b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if fresh.Seats[0] != "1A" {
		t.Fatalf("store state mutated through returned slice")
	}
}
