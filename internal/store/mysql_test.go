package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

func newMockStore(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &MySQL{DB: db}, mock
}

func scheduleRow(id string) *sqlmock.Rows {
	dep := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "bus_id", "route_id", "departure", "arrival", "price_cents", "available_seats", "status", "optimized"}).
		AddRow(id, "bus-1", "route-1", dep, dep.Add(3*time.Hour), int64(1000), 40, "scheduled", false)
}

func TestMySQLGetSchedule(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id=").
		WithArgs("sched-1").
		WillReturnRows(scheduleRow("sched-1"))

	sc, err := st.GetSchedule("sched-1")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sc.AvailableSeats != 40 || sc.Status != models.ScheduleScheduled || sc.PriceCents != 1000 {
		t.Fatalf("unexpected schedule: %+v", sc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLGetScheduleNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := st.GetSchedule("missing"); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestMySQLUpdateScheduleSeats(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE schedules SET available_seats=").
		WithArgs(39, "sched-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	seats := 39
	if err := st.UpdateSchedule("sched-1", models.ScheduleUpdate{AvailableSeats: &seats}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUpdateScheduleRejectsNegativeSeats(t *testing.T) {
	st, _ := newMockStore(t)

	seats := -1
	if err := st.UpdateSchedule("sched-1", models.ScheduleUpdate{AvailableSeats: &seats}); !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestMySQLCreateBooking(t *testing.T) {
	st, mock := newMockStore(t)

	created := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "phone", "is_admin", "created_at"}).
			AddRow("user-1", "rider@example.com", "x", "Rider", "", false, created))
	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id=").
		WithArgs("sched-1").
		WillReturnRows(scheduleRow("sched-1"))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))

	b, err := st.CreateBooking(models.Booking{
		UserID:     "user-1",
		ScheduleID: "sched-1",
		Seats:      []string{"1A", "1B"},
		TotalCents: 2000,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.ID == "" || b.Status != models.BookingConfirmed {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUpsertLocation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM buses WHERE id=").
		WithArgs("bus-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "operator", "capacity", "amenities", "active"}).
			AddRow("bus-1", "BL-1", "Busline", 40, "ac,wifi", true))
	mock.ExpectExec("INSERT INTO bus_locations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.UpsertLocation(models.BusLocation{BusID: "bus-1", Latitude: -6.2, Longitude: 106.8, Occupancy: 12})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLUpsertLocationRejectsOverCapacity(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM buses WHERE id=").
		WithArgs("bus-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "operator", "capacity", "amenities", "active"}).
			AddRow("bus-1", "BL-1", "Busline", 40, "", true))

	err := st.UpsertLocation(models.BusLocation{BusID: "bus-1", Occupancy: 41})
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}
