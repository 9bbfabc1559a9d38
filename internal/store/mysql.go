package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

// MySQL is the durable backing. Same contract as Memory; multi-step
// writes run inside transactions so the atomicity rules hold here too.
type MySQL struct {
	DB *sql.DB
}

func NewMySQL(db *sql.DB) (*MySQL, error) {
	s := &MySQL{DB: db}
	if err := s.init(); err != nil {
		return nil, domain.InternalError{Msg: "schema init failed", Err: err}
	}
	return s, nil
}

func (s *MySQL) init() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(100) NOT NULL DEFAULT '',
			is_admin TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS routes (
			id CHAR(36) PRIMARY KEY,
			from_city VARCHAR(255) NOT NULL,
			to_city VARCHAR(255) NOT NULL,
			distance_km DOUBLE NOT NULL DEFAULT 0,
			duration_min INT NOT NULL DEFAULT 0,
			stops TEXT NOT NULL,
			active TINYINT(1) NOT NULL DEFAULT 1
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS buses (
			id CHAR(36) PRIMARY KEY,
			number VARCHAR(100) NOT NULL UNIQUE,
			operator VARCHAR(255) NOT NULL DEFAULT '',
			capacity INT NOT NULL,
			amenities TEXT NOT NULL,
			active TINYINT(1) NOT NULL DEFAULT 1
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id CHAR(36) PRIMARY KEY,
			bus_id CHAR(36) NOT NULL,
			route_id CHAR(36) NOT NULL,
			departure DATETIME NOT NULL,
			arrival DATETIME NOT NULL,
			price_cents BIGINT NOT NULL DEFAULT 0,
			available_seats INT NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'scheduled',
			optimized TINYINT(1) NOT NULL DEFAULT 0,
			KEY idx_route_departure (route_id, departure)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id CHAR(36) PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			schedule_id CHAR(36) NOT NULL,
			seats TEXT NOT NULL,
			total_cents BIGINT NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL DEFAULT 'confirmed',
			passenger_name VARCHAR(255) NOT NULL DEFAULT '',
			passenger_phone VARCHAR(100) NOT NULL DEFAULT '',
			payment_status VARCHAR(32) NOT NULL DEFAULT '',
			booked_at DATETIME NOT NULL,
			KEY idx_user (user_id),
			KEY idx_schedule (schedule_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS bus_locations (
			bus_id CHAR(36) PRIMARY KEY,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			schedule_id CHAR(36) NOT NULL DEFAULT '',
			current_stop VARCHAR(255) NOT NULL DEFAULT '',
			occupancy INT NOT NULL DEFAULT 0,
			delay_minutes INT NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS demand_predictions (
			id CHAR(36) PRIMARY KEY,
			route_id CHAR(36) NOT NULL,
			target_date CHAR(10) NOT NULL,
			hour_of_day INT NOT NULL,
			predicted INT NOT NULL,
			actual INT NULL,
			accuracy DOUBLE NULL,
			created_at DATETIME NOT NULL,
			KEY idx_route (route_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, stmt := range ddl {
		if _, err := s.DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func joinList(in []string) string { return strings.Join(in, ",") }

func splitList(in string) []string {
	if strings.TrimSpace(in) == "" {
		return nil
	}
	parts := strings.Split(in, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- users ---

func (s *MySQL) CreateUser(u models.User) (models.User, error) {
	if err := validateUser(u); err != nil {
		return models.User{}, err
	}
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	_, err := s.DB.Exec(`INSERT INTO users (id, email, password_hash, name, phone, is_admin, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.IsAdmin, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate") {
			return models.User{}, domain.ValidationError{Field: "email", Msg: "already registered"}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (s *MySQL) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (s *MySQL) GetUser(id string) (models.User, error) {
	return s.scanUser(s.DB.QueryRow(`SELECT id, email, password_hash, name, phone, is_admin, created_at FROM users WHERE id=?`, id))
}

func (s *MySQL) GetUserByEmail(email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.scanUser(s.DB.QueryRow(`SELECT id, email, password_hash, name, phone, is_admin, created_at FROM users WHERE email=?`, email))
}

// --- routes ---

func (s *MySQL) CreateRoute(r models.Route) (models.Route, error) {
	if err := validateRoute(r); err != nil {
		return models.Route{}, err
	}
	r.ID = uuid.NewString()
	r.Active = true
	_, err := s.DB.Exec(`INSERT INTO routes (id, from_city, to_city, distance_km, duration_min, stops, active)
		VALUES (?,?,?,?,?,?,1)`,
		r.ID, r.FromCity, r.ToCity, r.DistanceKM, r.DurationMin, joinList(r.Stops))
	if err != nil {
		return models.Route{}, domain.InternalError{Err: err}
	}
	return r, nil
}

const routeCols = `id, from_city, to_city, distance_km, duration_min, stops, active`

func scanRoute(scan func(dest ...any) error) (models.Route, error) {
	var r models.Route
	var stops string
	if err := scan(&r.ID, &r.FromCity, &r.ToCity, &r.DistanceKM, &r.DurationMin, &stops, &r.Active); err != nil {
		return models.Route{}, err
	}
	r.Stops = splitList(stops)
	return r, nil
}

func (s *MySQL) GetRoute(id string) (models.Route, error) {
	r, err := scanRoute(s.DB.QueryRow(`SELECT `+routeCols+` FROM routes WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	if err != nil {
		return models.Route{}, domain.InternalError{Err: err}
	}
	return r, nil
}

func (s *MySQL) queryRoutes(query string, args ...any) ([]models.Route, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.Route{}
	for rows.Next() {
		r, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQL) ListRoutes() ([]models.Route, error) {
	return s.queryRoutes(`SELECT ` + routeCols + ` FROM routes ORDER BY id`)
}

func (s *MySQL) SearchRoutes(from, to string) ([]models.Route, error) {
	query := `SELECT ` + routeCols + ` FROM routes WHERE active=1`
	args := []any{}
	if from = strings.TrimSpace(from); from != "" {
		query += ` AND LOWER(from_city)=LOWER(?)`
		args = append(args, from)
	}
	if to = strings.TrimSpace(to); to != "" {
		query += ` AND LOWER(to_city)=LOWER(?)`
		args = append(args, to)
	}
	return s.queryRoutes(query+` ORDER BY id`, args...)
}

func (s *MySQL) SetRouteActive(id string, active bool) error {
	return s.execOne(`UPDATE routes SET active=? WHERE id=?`, "route", active, id)
}

// execOne runs an update that must touch exactly one row.
func (s *MySQL) execOne(query, resource string, args ...any) error {
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

// --- buses ---

func (s *MySQL) CreateBus(b models.Bus) (models.Bus, error) {
	if err := validateBus(b); err != nil {
		return models.Bus{}, err
	}
	b.ID = uuid.NewString()
	b.Active = true
	_, err := s.DB.Exec(`INSERT INTO buses (id, number, operator, capacity, amenities, active)
		VALUES (?,?,?,?,?,1)`,
		b.ID, b.Number, b.Operator, b.Capacity, joinList(b.Amenities))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate") {
			return models.Bus{}, domain.ValidationError{Field: "number", Msg: "already in use"}
		}
		return models.Bus{}, domain.InternalError{Err: err}
	}
	return b, nil
}

const busCols = `id, number, operator, capacity, amenities, active`

func scanBus(scan func(dest ...any) error) (models.Bus, error) {
	var b models.Bus
	var amenities string
	if err := scan(&b.ID, &b.Number, &b.Operator, &b.Capacity, &amenities, &b.Active); err != nil {
		return models.Bus{}, err
	}
	b.Amenities = splitList(amenities)
	return b, nil
}

func (s *MySQL) GetBus(id string) (models.Bus, error) {
	b, err := scanBus(s.DB.QueryRow(`SELECT `+busCols+` FROM buses WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	if err != nil {
		return models.Bus{}, domain.InternalError{Err: err}
	}
	return b, nil
}

func (s *MySQL) ListBuses() ([]models.Bus, error) {
	rows, err := s.DB.Query(`SELECT ` + busCols + ` FROM buses ORDER BY number`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *MySQL) SetBusActive(id string, active bool) error {
	return s.execOne(`UPDATE buses SET active=? WHERE id=?`, "bus", active, id)
}

// --- schedules ---

func (s *MySQL) CreateSchedule(sc models.Schedule) (models.Schedule, error) {
	if err := validateSchedule(sc); err != nil {
		return models.Schedule{}, err
	}
	bus, err := s.GetBus(sc.BusID)
	if err != nil {
		return models.Schedule{}, err
	}
	if _, err := s.GetRoute(sc.RouteID); err != nil {
		return models.Schedule{}, err
	}
	if sc.AvailableSeats == 0 {
		sc.AvailableSeats = bus.Capacity
	}
	if sc.AvailableSeats > bus.Capacity {
		return models.Schedule{}, domain.ValidationError{Field: "availableSeats", Msg: "exceeds bus capacity"}
	}
	if sc.Status == "" {
		sc.Status = models.ScheduleScheduled
	}
	sc.ID = uuid.NewString()
	_, err = s.DB.Exec(`INSERT INTO schedules (id, bus_id, route_id, departure, arrival, price_cents, available_seats, status, optimized)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		sc.ID, sc.BusID, sc.RouteID, sc.Departure, sc.Arrival, sc.PriceCents, sc.AvailableSeats, string(sc.Status), sc.Optimized)
	if err != nil {
		return models.Schedule{}, domain.InternalError{Err: err}
	}
	return sc, nil
}

const scheduleCols = `id, bus_id, route_id, departure, arrival, price_cents, available_seats, status, optimized`

func scanSchedule(scan func(dest ...any) error) (models.Schedule, error) {
	var sc models.Schedule
	var status string
	if err := scan(&sc.ID, &sc.BusID, &sc.RouteID, &sc.Departure, &sc.Arrival, &sc.PriceCents, &sc.AvailableSeats, &status, &sc.Optimized); err != nil {
		return models.Schedule{}, err
	}
	sc.Status = models.ScheduleStatus(status)
	return sc, nil
}

func (s *MySQL) GetSchedule(id string) (models.Schedule, error) {
	sc, err := scanSchedule(s.DB.QueryRow(`SELECT `+scheduleCols+` FROM schedules WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, domain.NotFoundError{Resource: "schedule"}
	}
	if err != nil {
		return models.Schedule{}, domain.InternalError{Err: err}
	}
	return sc, nil
}

func (s *MySQL) querySchedules(query string, args ...any) ([]models.Schedule, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.Schedule{}
	for rows.Next() {
		sc, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *MySQL) ListSchedules() ([]models.Schedule, error) {
	return s.querySchedules(`SELECT ` + scheduleCols + ` FROM schedules ORDER BY departure`)
}

func (s *MySQL) SearchSchedules(routeID string, date time.Time) ([]models.Schedule, error) {
	query := `SELECT ` + scheduleCols + ` FROM schedules WHERE status <> 'cancelled'`
	args := []any{}
	if routeID != "" {
		query += ` AND route_id=?`
		args = append(args, routeID)
	}
	if !date.IsZero() {
		query += ` AND DATE(departure)=?`
		args = append(args, date.Format("2006-01-02"))
	}
	return s.querySchedules(query+` ORDER BY departure`, args...)
}

func (s *MySQL) UpdateSchedule(id string, upd models.ScheduleUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Departure != nil {
		sets = append(sets, "departure=?")
		args = append(args, *upd.Departure)
	}
	if upd.Arrival != nil {
		sets = append(sets, "arrival=?")
		args = append(args, *upd.Arrival)
	}
	if upd.PriceCents != nil {
		if *upd.PriceCents < 0 {
			return domain.ValidationError{Field: "price", Msg: "must not be negative"}
		}
		sets = append(sets, "price_cents=?")
		args = append(args, *upd.PriceCents)
	}
	if upd.AvailableSeats != nil {
		if *upd.AvailableSeats < 0 {
			return domain.ValidationError{Field: "availableSeats", Msg: "must not be negative"}
		}
		sets = append(sets, "available_seats=?")
		args = append(args, *upd.AvailableSeats)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, string(*upd.Status))
	}
	if upd.Optimized != nil {
		sets = append(sets, "optimized=?")
		args = append(args, *upd.Optimized)
	}
	if len(sets) == 0 {
		if _, err := s.GetSchedule(id); err != nil {
			return err
		}
		return nil
	}
	args = append(args, id)
	res, err := s.DB.Exec(`UPDATE schedules SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports zero rows for a no-change update too, so
		// distinguish missing from unchanged.
		if _, err := s.GetSchedule(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQL) GetScheduleWithDetails(id string) (models.ScheduleDetails, error) {
	sc, err := s.GetSchedule(id)
	if err != nil {
		return models.ScheduleDetails{}, err
	}
	bus, err := s.GetBus(sc.BusID)
	if err != nil {
		if domain.IsNotFound(err) {
			err = domain.IntegrityError{Resource: "schedule " + id, Ref: "bus " + sc.BusID}
		}
		return models.ScheduleDetails{}, err
	}
	route, err := s.GetRoute(sc.RouteID)
	if err != nil {
		if domain.IsNotFound(err) {
			err = domain.IntegrityError{Resource: "schedule " + id, Ref: "route " + sc.RouteID}
		}
		return models.ScheduleDetails{}, err
	}
	return models.ScheduleDetails{Schedule: sc, Bus: bus, Route: route}, nil
}

// --- bookings ---

func (s *MySQL) CreateBooking(b models.Booking) (models.Booking, error) {
	if err := validateBooking(b); err != nil {
		return models.Booking{}, err
	}
	if _, err := s.GetUser(b.UserID); err != nil {
		return models.Booking{}, err
	}
	if _, err := s.GetSchedule(b.ScheduleID); err != nil {
		return models.Booking{}, err
	}
	b.ID = uuid.NewString()
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	b.BookedAt = time.Now().UTC()
	_, err := s.DB.Exec(`INSERT INTO bookings (id, user_id, schedule_id, seats, total_cents, status, passenger_name, passenger_phone, payment_status, booked_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.ScheduleID, joinList(b.Seats), b.TotalCents, string(b.Status),
		b.PassengerName, b.PassengerPhone, b.PaymentStatus, b.BookedAt)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

const bookingCols = `id, user_id, schedule_id, seats, total_cents, status, passenger_name, passenger_phone, payment_status, booked_at`

func scanBooking(scan func(dest ...any) error) (models.Booking, error) {
	var b models.Booking
	var seats, status string
	if err := scan(&b.ID, &b.UserID, &b.ScheduleID, &seats, &b.TotalCents, &status,
		&b.PassengerName, &b.PassengerPhone, &b.PaymentStatus, &b.BookedAt); err != nil {
		return models.Booking{}, err
	}
	b.Seats = splitList(seats)
	b.Status = models.BookingStatus(status)
	return b, nil
}

func (s *MySQL) GetBooking(id string) (models.Booking, error) {
	b, err := scanBooking(s.DB.QueryRow(`SELECT `+bookingCols+` FROM bookings WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

func (s *MySQL) queryBookings(query string, args ...any) ([]models.Booking, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *MySQL) ListBookings() ([]models.Booking, error) {
	return s.queryBookings(`SELECT ` + bookingCols + ` FROM bookings ORDER BY booked_at`)
}

func (s *MySQL) ListBookingsByUser(userID string) ([]models.Booking, error) {
	return s.queryBookings(`SELECT `+bookingCols+` FROM bookings WHERE user_id=? ORDER BY booked_at`, userID)
}

func (s *MySQL) ListBookingsBySchedule(scheduleID string) ([]models.Booking, error) {
	return s.queryBookings(`SELECT `+bookingCols+` FROM bookings WHERE schedule_id=? ORDER BY booked_at`, scheduleID)
}

func (s *MySQL) UpdateBookingStatus(id string, status models.BookingStatus) error {
	if _, err := s.GetBooking(id); err != nil {
		return err
	}
	_, err := s.DB.Exec(`UPDATE bookings SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (s *MySQL) UpdateBookingPayment(id string, paymentStatus string) error {
	if _, err := s.GetBooking(id); err != nil {
		return err
	}
	_, err := s.DB.Exec(`UPDATE bookings SET payment_status=? WHERE id=?`, paymentStatus, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (s *MySQL) GetBookingWithDetails(id string) (models.BookingDetails, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return models.BookingDetails{}, err
	}
	details, err := s.GetScheduleWithDetails(b.ScheduleID)
	if err != nil {
		if domain.IsNotFound(err) {
			err = domain.IntegrityError{Resource: "booking " + id, Ref: "schedule " + b.ScheduleID}
		}
		return models.BookingDetails{}, err
	}
	return models.BookingDetails{Booking: b, Schedule: details}, nil
}

// --- locations ---

func (s *MySQL) UpsertLocation(loc models.BusLocation) error {
	bus, err := s.GetBus(loc.BusID)
	if err != nil {
		return err
	}
	if err := validateLocation(loc, bus.Capacity); err != nil {
		return err
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now().UTC()
	}
	_, err = s.DB.Exec(`INSERT INTO bus_locations (bus_id, latitude, longitude, schedule_id, current_stop, occupancy, delay_minutes, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE latitude=VALUES(latitude), longitude=VALUES(longitude), schedule_id=VALUES(schedule_id),
			current_stop=VALUES(current_stop), occupancy=VALUES(occupancy), delay_minutes=VALUES(delay_minutes), updated_at=VALUES(updated_at)`,
		loc.BusID, loc.Latitude, loc.Longitude, loc.ScheduleID, loc.CurrentStop, loc.Occupancy, loc.DelayMinutes, loc.UpdatedAt)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

const locationCols = `bus_id, latitude, longitude, schedule_id, current_stop, occupancy, delay_minutes, updated_at`

func scanLocation(scan func(dest ...any) error) (models.BusLocation, error) {
	var loc models.BusLocation
	err := scan(&loc.BusID, &loc.Latitude, &loc.Longitude, &loc.ScheduleID, &loc.CurrentStop,
		&loc.Occupancy, &loc.DelayMinutes, &loc.UpdatedAt)
	return loc, err
}

func (s *MySQL) GetLocation(busID string) (models.BusLocation, error) {
	loc, err := scanLocation(s.DB.QueryRow(`SELECT `+locationCols+` FROM bus_locations WHERE bus_id=?`, busID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BusLocation{}, domain.NotFoundError{Resource: "bus location"}
	}
	if err != nil {
		return models.BusLocation{}, domain.InternalError{Err: err}
	}
	return loc, nil
}

func (s *MySQL) ListLocations() ([]models.BusLocation, error) {
	rows, err := s.DB.Query(`SELECT ` + locationCols + ` FROM bus_locations ORDER BY bus_id`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.BusLocation{}
	for rows.Next() {
		loc, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// --- predictions ---

func (s *MySQL) CreatePrediction(p models.DemandPrediction) (models.DemandPrediction, error) {
	if err := validatePrediction(p); err != nil {
		return models.DemandPrediction{}, err
	}
	if _, err := s.GetRoute(p.RouteID); err != nil {
		return models.DemandPrediction{}, err
	}
	p.ID = uuid.NewString()
	p.Actual = nil
	p.Accuracy = nil
	p.CreatedAt = time.Now().UTC()
	_, err := s.DB.Exec(`INSERT INTO demand_predictions (id, route_id, target_date, hour_of_day, predicted, created_at)
		VALUES (?,?,?,?,?,?)`,
		p.ID, p.RouteID, p.Date, p.Hour, p.Predicted, p.CreatedAt)
	if err != nil {
		return models.DemandPrediction{}, domain.InternalError{Err: err}
	}
	return p, nil
}

func (s *MySQL) RecordPredictionActual(id string, actual int) (models.DemandPrediction, error) {
	if actual < 0 {
		return models.DemandPrediction{}, domain.ValidationError{Field: "actual", Msg: "must not be negative"}
	}
	p, err := s.getPrediction(id)
	if err != nil {
		return models.DemandPrediction{}, err
	}
	acc := predictionAccuracy(p.Predicted, actual)
	if _, err := s.DB.Exec(`UPDATE demand_predictions SET actual=?, accuracy=? WHERE id=?`, actual, acc, id); err != nil {
		return models.DemandPrediction{}, domain.InternalError{Err: err}
	}
	p.Actual = &actual
	p.Accuracy = &acc
	return p, nil
}

const predictionCols = `id, route_id, target_date, hour_of_day, predicted, actual, accuracy, created_at`

func scanPrediction(scan func(dest ...any) error) (models.DemandPrediction, error) {
	var p models.DemandPrediction
	var actual sql.NullInt64
	var accuracy sql.NullFloat64
	if err := scan(&p.ID, &p.RouteID, &p.Date, &p.Hour, &p.Predicted, &actual, &accuracy, &p.CreatedAt); err != nil {
		return models.DemandPrediction{}, err
	}
	if actual.Valid {
		v := int(actual.Int64)
		p.Actual = &v
	}
	if accuracy.Valid {
		v := accuracy.Float64
		p.Accuracy = &v
	}
	return p, nil
}

func (s *MySQL) getPrediction(id string) (models.DemandPrediction, error) {
	p, err := scanPrediction(s.DB.QueryRow(`SELECT `+predictionCols+` FROM demand_predictions WHERE id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DemandPrediction{}, domain.NotFoundError{Resource: "prediction"}
	}
	if err != nil {
		return models.DemandPrediction{}, domain.InternalError{Err: err}
	}
	return p, nil
}

func (s *MySQL) ListPredictionsByRoute(routeID string) ([]models.DemandPrediction, error) {
	query := `SELECT ` + predictionCols + ` FROM demand_predictions`
	args := []any{}
	if routeID != "" {
		query += ` WHERE route_id=?`
		args = append(args, routeID)
	}
	rows, err := s.DB.Query(query+` ORDER BY target_date, hour_of_day`, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()
	out := []models.DemandPrediction{}
	for rows.Next() {
		p, err := scanPrediction(rows.Scan)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
