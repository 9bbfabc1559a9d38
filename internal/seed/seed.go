// Package seed fills an empty store with a demo fleet so the ingest
// loop has something to move and the API has data to serve.
package seed

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"busline/internal/domain/models"
	"busline/internal/store"
)

func Demo(st store.Store) error {
	if routes, err := st.ListRoutes(); err != nil {
		return err
	} else if len(routes) > 0 {
		return nil // already seeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(models.User{
		Email:        "admin@busline.local",
		PasswordHash: string(hash),
		Name:         "Operations Admin",
		IsAdmin:      true,
	}); err != nil {
		return err
	}

	hash, err = bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(models.User{
		Email:        "demo@busline.local",
		PasswordHash: string(hash),
		Name:         "Demo Passenger",
	}); err != nil {
		return err
	}

	routes := []models.Route{
		{FromCity: "Jakarta", ToCity: "Bandung", DistanceKM: 150, DurationMin: 180, Stops: []string{"Bekasi", "Purwakarta"}},
		{FromCity: "Bandung", ToCity: "Yogyakarta", DistanceKM: 390, DurationMin: 480, Stops: []string{"Tasikmalaya", "Purwokerto"}},
	}
	buses := []models.Bus{
		{Number: "BL-101", Operator: "Busline Express", Capacity: 40, Amenities: []string{"ac", "wifi"}},
		{Number: "BL-102", Operator: "Busline Express", Capacity: 32, Amenities: []string{"ac", "toilet"}},
	}
	coords := [][2]float64{
		{-6.2088, 106.8456}, // Jakarta
		{-6.9175, 107.6191}, // Bandung
	}

	for i := range routes {
		route, err := st.CreateRoute(routes[i])
		if err != nil {
			return err
		}
		bus, err := st.CreateBus(buses[i])
		if err != nil {
			return err
		}

		departure := time.Now().Add(time.Duration(i+1) * 6 * time.Hour).Truncate(time.Minute)
		schedule, err := st.CreateSchedule(models.Schedule{
			BusID:      bus.ID,
			RouteID:    route.ID,
			Departure:  departure,
			Arrival:    departure.Add(time.Duration(route.DurationMin) * time.Minute),
			PriceCents: int64(12500 * (i + 1)),
		})
		if err != nil {
			return err
		}

		if err := st.UpsertLocation(models.BusLocation{
			BusID:       bus.ID,
			Latitude:    coords[i][0],
			Longitude:   coords[i][1],
			ScheduleID:  schedule.ID,
			CurrentStop: route.FromCity,
			Occupancy:   0,
		}); err != nil {
			return err
		}
	}

	log.Printf("seeded demo data: %d routes, %d buses", len(routes), len(buses))
	return nil
}
