package services

import (
	"sort"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/store"
)

// RouteStat aggregates ridership and revenue for one route.
type RouteStat struct {
	RouteID      string `json:"routeId"`
	From         string `json:"from"`
	To           string `json:"to"`
	Bookings     int    `json:"bookings"`
	SeatsSold    int    `json:"seatsSold"`
	RevenueCents int64  `json:"revenueCents"`
}

// Summary is the admin analytics payload. Cancelled bookings are
// excluded everywhere.
type Summary struct {
	TotalBookings int         `json:"totalBookings"`
	SeatsSold     int         `json:"seatsSold"`
	RevenueCents  int64       `json:"revenueCents"`
	ActiveBuses   int         `json:"activeBuses"`
	Routes        []RouteStat `json:"routes"`
}

type AnalyticsService struct {
	Store store.Store
}

func (s AnalyticsService) Summary() (Summary, error) {
	bookings, err := s.Store.ListBookings()
	if err != nil {
		return Summary{}, err
	}

	var out Summary
	byRoute := map[string]*RouteStat{}
	for _, b := range bookings {
		if b.Status == models.BookingCancelled {
			continue
		}
		out.TotalBookings++
		out.SeatsSold += len(b.Seats)
		out.RevenueCents += b.TotalCents

		sc, err := s.Store.GetSchedule(b.ScheduleID)
		if err != nil {
			if domain.IsNotFound(err) {
				// A booking pointing at a missing schedule is a data
				// defect, not something to average away.
				return Summary{}, domain.IntegrityError{Resource: "booking " + b.ID, Ref: "schedule " + b.ScheduleID}
			}
			return Summary{}, err
		}
		stat, ok := byRoute[sc.RouteID]
		if !ok {
			route, err := s.Store.GetRoute(sc.RouteID)
			if err != nil {
				if domain.IsNotFound(err) {
					return Summary{}, domain.IntegrityError{Resource: "schedule " + sc.ID, Ref: "route " + sc.RouteID}
				}
				return Summary{}, err
			}
			stat = &RouteStat{RouteID: route.ID, From: route.FromCity, To: route.ToCity}
			byRoute[sc.RouteID] = stat
		}
		stat.Bookings++
		stat.SeatsSold += len(b.Seats)
		stat.RevenueCents += b.TotalCents
	}

	buses, err := s.Store.ListBuses()
	if err != nil {
		return Summary{}, err
	}
	for _, b := range buses {
		if b.Active {
			out.ActiveBuses++
		}
	}

	out.Routes = make([]RouteStat, 0, len(byRoute))
	for _, stat := range byRoute {
		out.Routes = append(out.Routes, *stat)
	}
	sort.Slice(out.Routes, func(i, j int) bool { return out.Routes[i].RevenueCents > out.Routes[j].RevenueCents })
	return out, nil
}
