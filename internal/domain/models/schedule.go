package models

import "time"

type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleInProgress ScheduleStatus = "in_progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleCancelled  ScheduleStatus = "cancelled"
)

// Bookable reports whether new bookings may be taken against the status.
func (s ScheduleStatus) Bookable() bool {
	return s == ScheduleScheduled || s == ScheduleInProgress
}

// Schedule is one timetabled trip of a Bus on a Route.
//
// AvailableSeats is the authoritative remaining inventory: it only
// decreases through committed bookings and increases through booking
// cancellation. 0 <= AvailableSeats <= Bus.Capacity at all times.
type Schedule struct {
	ID             string         `json:"id"`
	BusID          string         `json:"busId"`
	RouteID        string         `json:"routeId"`
	Departure      time.Time      `json:"departure"`
	Arrival        time.Time      `json:"arrival"`
	PriceCents     int64          `json:"priceCents"`
	AvailableSeats int            `json:"availableSeats"`
	Status         ScheduleStatus `json:"status"`
	Optimized      bool           `json:"optimized"`
}

// ScheduleUpdate supports PATCH-style updates via pointer presence.
type ScheduleUpdate struct {
	Departure      *time.Time
	Arrival        *time.Time
	PriceCents     *int64
	AvailableSeats *int
	Status         *ScheduleStatus
	Optimized      *bool
}

// ScheduleDetails joins a Schedule with its Bus and Route.
type ScheduleDetails struct {
	Schedule Schedule `json:"schedule"`
	Bus      Bus      `json:"bus"`
	Route    Route    `json:"route"`
}
