package domain

// Event is the server-to-client envelope pushed over the real-time channel.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventBookingCreated = "booking_created"
	EventBusLocations   = "bus_locations_update"
)

// BookingCreated is the payload for a booking_created event.
type BookingCreated struct {
	BookingID  string `json:"bookingId"`
	ScheduleID string `json:"scheduleId"`
}

// BusLocationUpdate is one fleet entry inside a bus_locations_update
// payload. One event per ingest tick carries the whole fleet, so the
// subscriber message rate does not grow with fleet size.
type BusLocationUpdate struct {
	BusID        string  `json:"busId"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Occupancy    int     `json:"occupancy"`
	CurrentStop  string  `json:"currentStop"`
	DelayMinutes int     `json:"delay"`
}
