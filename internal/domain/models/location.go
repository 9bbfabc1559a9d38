package models

import "time"

// BusLocation is the current position record for one bus, keyed by
// BusID (one row per bus, mutated in place every ingest tick).
// 0 <= Occupancy <= Bus.Capacity, DelayMinutes >= 0.
type BusLocation struct {
	BusID        string    `json:"busId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	ScheduleID   string    `json:"scheduleId,omitempty"`
	CurrentStop  string    `json:"currentStop,omitempty"`
	Occupancy    int       `json:"occupancy"`
	DelayMinutes int       `json:"delayMinutes"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
