package models

// Route is a named origin/destination pair with its intermediate stops.
// Deactivation flips Active; routes are never physically deleted so that
// booking history keeps resolving.
type Route struct {
	ID          string   `json:"id"`
	FromCity    string   `json:"from"`
	ToCity      string   `json:"to"`
	DistanceKM  float64  `json:"distanceKm"`
	DurationMin int      `json:"durationMinutes"`
	Stops       []string `json:"stops"`
	Active      bool     `json:"active"`
}

// Bus is one vehicle in the fleet. Number is unique across the operator.
type Bus struct {
	ID        string   `json:"id"`
	Number    string   `json:"number"`
	Operator  string   `json:"operator"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	Active    bool     `json:"active"`
}
