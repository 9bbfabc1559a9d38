package models

import "time"

// DemandPrediction is a stored forecast record for a route, date and
// hour. The forecasting math lives outside this system; records are
// written by admins and back-filled with actuals later.
type DemandPrediction struct {
	ID        string    `json:"id"`
	RouteID   string    `json:"routeId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Hour      int       `json:"hour"` // 0-23
	Predicted int       `json:"predicted"`
	Actual    *int      `json:"actual,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
