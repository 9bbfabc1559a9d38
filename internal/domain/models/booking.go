package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a committed seat reservation. Seats is non-empty and
// disjoint from every other confirmed booking on the same schedule.
// TotalCents is price x seat count frozen at booking time.
type Booking struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	ScheduleID     string        `json:"scheduleId"`
	Seats          []string      `json:"seats"`
	TotalCents     int64         `json:"totalCents"`
	Status         BookingStatus `json:"status"`
	PassengerName  string        `json:"passengerName"`
	PassengerPhone string        `json:"passengerPhone"`
	PaymentStatus  string        `json:"paymentStatus"`
	BookedAt       time.Time     `json:"bookedAt"`
}

// PassengerDetails is the contact snapshot captured at booking time.
type PassengerDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// BookingDetails joins a Booking with its full schedule chain.
type BookingDetails struct {
	Booking  Booking         `json:"booking"`
	Schedule ScheduleDetails `json:"schedule"`
}
