package models

import "time"

// Booking reserves one vehicle for a half-open date range [StartDate, EndDate).
type Booking struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	VehicleID     int64     `json:"vehicle_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"` // pending, confirmed, cancelled, completed, active
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DateRange is a half-open booking interval used by the overlap check.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// VehicleSummary is the joined vehicle snapshot on admin booking listings.
type VehicleSummary struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Category string `json:"category"`
}

// AdminBooking is a booking with its vehicle summary for the admin listing.
type AdminBooking struct {
	Booking
	Vehicle VehicleSummary `json:"vehicles"`
}
