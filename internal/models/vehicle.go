package models

import "time"

// Vehicle is a rentable unit of the fleet. Available is a fleet-level flag:
// an unavailable vehicle is withdrawn from service regardless of bookings.
type Vehicle struct {
	ID           int64     `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Category     string    `json:"category"`
	Transmission string    `json:"transmission"`
	FuelType     string    `json:"fuel_type"`
	Seats        int       `json:"seats"`
	PricePerDay  float64   `json:"price_per_day"`
	ImageURL     string    `json:"image_url"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VehicleFilter narrows the public vehicle listing.
type VehicleFilter struct {
	Category     string
	Transmission string
	MinPrice     *float64
	MaxPrice     *float64
}
