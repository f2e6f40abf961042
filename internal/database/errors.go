package database

import "errors"

var (
	// ErrNotFound is returned when a vehicle or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrHasActiveBookings blocks vehicle deletion while non-cancelled
	// bookings still reference it.
	ErrHasActiveBookings = errors.New("cannot delete vehicle with active bookings")

	// ErrNoValidFields is returned by partial updates when no updatable
	// column remains after filtering.
	ErrNoValidFields = errors.New("no valid fields to update")
)
