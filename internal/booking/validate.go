// Package booking holds the pure decision logic for booking admission,
// pricing and cancellation. It has no side effects; callers supply the
// vehicle, the competing ranges and "today".
package booking

import (
	"errors"
	"time"

	"carrental/internal/models"
)

var (
	ErrEndBeforeStart     = errors.New("end date must be after start date")
	ErrStartInPast        = errors.New("start date cannot be in the past")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrDatesConflict      = errors.New("vehicle is already booked for the selected dates")

	ErrNotOwner         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancellable   = errors.New("booking can no longer be cancelled")
	ErrCancelTooLate    = errors.New("cannot cancel past or ongoing bookings")
)

// Overlaps reports whether two half-open date ranges [s1,e1) and [s2,e2)
// intersect: they conflict unless e1 <= s2 or s1 >= e2.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return e1.After(s2) && s1.Before(e2)
}

// DayCount returns the whole number of days covered by [start, end).
// Inputs are calendar dates at midnight UTC.
func DayCount(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

// ValidateAndPrice decides whether a requested [start, end) range is
// admissible for the vehicle given the existing non-cancelled ranges, and
// returns the total price (price per day times whole days) on success.
func ValidateAndPrice(vehicle *models.Vehicle, start, end, today time.Time, existing []models.DateRange) (float64, error) {
	if !end.After(start) {
		return 0, ErrEndBeforeStart
	}
	if start.Before(today) {
		return 0, ErrStartInPast
	}
	if !vehicle.Available {
		return 0, ErrVehicleUnavailable
	}

	for _, r := range existing {
		if Overlaps(start, end, r.Start, r.End) {
			return 0, ErrDatesConflict
		}
	}

	return vehicle.PricePerDay * float64(DayCount(start, end)), nil
}

// CanCancel applies the cancellation rule: only the owner may cancel, only
// from a cancellable status, and only before the start date has arrived.
func CanCancel(b *models.Booking, actorID string, today time.Time) error {
	if b.UserID != actorID {
		return ErrNotOwner
	}
	if b.Status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !models.CancellableStatuses[b.Status] {
		return ErrNotCancellable
	}
	if !b.StartDate.After(today) {
		return ErrCancelTooLate
	}
	return nil
}

// ParseDate parses a wire-format calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, s)
}

// Today truncates now to a calendar date in UTC, matching ParseDate output.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
