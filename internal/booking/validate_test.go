package booking

import (
	"testing"
	"time"

	"carrental/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "2024-01-01", "2024-01-04", "2024-01-01", "2024-01-04", true},
		{"contained", "2024-01-02", "2024-01-03", "2024-01-01", "2024-01-04", true},
		{"partial_front", "2023-12-30", "2024-01-02", "2024-01-01", "2024-01-04", true},
		{"partial_back", "2024-01-03", "2024-01-06", "2024-01-01", "2024-01-04", true},
		{"touching_end", "2024-01-04", "2024-01-06", "2024-01-01", "2024-01-04", false},
		{"touching_start", "2023-12-28", "2024-01-01", "2024-01-01", "2024-01-04", false},
		{"disjoint", "2024-02-01", "2024-02-05", "2024-01-01", "2024-01-04", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(date(tc.s1), date(tc.e1), date(tc.s2), date(tc.e2))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateAndPrice(t *testing.T) {
	vehicle := &models.Vehicle{ID: 1, PricePerDay: 50.00, Available: true}
	today := date("2024-01-01")

	t.Run("prices_whole_days", func(t *testing.T) {
		total, err := ValidateAndPrice(vehicle, date("2024-01-01"), date("2024-01-04"), today, nil)
		assert.NoError(t, err)
		assert.Equal(t, 150.00, total)
	})

	t.Run("end_not_after_start", func(t *testing.T) {
		_, err := ValidateAndPrice(vehicle, date("2024-01-04"), date("2024-01-04"), today, nil)
		assert.ErrorIs(t, err, ErrEndBeforeStart)

		_, err = ValidateAndPrice(vehicle, date("2024-01-04"), date("2024-01-02"), today, nil)
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("start_in_past", func(t *testing.T) {
		_, err := ValidateAndPrice(vehicle, date("2023-12-31"), date("2024-01-02"), today, nil)
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("start_today_allowed", func(t *testing.T) {
		_, err := ValidateAndPrice(vehicle, date("2024-01-01"), date("2024-01-02"), today, nil)
		assert.NoError(t, err)
	})

	t.Run("unavailable_vehicle", func(t *testing.T) {
		parked := &models.Vehicle{ID: 2, PricePerDay: 50.00, Available: false}
		_, err := ValidateAndPrice(parked, date("2024-01-02"), date("2024-01-04"), today, nil)
		assert.ErrorIs(t, err, ErrVehicleUnavailable)
	})

	t.Run("conflicting_range", func(t *testing.T) {
		existing := []models.DateRange{{Start: date("2024-01-03"), End: date("2024-01-06")}}
		_, err := ValidateAndPrice(vehicle, date("2024-01-05"), date("2024-01-08"), today, existing)
		assert.ErrorIs(t, err, ErrDatesConflict)
	})

	t.Run("back_to_back_allowed", func(t *testing.T) {
		existing := []models.DateRange{{Start: date("2024-01-03"), End: date("2024-01-06")}}
		total, err := ValidateAndPrice(vehicle, date("2024-01-06"), date("2024-01-08"), today, existing)
		assert.NoError(t, err)
		assert.Equal(t, 100.00, total)
	})

	t.Run("cancelled_ranges_not_passed", func(t *testing.T) {
		// Callers exclude cancelled bookings; an empty slice means no conflict.
		total, err := ValidateAndPrice(vehicle, date("2024-01-02"), date("2024-01-05"), today, []models.DateRange{})
		assert.NoError(t, err)
		assert.Equal(t, 150.00, total)
	})
}

func TestCanCancel(t *testing.T) {
	today := date("2024-06-01")
	base := models.Booking{
		ID:        7,
		UserID:    "user-1",
		StartDate: date("2024-06-10"),
		EndDate:   date("2024-06-12"),
		Status:    models.StatusPending,
	}

	t.Run("future_pending_ok", func(t *testing.T) {
		b := base
		assert.NoError(t, CanCancel(&b, "user-1", today))
	})

	t.Run("confirmed_ok", func(t *testing.T) {
		b := base
		b.Status = models.StatusConfirmed
		assert.NoError(t, CanCancel(&b, "user-1", today))
	})

	t.Run("foreign_actor", func(t *testing.T) {
		b := base
		assert.ErrorIs(t, CanCancel(&b, "user-2", today), ErrNotOwner)
	})

	t.Run("already_cancelled", func(t *testing.T) {
		b := base
		b.Status = models.StatusCancelled
		assert.ErrorIs(t, CanCancel(&b, "user-1", today), ErrAlreadyCancelled)
	})

	t.Run("completed_and_active_blocked", func(t *testing.T) {
		for _, status := range []string{models.StatusCompleted, models.StatusActive} {
			b := base
			b.Status = status
			assert.ErrorIs(t, CanCancel(&b, "user-1", today), ErrNotCancellable)
		}
	})

	t.Run("starts_today_blocked", func(t *testing.T) {
		b := base
		b.StartDate = today
		assert.ErrorIs(t, CanCancel(&b, "user-1", today), ErrCancelTooLate)
	})

	t.Run("already_started_blocked", func(t *testing.T) {
		b := base
		b.StartDate = date("2024-05-20")
		assert.ErrorIs(t, CanCancel(&b, "user-1", today), ErrCancelTooLate)
	})
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, 3, DayCount(date("2024-01-01"), date("2024-01-04")))
	assert.Equal(t, 1, DayCount(date("2024-02-28"), date("2024-02-29")))
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 45, 1, 0, time.FixedZone("X", 3*3600))
	assert.Equal(t, date("2024-03-15"), Today(now))
}
