package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carrental/internal/booking"
	"carrental/internal/models"
)

const bookingColumns = `id, user_id, vehicle_id, start_date, end_date, total_amount,
                 status, customer_name, customer_email, created_at, updated_at`

// CreateBooking validates and inserts a booking inside one transaction. The
// overlap check re-runs against committed rows under the same transaction as
// the insert, so two concurrent requests for the same vehicle and range
// cannot both succeed.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking, today time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var vehicle models.Vehicle
	queryVehicle := `SELECT id, price_per_day, available FROM vehicles WHERE id = ?`
	err = tx.QueryRowContext(ctx, queryVehicle, b.VehicleID).Scan(
		&vehicle.ID, &vehicle.PricePerDay, &vehicle.Available,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get vehicle in tx: %w", err)
	}

	ranges, err := activeRangesTx(ctx, tx, b.VehicleID)
	if err != nil {
		return err
	}

	total, err := booking.ValidateAndPrice(&vehicle, b.StartDate, b.EndDate, today, ranges)
	if err != nil {
		return err
	}

	queryInsert := `INSERT INTO bookings (
				user_id, vehicle_id, start_date, end_date, total_amount,
				status, customer_name, customer_email, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		b.UserID,
		b.VehicleID,
		b.StartDate.Format(models.DateLayout),
		b.EndDate.Format(models.DateLayout),
		total,
		models.StatusPending,
		b.CustomerName,
		b.CustomerEmail,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	b.ID = id
	b.TotalAmount = total
	b.Status = models.StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now

	return tx.Commit()
}

func activeRangesTx(ctx context.Context, tx *sql.Tx, vehicleID int64) ([]models.DateRange, error) {
	query := `SELECT start_date, end_date FROM bookings WHERE vehicle_id = ? AND status != ?`
	rows, err := tx.QueryContext(ctx, query, vehicleID, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked ranges in tx: %w", err)
	}
	defer rows.Close()

	var ranges []models.DateRange
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return nil, fmt.Errorf("failed to scan booked range: %w", err)
		}
		start, err := time.Parse(models.DateLayout, startStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start date %s: %w", startStr, err)
		}
		end, err := time.Parse(models.DateLayout, endStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end date %s: %w", endStr, err)
		}
		ranges = append(ranges, models.DateRange{Start: start, End: end})
	}
	return ranges, rows.Err()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return db.scanBookingRow(db.QueryRowContext(ctx, query, id))
}

// GetUserBooking returns the booking only when it belongs to the user,
// matching the owner-scoped lookup of the cancel and payment flows.
func (db *DB) GetUserBooking(ctx context.Context, id int64, userID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND user_id = ?`
	return db.scanBookingRow(db.QueryRowContext(ctx, query, id, userID))
}

func (db *DB) scanBookingRow(row *sql.Row) (*models.Booking, error) {
	b := &models.Booking{}
	var startStr, endStr string
	err := row.Scan(
		&b.ID, &b.UserID, &b.VehicleID, &startStr, &endStr, &b.TotalAmount,
		&b.Status, &b.CustomerName, &b.CustomerEmail, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if err := parseBookingDates(b, startStr, endStr); err != nil {
		return nil, err
	}
	return b, nil
}

func parseBookingDates(b *models.Booking, startStr, endStr string) error {
	var err error
	b.StartDate, err = time.Parse(models.DateLayout, startStr)
	if err != nil {
		return fmt.Errorf("failed to parse booking start date %s: %w", startStr, err)
	}
	b.EndDate, err = time.Parse(models.DateLayout, endStr)
	if err != nil {
		return fmt.Errorf("failed to parse booking end date %s: %w", endStr, err)
	}
	return nil
}

// ListUserBookings returns all bookings owned by the user, newest first.
func (db *DB) ListUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var startStr, endStr string
		err := rows.Scan(
			&b.ID, &b.UserID, &b.VehicleID, &startStr, &endStr, &b.TotalAmount,
			&b.Status, &b.CustomerName, &b.CustomerEmail, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if err := parseBookingDates(b, startStr, endStr); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListBookingsWithVehicles returns all bookings joined with a vehicle
// summary for the admin listing, newest first.
func (db *DB) ListBookingsWithVehicles(ctx context.Context) ([]*models.AdminBooking, error) {
	query := `SELECT b.id, b.user_id, b.vehicle_id, b.start_date, b.end_date,
	                 b.total_amount, b.status, b.customer_name, b.customer_email,
					 b.created_at, b.updated_at, v.make, v.model, v.category
              FROM bookings b
              JOIN vehicles v ON v.id = b.vehicle_id
              ORDER BY b.created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.AdminBooking
	for rows.Next() {
		ab := &models.AdminBooking{}
		var startStr, endStr string
		err := rows.Scan(
			&ab.ID, &ab.UserID, &ab.VehicleID, &startStr, &endStr, &ab.TotalAmount,
			&ab.Status, &ab.CustomerName, &ab.CustomerEmail, &ab.CreatedAt, &ab.UpdatedAt,
			&ab.Vehicle.Make, &ab.Vehicle.Model, &ab.Vehicle.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if err := parseBookingDates(&ab.Booking, startStr, endStr); err != nil {
			return nil, err
		}
		bookings = append(bookings, ab)
	}
	return bookings, rows.Err()
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
