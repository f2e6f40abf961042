package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental/internal/models"
)

const vehicleColumns = `id, make, model, year, category, transmission, fuel_type,
                 seats, price_per_day, image_url, available, created_at, updated_at`

// vehicleUpdateColumns are the fields admins may change on a vehicle.
var vehicleUpdateColumns = map[string]bool{
	"make":          true,
	"model":         true,
	"year":          true,
	"category":      true,
	"transmission":  true,
	"fuel_type":     true,
	"seats":         true,
	"price_per_day": true,
	"image_url":     true,
	"available":     true,
}

func (db *DB) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	query := `INSERT INTO vehicles (
				make, model, year, category, transmission, fuel_type,
				seats, price_per_day, image_url, available, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		v.Make,
		v.Model,
		v.Year,
		v.Category,
		v.Transmission,
		v.FuelType,
		v.Seats,
		v.PricePerDay,
		v.ImageURL,
		v.Available,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now

	return nil
}

func (db *DB) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`

	var v models.Vehicle
	err := db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.Transmission,
		&v.FuelType, &v.Seats, &v.PricePerDay, &v.ImageURL, &v.Available,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// ListAvailableVehicles returns fleet vehicles with available=1, optionally
// filtered by category, transmission and a price-per-day window.
func (db *DB) ListAvailableVehicles(ctx context.Context, filter models.VehicleFilter) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE available = 1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Transmission != "" {
		query += ` AND transmission = ?`
		args = append(args, filter.Transmission)
	}
	if filter.MinPrice != nil {
		query += ` AND price_per_day >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND price_per_day <= ?`
		args = append(args, *filter.MaxPrice)
	}
	query += ` ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.Transmission,
			&v.FuelType, &v.Seats, &v.PricePerDay, &v.ImageURL, &v.Available,
			&v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// UpdateVehicle applies a partial update from a field map and returns the
// updated row. Unknown keys are ignored by the caller's validation.
func (db *DB) UpdateVehicle(ctx context.Context, id int64, fields map[string]any) (*models.Vehicle, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for column, value := range fields {
		if !vehicleUpdateColumns[column] {
			continue
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}
	if len(setClauses) == 0 {
		return nil, ErrNoValidFields
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now(), id)

	query := `UPDATE vehicles SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrNotFound
	}

	return db.GetVehicle(ctx, id)
}

// DeleteVehicle removes a vehicle unless non-cancelled bookings reference it.
// The check and the delete run in one transaction.
func (db *DB) DeleteVehicle(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var active int
	queryCount := `SELECT COUNT(*) FROM bookings WHERE vehicle_id = ? AND status != ?`
	if err := tx.QueryRowContext(ctx, queryCount, id, models.StatusCancelled).Scan(&active); err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active > 0 {
		return ErrHasActiveBookings
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CountActiveBookings returns the number of non-cancelled bookings for a vehicle.
func (db *DB) CountActiveBookings(ctx context.Context, vehicleID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE vehicle_id = ? AND status != ?`
	err := db.QueryRowContext(ctx, query, vehicleID, models.StatusCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}
