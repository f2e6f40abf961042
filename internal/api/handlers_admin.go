package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental/internal/database"
	"carrental/internal/models"
)

// createVehicleRequest uses pointers so absent fields are distinguishable
// from zero values when reporting which one is missing.
type createVehicleRequest struct {
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	Category     *string  `json:"category"`
	Transmission *string  `json:"transmission"`
	FuelType     *string  `json:"fuel_type"`
	Seats        *int     `json:"seats"`
	PricePerDay  *float64 `json:"price_per_day"`
	ImageURL     *string  `json:"image_url"`
	Available    *bool    `json:"available"`
}

func (req *createVehicleRequest) missingField() string {
	switch {
	case req.Make == nil || *req.Make == "":
		return "make"
	case req.Model == nil || *req.Model == "":
		return "model"
	case req.Year == nil:
		return "year"
	case req.Category == nil || *req.Category == "":
		return "category"
	case req.Transmission == nil || *req.Transmission == "":
		return "transmission"
	case req.FuelType == nil || *req.FuelType == "":
		return "fuel_type"
	case req.Seats == nil:
		return "seats"
	case req.PricePerDay == nil:
		return "price_per_day"
	}
	return ""
}

func (s *Server) handleAdminCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if field := req.missingField(); field != "" {
		writeError(w, http.StatusBadRequest, "Missing required field: "+field)
		return
	}

	vehicle := &models.Vehicle{
		Make:         *req.Make,
		Model:        *req.Model,
		Year:         *req.Year,
		Category:     *req.Category,
		Transmission: *req.Transmission,
		FuelType:     *req.FuelType,
		Seats:        *req.Seats,
		PricePerDay:  *req.PricePerDay,
		Available:    true,
	}
	if req.ImageURL != nil {
		vehicle.ImageURL = *req.ImageURL
	}
	if req.Available != nil {
		vehicle.Available = *req.Available
	}

	if err := s.db.CreateVehicle(r.Context(), vehicle); err != nil {
		s.log.Error().Err(err).Msg("create vehicle failed")
		writeError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	writeSuccess(w, http.StatusCreated, "vehicle", vehicle)
}

func (s *Server) handleAdminUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	vehicle, err := s.db.UpdateVehicle(r.Context(), id, fields)
	if errors.Is(err, database.ErrNoValidFields) {
		writeError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("vehicle_id", id).Msg("update vehicle failed")
		writeError(w, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	writeSuccess(w, http.StatusOK, "vehicle", vehicle)
}

func (s *Server) handleAdminDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}

	err = s.db.DeleteVehicle(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrHasActiveBookings):
		writeError(w, http.StatusBadRequest, "Cannot delete vehicle with active bookings")
		return
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	case err != nil:
		s.log.Error().Err(err).Int64("vehicle_id", id).Msg("delete vehicle failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Vehicle deleted successfully",
		"status":  "success",
	})
}

func (s *Server) handleAdminListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.ListBookingsWithVehicles(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []*models.AdminBooking{}
	}

	writeSuccess(w, http.StatusOK, "bookings", bookings)
}
