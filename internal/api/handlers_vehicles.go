package api

import (
	"errors"
	"net/http"
	"strconv"

	"carrental/internal/database"
	"carrental/internal/models"
)

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.VehicleFilter{
		Category:     q.Get("type"),
		Transmission: q.Get("transmission"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid min_price")
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid max_price")
			return
		}
		filter.MaxPrice = &v
	}

	vehicles, err := s.db.ListAvailableVehicles(r.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("list vehicles failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []*models.Vehicle{}
	}

	writeSuccess(w, http.StatusOK, "vehicles", vehicles)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid vehicle id")
		return
	}

	vehicle, err := s.db.GetVehicle(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("vehicle_id", id).Msg("get vehicle failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch vehicle")
		return
	}

	writeSuccess(w, http.StatusOK, "vehicle", vehicle)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
