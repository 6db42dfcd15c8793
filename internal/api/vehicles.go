package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/live"
)

// handleListVehicles returns up to fleet.VehicleListLimit vehicles.
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.fleet.ListVehicles(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "listing vehicles")
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// handleGetVehicle returns one vehicle or 404.
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.fleet.GetVehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "getting vehicle")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleUpdateVehicle replaces a vehicle and broadcasts vehicle_update.
//
// PUT /vehicles/{id}
// Body: full vehicle record; the path id wins and last_updated is set to now.
// An id that matches nothing is not an error: the record is echoed and broadcast.
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, auth.ActionVehicleUpdate) {
		return
	}

	var v fleet.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	v.ID = chi.URLParam(r, "id")
	v.LastUpdated = s.now().UTC()

	matched, err := s.fleet.ReplaceVehicle(r.Context(), &v)
	if err != nil {
		s.writeServiceError(w, r, err, "updating vehicle")
		return
	}
	if !matched {
		s.logger.Warn("vehicle update matched no record", "vehicle_id", v.ID)
	}

	s.publish(live.VehicleUpdate{Vehicle: v})
	if s.history != nil {
		s.history.WriteVehiclePosition(v)
	}
	writeJSON(w, http.StatusOK, v)
}
