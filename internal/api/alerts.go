package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/live"
)

// handleListAlerts returns alerts newest first.
//
// GET /alerts
// GET /alerts?acknowledged=false
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	var filter fleet.AlertFilter
	if raw := r.URL.Query().Get("acknowledged"); raw != "" {
		ack, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, "acknowledged must be true or false")
			return
		}
		filter.Acknowledged = &ack
	}

	alerts, err := s.fleet.ListAlerts(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, "listing alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleAcknowledgeAlert marks an alert acknowledged and broadcasts alert_acknowledged.
//
// PUT /alerts/{id}/acknowledge
// Response: {"message": "Alert acknowledged"}
func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, auth.ActionAlertAcknowledge) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.fleet.AcknowledgeAlert(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "acknowledging alert")
		return
	}

	s.publish(live.AlertAcknowledged{AlertID: id})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Alert acknowledged"})
}
