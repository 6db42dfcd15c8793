package api

import (
	"net/http"
	"time"

	"github.com/hyderfleet/fleetops/internal/fleet"
)

// handleDailyDeliveries counts deliveries per UTC day over the last week.
//
// Response: {"daily_deliveries": {"2026-03-09": 4, ...}}
func (s *Server) handleDailyDeliveries(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	jobs, err := s.fleet.DeliveredJobs(r.Context(), now.Add(-fleet.DeliveryWindow))
	if err != nil {
		s.writeServiceError(w, r, err, "computing daily deliveries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"daily_deliveries": fleet.DailyDeliveries(jobs, now),
	})
}

// handleOnTimePercentage reports the share of delivered jobs that arrived
// within the grace period of their estimate.
//
// Response: {"on_time_percentage", "total_jobs", "on_time_jobs"}
func (s *Server) handleOnTimePercentage(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.fleet.DeliveredJobs(r.Context(), time.Time{})
	if err != nil {
		s.writeServiceError(w, r, err, "computing on-time percentage")
		return
	}
	writeJSON(w, http.StatusOK, fleet.OnTimePercentage(jobs, fleet.OnTimeGrace))
}

// handleZoneDelays returns the stored zones with their delay tallies.
//
// Response: {"zones": [...]}
func (s *Server) handleZoneDelays(w http.ResponseWriter, r *http.Request) {
	zones, err := s.fleet.ListZones(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "listing zone delays")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": zones})
}
