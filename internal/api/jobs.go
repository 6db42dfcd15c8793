package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyderfleet/fleetops/internal/auth"
	"github.com/hyderfleet/fleetops/internal/fleet"
	"github.com/hyderfleet/fleetops/internal/live"
)

// handleListJobs returns jobs matching every present filter.
//
// GET /jobs
// GET /jobs?status=pending&zone=Medchal
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := s.fleet.ListJobs(r.Context(), fleet.JobFilter{
		Status: fleet.JobStatus(q.Get("status")),
		Zone:   q.Get("zone"),
	})
	if err != nil {
		s.writeServiceError(w, r, err, "listing jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// handleGetJob returns one job or 404.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.fleet.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "getting job")
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// handleUpdateJob replaces a job and broadcasts job_update.
//
// PUT /jobs/{id}
// Body: full job record; the path id wins and a missing created_at becomes now.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r, auth.ActionJobUpdate) {
		return
	}

	var j fleet.DeliveryJob
	if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	j.ID = chi.URLParam(r, "id")
	if j.CreatedAt.IsZero() {
		j.CreatedAt = s.now().UTC()
	}

	matched, err := s.fleet.ReplaceJob(r.Context(), &j)
	if err != nil {
		s.writeServiceError(w, r, err, "updating job")
		return
	}
	if !matched {
		s.logger.Warn("job update matched no record", "job_id", j.ID)
	}

	s.publish(live.JobUpdate{Job: j})
	if s.history != nil {
		s.history.WriteJobStatus(j)
	}
	writeJSON(w, http.StatusOK, j)
}
