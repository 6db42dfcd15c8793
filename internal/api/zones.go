package api

import "net/http"

// handleListZones returns up to fleet.ZoneListLimit zones.
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.fleet.ListZones(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "listing zones")
		return
	}
	writeJSON(w, http.StatusOK, zones)
}
