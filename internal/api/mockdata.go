package api

import "net/http"

// handleInitMockData seeds demonstration data into an empty store.
//
// POST /init-mock-data (unauthenticated)
// Response: {"message": "Mock data initialized successfully"} or
// {"message": "Mock data already initialized"}
func (s *Server) handleInitMockData(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeNotFound(w, "mock data is not available")
		return
	}

	res, err := s.seeder.Run(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "initializing mock data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": res.Message()})
}
