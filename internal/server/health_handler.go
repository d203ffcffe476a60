package server

import (
	"net/http"

	"github.com/aleister1102/urlist/internal/health"
)

type healthResponse struct {
	Status string `json:"status"`
	health.ResourceUsage
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ResourceUsage: s.monitor.Usage()})
}
