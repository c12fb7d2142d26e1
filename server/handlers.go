package server

import (
	"net/http"

	"github.com/kf7lze/hamops/internal/version"
)

func (s *HamopsServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "hamops",
		"version": version.Get().Version,
		"endpoints": []string{
			"/health",
			"/api/bandplan/frequency",
			"/api/bandplan/range",
			"/api/bandplan/search",
			"/api/bandplan/summary",
			"/api/callsign/{call}",
			"/api/aprs/location/{call}",
			"/api/aprs/track/{call}",
			"/api/aprs/weather/{call}",
			"/api/propagation",
		},
	})
}

func (s *HamopsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"version":          version.Get().Version,
		"bandplanLoaded":   s.plan.Available(),
		"bandplanSegments": len(s.plan.Segments()),
	})
}
