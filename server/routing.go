package server

import "net/http"

// registerRoutes wires every endpoint into the mux. All routes pass
// through the CORS and request-log middleware; the /api tree is
// additionally gated by the API key when one is configured.
func (s *HamopsServer) registerRoutes() {
	open := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.requestLogMiddleware(h))
	}
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return open(s.apiKeyMiddleware(h))
	}

	s.mux.HandleFunc("GET /{$}", open(s.handleRoot))
	s.mux.HandleFunc("GET /health", open(s.handleHealth))

	s.mux.HandleFunc("GET /api/bandplan/frequency", api(s.handleBandplanFrequency))
	s.mux.HandleFunc("GET /api/bandplan/range", api(s.handleBandplanRange))
	s.mux.HandleFunc("GET /api/bandplan/search", api(s.handleBandplanSearch))
	s.mux.HandleFunc("GET /api/bandplan/summary", api(s.handleBandplanSummary))

	s.mux.HandleFunc("GET /api/callsign/{call}", api(s.handleCallsignLookup))

	s.mux.HandleFunc("GET /api/aprs/location/{call}", api(s.handleAPRSLocation))
	s.mux.HandleFunc("GET /api/aprs/track/{call}", api(s.handleAPRSTrack))
	s.mux.HandleFunc("GET /api/aprs/weather/{call}", api(s.handleAPRSWeather))

	s.mux.HandleFunc("GET /api/propagation", api(s.handlePropagation))
}
