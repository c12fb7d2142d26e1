package server

import "net/http"

func (s *HamopsServer) handleCallsignLookup(w http.ResponseWriter, r *http.Request) {
	record, err := s.callsign.Lookup(r.Context(), r.PathValue("call"))
	if err != nil {
		writeAdapterError(w, s.logger, err, "callsign lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *HamopsServer) handleAPRSLocation(w http.ResponseWriter, r *http.Request) {
	record, err := s.aprs.Location(r.Context(), r.PathValue("call"))
	if err != nil {
		writeAdapterError(w, s.logger, err, "aprs location lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *HamopsServer) handleAPRSTrack(w http.ResponseWriter, r *http.Request) {
	records, err := s.aprs.Track(r.Context(), r.PathValue("call"))
	if err != nil {
		writeAdapterError(w, s.logger, err, "aprs track lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(records),
		"positions": records,
	})
}

func (s *HamopsServer) handleAPRSWeather(w http.ResponseWriter, r *http.Request) {
	record, err := s.aprs.Weather(r.Context(), r.PathValue("call"))
	if err != nil {
		writeAdapterError(w, s.logger, err, "aprs weather lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *HamopsServer) handlePropagation(w http.ResponseWriter, r *http.Request) {
	conditions, err := s.propagation.Current(r.Context())
	if err != nil {
		writeAdapterError(w, s.logger, err, "propagation fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}
