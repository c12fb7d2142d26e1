package server

import (
	"fmt"
	"net/http"

	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/errors"
)

// handleBandplanFrequency answers "what can I do at this frequency".
// The f parameter accepts anything ParseFrequency understands: plain
// Hz, kHz, MHz with or without an explicit unit.
func (s *HamopsServer) handleBandplanFrequency(w http.ResponseWriter, r *http.Request) {
	if !s.plan.Available() {
		writeError(w, http.StatusServiceUnavailable, "Band plan data not available")
		return
	}

	raw := r.URL.Query().Get("f")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameter: f")
		return
	}
	freqHz, ok := bandplan.ParseFrequency(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse frequency: %q", raw))
		return
	}

	writeJSON(w, http.StatusOK, s.plan.FrequencyInfo(freqHz))
}

// handleBandplanRange lists segments overlapping [start, end]. Both
// parameters go through the frequency parser, so "7000 kHz" and
// "7.3" work equally.
func (s *HamopsServer) handleBandplanRange(w http.ResponseWriter, r *http.Request) {
	if !s.plan.Available() {
		writeError(w, http.StatusServiceUnavailable, "Band plan data not available")
		return
	}

	startHz, ok := parseFreqParam(w, r, "start")
	if !ok {
		return
	}
	endHz, ok := parseFreqParam(w, r, "end")
	if !ok {
		return
	}

	segments, err := s.plan.BandsInRange(startHz, endHz)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeAdapterError(w, s.logger, err, "bandplan range query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start": startHz,
		"end":   endHz,
		"count": len(segments),
		"bands": segments,
	})
}

func (s *HamopsServer) handleBandplanSearch(w http.ResponseWriter, r *http.Request) {
	if !s.plan.Available() {
		writeError(w, http.StatusServiceUnavailable, "Band plan data not available")
		return
	}

	params := r.URL.Query()
	q := bandplan.SearchQuery{
		Mode:         params.Get("mode"),
		BandName:     params.Get("band"),
		LicenseClass: params.Get("license"),
		TypicalUse:   params.Get("use"),
	}
	if raw := params.Get("min"); raw != "" {
		freqHz, ok := bandplan.ParseFrequency(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse frequency: %q", raw))
			return
		}
		q.MinFreq = &freqHz
	}
	if raw := params.Get("max"); raw != "" {
		freqHz, ok := bandplan.ParseFrequency(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse frequency: %q", raw))
			return
		}
		q.MaxFreq = &freqHz
	}

	writeJSON(w, http.StatusOK, s.plan.Search(q))
}

func (s *HamopsServer) handleBandplanSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.plan.Summary()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "Band plan data not available")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// parseFreqParam reads a required frequency query parameter, writing
// the 400 response itself when the parameter is missing or unparseable.
func parseFreqParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
		return 0, false
	}
	freqHz, ok := bandplan.ParseFrequency(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse frequency: %q", raw))
		return 0, false
	}
	return freqHz, true
}
