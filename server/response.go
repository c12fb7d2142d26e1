package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kf7lze/hamops/errors"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeAdapterError maps adapter errors onto HTTP statuses: not-found
// becomes 404, caller mistakes 400, missing upstreams 503, anything
// else a logged 502.
func writeAdapterError(w http.ResponseWriter, log *zap.SugaredLogger, err error, context string) {
	switch {
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.IsInvalidRequest(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.IsUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Errorw(context, "error", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
	}
}
