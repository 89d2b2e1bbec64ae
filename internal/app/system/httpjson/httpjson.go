// Package httpjson holds the request/response helpers shared by the JSON
// API handlers.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/limits"
	"go.uber.org/zap"
)

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondRaw writes an already-encoded JSON body verbatim with the given
// status. Used when relaying an external service's response unchanged.
func RespondRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// Error maps err onto the API error taxonomy and writes the single JSON
// error shape. The full cause is logged; only the taxonomy message goes to
// the caller.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apierror.Status(err)
	if log != nil && status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	Respond(w, status, map[string]string{"error": apierror.Message(err)})
}

// Decode reads a bounded JSON body into dst. A malformed or oversized body
// is a validation failure.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.Validation("invalid JSON body")
	}
	return nil
}
