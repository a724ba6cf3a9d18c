// Package httpx provides the JSON response envelope used by every endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body: {"success": bool, "data": ...}.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Respond writes the envelope with the given status code. A nil payload is
// serialized as an empty object so clients always receive a data key.
func Respond(w http.ResponseWriter, status int, success bool, data any) {
	if data == nil {
		data = struct{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: success, Data: data})
}

// OK writes a successful envelope with status 200.
func OK(w http.ResponseWriter, data any) {
	Respond(w, http.StatusOK, true, data)
}

// NoContent writes an empty 204 response. Per the API contract an empty
// collection is 204 with an empty body rather than 200 with [].
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
