package api

import (
	"encoding/json"
	"net/http"
)

// writeJSON emits the response envelope. Payload maps carry their own
// "status" key; see writeSuccess and writeError.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess wraps an entity under its key with status=success.
func writeSuccess(w http.ResponseWriter, statusCode int, key string, entity any) {
	writeJSON(w, statusCode, map[string]any{key: entity, "status": "success"})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message, "status": "error"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
