package http

import (
	"encoding/json"
	"net/http"
)

// Error responses carry only a message; internal fault details stay in logs.
type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess wraps business data in the uniform success envelope.
func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"success": true,
		"data":    data,
	})
}

// writeMessageData is the auth-flow shape: a human message plus token data.
func writeMessageData(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, map[string]any{
		"message": message,
		"data":    data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Message: message})
}
