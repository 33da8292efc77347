package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the JSON body of every non-2xx API response.
type ErrorEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorEnvelope{Status: "error", StatusCode: code, Message: msg})
}
