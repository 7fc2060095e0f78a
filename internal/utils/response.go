package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorPayload is the body of every failed request. Stack carries the error
// chain and is only filled outside production.
type ErrorPayload struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// JSONResponse sends payload as JSON with the given status
func JSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ErrorResponse sends a {"message": ...} body.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, ErrorPayload{Message: message})
}
