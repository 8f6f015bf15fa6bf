package utils

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the generic error body.
type DetailResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// ErrorResponse is the body used by the login endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ResponseJSON writes payload as JSON with custom status code
func ResponseJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, data)
}

// returns 204 No Content
func ResponseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ------------- Error responses -------------

// returns 400 Bad Request keyed by field
func ResponseValidation(w http.ResponseWriter, fields map[string]string) {
	ResponseJSON(w, http.StatusBadRequest, fields)
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusBadRequest, DetailResponse{Detail: message})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message, code string) {
	ResponseJSON(w, http.StatusUnauthorized, DetailResponse{Detail: message, Code: code})
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusNotFound, DetailResponse{Detail: "Not found."})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusInternalServerError, DetailResponse{Detail: "Internal server error"})
}
