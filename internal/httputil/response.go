package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Error codes returned in JSON error bodies
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInvalidScore  = "INVALID_SCORE"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeMethodInvalid = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the body of every JSON error:
// {"error": {"code": "ERROR_CODE", "message": "Human readable message"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse is the body of simple acknowledgements such as {"status": "ok"}.
type StatusResponse struct {
	Status string `json:"status"`
}

// WriteJSON writes data as JSON with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent
		log.Printf("[httputil] Failed to encode response: %v", err)
	}
}

// WriteOK writes {"status": "ok"}.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// WriteBadRequestWithCode writes a 400 Bad Request error with a custom code
func WriteBadRequestWithCode(w http.ResponseWriter, code string, message string) {
	WriteError(w, http.StatusBadRequest, code, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed error
func WriteMethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, ErrCodeMethodInvalid, "Method not allowed")
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
