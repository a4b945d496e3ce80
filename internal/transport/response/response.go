package response

import (
	"encoding/json"
	"net/http"

	"github.com/pep299/lessonfeed/internal/apperror"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteRaw writes an already encoded JSON payload
func WriteRaw(w http.ResponseWriter, statusCode int, payload []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(payload)
	return err
}

// WriteError writes an error response
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteAppError writes err using its classified status and public message
func WriteAppError(w http.ResponseWriter, err error) error {
	return WriteError(w, apperror.StatusCode(err), apperror.PublicMessage(err))
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed error
func WriteMethodNotAllowed(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusMethodNotAllowed, message)
}
