package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
// HTML characters are not escaped so stored text comes back byte for byte.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// WriteDetail writes the {"detail": message} error body
func WriteDetail(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"detail": message,
	})
}

// errInvalidBody marks request bodies that fail decoding or validation
var errInvalidBody = errors.New("invalid request body")

// decodeBody decodes a JSON body into dst and validates its struct tags
func decodeBody(r *http.Request, validate *validator.Validate, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
