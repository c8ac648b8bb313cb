package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// MaxJSONBody caps request bodies read by ReadJSON.
const MaxJSONBody = 1 << 20

// ErrTrailingData is returned by ReadJSON when the body holds more than one
// JSON value.
var ErrTrailingData = errors.New("unexpected data after json value")

// WriteJSON encodes data and writes it with statusCode. When encoding fails
// nothing but a 500 is written and the error is returned.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return w.Write(body)
}

// ReadJSON decodes exactly one JSON value of at most MaxJSONBody bytes from
// the request body into dst.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
