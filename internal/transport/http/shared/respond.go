// Package shared holds response helpers common to all HTTP handlers.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "spearow/pkg/errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into a consistent JSON envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	message := "internal error"
	var domainErr pkgerrors.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), map[string]string{
		"error":             string(code),
		"error_description": message,
	})
}
