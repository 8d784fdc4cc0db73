package handlers

import (
	"encoding/json"
	"net/http"

	"threadboard/internal/result"
)

const (
	msgArgumentMismatch = "Method Argument Mismatch"
	msgMalformedBody    = "Malformed request body"
	msgAuthRequired     = "Authentication required"
)

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError answers with an error envelope.
func WriteError(w http.ResponseWriter, status result.Status, message string) {
	writeJSON(w, status.HTTPStatus(), result.Error[result.Void](status, message))
}

// writeResult answers with res and the HTTP status its kind maps to.
func writeResult[T any](w http.ResponseWriter, res result.Result[T]) {
	writeJSON(w, res.Status().HTTPStatus(), res)
}
