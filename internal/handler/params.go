package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"threadboard/internal/middleware"
	"threadboard/internal/models"
	"threadboard/internal/result"
)

// pathID parses a numeric path variable. It writes the 400 itself and
// reports false when the value is not a number.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		WriteError(w, result.StatusBadRequest, msgArgumentMismatch)
		return 0, false
	}
	return id, true
}

// pageable reads zero-based page and size. Missing or unparsable values fall
// back to the defaults.
func pageable(r *http.Request) models.Pageable {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 0
	}

	size, err := strconv.Atoi(query.Get("size"))
	if err != nil {
		size = models.DefaultPageSize
	}

	return models.NewPageable(page, size)
}

// tagNames accepts both tags=a,b and repeated tags parameters.
func tagNames(r *http.Request) []string {
	var names []string
	for _, value := range r.URL.Query()["tags"] {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, result.StatusBadRequest, msgMalformedBody)
		return false
	}
	return true
}

// writeUpdate decodes the body and applies update to it. An undecodable body
// is still run through update with the zero input, which never validates, so
// a missing or foreign resource answers 404 or 403 before the body is
// reported as malformed.
func writeUpdate[T, V any](w http.ResponseWriter, r *http.Request, update func(input T) result.Result[V]) {
	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var zero T
		if res := update(zero); res.IsError() && res.Status() != result.StatusBadRequest {
			writeResult(w, res)
			return
		}
		WriteError(w, result.StatusBadRequest, msgMalformedBody)
		return
	}

	writeResult(w, update(input))
}

// principal returns the caller's email, answering 401 when the request is
// anonymous.
func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := middleware.Principal(r.Context())
	if email == "" {
		WriteError(w, result.StatusUnauthorized, msgAuthRequired)
		return "", false
	}
	return email, true
}
