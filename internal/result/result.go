// Package result provides the two-armed outcome returned by every content
// operation: a success value or an ErrorResponse, plus a status kind the
// transport maps to an HTTP status.
package result

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidState is the panic value of an accessor called on the wrong variant.
var ErrInvalidState = errors.New("result: accessor called on the wrong variant")

// Status is the kind of an outcome.
type Status int

const (
	StatusOK Status = iota
	StatusCreated
	StatusBadRequest
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusInternal
)

// HTTPStatus returns the HTTP status code for s.
func (s Status) HTTPStatus() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusCreated:
		return http.StatusCreated
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code is the status-like string carried in ErrorResponse.Code.
func (s Status) Code() string {
	return strconv.Itoa(s.HTTPStatus())
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCreated:
		return "Created"
	case StatusBadRequest:
		return "BadRequest"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "NotFound"
	default:
		return "Internal"
	}
}

// ErrorResponse is the error payload.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Void is the value type of operations that return nothing on success.
// It encodes as JSON null.
type Void struct{}

func (Void) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Result holds either a value or an ErrorResponse, never both.
type Result[T any] struct {
	value  T
	err    *ErrorResponse
	status Status
}

// Success wraps v with status OK.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, status: StatusOK}
}

// Created wraps v with status Created.
func Created[T any](v T) Result[T] {
	return Result[T]{value: v, status: StatusCreated}
}

// Error builds a failed result. Success statuses are coerced to Internal so a
// failure can never report a 2xx code.
func Error[T any](status Status, message string) Result[T] {
	if status == StatusOK || status == StatusCreated {
		status = StatusInternal
	}
	return Result[T]{
		err:    &ErrorResponse{Message: message, Code: status.Code()},
		status: status,
	}
}

// Forward re-types a failed result. It panics on a success.
func Forward[T, U any](r Result[U]) Result[T] {
	if r.err == nil {
		panic(ErrInvalidState)
	}
	return Result[T]{err: r.err, status: r.status}
}

func (r Result[T]) IsSuccess() bool { return r.err == nil }

func (r Result[T]) IsError() bool { return r.err != nil }

func (r Result[T]) Status() Status { return r.status }

// Value returns the success value. It panics with ErrInvalidState on an error result.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic(ErrInvalidState)
	}
	return r.value
}

// Err returns the error payload. It panics with ErrInvalidState on a success result.
func (r Result[T]) Err() ErrorResponse {
	if r.err == nil {
		panic(ErrInvalidState)
	}
	return *r.err
}

// MarshalJSON encodes {"value": ...} or {"error": {...}}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(struct {
			Error *ErrorResponse `json:"error"`
		}{r.err})
	}
	return json.Marshal(struct {
		Value T `json:"value"`
	}{r.value})
}
