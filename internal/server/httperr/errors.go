// Package httperr defines the typed errors that services raise and the HTTP
// surface translates. Services never write status codes themselves; they
// return one of these and the single translator in httpapi serializes it.
package httperr

import (
	"fmt"
	"net/http"
)

// StatusError is an error that maps to a specific HTTP status with a short
// machine-readable reason (serialized as {"error": reason}).
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return http.StatusText(e.Status)
	}
	return e.Reason
}

// New builds a StatusError. An empty reason falls back to the standard
// status text when serialized.
func New(status int, reason string) *StatusError {
	return &StatusError{Status: status, Reason: reason}
}

func Unauthenticated() *StatusError { return New(http.StatusUnauthorized, "unauthenticated") }
func Forbidden() *StatusError       { return New(http.StatusForbidden, "forbidden") }
func NotFound() *StatusError        { return New(http.StatusNotFound, "not_found") }

// BadRequest is used for validation failures (text_required, date_range,
// invalid_request).
func BadRequest(reason string) *StatusError { return New(http.StatusBadRequest, reason) }

// IfMatchRequired: the mutating request carried no If-Match header.
func IfMatchRequired() *StatusError {
	return New(http.StatusPreconditionRequired, "if_match_required")
}

// BadIfMatch: the If-Match header was present but not a quoted integer.
func BadIfMatch() *StatusError {
	return New(http.StatusPreconditionFailed, "bad_if_match")
}

// NotPending: an absence transition was attempted on a non-PENDING row.
func NotPending() *StatusError { return New(http.StatusConflict, "not_pending") }

// VersionMismatchError is raised when the client's If-Match (or a concurrent
// writer) lost the optimistic-concurrency race. The body carries the current
// version so the client can re-read and retry.
type VersionMismatchError struct {
	Current int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch, current version %d", e.Current)
}

// UpstreamError carries an upstream HTTP status and body that must be
// surfaced to the caller unchanged (the polish client's pass-through path).
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Status)
}
