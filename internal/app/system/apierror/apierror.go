// Package apierror defines the error taxonomy handlers map pipeline
// failures onto before responding. Every handler catches its own failures
// and converts them to exactly one member of this taxonomy; raw internal
// error text is never relayed to the caller.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error.
type Kind int

const (
	// KindValidation is a missing or malformed request field. Never retried.
	KindValidation Kind = iota + 1
	// KindNotFound is a referenced entity that does not exist.
	KindNotFound
	// KindConflict is a uniqueness invariant that would be violated.
	KindConflict
	// KindBackendContract is an external service that answered successfully
	// at the transport level but returned a payload violating its contract.
	KindBackendContract
	// KindUnavailable is a network failure, timeout, or non-2xx reaching an
	// external collaborator.
	KindUnavailable
)

// Error carries a classified, user-legible failure. Message must name the
// failing field or collaborator without leaking URLs or credentials; the
// wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a missing or malformed request field.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("organization").
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// BackendContract reports a well-connected external service answering with
// a payload that breaks its contract.
func BackendContract(service, detail string) *Error {
	return &Error{Kind: KindBackendContract, Message: service + ": " + detail}
}

// Unavailable reports a transport-level failure reaching a collaborator.
// The service name appears in the user-visible message so operators can
// tell which dependency is down.
func Unavailable(service string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: service + " unavailable", Err: cause}
}

// Status maps an error to its HTTP status code. Unclassified errors map
// to 500.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBackendContract:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Message returns the user-legible message for an error. Unclassified
// errors produce a generic message so internal detail never reaches the
// caller.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "something went wrong"
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
