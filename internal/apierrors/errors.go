// Package apierrors defines the typed failures returned by the account
// service and their mapping to HTTP status codes.
//
// Every failure renders to the same wire body, {"message": ..., "errors": [...]},
// regardless of its kind.
package apierrors

import (
	"errors"
	"net/http"
)

// Kind tags an APIError with the class of failure it represents.
type Kind int

const (
	// KindGeneric is any failure without a more specific tag. Rendered as 500.
	KindGeneric Kind = iota
	// KindInvalidArgument is malformed or missing input to an API call.
	KindInvalidArgument
	// KindValidation is an entity that failed field-level rules.
	KindValidation
	// KindNotFound is a referenced entity that does not exist.
	KindNotFound
	// KindConflict is a uniqueness or state conflict.
	KindConflict
	// KindAccessDenied is an authentication or authorization failure.
	KindAccessDenied
)

var kindNames = map[Kind]string{
	KindGeneric:         "HttpError",
	KindInvalidArgument: "InvalidArgumentError",
	KindValidation:      "ValidationError",
	KindNotFound:        "NotFoundError",
	KindConflict:        "ConflictError",
	KindAccessDenied:    "AccessDeniedError",
}

var defaultMessages = map[Kind]string{
	KindGeneric:         "HTTP Error",
	KindInvalidArgument: "Invalid Argument",
	KindValidation:      "Validation Error",
	KindNotFound:        "HTTP Not Found Error",
	KindConflict:        "Resource Conflict",
	KindAccessDenied:    "Access Denied",
}

// String returns the variant name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindGeneric]
}

// StatusCode maps a kind to its HTTP status. Unknown kinds map to 500.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidArgument, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// APIError is a tagged failure carrying a primary message and the list of
// sub-messages that caused it.
type APIError struct {
	Kind    Kind
	Message string
	Errors  []string

	cause error
}

// Body is the wire representation of an APIError.
type Body struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func newError(kind Kind, errs []string, message string) *APIError {
	list := make([]string, 0, len(errs))
	list = append(list, errs...)

	if message == "" {
		if len(list) > 0 {
			message = list[0]
		} else {
			message = defaultMessages[kind]
		}
	}

	return &APIError{
		Kind:    kind,
		Message: message,
		Errors:  list,
	}
}

func single(kind Kind, message string) *APIError {
	if message == "" {
		message = defaultMessages[kind]
	}
	return newError(kind, []string{message}, message)
}

// NewErrInvalidArgument reports bad call-site input.
func NewErrInvalidArgument(message string) *APIError {
	return single(KindInvalidArgument, message)
}

// NewErrValidation reports one message per violated rule. An empty message
// falls back to the first violation.
func NewErrValidation(errs []string, message string) *APIError {
	return newError(KindValidation, errs, message)
}

// NewErrNotFound reports a missing entity.
func NewErrNotFound(message string) *APIError {
	return single(KindNotFound, message)
}

// NewErrConflict reports a uniqueness or state conflict.
func NewErrConflict(message string) *APIError {
	return single(KindConflict, message)
}

// NewErrAccessDenied reports an authentication failure. An empty message
// yields "Access Denied".
func NewErrAccessDenied(message string) *APIError {
	return single(KindAccessDenied, message)
}

// NewErrInternal wraps an unexpected failure. The cause is kept for
// server-side logging and never rendered.
func NewErrInternal(cause error, message string) *APIError {
	e := single(KindGeneric, message)
	e.cause = cause
	return e
}

// Error implements error.
func (e *APIError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an APIError of the same kind and message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// StatusCode returns the HTTP status for the error's kind.
func (e *APIError) StatusCode() int {
	return e.Kind.StatusCode()
}

// Body returns the wire body. Errors is never nil.
func (e *APIError) Body() Body {
	errs := e.Errors
	if errs == nil {
		errs = []string{}
	}
	return Body{Message: e.Message, Errors: errs}
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

// Normalize turns any failure into an APIError for rendering. A nil error
// becomes a generic error with defaultMessage, an untyped error becomes a
// generic error wrapping it.
func Normalize(err error, defaultMessage string) *APIError {
	if defaultMessage == "" {
		defaultMessage = "Internal Server Error"
	}
	if err == nil {
		return NewErrInternal(nil, defaultMessage)
	}
	if apiErr, ok := As(err); ok {
		return apiErr
	}
	return NewErrInternal(err, defaultMessage)
}
