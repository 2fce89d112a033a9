package errcodes

import (
	"fmt"
	"net/http"
)

// Error is a failure with a user-facing message and the status of the page
// it is rendered on.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func newError(httpCode int, code, msg string) error {
	return &Error{HTTPCode: httpCode, Message: msg, Code: code}
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return *te == *err
}

// NotFound reports a missing record, e.g. NotFound("Author") reads
// "Author not found.".
func NotFound(resource string) error {
	return newError(http.StatusNotFound, "not_found", resource+" not found.")
}

// Forbidden reports an action the current user's role does not allow.
func Forbidden(action string) error {
	return newError(http.StatusForbidden, "forbidden", action+" is not allowed.")
}

func Unauthorized(msg string) error {
	return newError(http.StatusUnauthorized, "unauthorized", msg)
}

// Request decoding failures raised by the binder.

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type")
}

func UnknownParameter(param string) error {
	return newError(http.StatusUnprocessableEntity, "unknown_parameter", fmt.Sprintf("Unknown Parameter %q", param))
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_type_error", msg)
}

func ValidationError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_error", msg)
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, "malformed_payload", "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, "empty_request_body", "Request body can't be empty.")
}
