package apperr

import "net/http"

// StatusOf maps the error taxonomy onto HTTP status codes. Untagged
// errors are treated as internal failures.
func StatusOf(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsStore(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to put in a response body.
// Store failure detail stays in the log; clients get a generic message.
func PublicMessage(err error) string {
	if IsStore(err) {
		return "storage operation failed"
	}
	return err.Error()
}
