// Package apperr defines the error taxonomy shared by every handler:
// validation failures, missing records, and store failures. Handlers map
// the tags to HTTP status classes; store detail is logged, never returned.
package apperr

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags. Exactly one tag is attached per error.
var (
	TagValidation = goerr.NewTag("validation")
	TagNotFound   = goerr.NewTag("not_found")
	TagStore      = goerr.NewTag("store")
)

// Validation builds a field-level validation error. Never retried.
func Validation(field, msg string) error {
	return goerr.New(msg, goerr.T(TagValidation), goerr.V("field", field))
}

// NotFound builds a missing-record error.
func NotFound(kind, id string) error {
	return goerr.New(kind+" not found", goerr.T(TagNotFound), goerr.V("kind", kind), goerr.V("id", id))
}

// Store wraps a store-reported failure. Surfaced as a 5xx-equivalent with
// a generic message; the wrapped cause stays in the log only.
func Store(err error, msg string) error {
	return goerr.Wrap(err, msg, goerr.T(TagStore))
}

// IsValidation reports whether err carries the validation tag.
func IsValidation(err error) bool { return goerr.HasTag(err, TagValidation) }

// IsNotFound reports whether err carries the not-found tag.
func IsNotFound(err error) bool { return goerr.HasTag(err, TagNotFound) }

// IsStore reports whether err carries the store tag.
func IsStore(err error) bool { return goerr.HasTag(err, TagStore) }
