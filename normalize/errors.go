package normalize

import (
	"errors"
	"fmt"

	"github.com/poiesic/specmatch/core"
)

var (
	// ErrUnparsable indicates a raw value that cannot be normalized.
	// Callers treat the attribute as absent rather than aborting.
	ErrUnparsable = errors.New("value cannot be parsed")

	// ErrEmptyValue indicates an empty or blank raw value.
	ErrEmptyValue = errors.New("value is empty")
)

// Error reports a failed normalization of a single attribute value.
// It wraps ErrUnparsable or ErrEmptyValue so callers can match with errors.Is.
type Error struct {
	Key core.AttributeKey
	Raw string
	err error
}

func newError(key core.AttributeKey, raw string, err error) *Error {
	return &Error{Key: key, Raw: raw, err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize %s %q: %v", e.Key, e.Raw, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}
