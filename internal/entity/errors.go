package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks malformed JSON or a field of the wrong type.
	ErrDecode = errors.New("malformed entity document")
	// ErrMissingField marks an absent required field or an absent categoryinfo count.
	ErrMissingField = errors.New("missing field")
	// ErrUnknownField marks a key the entity schema does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingContent marks a page without revisions[0].slots.main["*"].
	ErrMissingContent = errors.New("missing content")
)

// DecodeError is returned when a document cannot be turned into an entity.
type DecodeError struct {
	Entity string // "page" or "category"
	Key    string // offending JSON key, empty for syntax errors
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("decoding %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("decoding %s: %q: %v", e.Entity, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
