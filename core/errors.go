package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAccelerator      = errors.New("accelerator is empty")
	ErrEmptyToken            = errors.New("empty key in accelerator")
	ErrUnknownModifier       = errors.New("unknown modifier")
	ErrDuplicateModifier     = errors.New("duplicate modifier")
	ErrTooManyModifiers      = errors.New("at most two modifiers are supported")
	ErrIncompleteAccelerator = errors.New("accelerator has no terminal key")
)

// ParseError reports why an accelerator string was rejected.
type ParseError struct {
	Accelerator string
	Token       string
	Err         error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid accelerator %q: %v", e.Accelerator, e.Err)
	}
	return fmt.Sprintf("invalid accelerator %q: %v %q", e.Accelerator, e.Err, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
