package schema

import (
	"fmt"

	"github.com/pkg/errors"
)

// Causes carried by a TypeError
var (
	ErrEmptyToken          = errors.New("empty type token")
	ErrUnknownType         = errors.New("unknown data type")
	ErrWidthNotAllowed     = errors.New("width is only allowed for binary, nchar and json")
	ErrInvalidWidth        = errors.New("width must be a positive integer")
	ErrInvalidName         = errors.New("invalid field name")
	ErrDuplicateName       = errors.New("duplicate field name")
	ErrJSONTagNotExclusive = errors.New("a json tag cannot be combined with other tags")
)

// TypeError reports the offending token of a rejected column or tag list.
type TypeError struct {
	// Kind is "column" or "tag"
	Kind  string
	Token string
	Err   error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid %s type %q: %v", e.Kind, e.Token, e.Err)
}

// Cause lets errors.Cause reach the sentinel.
func (e *TypeError) Cause() error {
	return e.Err
}

func (e *TypeError) Unwrap() error {
	return e.Err
}
