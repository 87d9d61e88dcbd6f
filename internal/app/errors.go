package app

import (
	"errors"

	"github.com/b11005/blink-idl-diff/internal/domain/idl"
	"github.com/b11005/blink-idl-diff/internal/domain/record"
)

// IsInputError reports whether err was caused by malformed definition files
// (syntax, structure, inheritance or merge problems) rather than by I/O.
func IsInputError(err error) bool {
	var (
		syn   *idl.SyntaxError
		st    *idl.StructuralError
		inh   *record.InheritanceError
		merge *record.MergeError
	)
	return errors.As(err, &syn) || errors.As(err, &st) || errors.As(err, &inh) || errors.As(err, &merge)
}
