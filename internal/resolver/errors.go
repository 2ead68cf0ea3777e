package resolver

import "errors"

var (
	// ErrUnterminatedExpression is raised when a #{ is never closed by a
	// matching } before the input ends.
	ErrUnterminatedExpression = errors.New("resolver: unterminated expression")

	// ErrUndefinedVariable is raised when an expression references a name
	// not present in the property bag.
	ErrUndefinedVariable = errors.New("resolver: undefined variable")

	// ErrTypeMismatch is raised when an operator or accessor is applied to
	// a value of the wrong kind, e.g. indexing a number.
	ErrTypeMismatch = errors.New("resolver: type mismatch")

	// ErrIndexOutOfRange is raised when a list index falls outside
	// [0, len).
	ErrIndexOutOfRange = errors.New("resolver: index out of range")

	// ErrUnknownKey is raised when a map is indexed or dotted by a key it
	// does not contain.
	ErrUnknownKey = errors.New("resolver: unknown key")

	// ErrSyntax is raised on a malformed expression.
	ErrSyntax = errors.New("resolver: syntax error")
)
