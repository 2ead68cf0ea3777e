package codec

import "errors"

var (
	// ErrUnterminatedString is raised when a quoted string reaches end of
	// input before its closing quote.
	ErrUnterminatedString = errors.New("codec: unterminated string")

	// ErrMissingSeparator is raised when a list/map item separator (','),
	// a map key/value separator (':'), or a closing bracket is expected
	// but not found.
	ErrMissingSeparator = errors.New("codec: missing separator")

	// ErrEmptyItem is raised on an empty list or map item, e.g. a
	// repeated or trailing comma.
	ErrEmptyItem = errors.New("codec: empty item")

	// ErrIllegalInitialChar is raised when the next byte cannot begin any
	// recognized value.
	ErrIllegalInitialChar = errors.New("codec: illegal initial character")
)
