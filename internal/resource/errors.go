package resource

import "errors"

// ErrNotFound is returned by Open(ReadMode) when the target resource does
// not exist.
var ErrNotFound = errors.New("resource: not found")

// ErrRelativePath is returned by Ref when the supplied path is absolute.
var ErrRelativePath = errors.New("resource: child path must be relative")

// ErrSchemeMismatch is returned by Ref when the supplied path names a
// scheme different from the parent resource's own.
var ErrSchemeMismatch = errors.New("resource: child scheme does not match parent")

// ErrUnsupportedScheme is returned when no Backend is registered for a
// resource's scheme.
var ErrUnsupportedScheme = errors.New("resource: unsupported scheme")
