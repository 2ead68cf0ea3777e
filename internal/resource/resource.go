package resource

import "path"

// Resource is an immutable handle to an addressable byte container. Two
// Resources built from the same URI behave identically; the underlying
// backing is not shared state until Open is called.
type Resource struct {
	uri *uri
}

// New constructs a Resource from a URI string. A scheme-less string is
// treated as the default ("file") scheme. Relative paths on the default
// scheme are resolved against the process's current working directory at
// construction time; other schemes must already carry an absolute path.
func New(rawURI string) (*Resource, error) {
	u, err := parseURI(rawURI)
	if err != nil {
		return nil, err
	}
	b, err := backendFor(u.scheme)
	if err == nil {
		normalized, err := b.Normalize(u.path)
		if err != nil {
			return nil, err
		}
		u = u.withPath(normalized)
	}
	return &Resource{uri: u}, nil
}

func fromURI(u *uri) *Resource {
	return &Resource{uri: u}
}

// Scheme returns the resource's URI scheme.
func (r *Resource) Scheme() string { return r.uri.scheme }

// Unref renders the resource back to its URI text form.
func (r *Resource) Unref() string { return r.uri.String() }

// Exists reports whether the backing byte container is present.
func (r *Resource) Exists() bool {
	b, err := backendFor(r.uri.scheme)
	if err != nil {
		return false
	}
	return b.Exists(r.uri.path)
}

// Name returns the resource's leaf name, backend-defined.
func (r *Resource) Name() string {
	b, err := backendFor(r.uri.scheme)
	if err != nil {
		return path.Base(r.uri.path)
	}
	return b.Name(r.uri.path)
}

// Delete removes the resource recursively. It returns true if something
// was removed and false if the target did not exist; a non-nil error
// indicates an I/O failure distinct from simple absence.
func (r *Resource) Delete() (bool, error) {
	b, err := backendFor(r.uri.scheme)
	if err != nil {
		return false, err
	}
	return b.Delete(r.uri.path)
}

// Open returns a byte stream over the resource's backing container. In
// WriteMode, missing intermediate containers are created. In ReadMode, a
// missing target fails with ErrNotFound.
func (r *Resource) Open(mode OpenMode) (ReadWriteCloser, error) {
	b, err := backendFor(r.uri.scheme)
	if err != nil {
		return nil, err
	}
	return b.Open(r.uri.path, mode)
}

// Ref returns the child resource at relPath, joined onto this resource's
// path. relPath must be relative and, if it embeds a scheme of its own,
// that scheme must match this resource's.
func (r *Resource) Ref(relPath string) (*Resource, error) {
	childScheme := r.uri.scheme
	p := relPath
	if loc := schemePrefix.FindString(relPath); loc != "" {
		u, err := parseURI(relPath)
		if err != nil {
			return nil, err
		}
		if u.scheme != r.uri.scheme {
			return nil, ErrSchemeMismatch
		}
		childScheme = u.scheme
		p = u.path
	}
	if path.IsAbs(p) {
		return nil, ErrRelativePath
	}
	next := *r.uri
	next.scheme = childScheme
	next.path = path.Join(r.uri.path, p)
	return fromURI(&next), nil
}

// Parent returns the resource one path segment up.
func (r *Resource) Parent() *Resource {
	next := *r.uri
	next.path = path.Dir(r.uri.path)
	return fromURI(&next)
}

// ReadWriteCloser is the byte stream type Open returns. A reader obtained
// in ReadMode need not support Write and vice versa; callers only use the
// half of the interface appropriate to the mode they opened with.
type ReadWriteCloser = interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}
