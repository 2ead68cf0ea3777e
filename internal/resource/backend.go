package resource

import "io"

// OpenMode selects the direction a Resource is opened for.
type OpenMode int

const (
	ReadMode OpenMode = iota
	WriteMode
)

// Backend implements scheme-specific behavior for Resource. It is looked
// up by scheme name the same way a platform provider is looked up by
// provider name (internal/provider): a small builder table populated at
// init time, never a dynamic plugin load.
type Backend interface {
	// Normalize resolves path into an absolute, scheme-native form. For
	// the file backend this means joining relative paths against the
	// process's working directory.
	Normalize(path string) (string, error)

	Exists(path string) bool
	Name(path string) string
	Delete(path string) (bool, error)
	Open(path string, mode OpenMode) (io.ReadWriteCloser, error)
}

var backends = map[string]Backend{}

// RegisterBackend makes a Backend available for the given scheme. It is
// meant to be called from a backend package's init function.
func RegisterBackend(scheme string, b Backend) {
	backends[scheme] = b
}

func backendFor(scheme string) (Backend, error) {
	b, ok := backends[scheme]
	if !ok {
		return nil, ErrUnsupportedScheme
	}
	return b, nil
}
