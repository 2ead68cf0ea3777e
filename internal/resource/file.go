package resource

import (
	"io"
	"os"
	"path/filepath"
)

func init() {
	RegisterBackend(DefaultScheme, &fileBackend{})
}

// fileBackend implements Backend against the local filesystem, the only
// scheme the engine's own state document ever uses.
type fileBackend struct{}

func (fileBackend) Normalize(p string) (string, error) {
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) {
		return filepath.Clean(native), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(filepath.Join(cwd, native)), nil
}

func (fileBackend) Exists(p string) bool {
	_, err := os.Stat(filepath.FromSlash(p))
	return err == nil
}

func (fileBackend) Name(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}

func (fileBackend) Delete(p string) (bool, error) {
	native := filepath.FromSlash(p)
	if _, err := os.Stat(native); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := os.RemoveAll(native); err != nil {
		return false, err
	}
	return true, nil
}

func (fileBackend) Open(p string, mode OpenMode) (io.ReadWriteCloser, error) {
	native := filepath.FromSlash(p)
	switch mode {
	case WriteMode:
		if err := os.MkdirAll(filepath.Dir(native), 0o755); err != nil {
			return nil, err
		}
		return os.OpenFile(native, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	default:
		if _, err := os.Stat(native); err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return os.OpenFile(native, os.O_RDONLY, 0)
	}
}
