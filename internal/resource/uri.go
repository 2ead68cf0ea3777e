package resource

import (
	"fmt"
	"net/url"
	"regexp"
)

// DefaultScheme is used when a resource URI carries no explicit scheme.
const DefaultScheme = "file"

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// uri is the parsed form of a resource identifier: scheme, optional
// authority, path, query and fragment.
type uri struct {
	scheme    string
	authority string
	path      string
	query     string
	fragment  string
}

func parseURI(raw string) (*uri, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("resource: invalid URI %q: %w", raw, err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	return &uri{
		scheme:    scheme,
		authority: u.Host,
		path:      path,
		query:     u.RawQuery,
		fragment:  u.Fragment,
	}, nil
}

func (u *uri) String() string {
	out := url.URL{
		Scheme:   u.scheme,
		Host:     u.authority,
		Path:     u.path,
		RawQuery: u.query,
		Fragment: u.fragment,
	}
	return out.String()
}

func (u *uri) withPath(path string) *uri {
	next := *u
	next.path = path
	return &next
}
