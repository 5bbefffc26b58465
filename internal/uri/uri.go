// Package uri provides the URI factory capability handed to the lifecycle
// controller by each client variant.
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrEmpty is returned when parsing an empty reference.
var ErrEmpty = errors.New("empty uri")

// URI is an absolute resource identifier.
type URI struct {
	u url.URL
}

// String returns the canonical text form.
func (u URI) String() string { return u.u.String() }

// Scheme returns the lower-case scheme.
func (u URI) Scheme() string { return u.u.Scheme }

// Path returns the decoded path component.
func (u URI) Path() string { return u.u.Path }

// URL returns a copy of the underlying URL.
func (u URI) URL() *url.URL {
	c := u.u
	return &c
}

// IsZero reports whether u is the zero URI.
func (u URI) IsZero() bool { return u.u == (url.URL{}) }

// Kind classifies a URI by what the client can do with it.
type Kind int

const (
	// KindOther is any scheme the client does not handle itself.
	KindOther Kind = iota
	// KindFile is a local file.
	KindFile
	// KindRemote is an http or https resource.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindRemote:
		return "remote"
	default:
		return "other"
	}
}

// Resource is a URI together with its classification.
type Resource struct {
	URI
	Kind Kind
}

// Factory is the capability set client variants provide.
type Factory interface {
	// Create classifies u into a typed resource.
	Create(u URI) (Resource, error)
	// File builds a file URI for a local path.
	File(path string) URI
	// Parse turns a raw reference into an absolute URI.
	Parse(raw string) (URI, error)
}

// URLFactory resolves references against a base URI.
type URLFactory struct {
	base *url.URL
}

// NewURLFactory returns a factory rooted at base, which must be absolute.
func NewURLFactory(base string) (*URLFactory, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base uri: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base uri %q is not absolute", base)
	}
	return &URLFactory{base: u}, nil
}

// Base returns the factory's base URI.
func (f *URLFactory) Base() URI { return URI{u: *f.base} }

// Parse resolves raw against the base. Absolute references are returned as
// is.
func (f *URLFactory) Parse(raw string) (URI, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return URI{}, ErrEmpty
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return URI{}, fmt.Errorf("parse uri %q: %w", raw, err)
	}
	resolved := f.base.ResolveReference(ref)
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	return URI{u: *resolved}, nil
}

// File returns a file URI for path. Relative paths are made absolute
// against the working directory when possible.
func (f *URLFactory) File(path string) URI {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return URI{u: url.URL{Scheme: "file", Path: p}}
}

// Create classifies u. Remote URIs must carry a host.
func (f *URLFactory) Create(u URI) (Resource, error) {
	switch u.Scheme() {
	case "file":
		return Resource{URI: u, Kind: KindFile}, nil
	case "http", "https":
		if u.u.Host == "" {
			return Resource{}, fmt.Errorf("remote uri %q has no host", u.String())
		}
		return Resource{URI: u, Kind: KindRemote}, nil
	case "":
		return Resource{}, fmt.Errorf("uri %q has no scheme", u.String())
	default:
		return Resource{URI: u, Kind: KindOther}, nil
	}
}
