// Package relpath provides a normalized, platform-independent relative
// path type. A Rel never contains ".." segments and is never absolute, so
// joining it to a destination root cannot escape that root.
package relpath

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
)

// Rel is a normalized slash-separated relative path. The zero value is not
// valid; use New to construct one.
type Rel string

// Root addresses the destination root itself.
const Root Rel = "."

// New cleans s and validates it as a non-escaping relative path. The empty
// string and "." both yield Root.
func New(s string) (Rel, error) {
	if s == "" || s == "." {
		return Root, nil
	}
	cleaned := path.Clean(s)
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("invalid relative path: %q", s)
	}
	return Rel(cleaned), nil
}

func (r Rel) String() string {
	return string(r)
}

// ToPath joins r to root using the host's path separator.
func (r Rel) ToPath(root string) string {
	if r == Root {
		return filepath.Clean(root)
	}
	return filepath.Join(root, filepath.FromSlash(string(r)))
}

// Parent returns the path one level up, or false when r is the root.
func (r Rel) Parent() (Rel, bool) {
	if r == Root {
		return "", false
	}
	return Rel(path.Dir(string(r))), true
}

// Join appends name to r, validating the result.
func (r Rel) Join(name string) (Rel, error) {
	return New(path.Join(string(r), name))
}
