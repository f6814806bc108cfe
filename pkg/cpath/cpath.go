// Package cpath parses content paths: a root identifier in the "ipfs" or
// "ipns" namespace followed by an optional tail of path segments, e.g.
// "/ipfs/bafy.../dir/file.txt". Only "ipfs" paths carry a concrete root
// CID; "ipns" roots are mutable names that need external resolution.
package cpath

import (
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
)

const (
	// NamespaceIPFS roots a path at an immutable content identifier.
	NamespaceIPFS = "ipfs"
	// NamespaceIPNS roots a path at a mutable name.
	NamespaceIPNS = "ipns"
)

// Path is an immutable parsed content path.
type Path struct {
	ns   string
	root string
	cid  cid.Cid
	tail []string
}

// Parse parses a content path. Accepted forms are "/ipfs/<cid>[/tail...]",
// "/ipns/<name>[/tail...]" and a bare CID string.
func Parse(s string) (Path, error) {
	var segs []string
	for _, seg := range strings.Split(strings.Trim(s, "/"), "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	ns := NamespaceIPFS
	if len(segs) > 0 && (segs[0] == NamespaceIPFS || segs[0] == NamespaceIPNS) {
		ns = segs[0]
		segs = segs[1:]
	}
	if len(segs) == 0 {
		return Path{}, fmt.Errorf("empty content path: %q", s)
	}
	p := Path{ns: ns, root: segs[0], tail: segs[1:]}
	if ns == NamespaceIPFS {
		c, err := cid.Decode(p.root)
		if err != nil {
			return Path{}, fmt.Errorf("invalid CID %q: %w", p.root, err)
		}
		p.cid = c
		p.root = c.String()
	}
	return p, nil
}

// Namespace reports the path's namespace, "ipfs" or "ipns".
func (p Path) Namespace() string {
	return p.ns
}

// Root returns the concrete root CID, or false when the path has none.
func (p Path) Root() (cid.Cid, bool) {
	if p.ns != NamespaceIPFS {
		return cid.Undef, false
	}
	return p.cid, true
}

// Tail returns the path segments after the root.
func (p Path) Tail() []string {
	tail := make([]string, len(p.tail))
	copy(tail, p.tail)
	return tail
}

func (p Path) String() string {
	parts := append([]string{"", p.ns, p.root}, p.tail...)
	return strings.Join(parts, "/")
}
