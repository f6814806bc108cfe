package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/remora-store/remora/pkg/cpath"
)

// Get materializes the tree that p refers to onto the local filesystem
// and returns the path it was written to.
//
// When output is empty the destination is derived from p: the last tail
// segment if there is one, otherwise the string form of the root CID,
// resolved relative to the working directory. The destination must not
// already exist.
//
// On failure, entries written before the failure are left in place; there
// is no rollback.
func (a *API) Get(ctx context.Context, p cpath.Path, output string) (string, error) {
	if _, ok := p.Root(); !ok {
		return "", fmt.Errorf("getting %s: %w", p, ErrNoRoot)
	}
	root := rootPath(p, output)
	if _, err := os.Lstat(root); err == nil {
		return "", &ExistsError{Path: root}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking output path %s: %w", root, err)
	}
	entries, err := a.store.GetStream(ctx, p)
	if err != nil {
		return "", fmt.Errorf("opening entry stream for %s: %w", p, err)
	}
	if err := materialize(ctx, root, entries, a.links); err != nil {
		return "", err
	}
	return root, nil
}

// rootPath resolves the destination for a get: an explicit output path
// wins, then the last tail segment, then the root CID itself.
func rootPath(p cpath.Path, output string) string {
	if output != "" {
		return output
	}
	if tail := p.Tail(); len(tail) > 0 {
		return tail[len(tail)-1]
	}
	c, _ := p.Root()
	return c.String()
}
