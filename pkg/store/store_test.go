package store_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remora-store/remora/pkg/api"
	"github.com/remora-store/remora/pkg/cpath"
	"github.com/remora-store/remora/pkg/relpath"
	"github.com/remora-store/remora/pkg/store"
)

// writeTree lays out a small source tree with a file at the top level, a
// nested directory and a relative symlink.
func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("alpha"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir1", "dir2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir1", "b"), []byte("beta"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir1", "dir2", "c"), []byte("gamma"), 0644))
	require.NoError(t, os.Symlink("../a", filepath.Join(dir, "dir1", "link")))
	return dir
}

func TestAddGetRoundTrip(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	src := writeTree(t)
	root, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)
	require.True(t, root.Defined())

	p, err := cpath.Parse("/ipfs/" + root.String())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	got, err := a.Get(t.Context(), p, out)
	require.NoError(t, err)
	assert.Equal(t, out, got)

	data, err := os.ReadFile(filepath.Join(out, "a"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	data, err = os.ReadFile(filepath.Join(out, "dir1", "b"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(data))

	data, err = os.ReadFile(filepath.Join(out, "dir1", "dir2", "c"))
	require.NoError(t, err)
	assert.Equal(t, "gamma", string(data))

	target, err := os.Readlink(filepath.Join(out, "dir1", "link"))
	require.NoError(t, err)
	assert.Equal(t, "../a", target)

	// The link resolves inside the materialized tree.
	data, err = os.ReadFile(filepath.Join(out, "dir1", "link"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestAddDeterministic(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	src := writeTree(t)
	first, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)
	second, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddFileWrapped(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	dir := t.TempDir()
	file := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))

	root, err := a.Add(t.Context(), file, true)
	require.NoError(t, err)

	p, err := cpath.Parse("/ipfs/" + root.String() + "/greeting.txt")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	_, err = a.Get(t.Context(), p, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGetTailResolution(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	src := writeTree(t)
	root, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)

	p, err := cpath.Parse("/ipfs/" + root.String() + "/dir1/dir2")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	_, err = a.Get(t.Context(), p, out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "c"))
	require.NoError(t, err)
	assert.Equal(t, "gamma", string(data))

	// Nothing outside the requested subtree is materialized.
	_, err = os.Lstat(filepath.Join(out, "a"))
	assert.True(t, os.IsNotExist(err))
}

func TestGetStreamParentsFirst(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	src := writeTree(t)
	root, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)

	p, err := cpath.Parse("/ipfs/" + root.String())
	require.NoError(t, err)
	entries, err := s.GetStream(t.Context(), p)
	require.NoError(t, err)

	seen := map[relpath.Rel]bool{}
	first := true
	for {
		entry, err := entries.Next(t.Context())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if first {
			assert.Equal(t, relpath.Root, entry.Path)
			first = false
		}
		if parent, ok := entry.Path.Parent(); ok {
			assert.True(t, seen[parent], "parent of %s not yet streamed", entry.Path)
		}
		seen[entry.Path] = true
	}
	assert.Len(t, seen, 7)
}

func TestAddSymlinkAlone(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("somewhere/else", link))

	root, err := a.Add(t.Context(), link, false)
	require.NoError(t, err)

	p, err := cpath.Parse("/ipfs/" + root.String())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	_, err = a.Get(t.Context(), p, out)
	require.NoError(t, err)

	target, err := os.Readlink(out)
	require.NoError(t, err)
	assert.Equal(t, "somewhere/else", target)
}

func TestAddEventsEndWithRoot(t *testing.T) {
	s, _ := store.NewMemory()
	a := api.New(s)

	src := writeTree(t)

	events, err := a.AddStream(t.Context(), src, false)
	require.NoError(t, err)

	var count int
	var last api.AddEvent
	for {
		event, err := events.Next(t.Context())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.True(t, event.Cid().Defined())
		last = event
		count++
	}
	require.NotNil(t, last)
	// Several nodes were stored, and the final event carries the same
	// root the full Add reduction reports.
	assert.Greater(t, count, 1)
	root, err := a.Add(t.Context(), src, false)
	require.NoError(t, err)
	assert.Equal(t, root, last.Cid())
}
