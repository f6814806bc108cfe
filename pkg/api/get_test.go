package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remora-store/remora/pkg/cpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCIDString = "QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N"

func mustParse(t *testing.T, s string) cpath.Path {
	t.Helper()
	p, err := cpath.Parse(s)
	require.NoError(t, err)
	return p
}

func TestRootPath(t *testing.T) {
	p := mustParse(t, "/ipfs/"+testCIDString)
	assert.Equal(t, testCIDString, rootPath(p, ""))
	assert.Equal(t, "bar", rootPath(p, "bar"))

	p = mustParse(t, "/ipfs/"+testCIDString+"/some/tail")
	assert.Equal(t, "tail", rootPath(p, ""))
	assert.Equal(t, "bar", rootPath(p, "bar"))
}

func TestGet(t *testing.T) {
	store := &fakeStore{entries: &sliceEntryStream{entries: []Entry{
		{Path: rel(t, "a"), Body: Directory{}},
		{Path: rel(t, "a/b"), Body: Content{Reader: strings.NewReader("content")}},
	}}}
	a := New(store)

	output := filepath.Join(t.TempDir(), "out")
	got, err := a.Get(t.Context(), mustParse(t, "/ipfs/"+testCIDString), output)
	require.NoError(t, err)
	assert.Equal(t, output, got)

	data, err := os.ReadFile(filepath.Join(output, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestGetNoRootCID(t *testing.T) {
	store := &fakeStore{}
	a := New(store)

	_, err := a.Get(t.Context(), mustParse(t, "/ipns/example.com"), "")
	require.ErrorIs(t, err, ErrNoRoot)
	assert.Zero(t, store.getCalls)
}

func TestGetOutputExists(t *testing.T) {
	output := filepath.Join(t.TempDir(), "exists")
	require.NoError(t, os.WriteFile(output, []byte("occupied"), 0644))

	store := &fakeStore{}
	a := New(store)

	_, err := a.Get(t.Context(), mustParse(t, "/ipfs/"+testCIDString), output)
	var exists *ExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, output, exists.Path)

	// No stream was even opened, and the existing entry is untouched.
	assert.Zero(t, store.getCalls)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "occupied", string(data))
}
