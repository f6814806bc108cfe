package api

import (
	"context"
	"io"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/remora-store/remora/pkg/cpath"
	"github.com/stretchr/testify/require"
)

func testCid(t *testing.T, data string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh)
}

// sliceEntryStream replays a fixed list of entries and records how many
// were requested.
type sliceEntryStream struct {
	entries   []Entry
	requested int
}

func (s *sliceEntryStream) Next(ctx context.Context) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if s.requested >= len(s.entries) {
		return Entry{}, io.EOF
	}
	entry := s.entries[s.requested]
	s.requested++
	return entry, nil
}

// sliceEventStream replays a fixed list of add events.
type sliceEventStream struct {
	events []AddEvent
	next   int
}

func (s *sliceEventStream) Next(ctx context.Context) (AddEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.events) {
		return nil, io.EOF
	}
	event := s.events[s.next]
	s.next++
	return event, nil
}

// fakeStore scripts every capability and records which one was called.
type fakeStore struct {
	entries  EntryStream
	events   AddEventStream
	getCalls int
	lastCall string
	lastWrap bool
}

var _ Store = (*fakeStore)(nil)

func (s *fakeStore) GetStream(ctx context.Context, p cpath.Path) (EntryStream, error) {
	s.getCalls++
	return s.entries, nil
}

func (s *fakeStore) AddDir(ctx context.Context, path string, wrap bool) (AddEventStream, error) {
	s.lastCall, s.lastWrap = "dir", wrap
	return s.events, nil
}

func (s *fakeStore) AddFile(ctx context.Context, path string, wrap bool) (AddEventStream, error) {
	s.lastCall, s.lastWrap = "file", wrap
	return s.events, nil
}

func (s *fakeStore) AddSymlink(ctx context.Context, path string, wrap bool) (AddEventStream, error) {
	s.lastCall, s.lastWrap = "symlink", wrap
	return s.events, nil
}
