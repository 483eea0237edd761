package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

func TestChangedFileSetProgressMonotoneWithinARound(t *testing.T) {
	s := newChangedFileSet()
	a := respath.New(respath.RootRepo, "a.hack")
	b := respath.New(respath.RootRepo, "b.hack")
	c := respath.New(respath.RootRepo, "c.hack")

	s.add(a)
	s.add(b)
	s.add(c)
	require.Equal(t, 3, s.len())

	_, ok := s.take()
	require.True(t, ok)
	processed, total := s.progress()
	require.Equal(t, 1, processed)
	require.Equal(t, 3, total)

	_, ok = s.take()
	require.True(t, ok)
	processed, total = s.progress()
	require.Equal(t, 2, processed)
	require.Equal(t, 3, total, "total must not change mid-round (spec.md §4.3 P3)")

	_, ok = s.take()
	require.True(t, ok)
	processed, total = s.progress()
	require.Equal(t, 0, processed, "processed/total reset to zero once the set empties")
	require.Equal(t, 0, total)
	require.Equal(t, 0, s.len())
}

func TestChangedFileSetAddIsIdempotent(t *testing.T) {
	s := newChangedFileSet()
	p := respath.New(respath.RootRepo, "a.hack")

	s.add(p)
	s.add(p)
	require.Equal(t, 1, s.len(), "adding the same path twice must leave a single pending path")

	_, ok := s.take()
	require.True(t, ok)
	_, total := s.progress()
	require.Equal(t, 0, total, "the set emptied on this take, so progress resets to zero")
}

func TestChangedFileSetTakeOnEmptyReportsFalse(t *testing.T) {
	s := newChangedFileSet()
	_, ok := s.take()
	require.False(t, ok)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "Initializing", StateInitializing.String())
	require.Equal(t, "FailedToInitialize", StateFailedToInitialize.String())
	require.Equal(t, "Initialized", StateInitialized.String())
}
