package savedstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

func writeBlob(t *testing.T, path string, blob Blob) {
	t.Helper()
	b, err := json.Marshal(blob)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestLoadFromPathDecodesBlobWithNoChangedPaths(t *testing.T) {
	dir := t.TempDir()
	blobPath := filepath.Join(dir, "state.json")
	writeBlob(t, blobPath, Blob{Symbols: map[string]string{"foo": "lib.hack"}})

	res, err := LoadFromPath(blobPath)
	require.NoError(t, err)
	require.Nil(t, res.ChangedPaths)

	p, ok := res.Index.Lookup(cachestate.SymbolName("foo"))
	require.True(t, ok)
	require.Equal(t, respath.New(respath.RootRepo, "lib.hack"), p)

	_, ok = res.Index.Lookup(cachestate.SymbolName("missing"))
	require.False(t, ok)
}

func TestForwardIndexInvertsSymbolsByPath(t *testing.T) {
	idx := &Index{blob: Blob{Symbols: map[string]string{
		"foo": "lib.hack",
		"bar": "lib.hack",
		"baz": "other.hack",
	}}}

	fwd := idx.ForwardIndex()
	require.ElementsMatch(t,
		[]cachestate.SymbolName{"foo", "bar"},
		fwd[respath.New(respath.RootRepo, "lib.hack")])
	require.ElementsMatch(t,
		[]cachestate.SymbolName{"baz"},
		fwd[respath.New(respath.RootRepo, "other.hack")])
}

func TestFileLoaderTreatsFilesNewerThanBlobAsChanged(t *testing.T) {
	dir := t.TempDir()
	blobPath := filepath.Join(dir, "state.json")
	writeBlob(t, blobPath, Blob{Symbols: map[string]string{"foo": "old.hack"}})

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(blobPath, old, old))

	staleFile := filepath.Join(dir, "old.hack")
	require.NoError(t, os.WriteFile(staleFile, []byte("def foo() {}\n"), 0o644))
	require.NoError(t, os.Chtimes(staleFile, old.Add(-time.Minute), old.Add(-time.Minute)))

	freshFile := filepath.Join(dir, "new.hack")
	require.NoError(t, os.WriteFile(freshFile, []byte("def bar() {}\n"), 0o644))

	loader := &FileLoader{BlobPath: blobPath, RepoRoot: dir}
	res, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, res.ChangedPaths, 1)
	require.Equal(t, respath.New(respath.RootRepo, "new.hack"), res.ChangedPaths[0])
}
