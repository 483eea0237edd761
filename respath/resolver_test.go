package respath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingMaterializer struct {
	base  string
	calls int
}

func (m *countingMaterializer) Materialize() (string, error) {
	m.calls++
	dir := filepath.Join(m.base, "stubs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func TestDefaultResolverResolvesEachRoot(t *testing.T) {
	base := t.TempDir()
	mat := &countingMaterializer{base: base}

	r, err := NewDefaultResolver(filepath.Join(base, "repo"), mat)
	require.NoError(t, err)
	require.Equal(t, 1, mat.calls)

	require.Equal(t, filepath.Join(base, "repo", "a.hack"), r.Resolve(New(RootRepo, "a.hack")))
	require.Equal(t, filepath.Join(base, "stubs", "b.hhi"), r.Resolve(New(RootStdlib, "b.hhi")))
	require.Equal(t, r.StdlibRoot(), filepath.Join(base, "stubs"))
}

func TestRematerializeSwapsStdlibRootWithoutAffectingRepoRoot(t *testing.T) {
	base := t.TempDir()
	mat := &countingMaterializer{base: base}
	r, err := NewDefaultResolver(filepath.Join(base, "repo"), mat)
	require.NoError(t, err)

	oldRoot := r.StdlibRoot()
	require.NoError(t, os.RemoveAll(oldRoot))
	require.False(t, Exists(oldRoot))

	require.NoError(t, r.Rematerialize())
	require.Equal(t, 2, mat.calls)
	require.True(t, Exists(r.StdlibRoot()))
	require.Equal(t, filepath.Join(base, "repo", "a.hack"), r.Resolve(New(RootRepo, "a.hack")))
}
