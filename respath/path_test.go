package respath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCleansAndNormalizesSlashes(t *testing.T) {
	a := New(RootRepo, "foo//bar/../bar/baz.hack")
	b := New(RootRepo, "foo/bar/baz.hack")
	require.Equal(t, a, b, "structural equality must be unaffected by cosmetic path differences")
}

func TestPathIsComparableMapKey(t *testing.T) {
	m := map[Path]int{}
	m[New(RootRepo, "a.hack")] = 1
	m[New(RootStdlib, "a.hack")] = 2

	require.Equal(t, 1, m[New(RootRepo, "a.hack")])
	require.Equal(t, 2, m[New(RootStdlib, "a.hack")])
	require.Len(t, m, 2, "the same relative string under different roots must be distinct keys")
}

func TestIsSourceFile(t *testing.T) {
	cases := map[string]bool{
		"foo.hack":        true,
		"foo.hackpartial": true,
		"foo.hhi":         true,
		"foo.php":         true,
		"foo.txt":         false,
		"README":          false,
	}
	for rel, want := range cases {
		got := New(RootRepo, rel).IsSourceFile()
		require.Equal(t, want, got, "IsSourceFile(%s)", rel)
	}
}

func TestRootString(t *testing.T) {
	require.Equal(t, "repo", RootRepo.String())
	require.Equal(t, "stdlib", RootStdlib.String())
	require.Equal(t, "scratch", RootScratch.String())
}
