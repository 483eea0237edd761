package textqueries

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

const sampleSource = "def greet(name) {\n  return name\n}\n\nclass Greeter {\n}\n"

func TestParseFileFindsDecls(t *testing.T) {
	path := respath.New(respath.RootRepo, "greet.hack")
	a, info, err := ParseFile(path, sampleSource)
	require.NoError(t, err)

	f, ok := a.(*File)
	require.True(t, ok)
	require.Len(t, f.Decls, 2)
	require.Equal(t, cachestate.SymbolName("greet"), f.Decls[0].Name)
	require.Equal(t, "def", f.Decls[0].Kind)
	require.Equal(t, []string{"name"}, f.Decls[0].Params)
	require.Equal(t, cachestate.SymbolName("Greeter"), f.Decls[1].Name)
	require.Equal(t, "class", f.Decls[1].Kind)

	require.ElementsMatch(t, []cachestate.SymbolName{"greet", "Greeter"}, info.Symbols)
}

func TestIdentifierAt(t *testing.T) {
	a, _, err := ParseFile(respath.New(respath.RootRepo, "x.hack"), "def greet(name) {\n")
	require.NoError(t, err)
	f := a.(*File)

	ident, ok := identifierAt(f, 0, 5)
	require.True(t, ok)
	require.Equal(t, "greet", ident)

	_, ok = identifierAt(f, 0, 9)
	require.False(t, ok)
}
