package symbolindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
)

func TestInMemoryEnvTracksAddedAndRemoved(t *testing.T) {
	env := NewInMemoryEnv()

	require.NoError(t, env.Update([]cachestate.SymbolName{"foo", "bar"}, nil))
	require.ElementsMatch(t, []string{"foo", "bar"}, env.Names())

	require.NoError(t, env.Update([]cachestate.SymbolName{"baz"}, []cachestate.SymbolName{"foo"}))
	require.ElementsMatch(t, []string{"bar", "baz"}, env.Names())
}

func TestInMemoryEnvUpdateIsIdempotentForKnownNames(t *testing.T) {
	env := NewInMemoryEnv()
	require.NoError(t, env.Update([]cachestate.SymbolName{"foo"}, nil))
	require.NoError(t, env.Update([]cachestate.SymbolName{"foo"}, nil))
	require.Len(t, env.Names(), 1)
}

func TestInMemoryEnvRemovingUnknownNameIsNoop(t *testing.T) {
	env := NewInMemoryEnv()
	require.NoError(t, env.Update(nil, []cachestate.SymbolName{"ghost"}))
	require.Empty(t, env.Names())
}
