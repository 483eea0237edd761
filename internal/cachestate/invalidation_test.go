package cachestate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// testCollaborators parses a toy line format ("SYM name" per line) so these
// tests can exercise the Invalidation Engine and Quarantine without pulling
// in a real query implementation.
func testCollaborators() Collaborators {
	return Collaborators{
		ParseFile: func(path Path, contents string) (AST, FileInfo, error) {
			var fi FileInfo
			for _, line := range strings.Split(contents, "\n") {
				if name, ok := strings.CutPrefix(line, "SYM "); ok && name != "" {
					fi.Symbols = append(fi.Symbols, SymbolName(name))
				}
			}
			return contents, fi, nil
		},
		ShallowDecl: func(name SymbolName, fileAST AST) (ShallowDecl, error) { return name, nil },
		FoldedDecl: func(ctx *Context, name SymbolName) (FoldedDecl, error) { return name, nil },
		Linearize:  func(ctx *Context, class SymbolName) (Linearization, error) { return nil, nil },
		TypeCheck:  func(ctx *Context, path Path, fileAST AST) (TAST, error) { return fileAST, nil },
	}
}

type fixedResolver struct{ root string }

func (r fixedResolver) Resolve(p Path) string {
	return filepath.Join(r.root, filepath.FromSlash(p.Relative))
}
func (fixedResolver) StdlibRoot() string   { return "" }
func (fixedResolver) Rematerialize() error { return nil }

func newTestSetup(t *testing.T) (*Context, *Engine, string) {
	t.Helper()
	root := t.TempDir()
	backend := NewBackend(nil)
	ctx := NewContext(backend, testCollaborators(), fixedResolver{root: root}, Options{})
	eng := NewEngine(ctx, nil)
	return ctx, eng, root
}

func TestOpenOrEditNoOpReopenPreservesCaches(t *testing.T) {
	ctx, eng, _ := newTestSetup(t)
	path := respath.New(respath.RootRepo, "a.hack")

	eng.OpenOrEdit(path, "SYM foo\n")
	ctx.Backend.Folded().Put("unrelated", "decl")

	// Re-opening with identical contents is a no-op (P5): the folded-decl
	// cache populated above must survive.
	eng.OpenOrEdit(path, "SYM foo\n")

	_, ok := ctx.Backend.Folded().Get("unrelated")
	require.True(t, ok, "no-op reopen must not invalidate cross-file caches")
}

func TestOpenOrEditWithChangedContentsInvalidatesCrossFile(t *testing.T) {
	ctx, eng, _ := newTestSetup(t)
	path := respath.New(respath.RootRepo, "a.hack")

	eng.OpenOrEdit(path, "SYM foo\n")
	ctx.Backend.Folded().Put("unrelated", "decl")

	eng.OpenOrEdit(path, "SYM foo\nSYM bar\n")

	_, ok := ctx.Backend.Folded().Get("unrelated")
	require.False(t, ok, "editing an entry's contents must invalidate the cross-file caches (Invariant 4)")
}

func TestEntryMutationClearsOtherEntriesTASTButNotAST(t *testing.T) {
	ctx, eng, _ := newTestSetup(t)
	a := respath.New(respath.RootRepo, "a.hack")
	b := respath.New(respath.RootRepo, "b.hack")

	eng.OpenOrEdit(a, "SYM foo\n")
	eng.OpenOrEdit(b, "SYM bar\n")

	entryB, ok := ctx.Entries().Get(b)
	require.True(t, ok)
	entryB.SetAST("b-ast")
	entryB.SetTAST("b-tast")

	// Editing a's contents invalidates cross-file TAST everywhere
	// (Invariant 4), but b's own AST depends solely on b's own contents
	// (Invariant 1) and must be untouched.
	eng.OpenOrEdit(a, "SYM foo\nSYM extra\n")

	ast, astOK := entryB.AST()
	require.True(t, astOK)
	require.Equal(t, "b-ast", ast)

	_, tastOK := entryB.TAST()
	require.False(t, tastOK, "cross-file TAST must be invalidated for every open entry")
}

func TestProcessChangedPathUpdatesFNTAndRNT(t *testing.T) {
	ctx, eng, root := newTestSetup(t)
	path := respath.New(respath.RootRepo, "lib.hack")
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.hack"), []byte("SYM helper\n"), 0o644))

	require.NoError(t, eng.ProcessChangedPath(path))

	fi, ok := ctx.Backend.FNT().Get(path)
	require.True(t, ok)
	require.Equal(t, []SymbolName{"helper"}, fi.Symbols)

	defined, ok := ctx.Backend.RNT().Lookup("helper")
	require.True(t, ok)
	require.Equal(t, path, defined)
}

func TestProcessChangedPathRemovesStaleDefinitions(t *testing.T) {
	ctx, eng, root := newTestSetup(t)
	path := respath.New(respath.RootRepo, "lib.hack")
	full := filepath.Join(root, "lib.hack")

	require.NoError(t, os.WriteFile(full, []byte("SYM helper\n"), 0o644))
	require.NoError(t, eng.ProcessChangedPath(path))

	require.NoError(t, os.WriteFile(full, []byte("SYM renamed\n"), 0o644))
	require.NoError(t, eng.ProcessChangedPath(path))

	_, ok := ctx.Backend.RNT().Lookup("helper")
	require.False(t, ok, "a symbol no longer defined by the file must be undefined from the RNT")

	defined, ok := ctx.Backend.RNT().Lookup("renamed")
	require.True(t, ok)
	require.Equal(t, path, defined)
}

func TestQuarantineDoesNotPollutSharedCaches(t *testing.T) {
	ctx, _, _ := newTestSetup(t)
	path := respath.New(respath.RootRepo, "a.hack")
	contents := "SYM scratch\n"

	err := Quarantine(ctx, path, &contents, func(qctx *Context) error {
		qctx.PutFoldedDecl("scratch", "overridden")
		qctx.PutShallowDecl("scratch", "overridden")
		qctx.PutLinearization("scratch", Linearization{"scratch"})
		return nil
	})
	require.NoError(t, err)

	_, ok := ctx.Backend.Folded().Get("scratch")
	require.False(t, ok, "a quarantined call's writes must never reach the shared Backend (P2)")
	_, ok = ctx.Backend.Shallow().Get("scratch")
	require.False(t, ok)
	_, ok = ctx.Backend.Linear().Get("scratch")
	require.False(t, ok)
}

func TestQuarantineOverridesContentsForItsOwnPathOnly(t *testing.T) {
	ctx, eng, _ := newTestSetup(t)
	real := respath.New(respath.RootRepo, "a.hack")
	other := respath.New(respath.RootRepo, "b.hack")
	eng.OpenOrEdit(real, "SYM real\n")
	eng.OpenOrEdit(other, "SYM otherreal\n")

	override := "SYM overridden\n"
	err := Quarantine(ctx, real, &override, func(qctx *Context) error {
		c, ok := qctx.ContentsForPath(real)
		require.True(t, ok)
		require.Equal(t, override, c)

		c, ok = qctx.ContentsForPath(other)
		require.True(t, ok)
		require.Equal(t, "SYM otherreal\n", c)
		return nil
	})
	require.NoError(t, err)

	// The override must never leak into the real entry once Quarantine
	// returns.
	c, ok := ctx.ContentsForPath(real)
	require.True(t, ok)
	require.Equal(t, "SYM real\n", c)
}

func TestCloseRemovesEntryAndInvalidates(t *testing.T) {
	ctx, eng, _ := newTestSetup(t)
	path := respath.New(respath.RootRepo, "a.hack")
	eng.OpenOrEdit(path, "SYM foo\n")
	ctx.Backend.Shallow().Put("foo", "decl")

	existed := eng.Close(path)
	require.True(t, existed)

	_, ok := ctx.Entries().Get(path)
	require.False(t, ok)
	_, ok = ctx.Backend.Shallow().Get("foo")
	require.False(t, ok, "closing an entry must invalidate the shallow decls it was defining")

	require.False(t, eng.Close(path), "closing an already-closed path reports no existing entry")
}
