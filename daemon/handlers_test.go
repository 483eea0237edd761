package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/query/textqueries"
)

func testDeps() Deps {
	return Deps{
		Materializer:  DirStubMaterializer{},
		Collaborators: textqueries.Collaborators,
	}
}

func TestDispatchRejectsRequestsBeforeInitialize(t *testing.T) {
	d := NewDaemon(nil, textqueries.Impl{})

	_, _, err := d.Dispatch(TagStatus, &struct{}{}, testDeps())
	require.Error(t, err)
	require.True(t, errs.IsWrongState(err), "a request before Initialize must be rejected as WrongState (spec.md §4.4/§8 P6)")
}

func TestDispatchInitializeTwiceIsRejected(t *testing.T) {
	d := NewDaemon(nil, textqueries.Impl{})
	root := t.TempDir()

	_, _, err := d.Dispatch(TagInitialize, &InitializeRequest{Root: root}, testDeps())
	require.NoError(t, err)
	require.Equal(t, StateInitialized, d.State())

	_, _, err = d.Dispatch(TagInitialize, &InitializeRequest{Root: root}, testDeps())
	require.Error(t, err)
	require.True(t, errs.IsWrongState(err))
}

func TestDispatchAfterFailedInitializeReturnsStoredError(t *testing.T) {
	d := NewDaemon(nil, textqueries.Impl{})
	deps := testDeps()
	deps.DefaultLoader = nil

	badPath := filepath.Join(t.TempDir(), "does-not-exist.json")
	savedPath := badPath
	_, _, err := d.Dispatch(TagInitialize, &InitializeRequest{Root: t.TempDir(), SavedStatePath: &savedPath}, deps)
	require.Error(t, err)
	require.Equal(t, StateFailedToInitialize, d.State())

	_, _, err2 := d.Dispatch(TagStatus, &struct{}{}, deps)
	require.Error(t, err2)
	require.Equal(t, err, err2, "every subsequent message in FailedToInitialize replays the same stored error")
}

func initializedDaemon(t *testing.T, files map[string]string) (*Daemon, string) {
	t.Helper()
	root := t.TempDir()
	for rel, contents := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}

	d := NewDaemon(nil, textqueries.Impl{})
	_, _, err := d.Dispatch(TagInitialize, &InitializeRequest{Root: root}, testDeps())
	require.NoError(t, err)
	require.Equal(t, StateInitialized, d.State())
	return d, root
}

func TestHoverEndToEndThroughDispatch(t *testing.T) {
	d, _ := initializedDaemon(t, map[string]string{
		"greet.hack": "def greet(name) {\n  return name\n}\n",
	})

	result, _, err := d.Dispatch(TagHover, &HoverRequest{docLocation: docLocation{
		Path: "greet.hack", Line: 0, Col: 5,
	}}, testDeps())
	require.NoError(t, err)
	res, ok := result.(*query.HoverResult)
	require.True(t, ok)
	require.Contains(t, res.Contents, "greet")
}

func TestFileOpenedQuarantinedHoverSeesUnsavedEditNotPersisted(t *testing.T) {
	d, _ := initializedDaemon(t, map[string]string{
		"greet.hack": "def greet(name) {\n  return name\n}\n",
	})

	override := "def overridden(name) {\n  return name\n}\n"
	result, _, err := d.Dispatch(TagHover, &HoverRequest{docLocation: docLocation{
		Path: "greet.hack", Contents: &override, Line: 0, Col: 5,
	}}, testDeps())
	require.NoError(t, err)
	res := result.(*query.HoverResult)
	require.Contains(t, res.Contents, "overridden")

	// The override must not have been persisted: a subsequent hover with no
	// override still sees the real on-disk declaration.
	result2, _, err := d.Dispatch(TagHover, &HoverRequest{docLocation: docLocation{
		Path: "greet.hack", Line: 0, Col: 5,
	}}, testDeps())
	require.NoError(t, err)
	res2 := result2.(*query.HoverResult)
	require.Contains(t, res2.Contents, "greet")
	require.NotContains(t, res2.Contents, "overridden")
}

func TestFileChangedAddsToBacklogAndStatusReportsIt(t *testing.T) {
	d, root := initializedDaemon(t, map[string]string{})
	full := filepath.Join(root, "new.hack")
	require.NoError(t, os.WriteFile(full, []byte("def fresh() {\n}\n"), 0o644))

	_, notif, err := d.Dispatch(TagFileChanged, &FileChangedRequest{Path: "new.hack"}, testDeps())
	require.NoError(t, err)
	require.NotNil(t, notif)

	result, _, err := d.Dispatch(TagStatus, &struct{}{}, testDeps())
	require.NoError(t, err)
	status := result.(StatusResponse)
	require.Equal(t, 1, status.BacklogTotal)
	require.Equal(t, 0, status.BacklogDone)

	notif = d.processOneBacklogPath(nil)
	require.NotNil(t, notif)
	require.True(t, notif.Done)

	result, _, err = d.Dispatch(TagStatus, &struct{}{}, testDeps())
	require.NoError(t, err)
	status = result.(StatusResponse)
	require.Equal(t, 0, status.BacklogTotal)
}

func TestCompletionListsEveryDeclThroughDispatch(t *testing.T) {
	d, _ := initializedDaemon(t, map[string]string{
		"lib.hack": "def helper(x) {\n}\n\nclass Widget {\n}\n",
	})

	result, _, err := d.Dispatch(TagCompletion, &CompletionRequest{
		docLocation:       docLocation{Path: "lib.hack", Line: 0, Col: 0},
		IsManuallyInvoked: true,
	}, testDeps())
	require.NoError(t, err)

	want := &query.CompletionList{
		IsManuallyInvoked: true,
		Items: []query.CompletionItem{
			{Label: "helper", Detail: "def helper(x)", Kind: "def"},
			{Label: "Widget", Detail: "class Widget (mro: Widget)", Kind: "class"},
		},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("Completion result mismatch (-want +got):\n%s", diff)
	}
}

func TestShutdownRemovesStubs(t *testing.T) {
	d, _ := initializedDaemon(t, map[string]string{})
	stubRoot := d.initialized.Resolver.StdlibRoot()
	require.DirExists(t, stubRoot)

	_, _, err := d.Dispatch(TagShutdown, &struct{}{}, testDeps())
	require.NoError(t, err)
	require.NoDirExists(t, stubRoot)
}
