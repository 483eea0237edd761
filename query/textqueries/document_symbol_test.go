package textqueries

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

func TestDocumentSymbolListsEveryDecl(t *testing.T) {
	ctx, _ := newTestContext(t, map[string]string{
		"greet.hack": "def greet(name) {\n  return name\n}\n\nclass Greeter {\n}\n",
	})

	got, err := Impl{}.DocumentSymbol(ctx, respath.New(respath.RootRepo, "greet.hack"))
	require.NoError(t, err)

	want := &query.DocumentSymbolResult{
		Symbols: []query.DocumentSymbolEntry{
			{
				Name: "greet",
				Kind: "def",
				Range: query.Range{
					Start: query.Position{Line: 0, Col: 4},
					End:   query.Position{Line: 0, Col: 9},
				},
			},
			{
				Name: "Greeter",
				Kind: "class",
				Range: query.Range{
					Start: query.Position{Line: 4, Col: 6},
					End:   query.Position{Line: 4, Col: 13},
				},
			},
		},
	}

	if diff := pretty.Compare(want, got); diff != "" {
		t.Fatalf("DocumentSymbol result differs from expected (-want +got):\n%s", diff)
	}
}
