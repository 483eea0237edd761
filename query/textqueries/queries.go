package textqueries

import (
	"fmt"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/query"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// Impl is a query.Queries backed by this package's toy parser and type
// checker. The daemon constructs one Impl and calls its methods from
// inside cachestate.Quarantine for the request kinds query.QuarantinedKinds
// names, and directly otherwise — Impl itself does not know or care which
// it's in; it only ever reads through the *cachestate.Context it is
// given.
type Impl struct{}

var _ query.Queries = Impl{}

func astAt(ctx *cachestate.Context, path respath.Path) (*File, error) {
	a, err := ctx.ASTForPath(path)
	if err != nil {
		return nil, err
	}
	f, ok := a.(*File)
	if !ok || f == nil {
		return nil, fmt.Errorf("textqueries: no source at %s", path)
	}
	return f, nil
}

func (Impl) Hover(ctx *cachestate.Context, path respath.Path, pos query.Position) (*query.HoverResult, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}

	if d, ok := declAt(f, pos.Line, pos.Col); ok {
		return &query.HoverResult{Contents: describeDecl(ctx, d)}, nil
	}

	ident, ok := identifierAt(f, pos.Line, pos.Col)
	if !ok {
		return &query.HoverResult{Contents: ""}, nil
	}
	_, _, d, ok := Resolve(ctx, cachestate.SymbolName(ident))
	if !ok {
		return &query.HoverResult{Contents: ident}, nil
	}
	return &query.HoverResult{Contents: describeDecl(ctx, d)}, nil
}

// describeDecl renders d's one-line detail string. A class's detail
// includes its linearization (method-resolution order), resolved through
// the Linearization cache the same way a type check resolves a folded
// decl.
func describeDecl(ctx *cachestate.Context, d Decl) string {
	switch d.Kind {
	case "def":
		return fmt.Sprintf("def %s(%s)", d.Name, joinParams(d.Params))
	case "class":
		return fmt.Sprintf("class %s (mro: %s)", d.Name, joinSymbols(classLinearization(ctx, d.Name)))
	default:
		return string(d.Name)
	}
}

func joinSymbols(names cachestate.Linearization) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += string(n)
	}
	return out
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func (Impl) Completion(ctx *cachestate.Context, path respath.Path, pos query.Position, manuallyInvoked bool) (*query.CompletionList, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}

	list := &query.CompletionList{IsManuallyInvoked: manuallyInvoked}
	for _, d := range f.Decls {
		list.Items = append(list.Items, query.CompletionItem{
			Label:  string(d.Name),
			Detail: describeDecl(ctx, d),
			Kind:   d.Kind,
		})
	}
	return list, nil
}

func (Impl) CompletionResolve(ctx *cachestate.Context, symbol string, kind string) (*query.CompletionItem, error) {
	_, _, d, ok := Resolve(ctx, cachestate.SymbolName(symbol))
	if !ok {
		return nil, fmt.Errorf("textqueries: %s not found", symbol)
	}
	return &query.CompletionItem{Label: string(d.Name), Detail: describeDecl(ctx, d), Kind: d.Kind}, nil
}

func (Impl) CompletionResolveLocation(ctx *cachestate.Context, path respath.Path, pos query.Position, kind string) (*query.CompletionItem, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}
	ident, ok := identifierAt(f, pos.Line, pos.Col)
	if !ok {
		return nil, fmt.Errorf("textqueries: no identifier at %s:%d:%d", path, pos.Line, pos.Col)
	}
	return Impl{}.CompletionResolve(ctx, ident, kind)
}

func (Impl) DocumentHighlight(ctx *cachestate.Context, path respath.Path, pos query.Position) (*query.DocumentHighlightResult, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}
	ident, ok := identifierAt(f, pos.Line, pos.Col)
	if !ok {
		return &query.DocumentHighlightResult{}, nil
	}

	var ranges []query.Range
	for i, line := range f.Lines {
		for _, col := range occurrences(line, ident) {
			ranges = append(ranges, query.Range{
				Start: query.Position{Line: i, Col: col},
				End:   query.Position{Line: i, Col: col + len(ident)},
			})
		}
	}
	return &query.DocumentHighlightResult{Ranges: ranges}, nil
}

func occurrences(line, ident string) []int {
	var out []int
	for i := 0; i+len(ident) <= len(line); i++ {
		if line[i:i+len(ident)] != ident {
			continue
		}
		if i > 0 && isIdentRune(line[i-1]) {
			continue
		}
		if end := i + len(ident); end < len(line) && isIdentRune(line[end]) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func isIdentRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (Impl) SignatureHelp(ctx *cachestate.Context, path respath.Path, pos query.Position) (*query.SignatureHelpResult, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}
	ident, ok := identifierAt(f, pos.Line, pos.Col)
	if !ok {
		return nil, fmt.Errorf("textqueries: no identifier at %s:%d:%d", path, pos.Line, pos.Col)
	}
	_, _, d, ok := Resolve(ctx, cachestate.SymbolName(ident))
	if !ok || d.Kind != "def" {
		return nil, fmt.Errorf("textqueries: %s is not a callable", ident)
	}
	return &query.SignatureHelpResult{Label: describeDecl(ctx, d), Parameters: d.Params}, nil
}

func (Impl) Definition(ctx *cachestate.Context, path respath.Path, pos query.Position) ([]query.Location, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}
	ident, ok := identifierAt(f, pos.Line, pos.Col)
	if !ok {
		return nil, nil
	}
	defPath, _, d, ok := Resolve(ctx, cachestate.SymbolName(ident))
	if !ok {
		return nil, nil
	}
	return []query.Location{{Path: defPath, Pos: query.Position{Line: d.Line, Col: d.Col}}}, nil
}

// TypeDefinition has no distinct notion of a "type" from a "value" in
// this toy language, so it resolves identically to Definition.
func (i Impl) TypeDefinition(ctx *cachestate.Context, path respath.Path, pos query.Position) ([]query.Location, error) {
	return i.Definition(ctx, path, pos)
}

func (Impl) DocumentSymbol(ctx *cachestate.Context, path respath.Path) (*query.DocumentSymbolResult, error) {
	f, err := astAt(ctx, path)
	if err != nil {
		return nil, err
	}
	res := &query.DocumentSymbolResult{}
	for _, d := range f.Decls {
		res.Symbols = append(res.Symbols, query.DocumentSymbolEntry{
			Name: string(d.Name),
			Kind: d.Kind,
			Range: query.Range{
				Start: query.Position{Line: d.Line, Col: d.Col},
				End:   query.Position{Line: d.Line, Col: d.Col + len(d.Name)},
			},
		})
	}
	return res, nil
}

func (Impl) TypeCoverage(ctx *cachestate.Context, path respath.Path) (*query.TypeCoverageResult, error) {
	t, err := ctx.TASTForPath(path)
	if err != nil {
		return nil, err
	}
	typed, ok := t.(*Typed)
	if !ok || typed == nil {
		return &query.TypeCoverageResult{}, nil
	}
	return &query.TypeCoverageResult{
		Typed: typed.Resolved,
		Total: typed.Resolved + typed.Unresolved,
	}, nil
}
