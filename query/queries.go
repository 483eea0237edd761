// Package query defines the external query surface spec.md places out of
// scope (§1: "The concrete query algorithms (hover, completion, etc.) —
// their only contract with the core is the snapshot they receive"). The
// Queries interface is that contract; NotImplementedQueries is the
// ENOSYS-equivalent default, directly generalizing
// fuseutil.NotImplementedFileSystem so that embedding it keeps a partial
// implementation compiling as new query kinds are added.
package query

import (
	"errors"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// ErrNotImplemented is returned by every method of NotImplementedQueries.
var ErrNotImplemented = errors.New("query not implemented")

// Position is a zero-based line/column pair, as in spec.md §6's
// Hover{..., line, col}.
type Position struct {
	Line int
	Col  int
}

// Location names a position in a specific file.
type Location struct {
	Path respath.Path
	Pos  Position
}

// HoverResult is the response to a Hover request.
type HoverResult struct {
	Contents string
}

// CompletionItem is one entry of a Completion response, and also the
// shape CompletionResolve/CompletionResolveLocation return once a
// specific item has been resolved to its full detail.
type CompletionItem struct {
	Label  string
	Detail string
	Kind   string
}

// CompletionList is the response to a Completion request.
type CompletionList struct {
	Items             []CompletionItem
	IsManuallyInvoked bool
}

// SignatureHelpResult is the response to a SignatureHelp request.
type SignatureHelpResult struct {
	Label      string
	Parameters []string
}

// Range is a half-open span within a single file.
type Range struct {
	Start Position
	End   Position
}

// DocumentHighlightResult is the response to a DocumentHighlight request.
type DocumentHighlightResult struct {
	Ranges []Range
}

// DocumentSymbolEntry is one entry of a DocumentSymbol response.
type DocumentSymbolEntry struct {
	Name  string
	Kind  string
	Range Range
}

// DocumentSymbolResult is the response to a DocumentSymbol request.
type DocumentSymbolResult struct {
	Symbols []DocumentSymbolEntry
}

// TypeCoverageResult is the response to a TypeCoverage request. Typed and
// Total are the supplemented feature of SPEC_FULL.md §D.1: spec.md names
// the request but not its response shape.
type TypeCoverageResult struct {
	Typed int
	Total int
}

// Percentage returns the fraction of Total that is Typed, as a value in
// [0, 100]. It reports 100 for a file with no type-checkable expressions
// at all, since "0 of 0 typed" should not read as uncovered.
func (r TypeCoverageResult) Percentage() float64 {
	if r.Total == 0 {
		return 100
	}
	return 100 * float64(r.Typed) / float64(r.Total)
}

// Queries is the interface the daemon calls through Quarantine (or
// directly, for the two requests spec.md §4.2 exempts) to answer every
// request tag named in spec.md §6. Every method receives the *cachestate.
// Context produced for that call — already quarantined where the request
// kind requires it — and must not reach for state outside of it.
type Queries interface {
	Hover(ctx *cachestate.Context, path respath.Path, pos Position) (*HoverResult, error)
	Completion(ctx *cachestate.Context, path respath.Path, pos Position, manuallyInvoked bool) (*CompletionList, error)
	CompletionResolve(ctx *cachestate.Context, symbol string, kind string) (*CompletionItem, error)
	CompletionResolveLocation(ctx *cachestate.Context, path respath.Path, pos Position, kind string) (*CompletionItem, error)
	DocumentHighlight(ctx *cachestate.Context, path respath.Path, pos Position) (*DocumentHighlightResult, error)
	SignatureHelp(ctx *cachestate.Context, path respath.Path, pos Position) (*SignatureHelpResult, error)
	Definition(ctx *cachestate.Context, path respath.Path, pos Position) ([]Location, error)
	TypeDefinition(ctx *cachestate.Context, path respath.Path, pos Position) ([]Location, error)
	DocumentSymbol(ctx *cachestate.Context, path respath.Path) (*DocumentSymbolResult, error)
	TypeCoverage(ctx *cachestate.Context, path respath.Path) (*TypeCoverageResult, error)
}

// NotImplementedQueries answers every query with ErrNotImplemented. Embed
// it in a partial Queries implementation to inherit defaults for the
// kinds you haven't built yet, the same role
// fuseutil.NotImplementedFileSystem plays for FileSystem.
type NotImplementedQueries struct{}

var _ Queries = NotImplementedQueries{}

func (NotImplementedQueries) Hover(*cachestate.Context, respath.Path, Position) (*HoverResult, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) Completion(*cachestate.Context, respath.Path, Position, bool) (*CompletionList, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) CompletionResolve(*cachestate.Context, string, string) (*CompletionItem, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) CompletionResolveLocation(*cachestate.Context, respath.Path, Position, string) (*CompletionItem, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) DocumentHighlight(*cachestate.Context, respath.Path, Position) (*DocumentHighlightResult, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) SignatureHelp(*cachestate.Context, respath.Path, Position) (*SignatureHelpResult, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) Definition(*cachestate.Context, respath.Path, Position) ([]Location, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) TypeDefinition(*cachestate.Context, respath.Path, Position) ([]Location, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) DocumentSymbol(*cachestate.Context, respath.Path) (*DocumentSymbolResult, error) {
	return nil, ErrNotImplemented
}

func (NotImplementedQueries) TypeCoverage(*cachestate.Context, respath.Path) (*TypeCoverageResult, error) {
	return nil, ErrNotImplemented
}

// QuarantinedKinds lists the request tags spec.md §4.2 routes through
// Quarantine. DocumentSymbol and CompletionResolve are deliberately
// absent: DocumentSymbol reads only entry-local syntax and
// CompletionResolve (given a symbol name, not a position) reads only the
// shared folded decls, so neither needs isolation from unsaved edits.
var QuarantinedKinds = map[string]bool{
	"Hover":                     true,
	"Completion":                true,
	"SignatureHelp":             true,
	"Definition":                true,
	"TypeDefinition":            true,
	"DocumentHighlight":         true,
	"CompletionResolveLocation": true,
	"TypeCoverage":              true,
}
