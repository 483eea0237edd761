// Package textqueries is a minimal, real implementation of the
// collaborators spec.md §1 places out of scope (parsing, shallow/folded
// decls, linearization, type-checking) and of the query.Queries
// interface built on top of them. It plays the role the teacher's
// samples/memfs plays for fuseops.FileSystem: not a production parser or
// type checker, but a small, fully working implementation that exercises
// every cache layer and invalidation rule end to end.
//
// The "language" it understands is deliberately trivial: a source file is
// a sequence of lines, and a line of the form "def NAME(PARAMS)" or
// "class NAME" declares a symbol. There is no real type system; TypeCheck
// only records which declarations a file references, so TypeCoverage has
// something real to count.
package textqueries

import (
	"strings"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
)

// Decl is one declaration recognized in a source file.
type Decl struct {
	Name   cachestate.SymbolName
	Kind   string // "def" or "class"
	Line   int
	Col    int
	Params []string
}

// File is the AST this package's ParseFile produces: the source split
// into lines plus the declarations found in it.
type File struct {
	Lines []string
	Decls []Decl
}

// Typed is the TAST this package's TypeCheck produces: a File plus, for
// every reference to a name bound to some whole-program declaration
// (shallow, folded, or a builtin), whether that reference resolved.
type Typed struct {
	File       *File
	Resolved   int
	Unresolved int
}

// ParseFile implements cachestate.Collaborators.ParseFile.
func ParseFile(path cachestate.Path, contents string) (cachestate.AST, cachestate.FileInfo, error) {
	lines := strings.Split(contents, "\n")
	f := &File{Lines: lines}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "def "):
			name, params := parseDef(trimmed)
			if name != "" {
				col := strings.Index(line, "def") + len("def ")
				f.Decls = append(f.Decls, Decl{Name: cachestate.SymbolName(name), Kind: "def", Line: i, Col: col, Params: params})
			}
		case strings.HasPrefix(trimmed, "class "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "class "))
			name = strings.TrimSuffix(name, "{")
			name = strings.TrimSpace(name)
			if name != "" {
				col := strings.Index(line, "class") + len("class ")
				f.Decls = append(f.Decls, Decl{Name: cachestate.SymbolName(name), Kind: "class", Line: i, Col: col})
			}
		}
	}

	info := cachestate.FileInfo{}
	for _, d := range f.Decls {
		info.Symbols = append(info.Symbols, d.Name)
	}

	return f, info, nil
}

func parseDef(trimmed string) (name string, params []string) {
	rest := strings.TrimPrefix(trimmed, "def ")
	open := strings.Index(rest, "(")
	if open < 0 {
		return strings.TrimSpace(rest), nil
	}
	name = strings.TrimSpace(rest[:open])
	close := strings.Index(rest, ")")
	if close < 0 || close < open {
		return name, nil
	}
	inner := strings.TrimSpace(rest[open+1 : close])
	if inner == "" {
		return name, nil
	}
	for _, p := range strings.Split(inner, ",") {
		params = append(params, strings.TrimSpace(p))
	}
	return name, params
}

// declAt returns the declaration whose name spans (line, col), if any.
func declAt(f *File, line, col int) (Decl, bool) {
	for _, d := range f.Decls {
		if d.Line != line {
			continue
		}
		if col >= d.Col && col <= d.Col+len(d.Name) {
			return d, true
		}
	}
	return Decl{}, false
}

// identifierAt returns the whitespace/punctuation-delimited token at
// (line, col) in f, if any — used to resolve a hover/definition/highlight
// query that lands on a reference rather than a declaration's own name.
func identifierAt(f *File, line, col int) (string, bool) {
	if line < 0 || line >= len(f.Lines) {
		return "", false
	}
	text := f.Lines[line]
	if col < 0 || col > len(text) {
		return "", false
	}

	isIdentByte := func(b byte) bool {
		return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	}
	if col == len(text) || !isIdentByte(text[col]) {
		return "", false
	}

	start := col
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	end := col
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	if start == end {
		return "", false
	}
	return text[start:end], true
}
