// Package savedstate models the out-of-scope saved-state loader of
// spec.md §1: "The on-disk saved-state loader (opaque blob, produces a
// reverse-naming index and a list of files that changed since the blob
// was produced)." The core only ever calls through the Loader interface;
// this package additionally provides a small JSON-backed implementation
// so the daemon is runnable without a separate precomputation pipeline.
package savedstate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/terrorizer1980/hh-ide-daemon/internal/cachestate"
	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// Blob is the decoded form of the saved-state file: for every symbol
// name, the repo-relative path that defined it as of when the blob was
// produced.
type Blob struct {
	Symbols map[string]string `json:"symbols"`
}

// Index adapts a Blob to cachestate.PersistentIndex.
type Index struct {
	blob Blob
}

func (i *Index) Lookup(name cachestate.SymbolName) (cachestate.Path, bool) {
	rel, ok := i.blob.Symbols[string(name)]
	if !ok {
		return cachestate.Path{}, false
	}
	return respath.New(respath.RootRepo, rel), true
}

// ForwardIndex inverts the blob's symbol->path map into path->symbols, the
// shape the Forward Naming Table needs (spec.md §4.5 step 5: "build FNT
// from saved state"). It is computed once per Index, not cached, since
// Initialize only ever calls it once.
func (i *Index) ForwardIndex() map[cachestate.Path][]cachestate.SymbolName {
	out := make(map[cachestate.Path][]cachestate.SymbolName)
	for name, rel := range i.blob.Symbols {
		p := respath.New(respath.RootRepo, rel)
		out[p] = append(out[p], cachestate.SymbolName(name))
	}
	return out
}

// Result is what Load or a Loader yields (spec.md §4.5 step 4/5): a
// persistent reverse index and the set of paths that changed since the
// blob was produced.
type Result struct {
	Index         *Index
	ChangedPaths  []respath.Path
}

// Loader is the external collaborator invoked when Initialize does not
// supply a saved_state_path directly (spec.md §4.5 step 4).
type Loader interface {
	Load() (Result, error)
}

// LoadFromPath reads a saved-state blob from an explicit path, per the
// "supplied path" branch of spec.md §4.5 step 4: the caller asserts there
// are no changed files since the blob was produced, so ChangedPaths is
// always empty.
func LoadFromPath(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading saved state %s: %w", path, err)
	}

	var blob Blob
	if err := json.Unmarshal(b, &blob); err != nil {
		return Result{}, fmt.Errorf("decoding saved state %s: %w", path, err)
	}

	return Result{Index: &Index{blob: blob}, ChangedPaths: nil}, nil
}

// FileLoader is a Loader that reads a blob from disk, the way it was most
// recently produced by an out-of-process precomputation step, and treats
// every *.hack/*.hhi/*.php file under repoRoot whose mtime is newer than
// the blob file's mtime as changed. It is the daemon's default Loader
// when no saved_state_path is given.
type FileLoader struct {
	BlobPath string
	RepoRoot string
}

func (l *FileLoader) Load() (Result, error) {
	info, err := os.Stat(l.BlobPath)
	if err != nil {
		return Result{}, fmt.Errorf("stat saved state %s: %w", l.BlobPath, err)
	}

	res, err := LoadFromPath(l.BlobPath)
	if err != nil {
		return Result{}, err
	}

	var changed []respath.Path
	err = eachSourceFileNewerThan(l.RepoRoot, info.ModTime(), func(rel string) {
		changed = append(changed, respath.New(respath.RootRepo, rel))
	})
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s for changes: %w", l.RepoRoot, err)
	}

	res.ChangedPaths = changed
	return res, nil
}
