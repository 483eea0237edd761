package respath

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StubMaterializer is the out-of-scope collaborator (spec.md §1,
// "temporary-directory materialization of standard-library stubs") that
// the core calls through at initialize time and whenever stub-directory
// resilience (spec.md §4.7) needs a fresh copy. The core treats it as
// opaque: it only cares about the directory path that comes back.
type StubMaterializer interface {
	// Materialize writes a fresh copy of the standard-library stubs to a
	// new temporary directory and returns its absolute path.
	Materialize() (dir string, err error)
}

// DefaultResolver is the Resolver used outside of tests: RootRepo resolves
// under a fixed repository root, RootStdlib under whatever directory the
// StubMaterializer most recently produced, and RootScratch under a
// dedicated scratch directory next to the stubs.
//
// Mutation (Rematerialize swapping the stdlib root) is guarded by a mutex
// even though spec.md §5 guarantees a single executor, because Resolve is
// also called from within query implementations that the core does not
// control the concurrency discipline of (spec.md §1, out of scope); the
// mutex costs nothing on the single-threaded path and removes a footgun
// for a future multi-reader query implementation.
type DefaultResolver struct {
	repoRoot string
	mat      StubMaterializer

	mu         sync.Mutex
	stdlibRoot string
	scratch    string
}

// NewDefaultResolver materializes the initial stubs directory and returns
// a Resolver rooted at repoRoot.
func NewDefaultResolver(repoRoot string, mat StubMaterializer) (*DefaultResolver, error) {
	r := &DefaultResolver{repoRoot: repoRoot, mat: mat}
	if err := r.Rematerialize(); err != nil {
		return nil, fmt.Errorf("materializing stdlib stubs: %w", err)
	}
	return r, nil
}

func (r *DefaultResolver) Resolve(p Path) string {
	switch p.Root {
	case RootStdlib:
		r.mu.Lock()
		root := r.stdlibRoot
		r.mu.Unlock()
		return filepath.Join(root, filepath.FromSlash(p.Relative))
	case RootScratch:
		r.mu.Lock()
		root := r.scratch
		r.mu.Unlock()
		return filepath.Join(root, filepath.FromSlash(p.Relative))
	default:
		return filepath.Join(r.repoRoot, filepath.FromSlash(p.Relative))
	}
}

func (r *DefaultResolver) StdlibRoot() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stdlibRoot
}

func (r *DefaultResolver) Rematerialize() error {
	dir, err := r.mat.Materialize()
	if err != nil {
		return err
	}

	scratch := filepath.Join(filepath.Dir(dir), "scratch")
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}

	r.mu.Lock()
	r.stdlibRoot = dir
	r.scratch = scratch
	r.mu.Unlock()
	return nil
}

// Exists reports whether dir is present on disk. It is used by
// stub-directory resilience (spec.md §4.7) to detect the case where an
// external cleaner has removed the stubs root out from under the daemon.
func Exists(dir string) bool {
	_, err := os.Stat(dir)
	return err == nil
}
