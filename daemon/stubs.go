package daemon

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/terrorizer1980/hh-ide-daemon/respath"
)

// DirStubMaterializer is the respath.StubMaterializer (spec.md §1's
// "temporary-directory materialization of standard-library stubs") used by
// cmd/hhided and the daemon tests: it copies a fixed source directory of
// stub files (none, when Source is empty) into
// a freshly created temp directory on every call, so that Rematerialize
// (spec.md §4.7) always yields a directory nothing else has mutated.
type DirStubMaterializer struct {
	// Source is the directory the real stub files live in (e.g. bundled
	// alongside the daemon binary). Materialize copies its contents.
	Source string
}

func (m DirStubMaterializer) Materialize() (string, error) {
	dir, err := os.MkdirTemp("", "hhided-stdlib-")
	if err != nil {
		return "", fmt.Errorf("creating stdlib stub dir: %w", err)
	}

	if m.Source == "" {
		return dir, nil
	}

	err = filepath.Walk(m.Source, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(m.Source, path)
		if relErr != nil {
			return relErr
		}
		dst := filepath.Join(dir, rel)
		if info.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		return copyFile(path, dst)
	})
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("copying stdlib stubs from %s: %w", m.Source, err)
	}

	return dir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// RemoveStubs deletes the resolver's current standard-library stubs
// directory, per Shutdown's cleanup (spec.md §4.6).
func RemoveStubs(resolver respath.Resolver) error {
	root := resolver.StdlibRoot()
	if root == "" {
		return nil
	}
	return os.RemoveAll(root)
}

// ensureStubs implements stub-directory resilience (spec.md §4.7): before
// any entry-creating operation, check that the materialized stdlib root
// still exists; if an external cleaner removed it, rematerialize and let
// the resolver's updated path prefix take over. No cache is invalidated —
// the check is only ever observable through which absolute path a RootStdlib
// Path resolves to.
func ensureStubs(resolver respath.Resolver) error {
	root := resolver.StdlibRoot()
	if root != "" && respath.Exists(root) {
		return nil
	}
	return resolver.Rematerialize()
}
