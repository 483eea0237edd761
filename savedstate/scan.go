package savedstate

import (
	"io/fs"
	"path/filepath"
	"time"
)

var sourceExtensions = map[string]struct{}{
	".hack":        {},
	".hackpartial": {},
	".hhi":         {},
	".php":         {},
}

// eachSourceFileNewerThan walks root and invokes fn with the root-relative
// path of every recognized source file modified after cutoff.
func eachSourceFileNewerThan(root string, cutoff time.Time, fn func(relPath string)) error {
	return filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := sourceExtensions[filepath.Ext(path)]; !ok {
			return nil
		}
		if !info.ModTime().After(cutoff) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		fn(filepath.ToSlash(rel))
		return nil
	})
}
