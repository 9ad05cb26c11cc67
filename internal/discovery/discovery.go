package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultGlob selects every file under target by default.
const DefaultGlob = "**/*"

// Discover walks target and returns every regular file whose path
// relative to target matches glob, sorted for deterministic batch
// partitioning. glob supports a single "**/" segment meaning "any
// number of directories"; beyond that it is plain filepath.Match
// syntax.
func Discover(target, glob string) ([]string, error) {
	if glob == "" {
		glob = DefaultGlob
	}

	var files []string
	err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(target, path)
		if err != nil {
			return fmt.Errorf("discovery: relativize %s: %w", path, err)
		}
		if matchGlob(glob, filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: walk %s: %w", target, err)
	}

	sort.Strings(files)
	return files, nil
}

func matchGlob(pattern, relPath string) bool {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		ok, _ := filepath.Match(pattern, relPath)
		return ok
	}

	prefix := pattern[:idx]
	suffix := pattern[idx+len("**/"):]
	if !strings.HasPrefix(relPath, prefix) {
		return false
	}

	segments := strings.Split(relPath[len(prefix):], "/")
	for start := 0; start < len(segments); start++ {
		candidate := strings.Join(segments[start:], "/")
		if ok, _ := filepath.Match(suffix, candidate); ok {
			return true
		}
	}
	return false
}
