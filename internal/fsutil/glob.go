package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RootDirToken is substituted with the enclosing scope's base root before a
// config-entry string is resolved or expanded, per spec.md §4.2/§6.
const RootDirToken = "<rootDir>"

// SubstituteRootDir replaces every occurrence of RootDirToken in pattern
// with rootDir.
func SubstituteRootDir(pattern, rootDir string) string {
	return strings.ReplaceAll(pattern, RootDirToken, rootDir)
}

// HasDynamicWildcard reports whether pattern contains glob metacharacters
// that require expansion rather than direct existence checking.
func HasDynamicWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ExpandGlob expands pattern relative to cwd, following symlinks, and
// returns sorted, de-duplicated absolute paths to files or directories that
// matched. ignore is a set of doublestar patterns (relative to cwd) that
// exclude matches.
func ExpandGlob(pattern, cwd string, ignore []string) ([]string, error) {
	fsys := os.DirFS(cwd)

	// Project-entry globs may match either files (manifests, tool configs)
	// or directories, so no file-type filter is applied here.
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if matchesAny(m, ignore) {
			continue
		}
		abs := filepath.Join(cwd, m)
		resolved, err := resolveSymlinks(abs)
		if err != nil {
			resolved = abs
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}

	sort.Strings(out)
	return out, nil
}

func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

func resolveSymlinks(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
