// Package fsutil implements the path, glob, and JSON utilities of
// spec.md §4.1 (C1): normalize/relativize paths, check existence, read
// JSON, expand globs, and import JavaScript-style config modules.
package fsutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Normalize resolves p to an absolute, cleaned path. Symlinks are not
// resolved here — that happens at glob-expansion time, per spec.md §4.1
// ("following symlinks" is a property of expansion, not of normalization).
func Normalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Relativize returns p relative to root for display purposes only. A p
// outside root yields a relative path with ".." segments; if the relative
// path cannot be computed at all, p itself (cleaned) is returned — display
// paths never fail the caller.
func Relativize(p, root string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.Clean(p)
	}
	return rel
}

// Exists reports whether p refers to an existing filesystem entry.
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// ReadJSON reads and parses p as JSON into an arbitrary value. Callers that
// only need a handful of fields from a loosely-structured document (as the
// manifest parser does across nine dependency-specifier dialects) should
// prefer ReadJSONRaw plus gjson lookups instead of unmarshaling into a
// rigid struct.
func ReadJSON(p string, out any) error {
	data, err := os.ReadFile(p) //nolint:gosec // p is produced by the caller's own glob/config walk
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ReadJSONRaw reads p and returns a gjson.Result over its contents, for
// dialect-agnostic field lookups (used by the manifest parser).
func ReadJSONRaw(p string) (gjson.Result, error) {
	data, err := os.ReadFile(p) //nolint:gosec // p is produced by the caller's own glob/config walk
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid JSON", p)
	}
	return gjson.ParseBytes(data), nil
}
