// Package manifest implements spec.md §4.3 (C3): reading a project's
// package manifest and extracting its declared name plus the set of
// dependency target package names across every supported specifier
// dialect.
package manifest

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
)

// ManifestFile is the package manifest file name this parser recognizes.
const ManifestFile = "package.json"

// Info is the result of reading a project's manifest: its declared name
// (if any) and the external package names its dependency fields name,
// before those names are mapped to in-workspace projects by the resolver.
type Info struct {
	PackageName            string
	DependencyPackageNames map[string]struct{}
}

var dependencyFields = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}
var bundleFields = []string{"bundleDependencies", "bundledDependencies"}

// Cache resolves absolute manifest-bearing directories to their declared
// package name, memoizing repeated reads triggered by file:/link:/portal:
// specifiers that point elsewhere in the workspace (spec.md §4.3).
type Cache struct {
	mu   sync.Mutex
	byRoot map[string]string
}

func NewCache() *Cache {
	return &Cache{byRoot: make(map[string]string)}
}

// nameAt returns the declared package name for the manifest at root,
// caching the result (including the empty string, for manifests with no
// name or that don't exist).
func (c *Cache) nameAt(root string) string {
	c.mu.Lock()
	if name, ok := c.byRoot[root]; ok {
		c.mu.Unlock()
		return name
	}
	c.mu.Unlock()

	name := readDeclaredName(root)

	c.mu.Lock()
	c.byRoot[root] = name
	c.mu.Unlock()
	return name
}

func readDeclaredName(root string) string {
	doc, err := fsutil.ReadJSONRaw(filepath.Join(root, ManifestFile))
	if err != nil {
		return ""
	}
	return doc.Get("name").String()
}

// ReadPackageInfo reads root's package.json and extracts its declared name
// and the full set of dependency target package names across every
// supported dialect. A missing manifest or a parse error is non-fatal: it
// yields an empty Info, per spec.md §4.3.
func ReadPackageInfo(root string, cache *Cache) *Info {
	info := &Info{DependencyPackageNames: make(map[string]struct{})}

	doc, err := fsutil.ReadJSONRaw(filepath.Join(root, ManifestFile))
	if err != nil {
		return info
	}

	info.PackageName = doc.Get("name").String()

	for _, field := range dependencyFields {
		doc.Get(field).ForEach(func(key, value gjson.Result) bool {
			addTarget(info, root, cache, key.String(), value)
			return true
		})
	}

	for _, field := range bundleFields {
		doc.Get(field).ForEach(func(_, value gjson.Result) bool {
			if value.Type == gjson.String && value.String() != "" {
				info.DependencyPackageNames[value.String()] = struct{}{}
			}
			return true
		})
	}

	return info
}

// addTarget records the dependency-field entry (name -> specifier) on
// info, per the two merged sources of spec.md §4.3: the field's own key is
// always a target name, and if the specifier additionally resolves to a
// local-package alias, that alias target is recorded too.
func addTarget(info *Info, root string, cache *Cache, depName string, value gjson.Result) {
	if depName == "" {
		return
	}
	info.DependencyPackageNames[depName] = struct{}{}

	if value.Type != gjson.String {
		return
	}

	spec := ParseSpecifier(value.String())
	switch s := spec.(type) {
	case NpmAlias:
		if s.Name != "" {
			info.DependencyPackageNames[s.Name] = struct{}{}
		}
	case WorkspaceAliasPackage:
		if s.Name != "" {
			info.DependencyPackageNames[s.Name] = struct{}{}
		}
	case FilePath:
		addResolvedPathTarget(info, root, s.Path, cache)
	case LinkPath:
		addResolvedPathTarget(info, root, s.Path, cache)
	case PortalPath:
		addResolvedPathTarget(info, root, s.Path, cache)
	case WorkspacePath:
		addResolvedPathTarget(info, root, s.Path, cache)
	case Registry, Unknown:
		// No additional alias target beyond the field key already added.
	}
}

func addResolvedPathTarget(info *Info, root, relPath string, cache *Cache) {
	if target := resolvePathTarget(root, relPath, cache); target != "" {
		info.DependencyPackageNames[target] = struct{}{}
	}
}

// resolvePathTarget resolves a file:/link:/portal:/workspace-path specifier
// against root, and reads the target's declared package name (directly or
// via its containing directory's package.json).
func resolvePathTarget(root, relPath string, cache *Cache) string {
	if relPath == "" {
		return ""
	}
	abs := filepath.Join(root, relPath)

	manifestDir := abs
	if strings.HasSuffix(abs, ManifestFile) {
		manifestDir = filepath.Dir(abs)
	} else if !fsutil.IsDir(abs) && fsutil.Exists(abs) {
		manifestDir = filepath.Dir(abs)
	}

	if !fsutil.Exists(filepath.Join(manifestDir, ManifestFile)) {
		return ""
	}
	return cache.nameAt(manifestDir)
}
