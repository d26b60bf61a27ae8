package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
	"github.com/ScriptedAlchemy/wiggum/internal/manifest"
)

// toolConfigPattern matches the tool-specific config files spec.md §4.2.1
// registers a project by (rslib.config.ts, rsbuild.config.js, ...).
var toolConfigPattern = regexp.MustCompile(`^(rslib|rsbuild|rspack|rspress|rstest|rslint)\.config\.(mjs|js|cjs|mts|cts|ts)$`)

// MutableProject accumulates everything known about a project while the
// config tree is being walked: it becomes a project.Project once
// collection completes.
type MutableProject struct {
	Root                   string
	Name                   string
	ConfigFile             string
	Args                   []string
	PackageName            string
	DependencyPackageNames map[string]struct{}
}

// Context is the mutable state threaded through collectEntries, per
// spec.md §4.2 ("maintain a mutable collect context").
type Context struct {
	ByRoot         map[string]*MutableProject
	ByName         map[string]string // name -> root
	visitedConfigs map[string]bool
	manifestCache  *manifest.Cache
}

func newContext() *Context {
	return &Context{
		ByRoot:         make(map[string]*MutableProject),
		ByName:         make(map[string]string),
		visitedConfigs: make(map[string]bool),
		manifestCache:  manifest.NewCache(),
	}
}

// CollectEntries loads the runner config for rootDir and walks its nested
// project-entry tree, returning the populated Context and the resolved
// config path.
func CollectEntries(rootDir, explicitPath string) (*Context, string, error) {
	configPath, cfg, err := Load(rootDir, explicitPath)
	if err != nil {
		return nil, "", err
	}

	ctx := newContext()
	if err := ctx.walkConfigFile(configPath, cfg, nil, nil); err != nil {
		return nil, "", err
	}
	return ctx, configPath, nil
}

// walkConfigFile processes one loaded config file: it merges in the
// config's own defaults.args/ignore, then walks its projects array (or the
// single implicit entry if that array is absent).
func (ctx *Context) walkConfigFile(configPath string, cfg *RootConfig, inheritedArgs, inheritedIgnore []string) error {
	ctx.visitedConfigs[configPath] = true

	scopeRoot := filepath.Dir(configPath)
	if cfg.Root != "" {
		resolved := fsutil.SubstituteRootDir(cfg.Root, scopeRoot)
		scopeRoot = resolveAgainst(resolved, scopeRoot)
	}

	args := inheritedArgs
	if cfg.Defaults != nil {
		args = mergeArgsDedup(inheritedArgs, cfg.Defaults.Args)
	}
	ignore := append(append([]string{}, inheritedIgnore...), cfg.Ignore...)

	if len(cfg.Projects) == 0 {
		return ctx.addProject(scopeRoot, "", "", args)
	}

	for _, entry := range cfg.Projects {
		if err := ctx.processEntry(entry, scopeRoot, args, ignore); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) processEntry(entry Entry, scopeRoot string, inheritedArgs, inheritedIgnore []string) error {
	if entry.IsString {
		return ctx.processStringEntry(entry.StringForm, scopeRoot, inheritedArgs, inheritedIgnore)
	}
	return ctx.processObjectEntry(entry, scopeRoot, inheritedArgs, inheritedIgnore)
}

func (ctx *Context) processStringEntry(raw, scopeRoot string, args, ignore []string) error {
	pattern := fsutil.SubstituteRootDir(raw, scopeRoot)

	if fsutil.HasDynamicWildcard(pattern) {
		matches, err := fsutil.ExpandGlob(pattern, scopeRoot, ignore)
		if err != nil {
			return diag.Wrap(diag.KindInvalidConfig, err, "expanding project glob %q", raw)
		}
		for _, m := range matches {
			if err := ctx.dispatchPath(m, args, ignore); err != nil {
				return err
			}
		}
		return nil
	}

	abs := resolveAgainst(pattern, scopeRoot)
	if !fsutil.Exists(abs) {
		return diag.New(diag.KindMissingProjectEntry, "project entry %q does not exist (resolved to %s)", raw, abs)
	}
	return ctx.dispatchPath(abs, args, ignore)
}

func (ctx *Context) processObjectEntry(entry Entry, scopeRoot string, inheritedArgs, inheritedIgnore []string) error {
	entryRoot := scopeRoot
	if entry.Root != "" {
		entryRoot = resolveAgainst(fsutil.SubstituteRootDir(entry.Root, scopeRoot), scopeRoot)
	}

	mergedArgs := mergeArgsDedup(inheritedArgs, entry.Args)
	mergedIgnore := append(append([]string{}, inheritedIgnore...), entry.Ignore...)

	if len(entry.Projects) > 0 {
		for _, nested := range entry.Projects {
			if err := ctx.processEntry(nested, entryRoot, mergedArgs, mergedIgnore); err != nil {
				return err
			}
		}
		return nil
	}

	if entry.Config != "" && isRecognizedConfigName(entry.Config) {
		configPath := resolveAgainst(fsutil.SubstituteRootDir(entry.Config, entryRoot), entryRoot)
		return ctx.descendInto(configPath, mergedArgs, mergedIgnore)
	}
	if entry.Config != "" && isUnsupportedConfigName(entry.Config) {
		configPath := resolveAgainst(fsutil.SubstituteRootDir(entry.Config, entryRoot), entryRoot)
		return unsupportedVariantError(configPath)
	}

	return ctx.addProject(entryRoot, entry.Name, entry.Config, mergedArgs)
}

// dispatchPath implements the path-kind dispatch of spec.md §4.2.1 for a
// resolved absolute path (from a glob expansion or a direct string entry).
func (ctx *Context) dispatchPath(path string, args, ignore []string) error {
	if fsutil.IsDir(path) {
		if recognized := findRecognizedConfigIn(path); recognized != "" {
			return ctx.descendInto(recognized, args, ignore)
		}
		if unsupported := findUnsupportedConfigIn(path); unsupported != "" {
			return unsupportedVariantError(unsupported)
		}
		return ctx.addProject(path, "", "", args)
	}

	base := filepath.Base(path)
	switch {
	case isRecognizedConfigName(base):
		return ctx.descendInto(path, args, ignore)
	case isUnsupportedConfigName(base):
		return unsupportedVariantError(path)
	case base == manifest.ManifestFile:
		return ctx.addProject(filepath.Dir(path), "", "", args)
	case toolConfigPattern.MatchString(base):
		return ctx.addProject(filepath.Dir(path), "", path, args)
	default:
		return diag.New(diag.KindUnsupportedProjectFile, "Unsupported project file %s in %s", base, filepath.Dir(path))
	}
}

func (ctx *Context) descendInto(configPath string, args, ignore []string) error {
	if ctx.visitedConfigs[configPath] {
		return nil
	}
	if !fsutil.Exists(configPath) {
		return diag.New(diag.KindMissingProjectEntry, "referenced config %s does not exist", configPath)
	}
	cfg, err := parseFile(configPath)
	if err != nil {
		return err
	}
	return ctx.walkConfigFile(configPath, cfg, args, ignore)
}

// addProject implements the registration semantics of spec.md §4.2
// ("Registration semantics (addProject)"): normalize the root, read the
// manifest, resolve the name, and merge into an existing entry or reject a
// name collision against a different root.
func (ctx *Context) addProject(root, explicitName, configFile string, args []string) error {
	normRoot, err := fsutil.Normalize(root)
	if err != nil {
		return diag.Wrap(diag.KindMissingProjectEntry, err, "resolving project root %s", root)
	}
	if !fsutil.Exists(normRoot) {
		return diag.New(diag.KindMissingProjectEntry, "project root %s does not exist", normRoot)
	}

	info := manifest.ReadPackageInfo(normRoot, ctx.manifestCache)
	name := explicitName
	if name == "" {
		name = info.PackageName
	}
	if name == "" {
		name = filepath.Base(normRoot)
	}

	if existing, ok := ctx.ByRoot[normRoot]; ok {
		existing.Args = mergeArgsDedup(existing.Args, args)
		if configFile != "" && existing.ConfigFile == "" {
			existing.ConfigFile = configFile
		}
		return nil
	}

	if existingRoot, ok := ctx.ByName[name]; ok && existingRoot != normRoot {
		return diag.New(diag.KindDuplicateProjectName,
			"duplicate project name %q: already registered at %s, also found at %s", name, existingRoot, normRoot)
	}

	ctx.ByRoot[normRoot] = &MutableProject{
		Root:                   normRoot,
		Name:                   name,
		ConfigFile:             configFile,
		Args:                   dedupeArgs(args),
		PackageName:            info.PackageName,
		DependencyPackageNames: info.DependencyPackageNames,
	}
	ctx.ByName[name] = normRoot
	return nil
}

func resolveAgainst(path, base string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

func mergeArgsDedup(outer, inner []string) []string {
	return dedupeArgs(append(append([]string{}, outer...), inner...))
}

func dedupeArgs(args []string) []string {
	seen := make(map[string]struct{}, len(args))
	out := make([]string, 0, len(args))
	for _, a := range args {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func isRecognizedConfigName(name string) bool {
	base := filepath.Base(name)
	for _, n := range RecognizedNames {
		if base == n {
			return true
		}
	}
	return false
}

func isUnsupportedConfigName(name string) bool {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, "wiggum.config") {
		return false
	}
	for _, suffix := range UnsupportedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func findRecognizedConfigIn(dir string) string {
	for _, n := range RecognizedNames {
		candidate := filepath.Join(dir, n)
		if fsutil.Exists(candidate) {
			return candidate
		}
	}
	return ""
}

func findUnsupportedConfigIn(dir string) string {
	for _, suffix := range UnsupportedSuffixes {
		candidate := filepath.Join(dir, "wiggum.config"+suffix)
		if fsutil.Exists(candidate) {
			return candidate
		}
	}
	return ""
}
