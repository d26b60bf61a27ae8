package resolve

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// DefaultMaxFilesPerProject bounds how many candidate source files a single
// project's import scan will read, overridable via MaxFilesEnvVar.
const DefaultMaxFilesPerProject = 400

// MaxFilesEnvVar overrides DefaultMaxFilesPerProject.
const MaxFilesEnvVar = "WIGGUM_RUNNER_INFER_IMPORT_MAX_FILES"

const maxScannedFileBytes = 1 << 20 // 1MB

var sourceGlobs = []string{
	"src/**", "test/**", "tests/**", "spec/**", "specs/**", "__tests__/**",
}

var sourceExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {}, ".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {}, ".mts": {}, ".cts": {},
}

var inferExcludeGlobs = []string{"**/node_modules/**", "**/dist/**", "**/*.d.ts"}

var (
	commentGap      = `(?:\s|//[^\n]*|/\*[\s\S]*?\*/)*`
	staticImportRe  = regexp.MustCompile(`\bimport\b` + commentGap + `[^'";]*?` + commentGap + `from` + commentGap + `['"]([^'"]+)['"]`)
	bareImportRe    = regexp.MustCompile(`\bimport` + commentGap + `['"]([^'"]+)['"]`)
	exportFromRe    = regexp.MustCompile(`\bexport\b` + commentGap + `[^'";]*?` + commentGap + `from` + commentGap + `['"]([^'"]+)['"]`)
	dynamicImportRe = regexp.MustCompile(`\bimport\s*\(` + commentGap + `['"]([^'"]+)['"]` + commentGap + `\)`)
	requireRe       = regexp.MustCompile(`\brequire\s*\(` + commentGap + `['"]([^'"]+)['"]` + commentGap + `\)`)
)

// ResolveMaxFilesPerProject reads MaxFilesEnvVar: unset or whitespace-only
// yields DefaultMaxFilesPerProject; any other value must parse as a
// positive integer or this fails with InvalidEnvVar. Callers should skip
// calling this (and ignore the env var entirely) when import inference is
// disabled, per spec.md §4.5.
func ResolveMaxFilesPerProject() (int, error) {
	raw := strings.TrimSpace(os.Getenv(MaxFilesEnvVar))
	if raw == "" {
		return DefaultMaxFilesPerProject, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, diag.New(diag.KindInvalidEnvVar, "%s must be a positive integer, got %q", MaxFilesEnvVar, raw)
	}
	return n, nil
}

// InferredEdges scans each project's source tree for import/require
// specifiers and maps any that resolve to another in-workspace project's
// declared package name into an inferred dependency edge. Scanning runs
// concurrently across projects, each capped at maxFiles candidate files.
func InferredEdges(ctx context.Context, projects []project.Project, nameByPackageName map[string]string, maxFiles int) ([]Edge, error) {
	results := make([][]Edge, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			edges, err := inferForProject(gctx, p, nameByPackageName, maxFiles)
			if err != nil {
				return err
			}
			results[i] = edges
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Edge
	for _, r := range results {
		all = append(all, r...)
	}
	return dedupeSortEdges(all), nil
}

func inferForProject(ctx context.Context, p project.Project, nameByPackageName map[string]string, maxFiles int) ([]Edge, error) {
	files := collectSourceFiles(p.Root)
	if maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}

	targets := make(map[string]struct{})
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(f)
		if err != nil || info.Size() > maxScannedFileBytes {
			continue
		}
		data, err := os.ReadFile(f) //nolint:gosec // f comes from a glob rooted at the project
		if err != nil {
			continue
		}

		for _, spec := range extractSpecifiers(string(data)) {
			pkg := packageNameFromSpecifier(spec)
			if pkg == "" || pkg == p.PackageName {
				continue
			}
			if name, ok := nameByPackageName[pkg]; ok && name != p.Name {
				targets[name] = struct{}{}
			}
		}
	}

	edges := make([]Edge, 0, len(targets))
	for name := range targets {
		edges = append(edges, Edge{From: name, To: p.Name, Reason: ReasonInferred})
	}
	return edges, nil
}

func collectSourceFiles(root string) []string {
	seen := make(map[string]struct{})
	var all []string
	for _, pattern := range sourceGlobs {
		matches, err := fsutil.ExpandGlob(pattern, root, inferExcludeGlobs)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if _, ok := sourceExtensions[filepath.Ext(m)]; !ok {
				continue
			}
			seen[m] = struct{}{}
			all = append(all, m)
		}
	}
	sort.Strings(all)
	return all
}

func extractSpecifiers(src string) []string {
	var out []string
	for _, re := range []*regexp.Regexp{staticImportRe, bareImportRe, exportFromRe, dynamicImportRe, requireRe} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			out = append(out, m[1])
		}
	}
	return out
}

// packageNameFromSpecifier derives the package name a bare import specifier
// belongs to: the first two slash-segments for a scoped package, otherwise
// the first segment. Relative and absolute specifiers name no package.
func packageNameFromSpecifier(spec string) string {
	if spec == "" || spec[0] == '.' || spec[0] == '/' {
		return ""
	}
	if spec[0] == '@' {
		idx := 0
		slashes := 0
		for i, r := range spec {
			if r == '/' {
				slashes++
				if slashes == 2 {
					idx = i
					break
				}
			}
		}
		if slashes < 2 {
			return spec
		}
		return spec[:idx]
	}
	if idx := indexByte(spec, '/'); idx >= 0 {
		return spec[:idx]
	}
	return spec
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
