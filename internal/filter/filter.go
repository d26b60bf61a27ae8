// Package filter narrows a project set by name/root/config-file wildcard
// patterns, and (for run flows) expands a selection to its transitive
// dependency closure.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// Apply narrows projects by patterns: plain patterns add matching projects,
// a `!`-prefixed pattern removes matching projects from whatever the plain
// patterns selected (or from the full set, if no plain pattern was given).
// Matching is case-insensitive against the project's name, its full root
// path, its root's base name, and its config file path. An empty result after filtering is
// fatal, per the NoProjectsSelected diagnostic.
func Apply(projects []project.Project, patterns []string) ([]project.Project, error) {
	if len(patterns) == 0 {
		return projects, nil
	}

	anyPositive := false
	for _, pat := range patterns {
		if !strings.HasPrefix(pat, "!") {
			anyPositive = true
			break
		}
	}

	base := make(map[string]bool, len(projects))
	if anyPositive {
		for _, pat := range patterns {
			if strings.HasPrefix(pat, "!") {
				continue
			}
			for _, p := range projects {
				if matchesProject(p, pat) {
					base[p.Name] = true
				}
			}
		}
	} else {
		for _, p := range projects {
			base[p.Name] = true
		}
	}

	for _, pat := range patterns {
		if !strings.HasPrefix(pat, "!") {
			continue
		}
		body := pat[1:]
		for _, p := range projects {
			if matchesProject(p, body) {
				delete(base, p.Name)
			}
		}
	}

	var result []project.Project
	for _, p := range projects {
		if base[p.Name] {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, diag.New(diag.KindNoProjectsSelected, "no projects selected: no project matched filters %s", strings.Join(patterns, ", "))
	}
	return result, nil
}

// matchesProject tests pattern against the project's name, its full root
// path, its root's base name, and its config file path, per spec.md
// §4.7. Root and config paths are matched both as a full pattern and as a
// path suffix (pattern prefixed with "**/"), so a realistic multi-segment
// filter like "packages/app" matches an absolute root ending in
// ".../packages/app" without the caller having to spell out the whole path.
func matchesProject(p project.Project, pattern string) bool {
	pattern = strings.ToLower(pattern)
	suffixPattern := pattern
	if !strings.HasPrefix(suffixPattern, "**/") {
		suffixPattern = "**/" + suffixPattern
	}

	candidates := []string{
		strings.ToLower(p.Name),
		strings.ToLower(filepath.Base(p.Root)),
		strings.ToLower(filepath.ToSlash(p.Root)),
	}
	if p.ConfigFile != "" {
		candidates = append(candidates, strings.ToLower(filepath.ToSlash(p.ConfigFile)))
	}

	for _, c := range candidates {
		if c == pattern {
			return true
		}
		if ok, err := doublestar.Match(pattern, c); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(suffixPattern, c); err == nil && ok {
			return true
		}
	}
	return false
}
