package manifest

import "strings"

// Specifier is the parsed shape of a manifest dependency-field value,
// following spec.md §9 Design Notes: an explicit sum type instead of
// pattern strings, so the bug-prone "does this specifier name a local
// package" question is answered once, structurally.
type Specifier interface{ isSpecifier() }

// Registry is any specifier that doesn't name a local package (a plain
// semver range, a dist-tag like "latest", a git URL, and so on).
type Registry struct{}

// NpmAlias is `npm:<target>[@<suffix>]`.
type NpmAlias struct{ Name string }

// WorkspaceAliasPackage is `workspace:<target>[@<suffix>]` where <target>
// looks like a package name rather than a path.
type WorkspaceAliasPackage struct{ Name string }

// WorkspacePath is `workspace:<path>` where <path> begins with `./`,
// `../`, or `/`.
type WorkspacePath struct{ Path string }

// FilePath is `file:<path>` (bare or nested under `workspace:file:`).
type FilePath struct{ Path string }

// LinkPath is `link:<path>` (bare or nested under `workspace:link:`).
type LinkPath struct{ Path string }

// PortalPath is `portal:<path>` (bare or nested under `workspace:portal:`).
type PortalPath struct{ Path string }

// Unknown covers empty bodies, wildcard-only workspace bodies
// (workspace:*, workspace:^, workspace:~), and anything else that should
// be silently dropped rather than contribute an alias target.
type Unknown struct{}

func (Registry) isSpecifier()               {}
func (NpmAlias) isSpecifier()               {}
func (WorkspaceAliasPackage) isSpecifier()  {}
func (WorkspacePath) isSpecifier()          {}
func (FilePath) isSpecifier()               {}
func (LinkPath) isSpecifier()               {}
func (PortalPath) isSpecifier()             {}
func (Unknown) isSpecifier()                {}

// ParseSpecifier classifies a manifest dependency-field value into one of
// the dialects of spec.md §4.3.
func ParseSpecifier(raw string) Specifier {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unknown{}
	}

	switch {
	case strings.HasPrefix(s, "npm:"):
		return parseNpmBody(strings.TrimPrefix(s, "npm:"))
	case strings.HasPrefix(s, "workspace:"):
		return parseWorkspaceBody(strings.TrimPrefix(s, "workspace:"))
	case strings.HasPrefix(s, "file:"):
		return pathSpecifier(strings.TrimPrefix(s, "file:"), func(p string) Specifier { return FilePath{Path: p} })
	case strings.HasPrefix(s, "link:"):
		return pathSpecifier(strings.TrimPrefix(s, "link:"), func(p string) Specifier { return LinkPath{Path: p} })
	case strings.HasPrefix(s, "portal:"):
		return pathSpecifier(strings.TrimPrefix(s, "portal:"), func(p string) Specifier { return PortalPath{Path: p} })
	default:
		return Registry{}
	}
}

func parseNpmBody(body string) Specifier {
	body = trimQueryHash(body)
	if body == "" {
		return Unknown{}
	}
	name := stripAliasSuffix(body)
	if name == "" {
		return Unknown{}
	}
	return NpmAlias{Name: name}
}

func parseWorkspaceBody(body string) Specifier {
	body = trimQueryHash(body)
	if body == "" || isWildcardOnly(body) {
		return Unknown{}
	}

	switch {
	case strings.HasPrefix(body, "file:"):
		return pathSpecifier(strings.TrimPrefix(body, "file:"), func(p string) Specifier { return FilePath{Path: p} })
	case strings.HasPrefix(body, "link:"):
		return pathSpecifier(strings.TrimPrefix(body, "link:"), func(p string) Specifier { return LinkPath{Path: p} })
	case strings.HasPrefix(body, "portal:"):
		return pathSpecifier(strings.TrimPrefix(body, "portal:"), func(p string) Specifier { return PortalPath{Path: p} })
	case strings.HasPrefix(body, "./") || strings.HasPrefix(body, "../") || strings.HasPrefix(body, "/"):
		return WorkspacePath{Path: body}
	default:
		name := stripAliasSuffix(body)
		if name == "" {
			return Unknown{}
		}
		return WorkspaceAliasPackage{Name: name}
	}
}

func pathSpecifier(path string, ctor func(string) Specifier) Specifier {
	path = trimQueryHash(path)
	if path == "" {
		return Unknown{}
	}
	return ctor(path)
}

// trimQueryHash cuts a specifier body at its first `?` or `#`, per the
// closed list of suffix cutoffs in spec.md §9 Design Notes.
func trimQueryHash(s string) string {
	if idx := strings.IndexAny(s, "?#"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

func isWildcardOnly(body string) bool {
	switch body {
	case "*", "^", "~":
		return true
	default:
		return false
	}
}

// stripAliasSuffix extracts the bare package name (scope preserved) from
// an alias body that may carry a trailing "@<version-or-range>", handling
// scoped names (`@scope/name@version`) by searching for the version
// separator only after the scope's own slash.
func stripAliasSuffix(body string) string {
	if body == "" {
		return ""
	}

	searchFrom := 0
	if strings.HasPrefix(body, "@") {
		if idx := strings.Index(body, "/"); idx >= 0 {
			searchFrom = idx + 1
		} else {
			// A lone "@scope" with no "/name" is not a valid package name.
			return ""
		}
	}

	if idx := strings.Index(body[searchFrom:], "@"); idx >= 0 {
		return body[:searchFrom+idx]
	}
	return body
}
