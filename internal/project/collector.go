package project

import (
	"sort"

	"github.com/ScriptedAlchemy/wiggum/internal/config"
	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

// Result is the fully materialized project set plus the lookups the
// resolver needs to turn manifest dependency names into in-workspace edges.
type Result struct {
	Projects          []Project
	ConfigPath        string
	NameByPackageName map[string]string // packageName -> project name
}

// Collect loads the runner config for rootDir, walks its project-entry
// tree, and returns the sorted, validated project set. Name and
// package-name collisions are rejected here, before any dependency
// resolution begins.
func Collect(rootDir, explicitPath string) (*Result, error) {
	ctx, configPath, err := config.CollectEntries(rootDir, explicitPath)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(ctx.ByRoot))
	for _, mp := range ctx.ByRoot {
		projects = append(projects, Project{
			Name:                   mp.Name,
			Root:                   mp.Root,
			ConfigFile:             mp.ConfigFile,
			Args:                   mp.Args,
			PackageName:            mp.PackageName,
			DependencyPackageNames: mp.DependencyPackageNames,
		})
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].Root < projects[j].Root
	})

	nameByPackageName := make(map[string]string, len(projects))
	for _, p := range projects {
		if p.PackageName == "" {
			continue
		}
		if existing, ok := nameByPackageName[p.PackageName]; ok && existing != p.Name {
			return nil, diag.New(diag.KindDuplicatePackageName,
				"duplicate package name %q: claimed by projects %q and %q", p.PackageName, existing, p.Name)
		}
		nameByPackageName[p.PackageName] = p.Name
	}

	return &Result{Projects: projects, ConfigPath: configPath, NameByPackageName: nameByPackageName}, nil
}
