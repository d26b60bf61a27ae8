// Package project turns a collected config tree (internal/config) into the
// final, sorted list of Project records that every downstream package
// (resolve, graph, filter, task, plan, exec) operates on.
package project

// Project is one discovered project, fully resolved: its identity, the
// extra command-line arguments accumulated from every config scope that
// named it, and the manifest facts needed to resolve its dependency edges.
type Project struct {
	Name                   string
	Root                   string
	ConfigFile             string
	Args                   []string
	PackageName            string
	DependencyPackageNames map[string]struct{}
}
