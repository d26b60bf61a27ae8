package plan

import (
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// DocumentOptions controls which top-level keys RenderJSON emits, matching
// the three shapes spec.md §6 describes: `projects list --json` (no
// graph, no plan), `projects graph --json` (graph, no plan), and
// `run --dry-run --json` (task, graph, plan).
type DocumentOptions struct {
	Task       string
	RootDir    string
	ConfigPath string
	Graph      *graph.Graph
	Projects   []project.Project

	PlanEntries []Entry

	IncludeTask  bool
	IncludeGraph bool
	IncludePlan  bool
}

// RenderJSON builds the dry-run/listing JSON document in the exact
// top-level key order spec.md §6 mandates, via sequential sjson.Set calls
// so insertion order is never left to map iteration.
func RenderJSON(opts DocumentOptions) ([]byte, error) {
	doc := []byte("{}")
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	if opts.IncludeTask {
		set("task", opts.Task)
	}
	set("rootDir", opts.RootDir)
	if opts.ConfigPath != "" {
		set("configPath", opts.ConfigPath)
	}
	if opts.IncludeGraph && opts.Graph != nil {
		setGraph(set, opts.Graph, opts.RootDir)
	}
	set("projects", projectSummaries(opts.Projects, opts.Graph, opts.RootDir))
	if opts.IncludePlan {
		set("plan", planSummaries(opts.PlanEntries, opts.RootDir))
	}

	if err != nil {
		return nil, err
	}
	return pretty.Pretty(doc), nil
}

func setGraph(set func(string, any), g *graph.Graph, rootDir string) {
	type nodeJSON struct {
		Name string `json:"name"`
		Root string `json:"root"`
	}
	nodes := make([]nodeJSON, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = nodeJSON{Name: n.Name, Root: fsutil.Relativize(n.Root, rootDir)}
	}
	set("graph.nodes", nodes)

	type edgeJSON struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Reason string `json:"reason"`
	}
	edges := make([]edgeJSON, len(g.Edges))
	for i, e := range g.Edges {
		reason := "inferred-import"
		if e.Reason == "manifest" {
			reason = "manifest"
		}
		edges[i] = edgeJSON{From: e.From, To: e.To, Reason: reason}
	}
	set("graph.edges", edges)

	var topo []string
	for _, level := range g.Levels {
		topo = append(topo, level...)
	}
	set("graph.topologicalOrder", nonNilStrings(topo))
	set("graph.levels", nonNilLevels(g.Levels))
	set("graph.cycles", nonNilLevels(g.Cycles))
}

type projectJSON struct {
	Name                 string   `json:"name"`
	Root                 string   `json:"root"`
	Config               string   `json:"config,omitempty"`
	Args                 []string `json:"args"`
	PackageName          string   `json:"packageName,omitempty"`
	Dependencies         []string `json:"dependencies"`
	InferredDependencies []string `json:"inferredDependencies"`
}

func projectSummaries(projects []project.Project, g *graph.Graph, rootDir string) []projectJSON {
	out := make([]projectJSON, len(projects))
	for i, p := range projects {
		var deps, inferred []string
		if g != nil {
			deps, inferred = DependencyNames(g, p.Name)
		}
		config := ""
		if p.ConfigFile != "" {
			config = fsutil.Relativize(p.ConfigFile, rootDir)
		}
		out[i] = projectJSON{
			Name:                 p.Name,
			Root:                 fsutil.Relativize(p.Root, rootDir),
			Config:               config,
			Args:                 nonNilStrings(p.Args),
			PackageName:          p.PackageName,
			Dependencies:         nonNilStrings(deps),
			InferredDependencies: nonNilStrings(inferred),
		}
	}
	return out
}

type planJSON struct {
	Project string   `json:"project"`
	Cwd     string   `json:"cwd"`
	Tool    string   `json:"tool"`
	Args    []string `json:"args"`
}

func planSummaries(entries []Entry, rootDir string) []planJSON {
	out := make([]planJSON, len(entries))
	for i, e := range entries {
		out[i] = planJSON{
			Project: e.Project.Name,
			Cwd:     fsutil.Relativize(e.Cwd, rootDir),
			Tool:    e.Tool,
			Args:    nonNilStrings(e.Args),
		}
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilLevels(levels [][]string) [][]string {
	if levels == nil {
		return [][]string{}
	}
	for i, l := range levels {
		if l == nil {
			levels[i] = []string{}
		}
	}
	return levels
}
