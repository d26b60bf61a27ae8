package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ScriptedAlchemy/wiggum/internal/plan"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

func newProjectsCommand() *cobra.Command {
	flags := &commonFlags{}

	cmd := &cobra.Command{
		Use:           "projects [list|graph]",
		Short:         "List discovered projects or print their dependency graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := "list"
			if len(args) > 0 {
				sub = args[0]
			}
			return runProjects(cmd, flags, sub)
		},
	}

	addCommonFlags(cmd, flags)
	registerRunOnlyFlags(cmd)

	cmd.AddCommand(newProjectsListCommand(flags))
	cmd.AddCommand(newProjectsGraphCommand(flags))

	return cmd
}

func newProjectsListCommand(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List discovered projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd, flags, "list")
		},
	}
}

func newProjectsGraphCommand(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:           "graph",
		Short:         "Print the dependency graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd, flags, "graph")
		},
	}
}

func addCommonFlags(cmd *cobra.Command, flags *commonFlags) {
	cmd.PersistentFlags().StringVar(&flags.root, "root", "", "workspace root (defaults to the current directory)")
	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "explicit runner-config file, overriding autodetection")
	cmd.PersistentFlags().StringArrayVarP(&flags.projectPatterns, "project", "p", nil, "filter by wildcard pattern, comma-separated, repeatable, !-prefix to exclude")
	cmd.PersistentFlags().BoolVar(&flags.noInferImports, "no-infer-imports", false, "disable source-import edge inference")
	cmd.PersistentFlags().BoolVar(&flags.json, "json", false, "emit JSON output")
}

func runProjects(cmd *cobra.Command, flags *commonFlags, sub string) error {
	if err := rejectRunOnlyFlags(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	rootDir := flags.root
	if rootDir == "" {
		rootDir = "."
	}

	includeInferred := !flags.noInferImports
	maxFiles := resolve.DefaultMaxFilesPerProject
	if includeInferred {
		var err error
		maxFiles, err = resolve.ResolveMaxFilesPerProject()
		if err != nil {
			return err
		}
	}

	ws, err := discover(ctx, rootDir, flags.config, includeInferred, maxFiles)
	if err != nil {
		return err
	}

	patterns := expandPatterns(flags.projectPatterns)
	if err := applyFilters(ws, patterns, false); err != nil {
		return err
	}

	if sub == "graph" {
		if err := checkCycles(ws.graph); err != nil {
			return err
		}
	}

	if flags.json {
		doc, err := plan.RenderJSON(plan.DocumentOptions{
			RootDir:      ws.rootDir,
			ConfigPath:   ws.configPath,
			Graph:        ws.graph,
			Projects:     ws.projects,
			IncludeGraph: sub == "graph",
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return nil
	}

	return printProjectsText(cmd, ws, sub)
}

func printProjectsText(cmd *cobra.Command, ws *workspace, sub string) error {
	out := cmd.OutOrStdout()
	if sub == "graph" {
		for _, level := range ws.graph.Levels {
			fmt.Fprintf(out, "level: %v\n", level)
		}
		for _, e := range ws.graph.Edges {
			fmt.Fprintf(out, "%s -> %s (%s)\n", e.From, e.To, e.Reason)
		}
		return nil
	}

	for _, p := range ws.projects {
		fmt.Fprintf(out, "%s\t%s\n", p.Name, p.Root)
	}
	return nil
}
