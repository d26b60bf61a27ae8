package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/exec"
	"github.com/ScriptedAlchemy/wiggum/internal/plan"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
	"github.com/ScriptedAlchemy/wiggum/internal/task"
)

func newRunCommand() *cobra.Command {
	flags := &commonFlags{}
	var parallel int
	var dryRun, aiPrompt, autofix bool

	cmd := &cobra.Command{
		Use:           "run <task> [-- task args]",
		Short:         "Run a task across the workspace in dependency order",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskName := args[0]
			if !task.IsSupported(taskName) {
				return task.Unsupported(taskName)
			}

			// Positional tokens after the task name are forwarded verbatim
			// as task arguments, whether or not they fall after a `--`
			// separator: only args[0] is validated against the task
			// vocabulary.
			extraArgs := args[1:]

			if flags.json && !dryRun {
				return diag.New(diag.KindInvalidFlag, "--json requires --dry-run for run")
			}
			if dryRun && (aiPrompt || autofix) {
				return diag.New(diag.KindInvalidFlag, "--ai-prompt/--autofix cannot be combined with --dry-run")
			}

			explicitParallel := cmd.Flags().Changed("parallel") || cmd.Flags().Changed("concurrency")
			resolvedParallel, err := exec.ResolveParallel(parallel, explicitParallel)
			if err != nil {
				return err
			}

			return runTask(cmd, flags, taskName, extraArgs, resolvedParallel, dryRun, aiPrompt, autofix)
		},
	}

	addCommonFlags(cmd, flags)
	cmd.Flags().IntVar(&parallel, "parallel", exec.DefaultParallel, "worker-pool size")
	cmd.Flags().IntVar(&parallel, "concurrency", exec.DefaultParallel, "alias for --parallel")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and print the plan without executing it")
	cmd.Flags().BoolVar(&aiPrompt, "ai-prompt", false, "print a remediation prompt on failure")
	cmd.Flags().BoolVar(&autofix, "autofix", false, "forward a remediation request to the configured collaborator on failure")

	return cmd
}

func runTask(cmd *cobra.Command, flags *commonFlags, taskName string, extraArgs []string, parallel int, dryRun, aiPrompt, autofix bool) error {
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
	if err := applyFilters(ws, patterns, true); err != nil {
		return err
	}

	if err := checkCycles(ws.graph); err != nil {
		return err
	}

	ordered := plan.TopologicalProjects(ws.graph.Levels, ws.projects)
	entries := plan.Build(ordered, taskName, extraArgs)

	if dryRun {
		doc, err := plan.RenderJSON(plan.DocumentOptions{
			Task:         taskName,
			RootDir:      ws.rootDir,
			ConfigPath:   ws.configPath,
			Graph:        ws.graph,
			Projects:     ws.projects,
			PlanEntries:  entries,
			IncludeTask:  true,
			IncludeGraph: true,
			IncludePlan:  true,
		})
		if err != nil {
			return err
		}
		if flags.json {
			fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		} else {
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %v (%s)\n", e.Project.Name, e.Tool, e.Args, e.Cwd)
			}
		}
		return nil
	}

	mode := exec.ResolveFailureMode(aiPrompt, autofix)
	results := exec.Run(ctx, ws.graph.Levels, entries, exec.Options{
		TaskName: taskName,
		Parallel: parallel,
		Stream:   !mode.Captures(),
	})

	return reportRunResults(cmd, taskName, results, mode)
}

func reportRunResults(cmd *cobra.Command, taskName string, results []exec.ProjectResult, mode exec.FailureMode) error {
	var failed []exec.ProjectResult
	for _, r := range results {
		if r.State == exec.Failed {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "task %q failed for %d project(s):\n", taskName, len(failed))
	for _, r := range failed {
		fmt.Fprintf(out, "  - %s (%s): exit code %d\n", r.Entry.Project.Name, r.Entry.Cwd, r.Result.ExitCode)
	}

	if mode != exec.FailureModeNone {
		prompt := exec.BuildRemediationPrompt(taskName, failed)
		if mode == exec.FailureModeAutofix {
			if err := exec.ForwardToCollaborator(cmd.Context(), prompt); err != nil {
				fmt.Fprintln(out, prompt)
			}
		} else {
			fmt.Fprintln(out, prompt)
		}
	}

	return diag.New(diag.KindChildFailed, "task %q failed for %d project(s)", taskName, len(failed))
}
