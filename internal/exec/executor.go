package exec

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/ScriptedAlchemy/wiggum/internal/plan"
	"github.com/ScriptedAlchemy/wiggum/internal/wreport"
)

// State is a project's position in the per-run state machine:
// Pending -> Queued -> Running -> (Succeeded | Failed | Skipped).
type State int

const (
	Pending State = iota
	Queued
	Running
	Succeeded
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ProjectResult is one project's final outcome for the run.
type ProjectResult struct {
	Entry  plan.Entry
	State  State
	Result ProcessResult
	Err    error
}

// Options configures a level-parallel run.
type Options struct {
	TaskName string
	Parallel int
	// Stream, when true, passes each child's stdout/stderr straight
	// through as produced. Failure-capture modes (--ai-prompt/--autofix)
	// set this false so output is only surfaced in the failure summary.
	Stream bool
	// Log receives one line per started project. Defaults to printing to
	// stdout under a shared mutex, matching spec.md §5's "each line is
	// written atomically".
	Log func(line string)
}

// Run executes entries level-by-level (levels is the filtered graph's
// topological levels, restricted to in-scope project names). Within a
// level up to Parallel projects run concurrently; on the first failure in
// a level no further project in that level is started, but projects
// already running are allowed to finish. No later level ever starts once
// any level has failed.
func Run(ctx context.Context, levels [][]string, entries []plan.Entry, opts Options) []ProjectResult {
	byName := make(map[string]plan.Entry, len(entries))
	for _, e := range entries {
		byName[e.Project.Name] = e
	}

	results := make(map[string]*ProjectResult, len(entries))
	for _, e := range entries {
		results[e.Project.Name] = &ProjectResult{Entry: e, State: Pending}
	}

	log := opts.Log
	if log == nil {
		var logMu sync.Mutex
		log = func(line string) {
			logMu.Lock()
			defer logMu.Unlock()
			fmt.Println(line)
		}
	}

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	runFailed := false
	for levelIndex, level := range levels {
		if runFailed {
			markSkipped(results, level)
			continue
		}
		wreport.BreadcrumbLevelStarted(opts.TaskName, levelIndex, level)
		runLevel(ctx, level, byName, results, opts, parallel, log)
		if levelHasFailure(results, level) {
			runFailed = true
		}
	}

	ordered := make([]ProjectResult, 0, len(entries))
	for _, level := range levels {
		for _, name := range level {
			ordered = append(ordered, *results[name])
		}
	}
	return ordered
}

func runLevel(ctx context.Context, level []string, byName map[string]plan.Entry, results map[string]*ProjectResult, opts Options, parallel int, log func(string)) {
	sem := semaphore.NewWeighted(int64(parallel))
	var wg sync.WaitGroup
	var mu sync.Mutex
	levelFailed := false

	for _, name := range level {
		mu.Lock()
		stop := levelFailed
		mu.Unlock()
		if stop {
			results[name].State = Skipped
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled (SIGINT) before a slot freed up.
			results[name].State = Skipped
			continue
		}
		mu.Lock()
		if levelFailed {
			mu.Unlock()
			sem.Release(1)
			results[name].State = Skipped
			continue
		}
		results[name].State = Queued
		mu.Unlock()

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)

			entry := byName[name]
			results[name].State = Running
			log(fmt.Sprintf("[wiggum] %s -> %s (%s)", opts.TaskName, name, entry.Cwd))
			wreport.BreadcrumbProjectDispatched(opts.TaskName, name, entry.Cwd)

			res, err := RunProcess(ctx, entry.Tool, entry.Args, entry.Cwd, opts.Stream)

			mu.Lock()
			defer mu.Unlock()
			results[name].Result = res
			results[name].Err = err
			if err != nil || res.ExitCode != 0 {
				results[name].State = Failed
				levelFailed = true
			} else {
				results[name].State = Succeeded
			}
			wreport.BreadcrumbProjectFinished(name, results[name].State.String())
		}(name)
	}

	wg.Wait()
}

func levelHasFailure(results map[string]*ProjectResult, level []string) bool {
	for _, name := range level {
		if results[name].State == Failed {
			return true
		}
	}
	return false
}

func markSkipped(results map[string]*ProjectResult, level []string) {
	for _, name := range level {
		results[name].State = Skipped
	}
}
