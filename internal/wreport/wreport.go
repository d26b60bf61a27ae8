// Package wreport adapts a standard Sentry wiring into a crash/diagnostic
// reporter for the runner: build-time DSN injection, the DO_NOT_TRACK
// convention as an opt-out, PII scrubbing before anything leaves the
// process, and a small breadcrumb vocabulary keyed on the runner's own
// level/project dispatch instead of a generic "category, message" pair.
package wreport

import (
	"context"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	flushTimeout      = 2 * time.Second
	httpClientTimeout = 10 * time.Second
	maxBreadcrumbs    = 20
)

// scrubRules is applied in order by scrubPII. Table-driven rather than a
// fixed sequence of named regexps, so a domain needing another rule (a
// workspace token, say) adds one entry instead of another scrubPII clause.
var scrubRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	// Home directory paths: /home/jane/..., /Users/jane/..., C:\Users\jane\...
	{regexp.MustCompile(`(?i)(/home/|/Users/|C:\\Users\\)([^/\\:]+)`), "${1}[user]"},
	// API keys and bearer-style tokens embedded in a failing command's output.
	{regexp.MustCompile(`(?i)(sk-|api[_-]?key[=:]\s*)([A-Za-z0-9_-]{10,})`), "${1}[REDACTED]"},
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[email]"},
}

// expectedFailureSubstrings are runner outcomes that are control flow, not
// bugs: a user-requested cancellation, or a workspace state the runner
// already reported to stderr with its own diagnostic. Reporting them to
// Sentry would just be noise.
var expectedFailureSubstrings = []string{
	"interrupt",
	"context canceled",
	"cancelled",
	"terminated",
	"no projects selected",
	"circular project dependencies detected",
}

// DSN is injected at build time via ldflags for production releases, e.g.
// go build -ldflags "-X github.com/ScriptedAlchemy/wiggum/internal/wreport.DSN=https://...".
// Empty by default (disabled in dev builds).
var DSN string

// Init initializes the reporter with the given version. Respects the
// DO_NOT_TRACK convention and a project-specific opt-out, uses the
// build-time DSN unless WIGGUM_SENTRY_DSN overrides it, and returns a
// cleanup function that should be deferred.
func Init(version string) func() {
	if os.Getenv("DO_NOT_TRACK") == "1" || os.Getenv("WIGGUM_NO_TELEMETRY") == "1" {
		return func() {}
	}

	dsn := os.Getenv("WIGGUM_SENTRY_DSN")
	if dsn == "" {
		dsn = DSN
	}
	if dsn == "" {
		return func() {}
	}

	env := os.Getenv("WIGGUM_SENTRY_ENV")
	if env == "" {
		env = "production"
	}

	serverName := runtime.GOOS + "-" + runtime.GOARCH

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          "wiggum@" + version,
		Environment:      env,
		ServerName:       serverName,
		AttachStacktrace: true,
		SampleRate:       1.0,
		Debug:            env == "development",
		MaxBreadcrumbs:   maxBreadcrumbs,
		HTTPClient: &http.Client{
			Timeout: httpClientTimeout,
		},
		IgnoreErrors: []string{
			"context canceled",
			"context deadline exceeded",
			"signal: interrupt",
			"signal: terminated",
			"EOF",
			"broken pipe",
			"connection reset",
			"no projects selected",
			"circular project dependencies detected",
		},
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if hint != nil && hint.OriginalException != nil && isExpectedFailure(hint.OriginalException.Error()) {
				return nil
			}
			if event.Message != "" && isExpectedFailure(strings.ToLower(event.Message)) {
				return nil
			}
			scrubEvent(event)
			return event
		},
		BeforeBreadcrumb: func(breadcrumb *sentry.Breadcrumb, hint *sentry.BreadcrumbHint) *sentry.Breadcrumb {
			breadcrumb.Message = scrubPII(breadcrumb.Message)
			return breadcrumb
		},
	})
	if err != nil {
		return func() {}
	}

	return func() {
		sentry.Flush(flushTimeout)
	}
}

func isExpectedFailure(msg string) bool {
	msg = strings.ToLower(msg)
	for _, needle := range expectedFailureSubstrings {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// CaptureError reports err, if the reporter is initialized. Safe to call
// unconditionally.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// RecoverAndPanic recovers a panic, reports it, flushes, and re-panics so
// the CLI still surfaces the crash to the user. Defer this first, before
// Init's own cleanup, so the flush runs before the re-panic unwinds past
// it.
func RecoverAndPanic() {
	if r := recover(); r != nil {
		sentry.CurrentHub().RecoverWithContext(context.Background(), r)
		sentry.Flush(flushTimeout)
		panic(r)
	}
}

// BreadcrumbLevelStarted records that a new dependency level began
// dispatching, so a crash mid-run shows which level it happened in.
func BreadcrumbLevelStarted(task string, levelIndex int, projects []string) {
	addBreadcrumb("level", task+" level "+strconv.Itoa(levelIndex)+": "+strings.Join(projects, ", "))
}

// BreadcrumbProjectDispatched records that a single project's task process
// was started, identified the way the executor itself identifies it (task,
// project name, working directory).
func BreadcrumbProjectDispatched(task, project, cwd string) {
	addBreadcrumb("dispatch", task+" -> "+project+" ("+cwd+")")
}

// BreadcrumbProjectFinished records a project's terminal state (succeeded,
// failed, skipped) once its process exits.
func BreadcrumbProjectFinished(project, state string) {
	addBreadcrumb("finish", project+": "+state)
}

func addBreadcrumb(category, message string) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	})
}

// SetTag sets a scrubbed tag for filtering reported errors.
func SetTag(key, value string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag(key, scrubPII(value))
	})
}

func scrubPII(s string) string {
	for _, rule := range scrubRules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	return s
}

func scrubEvent(event *sentry.Event) {
	event.Message = scrubPII(event.Message)

	for i := range event.Exception {
		event.Exception[i].Value = scrubPII(event.Exception[i].Value)
		if event.Exception[i].Stacktrace != nil {
			for j := range event.Exception[i].Stacktrace.Frames {
				frame := &event.Exception[i].Stacktrace.Frames[j]
				frame.AbsPath = scrubPII(frame.AbsPath)
				frame.Filename = scrubPII(frame.Filename)
			}
		}
	}

	for i := range event.Breadcrumbs {
		event.Breadcrumbs[i].Message = scrubPII(event.Breadcrumbs[i].Message)
	}

	for key, value := range event.Extra {
		if str, ok := value.(string); ok {
			event.Extra[key] = scrubPII(str)
		}
	}

	for key, value := range event.Tags {
		event.Tags[key] = scrubPII(value)
	}
}
