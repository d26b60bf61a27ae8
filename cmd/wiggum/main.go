package main

import (
	"context"
	"os"

	"github.com/ScriptedAlchemy/wiggum/internal/cli"
	"github.com/ScriptedAlchemy/wiggum/internal/wreport"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Defer order matters: RecoverAndPanic must be deferred first so it
	// runs last, after cleanup(); it captures and flushes the panic itself
	// before re-panicking.
	defer wreport.RecoverAndPanic()
	cleanup := wreport.Init(version)
	defer cleanup()

	cli.Version = version
	return cli.Execute(context.Background())
}
