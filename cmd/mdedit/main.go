// Command mdedit previews, exports and measures markdown documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Before the pool is sized: automaxprocs adjusts GOMAXPROCS to the
	// container CPU quota, which ResolvePoolSize reads.
	setMaxProcs(hasVerboseFlag(os.Args[1:]), os.Stderr)

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// setMaxProcs configures GOMAXPROCS, logging the decision only when verbose.
// Errors are ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
// variable, and the runtime default then applies.
func setMaxProcs(verbose bool, w io.Writer) {
	logger := func(string, ...interface{}) {}
	if verbose {
		logger = func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logger))
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	command, rest := args[1], args[2:]

	var err error
	switch command {
	case "preview":
		err = runPreview(ctx, rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "stats":
		err = runStats(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdedit %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", command)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
