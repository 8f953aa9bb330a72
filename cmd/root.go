// Package cmd implements the CLI command structure for taskboard.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/exitcode"
	"github.com/nibzard/taskboard/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the process's standard streams, replaceable in tests.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the taskboard CLI. The returned error carries an exit code
// readable with exitcode.FromError.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(s.err)
	fs.Usage = func() {
		printUsage(fs, s.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return exitcode.With(exitcode.ConfigError, fmt.Errorf("loading config: %w", err))
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	// Determine the subcommand; the terminal UI is the default.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	cfg := cws.Config
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs, s)
	case "list", "ls":
		return listCommand(ctx, cfg, remainingArgs, s)
	case "add":
		return addCommand(ctx, cfg, remainingArgs, s)
	case "toggle", "done":
		return toggleCommand(ctx, cfg, remainingArgs, s)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs, s)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs, s)
	case "stats":
		return statsCommand(ctx, cfg, remainingArgs, s)
	case "html":
		return htmlCommand(ctx, cfg, remainingArgs, s)
	case "config":
		return configCommand(cws, remainingArgs, s)
	case "logs", "tail":
		return logsCommand(cfg, remainingArgs, s)
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		fmt.Fprintf(s.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.err)
		return exitcode.With(exitcode.UserError, fmt.Errorf("unknown command: %s", subcommand))
	}
}

// classify maps an operation error to an exit code.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, task.ErrEmptyTitle), errors.Is(err, controller.ErrUnknownTask):
		return exitcode.With(exitcode.UserError, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return exitcode.With(exitcode.BackendError, err)
	}
}

// newFlagSet creates a subcommand flag set reporting to s.err.
func newFlagSet(name string, s streams) *flag.FlagSet {
	fs := flag.NewFlagSet("taskboard "+name, flag.ContinueOnError)
	fs.SetOutput(s.err)
	return fs
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return exitcode.With(exitcode.UserError, err)
	}
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskboard version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskboard - a to-do list client for the task API")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskboard [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                  Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  list, ls             List tasks")
	fmt.Fprintln(w, "  add <title>          Add a task")
	fmt.Fprintln(w, "  toggle <id>          Flip a task between pending and completed")
	fmt.Fprintln(w, "  edit <id> [title]    Change a task's title (prompts when title is omitted)")
	fmt.Fprintln(w, "  rm <id>              Delete a task after confirmation")
	fmt.Fprintln(w, "  stats                Show task counters")
	fmt.Fprintln(w, "  html                 Print the rendered task list markup")
	fmt.Fprintln(w, "  config               Show the effective configuration and its sources")
	fmt.Fprintln(w, "  logs                 Print the latest terminal UI log")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Command Options:")
	fmt.Fprintln(w, "  list, stats  -json          Print JSON")
	fmt.Fprintln(w, "  rm           -y, -yes       Skip confirmation")
	fmt.Fprintln(w, "  config       -format string table, toml or yaml (default table)")
	fmt.Fprintln(w, "  config       -example       Print an example config file")
	fmt.Fprintln(w, "  logs         -n int         Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 user error, 2 config error, 3 backend error")
	fmt.Fprintln(w, "Every config key can also be set as TASKBOARD_<KEY>, e.g. TASKBOARD_BASE_URL.")
}
