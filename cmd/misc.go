package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/exitcode"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/ui"
)

// tuiCommand launches the terminal UI. Logs go to a per-run file because
// the terminal belongs to the UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("tui", s)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if !ui.IsTTY(os.Stdout) {
		return exitcode.With(exitcode.UserError, fmt.Errorf("tui requires a TTY; try 'taskboard list'"))
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	runLog, err := logging.NewRunLog(cfg.LogDir, cfg.BaseURL)
	if err != nil {
		return exitcode.With(exitcode.ConfigError, fmt.Errorf("opening run log: %w", err))
	}
	defer runLog.Close()

	logger := newLogger(cfg, runLog.Writer())
	logger.Info("session started", "base_url", cfg.BaseURL, "run_id", runLog.RunID, "version", Version)
	defer logger.Info("session finished")

	return ui.RunTUI(ctx, ui.Options{
		Backend:  client,
		Logger:   logger,
		Timing:   cfg.ToastTiming(),
		Endpoint: cfg.BaseURL,
	})
}

// configCommand prints the effective configuration.
func configCommand(cws *config.ConfigWithSources, args []string, s streams) error {
	fs := newFlagSet("config", s)
	format := fs.String("format", "table", "Output format: table, toml or yaml")
	example := fs.Bool("example", false, "Print an example config file")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(s.out, config.ExampleConfig())
		return nil
	}
	switch *format {
	case "table":
		return cws.WriteTable(s.out)
	case "toml":
		return config.WriteTOML(s.out, cws.Config)
	case "yaml", "yml":
		return config.WriteYAML(s.out, cws.Config)
	default:
		return exitcode.With(exitcode.UserError, fmt.Errorf("unknown format %q (want table, toml or yaml)", *format))
	}
}

// logsCommand prints the latest terminal UI log for the configured backend.
func logsCommand(cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("logs", s)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.BaseURL)
	if err != nil {
		return exitcode.With(exitcode.ConfigError, fmt.Errorf("finding log directory: %w", err))
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(s.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(s.err, "Showing: %s\n", logPath)
	return logging.TailLog(s.out, logPath, *n)
}
