package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/exitcode"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/task"
)

// session is one one-shot command's controller with text output.
type session struct {
	client *api.Client
	mgr    *controller.Manager
	logger *log.Logger
}

func newClient(cfg *config.Config) (*api.Client, error) {
	client, err := api.New(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithValidation(cfg.ValidateResponses),
	)
	if err != nil {
		return nil, exitcode.With(exitcode.ConfigError, err)
	}
	return client, nil
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.New(w, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
		Prefix:     "taskboard",
	})
}

func newSession(cfg *config.Config, dialog controller.Dialog, s streams) (*session, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, s.err)
	mgr := controller.New(client, discardView{}, dialog, &lineNotifier{w: s.err}, controller.WithLogger(logger))
	return &session{client: client, mgr: mgr, logger: logger}, nil
}

// load fills the cache; toggle, edit and rm look ids up in it.
func (ss *session) load(ctx context.Context) error {
	return classify(ss.mgr.LoadTasks(ctx))
}

// discardView ignores renders; commands print from Manager.Tasks.
type discardView struct{}

func (discardView) RenderTasks([]task.Task) {}
func (discardView) RenderStats(task.Stats)  {}
func (discardView) SetAddBusy(bool)         {}
func (discardView) ClearInput()             {}

// lineNotifier prints toasts as lines.
type lineNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *lineNotifier) Success(message string) { n.print("✓", message) }
func (n *lineNotifier) Error(message string)   { n.print("✗", message) }

func (n *lineNotifier) print(mark, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", mark, message)
}

// lineDialog asks on the terminal. End of input cancels.
type lineDialog struct {
	in  *bufio.Reader
	out io.Writer
}

func newLineDialog(s streams) *lineDialog {
	return &lineDialog{in: bufio.NewReader(s.in), out: s.err}
}

func (d *lineDialog) readLine(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	line, err := d.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func (d *lineDialog) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprintf(d.out, "%s [y/N] ", message)
	line, ok, err := d.readLine(ctx)
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (d *lineDialog) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	fmt.Fprintf(d.out, "%s [%s] ", message, initial)
	line, ok, err := d.readLine(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	return line, true, nil
}

// fixedDialog answers without asking: for rm --yes and edit with a title
// on the command line.
type fixedDialog struct {
	confirm bool
	value   string
}

func (d fixedDialog) Confirm(context.Context, string) (bool, error) { return d.confirm, nil }
func (d fixedDialog) Prompt(context.Context, string, string) (string, bool, error) {
	return d.value, true, nil
}
