// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/notify"
)

// Options configures the terminal UI.
type Options struct {
	Backend  controller.Backend
	Logger   *log.Logger
	Timing   notify.Timing
	Endpoint string // shown in the header
}

// RunTUI starts the terminal UI and blocks until the user quits or ctx is
// cancelled. Callers check IsTTY first.
func RunTUI(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return fmt.Errorf("tui requires a backend")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	send := func(msg tea.Msg) { program.Send(msg) }

	timing := opts.Timing
	if timing == (notify.Timing{}) {
		timing = notify.DefaultTiming()
	}
	center := notify.NewCenter(notify.WithTiming(timing))
	center.OnChange(func(notify.Toast) { send(toastMsg{}) })

	mgr := controller.New(opts.Backend, &viewBridge{send: send}, &modalDialog{send: send}, center,
		controller.WithLogger(opts.Logger))

	program = tea.NewProgram(newModel(ctx, mgr, center, opts.Endpoint), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()

	// Unblock controller calls still waiting on a modal, then let stats
	// refreshes drain. Sends after Run returns are dropped.
	cancel()
	mgr.Wait()
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
