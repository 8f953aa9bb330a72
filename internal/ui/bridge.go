package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskboard/internal/task"
)

// Messages delivered from controller goroutines into the update loop.
type (
	tasksMsg      []task.Task
	statsMsg      task.Stats
	busyMsg       bool
	clearInputMsg struct{}
	toastMsg      struct{}
	modalMsg      struct{ req *modalRequest }
)

// viewBridge implements controller.View by posting messages to the
// program. It never touches the model directly.
type viewBridge struct {
	send func(tea.Msg)
}

func (v *viewBridge) RenderTasks(tasks []task.Task) { v.send(tasksMsg(tasks)) }
func (v *viewBridge) RenderStats(stats task.Stats)  { v.send(statsMsg(stats)) }
func (v *viewBridge) SetAddBusy(busy bool)          { v.send(busyMsg(busy)) }
func (v *viewBridge) ClearInput()                   { v.send(clearInputMsg{}) }

type modalKind int

const (
	modalConfirm modalKind = iota
	modalPrompt
)

type modalAnswer struct {
	value string
	ok    bool
}

// modalRequest is answered exactly once through reply, which is buffered
// so the update loop never blocks on it.
type modalRequest struct {
	kind    modalKind
	message string
	initial string
	reply   chan modalAnswer
}

func (r *modalRequest) answer(a modalAnswer) {
	select {
	case r.reply <- a:
	default:
	}
}

// modalDialog implements controller.Dialog. The calling goroutine waits for
// the user while the update loop keeps running.
type modalDialog struct {
	send func(tea.Msg)
}

func (d *modalDialog) Confirm(ctx context.Context, message string) (bool, error) {
	a, err := d.ask(ctx, modalConfirm, message, "")
	return a.ok, err
}

func (d *modalDialog) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	a, err := d.ask(ctx, modalPrompt, message, initial)
	return a.value, a.ok, err
}

func (d *modalDialog) ask(ctx context.Context, kind modalKind, message, initial string) (modalAnswer, error) {
	req := &modalRequest{
		kind:    kind,
		message: message,
		initial: initial,
		reply:   make(chan modalAnswer, 1),
	}
	d.send(modalMsg{req: req})
	select {
	case a := <-req.reply:
		return a, nil
	case <-ctx.Done():
		return modalAnswer{}, ctx.Err()
	}
}
