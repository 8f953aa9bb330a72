package testutil

import (
	"context"
	"sync"

	"github.com/nibzard/taskboard/internal/task"
)

// RecordingView records every render request.
type RecordingView struct {
	mu         sync.Mutex
	Renders    [][]task.Task
	StatsSeen  []task.Stats
	BusyStates []bool
	Clears     int
}

// RenderTasks implements controller.View.
func (v *RecordingView) RenderTasks(tasks []task.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Renders = append(v.Renders, task.Clone(tasks))
}

// RenderStats implements controller.View.
func (v *RecordingView) RenderStats(stats task.Stats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.StatsSeen = append(v.StatsSeen, stats)
}

// SetAddBusy implements controller.View.
func (v *RecordingView) SetAddBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.BusyStates = append(v.BusyStates, busy)
}

// ClearInput implements controller.View.
func (v *RecordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Clears++
}

// LastRender returns the most recent list render, or nil.
func (v *RecordingView) LastRender() []task.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.Renders) == 0 {
		return nil
	}
	return v.Renders[len(v.Renders)-1]
}

// LastStats returns the most recent stats render.
func (v *RecordingView) LastStats() (task.Stats, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.StatsSeen) == 0 {
		return task.Stats{}, false
	}
	return v.StatsSeen[len(v.StatsSeen)-1], true
}

// Busy reports the last add-control state.
func (v *RecordingView) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.BusyStates) == 0 {
		return false
	}
	return v.BusyStates[len(v.BusyStates)-1]
}

// ScriptedDialog answers confirmations and prompts with fixed values.
type ScriptedDialog struct {
	mu sync.Mutex

	ConfirmAnswer bool
	PromptAnswer  string
	PromptOK      bool
	Err           error

	Confirms []string
	Prompts  []string // initial values offered
}

// Confirm implements controller.Dialog.
func (d *ScriptedDialog) Confirm(ctx context.Context, message string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Confirms = append(d.Confirms, message)
	if d.Err != nil {
		return false, d.Err
	}
	return d.ConfirmAnswer, nil
}

// Prompt implements controller.Dialog.
func (d *ScriptedDialog) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Prompts = append(d.Prompts, initial)
	if d.Err != nil {
		return "", false, d.Err
	}
	return d.PromptAnswer, d.PromptOK, nil
}

// Note is a recorded notification.
type Note struct {
	Success bool
	Message string
}

// RecordingNotifier records toasts.
type RecordingNotifier struct {
	mu    sync.Mutex
	Notes []Note
}

// Success implements notify.Notifier.
func (n *RecordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notes = append(n.Notes, Note{Success: true, Message: message})
}

// Error implements notify.Notifier.
func (n *RecordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notes = append(n.Notes, Note{Success: false, Message: message})
}

// Errors returns the error messages shown so far.
func (n *RecordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, note := range n.Notes {
		if !note.Success {
			out = append(out, note.Message)
		}
	}
	return out
}

// Successes returns the success messages shown so far.
func (n *RecordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, note := range n.Notes {
		if note.Success {
			out = append(out, note.Message)
		}
	}
	return out
}
