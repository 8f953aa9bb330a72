package controller

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/notify"
	"github.com/nibzard/taskboard/internal/task"
)

// User-facing messages.
const (
	MsgEmptyTitle    = "Please enter a task title"
	MsgLoadFailed    = "Failed to load tasks"
	MsgAddFailed     = "Failed to add task"
	MsgAdded         = "Task added successfully!"
	MsgUpdateFailed  = "Failed to update task"
	MsgUpdated       = "Task updated successfully!"
	MsgDeleteFailed  = "Failed to delete task"
	MsgDeleted       = "Task deleted successfully!"
	MsgEditPrompt    = "Edit task:"
	MsgDeleteConfirm = "Are you sure you want to delete this task?"
)

// ErrUnknownTask is returned when an operation names an id that is not in
// the cached list. No request is made.
var ErrUnknownTask = errors.New("task not found")

// Backend is the subset of the API client the manager needs.
type Backend interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, title string) (task.Task, error)
	UpdateTask(ctx context.Context, id int, patch api.Patch) error
	DeleteTask(ctx context.Context, id int) error
	Stats(ctx context.Context) (task.Stats, error)
}

// View receives render requests. Implementations must not call back into
// the Manager synchronously: renders are issued with the cache lock held.
type View interface {
	RenderTasks(tasks []task.Task)
	RenderStats(stats task.Stats)
	// SetAddBusy disables the add control while a create is in flight.
	SetAddBusy(busy bool)
	ClearInput()
}

// Dialog asks the user for a decision without blocking the UI. The calling
// goroutine waits for the answer; ok is false when the user cancels.
type Dialog interface {
	Confirm(ctx context.Context, message string) (ok bool, err error)
	Prompt(ctx context.Context, message, initial string) (value string, ok bool, err error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for failures.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager owns the cached task list.
type Manager struct {
	backend  Backend
	view     View
	dialog   Dialog
	notifier notify.Notifier
	logger   *log.Logger

	mu    sync.Mutex
	tasks []task.Task

	refreshes sync.WaitGroup
}

// New creates a Manager.
func New(backend Backend, view View, dialog Dialog, notifier notify.Notifier, opts ...Option) *Manager {
	m := &Manager{
		backend:  backend,
		view:     view,
		dialog:   dialog,
		notifier: notifier,
		logger:   log.New(io.Discard),
		tasks:    []task.Task{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tasks returns a snapshot of the cached list.
func (m *Manager) Tasks() []task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return task.Clone(m.tasks)
}

// Wait blocks until background stats refreshes have finished.
func (m *Manager) Wait() {
	m.refreshes.Wait()
}

// Init loads the task list and then the stats.
func (m *Manager) Init(ctx context.Context) error {
	err := m.LoadTasks(ctx)
	m.LoadStats(ctx)
	return err
}

// LoadTasks replaces the cached list with the server's. On failure the
// previous list is kept.
func (m *Manager) LoadTasks(ctx context.Context) error {
	tasks, err := m.backend.ListTasks(ctx)
	if err != nil {
		m.fail("load tasks", err, MsgLoadFailed)
		return err
	}
	m.apply(task.Loaded{Tasks: tasks})
	return nil
}

// LoadStats fetches and renders the summary counters. Failures are logged
// and never shown to the user.
func (m *Manager) LoadStats(ctx context.Context) {
	stats, err := m.backend.Stats(ctx)
	if err != nil {
		m.logger.Warn("load stats failed", "err", err, "request_id", api.RequestID(err))
		return
	}
	m.view.RenderStats(stats)
}

// AddTask creates a task from title. Blank titles are rejected locally
// with task.ErrEmptyTitle and no request is made.
func (m *Manager) AddTask(ctx context.Context, title string) error {
	title, err := task.NormalizeTitle(title)
	if err != nil {
		m.notifier.Error(MsgEmptyTitle)
		return err
	}

	m.view.SetAddBusy(true)
	defer m.view.SetAddBusy(false)

	created, err := m.backend.CreateTask(ctx, title)
	if err != nil {
		m.fail("add task", err, MsgAddFailed)
		return err
	}

	m.mu.Lock()
	m.tasks = task.Reduce(m.tasks, task.Added{Task: created})
	m.view.ClearInput()
	m.view.RenderTasks(task.Clone(m.tasks))
	m.mu.Unlock()

	m.refreshStats(ctx)
	m.notifier.Success(MsgAdded)
	return nil
}

// ToggleTask inverts the completed flag of the task with id.
func (m *Manager) ToggleTask(ctx context.Context, id int) error {
	current, ok := m.lookup(id)
	if !ok {
		return ErrUnknownTask
	}

	want := !current.Completed
	if err := m.backend.UpdateTask(ctx, id, api.CompletedPatch(want)); err != nil {
		m.fail("toggle task", err, MsgUpdateFailed, "id", id)
		return err
	}

	m.apply(task.CompletionSet{ID: id, Completed: want})
	m.refreshStats(ctx)
	return nil
}

// EditTask prompts for a new title for the task with id. A cancelled or
// blank answer is a no-op.
func (m *Manager) EditTask(ctx context.Context, id int) error {
	current, ok := m.lookup(id)
	if !ok {
		return ErrUnknownTask
	}

	answer, ok, err := m.dialog.Prompt(ctx, MsgEditPrompt, current.Title)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(answer) == "" {
		return nil
	}
	title := strings.TrimSpace(answer)

	if err := m.backend.UpdateTask(ctx, id, api.TitlePatch(title)); err != nil {
		m.fail("edit task", err, MsgUpdateFailed, "id", id)
		return err
	}

	m.apply(task.Retitled{ID: id, Title: title})
	m.refreshStats(ctx)
	m.notifier.Success(MsgUpdated)
	return nil
}

// DeleteTask asks for confirmation and deletes the task with id. Declining
// is a no-op and makes no request.
func (m *Manager) DeleteTask(ctx context.Context, id int) error {
	ok, err := m.dialog.Confirm(ctx, MsgDeleteConfirm)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := m.backend.DeleteTask(ctx, id); err != nil {
		m.fail("delete task", err, MsgDeleteFailed, "id", id)
		return err
	}

	m.apply(task.Removed{ID: id})
	m.refreshStats(ctx)
	m.notifier.Success(MsgDeleted)
	return nil
}

func (m *Manager) lookup(id int) (task.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return task.Find(m.tasks, id)
}

func (m *Manager) apply(ev task.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = task.Reduce(m.tasks, ev)
	m.view.RenderTasks(task.Clone(m.tasks))
}

// refreshStats reloads the counters on a separate goroutine.
func (m *Manager) refreshStats(ctx context.Context) {
	m.refreshes.Add(1)
	go func() {
		defer m.refreshes.Done()
		m.LoadStats(ctx)
	}()
}

func (m *Manager) fail(op string, err error, message string, keyvals ...any) {
	fields := append([]any{"err", err}, keyvals...)
	if id := api.RequestID(err); id != "" {
		fields = append(fields, "request_id", id)
	}
	m.logger.Error(op+" failed", fields...)
	m.notifier.Error(message)
}
