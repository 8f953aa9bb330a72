// Package testutil provides in-memory fakes for testing.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/task"
)

// ErrNotFound is returned when a task id is unknown to the fake.
var ErrNotFound = errors.New("not found")

// FakeDate is the created_at value assigned to tasks the fake creates.
const FakeDate = "2026-01-12"

// Call records one backend request.
type Call struct {
	Method string
	ID     int
	Title  string
	Patch  api.Patch
}

// FakeBackend is an in-memory task backend. It mirrors the reference
// server: ids are max+1, stats are counted from the stored tasks.
type FakeBackend struct {
	mu    sync.Mutex
	tasks []task.Task
	calls []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	StatsErr  error
}

// NewFakeBackend creates a fake holding tasks.
func NewFakeBackend(tasks ...task.Task) *FakeBackend {
	return &FakeBackend{tasks: task.Clone(tasks)}
}

// Calls returns the recorded requests in order.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CountCalls returns how many requests used method.
func (f *FakeBackend) CountCalls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Stored returns the fake's current server-side tasks.
func (f *FakeBackend) Stored() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return task.Clone(f.tasks)
}

func (f *FakeBackend) record(c Call) {
	f.calls = append(f.calls, c)
}

// ListTasks implements controller.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "GET /tasks"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return task.Clone(f.tasks), nil
}

// CreateTask implements controller.Backend.
func (f *FakeBackend) CreateTask(ctx context.Context, title string) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "POST /tasks", Title: title})
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}

	id := 1
	for _, t := range f.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	created := task.Task{ID: id, Title: title, CreatedAt: FakeDate}
	f.tasks = append(f.tasks, created)
	return created, nil
}

// UpdateTask implements controller.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, id int, patch api.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "PUT /tasks", ID: id, Patch: patch})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			f.tasks[i].Completed = *patch.Completed
		}
		return nil
	}
	return ErrNotFound
}

// DeleteTask implements controller.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "DELETE /tasks", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

// Stats implements controller.Backend.
func (f *FakeBackend) Stats(ctx context.Context) (task.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "GET /stats"})
	if f.StatsErr != nil {
		return task.Stats{}, f.StatsErr
	}

	s := task.Stats{Total: len(f.tasks)}
	for _, t := range f.tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s, nil
}
