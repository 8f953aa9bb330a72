package controller_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/testutil"
)

var errBackend = errors.New("connection refused")

type harness struct {
	backend  *testutil.FakeBackend
	view     *testutil.RecordingView
	dialog   *testutil.ScriptedDialog
	notifier *testutil.RecordingNotifier
	logs     *bytes.Buffer
	m        *controller.Manager
}

func newHarness(t *testing.T, tasks ...task.Task) *harness {
	t.Helper()
	h := &harness{
		backend:  testutil.NewFakeBackend(tasks...),
		view:     &testutil.RecordingView{},
		dialog:   &testutil.ScriptedDialog{},
		notifier: &testutil.RecordingNotifier{},
		logs:     &bytes.Buffer{},
	}
	logger := log.NewWithOptions(h.logs, log.Options{Level: log.DebugLevel})
	h.m = controller.New(h.backend, h.view, h.dialog, h.notifier, controller.WithLogger(logger))
	if err := h.m.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return h
}

func seed() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Learn Python", CreatedAt: "2026-01-12"},
		{ID: 2, Title: "Build a web app", CreatedAt: "2026-01-12"},
	}
}

func TestInitLoadsTasksThenStats(t *testing.T) {
	h := newHarness(t, seed()...)

	calls := h.backend.Calls()
	if len(calls) != 2 || calls[0].Method != "GET /tasks" || calls[1].Method != "GET /stats" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	if got := h.m.Tasks(); len(got) != 2 {
		t.Errorf("expected 2 cached tasks, got %d", len(got))
	}
	stats, ok := h.view.LastStats()
	if !ok || stats.Total != 2 || stats.Pending != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestLoadTasksFailureKeepsCache(t *testing.T) {
	h := newHarness(t, seed()...)
	h.backend.ListErr = errBackend

	err := h.m.LoadTasks(context.Background())
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got := h.m.Tasks(); len(got) != 2 {
		t.Errorf("cache should be untouched, got %+v", got)
	}
	if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgLoadFailed {
		t.Errorf("unexpected error toasts: %v", errs)
	}
	if !strings.Contains(h.logs.String(), "load tasks failed") {
		t.Errorf("failure should be logged: %s", h.logs.String())
	}
}

func TestAddTaskToEmptyList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.m.AddTask(ctx, "  Buy milk "); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	h.m.Wait()

	last := h.view.LastRender()
	if len(last) != 1 || last[0].Title != "Buy milk" {
		t.Fatalf("unexpected render: %+v", last)
	}
	html, err := render.New(render.Handlers{}).List(last)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Count(html, `class="task-item`) != 1 || !strings.Contains(html, ">Buy milk<") {
		t.Errorf("expected exactly one row for Buy milk:\n%s", html)
	}

	stats, _ := h.view.LastStats()
	if stats.Total != 1 {
		t.Errorf("total after stats reload: got %d, want 1", stats.Total)
	}
	if h.view.Clears != 1 {
		t.Errorf("input should be cleared once, got %d", h.view.Clears)
	}
	if s := h.notifier.Successes(); len(s) != 1 || s[0] != controller.MsgAdded {
		t.Errorf("unexpected success toasts: %v", s)
	}
	calls := h.backend.Calls()
	var created string
	for _, c := range calls {
		if c.Method == "POST /tasks" {
			created = c.Title
		}
	}
	if created != "Buy milk" {
		t.Errorf("server should receive the trimmed title, got %q", created)
	}
}

func TestAddTaskRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		h := newHarness(t)
		err := h.m.AddTask(context.Background(), title)
		if !errors.Is(err, task.ErrEmptyTitle) {
			t.Errorf("AddTask(%q): expected ErrEmptyTitle, got %v", title, err)
		}
		if n := h.backend.CountCalls("POST /tasks"); n != 0 {
			t.Errorf("AddTask(%q) issued %d create requests", title, n)
		}
		if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgEmptyTitle {
			t.Errorf("AddTask(%q): unexpected toasts %v", title, errs)
		}
		if len(h.view.BusyStates) != 0 {
			t.Errorf("add control should not change for a rejected title")
		}
	}
}

func TestAddTaskFailure(t *testing.T) {
	h := newHarness(t, seed()...)
	h.backend.CreateErr = errBackend

	if err := h.m.AddTask(context.Background(), "Buy milk"); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	h.m.Wait()

	if got := h.m.Tasks(); len(got) != 2 {
		t.Errorf("task count changed: %+v", got)
	}
	if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgAddFailed {
		t.Errorf("unexpected toasts: %v", errs)
	}
	if len(h.view.BusyStates) != 2 || !h.view.BusyStates[0] || h.view.Busy() {
		t.Errorf("add control should be disabled then re-enabled: %v", h.view.BusyStates)
	}
	if h.view.Clears != 0 {
		t.Error("input must be kept on failure")
	}
}

func TestAddTaskSuccessReenablesControl(t *testing.T) {
	h := newHarness(t)
	if err := h.m.AddTask(context.Background(), "x"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	h.m.Wait()
	if len(h.view.BusyStates) != 2 || h.view.Busy() {
		t.Errorf("unexpected busy states: %v", h.view.BusyStates)
	}
}

func TestToggleTwiceRestoresFlag(t *testing.T) {
	h := newHarness(t, seed()...)
	ctx := context.Background()

	if err := h.m.ToggleTask(ctx, 1); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if got, _ := task.Find(h.m.Tasks(), 1); !got.Completed {
		t.Fatal("task should be completed after first toggle")
	}
	if err := h.m.ToggleTask(ctx, 1); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	h.m.Wait()

	if got, _ := task.Find(h.m.Tasks(), 1); got.Completed {
		t.Error("task should be back to pending")
	}

	var sent []bool
	for _, c := range h.backend.Calls() {
		if c.Method == "PUT /tasks" {
			if c.Patch.Completed == nil || c.Patch.Title != nil {
				t.Fatalf("toggle must send only completed: %+v", c.Patch)
			}
			sent = append(sent, *c.Patch.Completed)
		}
	}
	if len(sent) != 2 || sent[0] != true || sent[1] != false {
		t.Errorf("expected PUTs [true false], got %v", sent)
	}
}

func TestToggleUnknownIsNoop(t *testing.T) {
	h := newHarness(t, seed()...)
	if err := h.m.ToggleTask(context.Background(), 99); !errors.Is(err, controller.ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
	if n := h.backend.CountCalls("PUT /tasks"); n != 0 {
		t.Errorf("unexpected PUT requests: %d", n)
	}
	if len(h.notifier.Notes) != 0 {
		t.Errorf("unexpected toasts: %v", h.notifier.Notes)
	}
}

func TestToggleFailureKeepsCache(t *testing.T) {
	h := newHarness(t, seed()...)
	h.backend.UpdateErr = errBackend

	if err := h.m.ToggleTask(context.Background(), 1); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got, _ := task.Find(h.m.Tasks(), 1); got.Completed {
		t.Error("cache changed on failed toggle")
	}
	if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgUpdateFailed {
		t.Errorf("unexpected toasts: %v", errs)
	}
}

func TestEditTask(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.PromptOK = true
	h.dialog.PromptAnswer = "  Learn Go  "

	if err := h.m.EditTask(context.Background(), 1); err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	h.m.Wait()

	if len(h.dialog.Prompts) != 1 || h.dialog.Prompts[0] != "Learn Python" {
		t.Errorf("prompt should offer the current title, got %v", h.dialog.Prompts)
	}
	if got, _ := task.Find(h.m.Tasks(), 1); got.Title != "Learn Go" {
		t.Errorf("title: got %q, want Learn Go", got.Title)
	}
	if got, _ := task.Find(h.backend.Stored(), 1); got.Title != "Learn Go" {
		t.Errorf("server should receive the trimmed title, got %q", got.Title)
	}
	if s := h.notifier.Successes(); len(s) != 1 || s[0] != controller.MsgUpdated {
		t.Errorf("unexpected toasts: %v", s)
	}
}

func TestEditTaskCancelledOrBlankIsNoop(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		ok     bool
	}{
		{"cancelled", "Anything", false},
		{"blank", "   ", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, seed()...)
			h.dialog.PromptAnswer = tt.answer
			h.dialog.PromptOK = tt.ok

			if err := h.m.EditTask(context.Background(), 1); err != nil {
				t.Fatalf("EditTask: %v", err)
			}
			if n := h.backend.CountCalls("PUT /tasks"); n != 0 {
				t.Errorf("unexpected PUT requests: %d", n)
			}
			if got, _ := task.Find(h.m.Tasks(), 1); got.Title != "Learn Python" {
				t.Errorf("title changed to %q", got.Title)
			}
		})
	}
}

func TestEditTaskFailure(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.PromptOK = true
	h.dialog.PromptAnswer = "New"
	h.backend.UpdateErr = errBackend

	if err := h.m.EditTask(context.Background(), 2); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got, _ := task.Find(h.m.Tasks(), 2); got.Title != "Build a web app" {
		t.Errorf("cache changed on failed edit: %q", got.Title)
	}
	if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgUpdateFailed {
		t.Errorf("unexpected toasts: %v", errs)
	}
}

func TestDeleteTaskRemovesOnlyThatID(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.ConfirmAnswer = true

	if err := h.m.DeleteTask(context.Background(), 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	h.m.Wait()

	got := h.view.LastRender()
	if len(got) != 1 || got[0] != seed()[1] {
		t.Errorf("unexpected render after delete: %+v", got)
	}
	if len(h.dialog.Confirms) != 1 || h.dialog.Confirms[0] != controller.MsgDeleteConfirm {
		t.Errorf("unexpected confirmations: %v", h.dialog.Confirms)
	}
	stats, _ := h.view.LastStats()
	if stats.Total != 1 {
		t.Errorf("stats not refreshed: %+v", stats)
	}
}

func TestDeleteTaskDeclined(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.ConfirmAnswer = false
	renders := len(h.view.Renders)

	if err := h.m.DeleteTask(context.Background(), 1); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if n := h.backend.CountCalls("DELETE /tasks"); n != 0 {
		t.Errorf("declined delete issued %d requests", n)
	}
	if len(h.m.Tasks()) != 2 || len(h.view.Renders) != renders {
		t.Error("declined delete changed the list")
	}
}

func TestDeleteTaskFailure(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.ConfirmAnswer = true
	h.backend.DeleteErr = errBackend

	if err := h.m.DeleteTask(context.Background(), 1); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(h.m.Tasks()) != 2 {
		t.Error("cache changed on failed delete")
	}
	if errs := h.notifier.Errors(); len(errs) != 1 || errs[0] != controller.MsgDeleteFailed {
		t.Errorf("unexpected toasts: %v", errs)
	}
}

func TestDialogErrorAborts(t *testing.T) {
	h := newHarness(t, seed()...)
	h.dialog.Err = context.Canceled

	if err := h.m.DeleteTask(context.Background(), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("DeleteTask: expected context.Canceled, got %v", err)
	}
	if err := h.m.EditTask(context.Background(), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("EditTask: expected context.Canceled, got %v", err)
	}
	if n := len(h.backend.Calls()); n != 2 {
		t.Errorf("only the init calls should have been made, got %d", n)
	}
}

func TestStatsFailureIsSilent(t *testing.T) {
	h := newHarness(t, seed()...)
	h.backend.StatsErr = errBackend

	if err := h.m.ToggleTask(context.Background(), 2); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	h.m.Wait()

	if len(h.notifier.Notes) != 0 {
		t.Errorf("stats failures must not toast: %v", h.notifier.Notes)
	}
	if !strings.Contains(h.logs.String(), "load stats failed") {
		t.Errorf("stats failure should be logged: %s", h.logs.String())
	}
}

func TestConcurrentTogglesAreNotCoordinated(t *testing.T) {
	h := newHarness(t, seed()...)
	ctx := context.Background()

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { done <- h.m.ToggleTask(ctx, 2) }()
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("ToggleTask: %v", err)
		}
	}
	h.m.Wait()

	if n := h.backend.CountCalls("PUT /tasks"); n != 2 {
		t.Errorf("both toggles should reach the server, got %d PUTs", n)
	}
}

func TestTransportFailureLogsRequestID(t *testing.T) {
	h := newHarness(t, seed()...)
	h.backend.ListErr = &api.RequestError{Method: "GET", Path: "/tasks", RequestID: "req-7", Err: errBackend}

	if err := h.m.LoadTasks(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(h.logs.String(), "request_id=req-7") {
		t.Errorf("request id not logged: %s", h.logs.String())
	}
}
