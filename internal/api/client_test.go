package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/taskboard/internal/task"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	c, err := New(srv.URL+"/api", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("/api"); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
}

func TestListTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tasks" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		_, _ = io.WriteString(w, `{"tasks": [
			{"id": 1, "title": "Learn Python", "completed": false, "created_at": "2026-01-12"},
			{"id": 2, "title": "Build a web app", "completed": true, "created_at": "2026-01-12"}
		]}`)
	})

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[1].Title != "Build a web app" || !tasks[1].Completed {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestCreateTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["title"] != "Buy milk" || len(body) != 1 {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"task": {"id": 3, "title": "Buy milk", "completed": false, "created_at": "2026-01-12"}}`)
	})

	got, err := c.CreateTask(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	want := task.Task{ID: 3, Title: "Buy milk", CreatedAt: "2026-01-12"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUpdateTaskSendsPartialBody(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  string
	}{
		{"completed", CompletedPatch(true), `{"completed":true}`},
		{"completed false", CompletedPatch(false), `{"completed":false}`},
		{"title", TitlePatch("Ship it"), `{"title":"Ship it"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut || r.URL.Path != "/api/tasks/7" {
					t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				data, _ := io.ReadAll(r.Body)
				if string(data) != tt.want {
					t.Errorf("body: got %s, want %s", data, tt.want)
				}
				_, _ = io.WriteString(w, `not even json`)
			})
			if err := c.UpdateTask(context.Background(), 7, tt.patch); err != nil {
				t.Fatalf("UpdateTask: %v", err)
			}
		})
	}
}

func TestUpdateTaskRejectsEmptyPatch(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	if err := c.UpdateTask(context.Background(), 1, Patch{}); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("empty patch should not reach the server")
	}
}

func TestDeleteTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/2" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"message": "Task deleted"}`)
	})
	if err := c.DeleteTask(context.Background(), 2); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"total": 3, "completed": 1, "pending": 2}`)
	})
	got, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got != (task.Stats{Total: 3, Completed: 1, Pending: 2}) {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestNon2xxIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": "Task not found"}`)
	}, WithRequestIDs(func() string { return "req-1" }))

	err := c.UpdateTask(context.Background(), 9, TitlePatch("x"))
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Message != "Task not found" {
		t.Errorf("unexpected status error: %+v", se)
	}
	if RequestID(err) != "req-1" {
		t.Errorf("RequestID: got %q", RequestID(err))
	}
	if !strings.Contains(err.Error(), "PUT /tasks/9") {
		t.Errorf("error should name the call: %v", err)
	}
}

func TestSchemaViolationFails(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items": []}`)
	}

	c := newTestClient(t, h)
	if _, err := c.ListTasks(context.Background()); err == nil {
		t.Fatal("expected schema error")
	}

	lax := newTestClient(t, h, WithValidation(false))
	tasks, err := lax.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks without validation: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty list, got %#v", tasks)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url+"/api", WithRequestIDs(func() string { return "req-net" }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Stats(context.Background())
	if err == nil {
		t.Fatal("expected network error")
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
	if re.Method != http.MethodGet || re.Path != "/stats" {
		t.Errorf("request: got %s %s", re.Method, re.Path)
	}
	if got := RequestID(err); got != "req-net" {
		t.Errorf("RequestID: got %q, want %q", got, "req-net")
	}
}

func TestDecodeFailureKeepsRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}, WithValidation(false), WithRequestIDs(func() string { return "req-2" }))

	_, err := c.ListTasks(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}
	if got := RequestID(err); got != "req-2" {
		t.Errorf("RequestID: got %q, want %q", got, "req-2")
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
