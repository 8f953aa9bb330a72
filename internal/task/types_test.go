package task

import (
	"errors"
	"testing"
)

func sample() []Task {
	return []Task{
		{ID: 1, Title: "Learn Python", CreatedAt: "2026-01-12"},
		{ID: 2, Title: "Build a web app", CreatedAt: "2026-01-12"},
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "Buy milk", "Buy milk", false},
		{"surrounding space", "  Buy milk \t", "Buy milk", false},
		{"empty", "", "", true},
		{"whitespace only", " \n\t ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyTitle) {
					t.Fatalf("expected ErrEmptyTitle, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	list := sample()
	got, ok := Find(list, 2)
	if !ok || got.Title != "Build a web app" {
		t.Fatalf("Find(2): got %+v, %v", got, ok)
	}
	if _, ok := Find(list, 99); ok {
		t.Error("Find(99) should report missing")
	}
}

func TestReduceLoadedReplacesWholesale(t *testing.T) {
	fresh := []Task{{ID: 7, Title: "Other"}}
	got := Reduce(sample(), Loaded{Tasks: fresh})
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("got %+v", got)
	}
	got[0].Title = "changed"
	if fresh[0].Title != "Other" {
		t.Error("Loaded must copy the server slice")
	}
}

func TestReduceAddedAppends(t *testing.T) {
	list := sample()
	got := Reduce(list, Added{Task: Task{ID: 3, Title: "Buy milk"}})
	if len(got) != 3 || got[2].ID != 3 {
		t.Fatalf("got %+v", got)
	}
	if len(list) != 2 {
		t.Error("input list was modified")
	}
}

func TestReduceCompletionSet(t *testing.T) {
	list := sample()
	got := Reduce(list, CompletionSet{ID: 1, Completed: true})
	if !got[0].Completed {
		t.Error("task 1 should be completed")
	}
	if got[1].Completed {
		t.Error("task 2 should be untouched")
	}
	if list[0].Completed {
		t.Error("input list was modified")
	}

	back := Reduce(got, CompletionSet{ID: 1, Completed: false})
	if back[0].Completed {
		t.Error("second set should restore the original flag")
	}
}

func TestReduceRetitled(t *testing.T) {
	got := Reduce(sample(), Retitled{ID: 2, Title: "Ship it"})
	if got[1].Title != "Ship it" || got[0].Title != "Learn Python" {
		t.Fatalf("got %+v", got)
	}
}

func TestReduceRemoved(t *testing.T) {
	list := sample()
	got := Reduce(list, Removed{ID: 1})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("got %+v", got)
	}
	if len(list) != 2 {
		t.Error("input list was modified")
	}
}

func TestReduceUnknownIDIsNoop(t *testing.T) {
	events := []Event{
		CompletionSet{ID: 42, Completed: true},
		Retitled{ID: 42, Title: "x"},
		Removed{ID: 42},
	}
	for _, ev := range events {
		got := Reduce(sample(), ev)
		if len(got) != 2 || got[0] != sample()[0] || got[1] != sample()[1] {
			t.Errorf("%T changed the list: %+v", ev, got)
		}
	}
}

func TestReduceNilEvent(t *testing.T) {
	got := Reduce(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
