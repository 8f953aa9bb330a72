package task

import (
	"errors"
	"strings"
)

// ErrEmptyTitle is returned when a title is empty after trimming.
var ErrEmptyTitle = errors.New("task title is required")

// Task is a server-owned to-do item.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

// Stats holds the aggregate counts reported by the backend.
// They are fetched independently and never derived from a cached list.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// NormalizeTitle trims surrounding whitespace and rejects empty titles.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	return trimmed, nil
}

// Find returns the first task with the given id.
func Find(list []Task, id int) (Task, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Clone returns a copy of list that shares no backing array with it.
// A nil list clones to an empty, non-nil slice.
func Clone(list []Task) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	return out
}
