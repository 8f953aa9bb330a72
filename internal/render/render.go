// Package render projects the cached task list into DOM markup.
//
// The markup never references a global controller. Rows carry data-action
// and data-id attributes, and the shell that owns the DOM forwards events to
// the Handlers bound when the Renderer was built.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/nibzard/taskboard/internal/notify"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/utils"
)

// Element ids the page shell must provide.
const (
	IDAddButton      = "add-task-btn"
	IDTaskInput      = "task-input"
	IDTasksContainer = "tasks-container"
	IDTotalTasks     = "total-tasks"
	IDCompletedTasks = "completed-tasks"
	IDPendingTasks   = "pending-tasks"
)

// Labels of the add control.
const (
	AddLabel  = "Add Task"
	BusyLabel = "Adding..."
)

// EmptyPlaceholder is shown in place of the list when there are no tasks.
const EmptyPlaceholder = `<p class="no-tasks">🎉 No tasks yet. Add one above!</p>`

// Action names a row trigger.
type Action string

const (
	ActionToggle Action = "toggle"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ErrUnknownAction is returned by Dispatch for an unrecognized action.
var ErrUnknownAction = errors.New("unknown action")

// Handlers are the callbacks row triggers are bound to.
type Handlers struct {
	OnToggle func(id int)
	OnEdit   func(id int)
	OnDelete func(id int)
}

// Renderer renders list markup and routes row events to its handlers.
type Renderer struct {
	handlers Handlers
	list     *template.Template
	toast    *template.Template
}

var listTemplate = `{{range .}}
<div class="task-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
    <div class="task-content">
        <input type="checkbox" class="task-checkbox" data-action="toggle" data-id="{{.ID}}"{{if .Completed}} checked{{end}}>
        <span class="task-title{{if .Completed}} completed{{end}}">{{.Title}}</span>
        <span class="task-date">{{rawDate .CreatedAt}}</span>
    </div>
    <div class="task-actions">
        <button class="edit-btn" data-action="edit" data-id="{{.ID}}">✏️ Edit</button>
        <button class="delete-btn" data-action="delete" data-id="{{.ID}}">🗑️ Delete</button>
    </div>
</div>
{{end}}`

var toastTemplate = `<div class="notification {{.Kind}}" data-toast="{{.ID}}" style="{{.Style}}">{{.Message}}</div>`

// New builds a Renderer whose row events go to h.
func New(h Handlers) *Renderer {
	funcs := template.FuncMap{
		// created_at is trusted server output and is inserted verbatim.
		"rawDate": func(s string) template.HTML { return template.HTML(s) },
	}
	return &Renderer{
		handlers: h,
		list:     template.Must(template.New("list").Funcs(funcs).Parse(listTemplate)),
		toast:    template.Must(template.New("toast").Parse(toastTemplate)),
	}
}

// List renders the whole task list. There is no diffing.
func (r *Renderer) List(tasks []task.Task) (string, error) {
	if len(tasks) == 0 {
		return EmptyPlaceholder, nil
	}
	var buf bytes.Buffer
	if err := r.list.Execute(&buf, tasks); err != nil {
		return "", fmt.Errorf("render list: %w", err)
	}
	return buf.String(), nil
}

// Field is the text content of one summary counter element.
type Field struct {
	ID   string
	Text string
}

// StatsFields returns the counter elements for s.
func StatsFields(s task.Stats) []Field {
	return []Field{
		{ID: IDTotalTasks, Text: strconv.Itoa(s.Total)},
		{ID: IDCompletedTasks, Text: strconv.Itoa(s.Completed)},
		{ID: IDPendingTasks, Text: strconv.Itoa(s.Pending)},
	}
}

// ToastColor is the background color for a toast kind.
func ToastColor(k notify.Kind) string {
	if k == notify.KindSuccess {
		return "#28a745"
	}
	return "#dc3545"
}

// ToastStyle returns the inline style of a toast in the given phase.
func ToastStyle(k notify.Kind, p notify.Phase) string {
	offset := "100%"
	if p == notify.PhaseShown {
		offset = "0"
	}
	return strings.Join([]string{
		"position: fixed",
		"top: 20px",
		"right: 20px",
		"padding: 15px 20px",
		"background: " + ToastColor(k),
		"color: white",
		"border-radius: 5px",
		"z-index: 1000",
		"box-shadow: 0 2px 10px rgba(0,0,0,0.2)",
		"transform: translateX(" + offset + ")",
		"transition: transform 0.3s ease",
	}, "; ") + ";"
}

// Toast renders a notification element for t in phase p.
func (r *Renderer) Toast(t notify.Toast, p notify.Phase) (string, error) {
	data := struct {
		ID      int
		Kind    notify.Kind
		Message string
		Style   template.CSS
	}{
		ID:      t.ID,
		Kind:    t.Kind,
		Message: t.Message,
		Style:   template.CSS(ToastStyle(t.Kind, p)),
	}
	var buf bytes.Buffer
	if err := r.toast.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render toast: %w", err)
	}
	return buf.String(), nil
}

// Dispatch routes a row event, given the raw data-action and data-id
// attribute values, to the bound handler.
func (r *Renderer) Dispatch(action, rawID string) error {
	id, err := utils.ParseID(rawID)
	if err != nil {
		return err
	}

	var fn func(int)
	switch Action(action) {
	case ActionToggle:
		fn = r.handlers.OnToggle
	case ActionEdit:
		fn = r.handlers.OnEdit
	case ActionDelete:
		fn = r.handlers.OnDelete
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if fn != nil {
		fn(id)
	}
	return nil
}
