package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/notify"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/utils"
)

const (
	toastTick    = 100 * time.Millisecond
	defaultWidth = 80
)

// controllerAPI is the part of controller.Manager the model drives. Every
// call runs inside a tea.Cmd, off the update loop.
type controllerAPI interface {
	Init(ctx context.Context) error
	LoadTasks(ctx context.Context) error
	AddTask(ctx context.Context, title string) error
	ToggleTask(ctx context.Context, id int) error
	EditTask(ctx context.Context, id int) error
	DeleteTask(ctx context.Context, id int) error
}

type tickMsg time.Time

// opDoneMsg reports a finished controller call. Failures have already been
// logged and toasted by the controller.
type opDoneMsg struct {
	op  string
	err error
}

// model keeps its own copy of the list, fed by tasksMsg. It must not read
// the manager's cache from Update: the manager holds its lock while it
// posts renders.
type model struct {
	ctx      context.Context
	ctrl     controllerAPI
	center   *notify.Center
	now      func() time.Time
	endpoint string

	tasks     []task.Task
	stats     task.Stats
	haveStats bool
	cursor    int

	input textinput.Model
	busy  bool

	modals     []*modalRequest
	modalInput textinput.Model

	width    int
	showHelp bool
}

func newModel(ctx context.Context, ctrl controllerAPI, center *notify.Center, endpoint string) *model {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200
	input.Width = 50
	input.Prompt = "› "

	modalInput := textinput.New()
	modalInput.CharLimit = 200
	modalInput.Width = 50
	modalInput.Prompt = "› "

	return &model{
		ctx:        ctx,
		ctrl:       ctrl,
		center:     center,
		now:        time.Now,
		endpoint:   endpoint,
		input:      input,
		modalInput: modalInput,
		width:      defaultWidth,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.run("init", m.ctrl.Init), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// run wraps a controller call as a command.
func (m *model) run(op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(m.ctx)}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.center.Prune(m.now())
		return m, tickCmd()
	case tasksMsg:
		m.tasks = []task.Task(msg)
		m.clampCursor()
		return m, nil
	case statsMsg:
		m.stats = task.Stats(msg)
		m.haveStats = true
		return m, nil
	case busyMsg:
		m.busy = bool(msg)
		return m, nil
	case clearInputMsg:
		m.input.Reset()
		return m, nil
	case toastMsg, opDoneMsg:
		return m, nil
	case modalMsg:
		return m, m.pushModal(msg.req)
	case tea.KeyMsg:
		if len(m.modals) > 0 {
			return m.updateModal(msg)
		}
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a", "i":
		return m, m.input.Focus()
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.tasks)-1, 0)
	case " ", "space", "x":
		if id, ok := m.selected(); ok {
			return m, m.run("toggle", func(ctx context.Context) error { return m.ctrl.ToggleTask(ctx, id) })
		}
	case "e":
		if id, ok := m.selected(); ok {
			return m, m.run("edit", func(ctx context.Context) error { return m.ctrl.EditTask(ctx, id) })
		}
	case "d":
		if id, ok := m.selected(); ok {
			return m, m.run("delete", func(ctx context.Context) error { return m.ctrl.DeleteTask(ctx, id) })
		}
	case "r", "f5":
		return m, m.run("reload", m.ctrl.LoadTasks)
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		title := m.input.Value()
		return m, m.run("add", func(ctx context.Context) error { return m.ctrl.AddTask(ctx, title) })
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) pushModal(req *modalRequest) tea.Cmd {
	m.modals = append(m.modals, req)
	if len(m.modals) == 1 {
		return m.openModal(req)
	}
	return nil
}

func (m *model) openModal(req *modalRequest) tea.Cmd {
	if req.kind != modalPrompt {
		m.modalInput.Blur()
		return nil
	}
	m.modalInput.SetValue(req.initial)
	m.modalInput.CursorEnd()
	return m.modalInput.Focus()
}

// closeModal answers the active request and opens the next queued one.
func (m *model) closeModal(a modalAnswer) tea.Cmd {
	m.modals[0].answer(a)
	m.modals = m.modals[1:]
	m.modalInput.Reset()
	if len(m.modals) > 0 {
		return m.openModal(m.modals[0])
	}
	m.modalInput.Blur()
	return nil
}

func (m *model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.modals[0]
	key := msg.String()

	if key == "ctrl+c" {
		for len(m.modals) > 0 {
			m.closeModal(modalAnswer{})
		}
		return m, tea.Quit
	}

	if req.kind == modalConfirm {
		switch key {
		case "y", "Y", "enter":
			return m, m.closeModal(modalAnswer{ok: true})
		case "n", "N", "esc", "q":
			return m, m.closeModal(modalAnswer{})
		}
		return m, nil
	}

	switch key {
	case "enter":
		return m, m.closeModal(modalAnswer{value: m.modalInput.Value(), ok: true})
	case "esc":
		return m, m.closeModal(modalAnswer{})
	}
	var cmd tea.Cmd
	m.modalInput, cmd = m.modalInput.Update(msg)
	return m, cmd
}

func (m *model) selected() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return 0, false
	}
	return m.tasks[m.cursor].ID, true
}

func (m *model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeHeader(&b, m.endpoint)
	writeStats(&b, m.stats, m.haveStats)

	if m.showHelp {
		writeHelp(&b)
	} else {
		writeTasks(&b, m.tasks, m.cursor, m.width)
		m.writeInput(&b)
	}

	if len(m.modals) > 0 {
		m.writeModal(&b)
	}
	m.writeToasts(&b)
	writeFooter(&b, m.input.Focused())
	return b.String()
}

func writeHeader(b *strings.Builder, endpoint string) {
	b.WriteString(titleStyle.Render("Task Board"))
	if endpoint != "" {
		b.WriteString("  " + endpointStyle.Render(endpoint))
	}
	b.WriteString("\n\n")
}

func writeStats(b *strings.Builder, s task.Stats, ok bool) {
	value := func(n int) string {
		if !ok {
			return statValueStyle.Render("-")
		}
		return statValueStyle.Render(fmt.Sprint(n))
	}
	fmt.Fprintf(b, "%s %s   %s %s   %s %s\n\n",
		statLabelStyle.Render("Total"), value(s.Total),
		statLabelStyle.Render("Completed"), value(s.Completed),
		statLabelStyle.Render("Pending"), value(s.Pending),
	)
}

func writeTasks(b *strings.Builder, tasks []task.Task, cursor, width int) {
	if len(tasks) == 0 {
		b.WriteString(emptyStyle.Render("  🎉 No tasks yet. Add one above!") + "\n\n")
		return
	}
	titleWidth := max(width-24, 10)
	for i, t := range tasks {
		b.WriteString(formatTask(t, i == cursor, titleWidth))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatTask(t task.Task, selected bool, titleWidth int) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	title := utils.Truncate(utils.Printable(t.Title), titleWidth)
	if t.Completed {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	return fmt.Sprintf("%s%s %s  %s", pointer, box, title, dateStyle.Render(utils.Printable(t.CreatedAt)))
}

func (m *model) writeInput(b *strings.Builder) {
	label := render.AddLabel
	if m.busy {
		label = busyStyle.Render(render.BusyLabel)
	}
	b.WriteString(m.input.View() + "  " + label + "\n\n")
}

func (m *model) writeModal(b *strings.Builder) {
	req := m.modals[0]
	var body string
	switch req.kind {
	case modalConfirm:
		body = req.message + "\n\n" + helpStyle.Render("y confirm · n cancel")
	default:
		body = req.message + "\n" + m.modalInput.View() + "\n\n" + helpStyle.Render("enter save · esc cancel")
	}
	b.WriteString(modalStyle.Render(body) + "\n\n")
}

func (m *model) writeToasts(b *strings.Builder) {
	now := m.now()
	timing := m.center.Timing()
	for _, t := range m.center.Visible(now) {
		toast := toastStyle(t.Kind, t.PhaseAt(now, timing)).Render(t.Message)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toast) + "\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a, i         Focus the new task input\n")
	b.WriteString("  enter        Add the typed task\n")
	b.WriteString("  esc          Leave the input\n")
	b.WriteString("  j, k         Move the selection\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  e            Edit title\n")
	b.WriteString("  d            Delete\n")
	b.WriteString("  r, F5        Reload tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, typing bool) {
	if typing {
		b.WriteString(helpStyle.Render("enter add · esc done"))
		return
	}
	b.WriteString(helpStyle.Render("a add · space toggle · e edit · d delete · r reload · h help · q quit"))
}
