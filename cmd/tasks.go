package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/exitcode"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/utils"
)

// listCommand prints the task list.
func listCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("list", s)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return exitcode.With(exitcode.UserError, fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}

	ss, err := newSession(cfg, fixedDialog{}, s)
	if err != nil {
		return err
	}
	if err := ss.load(ctx); err != nil {
		return err
	}

	tasks := ss.mgr.Tasks()
	if *asJSON {
		return writeJSON(s.out, map[string]any{"tasks": tasks})
	}
	printTaskList(s.out, tasks)
	return nil
}

// addCommand creates a task from the remaining arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("add", s)
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	ss, err := newSession(cfg, fixedDialog{}, s)
	if err != nil {
		return err
	}
	// Add does not need the cache: the new task is appended to it.
	if err := ss.mgr.AddTask(ctx, strings.Join(fs.Args(), " ")); err != nil {
		return classify(err)
	}
	ss.mgr.Wait()

	tasks := ss.mgr.Tasks()
	if len(tasks) > 0 {
		printTask(s.out, tasks[len(tasks)-1])
	}
	return nil
}

// toggleCommand flips the completed flag of one task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("toggle", s)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	id, err := singleID(fs.Args())
	if err != nil {
		return err
	}

	ss, err := newSession(cfg, fixedDialog{}, s)
	if err != nil {
		return err
	}
	if err := ss.load(ctx); err != nil {
		return err
	}
	if err := ss.mgr.ToggleTask(ctx, id); err != nil {
		return withID(classify(err), id)
	}
	ss.mgr.Wait()
	return printByID(s.out, ss.mgr.Tasks(), id)
}

// editCommand retitles a task, prompting on stdin when no title is given.
func editCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("edit", s)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return exitcode.With(exitcode.UserError, fmt.Errorf("usage: taskboard edit <id> [title]"))
	}
	id, err := utils.ParseID(fs.Arg(0))
	if err != nil {
		return exitcode.With(exitcode.UserError, err)
	}

	var dialog controller.Dialog = newLineDialog(s)
	if fs.NArg() > 1 {
		dialog = fixedDialog{value: strings.Join(fs.Args()[1:], " ")}
	}

	ss, err := newSession(cfg, dialog, s)
	if err != nil {
		return err
	}
	if err := ss.load(ctx); err != nil {
		return err
	}
	if err := ss.mgr.EditTask(ctx, id); err != nil {
		return withID(classify(err), id)
	}
	ss.mgr.Wait()
	return printByID(s.out, ss.mgr.Tasks(), id)
}

// rmCommand deletes a task after confirmation.
func rmCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("rm", s)
	yes := fs.Bool("yes", false, "Skip confirmation")
	fs.BoolVar(yes, "y", false, "Skip confirmation")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	id, err := singleID(fs.Args())
	if err != nil {
		return err
	}

	var dialog controller.Dialog = newLineDialog(s)
	if *yes {
		dialog = fixedDialog{confirm: true}
	}

	ss, err := newSession(cfg, dialog, s)
	if err != nil {
		return err
	}
	if err := ss.load(ctx); err != nil {
		return err
	}
	if _, ok := task.Find(ss.mgr.Tasks(), id); !ok {
		return withID(classify(controller.ErrUnknownTask), id)
	}
	if err := ss.mgr.DeleteTask(ctx, id); err != nil {
		return withID(classify(err), id)
	}
	ss.mgr.Wait()
	return nil
}

// statsCommand prints the server's counters.
func statsCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("stats", s)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	// The manager only logs stats failures; the command reports them.
	stats, err := client.Stats(ctx)
	if err != nil {
		return classify(err)
	}
	if *asJSON {
		return writeJSON(s.out, stats)
	}
	fmt.Fprintf(s.out, "Total: %d  Completed: %d  Pending: %d\n", stats.Total, stats.Completed, stats.Pending)
	return nil
}

// htmlCommand prints the list markup a browser shell would render.
func htmlCommand(ctx context.Context, cfg *config.Config, args []string, s streams) error {
	fs := newFlagSet("html", s)
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	ss, err := newSession(cfg, fixedDialog{}, s)
	if err != nil {
		return err
	}
	if err := ss.load(ctx); err != nil {
		return err
	}
	html, err := render.New(render.Handlers{}).List(ss.mgr.Tasks())
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, html)
	return nil
}

func singleID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, exitcode.With(exitcode.UserError, fmt.Errorf("expected exactly one task id, got %d arguments", len(args)))
	}
	id, err := utils.ParseID(args[0])
	if err != nil {
		return 0, exitcode.With(exitcode.UserError, err)
	}
	return id, nil
}

func withID(err error, id int) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("task %d: %w", id, err)
}

func printByID(w io.Writer, tasks []task.Task, id int) error {
	t, ok := task.Find(tasks, id)
	if ok {
		printTask(w, t)
	}
	return nil
}

func printTaskList(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet. Add one with: taskboard add <title>")
		return
	}
	for _, t := range tasks {
		printTask(w, t)
	}
}

func printTask(w io.Writer, t task.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s  %s\n", t.ID, box, utils.Printable(t.Title), utils.Printable(t.CreatedAt))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
