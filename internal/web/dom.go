//go:build js && wasm

package web

import (
	"context"
	"fmt"
	"os"
	"syscall/js"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/controller"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/notify"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/task"
)

// App is a running browser shell.
type App struct {
	doc      js.Value
	mgr      *controller.Manager
	renderer *render.Renderer
	logger   *log.Logger
	funcs    []js.Func
}

// Start wires the controller to the current document and loads the list.
// The returned App keeps its event handlers until Release.
func Start(ctx context.Context) (*App, error) {
	doc := js.Global().Get("document")
	origin := js.Global().Get("location").Get("origin").String()
	base, err := APIBase(origin)
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, logging.Options{Level: "info", Prefix: "taskboard"})
	client, err := api.New(base)
	if err != nil {
		return nil, err
	}

	for _, id := range []string{render.IDAddButton, render.IDTaskInput, render.IDTasksContainer,
		render.IDTotalTasks, render.IDCompletedTasks, render.IDPendingTasks} {
		if el := doc.Call("getElementById", id); el.IsNull() {
			return nil, fmt.Errorf("page is missing #%s", id)
		}
	}

	a := &App{doc: doc, logger: logger}
	toasts := newToaster(doc, notify.DefaultTiming())
	a.mgr = controller.New(client, &domView{doc: doc, renderer: render.New(render.Handlers{})}, &domDialog{doc: doc}, toasts, controller.WithLogger(logger))

	// Handlers run controller calls on their own goroutine: a js callback
	// must return before the network call can complete.
	spawn := func(op string, fn func(context.Context) error) {
		go func() {
			if err := fn(ctx); err != nil {
				logger.Debug(op+" finished with error", "err", err)
			}
		}()
	}
	a.renderer = render.New(render.Handlers{
		OnToggle: func(id int) { spawn("toggle", func(ctx context.Context) error { return a.mgr.ToggleTask(ctx, id) }) },
		OnEdit:   func(id int) { spawn("edit", func(ctx context.Context) error { return a.mgr.EditTask(ctx, id) }) },
		OnDelete: func(id int) { spawn("delete", func(ctx context.Context) error { return a.mgr.DeleteTask(ctx, id) }) },
	})

	submit := func() {
		title := doc.Call("getElementById", render.IDTaskInput).Get("value").String()
		spawn("add", func(ctx context.Context) error { return a.mgr.AddTask(ctx, title) })
	}

	a.listen(render.IDAddButton, "click", func(js.Value) { submit() })
	a.listen(render.IDTaskInput, "keypress", func(ev js.Value) {
		if ev.Get("key").String() == "Enter" {
			submit()
		}
	})
	// Buttons report clicks, the checkbox reports change.
	a.listen(render.IDTasksContainer, "click", func(ev js.Value) { a.delegate(ev, false) })
	a.listen(render.IDTasksContainer, "change", func(ev js.Value) { a.delegate(ev, true) })

	spawn("init", a.mgr.Init)
	return a, nil
}

func (a *App) listen(id, event string, fn func(js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	a.funcs = append(a.funcs, f)
	a.doc.Call("getElementById", id).Call("addEventListener", event, f)
}

func (a *App) delegate(ev js.Value, change bool) {
	target := ev.Get("target").Call("closest", "[data-action]")
	if target.IsNull() {
		return
	}
	action := target.Get("dataset").Get("action").String()
	if (action == string(render.ActionToggle)) != change {
		return
	}
	if err := a.renderer.Dispatch(action, target.Get("dataset").Get("id").String()); err != nil {
		a.logger.Warn("ignored row event", "action", action, "err", err)
	}
}

// Release removes the event handlers and waits for stats refreshes.
func (a *App) Release() {
	for _, f := range a.funcs {
		f.Release()
	}
	a.funcs = nil
	a.mgr.Wait()
}

// domView writes renders into the page.
type domView struct {
	doc      js.Value
	renderer *render.Renderer
}

func (v *domView) byID(id string) js.Value {
	return v.doc.Call("getElementById", id)
}

func (v *domView) RenderTasks(tasks []task.Task) {
	html, err := v.renderer.List(tasks)
	if err != nil {
		html = render.EmptyPlaceholder
	}
	v.byID(render.IDTasksContainer).Set("innerHTML", html)
}

func (v *domView) RenderStats(stats task.Stats) {
	for _, f := range render.StatsFields(stats) {
		v.byID(f.ID).Set("textContent", f.Text)
	}
}

func (v *domView) SetAddBusy(busy bool) {
	btn := v.byID(render.IDAddButton)
	btn.Set("disabled", busy)
	if busy {
		btn.Set("textContent", render.BusyLabel)
		return
	}
	btn.Set("textContent", render.AddLabel)
}

func (v *domView) ClearInput() {
	v.byID(render.IDTaskInput).Set("value", "")
}

// toaster shows toasts in the page and animates them with timers.
type toaster struct {
	doc      js.Value
	center   *notify.Center
	renderer *render.Renderer
}

func newToaster(doc js.Value, timing notify.Timing) *toaster {
	return &toaster{
		doc:      doc,
		center:   notify.NewCenter(notify.WithTiming(timing)),
		renderer: render.New(render.Handlers{}),
	}
}

func (t *toaster) Success(message string) { t.show(notify.KindSuccess, message) }
func (t *toaster) Error(message string)   { t.show(notify.KindError, message) }

func (t *toaster) show(kind notify.Kind, message string) {
	toast := t.center.Show(kind, message)
	html, err := t.renderer.Toast(toast, notify.PhaseEntering)
	if err != nil {
		return
	}

	holder := t.doc.Call("createElement", "div")
	holder.Set("innerHTML", html)
	el := holder.Get("firstElementChild")
	t.doc.Get("body").Call("appendChild", el)

	timing := t.center.Timing()
	time.AfterFunc(timing.Enter, func() {
		el.Get("style").Set("cssText", render.ToastStyle(kind, notify.PhaseShown))
	})
	time.AfterFunc(timing.Display, func() {
		el.Get("style").Set("cssText", render.ToastStyle(kind, notify.PhaseExiting))
	})
	time.AfterFunc(timing.Lifetime(), func() {
		if !el.Get("parentNode").IsNull() {
			el.Get("parentNode").Call("removeChild", el)
		}
		t.center.Prune(time.Now())
	})
}

// domDialog draws a modal over the page and waits for a button press
// without blocking the browser's event loop.
type domDialog struct {
	doc js.Value
}

func (d *domDialog) Confirm(ctx context.Context, message string) (bool, error) {
	_, ok, err := d.open(ctx, message, "", false)
	return ok, err
}

func (d *domDialog) Prompt(ctx context.Context, message, initial string) (string, bool, error) {
	return d.open(ctx, message, initial, true)
}

type dialogResult struct {
	value string
	ok    bool
}

func (d *domDialog) open(ctx context.Context, message, initial string, withInput bool) (string, bool, error) {
	overlay := d.doc.Call("createElement", "div")
	overlay.Set("className", "modal-overlay")
	overlay.Get("style").Set("cssText",
		"position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; z-index: 1001;")

	box := d.doc.Call("createElement", "div")
	box.Set("className", "modal")
	box.Get("style").Set("cssText", "background: white; padding: 20px; border-radius: 8px; min-width: 300px;")

	text := d.doc.Call("createElement", "p")
	text.Set("textContent", message)
	box.Call("appendChild", text)

	var input js.Value
	if withInput {
		input = d.doc.Call("createElement", "input")
		input.Set("type", "text")
		input.Set("value", initial)
		input.Get("style").Set("cssText", "width: 100%; margin-bottom: 12px;")
		box.Call("appendChild", input)
	}

	ok := d.doc.Call("createElement", "button")
	ok.Set("textContent", "OK")
	cancel := d.doc.Call("createElement", "button")
	cancel.Set("textContent", "Cancel")
	box.Call("appendChild", ok)
	box.Call("appendChild", cancel)
	overlay.Call("appendChild", box)
	d.doc.Get("body").Call("appendChild", overlay)
	if withInput {
		input.Call("focus")
	}

	results := make(chan dialogResult, 1)
	answer := func(r dialogResult) {
		select {
		case results <- r:
		default:
		}
	}
	onOK := js.FuncOf(func(js.Value, []js.Value) any {
		r := dialogResult{ok: true}
		if withInput {
			r.value = input.Get("value").String()
		}
		answer(r)
		return nil
	})
	onCancel := js.FuncOf(func(js.Value, []js.Value) any {
		answer(dialogResult{})
		return nil
	})
	ok.Call("addEventListener", "click", onOK)
	cancel.Call("addEventListener", "click", onCancel)

	defer func() {
		overlay.Call("remove")
		onOK.Release()
		onCancel.Release()
	}()

	select {
	case r := <-results:
		return r.value, r.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
