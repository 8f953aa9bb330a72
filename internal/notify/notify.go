// Package notify keeps transient toast notifications and their timing.
package notify

import (
	"sync"
	"time"
)

// Kind selects the color and meaning of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Phase is the lifecycle stage of a toast at a given instant.
type Phase int

const (
	PhaseEntering Phase = iota
	PhaseShown
	PhaseExiting
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseShown:
		return "shown"
	case PhaseExiting:
		return "exiting"
	default:
		return "removed"
	}
}

// Default lifecycle timings.
const (
	DefaultEnter   = 100 * time.Millisecond
	DefaultDisplay = 3000 * time.Millisecond
	DefaultExit    = 300 * time.Millisecond
)

// Timing controls the toast lifecycle. Display is measured from creation;
// Exit is the extra delay between leaving and removal.
type Timing struct {
	Enter   time.Duration
	Display time.Duration
	Exit    time.Duration
}

// DefaultTiming returns the standard 100ms / 3000ms / 300ms lifecycle.
func DefaultTiming() Timing {
	return Timing{Enter: DefaultEnter, Display: DefaultDisplay, Exit: DefaultExit}
}

// Lifetime is the total time a toast stays attached.
func (t Timing) Lifetime() time.Duration {
	return t.Display + t.Exit
}

// Toast is a single notification.
type Toast struct {
	ID        int
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// PhaseAt reports the lifecycle stage of the toast at now.
func (t Toast) PhaseAt(now time.Time, timing Timing) Phase {
	age := now.Sub(t.CreatedAt)
	switch {
	case age < timing.Enter:
		return PhaseEntering
	case age < timing.Display:
		return PhaseShown
	case age < timing.Lifetime():
		return PhaseExiting
	default:
		return PhaseRemoved
	}
}

// Notifier is the sink used by the controller.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Center stores live toasts. Toasts stack in creation order with no
// de-duplication or queueing. Safe for concurrent use.
type Center struct {
	mu     sync.Mutex
	timing Timing
	now    func() time.Time
	nextID int
	toasts []Toast
	subs   []func(Toast)
}

// Option configures a Center.
type Option func(*Center)

// WithTiming overrides the lifecycle timings.
func WithTiming(t Timing) Option {
	return func(c *Center) {
		c.timing = t
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		timing: DefaultTiming(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timing returns the lifecycle timings in use.
func (c *Center) Timing() Timing {
	return c.timing
}

// OnChange registers fn to be called after every Show.
// fn runs on the caller's goroutine without the center's lock held.
func (c *Center) OnChange(fn func(Toast)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Show adds a toast and returns it.
func (c *Center) Show(kind Kind, message string) Toast {
	c.mu.Lock()
	c.nextID++
	t := Toast{
		ID:        c.nextID,
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
	}
	c.toasts = append(c.toasts, t)
	subs := make([]func(Toast), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
	return t
}

// Success shows a success toast.
func (c *Center) Success(message string) {
	c.Show(KindSuccess, message)
}

// Error shows an error toast.
func (c *Center) Error(message string) {
	c.Show(KindError, message)
}

// Visible returns the toasts still attached at now, oldest first.
func (c *Center) Visible(now time.Time) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Toast
	for _, t := range c.toasts {
		if t.PhaseAt(now, c.timing) != PhaseRemoved {
			out = append(out, t)
		}
	}
	return out
}

// Prune drops toasts removed by now and reports how many were dropped.
func (c *Center) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.PhaseAt(now, c.timing) != PhaseRemoved {
			kept = append(kept, t)
		}
	}
	dropped := len(c.toasts) - len(kept)
	c.toasts = kept
	return dropped
}

// Len returns the number of stored toasts, pruned or not.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toasts)
}
