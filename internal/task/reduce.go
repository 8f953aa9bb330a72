package task

// Event is a confirmed server-side change to apply to a cached list.
type Event interface {
	apply(list []Task) []Task
}

// Loaded replaces the cached list with a fresh server listing.
type Loaded struct {
	Tasks []Task
}

// Added appends a task returned by a successful create.
type Added struct {
	Task Task
}

// CompletionSet records a confirmed change of the completed flag.
type CompletionSet struct {
	ID        int
	Completed bool
}

// Retitled records a confirmed title change.
type Retitled struct {
	ID    int
	Title string
}

// Removed records a confirmed delete.
type Removed struct {
	ID int
}

// Reduce returns the list that results from applying ev to list.
// The input slice is never modified. A nil event returns a copy of list.
func Reduce(list []Task, ev Event) []Task {
	if ev == nil {
		return Clone(list)
	}
	return ev.apply(list)
}

func (e Loaded) apply(_ []Task) []Task {
	return Clone(e.Tasks)
}

func (e Added) apply(list []Task) []Task {
	out := make([]Task, len(list), len(list)+1)
	copy(out, list)
	return append(out, e.Task)
}

func (e CompletionSet) apply(list []Task) []Task {
	return update(list, e.ID, func(t *Task) { t.Completed = e.Completed })
}

func (e Retitled) apply(list []Task) []Task {
	return update(list, e.ID, func(t *Task) { t.Title = e.Title })
}

func (e Removed) apply(list []Task) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if t.ID != e.ID {
			out = append(out, t)
		}
	}
	return out
}

func update(list []Task, id int, fn func(*Task)) []Task {
	out := Clone(list)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			break
		}
	}
	return out
}
