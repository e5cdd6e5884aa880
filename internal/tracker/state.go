package tracker

import (
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

// State is one session's view of the feed. A State is never modified after
// it is built; Reduce returns a new one.
type State struct {
	// Generation of the load the tasks came from.
	Generation uint64
	Groups     []recurrence.Group
}

// Task finds a task by id.
func (s State) Task(id int64) (*model.Task, bool) {
	for _, g := range s.Groups {
		for _, t := range g.Tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return nil, false
}

// Series returns the group of a recurrence id.
func (s State) Series(recurrenceID string) (recurrence.Group, bool) {
	for _, g := range s.Groups {
		if g.RecurrenceID != nil && *g.RecurrenceID == recurrenceID {
			return g, true
		}
	}
	return recurrence.Group{}, false
}

type Action interface {
	apply(State) State
}

// Loaded replaces the tasks with a fetched feed unless a newer load already
// landed.
type Loaded struct {
	Generation uint64
	Groups     []recurrence.Group
}

func (a Loaded) apply(s State) State {
	if a.Generation < s.Generation {
		return s
	}

	return State{Generation: a.Generation, Groups: recurrence.GroupTasks(recurrence.Flatten(a.Groups))}
}

// CompletionPatched sets the completed flag of the listed tasks.
type CompletionPatched struct {
	Completed map[int64]bool
}

func (a CompletionPatched) apply(s State) State {
	groups := make([]recurrence.Group, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g
		touched := false
		tasks := make([]*model.Task, len(g.Tasks))
		for j, t := range g.Tasks {
			completed, ok := a.Completed[t.ID]
			if !ok || completed == t.Completed {
				tasks[j] = t
				continue
			}
			c := t.Clone()
			c.Completed = completed
			tasks[j] = c
			touched = true
		}
		if touched {
			groups[i].Tasks = tasks
		}
	}

	return State{Generation: s.Generation, Groups: groups}
}

// inverse records the current completed flag of every task the patch names.
func (a CompletionPatched) inverse(s State) CompletionPatched {
	prior := make(map[int64]bool, len(a.Completed))
	for id := range a.Completed {
		if t, ok := s.Task(id); ok {
			prior[id] = t.Completed
		}
	}
	return CompletionPatched{Completed: prior}
}

func Reduce(s State, a Action) State {
	return a.apply(s)
}
