// Package recurrence groups task instances into series.
package recurrence

import (
	"sort"
	"strconv"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

// Group is every instance of one recurring series, ordered by day. A task
// without a recurrence id forms a group of its own, keyed by its id.
type Group struct {
	Key          string
	RecurrenceID *string
	Tasks        []*model.Task
}

// groupKey separates series from standalone tasks, so a recurrence id that
// happens to read like a task id never merges the two.
type groupKey struct {
	series bool
	id     string
}

func keyOf(t *model.Task) groupKey {
	if t.RecurrenceID != nil {
		return groupKey{series: true, id: *t.RecurrenceID}
	}
	return groupKey{id: strconv.FormatInt(t.ID, 10)}
}

// GroupTasks partitions tasks by recurrence id. Groups come out in the order
// their first member appears in tasks.
func GroupTasks(tasks []*model.Task) []Group {
	res := make([]Group, 0)
	index := make(map[groupKey]int)

	for _, t := range tasks {
		key := keyOf(t)
		i, ok := index[key]
		if !ok {
			i = len(res)
			index[key] = i
			res = append(res, Group{Key: key.id, RecurrenceID: t.RecurrenceID})
		}
		res[i].Tasks = append(res[i].Tasks, t)
	}

	for _, g := range res {
		tasks := g.Tasks
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].OccursOn.Before(tasks[j].OccursOn)
		})
	}

	return res
}

// Flatten returns the members of groups in group order.
func Flatten(groups []Group) []*model.Task {
	var res []*model.Task
	for _, g := range groups {
		res = append(res, g.Tasks...)
	}
	return res
}

func IsGroupComplete(g Group) bool {
	for _, t := range g.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// SetGroupCompletion returns copies of the group's tasks with Completed set to
// completed. g is left untouched.
func SetGroupCompletion(g Group, completed bool) []*model.Task {
	res := make([]*model.Task, len(g.Tasks))
	for i, t := range g.Tasks {
		c := t.Clone()
		c.Completed = completed
		res[i] = c
	}
	return res
}
