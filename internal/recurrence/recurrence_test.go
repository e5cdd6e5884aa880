package recurrence

import (
	"testing"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rid(s string) *string {
	return &s
}

func ids(tasks []*model.Task) []int64 {
	res := make([]int64, len(tasks))
	for i, t := range tasks {
		res[i] = t.ID
	}
	return res
}

func membership(groups []Group) map[string][]int64 {
	res := make(map[string][]int64, len(groups))
	for _, g := range groups {
		res[g.Key] = ids(g.Tasks)
	}
	return res
}

func TestGroupTasks_Scenario(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, RecurrenceID: rid("R1"), OccursOn: day("2025-03-10"), Completed: false},
		{ID: 2, RecurrenceID: rid("R1"), OccursOn: day("2025-03-08"), Completed: true},
	}

	groups := GroupTasks(tasks)

	require.Len(t, groups, 1)
	assert.Equal(t, "R1", groups[0].Key)
	assert.Equal(t, []int64{2, 1}, ids(groups[0].Tasks))
	assert.False(t, IsGroupComplete(groups[0]))
}

func TestGroupTasks_SingletonsKeyedByID(t *testing.T) {
	tasks := []*model.Task{
		{ID: 7, OccursOn: day("2025-03-01")},
		{ID: 8, RecurrenceID: rid("R"), OccursOn: day("2025-03-02")},
		{ID: 9, OccursOn: day("2025-03-01")},
		{ID: 10, RecurrenceID: rid("R"), OccursOn: day("2025-03-01")},
	}

	groups := GroupTasks(tasks)

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"7", "R", "9"}, keys)
	assert.Nil(t, groups[0].RecurrenceID)
	assert.Equal(t, []int64{10, 8}, ids(groups[1].Tasks))
}

func TestGroupTasks_SeriesIDMatchingTaskID(t *testing.T) {
	tasks := []*model.Task{
		{ID: 5, OccursOn: day("2025-03-01")},
		{ID: 9, RecurrenceID: rid("5"), OccursOn: day("2025-03-02")},
		{ID: 10, RecurrenceID: rid("5"), OccursOn: day("2025-03-03")},
	}

	groups := GroupTasks(tasks)

	require.Len(t, groups, 2)
	assert.Equal(t, "5", groups[0].Key)
	assert.Nil(t, groups[0].RecurrenceID)
	assert.Equal(t, []int64{5}, ids(groups[0].Tasks))
	assert.Equal(t, "5", groups[1].Key)
	require.NotNil(t, groups[1].RecurrenceID)
	assert.Equal(t, []int64{9, 10}, ids(groups[1].Tasks))
}

func TestGroupTasks_Empty(t *testing.T) {
	assert.Empty(t, GroupTasks(nil))
	assert.NotNil(t, GroupTasks(nil))
}

func TestGroupTasks_StableOnSameDay(t *testing.T) {
	tasks := []*model.Task{
		{ID: 3, RecurrenceID: rid("R"), OccursOn: day("2025-03-05")},
		{ID: 1, RecurrenceID: rid("R"), OccursOn: day("2025-03-05")},
		{ID: 2, RecurrenceID: rid("R"), OccursOn: day("2025-03-04")},
	}

	groups := GroupTasks(tasks)
	require.Len(t, groups, 1)
	assert.Equal(t, []int64{2, 3, 1}, ids(groups[0].Tasks))
}

func TestGroupTasks_IdempotentAndOrdered(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, RecurrenceID: rid("A"), OccursOn: day("2025-03-09")},
		{ID: 2, OccursOn: day("2025-03-01")},
		{ID: 3, RecurrenceID: rid("B"), OccursOn: day("2025-03-20")},
		{ID: 4, RecurrenceID: rid("A"), OccursOn: day("2025-03-02")},
		{ID: 5, RecurrenceID: rid("B"), OccursOn: day("2025-03-10")},
		{ID: 6, RecurrenceID: rid("A"), OccursOn: day("2025-03-05")},
	}

	first := GroupTasks(tasks)
	second := GroupTasks(Flatten(first))

	assert.Equal(t, membership(first), membership(second))
	assert.Equal(t, first, GroupTasks(tasks))

	for _, g := range first {
		for i := 1; i < len(g.Tasks); i++ {
			assert.False(t, g.Tasks[i].OccursOn.Before(g.Tasks[i-1].OccursOn), "group %s", g.Key)
		}
	}
}

func TestIsGroupComplete(t *testing.T) {
	assert.True(t, IsGroupComplete(Group{}))

	g := Group{Key: "R", Tasks: []*model.Task{
		{ID: 1, Completed: true},
		{ID: 2, Completed: true},
	}}
	assert.True(t, IsGroupComplete(g))

	g.Tasks[1].Completed = false
	assert.False(t, IsGroupComplete(g))
}

func TestSetGroupCompletion(t *testing.T) {
	g := Group{Key: "R", RecurrenceID: rid("R"), Tasks: []*model.Task{
		{ID: 1, RecurrenceID: rid("R"), Completed: false},
		{ID: 2, RecurrenceID: rid("R"), Completed: true},
	}}

	done := SetGroupCompletion(g, true)

	assert.Equal(t, []int64{1, 2}, ids(done))
	for _, task := range done {
		assert.True(t, task.Completed)
	}
	assert.False(t, g.Tasks[0].Completed, "input must not be mutated")
	assert.True(t, IsGroupComplete(Group{Tasks: done}))

	undone := SetGroupCompletion(Group{Tasks: done}, false)
	for _, task := range undone {
		assert.False(t, task.Completed)
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		repeat model.RepeatType
		from   string
		until  string
		want   []string
	}{
		{name: "none", repeat: model.RepeatTypeNone, from: "2025-03-05", until: "2025-04-05", want: []string{"2025-03-05"}},
		{name: "daily", repeat: model.RepeatTypeEveryDay, from: "2025-03-05", until: "2025-03-08",
			want: []string{"2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08"}},
		{name: "every three days", repeat: model.RepeatTypeEveryThreeDays, from: "2025-03-05", until: "2025-03-12",
			want: []string{"2025-03-05", "2025-03-08", "2025-03-11"}},
		{name: "weekly through easter", repeat: model.RepeatTypeEveryWeek, from: "2025-03-05", until: "2025-04-20",
			want: []string{"2025-03-05", "2025-03-12", "2025-03-19", "2025-03-26", "2025-04-02", "2025-04-09", "2025-04-16"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.repeat, day(tt.from), day(tt.until))
			require.NoError(t, err)

			want := make([]time.Time, len(tt.want))
			for i, w := range tt.want {
				want[i] = day(w)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	_, err := Expand(model.RepeatTypeEveryDay, day("2025-03-05"), day("2025-03-01"))
	assert.ErrorIs(t, err, ErrUntilBeforeStart)

	_, err = Expand(model.RepeatTypeEveryDay, day("2025-01-01"), day("2027-01-01"))
	assert.ErrorIs(t, err, ErrTooManyOccurrences)

	_, err = Expand(model.RepeatType("fortnightly"), day("2025-01-01"), day("2025-02-01"))
	assert.Error(t, err)
}

func TestExpand_FarUntilStopsEarly(t *testing.T) {
	start := time.Now()
	_, err := Expand(model.RepeatTypeEveryDay, day("2025-01-01"), day("9999-12-31"))
	assert.ErrorIs(t, err, ErrTooManyOccurrences)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	days, err := Expand(model.RepeatTypeEveryDay, day("2025-01-01"), day("2026-01-01"))
	require.NoError(t, err)
	assert.Len(t, days, MaxOccurrences)
}
