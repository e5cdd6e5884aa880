package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	db      *fakeDB
	tasks   *fakeTasks
	groups  *fakeGroups
	friends *fakeFriends
	cache   *fakeCache
	service *Service
}

// Users: 1 and 2 are friends, 1 and 3 share group 10, 4 is a stranger.
func newFixture() *fixture {
	f := &fixture{
		db:      &fakeDB{},
		tasks:   newFakeTasks(),
		groups:  &fakeGroups{members: map[int64][]int64{10: {1, 3}, 20: {4}}},
		friends: &fakeFriends{friends: map[int64][]int64{1: {2}, 2: {1}}},
		cache:   newFakeCache(),
	}
	f.service = NewService(f.db, zap.NewNop().Sugar(), f.tasks, f.groups, f.friends, f.cache)
	f.service.newSeriesID = func() string { return "series-1" }
	return f
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) create(t *testing.T, info *model.TaskCreate) []*model.Task {
	t.Helper()
	tasks, err := f.service.CreateTask(context.Background(), info)
	require.NoError(t, err)
	return tasks
}

func feedIDs(groups []recurrence.Group) []int64 {
	var res []int64
	for _, t := range recurrence.Flatten(groups) {
		res = append(res, t.ID)
	}
	return res
}

func TestCreateTask_Single(t *testing.T) {
	f := newFixture()

	tasks := f.create(t, &model.TaskCreate{
		OwnerID:         1,
		Title:           "Fast from sweets",
		OccursOn:        time.Date(2025, 3, 5, 18, 30, 0, 0, time.UTC),
		Visibility:      model.VisibilityFriends,
		AllowedGroupIDs: []int64{10},
	})

	require.Len(t, tasks, 1)
	assert.NotZero(t, tasks[0].ID)
	assert.Nil(t, tasks[0].RecurrenceID)
	assert.Nil(t, tasks[0].AllowedGroupIDs, "groups only apply to certain_groups")
	assert.Equal(t, date("2025-03-05"), tasks[0].OccursOn)
	assert.Equal(t, 1, f.db.committed)
}

func TestCreateTask_Series(t *testing.T) {
	f := newFixture()

	tasks := f.create(t, &model.TaskCreate{
		OwnerID:         1,
		Title:           "Stations of the Cross",
		OccursOn:        date("2025-03-07"),
		Until:           date("2025-04-18"),
		RepeatType:      model.RepeatTypeEveryWeek,
		Visibility:      model.VisibilityCertainGroups,
		AllowedGroupIDs: []int64{10},
	})

	require.Len(t, tasks, 7)
	for _, task := range tasks {
		require.NotNil(t, task.RecurrenceID)
		assert.Equal(t, "series-1", *task.RecurrenceID)
		assert.Equal(t, []int64{10}, task.AllowedGroupIDs)
	}
	assert.Equal(t, date("2025-04-18"), tasks[6].OccursOn)
}

func TestCreateTask_StoreFailureStoresNothing(t *testing.T) {
	f := newFixture()
	f.tasks.failWrites = errors.New("connection reset")

	_, err := f.service.CreateTask(context.Background(), &model.TaskCreate{
		OwnerID:    1,
		Title:      "Pray",
		OccursOn:   date("2025-03-05"),
		Until:      date("2025-03-10"),
		RepeatType: model.RepeatTypeEveryDay,
		Visibility: model.VisibilityJustMe,
	})

	assert.Error(t, err)
	assert.Empty(t, f.tasks.tasks)
	assert.Equal(t, 0, f.db.committed)
	assert.Equal(t, 1, f.db.rolledBack)
}

func TestGetFeed_AppliesVisibility(t *testing.T) {
	f := newFixture()

	own := f.create(t, &model.TaskCreate{OwnerID: 1, Title: "mine", OccursOn: date("2025-03-05"), Visibility: model.VisibilityJustMe})
	friend := f.create(t, &model.TaskCreate{OwnerID: 2, Title: "friend", OccursOn: date("2025-03-06"), Visibility: model.VisibilityFriends})
	f.create(t, &model.TaskCreate{OwnerID: 2, Title: "friend private", OccursOn: date("2025-03-06"), Visibility: model.VisibilityJustMe})
	group := f.create(t, &model.TaskCreate{OwnerID: 3, Title: "group", OccursOn: date("2025-03-07"),
		Visibility: model.VisibilityCertainGroups, AllowedGroupIDs: []int64{10}})
	f.create(t, &model.TaskCreate{OwnerID: 3, Title: "other group", OccursOn: date("2025-03-07"),
		Visibility: model.VisibilityCertainGroups, AllowedGroupIDs: []int64{99}})
	f.create(t, &model.TaskCreate{OwnerID: 3, Title: "friends only", OccursOn: date("2025-03-07"), Visibility: model.VisibilityFriends})
	f.create(t, &model.TaskCreate{OwnerID: 4, Title: "stranger open", OccursOn: date("2025-03-08"), Visibility: model.VisibilityFriendsAndGroups})

	feed, err := f.service.GetFeed(context.Background(), 1, model.TaskFilter{})
	require.NoError(t, err)

	assert.Equal(t, []int64{own[0].ID, friend[0].ID, group[0].ID}, feedIDs(feed))
}

func TestGetFeed_GroupsSeriesAndMarksLikes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	series := f.create(t, &model.TaskCreate{OwnerID: 2, Title: "Rosary", OccursOn: date("2025-03-05"), Until: date("2025-03-07"),
		RepeatType: model.RepeatTypeEveryDay, Visibility: model.VisibilityFriends})
	require.NoError(t, f.service.LikeTask(ctx, 1, series[1].ID))

	feed, err := f.service.GetFeed(ctx, 1, model.TaskFilter{From: date("2025-03-06"), To: date("2025-03-08")})
	require.NoError(t, err)

	require.Len(t, feed, 1)
	assert.Equal(t, "series-1", feed[0].Key)
	require.Len(t, feed[0].Tasks, 2)
	assert.True(t, feed[0].Tasks[0].LikedByViewer)
	assert.False(t, feed[0].Tasks[1].LikedByViewer)
}

func TestGetFeed_ViewerResolvedOncePerLoad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.GetFeed(ctx, 1, model.TaskFilter{})
	require.NoError(t, err)
	_, err = f.service.GetFeed(ctx, 1, model.TaskFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.friends.calls)

	f.service.InvalidateViewers(ctx, 1)
	_, err = f.service.GetFeed(ctx, 1, model.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.friends.calls)
}

func TestViewer_InvalidatedDuringLoadIsNotCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Friendship with 3 lands while 1's context is being loaded.
	f.friends.onLoad = func(userID int64) {
		f.friends.onLoad = nil
		f.friends.friends[1] = append(f.friends.friends[1], 3)
		f.service.InvalidateViewers(ctx, userID)
	}

	v, err := f.service.Viewer(ctx, 1)
	require.NoError(t, err)
	assert.NotContains(t, v.FriendIDs, int64(3))
	assert.NotContains(t, f.cache.viewers, int64(1))

	v, err = f.service.Viewer(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, v.FriendIDs, int64(3))
	assert.Contains(t, f.cache.viewers, int64(1))
	assert.Equal(t, 2, f.friends.calls)
}

func TestGetFeed_OwnerFilterCannotWiden(t *testing.T) {
	f := newFixture()
	f.create(t, &model.TaskCreate{OwnerID: 4, Title: "stranger", OccursOn: date("2025-03-08"), Visibility: model.VisibilityFriendsAndGroups})

	feed, err := f.service.GetFeed(context.Background(), 1, model.TaskFilter{OwnerIDs: []int64{4}})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestGetTask_HiddenLooksMissing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	private := f.create(t, &model.TaskCreate{OwnerID: 2, Title: "private", OccursOn: date("2025-03-05"), Visibility: model.VisibilityJustMe})
	open := f.create(t, &model.TaskCreate{OwnerID: 4, Title: "open", OccursOn: date("2025-03-05"), Visibility: model.VisibilityFriendsAndGroups})

	_, err := f.service.GetTask(ctx, 1, private[0].ID)
	assert.ErrorIs(t, err, model.ErrNoRecord)

	_, err = f.service.GetTask(ctx, 1, open[0].ID)
	assert.ErrorIs(t, err, model.ErrNoRecord)

	got, err := f.service.GetTask(ctx, 2, private[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	_, err = f.service.GetTask(ctx, 1, 999)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestSetTaskCompletion_OwnerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tasks := f.create(t, &model.TaskCreate{OwnerID: 2, Title: "friend", OccursOn: date("2025-03-05"), Visibility: model.VisibilityFriends})

	_, err := f.service.SetTaskCompletion(ctx, 1, tasks[0].ID, true)
	assert.ErrorIs(t, err, model.ErrForbidden)

	got, err := f.service.SetTaskCompletion(ctx, 2, tasks[0].ID, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, f.tasks.tasks[tasks[0].ID].Completed)
}

func TestSetSeriesCompletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.create(t, &model.TaskCreate{OwnerID: 1, Title: "Almsgiving", OccursOn: date("2025-03-05"), Until: date("2025-03-19"),
		RepeatType: model.RepeatTypeEveryWeek, Visibility: model.VisibilityFriends})

	updated, err := f.service.SetSeriesCompletion(ctx, 1, "series-1", true)
	require.NoError(t, err)
	require.Len(t, updated, 3)
	assert.True(t, recurrence.IsGroupComplete(recurrence.Group{Tasks: updated}))

	group, err := f.service.GetSeries(ctx, 1, "series-1")
	require.NoError(t, err)
	assert.True(t, recurrence.IsGroupComplete(group))

	_, err = f.service.SetSeriesCompletion(ctx, 2, "series-1", false)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.service.SetSeriesCompletion(ctx, 1, "missing", false)
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestSetSeriesCompletion_ConflictRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.create(t, &model.TaskCreate{OwnerID: 1, Title: "Almsgiving", OccursOn: date("2025-03-05"), Until: date("2025-03-19"),
		RepeatType: model.RepeatTypeEveryWeek, Visibility: model.VisibilityFriends})
	f.tasks.seriesDrift = 1
	committed := f.db.committed

	_, err := f.service.SetSeriesCompletion(ctx, 1, "series-1", true)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, committed, f.db.committed)
}

func TestDeleteSeries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.create(t, &model.TaskCreate{OwnerID: 1, Title: "Vigil", OccursOn: date("2025-03-05"), Until: date("2025-03-06"),
		RepeatType: model.RepeatTypeEveryDay, Visibility: model.VisibilityFriends})

	assert.ErrorIs(t, f.service.DeleteSeries(ctx, 2, "series-1"), model.ErrForbidden)
	require.NoError(t, f.service.DeleteSeries(ctx, 1, "series-1"))
	assert.Empty(t, f.tasks.tasks)
}

func TestComments_RequireVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tasks := f.create(t, &model.TaskCreate{OwnerID: 2, Title: "friend", OccursOn: date("2025-03-05"), Visibility: model.VisibilityFriends})

	c, err := f.service.AddComment(ctx, 1, tasks[0].ID, "Praying for you")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.AuthorID)

	_, err = f.service.AddComment(ctx, 3, tasks[0].ID, "hi")
	assert.ErrorIs(t, err, model.ErrNoRecord)

	comments, err := f.service.GetComments(ctx, 2, tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Praying for you", comments[0].Body)
}

func TestUpdateTask_ClearsGroupsWhenAudienceChanges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tasks := f.create(t, &model.TaskCreate{OwnerID: 1, Title: "group", OccursOn: date("2025-03-05"),
		Visibility: model.VisibilityCertainGroups, AllowedGroupIDs: []int64{10}})

	updated, err := f.service.UpdateTask(ctx, 1, tasks[0].ID, &model.TaskUpdate{
		Title:           "friends now",
		OccursOn:        date("2025-03-06"),
		Visibility:      model.VisibilityFriends,
		AllowedGroupIDs: []int64{10},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AllowedGroupIDs)
	assert.Nil(t, f.tasks.tasks[tasks[0].ID].AllowedGroupIDs)
}
