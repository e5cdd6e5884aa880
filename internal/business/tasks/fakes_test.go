package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var errUnexpectedQuery = errors.New("fake db does not run queries")

type fakeDB struct {
	begun, committed, rolledBack int
}

func (d *fakeDB) Exec(context.Context, database.Sqlizer) (pgconn.CommandTag, error) {
	return nil, errUnexpectedQuery
}

func (d *fakeDB) Get(context.Context, interface{}, database.Sqlizer) error {
	return errUnexpectedQuery
}

func (d *fakeDB) Select(context.Context, interface{}, database.Sqlizer) error {
	return errUnexpectedQuery
}

func (d *fakeDB) ExecRaw(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, errUnexpectedQuery
}

func (d *fakeDB) GetPool(context.Context) *pgxpool.Pool {
	return nil
}

func (d *fakeDB) BeginTx(context.Context, *pgx.TxOptions) (database.Tx, error) {
	d.begun++
	return &fakeTx{fakeDB: d}, nil
}

type fakeTx struct {
	*fakeDB
	done bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.done = true
	t.committed++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.rolledBack++
	return nil
}

type fakeTasks struct {
	mu       sync.Mutex
	nextID   int64
	tasks    map[int64]*model.Task
	likes    map[int64]map[int64]struct{}
	comments []*model.Comment

	// seriesDrift makes SetSeriesCompletion report that many fewer rows.
	seriesDrift int64
	failWrites  error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{
		tasks: make(map[int64]*model.Task),
		likes: make(map[int64]map[int64]struct{}),
	}
}

func (f *fakeTasks) CreateTasks(_ context.Context, _ database.Queryable, tasks []*model.Task) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites != nil {
		return nil, f.failWrites
	}

	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		f.nextID++
		c := t.Clone()
		c.ID = f.nextID
		f.tasks[c.ID] = c
		ids[i] = c.ID
	}
	return ids, nil
}

func (f *fakeTasks) GetTaskByID(_ context.Context, _ database.Queryable, id int64) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return t.Clone(), nil
}

func (f *fakeTasks) sorted(match func(*model.Task) bool) []*model.Task {
	var res []*model.Task
	for _, t := range f.tasks {
		if match(t) {
			res = append(res, t.Clone())
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].OccursOn.Equal(res[j].OccursOn) {
			return res[i].OccursOn.Before(res[j].OccursOn)
		}
		return res[i].ID < res[j].ID
	})
	return res
}

func (f *fakeTasks) GetSeries(_ context.Context, _ database.Queryable, recurrenceID string) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sorted(func(t *model.Task) bool {
		return t.RecurrenceID != nil && *t.RecurrenceID == recurrenceID
	}), nil
}

func (f *fakeTasks) GetTasks(_ context.Context, _ database.Queryable, filter model.TaskFilter) ([]*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owners := make(map[int64]struct{}, len(filter.OwnerIDs))
	for _, id := range filter.OwnerIDs {
		owners[id] = struct{}{}
	}

	return f.sorted(func(t *model.Task) bool {
		if len(owners) != 0 {
			if _, ok := owners[t.OwnerID]; !ok {
				return false
			}
		}
		if !filter.From.IsZero() && t.OccursOn.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && !t.OccursOn.Before(filter.To) {
			return false
		}
		return true
	}), nil
}

func (f *fakeTasks) GetLikedTaskIDs(_ context.Context, _ database.Queryable, userID int64, ids []int64) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := f.likes[id][userID]; ok {
			res[id] = struct{}{}
		}
	}
	return res, nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, _ database.Queryable, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites != nil {
		return f.failWrites
	}
	f.tasks[task.ID] = task.Clone()
	return nil
}

func (f *fakeTasks) SetTaskCompletion(_ context.Context, _ database.Queryable, id int64, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites != nil {
		return f.failWrites
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.ErrNoRecord
	}
	t.Completed = completed
	return nil
}

func (f *fakeTasks) SetSeriesCompletion(_ context.Context, _ database.Queryable, ownerID int64, recurrenceID string, completed bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites != nil {
		return 0, f.failWrites
	}

	var n int64
	for _, t := range f.tasks {
		if t.OwnerID == ownerID && t.RecurrenceID != nil && *t.RecurrenceID == recurrenceID {
			t.Completed = completed
			n++
		}
	}
	return n - f.seriesDrift, nil
}

func (f *fakeTasks) DeleteTask(_ context.Context, _ database.Queryable, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.tasks, id)
	return nil
}

func (f *fakeTasks) DeleteSeries(_ context.Context, _ database.Queryable, ownerID int64, recurrenceID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, t := range f.tasks {
		if t.OwnerID == ownerID && t.RecurrenceID != nil && *t.RecurrenceID == recurrenceID {
			delete(f.tasks, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeTasks) AddLike(_ context.Context, _ database.Queryable, taskID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.likes[taskID] == nil {
		f.likes[taskID] = make(map[int64]struct{})
	}
	f.likes[taskID][userID] = struct{}{}
	return nil
}

func (f *fakeTasks) RemoveLike(_ context.Context, _ database.Queryable, taskID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.likes[taskID], userID)
	return nil
}

func (f *fakeTasks) CreateComment(_ context.Context, _ database.Queryable, c *model.Comment) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *c
	stored.ID = int64(len(f.comments) + 1)
	f.comments = append(f.comments, &stored)
	return &stored, nil
}

func (f *fakeTasks) GetComments(_ context.Context, _ database.Queryable, taskID int64) ([]*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []*model.Comment
	for _, c := range f.comments {
		if c.TaskID == taskID {
			res = append(res, c)
		}
	}
	return res, nil
}

type fakeGroups struct {
	members map[int64][]int64
}

func (f *fakeGroups) GetUserGroupIDs(_ context.Context, _ database.Queryable, userID int64) ([]int64, error) {
	var res []int64
	for g, users := range f.members {
		for _, u := range users {
			if u == userID {
				res = append(res, g)
			}
		}
	}
	return res, nil
}

func (f *fakeGroups) GetMemberIDs(_ context.Context, _ database.Queryable, groupIDs []int64) ([]int64, error) {
	var res []int64
	for _, g := range groupIDs {
		res = append(res, f.members[g]...)
	}
	return res, nil
}

type fakeFriends struct {
	friends map[int64][]int64
	calls   int
	onLoad  func(userID int64)
}

func (f *fakeFriends) GetFriendIDs(_ context.Context, _ database.Queryable, userID int64) ([]int64, error) {
	f.calls++
	res := f.friends[userID]
	if f.onLoad != nil {
		f.onLoad(userID)
	}
	return res, nil
}

type fakeCache struct {
	viewers     map[int64]*model.Viewer
	gens        map[int64]int64
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{viewers: make(map[int64]*model.Viewer), gens: make(map[int64]int64)}
}

func (c *fakeCache) Generation(_ context.Context, id int64) (int64, error) {
	return c.gens[id], nil
}

func (c *fakeCache) Get(_ context.Context, id int64) (*model.Viewer, error) {
	v, ok := c.viewers[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, v *model.Viewer, gen int64) error {
	if c.gens[v.ID] != gen {
		return nil
	}
	c.viewers[v.ID] = v
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...int64) error {
	for _, id := range ids {
		c.gens[id]++
		delete(c.viewers, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}
