package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
	"go.uber.org/zap"
)

// WriteError reports a remote write that failed after its local patch was
// reverted. The tracker stays usable.
type WriteError struct {
	Op       string
	Reverted []int64
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s failed, reverted %d task(s): %v", e.Op, len(e.Reverted), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type remote interface {
	GetFeed(ctx context.Context, filter model.TaskFilter) ([]recurrence.Group, error)
	SetTaskCompletion(ctx context.Context, id int64, completed bool) (*model.Task, error)
	SetSeriesCompletion(ctx context.Context, recurrenceID string, completed bool) ([]*model.Task, error)
}

// Tracker holds the feed of one session and applies completion changes
// optimistically.
type Tracker struct {
	remote remote
	logger *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	lastGen uint64
}

func New(remote remote, logger *zap.SugaredLogger) *Tracker {
	return &Tracker{remote: remote, logger: logger}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func (t *Tracker) dispatch(a Action) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = Reduce(t.state, a)
	return t.state
}

// Load fetches the feed. When loads overlap, the one started last wins
// regardless of which answer arrives first.
func (t *Tracker) Load(ctx context.Context, filter model.TaskFilter) (State, error) {
	t.mu.Lock()
	t.lastGen++
	gen := t.lastGen
	t.mu.Unlock()

	groups, err := t.remote.GetFeed(ctx, filter)
	if err != nil {
		return t.State(), fmt.Errorf("load feed: %w", err)
	}

	return t.dispatch(Loaded{Generation: gen, Groups: groups}), nil
}

// SetTaskCompletion toggles one task.
func (t *Tracker) SetTaskCompletion(ctx context.Context, id int64, completed bool) (State, error) {
	patch := CompletionPatched{Completed: map[int64]bool{id: completed}}

	return t.write(ctx, "set task completion", patch, func() ([]*model.Task, error) {
		task, err := t.remote.SetTaskCompletion(ctx, id, completed)
		if err != nil {
			return nil, err
		}
		return []*model.Task{task}, nil
	})
}

// SetSeriesCompletion toggles every loaded instance of a series. On failure
// no instance is left toggled.
func (t *Tracker) SetSeriesCompletion(ctx context.Context, recurrenceID string, completed bool) (State, error) {
	group, ok := t.State().Series(recurrenceID)
	if !ok {
		return t.State(), fmt.Errorf("series %s: %w", recurrenceID, model.ErrNoRecord)
	}

	patch := CompletionPatched{Completed: make(map[int64]bool, len(group.Tasks))}
	for _, task := range group.Tasks {
		patch.Completed[task.ID] = completed
	}

	return t.write(ctx, "set series completion", patch, func() ([]*model.Task, error) {
		return t.remote.SetSeriesCompletion(ctx, recurrenceID, completed)
	})
}

// write applies patch locally, runs the remote call and either reconciles
// with what the server stored or applies the inverse patch.
func (t *Tracker) write(ctx context.Context, op string, patch CompletionPatched, call func() ([]*model.Task, error)) (State, error) {
	t.mu.Lock()
	undo := patch.inverse(t.state)
	t.state = Reduce(t.state, patch)
	t.mu.Unlock()

	stored, err := call()
	if err != nil {
		state := t.dispatch(undo)

		reverted := make([]int64, 0, len(undo.Completed))
		for id := range undo.Completed {
			reverted = append(reverted, id)
		}
		t.logger.Warnw("remote write failed, local change reverted", "op", op, "tasks", len(reverted), "err", err)

		return state, &WriteError{Op: op, Reverted: reverted, Err: err}
	}

	confirmed := CompletionPatched{Completed: make(map[int64]bool, len(stored))}
	for _, task := range stored {
		confirmed.Completed[task.ID] = task.Completed
	}

	return t.dispatch(confirmed), nil
}
