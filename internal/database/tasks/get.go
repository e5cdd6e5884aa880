package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

func (r *Repository) GetTaskByID(ctx context.Context, q database.Queryable, id int64) (*model.Task, error) {
	tasks, err := r.getTasks(ctx, q, baseQuery.Where(sq.Eq{"t.id": id}))
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return nil, model.ErrNoRecord
	}

	return tasks[0], nil
}

func (r *Repository) GetSeries(ctx context.Context, q database.Queryable, recurrenceID string) ([]*model.Task, error) {
	qb := baseQuery.
		Where(sq.Eq{"t.recurrence_id": recurrenceID}).
		OrderBy("t.occurs_on", "t.id")

	return r.getTasks(ctx, q, qb)
}

// GetTasks returns tasks of filter.OwnerIDs occurring in [From, To), ordered by day.
func (r *Repository) GetTasks(ctx context.Context, q database.Queryable, filter model.TaskFilter) ([]*model.Task, error) {
	qb := baseQuery.
		OrderBy("t.occurs_on", "t.id")

	if !filter.From.IsZero() {
		qb = qb.Where(sq.GtOrEq{"t.occurs_on": filter.From})
	}

	if !filter.To.IsZero() {
		qb = qb.Where(sq.Lt{"t.occurs_on": filter.To})
	}

	if len(filter.OwnerIDs) != 0 {
		qb = qb.Where(sq.Eq{"t.owner_id": filter.OwnerIDs})
	}

	return r.getTasks(ctx, q, qb)
}

// GetLikedTaskIDs returns which of ids userID has liked.
func (*Repository) GetLikedTaskIDs(ctx context.Context, q database.Queryable, userID int64, ids []int64) (map[int64]struct{}, error) {
	res := make(map[int64]struct{})
	if len(ids) == 0 {
		return res, nil
	}

	qb := database.PSQL.
		Select("task_id").
		From(database.TaskLikesTable).
		Where(sq.Eq{"user_id": userID, "task_id": ids})

	var liked []int64
	if err := q.Select(ctx, &liked, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	for _, id := range liked {
		res[id] = struct{}{}
	}

	return res, nil
}

func (r *Repository) getTasks(ctx context.Context, q database.Queryable, qb sq.SelectBuilder) ([]*model.Task, error) {
	var dtos []*taskDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Task, len(dtos))
	for i, d := range dtos {
		res[i] = mapToTask(r.logger, d)
	}

	return res, nil
}
