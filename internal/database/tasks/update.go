package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

func (*Repository) UpdateTask(ctx context.Context, q database.Queryable, task *model.Task) error {
	groups, err := encodeGroupIDs(task.AllowedGroupIDs)
	if err != nil {
		return fmt.Errorf("encode groups: %w", err)
	}

	qb := database.PSQL.
		Update(database.TasksTable).
		SetMap(map[string]interface{}{
			"title":             task.Title,
			"description":       task.Description,
			"occurs_on":         task.OccursOn,
			"visibility":        string(task.Visibility),
			"allowed_group_ids": groups,
			"completed":         task.Completed,
		}).
		Where(sq.Eq{"id": task.ID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) SetTaskCompletion(ctx context.Context, q database.Queryable, id int64, completed bool) error {
	qb := database.PSQL.
		Update(database.TasksTable).
		Set("completed", completed).
		Where(sq.Eq{"id": id})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

// SetSeriesCompletion updates every instance of a series owned by ownerID in
// one statement and returns the number of rows touched.
func (*Repository) SetSeriesCompletion(ctx context.Context, q database.Queryable, ownerID int64, recurrenceID string, completed bool) (int64, error) {
	qb := database.PSQL.
		Update(database.TasksTable).
		Set("completed", completed).
		Where(sq.Eq{"recurrence_id": recurrenceID, "owner_id": ownerID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return tag.RowsAffected(), nil
}
