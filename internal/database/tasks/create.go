package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

// CreateTasks inserts every task in one statement and returns ids in input order.
func (*Repository) CreateTasks(ctx context.Context, q database.Queryable, tasks []*model.Task) ([]int64, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	qb := database.PSQL.
		Insert(database.TasksTable).
		Columns(
			"owner_id",
			"title",
			"description",
			"occurs_on",
			"visibility",
			"allowed_group_ids",
			"recurrence_id",
			"completed",
		).
		Suffix("returning id")

	for _, t := range tasks {
		groups, err := encodeGroupIDs(t.AllowedGroupIDs)
		if err != nil {
			return nil, fmt.Errorf("encode groups: %w", err)
		}

		qb = qb.Values(
			t.OwnerID,
			t.Title,
			t.Description,
			t.OccursOn,
			string(t.Visibility),
			groups,
			t.RecurrenceID,
			t.Completed,
		)
	}

	var ids []int64
	if err := q.Select(ctx, &ids, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	if len(ids) != len(tasks) {
		return nil, fmt.Errorf("inserted %d tasks, expected %d", len(ids), len(tasks))
	}

	return ids, nil
}
