package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
)

func (*Repository) DeleteTask(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.TasksTable).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) DeleteSeries(ctx context.Context, q database.Queryable, ownerID int64, recurrenceID string) (int64, error) {
	qb := database.PSQL.
		Delete(database.TasksTable).
		Where(sq.Eq{"recurrence_id": recurrenceID, "owner_id": ownerID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return tag.RowsAffected(), nil
}
