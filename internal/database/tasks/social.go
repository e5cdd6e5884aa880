package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

func (*Repository) AddLike(ctx context.Context, q database.Queryable, taskID, userID int64) error {
	qb := database.PSQL.
		Insert(database.TaskLikesTable).
		Columns("task_id", "user_id").
		Values(taskID, userID).
		Suffix("on conflict do nothing")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) RemoveLike(ctx context.Context, q database.Queryable, taskID, userID int64) error {
	qb := database.PSQL.
		Delete(database.TaskLikesTable).
		Where(sq.Eq{"task_id": taskID, "user_id": userID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) CreateComment(ctx context.Context, q database.Queryable, c *model.Comment) (*model.Comment, error) {
	qb := database.PSQL.
		Insert(database.CommentsTable).
		Columns("task_id", "author_id", "body").
		Values(c.TaskID, c.AuthorID, c.Body).
		Suffix("returning id, task_id, author_id, body, created_at")

	dto := &commentDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToComment(dto), nil
}

func (*Repository) GetComments(ctx context.Context, q database.Queryable, taskID int64) ([]*model.Comment, error) {
	qb := database.PSQL.
		Select("id", "task_id", "author_id", "body", "created_at").
		From(database.CommentsTable).
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at", "id")

	var dtos []*commentDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Comment, len(dtos))
	for i, d := range dtos {
		res[i] = mapToComment(d)
	}

	return res, nil
}
