package user

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

func (r *Repository) GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error) {
	return r.getOne(ctx, q, sq.Eq{"lower(email)": strings.ToLower(email)})
}

func (r *Repository) GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error) {
	return r.getOne(ctx, q, sq.Eq{"id": id})
}

// GetUsersByIDs returns the users sorted by name. Unknown ids are skipped.
func (*Repository) GetUsersByIDs(ctx context.Context, q database.Queryable, ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	return selectUsers(ctx, q, baseQuery.Where(sq.Eq{"id": ids}).OrderBy("full_name", "id"))
}

func (*Repository) getOne(ctx context.Context, q database.Queryable, predicate sq.Sqlizer) (*model.User, error) {
	users, err := selectUsers(ctx, q, baseQuery.Where(predicate).Limit(1))
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, model.ErrNoRecord
	}

	return users[0], nil
}

func selectUsers(ctx context.Context, q database.Queryable, qb sq.SelectBuilder) ([]*model.User, error) {
	var dtos []*userDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.User, len(dtos))
	for i, d := range dtos {
		res[i] = mapToUser(d)
	}

	return res, nil
}
