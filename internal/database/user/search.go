package user

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

const searchDocument = "full_name || ' ' || email || ' ' || phone_number"

// SearchUsers matches every word of the query in order, best trigram match first.
func (*Repository) SearchUsers(ctx context.Context, q database.Queryable, filter model.UserSearchFilter) ([]*model.User, error) {
	words := strings.Fields(filter.Query)
	if len(words) == 0 {
		return []*model.User{}, nil
	}
	pattern := "%" + strings.Join(words, "%") + "%"

	qb := baseQuery.
		Where(sq.ILike{searchDocument: pattern}).
		OrderByClause(searchDocument+" <-> ?", strings.Join(words, " ")).
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	if len(filter.ExcludeIDs) != 0 {
		qb = qb.Where(sq.NotEq{"id": filter.ExcludeIDs})
	}

	users, err := selectUsers(ctx, q, qb)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", filter.Query, err)
	}

	return users, nil
}
