package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

// CreateUser returns model.ErrAlreadyExists when the email is taken.
func (*Repository) CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.UsersTable).
		Columns("full_name", "email", "phone_number", "photo").
		Values(user.FullName, strings.ToLower(user.Email), user.PhoneNumber, user.Photo).
		Suffix("on conflict (email) do nothing returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
