package user

import (
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"full_name",
		"email",
		"phone_number",
		"photo",
	).
	From(database.UsersTable)
