package tasks

import (
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"go.uber.org/zap"
)

type Repository struct {
	logger *zap.SugaredLogger
}

func NewRepository(logger *zap.SugaredLogger) *Repository {
	return &Repository{logger: logger}
}

var baseQuery = database.PSQL.
	Select(
		"t.id",
		"t.owner_id",
		"t.title",
		"t.description",
		"t.occurs_on",
		"t.visibility",
		"t.allowed_group_ids",
		"t.recurrence_id",
		"t.completed",
		"t.created_at",
		"(select count(*) from "+database.TaskLikesTable+" l where l.task_id = t.id) likes_count",
		"(select count(*) from "+database.CommentsTable+" c where c.task_id = t.id) comments_count",
	).
	From(database.TasksTable + " t")
