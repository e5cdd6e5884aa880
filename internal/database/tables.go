package database

import sq "github.com/Masterminds/squirrel"

// PSQL builds queries with postgres placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	UsersTable       = "users"
	GroupsTable      = "groups"
	UserGroupTable   = "user_group"
	FriendshipsTable = "friendships"
	TasksTable       = "tasks"
	TaskLikesTable   = "task_likes"
	CommentsTable    = "task_comments"
)
