package api

import (
	"context"
	"net/http"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/business/social"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
	"github.com/gerow/go-color"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger

	jwts jwtManager

	db     database.PGX
	users  userRepository
	tasks  tasksService
	social socialService

	opts Options
}

type Options struct {
	// FeedWindow is the feed span used when the request has no "to".
	FeedWindow       time.Duration
	MaxCommentLength int
	// OpenSignup lets anyone register by email and get a token. Development only.
	OpenSignup bool
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIdFromToken(token string) (int64, error)
}

type userRepository interface {
	CreateUser(ctx context.Context, q database.Queryable, user *model.UserCreate) (int64, error)
	GetUserByEmail(ctx context.Context, q database.Queryable, email string) (*model.User, error)
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
	GetUsersByIDs(ctx context.Context, q database.Queryable, ids []int64) ([]*model.User, error)
	SearchUsers(ctx context.Context, q database.Queryable, filter model.UserSearchFilter) ([]*model.User, error)
}

type tasksService interface {
	CreateTask(ctx context.Context, info *model.TaskCreate) ([]*model.Task, error)
	GetFeed(ctx context.Context, userID int64, filter model.TaskFilter) ([]recurrence.Group, error)
	GetTask(ctx context.Context, userID, id int64) (*model.Task, error)
	GetSeries(ctx context.Context, userID int64, recurrenceID string) (recurrence.Group, error)
	UpdateTask(ctx context.Context, userID, id int64, info *model.TaskUpdate) (*model.Task, error)
	SetTaskCompletion(ctx context.Context, userID, id int64, completed bool) (*model.Task, error)
	SetSeriesCompletion(ctx context.Context, userID int64, recurrenceID string, completed bool) ([]*model.Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error
	DeleteSeries(ctx context.Context, userID int64, recurrenceID string) error
	LikeTask(ctx context.Context, userID, taskID int64) error
	UnlikeTask(ctx context.Context, userID, taskID int64) error
	AddComment(ctx context.Context, userID, taskID int64, body string) (*model.Comment, error)
	GetComments(ctx context.Context, userID, taskID int64) ([]*model.Comment, error)
	Viewer(ctx context.Context, userID int64) (*model.Viewer, error)
}

type socialService interface {
	Befriend(ctx context.Context, userID, otherID int64) (model.FriendshipStatus, error)
	Unfriend(ctx context.Context, userID, otherID int64) error
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	CreateGroup(ctx context.Context, info *model.GroupCreate, usersIDs []int64, groupColor color.RGB) (int64, error)
	GetUserGroups(ctx context.Context, userID int64) ([]social.UserGroup, error)
	JoinGroup(ctx context.Context, userID, groupID int64, groupColor color.RGB) error
	LeaveGroup(ctx context.Context, userID, groupID int64) error
	UpdateGroup(ctx context.Context, userID, groupID int64, name, description string) error
	SetGroupColor(ctx context.Context, userID, groupID int64, groupColor color.RGB) error
}

func NewApi(
	logger *zap.SugaredLogger,
	jwts jwtManager,
	db database.PGX,
	users userRepository,
	tasks tasksService,
	social socialService,
	opts Options,
) (*Api, error) {
	a := &Api{
		logger: logger,
		jwts:   jwts,
		db:     db,
		users:  users,
		tasks:  tasks,
		social: social,
		opts:   opts,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if a.opts.OpenSignup {
		r.Post("/signup", a.signupHandler)
	}

	r.With(a.auth).Route("/", func(r chi.Router) {
		r.With(a.userCtx).Get("/user", a.getUserHandler)
		r.Get("/users", a.searchUsersHandler)

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", a.getFriendsHandler)
			r.Post("/{userID}", a.befriendHandler)
			r.Delete("/{userID}", a.unfriendHandler)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", a.getUserGroupsHandler)
			r.Post("/", a.createGroupHandler)
			r.Put("/{groupID}", a.updateGroupHandler)
			r.Put("/{groupID}/settings", a.setGroupColorHandler)
			r.Post("/{groupID}/members", a.joinGroupHandler)
			r.Delete("/{groupID}/members", a.leaveGroupHandler)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.getFeedHandler)
			r.Post("/", a.createTaskHandler)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Use(a.taskIDCtx)
				r.Get("/", a.getTaskHandler)
				r.Put("/", a.updateTaskHandler)
				r.Delete("/", a.deleteTaskHandler)
				r.Put("/completion", a.setTaskCompletionHandler)
				r.Post("/likes", a.likeTaskHandler)
				r.Delete("/likes", a.unlikeTaskHandler)
				r.Get("/comments", a.getCommentsHandler)
				r.Post("/comments", a.addCommentHandler)
			})
		})

		r.Route("/series/{recurrenceID}", func(r chi.Router) {
			r.Get("/", a.getSeriesHandler)
			r.Put("/completion", a.setSeriesCompletionHandler)
			r.Delete("/", a.deleteSeriesHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
