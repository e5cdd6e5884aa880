package main

import (
	"context"
	"log"
	"net/http"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/api"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/business/social"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/business/tasks"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/config"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database/friends"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database/group"
	tasks_repository "github.com/SergeyKozhin/lent-tracker-backend/internal/database/tasks"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database/user"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/jwt"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/redis"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initializae logger: %v", err)
	}

	jwts := jwt.NewManager(config.Secret(), config.JwtTTL())

	redisPool := redis.NewRedisPool(logger, config.RedisURL())
	viewerCache := redis.NewViewerCache(redisPool, config.ViewerCacheTTL())

	db, err := database.NewPGX(ctx, config.PostgresURL())
	if err != nil {
		log.Fatalf("unable to initializae db: %v", err)
	}
	usersRepository := user.NewRepository()
	groupsRepository := group.NewRepository()
	friendsRepository := friends.NewRepository()
	tasksRepository := tasks_repository.NewRepository(logger)

	tasksService := tasks.NewService(db, logger, tasksRepository, groupsRepository, friendsRepository, viewerCache)
	socialService := social.NewService(db, friendsRepository, groupsRepository, tasksService)

	api, err := api.NewApi(
		logger,
		jwts,
		db,
		usersRepository,
		tasksService,
		socialService,
		api.Options{
			FeedWindow:       config.FeedWindow(),
			MaxCommentLength: config.MaxCommentLength(),
			OpenSignup:       config.OpenSignup(),
		},
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
