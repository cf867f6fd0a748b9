// Command server runs the Q&A board HTTP API.
//
//	@title						Q&A Board API
//	@version					1.0
//	@description				Questions, answers, comments, votes and notifications for a developer community.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				"Bearer <token>"; the token cookie set by login is accepted too.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/devforum/qa-board/docs"
	"github.com/devforum/qa-board/internal/api"
	"github.com/devforum/qa-board/internal/api/handler"
	"github.com/devforum/qa-board/internal/core/service"
	mongostore "github.com/devforum/qa-board/internal/infrastructure/db/mongo"
	redisstore "github.com/devforum/qa-board/internal/infrastructure/db/redis"
	"github.com/devforum/qa-board/internal/infrastructure/queue"
	"github.com/devforum/qa-board/internal/pkg/config"
	"github.com/devforum/qa-board/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "qa-board",
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	questions := mongostore.NewQuestionRepository(db)
	answers := mongostore.NewAnswerRepository(db)
	notifications := mongostore.NewNotificationRepository(db)

	if err := mongostore.EnsureIndexes(ctx, users, questions, answers, notifications); err != nil {
		log.Fatal().Err(err).Msg("create indexes")
	}

	// --- Services ---
	authService := service.NewAuthService(users, redisstore.NewSessionStore(rdb), service.AuthOptions{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		AdminEmails: cfg.AdminEmails,
	}, logger.Component("auth"))

	notificationService := service.NewNotificationService(notifications, users, logger.Component("notifications"))

	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, cfg.Notify.QueueSize, notificationService, logger.Component("dispatcher"))
	dispatcher.Start(context.Background())

	questionService := service.NewQuestionService(questions, answers, users,
		redisstore.NewViewCounter(rdb, cfg.Redis.ViewWindow), logger.Component("questions"))
	answerService := service.NewAnswerService(answers, questions, users, dispatcher, logger.Component("answers"))

	// --- HTTP ---
	e := api.NewRouter(api.Options{
		Auth:          authService,
		Questions:     questionService,
		Answers:       answerService,
		Notifications: notificationService,
		Logger:        logger.Component("http"),
		CORSOrigins:   cfg.CORSOrigins,
		CookieSecure:  cfg.CookieSecure || cfg.IsProduction(),
		HealthChecks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// Requests are drained, so no new jobs arrive; flush what is queued.
	if err := dispatcher.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("notification dispatcher shutdown")
	}
	log.Info().Msg("server stopped")
}
