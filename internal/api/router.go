package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/devforum/qa-board/internal/api/handler"
	"github.com/devforum/qa-board/internal/api/middleware"
	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// Options carries everything the router wires into handlers.
type Options struct {
	Auth          ports.AuthService
	Questions     ports.QuestionService
	Answers       ports.AnswerService
	Notifications ports.NotificationService

	Logger       zerolog.Logger
	CORSOrigins  []string
	CookieSecure bool

	// HealthChecks backs GET /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.Check

	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders:    []string{handler.HeaderTotalCount},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "http",
		Registerer:                opts.Registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Infrastructure routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(opts.Auth, opts.CookieSecure)
	questionHandler := handler.NewQuestionHandler(opts.Questions)
	answerHandler := handler.NewAnswerHandler(opts.Answers)
	notificationHandler := handler.NewNotificationHandler(opts.Notifications)

	auth := middleware.Auth(opts.Auth)
	optionalAuth := middleware.OptionalAuth(opts.Auth)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout, auth)
	api.GET("/auth/profile", authHandler.Profile, auth)

	// --- Questions ---
	api.GET("/questions", questionHandler.List)
	api.GET("/questions/:id", questionHandler.Get, optionalAuth)
	api.POST("/questions", questionHandler.Create, auth)
	api.PATCH("/questions/:id", questionHandler.Update, auth)
	api.DELETE("/questions/:id", questionHandler.Delete, auth)

	// --- Answers, comments, votes, acceptance ---
	api.POST("/answers", answerHandler.Create, auth)
	api.GET("/answers/single/:id", answerHandler.Get)
	api.GET("/answers/:questionId", answerHandler.ListByQuestion)
	api.PATCH("/answers/:id", answerHandler.Update, auth)
	api.DELETE("/answers/:id", answerHandler.Delete, auth)
	api.POST("/answers/:id/comments", answerHandler.AddComment, auth)
	api.DELETE("/answers/:answerId/comments/:commentId", answerHandler.DeleteComment, auth)
	api.PATCH("/answers/:id/vote", answerHandler.Vote, auth)
	api.PATCH("/answers/:id/accept", answerHandler.Accept, auth)

	// --- Notifications (caller's own) ---
	notifications := api.Group("/notifications", auth)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)

	// --- Admin ---
	admin := api.Group("/admin", auth, middleware.RBAC(domain.RoleAdmin))
	admin.PATCH("/users/:id/role", authHandler.SetRole)

	return e
}
