package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accountd/internal/api/http/handler"
	"github.com/dtroode/accountd/internal/api/http/middleware"
	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

// Router wires the account handlers onto a fiber application.
type Router struct {
	userService handler.UserService
	notifier    model.Notifier
	runner      model.TaskRunner
	backend     model.Pinger
	welcome     handler.Welcome
	logger      *logger.Logger
}

// New creates a new Router.
func New(
	userService handler.UserService,
	notifier model.Notifier,
	runner model.TaskRunner,
	backend model.Pinger,
	welcome handler.Welcome,
	logger *logger.Logger,
) *Router {
	return &Router{
		userService: userService,
		notifier:    notifier,
		runner:      runner,
		backend:     backend,
		welcome:     welcome,
		logger:      logger,
	}
}

// NewApp creates a fiber application that renders errors as {message, errors}.
func (r *Router) NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "accountd",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler(r.logger),
	})
}

// Register mounts middleware and routes on app.
func (r *Router) Register(app *fiber.App) {
	logging := middleware.NewLogging(r.logger)
	app.Use(logging.Handle)

	health := handler.NewHealth(r.backend)
	app.Get("/health", health.Live)
	app.Get("/ready", health.Ready)

	r.registerUserRoutes(app)
}

func (r *Router) registerUserRoutes(app *fiber.App) {
	users := handler.NewUser(r.userService, r.notifier, r.runner, r.welcome, r.logger)

	app.Post("/login", users.Login)

	app.Post("/users", users.Create)
	app.Get("/users/:id", users.Get)
	app.Put("/users/:id", users.Update)
	app.Post("/users/:id", users.Update)
	app.Delete("/users/:id", users.Delete)
}
