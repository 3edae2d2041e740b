package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

// UserService defines the account operations exposed over HTTP.
type UserService interface {
	GetByID(ctx context.Context, id string, sess model.Session) (*model.User, error)
	CreateForRequest(ctx context.Context, data map[string]any, sess model.Session) (*model.User, error)
	UpdateForRequest(ctx context.Context, id string, data map[string]any, sess model.Session) (*model.User, error)
	DeleteByID(ctx context.Context, id string, sess model.Session) error
	Login(ctx context.Context, email, password string) (*model.User, error)
}

// Welcome describes the message sent after an account is created.
type Welcome struct {
	Subject  string
	Template string
}

// User handles the /users and /login endpoints.
type User struct {
	userService UserService
	notifier    model.Notifier
	runner      model.TaskRunner
	welcome     Welcome
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(
	userService UserService,
	notifier model.Notifier,
	runner model.TaskRunner,
	welcome Welcome,
	logger *logger.Logger,
) *User {
	return &User{
		userService: userService,
		notifier:    notifier,
		runner:      runner,
		welcome:     welcome,
		logger:      logger,
	}
}

// Create registers a user and queues the welcome message.
func (h *User) Create(c *fiber.Ctx) error {
	const failure = "Unable to create user."
	ctx := c.UserContext()

	data, err := decodeObject(c)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}

	user, err := h.userService.CreateForRequest(ctx, data, nil)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}

	h.sendWelcome(ctx, user)

	h.logger.InfoContext(ctx, "User handler: user created", "id", user.ID.String())
	return c.Status(fiber.StatusCreated).JSON(user.View())
}

func (h *User) sendWelcome(ctx context.Context, user *model.User) {
	msg := model.Message{
		To:       user.Email,
		Subject:  h.welcome.Subject,
		Template: h.welcome.Template,
		Context:  map[string]any{"user": user.View()},
	}

	h.runner.Go(ctx, "welcome-email", func(ctx context.Context) error {
		return h.notifier.Send(ctx, msg)
	})
}

// Get returns one user.
func (h *User) Get(c *fiber.Ctx) error {
	const failure = "Unable to fetch user"
	id := c.Params("id")

	user, err := h.userService.GetByID(c.UserContext(), id, nil)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}
	if user == nil {
		return respondError(c, h.logger, apiErrors.NewErrNotFound("Could not find user by id "+id), failure)
	}

	return c.JSON(user.View())
}

// Update applies the request body to an existing user.
func (h *User) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	failure := "Unable to update user with id " + id

	data, err := decodeObject(c)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}

	user, err := h.userService.UpdateForRequest(c.UserContext(), id, data, nil)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}

	return c.JSON(user.View())
}

// Delete removes a user.
func (h *User) Delete(c *fiber.Ctx) error {
	const failure = "Unable to delete user"

	if err := h.userService.DeleteByID(c.UserContext(), c.Params("id"), nil); err != nil {
		return respondError(c, h.logger, err, failure)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies an email and password pair.
func (h *User) Login(c *fiber.Ctx) error {
	const failure = "Unable to login"

	var req loginRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return respondError(c, h.logger, errNotObject, failure)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return respondError(c, h.logger, apiErrors.NewErrInvalidArgument("Expecting email and password to be set."), failure)
	}

	user, err := h.userService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err, failure)
	}

	return c.JSON(user.View())
}

var errNotObject = apiErrors.NewErrInvalidArgument("Expecting the request body to be a JSON object.")

// decodeObject reads the body as a JSON object.
func decodeObject(c *fiber.Ctx) (map[string]any, error) {
	var data map[string]any
	if err := c.App().Config().JSONDecoder(c.Body(), &data); err != nil || data == nil {
		return nil, errNotObject
	}
	return data, nil
}
