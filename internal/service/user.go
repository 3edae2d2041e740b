package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
	"github.com/dtroode/accountd/internal/session"
)

// ErrInvalidCredentials is returned by Login for an unknown email and for a
// wrong password alike.
var ErrInvalidCredentials = apiErrors.NewErrAccessDenied("email or password invalid")

// Fields a request may never set.
var serverOwnedFields = []string{"createdAt", "updatedAt", "version"}

// dummySalt keeps Login hashing when the email is unknown.
var dummySalt = strings.Repeat("0", 32)

type User struct {
	sessions     *session.Provider
	hasher       model.PasswordHasher
	validator    model.Validator
	deserializer model.Deserializer
	logger       *logger.Logger
}

func NewUser(
	sessions *session.Provider,
	hasher model.PasswordHasher,
	validator model.Validator,
	deserializer model.Deserializer,
	logger *logger.Logger,
) *User {
	return &User{
		sessions:     sessions,
		hasher:       hasher,
		validator:    validator,
		deserializer: deserializer,
		logger:       logger,
	}
}

// ensure leases sess, or a new session when sess is nil or of another type.
func (s *User) ensure(ctx context.Context, sess model.Session) (session.Lease, error) {
	lease, err := s.sessions.Ensure(ctx, sess)
	if err != nil {
		return session.Lease{}, fmt.Errorf("failed to acquire session: %w", err)
	}
	return lease, nil
}

func (s *User) release(ctx context.Context, lease session.Lease) {
	if err := lease.Release(); err != nil {
		s.logger.WarnContext(ctx, "User service: failed to release session", "error", err.Error())
	}
}

// GetByID returns the user with the given id, or nil if there is none. A
// malformed id is NotFound.
func (s *User) GetByID(ctx context.Context, id string, sess model.Session) (*model.User, error) {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	repo := lease.Session.Users()
	if !repo.ValidateIDField(id) {
		return nil, apiErrors.NewErrNotFound("Could not find user by id " + id)
	}

	user, err := repo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", id, err)
	}
	return user, nil
}

// GetByCriteria returns the users matching criteria, possibly none.
func (s *User) GetByCriteria(ctx context.Context, criteria model.Criteria, sess model.Session) ([]*model.User, error) {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	users, err := lease.Session.Users().FindBy(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}

// PrepareForRequest copies data into user, ignoring server-owned fields, and
// validates the result. data is not modified.
func (s *User) PrepareForRequest(user *model.User, data map[string]any) error {
	clean := make(map[string]any, len(data))
	for k, v := range data {
		clean[k] = v
	}
	for _, f := range serverOwnedFields {
		delete(clean, f)
	}

	if err := s.deserializer.Deserialize(user, clean); err != nil {
		return err
	}

	if errs := s.validator.Validate(user); len(errs) > 0 {
		return apiErrors.NewErrValidation(errs, "Invalid User Data Provided")
	}
	return nil
}

// CreateForRequest builds a user from request data and creates it.
func (s *User) CreateForRequest(ctx context.Context, data map[string]any, sess model.Session) (*model.User, error) {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	user := model.NewUser()
	if err := s.PrepareForRequest(user, data); err != nil {
		return nil, err
	}

	return s.Create(ctx, user, lease.Session)
}

// Create hashes the user's plaintext password and inserts the user unless
// its email is taken. Validation is the caller's job.
func (s *User) Create(ctx context.Context, user *model.User, sess model.Session) (*model.User, error) {
	if err := s.encryptPassword(user, user.Password); err != nil {
		return nil, err
	}

	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	existing, err := s.GetByCriteria(ctx, model.Criteria{"email": user.Email}, lease.Session)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		s.logger.DebugContext(ctx, "User service: email already taken", "email", user.Email)
		return nil, duplicateEmail(user.Email)
	}

	lease.Session.Persist(user)
	if err := lease.Session.Flush(ctx); err != nil {
		return nil, storageError(err, user)
	}

	s.logger.DebugContext(ctx, "User service: user created", "id", user.ID.String())
	return user, nil
}

// UpdateForRequest applies request data to an existing user and saves it. A
// changed password is re-hashed with a fresh salt.
func (s *User) UpdateForRequest(ctx context.Context, id string, data map[string]any, sess model.Session) (*model.User, error) {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	user, err := s.GetByID(ctx, id, lease.Session)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apiErrors.NewErrNotFound("Could not find user by id, " + id)
	}

	storedHash := user.Password
	if err := s.PrepareForRequest(user, data); err != nil {
		return nil, err
	}
	if user.Password != storedHash {
		if err := s.encryptPassword(user, user.Password); err != nil {
			return nil, err
		}
	}

	return s.Update(ctx, user, lease.Session)
}

// Update saves user as is. Email uniqueness is left to the storage layer.
func (s *User) Update(ctx context.Context, user *model.User, sess model.Session) (*model.User, error) {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	lease.Session.Persist(user)
	if err := lease.Session.Flush(ctx); err != nil {
		return nil, storageError(err, user)
	}

	s.logger.DebugContext(ctx, "User service: user updated", "id", user.ID.String(), "version", user.Version)
	return user, nil
}

// DeleteByID removes the user with the given id.
func (s *User) DeleteByID(ctx context.Context, id string, sess model.Session) error {
	lease, err := s.ensure(ctx, sess)
	if err != nil {
		return err
	}
	defer s.release(ctx, lease)

	user, err := s.GetByID(ctx, id, lease.Session)
	if err != nil {
		return err
	}
	if user == nil {
		return apiErrors.NewErrNotFound("Could not find user by id, " + id)
	}

	lease.Session.Remove(user)
	if err := lease.Session.Flush(ctx); err != nil {
		return storageError(err, user)
	}

	s.logger.DebugContext(ctx, "User service: user deleted", "id", id)
	return nil
}

// Login returns the user owning email if password matches. The email is
// trimmed the same way it was when stored. Every failure to authenticate is
// ErrInvalidCredentials.
func (s *User) Login(ctx context.Context, email, password string) (*model.User, error) {
	users, err := s.GetByCriteria(ctx, model.Criteria{"email": strings.TrimSpace(email)}, nil)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		s.hasher.Hash(password, dummySalt)
		return nil, ErrInvalidCredentials
	}

	user := users[0]
	if !s.hasher.Verify(password, user.Salt, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *User) encryptPassword(user *model.User, plaintext string) error {
	salt, err := s.hasher.Salt()
	if err != nil {
		return fmt.Errorf("failed to generate password salt: %w", err)
	}
	user.Salt = salt
	user.Password = s.hasher.Hash(plaintext, salt)
	return nil
}

func duplicateEmail(email string) *apiErrors.APIError {
	return apiErrors.NewErrConflict(fmt.Sprintf(`Email address already exists: "%s".`, email))
}

// storageError re-tags flush failures the client can act on as Conflict.
func storageError(err error, user *model.User) error {
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		return duplicateEmail(user.Email)
	case errors.Is(err, model.ErrVersionConflict):
		return apiErrors.NewErrConflict(fmt.Sprintf("User %s was modified concurrently, reload and retry.", user.ID))
	default:
		return fmt.Errorf("failed to save user: %w", err)
	}
}
