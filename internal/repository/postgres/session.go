package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/accountd/internal/model"
)

const uniqueViolation = "23505"

var (
	_ sessionDB            = (*Connection)(nil)
	_ model.SessionManager = (*SessionManager)(nil)
	_ model.Session        = (*Session)(nil)
)

// sessionDB is the pool a session reads through and begins transactions on.
type sessionDB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SessionManager opens sessions over a shared pool.
type SessionManager struct {
	db sessionDB
}

func NewSessionManager(db sessionDB) *SessionManager {
	return &SessionManager{db: db}
}

func (m *SessionManager) CreateSession(_ context.Context, managerType string) (model.Session, error) {
	return &Session{
		db:          m.db,
		managerType: managerType,
		users:       NewUserRepository(m.db),
	}, nil
}

// Ping checks that the database is reachable.
func (m *SessionManager) Ping(ctx context.Context) error {
	if p, ok := m.db.(model.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

type opKind int

const (
	opPersist opKind = iota
	opRemove
)

type op struct {
	kind opKind
	user *model.User
}

// Session stages writes and applies them in one transaction on Flush. Reads
// go straight to the pool.
type Session struct {
	mu          sync.Mutex
	db          sessionDB
	managerType string
	users       *UserRepository
	ops         []op
	closed      bool
}

func (s *Session) ManagerType() string {
	return s.managerType
}

func (s *Session) Users() model.UserRepository {
	return s.users
}

func (s *Session) Persist(user *model.User) {
	s.stage(opPersist, user)
}

func (s *Session) Remove(user *model.User) {
	s.stage(opRemove, user)
}

func (s *Session) stage(kind opKind, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.ops {
		if o.kind == kind && o.user == user {
			return
		}
	}
	s.ops = append(s.ops, op{kind: kind, user: user})
}

// Flush applies every staged write atomically. Entities are updated with
// their stored id, version and timestamps only after commit.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.ErrSessionClosed
	}
	if len(s.ops) == 0 {
		return nil
	}

	ops := s.ops
	s.ops = nil

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	applies := make([]func(), 0, len(ops))
	for _, o := range ops {
		var apply func()
		switch o.kind {
		case opPersist:
			if o.user.IsNew() {
				apply, err = insertUser(ctx, tx, o.user)
			} else {
				apply, err = updateUser(ctx, tx, o.user)
			}
		case opRemove:
			if o.user.IsNew() {
				continue
			}
			apply, err = removeUser(ctx, tx, o.user)
		}
		if err != nil {
			return err
		}
		applies = append(applies, apply)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, apply := range applies {
		apply()
	}
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.ops = nil
	return nil
}

func insertUser(ctx context.Context, tx pgx.Tx, user *model.User) (func(), error) {
	id := uuid.New()
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	query := `INSERT INTO users (id, email, password, salt, roles, first_name, last_name, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, 1, now(), now())
			  RETURNING version, created_at, updated_at`

	var (
		version              int
		createdAt, updatedAt time.Time
	)
	err := tx.QueryRow(ctx, query,
		id, user.Email, user.Password, user.Salt, roles, user.FirstName, user.LastName,
	).Scan(&version, &createdAt, &updatedAt)
	if err != nil {
		return nil, writeError("create user", err)
	}

	return func() {
		user.ID = id
		user.Roles = roles
		user.Version = version
		user.CreatedAt = createdAt
		user.UpdatedAt = updatedAt
	}, nil
}

func updateUser(ctx context.Context, tx pgx.Tx, user *model.User) (func(), error) {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	query := `UPDATE users
			  SET email = $2, password = $3, salt = $4, roles = $5, first_name = $6, last_name = $7,
			      version = version + 1, updated_at = now()
			  WHERE id = $1 AND version = $8 AND deleted_at IS NULL
			  RETURNING version, updated_at`

	var (
		version   int
		updatedAt time.Time
	)
	err := tx.QueryRow(ctx, query,
		user.ID, user.Email, user.Password, user.Salt, roles, user.FirstName, user.LastName, user.Version,
	).Scan(&version, &updatedAt)
	if err != nil {
		return nil, writeError("update user", err)
	}

	return func() {
		user.Version = version
		user.UpdatedAt = updatedAt
	}, nil
}

func removeUser(ctx context.Context, tx pgx.Tx, user *model.User) (func(), error) {
	query := `UPDATE users
			  SET deleted_at = now(), version = version + 1, updated_at = now()
			  WHERE id = $1 AND version = $2 AND deleted_at IS NULL
			  RETURNING version, updated_at, deleted_at`

	var (
		version   int
		updatedAt time.Time
		deletedAt time.Time
	)
	err := tx.QueryRow(ctx, query, user.ID, user.Version).Scan(&version, &updatedAt, &deletedAt)
	if err != nil {
		return nil, writeError("delete user", err)
	}

	return func() {
		user.Version = version
		user.UpdatedAt = updatedAt
		user.DeletedAt = &deletedAt
	}, nil
}

// writeError maps storage failures onto the model sentinels. A write that
// matched no row lost an optimistic-lock race.
func writeError(action string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", action, model.ErrVersionConflict)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("failed to %s: %w", action, model.ErrDuplicateEmail)
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
