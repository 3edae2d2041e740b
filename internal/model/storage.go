package model

import (
	"context"
	"errors"
)

// Manager types understood by the session registry.
const (
	ManagerPostgres = "postgres.default"
	ManagerMemory   = "memory.default"
)

var (
	// ErrDuplicateEmail is returned by Flush when a write would give two
	// live users the same email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrVersionConflict is returned by Flush when the stored version no
	// longer matches the version the entity was loaded with.
	ErrVersionConflict = errors.New("version conflict")
	// ErrUnknownCriteria is returned by FindBy for a field that cannot be
	// filtered on.
	ErrUnknownCriteria = errors.New("unknown criteria field")
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session closed")
)

// SessionManager opens sessions against a storage backend.
type SessionManager interface {
	CreateSession(ctx context.Context, managerType string) (Session, error)
}

// Session is a lease on a storage backend. Writes are staged with Persist
// and Remove and applied together by Flush.
type Session interface {
	ManagerType() string
	Users() UserRepository
	Persist(user *User)
	Remove(user *User)
	Flush(ctx context.Context) error
	Close() error
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage writes objects for downstream consumers to pick up.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
