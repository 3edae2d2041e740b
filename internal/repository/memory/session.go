package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/accountd/internal/model"
)

var (
	_ model.SessionManager = (*SessionManager)(nil)
	_ model.Session        = (*Session)(nil)
	_ model.UserRepository = (*UserRepository)(nil)
)

// SessionManager opens sessions over a shared Store.
type SessionManager struct {
	store *Store
}

func NewSessionManager(store *Store) *SessionManager {
	return &SessionManager{store: store}
}

func (m *SessionManager) CreateSession(_ context.Context, managerType string) (model.Session, error) {
	return &Session{
		store:       m.store,
		managerType: managerType,
		users:       &UserRepository{store: m.store},
	}, nil
}

func (m *SessionManager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
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

type Session struct {
	mu          sync.Mutex
	store       *Store
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

func (s *Session) Flush(_ context.Context) error {
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
	return s.store.apply(ops)
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.ops = nil
	return nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) ValidateIDField(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *UserRepository) Find(_ context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return r.store.find(uid), nil
}

func (r *UserRepository) FindBy(_ context.Context, criteria model.Criteria) ([]*model.User, error) {
	return r.store.findBy(criteria)
}
