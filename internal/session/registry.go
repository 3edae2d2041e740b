package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dtroode/accountd/internal/model"
)

// ErrUnknownManager is returned for a manager type nothing was registered under.
var ErrUnknownManager = errors.New("unknown manager type")

var _ model.SessionManager = (*Registry)(nil)

// Registry dispatches session creation to the backend registered for each
// manager type.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]model.SessionManager
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]model.SessionManager)}
}

// Register binds a manager type to a backend, replacing any previous binding.
func (r *Registry) Register(managerType string, manager model.SessionManager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[managerType] = manager
}

// Types returns the registered manager types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.managers))
	for t := range r.managers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) lookup(managerType string) (model.SessionManager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.managers[managerType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownManager, managerType)
	}
	return m, nil
}

// CreateSession opens a session with the backend registered for managerType.
func (r *Registry) CreateSession(ctx context.Context, managerType string) (model.Session, error) {
	m, err := r.lookup(managerType)
	if err != nil {
		return nil, err
	}
	return m.CreateSession(ctx, managerType)
}

// PingType pings the backend registered for managerType, if it supports it.
func (r *Registry) PingType(ctx context.Context, managerType string) error {
	m, err := r.lookup(managerType)
	if err != nil {
		return err
	}
	if p, ok := m.(model.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
