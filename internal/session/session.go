// Package session acquires storage sessions for a chain of dependent
// operations. A top-level call opens a session and passes it down; nested
// calls reuse it instead of opening their own.
package session

import (
	"context"
	"fmt"

	"github.com/dtroode/accountd/internal/model"
)

// Lease is a session handed to one call. IsNew is true when the call opened
// the session itself and is therefore responsible for closing it.
type Lease struct {
	Session model.Session
	IsNew   bool
}

// Release closes the session if the lease opened it. Reused sessions are
// left to their owner.
func (l Lease) Release() error {
	if !l.IsNew || l.Session == nil {
		return nil
	}
	return l.Session.Close()
}

// Provider opens sessions of a default manager type.
type Provider struct {
	manager     model.SessionManager
	defaultType string
}

// NewProvider creates a Provider. An empty defaultType selects PostgreSQL.
func NewProvider(manager model.SessionManager, defaultType string) *Provider {
	if defaultType == "" {
		defaultType = model.ManagerPostgres
	}
	return &Provider{
		manager:     manager,
		defaultType: defaultType,
	}
}

// DefaultType returns the manager type used when none is requested.
func (p *Provider) DefaultType() string {
	return p.defaultType
}

// Ensure is EnsureType with the default manager type.
func (p *Provider) Ensure(ctx context.Context, existing model.Session) (Lease, error) {
	return p.EnsureType(ctx, existing, "")
}

// EnsureType returns existing unchanged when it is bound to managerType.
// Otherwise, including when existing is nil, it opens a new session of that
// type. A session of another type is never substituted.
func (p *Provider) EnsureType(ctx context.Context, existing model.Session, managerType string) (Lease, error) {
	if managerType == "" {
		managerType = p.defaultType
	}

	if existing != nil && existing.ManagerType() == managerType {
		return Lease{Session: existing, IsNew: false}, nil
	}

	s, err := p.manager.CreateSession(ctx, managerType)
	if err != nil {
		return Lease{}, fmt.Errorf("unable to create manager for %s: %w", managerType, err)
	}
	if s == nil {
		return Lease{}, fmt.Errorf("unable to create manager for %s", managerType)
	}

	return Lease{Session: s, IsNew: true}, nil
}

// Ping checks the backend behind the default manager type.
func (p *Provider) Ping(ctx context.Context) error {
	pinger, ok := p.manager.(interface {
		PingType(ctx context.Context, managerType string) error
	})
	if ok {
		return pinger.PingType(ctx, p.defaultType)
	}
	if pinger, ok := p.manager.(model.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}
