package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts connections on.
type SecurityLayer interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a long-running network server.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// TaskRunner runs work detached from the caller. Go reports whether the task
// was accepted.
type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error) bool
}
