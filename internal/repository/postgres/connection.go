package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/accountd/database"
)

var errNilPool = errors.New("connection pool is nil")

// Connection is the pool shared by every postgres.default session. Sessions
// read users through it directly and begin one transaction per Flush.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens the pool for dsn and applies the users schema before
// any session can be created. The pool is closed if migration fails.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate users schema: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

// Close releases the pool on shutdown. Sessions opened afterwards fail.
func (c *Connection) Close() error {
	if c.Pool != nil {
		c.Pool.Close()
	}
	return nil
}

// Ping backs the readiness probe when postgres.default is the default manager.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Pool == nil {
		return errNilPool
	}
	if err := c.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}
	return nil
}
