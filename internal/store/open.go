package store

import (
	"context"
	"fmt"

	"github.com/alito/opencog/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Settings select and locate the backing store.
type Settings struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
}

// Opened is an atom space plus whatever is needed to check and release it.
type Opened struct {
	Space domain.AtomSpace
	// Ping is nil for the memory store.
	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects to the configured store and prepares its schema.
func Open(ctx context.Context, s Settings) (*Opened, error) {
	switch s.Driver {
	case "", "memory":
		return &Opened{Space: NewMemoryAtomSpace(), Close: func() {}}, nil

	case "postgres":
		if s.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store: DATABASE_URL is required")
		}
		pool, err := pgxpool.New(ctx, s.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		pg := NewPostgresAtomSpace(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Opened{Space: pg, Ping: pg.Ping, Close: pool.Close}, nil

	case "sqlite":
		lite, err := OpenSQLiteAtomSpace(s.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Opened{Space: lite, Ping: lite.Ping, Close: func() { _ = lite.Close() }}, nil

	default:
		return nil, fmt.Errorf("unknown atom space driver %q", s.Driver)
	}
}
