package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS atoms (
	id         TEXT PRIMARY KEY,
	atom_key   TEXT NOT NULL UNIQUE,
	type       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	outgoing   TEXT NOT NULL DEFAULT '',
	strength   REAL NOT NULL DEFAULT 0,
	count      REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS atoms_type_idx ON atoms (type);
`

// SQLiteAtomSpace stores atoms in a single SQLite file.
type SQLiteAtomSpace struct {
	db *sql.DB
}

// OpenSQLiteAtomSpace opens (or creates) the database at path and runs the schema.
func OpenSQLiteAtomSpace(path string) (*SQLiteAtomSpace, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer; a single connection keeps the upsert race-free.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteAtomSpace{db: db}, nil
}

func (s *SQLiteAtomSpace) Close() error {
	return s.db.Close()
}

func (s *SQLiteAtomSpace) NewVariable(ctx context.Context) (*domain.Atom, error) {
	return s.Node(ctx, domain.TypeVariableNode, newVariableName())
}

func (s *SQLiteAtomSpace) MakeVariables(ctx context.Context, n int) ([]*domain.Atom, error) {
	return makeVariables(ctx, s, n)
}

func (s *SQLiteAtomSpace) Node(ctx context.Context, t domain.Type, name string) (*domain.Atom, error) {
	if err := checkNodeType(t); err != nil {
		return nil, err
	}
	id, err := s.upsert(ctx, domain.NodeKey(t, name), t, name, "")
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteAtomSpace) Link(ctx context.Context, t domain.Type, outgoing []*domain.Atom) (*domain.Atom, error) {
	if err := checkLinkType(t, outgoing); err != nil {
		return nil, err
	}
	handles := domain.Handles(outgoing)
	for _, h := range handles {
		if _, err := s.load(ctx, h); err != nil {
			return nil, fmt.Errorf("outgoing atom %s: %w", h, err)
		}
	}

	id, err := s.upsert(ctx, domain.LinkKey(t, handles), t, "", encodeOutgoing(handles))
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLiteAtomSpace) upsert(ctx context.Context, key string, t domain.Type, name, outgoing string) (uuid.UUID, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO atoms (id, atom_key, type, name, outgoing)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (atom_key) DO UPDATE SET atom_key = excluded.atom_key
		 RETURNING id`,
		uuid.NewString(), key, string(t), name, outgoing,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

func (s *SQLiteAtomSpace) Get(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	return s.load(ctx, handle)
}

func (s *SQLiteAtomSpace) load(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	var row atomRow
	var id, typ string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, name, outgoing, strength, count FROM atoms WHERE id = ?`,
		handle.String(),
	).Scan(&id, &typ, &row.name, &row.outgoing, &row.tv.Strength, &row.tv.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	row.typ = domain.Type(typ)
	return materialize(ctx, row, s.load)
}

func (s *SQLiteAtomSpace) SetTruthValue(ctx context.Context, handle uuid.UUID, tv domain.TruthValue) (*domain.Atom, error) {
	if err := tv.Validate(); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE atoms SET strength = ?, count = ?, updated_at = datetime('now') WHERE id = ?`,
		tv.Strength, tv.Count, handle.String(),
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, handle)
}

func (s *SQLiteAtomSpace) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM atoms`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteAtomSpace) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
