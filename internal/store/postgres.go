package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS atoms (
	id         UUID PRIMARY KEY,
	atom_key   TEXT NOT NULL UNIQUE,
	type       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	outgoing   TEXT NOT NULL DEFAULT '',
	strength   DOUBLE PRECISION NOT NULL DEFAULT 0,
	count      DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS atoms_type_idx ON atoms (type);
`

type PostgresAtomSpace struct {
	db *pgxpool.Pool
}

func NewPostgresAtomSpace(db *pgxpool.Pool) *PostgresAtomSpace {
	return &PostgresAtomSpace{db: db}
}

func (s *PostgresAtomSpace) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate atoms: %w", err)
	}
	return nil
}

func (s *PostgresAtomSpace) NewVariable(ctx context.Context) (*domain.Atom, error) {
	return s.Node(ctx, domain.TypeVariableNode, newVariableName())
}

func (s *PostgresAtomSpace) MakeVariables(ctx context.Context, n int) ([]*domain.Atom, error) {
	return makeVariables(ctx, s, n)
}

func (s *PostgresAtomSpace) Node(ctx context.Context, t domain.Type, name string) (*domain.Atom, error) {
	if err := checkNodeType(t); err != nil {
		return nil, err
	}
	id, err := s.upsert(ctx, domain.NodeKey(t, name), t, name, "")
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *PostgresAtomSpace) Link(ctx context.Context, t domain.Type, outgoing []*domain.Atom) (*domain.Atom, error) {
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

// upsert inserts the atom unless its key exists and returns the stored id either way.
func (s *PostgresAtomSpace) upsert(ctx context.Context, key string, t domain.Type, name, outgoing string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx,
		`INSERT INTO atoms (id, atom_key, type, name, outgoing)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (atom_key) DO UPDATE SET atom_key = EXCLUDED.atom_key
		 RETURNING id`,
		uuid.New(), key, string(t), name, outgoing,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *PostgresAtomSpace) Get(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	return s.load(ctx, handle)
}

func (s *PostgresAtomSpace) load(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	var row atomRow
	var typ string
	err := s.db.QueryRow(ctx,
		`SELECT id, type, name, outgoing, strength, count FROM atoms WHERE id = $1`,
		handle,
	).Scan(&row.id, &typ, &row.name, &row.outgoing, &row.tv.Strength, &row.tv.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	row.typ = domain.Type(typ)
	return materialize(ctx, row, s.load)
}

func (s *PostgresAtomSpace) SetTruthValue(ctx context.Context, handle uuid.UUID, tv domain.TruthValue) (*domain.Atom, error) {
	if err := tv.Validate(); err != nil {
		return nil, err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE atoms SET strength = $2, count = $3, updated_at = NOW() WHERE id = $1`,
		handle, tv.Strength, tv.Count,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, handle)
}

func (s *PostgresAtomSpace) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM atoms`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresAtomSpace) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
