package domain

import (
	"context"

	"github.com/google/uuid"
)

// LinkFactory builds rule patterns and rule outputs. Link is construct-or-fetch:
// structurally identical links come back with the same handle.
type LinkFactory interface {
	NewVariable(ctx context.Context) (*Atom, error)
	MakeVariables(ctx context.Context, n int) ([]*Atom, error)
	Link(ctx context.Context, t Type, outgoing []*Atom) (*Atom, error)
}

// AtomSpace is the graph store the reasoner reads from and commits to.
// Implementations must be safe for concurrent use.
type AtomSpace interface {
	LinkFactory

	Node(ctx context.Context, t Type, name string) (*Atom, error)
	Get(ctx context.Context, handle uuid.UUID) (*Atom, error)
	SetTruthValue(ctx context.Context, handle uuid.UUID, tv TruthValue) (*Atom, error)
	Count(ctx context.Context) (int, error)
}
