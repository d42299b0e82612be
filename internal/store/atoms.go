package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// VariablePrefix starts the name of every variable node a store hands out.
const VariablePrefix = "$pln_var_"

func newVariableName() string {
	return VariablePrefix + ulid.Make().String()
}

func checkNodeType(t domain.Type) error {
	if !t.IsNode() {
		return fmt.Errorf("%w: %q is not a node type", ErrInvalidAtom, t)
	}
	return nil
}

func checkLinkType(t domain.Type, outgoing []*domain.Atom) error {
	if !t.IsLink() {
		return fmt.Errorf("%w: %q is not a link type", ErrInvalidAtom, t)
	}
	for i, a := range outgoing {
		if a == nil {
			return fmt.Errorf("%w: %s outgoing %d is nil", ErrInvalidAtom, t, i)
		}
	}
	return nil
}

func makeVariables(ctx context.Context, f domain.LinkFactory, n int) ([]*domain.Atom, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot make %d variables", ErrInvalidAtom, n)
	}
	vars := make([]*domain.Atom, 0, n)
	for i := 0; i < n; i++ {
		v, err := f.NewVariable(ctx)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func encodeOutgoing(handles []uuid.UUID) string {
	parts := make([]string, len(handles))
	for i, h := range handles {
		parts[i] = h.String()
	}
	return strings.Join(parts, ",")
}

func decodeOutgoing(s string) ([]uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		h, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("decode outgoing: %w", err)
		}
		out[i] = h
	}
	return out, nil
}

// atomRow is the flat form shared by the SQL stores.
type atomRow struct {
	id       uuid.UUID
	typ      domain.Type
	name     string
	outgoing string
	tv       domain.TruthValue
}

// materialize resolves a row's outgoing handles into a full atom tree.
func materialize(ctx context.Context, row atomRow, load func(context.Context, uuid.UUID) (*domain.Atom, error)) (*domain.Atom, error) {
	a := &domain.Atom{Handle: row.id, Type: row.typ, Name: row.name, TV: row.tv}
	handles, err := decodeOutgoing(row.outgoing)
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		child, err := load(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("load outgoing %s of %s: %w", h, row.id, err)
		}
		a.Outgoing = append(a.Outgoing, child)
	}
	return a, nil
}
