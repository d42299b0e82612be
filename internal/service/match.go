package service

import (
	"context"
	"fmt"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
)

// bindings maps rule variables to the atoms they matched.
type bindings map[uuid.UUID]*domain.Atom

// match unifies a rule pattern with a concrete atom. Variables bind to any
// atom; a variable seen twice must bind to the same atom both times.
func (b bindings) match(pattern, target *domain.Atom) bool {
	if pattern == nil || target == nil {
		return false
	}
	if pattern.IsVariable() {
		if bound, ok := b[pattern.Handle]; ok {
			return bound.Handle == target.Handle
		}
		b[pattern.Handle] = target
		return true
	}
	if pattern.Type != target.Type {
		return false
	}
	if pattern.Type.IsNode() {
		return pattern.Name == target.Name
	}
	if len(pattern.Outgoing) != len(target.Outgoing) {
		return false
	}
	for i := range pattern.Outgoing {
		if !b.match(pattern.Outgoing[i], target.Outgoing[i]) {
			return false
		}
	}
	return true
}

// instantiate replaces the variables of pattern with their bindings and
// builds the resulting links through f.
func (b bindings) instantiate(ctx context.Context, f domain.LinkFactory, pattern *domain.Atom) (*domain.Atom, error) {
	if pattern.IsVariable() {
		a, ok := b[pattern.Handle]
		if !ok {
			return nil, fmt.Errorf("unbound variable %s", pattern.Name)
		}
		return a, nil
	}
	if pattern.Type.IsNode() {
		return pattern, nil
	}
	children := make([]*domain.Atom, len(pattern.Outgoing))
	for i, c := range pattern.Outgoing {
		a, err := b.instantiate(ctx, f, c)
		if err != nil {
			return nil, err
		}
		children[i] = a
	}
	return f.Link(ctx, pattern.Type, children)
}
