// Package rules generates the boolean PLN rules (creation, elimination and
// breakdown of AndLink/OrLink, NotLink creation and elimination, boolean
// transformations) and canonicalizes the boolean links they produce.
package rules

import (
	"context"
	"fmt"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/formula"
)

const (
	NameAndCreation    = "AndCreationRule"
	NameOrCreation     = "OrCreationRule"
	NameAndElimination = "AndEliminationRule"
	NameOrElimination  = "OrEliminationRule"
	NameAndBreakdown   = "AndBreakdownRule"
	NameOrBreakdown    = "OrBreakdownRule"
	NameNotCreation    = "NotCreationRule"
	NameNotElimination = "NotEliminationRule"
)

// CompositeKind pairs a boolean link type with the formulas its creation and
// elimination rules use. Creation and elimination rules are built from a
// kind rather than specialized per link type.
type CompositeKind struct {
	Link            domain.Type
	CreationName    string
	EliminationName string
	Creation        func() domain.Formula
	Elimination     func(n int) domain.Formula
}

var (
	AndKind = CompositeKind{
		Link:            domain.TypeAndLink,
		CreationName:    NameAndCreation,
		EliminationName: NameAndElimination,
		Creation:        formula.And,
		Elimination:     formula.AndElimination,
	}
	OrKind = CompositeKind{
		Link:            domain.TypeOrLink,
		CreationName:    NameOrCreation,
		EliminationName: NameOrElimination,
		Creation:        formula.Or,
		Elimination:     formula.OrElimination,
	}
)

func arityName(name string, n int) string {
	return fmt.Sprintf("%s:%d", name, n)
}

func finish(r *domain.Rule) (*domain.Rule, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewCreationRule builds [X1..Xn] => Link(X1..Xn).
func NewCreationRule(ctx context.Context, f domain.LinkFactory, kind CompositeKind, n int) (*domain.Rule, error) {
	if n < 1 {
		return nil, &ConstructionError{Rule: kind.CreationName, Arity: n, Min: 1}
	}
	atoms, err := f.MakeVariables(ctx, n)
	if err != nil {
		return nil, err
	}
	out, err := f.Link(ctx, kind.Link, atoms)
	if err != nil {
		return nil, err
	}
	return finish(&domain.Rule{
		Name:    arityName(kind.CreationName, n),
		Inputs:  atoms,
		Outputs: []*domain.Atom{out},
		Formula: kind.Creation(),
	})
}

// NewEliminationRule builds Link(X1..Xn) => [X1..Xn]. The link is matched as a
// whole; the formula derives every child estimate from its single truth value.
func NewEliminationRule(ctx context.Context, f domain.LinkFactory, kind CompositeKind, n int) (*domain.Rule, error) {
	if n < 1 {
		return nil, &ConstructionError{Rule: kind.EliminationName, Arity: n, Min: 1}
	}
	atoms, err := f.MakeVariables(ctx, n)
	if err != nil {
		return nil, err
	}
	in, err := f.Link(ctx, kind.Link, atoms)
	if err != nil {
		return nil, err
	}
	return finish(&domain.Rule{
		Name:    arityName(kind.EliminationName, n),
		Inputs:  []*domain.Atom{in},
		Outputs: atoms,
		Formula: kind.Elimination(n),
	})
}

func NewAndCreationRule(ctx context.Context, f domain.LinkFactory, n int) (*domain.Rule, error) {
	return NewCreationRule(ctx, f, AndKind, n)
}

func NewOrCreationRule(ctx context.Context, f domain.LinkFactory, n int) (*domain.Rule, error) {
	return NewCreationRule(ctx, f, OrKind, n)
}

func NewAndEliminationRule(ctx context.Context, f domain.LinkFactory, n int) (*domain.Rule, error) {
	return NewEliminationRule(ctx, f, AndKind, n)
}

func NewOrEliminationRule(ctx context.Context, f domain.LinkFactory, n int) (*domain.Rule, error) {
	return NewEliminationRule(ctx, f, OrKind, n)
}

// A, Link(A, B) => B
func newBreakdownRule(ctx context.Context, f domain.LinkFactory, name string, t domain.Type, fm domain.Formula) (*domain.Rule, error) {
	vars, err := f.MakeVariables(ctx, 2)
	if err != nil {
		return nil, err
	}
	a, b := vars[0], vars[1]
	composite, err := f.Link(ctx, t, []*domain.Atom{a, b})
	if err != nil {
		return nil, err
	}
	return finish(&domain.Rule{
		Name:    name,
		Inputs:  []*domain.Atom{a, composite},
		Outputs: []*domain.Atom{b},
		Formula: fm,
	})
}

func NewAndBreakdownRule(ctx context.Context, f domain.LinkFactory) (*domain.Rule, error) {
	return newBreakdownRule(ctx, f, NameAndBreakdown, domain.TypeAndLink, formula.AndBreakdown())
}

func NewOrBreakdownRule(ctx context.Context, f domain.LinkFactory) (*domain.Rule, error) {
	return newBreakdownRule(ctx, f, NameOrBreakdown, domain.TypeOrLink, formula.OrBreakdown())
}

// A => NotLink(A)
func NewNotCreationRule(ctx context.Context, f domain.LinkFactory) (*domain.Rule, error) {
	a, err := f.NewVariable(ctx)
	if err != nil {
		return nil, err
	}
	not, err := f.Link(ctx, domain.TypeNotLink, []*domain.Atom{a})
	if err != nil {
		return nil, err
	}
	return finish(&domain.Rule{
		Name:    NameNotCreation,
		Inputs:  []*domain.Atom{a},
		Outputs: []*domain.Atom{not},
		Formula: formula.Not(),
	})
}

// NotLink(A) => A
func NewNotEliminationRule(ctx context.Context, f domain.LinkFactory) (*domain.Rule, error) {
	a, err := f.NewVariable(ctx)
	if err != nil {
		return nil, err
	}
	not, err := f.Link(ctx, domain.TypeNotLink, []*domain.Atom{a})
	if err != nil {
		return nil, err
	}
	return finish(&domain.Rule{
		Name:    NameNotElimination,
		Inputs:  []*domain.Atom{not},
		Outputs: []*domain.Atom{a},
		Formula: formula.Not(),
	})
}
