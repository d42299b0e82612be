package rules

import (
	"context"
	"fmt"

	"github.com/alito/opencog/internal/domain"
)

// Mode selects how far the canonicalizer rewrites.
type Mode string

const (
	// ModeFull flattens nested AND/OR of the same kind at every depth and
	// collapses NOT chains. Applying it twice gives the same atom as once.
	ModeFull Mode = "full"
	// ModeLegacy rewrites a single level: one layer of same-kind nesting is
	// spliced, and NOT(NOT(X)) becomes NOT(X).
	ModeLegacy Mode = "legacy"
)

func ValidMode(m string) bool {
	switch Mode(m) {
	case ModeFull, ModeLegacy:
		return true
	}
	return false
}

// Simplifier canonicalizes a composite atom, building any rewritten link
// through f.
type Simplifier func(ctx context.Context, f domain.LinkFactory, a *domain.Atom) (*domain.Atom, error)

// ForMode returns the simplifier for m. Unknown modes fall back to ModeFull.
func ForMode(m Mode) Simplifier {
	if m == ModeLegacy {
		return SimplifyLegacy
	}
	return Simplify
}

// Simplify returns the canonical form of a. Atoms with nothing to rewrite
// are returned unchanged, handle included.
func Simplify(ctx context.Context, f domain.LinkFactory, a *domain.Atom) (*domain.Atom, error) {
	if a == nil {
		return nil, fmt.Errorf("simplify: nil atom")
	}
	switch a.Kind() {
	case domain.KindAnd, domain.KindOr:
		flat, changed := flatten(a.Type, a.Outgoing, true)
		if !changed {
			return a, nil
		}
		return f.Link(ctx, a.Type, flat)
	case domain.KindNot:
		if len(a.Outgoing) != 1 || a.Outgoing[0].Kind() != domain.KindNot {
			return a, nil
		}
		inner := a.Outgoing[0]
		for inner.Kind() == domain.KindNot && len(inner.Outgoing) == 1 {
			inner = inner.Outgoing[0]
		}
		return f.Link(ctx, domain.TypeNotLink, []*domain.Atom{inner})
	default:
		return a, nil
	}
}

// SimplifyLegacy applies the single-level rewrite. It is not idempotent:
// AND(A, AND(B, AND(C))) needs two passes to become AND(A, B, C).
func SimplifyLegacy(ctx context.Context, f domain.LinkFactory, a *domain.Atom) (*domain.Atom, error) {
	if a == nil {
		return nil, fmt.Errorf("simplify: nil atom")
	}
	switch a.Kind() {
	case domain.KindAnd, domain.KindOr:
		flat, changed := flatten(a.Type, a.Outgoing, false)
		if !changed {
			return a, nil
		}
		return f.Link(ctx, a.Type, flat)
	case domain.KindNot:
		if len(a.Outgoing) != 1 {
			return a, nil
		}
		child := a.Outgoing[0]
		if child.Kind() != domain.KindNot || len(child.Outgoing) != 1 {
			return a, nil
		}
		return f.Link(ctx, domain.TypeNotLink, []*domain.Atom{child.Outgoing[0]})
	default:
		return a, nil
	}
}

// flatten splices children of type t into their parent. Children of any
// other type are kept as they are, without descending into them.
func flatten(t domain.Type, children []*domain.Atom, deep bool) ([]*domain.Atom, bool) {
	out := make([]*domain.Atom, 0, len(children))
	changed := false
	for _, c := range children {
		if c.Type != t {
			out = append(out, c)
			continue
		}
		changed = true
		if deep {
			sub, _ := flatten(t, c.Outgoing, true)
			out = append(out, sub...)
		} else {
			out = append(out, c.Outgoing...)
		}
	}
	return out, changed
}
