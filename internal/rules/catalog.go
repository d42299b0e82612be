package rules

import (
	"context"
	"fmt"

	"github.com/alito/opencog/internal/domain"
)

// BuildCatalog generates the boolean rule catalog. For every arity n in
// [minArity, maxArity) it emits AND creation, OR creation, AND elimination
// and OR elimination, in that order; the fixed rules (AND breakdown,
// OR breakdown, NOT creation, NOT elimination) follow. The order is stable
// across calls with the same bounds.
func BuildCatalog(ctx context.Context, f domain.LinkFactory, minArity, maxArity int) ([]*domain.Rule, error) {
	if minArity < 1 {
		return nil, &ConstructionError{Rule: "catalog", Arity: minArity, Min: 1}
	}
	if maxArity < minArity {
		return nil, fmt.Errorf("%w: max arity %d below min arity %d", ErrInvalidArity, maxArity, minArity)
	}

	var catalog []*domain.Rule
	for n := minArity; n < maxArity; n++ {
		for _, build := range []func(context.Context, domain.LinkFactory, int) (*domain.Rule, error){
			NewAndCreationRule,
			NewOrCreationRule,
			NewAndEliminationRule,
			NewOrEliminationRule,
		} {
			r, err := build(ctx, f, n)
			if err != nil {
				return nil, err
			}
			catalog = append(catalog, r)
		}
	}

	for _, build := range []func(context.Context, domain.LinkFactory) (*domain.Rule, error){
		NewAndBreakdownRule,
		NewOrBreakdownRule,
		NewNotCreationRule,
		NewNotEliminationRule,
	} {
		r, err := build(ctx, f)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, r)
	}
	return catalog, nil
}
