package rules

import (
	"context"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/formula"
)

const NameBooleanTransformation = "BooleanTransformationRule"

// Transformation rule names carry the direction of the rewrite.
const (
	TransformOrToSubset         = NameBooleanTransformation + ":or-subset"
	TransformSubsetToOr         = NameBooleanTransformation + ":subset-or"
	TransformAndToSubset        = NameBooleanTransformation + ":and-subset"
	TransformSubsetToAnd        = NameBooleanTransformation + ":subset-and"
	TransformSimilarityToSubset = NameBooleanTransformation + ":similarity-subset"
	TransformSubsetToSimilarity = NameBooleanTransformation + ":subset-similarity"
)

// BooleanTransformationRules returns the equivalence rewrites between boolean
// links and subset links, each direction as its own rule:
//
//	OrLink(P, Q)                     <=> SubsetLink(NotLink(P), Q)
//	AndLink(P, Q)                    <=> NotLink(SubsetLink(P, NotLink(Q)))
//	ExtensionalSimilarityLink(P, Q)  <=> AndLink(SubsetLink(P, Q), SubsetLink(Q, P))
//
// The rewritten atom keeps the truth value of the matched one.
func BooleanTransformationRules(ctx context.Context, f domain.LinkFactory) ([]*domain.Rule, error) {
	vars, err := f.MakeVariables(ctx, 2)
	if err != nil {
		return nil, err
	}
	p, q := vars[0], vars[1]

	b := linkBuilder{ctx: ctx, f: f}
	or := b.link(domain.TypeOrLink, p, q)
	subsetNotPQ := b.link(domain.TypeSubsetLink, b.link(domain.TypeNotLink, p), q)

	and := b.link(domain.TypeAndLink, p, q)
	notSubsetPNotQ := b.link(domain.TypeNotLink, b.link(domain.TypeSubsetLink, p, b.link(domain.TypeNotLink, q)))

	sim := b.link(domain.TypeExtensionalSimilarityLink, p, q)
	bothSubsets := b.link(domain.TypeAndLink,
		b.link(domain.TypeSubsetLink, p, q),
		b.link(domain.TypeSubsetLink, q, p),
	)
	if b.err != nil {
		return nil, b.err
	}

	pairs := []struct {
		name     string
		from, to *domain.Atom
	}{
		{TransformOrToSubset, or, subsetNotPQ},
		{TransformSubsetToOr, subsetNotPQ, or},
		{TransformAndToSubset, and, notSubsetPNotQ},
		{TransformSubsetToAnd, notSubsetPNotQ, and},
		{TransformSimilarityToSubset, sim, bothSubsets},
		{TransformSubsetToSimilarity, bothSubsets, sim},
	}

	out := make([]*domain.Rule, 0, len(pairs))
	for _, pr := range pairs {
		r, err := finish(&domain.Rule{
			Name:    pr.name,
			Inputs:  []*domain.Atom{pr.from},
			Outputs: []*domain.Atom{pr.to},
			Formula: formula.Identity(),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// linkBuilder keeps the first construction error so nested patterns read
// as a single expression.
type linkBuilder struct {
	ctx context.Context
	f   domain.LinkFactory
	err error
}

func (b *linkBuilder) link(t domain.Type, outgoing ...*domain.Atom) *domain.Atom {
	if b.err != nil {
		return nil
	}
	a, err := b.f.Link(b.ctx, t, outgoing)
	if err != nil {
		b.err = err
		return nil
	}
	return a
}
