// Package formula holds the truth-value formulas used by the boolean rules.
// Every formula is a pure function; domain violations are returned as errors
// wrapping domain.ErrFormulaInvalid.
package formula

import (
	"fmt"
	"math"

	"github.com/alito/opencog/internal/domain"
)

// EliminationCountDamping divides the aggregate count when a conjunction is
// split back into its conjuncts.
const EliminationCountDamping = 1.42

// OrEliminationCount is the count given to every disjunct recovered from an OrLink.
const OrEliminationCount = 1.0

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrFormulaInvalid}, args...)...)
}

// And treats the conjuncts as independent: P(A^B^...) = P(A)P(B)..., and the
// confidence of the result is the product of the input confidences. Adding a
// conjunct with strength below 1 can only lower the strength.
func And() domain.Formula {
	return domain.ComputeFormula("and", andCreation)
}

func andCreation(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
	if len(tvs) == 0 {
		return nil, invalid("and of no inputs")
	}
	if len(tvs) == 1 {
		return []domain.TruthValue{tvs[0]}, nil
	}

	strength, confidence := 1.0, 1.0
	for _, tv := range tvs {
		strength *= tv.Strength
		confidence *= tv.Confidence()
	}
	return []domain.TruthValue{domain.NewTruthValue(strength, domain.ConfidenceToCount(confidence))}, nil
}

// Or treats the disjuncts as independent: P(A v B v ...) = 1 - (1-P(A))(1-P(B))...,
// which is inclusion-exclusion for two inputs. Adding a disjunct with
// strength above 0 can only raise the strength.
func Or() domain.Formula {
	return domain.ComputeFormula("or", orCreation)
}

func orCreation(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
	if len(tvs) == 0 {
		return nil, invalid("or of no inputs")
	}
	if len(tvs) == 1 {
		return []domain.TruthValue{tvs[0]}, nil
	}

	miss, confidence := 1.0, 1.0
	for _, tv := range tvs {
		miss *= 1 - tv.Strength
		confidence *= tv.Confidence()
	}
	return []domain.TruthValue{domain.NewTruthValue(1-miss, domain.ConfidenceToCount(confidence))}, nil
}

// Not maps every input to (1 - strength, count).
func Not() domain.Formula {
	return domain.ComputeFormula("not", func(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
		if len(tvs) == 0 {
			return nil, invalid("not of no inputs")
		}
		out := make([]domain.TruthValue, len(tvs))
		for i, tv := range tvs {
			out[i] = Negate(tv)
		}
		return out, nil
	})
}

// Negate returns (1 - strength, count). Negating twice restores the strength
// exactly only for dyadic values; otherwise float rounding may differ by an ulp.
func Negate(tv domain.TruthValue) domain.TruthValue {
	return domain.NewTruthValue(1-tv.Strength, tv.Count)
}

// Identity leaves truth values untouched; used by structural rewrites.
func Identity() domain.Formula {
	return domain.IdentityFormula()
}

// AndElimination splits the truth value of an n-ary AndLink into n identical
// conjunct estimates. Assuming independent, equally likely conjuncts,
// P(A) = P(AndLink)^(1/n). The count is damped by EliminationCountDamping.
// Per-conjunct differences cannot be recovered from the aggregate.
func AndElimination(n int) domain.Formula {
	return domain.ComputeFormula(fmt.Sprintf("and-elimination/%d", n), func(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
		if n < 1 {
			return nil, invalid("and-elimination over %d conjuncts", n)
		}
		if len(tvs) != 1 {
			return nil, invalid("and-elimination takes one input, got %d", len(tvs))
		}

		strength := math.Pow(tvs[0].Strength, 1.0/float64(n))
		count := tvs[0].Count / EliminationCountDamping
		return repeat(domain.NewTruthValue(strength, count), n), nil
	})
}

// OrElimination splits the truth value of an n-ary OrLink into n disjunct
// estimates of P(OrLink)/n with a fixed count of OrEliminationCount.
//
// This is knowingly wrong: it assumes P(A v B v ...) = P(A) + P(B) + ...,
// and it throws the input count away. Kept as a placeholder heuristic.
func OrElimination(n int) domain.Formula {
	return domain.ComputeFormula(fmt.Sprintf("or-elimination/%d", n), func(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
		if n < 1 {
			return nil, invalid("or-elimination over %d disjuncts", n)
		}
		if len(tvs) != 1 {
			return nil, invalid("or-elimination takes one input, got %d", len(tvs))
		}

		strength := tvs[0].Strength / float64(n)
		return repeat(domain.NewTruthValue(strength, OrEliminationCount), n), nil
	})
}

// AndBreakdown infers B from [A, AndLink(A, B)] with P(B) = P(A^B) / P(A),
// which is P(B|A) and equals P(B) under independence. There is no valid
// output when P(A) is 0 or when P(A^B) exceeds P(A).
func AndBreakdown() domain.Formula {
	return domain.ComputeFormula("and-breakdown", func(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
		if len(tvs) != 2 {
			return nil, invalid("and-breakdown takes two inputs, got %d", len(tvs))
		}
		a, ab := tvs[0], tvs[1]
		if a.Strength == 0 {
			return nil, invalid("and-breakdown with P(A) = 0")
		}
		strength := ab.Strength / a.Strength
		if strength > 1 {
			return nil, invalid("and-breakdown with P(A^B) %v > P(A) %v", ab.Strength, a.Strength)
		}
		return []domain.TruthValue{domain.NewTruthValue(strength, math.Min(a.Count, ab.Count))}, nil
	})
}

// OrBreakdown infers B from [A, OrLink(A, B)]. Under independence
// P(AvB) = P(A) + P(B) - P(A)P(B), so P(B) = (P(AvB) - P(A)) / (1 - P(A)).
// There is no valid output when P(A) is 1 or when P(AvB) is below P(A).
func OrBreakdown() domain.Formula {
	return domain.ComputeFormula("or-breakdown", func(tvs []domain.TruthValue) ([]domain.TruthValue, error) {
		if len(tvs) != 2 {
			return nil, invalid("or-breakdown takes two inputs, got %d", len(tvs))
		}
		a, aob := tvs[0], tvs[1]
		if a.Strength == 1 {
			return nil, invalid("or-breakdown with P(A) = 1")
		}
		strength := (aob.Strength - a.Strength) / (1 - a.Strength)
		if strength < 0 {
			return nil, invalid("or-breakdown with P(AvB) %v < P(A) %v", aob.Strength, a.Strength)
		}
		return []domain.TruthValue{domain.NewTruthValue(strength, math.Min(a.Count, aob.Count))}, nil
	})
}

func repeat(tv domain.TruthValue, n int) []domain.TruthValue {
	out := make([]domain.TruthValue, n)
	for i := range out {
		out[i] = tv
	}
	return out
}
