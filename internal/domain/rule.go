package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type FormulaKind int

const (
	// FormulaIdentity carries truth values across a structural rewrite unchanged.
	FormulaIdentity FormulaKind = iota
	FormulaCompute
)

// FormulaFunc maps input truth values to output truth values. It returns an
// error wrapping ErrFormulaInvalid when no valid output exists.
type FormulaFunc func(tvs []TruthValue) ([]TruthValue, error)

// Formula is either Identity or Compute(fn). The zero value is Identity.
type Formula struct {
	kind FormulaKind
	name string
	fn   FormulaFunc
}

func IdentityFormula() Formula {
	return Formula{kind: FormulaIdentity, name: "identity"}
}

func ComputeFormula(name string, fn FormulaFunc) Formula {
	return Formula{kind: FormulaCompute, name: name, fn: fn}
}

func (f Formula) Kind() FormulaKind {
	return f.kind
}

func (f Formula) Name() string {
	if f.name == "" && f.kind == FormulaIdentity {
		return "identity"
	}
	return f.name
}

// Evaluate validates the inputs, runs the formula and validates the outputs.
// Any domain violation comes back as ErrFormulaInvalid; Evaluate never panics
// on bad data.
func (f Formula) Evaluate(tvs []TruthValue) ([]TruthValue, error) {
	for i, tv := range tvs {
		if err := tv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s input %d: %v", ErrFormulaInvalid, f.Name(), i, err)
		}
	}

	var out []TruthValue
	switch f.kind {
	case FormulaIdentity:
		out = append([]TruthValue(nil), tvs...)
	case FormulaCompute:
		if f.fn == nil {
			return nil, fmt.Errorf("%w: %s has no function", ErrFormulaInvalid, f.Name())
		}
		var err error
		out, err = f.fn(tvs)
		if err != nil {
			if errors.Is(err, ErrFormulaInvalid) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrFormulaInvalid, f.Name(), err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown formula kind %d", ErrFormulaInvalid, f.kind)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s produced no output", ErrFormulaInvalid, f.Name())
	}
	for i, tv := range out {
		if err := tv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s output %d: %v", ErrFormulaInvalid, f.Name(), i, err)
		}
	}
	return out, nil
}

// Rule is a stateless template: when atoms matching Inputs are available,
// Outputs can be produced with truth values computed by Formula.
type Rule struct {
	Name    string
	Inputs  []*Atom
	Outputs []*Atom
	Formula Formula
}

// Validate checks that every variable used by the outputs is bound by the inputs.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return errors.New("rule name cannot be empty")
	}
	if len(r.Inputs) == 0 {
		return fmt.Errorf("rule %s: inputs cannot be empty", r.Name)
	}
	if len(r.Outputs) == 0 {
		return fmt.Errorf("rule %s: outputs cannot be empty", r.Name)
	}

	bound := make(map[uuid.UUID]bool)
	for _, in := range r.Inputs {
		for _, v := range in.Variables() {
			bound[v.Handle] = true
		}
	}
	for _, out := range r.Outputs {
		for _, v := range out.Variables() {
			if !bound[v.Handle] {
				return fmt.Errorf("rule %s: output variable %s not bound by inputs", r.Name, v.Name)
			}
		}
	}
	return nil
}
