package rules

import (
	"errors"
	"fmt"
)

var ErrInvalidArity = errors.New("invalid rule arity")

// ConstructionError reports a rule generator called with an unusable arity.
// It is a configuration error and is returned at catalog-build time.
type ConstructionError struct {
	Rule  string
	Arity int
	Min   int
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: arity %d, need at least %d", e.Rule, e.Arity, e.Min)
}

func (e *ConstructionError) Unwrap() error {
	return ErrInvalidArity
}
