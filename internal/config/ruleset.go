package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid rule set")

// RuleSet selects the rules the reasoner generates.
type RuleSet struct {
	MinArity        int    `yaml:"min_arity"`
	MaxArity        int    `yaml:"max_arity"`
	Transformations bool   `yaml:"transformations"`
	Simplify        string `yaml:"simplify"`
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		MinArity: 1,
		MaxArity: 4,
		Simplify: "full",
	}
}

// LoadRuleSet reads a rule set from path. Fields left out of the file keep
// their defaults; an empty path returns the defaults.
func LoadRuleSet(path string) (RuleSet, error) {
	rs := DefaultRuleSet()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rule set: %w", err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

func (rs RuleSet) Validate() error {
	if rs.MinArity < 1 {
		return fmt.Errorf("%w: min_arity must be at least 1, got %d", ErrInvalidConfig, rs.MinArity)
	}
	if rs.MaxArity < rs.MinArity {
		return fmt.Errorf("%w: max_arity %d below min_arity %d", ErrInvalidConfig, rs.MaxArity, rs.MinArity)
	}
	switch rs.Simplify {
	case "full", "legacy":
	default:
		return fmt.Errorf("%w: simplify must be full or legacy, got %q", ErrInvalidConfig, rs.Simplify)
	}
	return nil
}
