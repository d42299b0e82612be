package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/rules"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	ErrRuleNotFound   = errors.New("rule not found")
	ErrNoMatch        = errors.New("inputs do not match rule pattern")
	ErrNoInference    = errors.New("rule produced no inference")
	ErrCatalogMissing = errors.New("rule catalog not built")
)

const (
	resultCommitted = "committed"
	resultDiscarded = "discarded"
	resultNoMatch   = "no_match"
	resultError     = "error"
)

var (
	inferencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pln_inferences_total",
		Help: "Rule applications by rule name and outcome.",
	}, []string{"rule", "result"})

	catalogRules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pln_catalog_rules",
		Help: "Number of rules in the active catalog.",
	})
)

// Options control which rules the catalog holds and how outputs are canonicalized.
type Options struct {
	MinArity        int
	MaxArity        int
	Transformations bool
	Simplify        rules.Mode
}

func DefaultOptions() Options {
	return Options{MinArity: 1, MaxArity: 4, Simplify: rules.ModeFull}
}

// Inference is the result of one committed rule application.
type Inference struct {
	Rule    string         `json:"rule"`
	Inputs  []*domain.Atom `json:"inputs"`
	Outputs []*domain.Atom `json:"outputs"`
}

// Reasoner owns a rule catalog built against an AtomSpace and applies rules
// to atoms of that space.
type Reasoner struct {
	space    domain.AtomSpace
	logger   *zap.Logger
	simplify rules.Simplifier

	mu      sync.RWMutex
	catalog []*domain.Rule
	byName  map[string]*domain.Rule
}

func NewReasoner(space domain.AtomSpace, logger *zap.Logger) *Reasoner {
	return &Reasoner{
		space:    space,
		logger:   logger,
		simplify: rules.Simplify,
	}
}

// BuildCatalog generates the rule catalog and replaces the current one. A bad
// arity configuration fails here, before any rule is applied.
func (r *Reasoner) BuildCatalog(ctx context.Context, opts Options) error {
	catalog, err := rules.BuildCatalog(ctx, r.space, opts.MinArity, opts.MaxArity)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	if opts.Transformations {
		extra, err := rules.BooleanTransformationRules(ctx, r.space)
		if err != nil {
			return fmt.Errorf("build transformation rules: %w", err)
		}
		catalog = append(catalog, extra...)
	}

	byName := make(map[string]*domain.Rule, len(catalog))
	for _, rule := range catalog {
		if _, dup := byName[rule.Name]; dup {
			return fmt.Errorf("build catalog: duplicate rule %s", rule.Name)
		}
		byName[rule.Name] = rule
	}

	r.mu.Lock()
	r.catalog = catalog
	r.byName = byName
	r.simplify = rules.ForMode(opts.Simplify)
	r.mu.Unlock()

	catalogRules.Set(float64(len(catalog)))
	r.logger.Info("rule catalog built",
		zap.Int("rules", len(catalog)),
		zap.Int("min_arity", opts.MinArity),
		zap.Int("max_arity", opts.MaxArity),
		zap.Bool("transformations", opts.Transformations),
		zap.String("simplify", string(opts.Simplify)),
	)
	return nil
}

// Rules returns the catalog in generation order.
func (r *Reasoner) Rules() []*domain.Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.Rule(nil), r.catalog...)
}

func (r *Reasoner) Rule(name string) (*domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.byName == nil {
		return nil, ErrCatalogMissing
	}
	rule, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}
	return rule, nil
}

// Apply loads the input atoms by handle and applies the named rule to them.
func (r *Reasoner) Apply(ctx context.Context, name string, handles []uuid.UUID) (*Inference, error) {
	rule, err := r.Rule(name)
	if err != nil {
		return nil, err
	}
	inputs := make([]*domain.Atom, len(handles))
	for i, h := range handles {
		if inputs[i], err = r.space.Get(ctx, h); err != nil {
			return nil, fmt.Errorf("load input %s: %w", h, err)
		}
	}
	return r.ApplyRule(ctx, rule, inputs)
}

// ApplyRule matches inputs against the rule's input patterns, evaluates the
// formula and commits the truth values to the instantiated outputs. Outputs
// built from a link pattern are canonicalized first; outputs bound to an
// existing atom receive the truth value as they are. When the formula finds
// the inputs outside its domain nothing is committed and ErrNoInference is
// returned.
//
// All outputs are resolved before the first commit, but the commits are not
// atomic: if a store write fails part way, the outputs before it keep their
// new truth values and the returned error names the failing output index.
func (r *Reasoner) ApplyRule(ctx context.Context, rule *domain.Rule, inputs []*domain.Atom) (*Inference, error) {
	if len(inputs) != len(rule.Inputs) {
		inferencesTotal.WithLabelValues(rule.Name, resultNoMatch).Inc()
		return nil, fmt.Errorf("%w: %s takes %d inputs, got %d", ErrNoMatch, rule.Name, len(rule.Inputs), len(inputs))
	}
	b := bindings{}
	for i, in := range inputs {
		if !b.match(rule.Inputs[i], in) {
			inferencesTotal.WithLabelValues(rule.Name, resultNoMatch).Inc()
			return nil, fmt.Errorf("%w: %s input %d: %s", ErrNoMatch, rule.Name, i, in)
		}
	}

	tvs := make([]domain.TruthValue, len(inputs))
	for i, in := range inputs {
		tvs[i] = in.TV
	}
	out, err := rule.Formula.Evaluate(tvs)
	if err != nil {
		if errors.Is(err, domain.ErrFormulaInvalid) {
			inferencesTotal.WithLabelValues(rule.Name, resultDiscarded).Inc()
			r.logger.Debug("inference discarded",
				zap.String("rule", rule.Name),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %w", ErrNoInference, err)
		}
		inferencesTotal.WithLabelValues(rule.Name, resultError).Inc()
		return nil, err
	}
	if len(out) != len(rule.Outputs) {
		inferencesTotal.WithLabelValues(rule.Name, resultError).Inc()
		return nil, fmt.Errorf("%w: %s: formula returned %d truth values for %d outputs", ErrNoInference, rule.Name, len(out), len(rule.Outputs))
	}

	r.mu.RLock()
	simplify := r.simplify
	r.mu.RUnlock()

	targets := make([]*domain.Atom, len(rule.Outputs))
	for i, pattern := range rule.Outputs {
		atom, err := b.instantiate(ctx, r.space, pattern)
		if err != nil {
			inferencesTotal.WithLabelValues(rule.Name, resultError).Inc()
			return nil, fmt.Errorf("rule %s: instantiate output %d: %w", rule.Name, i, err)
		}
		if !pattern.IsVariable() {
			if atom, err = simplify(ctx, r.space, atom); err != nil {
				inferencesTotal.WithLabelValues(rule.Name, resultError).Inc()
				return nil, fmt.Errorf("rule %s: simplify output %d: %w", rule.Name, i, err)
			}
		}
		targets[i] = atom
	}

	committed := make([]*domain.Atom, len(targets))
	for i, atom := range targets {
		if committed[i], err = r.space.SetTruthValue(ctx, atom.Handle, out[i]); err != nil {
			inferencesTotal.WithLabelValues(rule.Name, resultError).Inc()
			r.logger.Warn("partial inference",
				zap.String("rule", rule.Name),
				zap.Int("committed", i),
				zap.Int("outputs", len(targets)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("rule %s: commit output %d of %d (%d committed): %w", rule.Name, i, len(targets), i, err)
		}
	}

	inferencesTotal.WithLabelValues(rule.Name, resultCommitted).Inc()
	r.logger.Debug("inference committed",
		zap.String("rule", rule.Name),
		zap.Int("outputs", len(committed)),
	)
	return &Inference{Rule: rule.Name, Inputs: inputs, Outputs: committed}, nil
}

// Simplify canonicalizes the atom with the given handle using the catalog's mode.
func (r *Reasoner) Simplify(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	atom, err := r.space.Get(ctx, handle)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	simplify := r.simplify
	r.mu.RUnlock()
	return simplify(ctx, r.space, atom)
}

func (r *Reasoner) Space() domain.AtomSpace {
	return r.space
}
