package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/rules"
	"github.com/alito/opencog/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCommitSpace is a memory atom space whose commits are mocked.
type MockCommitSpace struct {
	*store.MemoryAtomSpace
	mock.Mock
}

func (m *MockCommitSpace) SetTruthValue(ctx context.Context, handle uuid.UUID, tv domain.TruthValue) (*domain.Atom, error) {
	args := m.Called(ctx, handle, tv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Atom), args.Error(1)
}

type reasonerFixture struct {
	t     *testing.T
	ctx   context.Context
	space *store.MemoryAtomSpace
	r     *Reasoner
}

func newReasonerFixture(t *testing.T, opts Options) *reasonerFixture {
	t.Helper()
	ctx := context.Background()
	space := store.NewMemoryAtomSpace()
	r := NewReasoner(space, zap.NewNop())
	require.NoError(t, r.BuildCatalog(ctx, opts))
	return &reasonerFixture{t: t, ctx: ctx, space: space, r: r}
}

func (fx *reasonerFixture) node(name string, tv domain.TruthValue) *domain.Atom {
	a, err := fx.space.Node(fx.ctx, domain.TypeConceptNode, name)
	require.NoError(fx.t, err)
	a, err = fx.space.SetTruthValue(fx.ctx, a.Handle, tv)
	require.NoError(fx.t, err)
	return a
}

func (fx *reasonerFixture) link(t domain.Type, tv domain.TruthValue, outgoing ...*domain.Atom) *domain.Atom {
	a, err := fx.space.Link(fx.ctx, t, outgoing)
	require.NoError(fx.t, err)
	a, err = fx.space.SetTruthValue(fx.ctx, a.Handle, tv)
	require.NoError(fx.t, err)
	return a
}

func (fx *reasonerFixture) get(a *domain.Atom) *domain.Atom {
	got, err := fx.space.Get(fx.ctx, a.Handle)
	require.NoError(fx.t, err)
	return got
}

func TestReasoner_BuildCatalog(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	assert.Len(t, fx.r.Rules(), 3*4+4)

	withTransforms := newReasonerFixture(t, Options{MinArity: 1, MaxArity: 4, Transformations: true})
	assert.Len(t, withTransforms.r.Rules(), 3*4+4+6)

	r := NewReasoner(store.NewMemoryAtomSpace(), zap.NewNop())
	err := r.BuildCatalog(context.Background(), Options{MinArity: 0, MaxArity: 3})
	assert.ErrorIs(t, err, rules.ErrInvalidArity)

	_, err = r.Rule("AndCreationRule:2")
	assert.ErrorIs(t, err, ErrCatalogMissing)
}

func TestReasoner_RuleLookup(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())

	rule, err := fx.r.Rule("OrEliminationRule:3")
	require.NoError(t, err)
	assert.Equal(t, "OrEliminationRule:3", rule.Name)

	_, err = fx.r.Rule("AndCreationRule:9")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestReasoner_AndCreation(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.5, 800))
	b := fx.node("B", domain.NewTruthValue(0.5, 800))

	inf, err := fx.r.Apply(fx.ctx, "AndCreationRule:2", []uuid.UUID{a.Handle, b.Handle})
	require.NoError(t, err)
	require.Len(t, inf.Outputs, 1)

	out := inf.Outputs[0]
	assert.Equal(t, `(AndLink (ConceptNode "A") (ConceptNode "B"))`, out.String())
	assert.InDelta(t, 0.25, out.TV.Strength, 1e-12)
	assert.InDelta(t, 0.25, out.TV.Confidence(), 1e-12)
	assert.Equal(t, out.TV, fx.get(out).TV)
}

func TestReasoner_CreationOutputIsSimplified(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.5, 10))
	b := fx.node("B", domain.NewTruthValue(0.5, 10))
	c := fx.node("C", domain.NewTruthValue(0.5, 10))
	ab := fx.link(domain.TypeAndLink, domain.NewTruthValue(0.25, 10), a, b)

	inf, err := fx.r.Apply(fx.ctx, "AndCreationRule:2", []uuid.UUID{ab.Handle, c.Handle})
	require.NoError(t, err)
	assert.Equal(t, `(AndLink (ConceptNode "A") (ConceptNode "B") (ConceptNode "C"))`, inf.Outputs[0].String())
}

func TestReasoner_AndElimination(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.DefaultTruthValue)
	b := fx.node("B", domain.DefaultTruthValue)
	ab := fx.link(domain.TypeAndLink, domain.NewTruthValue(0.25, 1.42), a, b)

	inf, err := fx.r.Apply(fx.ctx, "AndEliminationRule:2", []uuid.UUID{ab.Handle})
	require.NoError(t, err)
	require.Len(t, inf.Outputs, 2)

	for _, atom := range []*domain.Atom{a, b} {
		got := fx.get(atom)
		assert.InDelta(t, 0.5, got.TV.Strength, 1e-12)
		assert.InDelta(t, 1.0, got.TV.Count, 1e-12)
	}
}

func TestReasoner_EliminationKeepsBoundConjunct(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.DefaultTruthValue)
	b := fx.node("B", domain.DefaultTruthValue)
	c := fx.node("C", domain.DefaultTruthValue)
	d := fx.node("D", domain.DefaultTruthValue)
	bc := fx.link(domain.TypeAndLink, domain.DefaultTruthValue, b, c)
	x := fx.link(domain.TypeAndLink, domain.DefaultTruthValue, a, bc)
	top := fx.link(domain.TypeAndLink, domain.NewTruthValue(0.25, 1.42), x, d)

	inf, err := fx.r.Apply(fx.ctx, "AndEliminationRule:2", []uuid.UUID{top.Handle})
	require.NoError(t, err)
	require.Len(t, inf.Outputs, 2)
	assert.Equal(t, x.Handle, inf.Outputs[0].Handle)
	assert.Equal(t, d.Handle, inf.Outputs[1].Handle)

	got := fx.get(x)
	assert.InDelta(t, 0.5, got.TV.Strength, 1e-12)
	assert.InDelta(t, 1.0, got.TV.Count, 1e-12)
}

func TestReasoner_NotEliminationKeepsBoundNegation(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.DefaultTruthValue)
	notA := fx.link(domain.TypeNotLink, domain.DefaultTruthValue, a)
	notNotA := fx.link(domain.TypeNotLink, domain.DefaultTruthValue, notA)
	top := fx.link(domain.TypeNotLink, domain.NewTruthValue(0.25, 30), notNotA)

	inf, err := fx.r.Apply(fx.ctx, rules.NameNotElimination, []uuid.UUID{top.Handle})
	require.NoError(t, err)
	require.Len(t, inf.Outputs, 1)
	assert.Equal(t, notNotA.Handle, inf.Outputs[0].Handle)
	assert.Equal(t, domain.NewTruthValue(0.75, 30), fx.get(notNotA).TV)
	assert.Equal(t, domain.DefaultTruthValue, fx.get(notA).TV)
}

func TestReasoner_OrElimination(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.DefaultTruthValue)
	b := fx.node("B", domain.DefaultTruthValue)
	c := fx.node("C", domain.DefaultTruthValue)
	abc := fx.link(domain.TypeOrLink, domain.NewTruthValue(0.6, 50), a, b, c)

	_, err := fx.r.Apply(fx.ctx, "OrEliminationRule:3", []uuid.UUID{abc.Handle})
	require.NoError(t, err)

	for _, atom := range []*domain.Atom{a, b, c} {
		got := fx.get(atom)
		assert.InDelta(t, 0.2, got.TV.Strength, 1e-12)
		assert.Equal(t, 1.0, got.TV.Count)
	}
}

func TestReasoner_BreakdownOutsideDomainCommitsNothing(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0, 10))
	b := fx.node("B", domain.NewTruthValue(0.3, 10))
	ab := fx.link(domain.TypeAndLink, domain.NewTruthValue(0.2, 10), a, b)

	_, err := fx.r.Apply(fx.ctx, rules.NameAndBreakdown, []uuid.UUID{a.Handle, ab.Handle})
	assert.ErrorIs(t, err, ErrNoInference)
	assert.ErrorIs(t, err, domain.ErrFormulaInvalid)
	assert.Equal(t, domain.NewTruthValue(0.3, 10), fx.get(b).TV)
}

func TestReasoner_OrBreakdown(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.5, 20))
	b := fx.node("B", domain.DefaultTruthValue)
	aob := fx.link(domain.TypeOrLink, domain.NewTruthValue(0.75, 10), a, b)

	inf, err := fx.r.Apply(fx.ctx, rules.NameOrBreakdown, []uuid.UUID{a.Handle, aob.Handle})
	require.NoError(t, err)
	require.Len(t, inf.Outputs, 1)
	assert.Equal(t, b.Handle, inf.Outputs[0].Handle)
	assert.Equal(t, domain.NewTruthValue(0.5, 10), fx.get(b).TV)
}

func TestReasoner_NoMatch(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.5, 10))
	b := fx.node("B", domain.NewTruthValue(0.5, 10))
	c := fx.node("C", domain.NewTruthValue(0.5, 10))
	or := fx.link(domain.TypeOrLink, domain.NewTruthValue(0.5, 10), a, b)
	cb := fx.link(domain.TypeAndLink, domain.NewTruthValue(0.5, 10), c, b)

	tests := []struct {
		name    string
		rule    string
		handles []uuid.UUID
	}{
		{"wrong link type", "AndEliminationRule:2", []uuid.UUID{or.Handle}},
		{"wrong arity", "OrEliminationRule:3", []uuid.UUID{or.Handle}},
		{"wrong input count", "AndCreationRule:2", []uuid.UUID{a.Handle}},
		{"repeated variable bound twice", rules.NameAndBreakdown, []uuid.UUID{a.Handle, cb.Handle}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.r.Apply(fx.ctx, tt.rule, tt.handles)
			assert.ErrorIs(t, err, ErrNoMatch)
		})
	}
}

func TestReasoner_UnknownInput(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	_, err := fx.r.Apply(fx.ctx, rules.NameNotCreation, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReasoner_NotRoundTrip(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.25, 30))

	inf, err := fx.r.Apply(fx.ctx, rules.NameNotCreation, []uuid.UUID{a.Handle})
	require.NoError(t, err)
	notA := inf.Outputs[0]
	assert.Equal(t, domain.TypeNotLink, notA.Type)
	assert.Equal(t, domain.NewTruthValue(0.75, 30), notA.TV)

	_, err = fx.r.Apply(fx.ctx, rules.NameNotElimination, []uuid.UUID{notA.Handle})
	require.NoError(t, err)
	assert.Equal(t, domain.NewTruthValue(0.25, 30), fx.get(a).TV)
}

func TestReasoner_NotCreationOverNegationIsSimplified(t *testing.T) {
	fx := newReasonerFixture(t, DefaultOptions())
	a := fx.node("A", domain.NewTruthValue(0.25, 30))
	notA := fx.link(domain.TypeNotLink, domain.NewTruthValue(0.75, 30), a)

	inf, err := fx.r.Apply(fx.ctx, rules.NameNotCreation, []uuid.UUID{notA.Handle})
	require.NoError(t, err)
	assert.Equal(t, notA.Handle, inf.Outputs[0].Handle)
}

func TestReasoner_Transformation(t *testing.T) {
	fx := newReasonerFixture(t, Options{MinArity: 1, MaxArity: 2, Transformations: true, Simplify: rules.ModeFull})
	a := fx.node("A", domain.DefaultTruthValue)
	b := fx.node("B", domain.DefaultTruthValue)
	or := fx.link(domain.TypeOrLink, domain.NewTruthValue(0.7, 10), a, b)

	inf, err := fx.r.Apply(fx.ctx, rules.TransformOrToSubset, []uuid.UUID{or.Handle})
	require.NoError(t, err)
	out := inf.Outputs[0]
	assert.Equal(t, `(SubsetLink (NotLink (ConceptNode "A")) (ConceptNode "B"))`, out.String())
	assert.Equal(t, domain.NewTruthValue(0.7, 10), out.TV)

	back, err := fx.r.Apply(fx.ctx, rules.TransformSubsetToOr, []uuid.UUID{out.Handle})
	require.NoError(t, err)
	assert.Equal(t, or.Handle, back.Outputs[0].Handle)
}

func TestReasoner_Simplify(t *testing.T) {
	fx := newReasonerFixture(t, Options{MinArity: 1, MaxArity: 2, Simplify: rules.ModeLegacy})
	a := fx.node("A", domain.DefaultTruthValue)
	nnn := fx.link(domain.TypeNotLink, domain.DefaultTruthValue,
		fx.link(domain.TypeNotLink, domain.DefaultTruthValue,
			fx.link(domain.TypeNotLink, domain.DefaultTruthValue, a)))

	got, err := fx.r.Simplify(fx.ctx, nnn.Handle)
	require.NoError(t, err)
	assert.Equal(t, `(NotLink (NotLink (ConceptNode "A")))`, got.String())
}

func TestReasoner_CommitFailure(t *testing.T) {
	ctx := context.Background()
	space := &MockCommitSpace{MemoryAtomSpace: store.NewMemoryAtomSpace()}
	r := NewReasoner(space, zap.NewNop())
	require.NoError(t, r.BuildCatalog(ctx, DefaultOptions()))

	a, err := space.Node(ctx, domain.TypeConceptNode, "A")
	require.NoError(t, err)

	boom := errors.New("disk full")
	space.On("SetTruthValue", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err = r.Apply(ctx, rules.NameNotCreation, []uuid.UUID{a.Handle})
	assert.ErrorIs(t, err, boom)
	space.AssertNumberOfCalls(t, "SetTruthValue", 1)
}

func TestReasoner_PartialCommitFailure(t *testing.T) {
	ctx := context.Background()
	space := &MockCommitSpace{MemoryAtomSpace: store.NewMemoryAtomSpace()}
	r := NewReasoner(space, zap.NewNop())
	require.NoError(t, r.BuildCatalog(ctx, DefaultOptions()))

	a, err := space.Node(ctx, domain.TypeConceptNode, "A")
	require.NoError(t, err)
	b, err := space.Node(ctx, domain.TypeConceptNode, "B")
	require.NoError(t, err)
	ab, err := space.Link(ctx, domain.TypeAndLink, []*domain.Atom{a, b})
	require.NoError(t, err)

	boom := errors.New("disk full")
	space.On("SetTruthValue", mock.Anything, a.Handle, mock.Anything).Return(a, nil).Once()
	space.On("SetTruthValue", mock.Anything, b.Handle, mock.Anything).Return(nil, boom).Once()

	_, err = r.Apply(ctx, "AndEliminationRule:2", []uuid.UUID{ab.Handle})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "commit output 1 of 2 (1 committed)")
	space.AssertExpectations(t)
}
