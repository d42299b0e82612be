package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
)

type memRecord struct {
	typ      domain.Type
	name     string
	outgoing []uuid.UUID
	tv       domain.TruthValue
}

// MemoryAtomSpace keeps atoms in process memory. Atoms handed out are copies;
// changing them never changes the space.
type MemoryAtomSpace struct {
	mu    sync.RWMutex
	atoms map[uuid.UUID]*memRecord
	index map[string]uuid.UUID
}

func NewMemoryAtomSpace() *MemoryAtomSpace {
	return &MemoryAtomSpace{
		atoms: make(map[uuid.UUID]*memRecord),
		index: make(map[string]uuid.UUID),
	}
}

func (s *MemoryAtomSpace) NewVariable(ctx context.Context) (*domain.Atom, error) {
	return s.Node(ctx, domain.TypeVariableNode, newVariableName())
}

func (s *MemoryAtomSpace) MakeVariables(ctx context.Context, n int) ([]*domain.Atom, error) {
	return makeVariables(ctx, s, n)
}

func (s *MemoryAtomSpace) Node(ctx context.Context, t domain.Type, name string) (*domain.Atom, error) {
	if err := checkNodeType(t); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.addLocked(domain.NodeKey(t, name), &memRecord{typ: t, name: name})
	return s.buildLocked(id)
}

func (s *MemoryAtomSpace) Link(ctx context.Context, t domain.Type, outgoing []*domain.Atom) (*domain.Atom, error) {
	if err := checkLinkType(t, outgoing); err != nil {
		return nil, err
	}
	handles := domain.Handles(outgoing)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range handles {
		if _, ok := s.atoms[h]; !ok {
			return nil, fmt.Errorf("outgoing atom %s: %w", h, ErrNotFound)
		}
	}

	id := s.addLocked(domain.LinkKey(t, handles), &memRecord{typ: t, outgoing: handles})
	return s.buildLocked(id)
}

// addLocked returns the existing handle for key, or stores rec under a new one.
func (s *MemoryAtomSpace) addLocked(key string, rec *memRecord) uuid.UUID {
	if id, ok := s.index[key]; ok {
		return id
	}
	rec.tv = domain.DefaultTruthValue
	id := uuid.New()
	s.atoms[id] = rec
	s.index[key] = id
	return id
}

func (s *MemoryAtomSpace) Get(ctx context.Context, handle uuid.UUID) (*domain.Atom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildLocked(handle)
}

func (s *MemoryAtomSpace) SetTruthValue(ctx context.Context, handle uuid.UUID, tv domain.TruthValue) (*domain.Atom, error) {
	if err := tv.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.atoms[handle]
	if !ok {
		return nil, ErrNotFound
	}
	rec.tv = tv
	return s.buildLocked(handle)
}

func (s *MemoryAtomSpace) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.atoms), nil
}

func (s *MemoryAtomSpace) buildLocked(handle uuid.UUID) (*domain.Atom, error) {
	rec, ok := s.atoms[handle]
	if !ok {
		return nil, ErrNotFound
	}
	a := &domain.Atom{Handle: handle, Type: rec.typ, Name: rec.name, TV: rec.tv}
	for _, h := range rec.outgoing {
		child, err := s.buildLocked(h)
		if err != nil {
			return nil, err
		}
		a.Outgoing = append(a.Outgoing, child)
	}
	return a, nil
}
