package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Type string

const (
	TypeConceptNode               Type = "ConceptNode"
	TypePredicateNode             Type = "PredicateNode"
	TypeVariableNode              Type = "VariableNode"
	TypeAndLink                   Type = "AndLink"
	TypeOrLink                    Type = "OrLink"
	TypeNotLink                   Type = "NotLink"
	TypeSubsetLink                Type = "SubsetLink"
	TypeInheritanceLink           Type = "InheritanceLink"
	TypeExtensionalSimilarityLink Type = "ExtensionalSimilarityLink"
	TypeListLink                  Type = "ListLink"
)

func ValidType(t string) bool {
	switch Type(t) {
	case TypeConceptNode, TypePredicateNode, TypeVariableNode,
		TypeAndLink, TypeOrLink, TypeNotLink, TypeSubsetLink,
		TypeInheritanceLink, TypeExtensionalSimilarityLink, TypeListLink:
		return true
	}
	return false
}

// IsNode reports whether atoms of this type carry a name instead of an outgoing set.
func (t Type) IsNode() bool {
	switch t {
	case TypeConceptNode, TypePredicateNode, TypeVariableNode:
		return true
	}
	return false
}

func (t Type) IsLink() bool {
	return ValidType(string(t)) && !t.IsNode()
}

// Kind is the closed set of shapes the boolean rules and the canonicalizer
// dispatch on. Every type maps to exactly one kind.
type Kind int

const (
	KindOther Kind = iota
	KindAnd
	KindOr
	KindNot
	KindVariable
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindNot:
		return "not"
	case KindVariable:
		return "variable"
	case KindNode:
		return "node"
	default:
		return "other"
	}
}

func (t Type) Kind() Kind {
	switch t {
	case TypeAndLink:
		return KindAnd
	case TypeOrLink:
		return KindOr
	case TypeNotLink:
		return KindNot
	case TypeVariableNode:
		return KindVariable
	case TypeConceptNode, TypePredicateNode:
		return KindNode
	default:
		return KindOther
	}
}

// Atom is a node or link as handed out by an AtomSpace. Outgoing atoms are
// resolved, so a link is a full tree down to its nodes.
type Atom struct {
	Handle   uuid.UUID  `json:"handle"`
	Type     Type       `json:"type"`
	Name     string     `json:"name,omitempty"`
	Outgoing []*Atom    `json:"outgoing,omitempty"`
	TV       TruthValue `json:"truthvalue"`
}

func (a *Atom) Kind() Kind {
	return a.Type.Kind()
}

func (a *Atom) IsVariable() bool {
	return a.Type == TypeVariableNode
}

func (a *Atom) Arity() int {
	return len(a.Outgoing)
}

// WithTruthValue returns a shallow copy of the atom carrying tv.
func (a *Atom) WithTruthValue(tv TruthValue) *Atom {
	c := *a
	c.Outgoing = append([]*Atom(nil), a.Outgoing...)
	c.TV = tv
	return &c
}

// Equal compares structure only: type, name and outgoing trees. Handles and
// truth values are ignored so atoms from different spaces can be compared.
func (a *Atom) Equal(b *Atom) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Name != b.Name || len(a.Outgoing) != len(b.Outgoing) {
		return false
	}
	for i := range a.Outgoing {
		if !a.Outgoing[i].Equal(b.Outgoing[i]) {
			return false
		}
	}
	return true
}

// Variables returns the distinct variables of the tree in first-seen order.
func (a *Atom) Variables() []*Atom {
	var out []*Atom
	seen := make(map[uuid.UUID]bool)
	var walk func(*Atom)
	walk = func(x *Atom) {
		if x.IsVariable() {
			if !seen[x.Handle] {
				seen[x.Handle] = true
				out = append(out, x)
			}
			return
		}
		for _, c := range x.Outgoing {
			walk(c)
		}
	}
	walk(a)
	return out
}

// String renders the atom in scheme notation, e.g.
// (AndLink (ConceptNode "A") (VariableNode "$X")).
func (a *Atom) String() string {
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a *Atom) write(b *strings.Builder) {
	if a == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(string(a.Type))
	if a.Type.IsNode() {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(a.Name))
	}
	for _, c := range a.Outgoing {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// NodeKey is the structural identity of a node, used by stores to deduplicate.
func NodeKey(t Type, name string) string {
	return string(t) + ":" + name
}

// LinkKey is the structural identity of a link: its type and ordered outgoing handles.
func LinkKey(t Type, outgoing []uuid.UUID) string {
	var b strings.Builder
	b.WriteString(string(t))
	b.WriteByte('[')
	for i, h := range outgoing {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(h.String())
	}
	b.WriteByte(']')
	return b.String()
}

func Handles(atoms []*Atom) []uuid.UUID {
	out := make([]uuid.UUID, len(atoms))
	for i, a := range atoms {
		out[i] = a.Handle
	}
	return out
}
