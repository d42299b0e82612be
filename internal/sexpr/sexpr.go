// Package sexpr reads atoms written in scheme notation:
//
//	(AndLink (ConceptNode "A" (stv 0.8 0.9)) (VariableNode "$X"))
//
// Nodes take a quoted name, links take child expressions, and either may end
// with an (stv strength confidence) truth value.
package sexpr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/alito/opencog/internal/domain"
	"github.com/google/uuid"
)

var ErrSyntax = errors.New("syntax error")

// Factory is the part of an AtomSpace the reader needs.
type Factory interface {
	Node(ctx context.Context, t domain.Type, name string) (*domain.Atom, error)
	Link(ctx context.Context, t domain.Type, outgoing []*domain.Atom) (*domain.Atom, error)
	SetTruthValue(ctx context.Context, handle uuid.UUID, tv domain.TruthValue) (*domain.Atom, error)
}

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokString
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(':
			toks = append(toks, token{tokOpen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokClose, ")", i})
			i++
		case c == '"':
			start := i
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("%w: unterminated string at %d", ErrSyntax, start)
			}
			i++
			s, err := strconv.Unquote(src[start:i])
			if err != nil {
				return nil, fmt.Errorf("%w: bad string at %d: %v", ErrSyntax, start, err)
			}
			toks = append(toks, token{tokString, s, start})
		default:
			start := i
			for i < len(src) && !unicode.IsSpace(rune(src[i])) && !strings.ContainsRune(`()";`, rune(src[i])) {
				i++
			}
			toks = append(toks, token{tokSymbol, src[start:i], start})
		}
	}
	return toks, nil
}

type parser struct {
	ctx  context.Context
	f    Factory
	toks []token
	pos  int
}

// Parse reads every top-level expression in src and adds it to f. Atoms are
// returned in source order, with any truth value given in the text applied.
func Parse(ctx context.Context, f Factory, src string) ([]*domain.Atom, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{ctx: ctx, f: f, toks: toks}

	var out []*domain.Atom
	for p.pos < len(p.toks) {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseOne reads exactly one expression.
func ParseOne(ctx context.Context, f Factory, src string) (*domain.Atom, error) {
	atoms, err := Parse(ctx, f, src)
	if err != nil {
		return nil, err
	}
	if len(atoms) != 1 {
		return nil, fmt.Errorf("%w: expected one expression, got %d", ErrSyntax, len(atoms))
	}
	return atoms[0], nil
}

func (p *parser) next() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t, ok := p.next()
	if !ok {
		return token{}, fmt.Errorf("%w: unexpected end of input, want %s", ErrSyntax, what)
	}
	if t.kind != k {
		return token{}, fmt.Errorf("%w: at %d: want %s, got %q", ErrSyntax, t.pos, what, t.text)
	}
	return t, nil
}

func (p *parser) expr() (*domain.Atom, error) {
	if _, err := p.expect(tokOpen, "'('"); err != nil {
		return nil, err
	}
	head, err := p.expect(tokSymbol, "atom type")
	if err != nil {
		return nil, err
	}
	if !domain.ValidType(head.text) {
		return nil, fmt.Errorf("%w: at %d: unknown atom type %q", ErrSyntax, head.pos, head.text)
	}
	t := domain.Type(head.text)

	var atom *domain.Atom
	if t.IsNode() {
		name, err := p.expect(tokString, "node name")
		if err != nil {
			return nil, err
		}
		if atom, err = p.f.Node(p.ctx, t, name.text); err != nil {
			return nil, err
		}
	} else {
		var children []*domain.Atom
		for p.atChild() {
			c, err := p.expr()
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if atom, err = p.f.Link(p.ctx, t, children); err != nil {
			return nil, err
		}
	}

	if p.atTruthValue() {
		tv, err := p.truthValue()
		if err != nil {
			return nil, err
		}
		if atom, err = p.f.SetTruthValue(p.ctx, atom.Handle, tv); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokClose, "')'"); err != nil {
		return nil, err
	}
	return atom, nil
}

// atChild reports whether the next tokens open a nested atom rather than a truth value.
func (p *parser) atChild() bool {
	t, ok := p.peek()
	return ok && t.kind == tokOpen && !p.atTruthValue()
}

func (p *parser) atTruthValue() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos].kind == tokOpen && p.toks[p.pos+1].kind == tokSymbol && p.toks[p.pos+1].text == "stv"
}

// truthValue reads (stv strength confidence).
func (p *parser) truthValue() (domain.TruthValue, error) {
	p.pos += 2
	s, err := p.number("strength")
	if err != nil {
		return domain.TruthValue{}, err
	}
	c, err := p.number("confidence")
	if err != nil {
		return domain.TruthValue{}, err
	}
	if _, err := p.expect(tokClose, "')'"); err != nil {
		return domain.TruthValue{}, err
	}
	if c < 0 || c >= 1 {
		return domain.TruthValue{}, fmt.Errorf("%w: confidence %v outside [0,1)", domain.ErrInvalidTruthValue, c)
	}
	tv := domain.NewTruthValue(s, domain.ConfidenceToCount(c))
	if err := tv.Validate(); err != nil {
		return domain.TruthValue{}, err
	}
	return tv, nil
}

func (p *parser) number(what string) (float64, error) {
	t, err := p.expect(tokSymbol, what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: at %d: %s %q is not a number", ErrSyntax, t.pos, what, t.text)
	}
	return v, nil
}
