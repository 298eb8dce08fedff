package unit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse resolves a unit expression against the registry.
//
// Grammar: products of names and numeric factors, separated by '*', '.',
// '·', or plain adjacency; division by '/'; integer exponents with '^'.
// Division binds the entire adjacent product that follows, so "l/100km"
// means liters per (100 kilometers).
//
// The empty string parses as dimensionless. An offset unit (celsius,
// fahrenheit) is only valid as the whole expression.
func (r *Registry) Parse(expr string) (Unit, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Unit{factor: 1}, nil
	}

	toks, err := lex(trimmed)
	if err != nil {
		return Unit{}, err
	}

	p := &parser{reg: r, expr: trimmed, toks: toks}
	u, err := p.parse()
	if err != nil {
		return Unit{}, err
	}
	u.expr = trimmed
	return u, nil
}

// MustParse is Parse that panics on error. For static unit expressions.
func (r *Registry) MustParse(expr string) Unit {
	u, err := r.Parse(expr)
	if err != nil {
		panic(err)
	}
	return u
}

type tokenKind uint8

const (
	tokName tokenKind = iota
	tokNumber
	tokMul // '*', '.', '·'
	tokDiv // '/'
	tokExp // '^'
)

type token struct {
	kind tokenKind
	text string
}

func lex(expr string) ([]token, error) {
	var toks []token
	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '*' || c == '·':
			toks = append(toks, token{tokMul, string(c)})
			i++
		case c == '/':
			toks = append(toks, token{tokDiv, "/"})
			i++
		case c == '^':
			toks = append(toks, token{tokExp, "^"})
			i++
		case c == '.':
			// A dot between names is multiplication (as in "N.m").
			// Dots inside numbers are consumed by the number scanner.
			toks = append(toks, token{tokMul, "."})
			i++
		case unicode.IsDigit(c) || c == '-' || c == '+':
			start := i
			if c == '-' || c == '+' {
				i++
			}
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("%w: bad number %q in %q", ErrMalformedExpr, text, expr)
			}
			toks = append(toks, token{tokNumber, text})
		case unicode.IsLetter(c) || c == '%' || c == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '%' || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{tokName, string(runes[start:i])})
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedExpr, string(c), expr)
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedExpr, expr)
	}
	return toks, nil
}

type parser struct {
	reg   *Registry
	expr  string
	toks  []token
	pos   int
	terms int // number of term factors consumed
}

func (p *parser) parse() (Unit, error) {
	u, err := p.molecule()
	if err != nil {
		return Unit{}, err
	}
	for p.pos < len(p.toks) {
		op := p.toks[p.pos]
		if op.kind != tokMul && op.kind != tokDiv {
			return Unit{}, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedExpr, op.text, p.expr)
		}
		p.pos++
		m, err := p.molecule()
		if err != nil {
			return Unit{}, err
		}
		if op.kind == tokMul {
			u.factor *= m.factor
			u.dims = u.dims.add(m.dims)
		} else {
			u.factor /= m.factor
			u.dims = u.dims.add(m.dims.scale(-1))
		}
	}
	// An offset survives only when the expression was a single bare name.
	if u.offset != 0 && p.terms != 1 {
		return Unit{}, fmt.Errorf("%w: %q", ErrOffsetCompound, p.expr)
	}
	return u, nil
}

// molecule parses a run of adjacent factors (implicit multiplication).
func (p *parser) molecule() (Unit, error) {
	u, err := p.term()
	if err != nil {
		return Unit{}, err
	}
	for p.pos < len(p.toks) {
		k := p.toks[p.pos].kind
		if k != tokName && k != tokNumber {
			break
		}
		t, err := p.term()
		if err != nil {
			return Unit{}, err
		}
		u.factor *= t.factor
		u.dims = u.dims.add(t.dims)
		if u.offset != 0 || t.offset != 0 {
			return Unit{}, fmt.Errorf("%w: %q", ErrOffsetCompound, p.expr)
		}
	}
	return u, nil
}

func (p *parser) term() (Unit, error) {
	if p.pos >= len(p.toks) {
		return Unit{}, fmt.Errorf("%w: %q ends unexpectedly", ErrMalformedExpr, p.expr)
	}
	tok := p.toks[p.pos]
	p.pos++

	var u Unit
	switch tok.kind {
	case tokName:
		named, ok := p.reg.Lookup(tok.text)
		if !ok {
			return Unit{}, fmt.Errorf("%w: %q in %q", ErrUnknownUnit, tok.text, p.expr)
		}
		u = named
	case tokNumber:
		f, _ := strconv.ParseFloat(tok.text, 64)
		if f == 0 {
			return Unit{}, fmt.Errorf("%w: zero factor in %q", ErrMalformedExpr, p.expr)
		}
		u = Unit{factor: f}
	default:
		return Unit{}, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedExpr, tok.text, p.expr)
	}
	p.terms++

	// Optional integer exponent.
	if p.pos < len(p.toks) && p.toks[p.pos].kind == tokExp {
		p.pos++
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokNumber {
			return Unit{}, fmt.Errorf("%w: missing exponent in %q", ErrMalformedExpr, p.expr)
		}
		n, err := strconv.Atoi(p.toks[p.pos].text)
		if err != nil {
			return Unit{}, fmt.Errorf("%w: non-integer exponent in %q", ErrMalformedExpr, p.expr)
		}
		p.pos++
		if u.offset != 0 && n != 1 {
			return Unit{}, fmt.Errorf("%w: %q", ErrOffsetCompound, p.expr)
		}
		u = u.pow(n)
	}
	return u, nil
}

func (u Unit) pow(n int) Unit {
	r := Unit{factor: 1, offset: u.offset}
	for i := 0; i < abs(n); i++ {
		r.factor *= u.factor
	}
	if n < 0 {
		r.factor = 1 / r.factor
	}
	r.dims = u.dims.scale(n)
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
