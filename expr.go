package annlat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an expression tree. The set of implementations is
// closed; operations such as Evaluate and Simplify switch over them.
type Expr interface {
	// LaTeX renders the node as LaTeX markup.
	LaTeX() string
	// String renders the node as plain text.
	String() string
	exprType() string
}

// ============================================================
// Rendering precedence
// ============================================================

// Operator tiers as the parser reads them. A relation splits before any
// operator and a text separator before any relation.
const (
	precText     = -1
	precRelation = 0
	precMinus    = 1
	precPlus     = 2
	precCdot     = 3
	precPow      = 4
	precAtomic   = 5
)

// prec reports the loosest operator at the top level of e's rendering.
func prec(e Expr) int {
	switch n := e.(type) {
	case *Sum:
		return n.prec()
	case *Product:
		if len(n.factors) == 1 {
			return prec(n.factors[0])
		}
		if len(n.factors) > 1 {
			return precCdot
		}
	case *Power:
		return precPow
	case *Relation:
		return precRelation
	case *Text:
		if len(n.parts) == 1 {
			return prec(n.parts[0])
		}
		if len(n.parts) > 1 {
			return precText
		}
	case *BinaryOp:
		if p, ok := precedence[strings.TrimSpace(n.op)]; ok && len(n.args) > 1 {
			return p
		}
	}
	return precAtomic
}

// operand renders e, grouped when its loosest operator binds less tightly
// than least. LaTeX groups with invisible braces, plain text with
// parentheses.
func operand(e Expr, least int, str func(Expr) string, group func(string) string) string {
	if prec(e) < least {
		return group(str(e))
	}
	return str(e)
}

func braced(s string) string        { return "{" + s + "}" }
func parenthesised(s string) string { return "(" + s + ")" }

// ============================================================
// Atom — number literal or symbol name
// ============================================================

type Atom struct{ value string }

// A builds an atom holding value verbatim.
func A(value string) *Atom { return &Atom{value: value} }

// N builds the canonical node for a number. Negative numbers become a
// Negation of a positive atom, so they render as "-3" and simplify like
// any other negation.
func N(v float64) Expr {
	if v < 0 {
		return Negate(A(FormatNumber(-v)))
	}
	return A(FormatNumber(v))
}

// Numbers converts a list of numbers into nodes, e.g. for a table row.
func Numbers(vals ...float64) []Expr {
	out := make([]Expr, len(vals))
	for i, v := range vals {
		out[i] = N(v)
	}
	return out
}

// Atoms converts a list of strings into atoms.
func Atoms(vals ...string) []Expr {
	out := make([]Expr, len(vals))
	for i, v := range vals {
		out[i] = A(v)
	}
	return out
}

// FormatNumber prints integral values without a fractional part and
// everything else in the shortest decimal form.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *Atom) LaTeX() string    { return a.value }
func (a *Atom) String() string   { return a.value }
func (a *Atom) exprType() string { return "atom" }
func (a *Atom) Value() string    { return a.value }

// ============================================================
// Sum
// ============================================================

type Sum struct{ terms []Expr }

// SumOf builds a sum. Binary sums are the norm; longer sums render fine
// but cannot be evaluated.
func SumOf(terms ...Expr) *Sum {
	return &Sum{terms: append([]Expr(nil), terms...)}
}

// Minus builds a - b as a sum with a negated right operand.
func Minus(a, b Expr) *Sum { return SumOf(a, Negate(b)) }

func (s *Sum) LaTeX() string  { return s.render(Expr.LaTeX, braced) }
func (s *Sum) String() string { return s.render(Expr.String, parenthesised) }

// render joins the terms so that the parser reads back the same tree.
// Minus binds loosest, so a left part holding a subtraction is grouped
// before a + follows it, and a right operand of + is grouped unless it
// binds tighter than +.
func (s *Sum) render(str func(Expr) string, group func(string) string) string {
	if len(s.terms) == 0 {
		return "0"
	}
	out, p := str(s.terms[0]), prec(s.terms[0])
	if p < precMinus {
		out, p = group(out), precAtomic
	}
	for _, t := range s.terms[1:] {
		if _, neg := t.(*Negation); neg {
			out, p = out+str(t), precMinus
			continue
		}
		if p < precPlus {
			out = group(out)
		}
		out, p = out+"+"+operand(t, precCdot, str, group), precPlus
	}
	return out
}

// prec computes the loosest top-level operator of the rendering without
// building it.
func (s *Sum) prec() int {
	if len(s.terms) == 0 {
		return precAtomic
	}
	p := prec(s.terms[0])
	if p < precMinus {
		p = precAtomic
	}
	for _, t := range s.terms[1:] {
		p = precPlus
		if _, neg := t.(*Negation); neg {
			p = precMinus
		}
	}
	return p
}

func (s *Sum) exprType() string { return "sum" }
func (s *Sum) Terms() []Expr    { return append([]Expr(nil), s.terms...) }

// ============================================================
// Product
// ============================================================

type Product struct{ factors []Expr }

// ProductOf builds an n-ary product. Nested products are flattened into
// one factor list, and Sum or Negation factors are wrapped in parentheses.
func ProductOf(factors ...Expr) *Product {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		switch v := f.(type) {
		case *Product:
			flat = append(flat, v.factors...)
		case *Sum, *Negation:
			flat = append(flat, Wrap(v))
		default:
			flat = append(flat, f)
		}
	}
	return &Product{factors: flat}
}

func (p *Product) LaTeX() string  { return p.render(Expr.LaTeX, braced, `\cdot `) }
func (p *Product) String() string { return p.render(Expr.String, parenthesised, "*") }

func (p *Product) render(str func(Expr) string, group func(string) string, sep string) string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		least := precPow
		if i == 0 {
			least = precCdot
		}
		parts[i] = operand(f, least, str, group)
	}
	return strings.Join(parts, sep)
}

func (p *Product) exprType() string { return "product" }
func (p *Product) Factors() []Expr  { return append([]Expr(nil), p.factors...) }

// ============================================================
// Fraction
// ============================================================

type Fraction struct{ numer, denom Expr }

func FracOf(numer, denom Expr) *Fraction { return &Fraction{numer: numer, denom: denom} }

func (f *Fraction) LaTeX() string {
	return `\frac{` + f.numer.LaTeX() + `}{` + f.denom.LaTeX() + `}`
}

func (f *Fraction) String() string {
	return plainOperand(f.numer) + "/" + plainOperand(f.denom)
}

func (f *Fraction) exprType() string { return "fraction" }
func (f *Fraction) Numer() Expr      { return f.numer }
func (f *Fraction) Denom() Expr      { return f.denom }

// plainOperand parenthesises compound nodes in plain-text output.
func plainOperand(e Expr) string {
	switch e.(type) {
	case *Atom, *Wrapped:
		return e.String()
	}
	return "(" + e.String() + ")"
}

// ============================================================
// Power
// ============================================================

type Power struct{ base, exp Expr }

// PowOf builds base^exp; a base that is not an atom is wrapped.
func PowOf(base, exp Expr) *Power {
	switch base.(type) {
	case *Atom, *Wrapped:
	default:
		base = Wrap(base)
	}
	return &Power{base: base, exp: exp}
}

func (p *Power) LaTeX() string    { return p.base.LaTeX() + "^{" + p.exp.LaTeX() + "}" }
func (p *Power) String() string   { return p.base.String() + "^" + plainOperand(p.exp) }
func (p *Power) exprType() string { return "power" }
func (p *Power) Base() Expr       { return p.base }
func (p *Power) Exp() Expr        { return p.exp }

// ============================================================
// Negation
// ============================================================

type Negation struct{ inner Expr }

// Negate returns -e. Negating a negation yields its operand, and a
// negated sum is wrapped so it renders as -(a+b).
func Negate(e Expr) Expr {
	switch v := e.(type) {
	case *Negation:
		return v.inner
	case *Sum:
		e = Wrap(v)
	}
	return &Negation{inner: e}
}

// A negation binds to the single operand after it, so anything but an
// atomic inner node is grouped.
func (n *Negation) LaTeX() string {
	return "-" + operand(n.inner, precAtomic, Expr.LaTeX, braced)
}

func (n *Negation) String() string {
	return "-" + operand(n.inner, precAtomic, Expr.String, parenthesised)
}

func (n *Negation) exprType() string { return "negation" }
func (n *Negation) Inner() Expr      { return n.inner }

// ============================================================
// Wrapped — explicit parentheses
// ============================================================

type Wrapped struct{ inner Expr }

func Wrap(e Expr) *Wrapped { return &Wrapped{inner: e} }

func (w *Wrapped) LaTeX() string    { return `\left(` + w.inner.LaTeX() + `\right)` }
func (w *Wrapped) String() string   { return "(" + w.inner.String() + ")" }
func (w *Wrapped) exprType() string { return "wrapped" }
func (w *Wrapped) Inner() Expr      { return w.inner }

// ============================================================
// Text — prose mixed with math
// ============================================================

type Text struct{ parts []Expr }

// TextOf joins parts with spaces:
// TextOf(A("area"), A("is"), FracOf(A("1"), A("2"))) renders as
// area\ is\ \frac{1}{2}.
func TextOf(parts ...Expr) *Text { return &Text{parts: append([]Expr(nil), parts...)} }

// Words splits s on spaces into a Text of atoms; a single word stays an Atom.
func Words(s string) Expr {
	fields := strings.Fields(s)
	if len(fields) == 1 {
		return A(fields[0])
	}
	return TextOf(Atoms(fields...)...)
}

func (t *Text) LaTeX() string  { return t.render(Expr.LaTeX, braced, `\ `) }
func (t *Text) String() string { return t.render(Expr.String, parenthesised, " ") }

func (t *Text) render(str func(Expr) string, group func(string) string, sep string) string {
	parts := make([]string, len(t.parts))
	for i, p := range t.parts {
		parts[i] = operand(p, precRelation, str, group)
	}
	return strings.Join(parts, sep)
}

func (t *Text) exprType() string { return "text" }
func (t *Text) Parts() []Expr    { return append([]Expr(nil), t.parts...) }

// ============================================================
// Relation — comparison chains
// ============================================================

// RelOp is a relational sign as rendered in LaTeX.
type RelOp string

const (
	RelEq RelOp = "="
	RelLt RelOp = "<"
	RelGt RelOp = ">"
	RelLe RelOp = `\leq`
	RelGe RelOp = `\geq`
)

func (op RelOp) plain() string {
	switch op {
	case RelLe:
		return "<="
	case RelGe:
		return ">="
	}
	return string(op)
}

func (op RelOp) valid() bool {
	switch op {
	case RelEq, RelLt, RelGt, RelLe, RelGe:
		return true
	}
	return false
}

type Relation struct {
	parts []Expr
	ops   []RelOp
}

func RelationOf(lhs Expr, op RelOp, rhs Expr) *Relation {
	return &Relation{parts: []Expr{lhs, rhs}, ops: []RelOp{op}}
}

func Eq(lhs, rhs Expr) *Relation { return RelationOf(lhs, RelEq, rhs) }
func Lt(lhs, rhs Expr) *Relation { return RelationOf(lhs, RelLt, rhs) }
func Gt(lhs, rhs Expr) *Relation { return RelationOf(lhs, RelGt, rhs) }
func Le(lhs, rhs Expr) *Relation { return RelationOf(lhs, RelLe, rhs) }
func Ge(lhs, rhs Expr) *Relation { return RelationOf(lhs, RelGe, rhs) }

// Chain builds a relation a op0 b op1 c ...; it needs exactly one more
// part than operators, and every operator must be one of the Rel signs.
func Chain(parts []Expr, ops []RelOp) (*Relation, error) {
	if len(parts) != len(ops)+1 || len(ops) == 0 {
		return nil, fmt.Errorf("%w: relation needs %d parts for %d operators, got %d", ErrMalformedOperator, len(ops)+1, len(ops), len(parts))
	}
	for _, op := range ops {
		if !op.valid() {
			return nil, fmt.Errorf("%w: unknown relation sign %q", ErrMalformedOperator, op)
		}
	}
	return &Relation{
		parts: append([]Expr(nil), parts...),
		ops:   append([]RelOp(nil), ops...),
	}, nil
}

func (r *Relation) LaTeX() string {
	return r.render(Expr.LaTeX, braced, func(op RelOp) string { return string(op) })
}

func (r *Relation) String() string {
	return r.render(Expr.String, parenthesised, func(op RelOp) string { return " " + op.plain() + " " })
}

// render keeps nested relations on the left, where the parser folds them.
func (r *Relation) render(str func(Expr) string, group func(string) string, sign func(RelOp) string) string {
	var sb strings.Builder
	for i, p := range r.parts {
		least := precRelation
		if i > 0 {
			sb.WriteString(sign(r.ops[i-1]))
			least = precMinus
		}
		sb.WriteString(operand(p, least, str, group))
	}
	return sb.String()
}

func (r *Relation) exprType() string { return "relation" }
func (r *Relation) Lhs() Expr        { return r.parts[0] }
func (r *Relation) Rhs() Expr        { return r.parts[len(r.parts)-1] }
func (r *Relation) Parts() []Expr    { return append([]Expr(nil), r.parts...) }
func (r *Relation) Ops() []RelOp     { return append([]RelOp(nil), r.ops...) }

// ============================================================
// BinaryOp — operators without a dedicated node
// ============================================================

type BinaryOp struct {
	op   string
	args []Expr
}

// BinOp joins args with op, e.g. BinOp(`\div`, A("6"), A("3")). Operands
// after the first that are themselves operations on a negative first
// argument are wrapped.
func BinOp(op string, args ...Expr) *BinaryOp {
	out := make([]Expr, len(args))
	for i, a := range args {
		if b, ok := a.(*BinaryOp); ok && i > 0 && len(b.args) > 0 {
			if _, neg := b.args[0].(*Negation); neg {
				a = Wrap(b)
			}
		}
		out[i] = a
	}
	return &BinaryOp{op: op, args: out}
}

func (b *BinaryOp) LaTeX() string {
	parts := make([]string, len(b.args))
	for i, a := range b.args {
		parts[i] = a.LaTeX()
	}
	return strings.Join(parts, b.op)
}

func (b *BinaryOp) String() string {
	parts := make([]string, len(b.args))
	for i, a := range b.args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " "+strings.TrimSpace(b.op)+" ")
}

func (b *BinaryOp) exprType() string { return "binop" }
func (b *BinaryOp) Op() string       { return b.op }
func (b *BinaryOp) Args() []Expr     { return append([]Expr(nil), b.args...) }

// ============================================================
// Underline
// ============================================================

type Underline struct{ inner Expr }

func UnderlineOf(e Expr) *Underline { return &Underline{inner: e} }

func (u *Underline) LaTeX() string    { return `\underline{` + u.inner.LaTeX() + "}" }
func (u *Underline) String() string   { return u.inner.String() }
func (u *Underline) exprType() string { return "underline" }
func (u *Underline) Inner() Expr      { return u.inner }
