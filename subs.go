package annlat

import "fmt"

// ============================================================
// Substitution
// ============================================================

// Params maps variable names to the expressions substituted for them.
type Params map[string]Expr

// Substitute replaces every atom whose text is a key of params with a copy
// of the mapped expression. The walk is pre-order and does not descend
// into substituted subtrees, so {"x": x+1} expands once.
func Substitute(e Expr, params Params) Expr {
	if len(params) == 0 {
		return e
	}
	sub := func(c Expr) Expr { return Substitute(c, params) }
	switch n := e.(type) {
	case *Atom:
		if v, ok := params[n.value]; ok {
			return Copy(v)
		}
		return n
	case *Negation:
		return Negate(sub(n.inner))
	case *Wrapped:
		return Wrap(sub(n.inner))
	case *Underline:
		return UnderlineOf(sub(n.inner))
	case *Sum:
		return SumOf(mapExprs(n.terms, sub)...)
	case *Product:
		return ProductOf(mapExprs(n.factors, sub)...)
	case *Fraction:
		return FracOf(sub(n.numer), sub(n.denom))
	case *Power:
		return PowOf(sub(n.base), sub(n.exp))
	case *Text:
		return TextOf(mapExprs(n.parts, sub)...)
	case *Relation:
		return &Relation{parts: mapExprs(n.parts, sub), ops: n.Ops()}
	case *BinaryOp:
		return BinOp(n.op, mapExprs(n.args, sub)...)
	case *Table:
		return n.mapCells(sub)
	}
	panic(fmt.Sprintf("annlat: Substitute: unhandled node %T", e))
}

// SubstituteValues is Substitute with numeric parameters.
func SubstituteValues(e Expr, values map[string]float64) Expr {
	params := make(Params, len(values))
	for k, v := range values {
		params[k] = N(v)
	}
	return Substitute(e, params)
}

// ============================================================
// Copy and equality
// ============================================================

// Copy returns a deep copy of e sharing no nodes with it.
func Copy(e Expr) Expr {
	switch n := e.(type) {
	case *Atom:
		return A(n.value)
	case *Negation:
		return &Negation{inner: Copy(n.inner)}
	case *Wrapped:
		return Wrap(Copy(n.inner))
	case *Underline:
		return UnderlineOf(Copy(n.inner))
	case *Sum:
		return &Sum{terms: mapExprs(n.terms, Copy)}
	case *Product:
		return &Product{factors: mapExprs(n.factors, Copy)}
	case *Fraction:
		return FracOf(Copy(n.numer), Copy(n.denom))
	case *Power:
		return &Power{base: Copy(n.base), exp: Copy(n.exp)}
	case *Text:
		return &Text{parts: mapExprs(n.parts, Copy)}
	case *Relation:
		return &Relation{parts: mapExprs(n.parts, Copy), ops: n.Ops()}
	case *BinaryOp:
		return &BinaryOp{op: n.op, args: mapExprs(n.args, Copy)}
	case *Table:
		return n.mapCells(Copy)
	}
	panic(fmt.Sprintf("annlat: Copy: unhandled node %T", e))
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Expr) bool {
	if a.exprType() != b.exprType() {
		return false
	}
	switch x := a.(type) {
	case *Atom:
		return x.value == b.(*Atom).value
	case *Negation:
		return Equal(x.inner, b.(*Negation).inner)
	case *Wrapped:
		return Equal(x.inner, b.(*Wrapped).inner)
	case *Underline:
		return Equal(x.inner, b.(*Underline).inner)
	case *Sum:
		return equalAll(x.terms, b.(*Sum).terms)
	case *Product:
		return equalAll(x.factors, b.(*Product).factors)
	case *Fraction:
		y := b.(*Fraction)
		return Equal(x.numer, y.numer) && Equal(x.denom, y.denom)
	case *Power:
		y := b.(*Power)
		return Equal(x.base, y.base) && Equal(x.exp, y.exp)
	case *Text:
		return equalAll(x.parts, b.(*Text).parts)
	case *Relation:
		y := b.(*Relation)
		if len(x.ops) != len(y.ops) {
			return false
		}
		for i := range x.ops {
			if x.ops[i] != y.ops[i] {
				return false
			}
		}
		return equalAll(x.parts, y.parts)
	case *BinaryOp:
		y := b.(*BinaryOp)
		return x.op == y.op && equalAll(x.args, y.args)
	case *Table:
		return x.equal(b.(*Table))
	}
	return false
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
