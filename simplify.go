package annlat

// ============================================================
// Simplification
// ============================================================

// DefaultMaxIterations bounds the fixed-point loop of Simplify.
const DefaultMaxIterations = 32

// Simplifier runs trivial and full passes until the rendered LaTeX stops
// changing. The zero value is not usable; see NewSimplifier.
type Simplifier struct {
	maxIterations int
	places        int
}

func NewSimplifier(maxIterations, places int) *Simplifier {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if places < 0 {
		places = DefaultPlaces
	}
	return &Simplifier{maxIterations: maxIterations, places: places}
}

var defaultSimplifier = NewSimplifier(DefaultMaxIterations, DefaultPlaces)

// Simplify simplifies e with the default iteration ceiling and rounding.
func Simplify(e Expr) Expr { return defaultSimplifier.Simplify(e) }

// Simplify alternates a trivial and a full pass until a fixed point or the
// iteration ceiling. It never fails; at worst e comes back unchanged.
func (s *Simplifier) Simplify(e Expr) Expr {
	cur := e
	prev := cur.LaTeX()
	for i := 0; i < s.maxIterations; i++ {
		cur = s.Full(SimplifyTrivial(cur))
		latex := cur.LaTeX()
		if latex == prev {
			tracer().Debugf("simplify: fixed point %s after %d passes", latex, i+1)
			return cur
		}
		prev = latex
	}
	tracer().Infof("simplify: iteration ceiling %d reached at %s", s.maxIterations, prev)
	return cur
}

// ============================================================
// Trivial pass
// ============================================================

// SimplifyTrivial applies structural identities bottom-up without
// evaluating anything: x*1, x*(-1), x*0, 0/x, x/1, x/(-1), x+0, -0, sign
// cancellation and hoisting. Zero and one are recognised by their
// rendered LaTeX ("0", "1", "-1"), so "1.0" or "\left(0\right)" do not
// count. The result is a fixed point: simplifying it again changes nothing.
func SimplifyTrivial(e Expr) Expr {
	switch n := e.(type) {
	case *Atom:
		return n

	case *Negation:
		return negate(SimplifyTrivial(n.inner))

	case *Wrapped:
		inner := SimplifyTrivial(n.inner)
		// Parentheses around a sign go, also once the sign has cancelled;
		// constructors re-add them where an operator requires it.
		_, signed := n.inner.(*Negation)
		if _, neg := inner.(*Negation); neg || signed {
			return inner
		}
		return Wrap(inner)

	case *Sum:
		terms := mapExprs(n.terms, SimplifyTrivial)
		if len(terms) == 2 {
			if isZero(terms[1]) {
				return terms[0]
			}
			if isZero(terms[0]) {
				return terms[1]
			}
		}
		return SumOf(terms...)

	case *Product:
		return trivialProduct(mapExprs(n.factors, SimplifyTrivial))

	case *Fraction:
		return trivialFraction(SimplifyTrivial(n.numer), SimplifyTrivial(n.denom))

	case *Power:
		return PowOf(SimplifyTrivial(n.base), SimplifyTrivial(n.exp))

	case *Text:
		return n

	case *Relation:
		return &Relation{parts: mapExprs(n.parts, SimplifyTrivial), ops: n.Ops()}

	case *BinaryOp:
		return BinOp(n.op, mapExprs(n.args, SimplifyTrivial)...)

	case *Underline:
		return UnderlineOf(SimplifyTrivial(n.inner))

	case *Table:
		return n.mapCells(SimplifyTrivial)
	}
	panic("annlat: SimplifyTrivial: unhandled node " + e.exprType())
}

func isZero(e Expr) bool { return e.LaTeX() == "0" }

// negate is Negate that keeps zero unsigned.
func negate(e Expr) Expr {
	if isZero(e) {
		return e
	}
	return Negate(e)
}

// trivialProduct hoists signs before the identity checks, so -0 and -1
// factors are recognised.
func trivialProduct(factors []Expr) Expr {
	negative := false
	kept := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if neg, ok := f.(*Negation); ok {
			negative = !negative
			f = neg.inner
		}
		switch f.LaTeX() {
		case "0":
			return A("0")
		case "1":
			continue
		case "-1":
			negative = !negative
			continue
		}
		kept = append(kept, f)
	}
	var out Expr
	switch len(kept) {
	case 0:
		out = A("1")
	case 1:
		out = kept[0]
	default:
		out = ProductOf(kept...)
	}
	if negative {
		return negate(out)
	}
	return out
}

// trivialFraction checks the identities again once a sign is hoisted,
// since dropping parentheses may expose a 0 or 1.
func trivialFraction(numer, denom Expr) Expr {
	if isZero(numer) {
		return A("0")
	}
	switch denom.LaTeX() {
	case "1":
		return numer
	case "-1":
		return negate(numer)
	}
	nn, numerNeg := numer.(*Negation)
	dn, denomNeg := denom.(*Negation)
	switch {
	case numerNeg && denomNeg:
		return trivialFraction(unparen(nn.inner), unparen(dn.inner))
	case numerNeg:
		return negate(trivialFraction(unparen(nn.inner), denom))
	case denomNeg:
		return negate(trivialFraction(numer, unparen(dn.inner)))
	}
	return FracOf(numer, denom)
}

// unparen drops parentheses a fraction bar makes redundant.
func unparen(e Expr) Expr {
	if w, ok := e.(*Wrapped); ok {
		return w.inner
	}
	return e
}

// ============================================================
// Full pass
// ============================================================

// Full runs one numeric pass: any subtree that evaluates is replaced by
// its canonical number; otherwise children are processed, merging loose
// numbers across one level of nested sums.
func (s *Simplifier) Full(e Expr) Expr {
	if v, err := evaluate(e, s.places); err == nil {
		return N(v)
	}
	switch n := e.(type) {
	case *Atom, *Text:
		return n

	case *Negation:
		return Negate(s.Full(n.inner))

	case *Wrapped:
		return Wrap(s.Full(n.inner))

	case *Fraction:
		switch n.denom.LaTeX() {
		case "1":
			return s.Full(n.numer)
		case "-1":
			return Negate(s.Full(n.numer))
		}
		return FracOf(s.Full(n.numer), s.Full(n.denom))

	case *Product:
		return ProductOf(mapExprs(n.factors, s.Full)...)

	case *Power:
		return PowOf(s.Full(n.base), s.Full(n.exp))

	case *Sum:
		return s.fullSum(n)

	case *Relation:
		return &Relation{parts: mapExprs(n.parts, s.Full), ops: n.Ops()}

	case *BinaryOp:
		return BinOp(n.op, mapExprs(n.args, s.Full)...)

	case *Underline:
		return UnderlineOf(s.Full(n.inner))

	case *Table:
		return n.mapCells(s.Full)
	}
	panic("annlat: Full: unhandled node " + e.exprType())
}

func (s *Simplifier) fullSum(n *Sum) Expr {
	if len(n.terms) != 2 {
		return SumOf(mapExprs(n.terms, s.Full)...)
	}
	l, r := n.terms[0], n.terms[1]
	zeroL, zeroR := l.LaTeX() == "0", r.LaTeX() == "0"
	if zeroL && !zeroR {
		return s.Full(r)
	}
	if zeroR && !zeroL {
		return s.Full(l)
	}
	if mergeable(l) && mergeable(r) {
		l, r = s.mergeNumbers(l, r)
	}
	return SumOf(s.Full(l), s.Full(r))
}

// mergeable reports whether a summand takes part in number merging:
// atoms, negated atoms and (possibly parenthesised) sums.
func mergeable(e Expr) bool {
	switch v := e.(type) {
	case *Atom, *Sum:
		return true
	case *Negation:
		_, ok := v.inner.(*Atom)
		return ok
	case *Wrapped:
		_, ok := v.inner.(*Sum)
		return ok
	}
	return false
}

func asSum(e Expr) (*Sum, bool) {
	if w, ok := e.(*Wrapped); ok {
		e = w.inner
	}
	sum, ok := e.(*Sum)
	return sum, ok && len(sum.terms) == 2
}

// mergeNumbers moves a number found in a nested sum next to the other
// number of l+r: 4+(x+3) becomes 7+x, (x+3)+4 becomes x+7, and
// (x+1)+(y+2) becomes (x+y)+3.
func (s *Simplifier) mergeNumbers(l, r Expr) (Expr, Expr) {
	lv, lerr := evaluate(l, s.places)
	rv, rerr := evaluate(r, s.places)
	switch {
	case lerr == nil && rerr != nil:
		if n, ok := s.numberIn(r); ok {
			return N(Canonical(lv+n, s.places)), s.symbolicIn(r)
		}
	case lerr != nil && rerr == nil:
		if n, ok := s.numberIn(l); ok {
			return s.symbolicIn(l), N(Canonical(rv+n, s.places))
		}
	case lerr != nil && rerr != nil:
		ln, lok := s.numberIn(l)
		rn, rok := s.numberIn(r)
		if lok && rok {
			return SumOf(s.symbolicIn(l), s.symbolicIn(r)), N(Canonical(ln+rn, s.places))
		}
	}
	return l, r
}

// numberIn returns the value of the numeric summand of a binary sum.
func (s *Simplifier) numberIn(e Expr) (float64, bool) {
	sum, ok := asSum(e)
	if !ok {
		return 0, false
	}
	for _, t := range sum.terms {
		if v, err := evaluate(t, s.places); err == nil {
			return v, true
		}
	}
	return 0, false
}

// symbolicIn returns the summand numberIn did not pick.
func (s *Simplifier) symbolicIn(e Expr) Expr {
	sum, _ := asSum(e)
	if _, err := evaluate(sum.terms[0], s.places); err == nil {
		return sum.terms[1]
	}
	if _, err := evaluate(sum.terms[1], s.places); err == nil {
		return sum.terms[0]
	}
	return sum
}

func mapExprs(es []Expr, f func(Expr) Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = f(e)
	}
	return out
}
