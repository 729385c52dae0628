package annlat

// ============================================================
// Parser
// ============================================================

// Parse converts a LaTeX string into an expression tree. Errors are
// *ParseError values wrapping one of ErrNestingMismatch,
// ErrMismatchedDelimiter, ErrMissingDenominator, ErrMalformedOperator or
// ErrIncompleteParse; no partial tree is returned.
func Parse(s string) (Expr, error) {
	e, err := parseTokens(Tokenize(s))
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Input = s
		}
		tracer().Debugf("parse %q: %v", s, err)
		return nil, err
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// authoring code and tests.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// parseTokens handles one token run: text separators first, then
// relational signs, then groups and operators.
func parseTokens(toks []Token) (Expr, error) {
	if len(toks) == 0 {
		return nil, parseErrorf(ErrIncompleteParse, "empty expression")
	}

	if segments := splitTopLevel(toks, func(t Token) bool { return t.is(symTextGlue) }); len(segments) > 1 {
		parts := make([]Expr, 0, len(segments))
		for _, seg := range segments {
			if len(seg) == 0 {
				continue
			}
			p, err := parseTokens(seg)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return TextOf(parts...), nil
	}

	// Splitting at the last sign folds chains to the left: a=b<c is (a=b)<c.
	if i := lastRelation(toks); i >= 0 {
		lhs, err := parseTokens(toks[:i])
		if err != nil {
			return nil, err
		}
		rhs, err := parseTokens(toks[i+1:])
		if err != nil {
			return nil, err
		}
		return RelationOf(lhs, relations[toks[i].Text], rhs), nil
	}

	items, err := collapseGroups(toks)
	if err != nil {
		return nil, err
	}
	return resolve(items)
}

func isOpener(t Token) bool {
	return t.is(symLeft) || t.is(symFrac) || t.is(symOpen)
}

func isCloser(t Token) bool {
	return t.is(symRight) || t.is(symClose)
}

// splitTopLevel splits toks at separators outside any group.
func splitTopLevel(toks []Token, sep func(Token) bool) [][]Token {
	var (
		out   [][]Token
		depth int
		start int
	)
	for i, t := range toks {
		switch {
		case isOpener(t):
			depth++
		case isCloser(t):
			depth--
		case depth == 0 && sep(t):
			out = append(out, toks[start:i])
			start = i + 1
		}
	}
	return append(out, toks[start:])
}

func lastRelation(toks []Token) int {
	depth := 0
	last := -1
	for i, t := range toks {
		switch {
		case isOpener(t):
			depth++
		case isCloser(t):
			depth--
		case depth == 0 && t.Kind == SymbolToken:
			if _, ok := relations[t.Text]; ok {
				last = i
			}
		}
	}
	return last
}

// ============================================================
// Structural extraction
// ============================================================

// item is one element of a flat run: a resolved node or an operator.
type item struct {
	node Expr
	op   string
}

func (it item) isOp() bool { return it.node == nil }

// collapseGroups replaces every \left(..\right), \frac{..}{..} and {..}
// region with its parsed node, leaving a flat run of nodes and operators.
// The construct opening first is handled first; the rest recurses.
func collapseGroups(toks []Token) ([]item, error) {
	at := -1
	for i, t := range toks {
		if isOpener(t) {
			at = i
			break
		}
	}
	if at < 0 {
		return flatItems(toks)
	}

	before, err := flatItems(toks[:at])
	if err != nil {
		return nil, err
	}

	var (
		node Expr
		rest []Token
	)
	switch toks[at].Text {
	case symLeft:
		inside, after, err := extract(toks[at:], symLeft, symRight)
		if err != nil {
			return nil, err
		}
		inner, err := parseTokens(inside)
		if err != nil {
			return nil, err
		}
		node, rest = Wrap(inner), after

	case symFrac:
		numer, after, err := extract(toks[at:], symFrac, symClose)
		if err != nil {
			return nil, err
		}
		if len(after) == 0 || !after[0].is(symOpen) {
			return nil, parseErrorf(ErrMissingDenominator, "no {denominator} after numerator")
		}
		denom, after, err := extract(after, symOpen, symClose)
		if err != nil {
			return nil, err
		}
		n, err := parseTokens(numer)
		if err != nil {
			return nil, err
		}
		d, err := parseTokens(denom)
		if err != nil {
			return nil, err
		}
		node, rest = FracOf(n, d), after

	default:
		inside, after, err := extract(toks[at:], symOpen, symClose)
		if err != nil {
			return nil, err
		}
		inner, err := parseTokens(inside)
		if err != nil {
			return nil, err
		}
		node, rest = inner, after
	}

	after, err := collapseGroups(rest)
	if err != nil {
		return nil, err
	}
	items := append(before, item{node: node})
	return append(items, after...), nil
}

// extract expects toks[0] to be the opening marker and returns the tokens
// inside the balanced region and those after its closing marker. Braces
// opened by \frac{ and { both close with }, so both count towards depth.
func extract(toks []Token, open, close string) (inside, after []Token, err error) {
	depth := 0
	for i, t := range toks {
		switch {
		case t.is(open), close == symClose && (t.is(symFrac) || t.is(symOpen)):
			depth++
		case t.is(close):
			depth--
			if depth == 0 {
				return toks[1:i], toks[i+1:], nil
			}
		}
	}
	return nil, nil, parseErrorf(ErrNestingMismatch, "no closing %s for %s", close, open)
}

// flatItems converts a group-free token run into items.
func flatItems(toks []Token) ([]item, error) {
	items := make([]item, 0, len(toks))
	for _, t := range toks {
		if t.Kind == LiteralToken {
			items = append(items, item{node: A(t.Text)})
			continue
		}
		switch t.Text {
		case symRight:
			return nil, parseErrorf(ErrMismatchedDelimiter, `\right) without \left(`)
		case symClose:
			return nil, parseErrorf(ErrMismatchedDelimiter, "} without {")
		case symPow, symCdot, symPlus, symMinus:
			items = append(items, item{op: t.Text})
		default:
			// Relations and text separators are split off before this point.
			return nil, parseErrorf(ErrMalformedOperator, "unexpected %s", t.Text)
		}
	}
	return items, nil
}

// ============================================================
// Operator resolution
// ============================================================

// precedence orders the operator tiers: ^ binds tightest, then \cdot,
// then +, and - loosest. All tiers are left-associative.
var precedence = map[string]int{
	symMinus: precMinus,
	symPlus:  precPlus,
	symCdot:  precCdot,
	symPow:   precPow,
}

type resolver struct {
	items []item
	pos   int
}

func resolve(items []item) (Expr, error) {
	r := &resolver{items: items}
	e, err := r.expr(0)
	if err != nil {
		return nil, err
	}
	if r.pos < len(r.items) {
		return nil, parseErrorf(ErrIncompleteParse, "%d items left after %s", len(r.items)-r.pos, e.LaTeX())
	}
	return e, nil
}

func (r *resolver) expr(minPrec int) (Expr, error) {
	lhs, err := r.operand()
	if err != nil {
		return nil, err
	}
	for r.pos < len(r.items) {
		it := r.items[r.pos]
		if !it.isOp() {
			break
		}
		prec := precedence[it.op]
		if prec < minPrec {
			break
		}
		r.pos++
		rhs, err := r.expr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = combine(it.op, lhs, rhs)
	}
	return lhs, nil
}

// operand reads one node. A minus in operand position (start of the run or
// right after another operator) negates the operand that follows.
func (r *resolver) operand() (Expr, error) {
	if r.pos >= len(r.items) {
		if r.pos > 0 {
			return nil, parseErrorf(ErrMalformedOperator, "%s has no right operand", r.items[r.pos-1].op)
		}
		return nil, parseErrorf(ErrIncompleteParse, "empty expression")
	}
	it := r.items[r.pos]
	if !it.isOp() {
		r.pos++
		return it.node, nil
	}
	if it.op == symMinus {
		r.pos++
		inner, err := r.operand()
		if err != nil {
			return nil, err
		}
		return Negate(inner), nil
	}
	return nil, parseErrorf(ErrMalformedOperator, "%s has no left operand", it.op)
}

func combine(op string, lhs, rhs Expr) Expr {
	switch op {
	case symPow:
		return PowOf(lhs, rhs)
	case symCdot:
		return ProductOf(lhs, rhs)
	case symPlus:
		return SumOf(lhs, rhs)
	default:
		return Minus(lhs, rhs)
	}
}
