package annlat_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/njchilds90/annlat"
)

var (
	x = annlat.A("x")
	y = annlat.A("y")
)

// ============================================================
// Trivial pass
// ============================================================

func TestSimplifyTrivial_Identities(t *testing.T) {
	tests := []struct {
		e    annlat.Expr
		want string
	}{
		{annlat.ProductOf(x, annlat.A("1")), "x"},
		{annlat.ProductOf(annlat.A("1"), x, annlat.N(-1)), "-x"},
		{annlat.ProductOf(x, annlat.A("0")), "0"},
		{annlat.ProductOf(annlat.N(-2), annlat.N(-3)), `2\cdot 3`},
		{annlat.ProductOf(x, annlat.N(-2)), `-{x\cdot 2}`},
		{annlat.ProductOf(annlat.Negate(annlat.A("0")), x), "0"},
		{annlat.Negate(annlat.A("0")), "0"},
		{annlat.SumOf(annlat.A("0"), annlat.A("0")), "0"},
		{annlat.FracOf(x, annlat.Negate(annlat.Wrap(annlat.A("1")))), "-x"},
		{annlat.FracOf(annlat.A("0"), annlat.N(-1)), "0"},
		{annlat.FracOf(annlat.A("0"), x), "0"},
		{annlat.FracOf(x, annlat.A("1")), "x"},
		{annlat.FracOf(x, annlat.N(-1)), "-x"},
		{annlat.FracOf(annlat.N(-3), annlat.N(-4)), `\frac{3}{4}`},
		{annlat.FracOf(annlat.N(-3), x), `-\frac{3}{x}`},
		{annlat.FracOf(x, annlat.N(-4)), `-\frac{x}{4}`},
		{annlat.SumOf(x, annlat.A("0")), "x"},
		{annlat.SumOf(annlat.A("0"), x), "x"},
		{annlat.FracOf(annlat.ProductOf(x, annlat.A("1")), annlat.A("1")), "x"},
		{annlat.Negate(annlat.Negate(annlat.N(7))), "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, annlat.SimplifyTrivial(tt.e).LaTeX(), tt.e.LaTeX())
	}
}

func TestSimplifyTrivial_MatchesRenderedConstants(t *testing.T) {
	// Only the exact renderings "0", "1" and "-1" count.
	e := annlat.ProductOf(x, annlat.A("1.0"))
	assert.Equal(t, `x\cdot 1.0`, annlat.SimplifyTrivial(e).LaTeX())
	e = annlat.ProductOf(x, annlat.Wrap(annlat.A("0")))
	assert.Equal(t, `x\cdot \left(0\right)`, annlat.SimplifyTrivial(e).LaTeX())
}

func TestSimplifyTrivial_DoesNotEvaluate(t *testing.T) {
	e := parse(t, `3+\frac{4}{2}`)
	assert.Equal(t, `3+\frac{4}{2}`, annlat.SimplifyTrivial(e).LaTeX())
}

func TestSimplifyTrivial_Idempotent(t *testing.T) {
	inputs := []string{
		`1\cdot x\cdot -1`,
		`\frac{-3}{-4}`,
		`\frac{x\cdot 1}{1}+0`,
		`0\cdot y+\frac{0}{x}`,
		`-\left(-x\right)`,
		`\frac{-\left(x+1\right)}{-1}`,
		`y=\frac{x}{1}`,
		`2\cdot\left(x+\frac{2}{3}\right)`,
		`\left(-0\right)\cdot x`,
		`-0\cdot x`,
		`\frac{0-0}{y}`,
		`\frac{-\left(0\right)}{y}`,
		`\frac{x}{-\left(1\right)}`,
		`\frac{-x}{-\left(1\right)}`,
		`x-0`,
	}
	for _, in := range inputs {
		once := annlat.SimplifyTrivial(parse(t, in))
		twice := annlat.SimplifyTrivial(once)
		assert.Equal(t, once.LaTeX(), twice.LaTeX(), in)
	}
}

func TestSimplifyTrivial_IdempotentOnRandomTrees(t *testing.T) {
	g := newExprGen(3, "0", "1", "x", "2")
	for i := 0; i < 2000; i++ {
		e := g.expr(4)
		once := annlat.SimplifyTrivial(e)
		twice := annlat.SimplifyTrivial(once)
		assert.Equal(t, once.LaTeX(), twice.LaTeX(), e.LaTeX())
	}
}

// ============================================================
// Full simplification
// ============================================================

func TestSimplify_Numeric(t *testing.T) {
	assert.Equal(t, "5", annlat.Simplify(parse(t, `3+\frac{4}{2}`)).LaTeX())
	assert.Equal(t, "13", annlat.Simplify(parse(t, `3+4^2-6`)).LaTeX())
	assert.Equal(t, "-1", annlat.Simplify(parse(t, `3+\frac{4}{2}-6`)).LaTeX())
	assert.Equal(t, "3.2", annlat.Simplify(parse(t, `\frac{32}{10}`)).LaTeX())
}

func TestSimplify_DoubleNegation(t *testing.T) {
	assert.Equal(t, "7", annlat.Simplify(annlat.Negate(annlat.Negate(annlat.N(7)))).LaTeX())
}

func TestSimplify_MergesNestedNumbers(t *testing.T) {
	tests := []struct {
		e    annlat.Expr
		want string
	}{
		{annlat.SumOf(annlat.N(4), annlat.SumOf(x, annlat.N(3))), "7+x"},
		{annlat.SumOf(annlat.SumOf(x, annlat.N(3)), annlat.N(4)), "x+7"},
		{annlat.SumOf(annlat.Wrap(annlat.SumOf(x, annlat.N(1))), annlat.Wrap(annlat.SumOf(y, annlat.N(2)))), "x+y+3"},
		{parse(t, `2\cdot x+3+4`), `2\cdot x+7`},
		{annlat.Minus(x, annlat.A("0")), "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, annlat.Simplify(tt.e).LaTeX(), tt.e.LaTeX())
	}
}

func TestSimplify_Relation(t *testing.T) {
	assert.Equal(t, "y=3", annlat.Simplify(parse(t, `y=1+2`)).LaTeX())
	assert.Equal(t, `x\leq4`, annlat.Simplify(parse(t, `x<=2\cdot 2`)).LaTeX())
}

func TestSimplify_LeavesUnevaluableAlone(t *testing.T) {
	assert.Equal(t, `\frac{1}{0}`, annlat.Simplify(parse(t, `\frac{1}{0}`)).LaTeX())
	assert.Equal(t, `area\ is\ 3`, annlat.Simplify(parse(t, `area\ is\ 3`)).LaTeX())
}

func TestSimplify_FixedPoint(t *testing.T) {
	inputs := []string{
		`3+\frac{4}{2}-6`,
		`2\cdot\left(x+\frac{2}{3}\right)`,
		`\frac{x\cdot 1}{1}+0`,
		`4+x+3`,
		`a-b+c`,
		`y=2\cdot x+1+1`,
		`\frac{-3}{-4}\cdot x`,
	}
	for _, in := range inputs {
		r := annlat.Simplify(parse(t, in))
		assert.Equal(t, r.LaTeX(), annlat.Simplify(r).LaTeX(), in)
	}
}

func TestSimplify_PreservesValue(t *testing.T) {
	inputs := []string{
		`3+\frac{4}{2}-6`,
		`\frac{1}{3}+\frac{1}{3}`,
		`2\cdot\left(1+\frac{2}{3}\right)`,
		`-\left(-4\right)^{2}`,
		`\frac{-3}{-4}`,
	}
	for _, in := range inputs {
		e := parse(t, in)
		want, err := annlat.Evaluate(e)
		assert.NoError(t, err, in)
		got, err := annlat.Evaluate(annlat.Simplify(e))
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestSimplify_Table(t *testing.T) {
	tbl := annlat.TableOf([]annlat.Expr{annlat.N(1), annlat.N(2), annlat.SumOf(annlat.N(1), annlat.N(2))})
	want := lines(`\begin{array}{|c|c|c|}`, `\hline 1&2&3\\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, annlat.Simplify(tbl).LaTeX())
}

func TestSimplifier_IterationCeiling(t *testing.T) {
	// Each pass merges one level of nested numbers.
	e := parse(t, `x+1+2+3`)
	assert.Equal(t, "x+1+5", annlat.NewSimplifier(1, annlat.DefaultPlaces).Simplify(e).LaTeX())
	assert.Equal(t, "x+6", annlat.NewSimplifier(2, annlat.DefaultPlaces).Simplify(e).LaTeX())
	assert.Equal(t, "x+6", annlat.Simplify(e).LaTeX())
}

func TestSimplifier_Places(t *testing.T) {
	s := annlat.NewSimplifier(annlat.DefaultMaxIterations, 2)
	assert.Equal(t, "0.33", s.Simplify(parse(t, `\frac{1}{3}`)).LaTeX())
}
