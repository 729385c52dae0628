package annlat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Evaluation
// ============================================================

const (
	// DefaultPlaces is the rounding applied by Evaluate.
	DefaultPlaces = 4
	// StatsPlaces is the rounding applied by table statistics.
	StatsPlaces = 2
)

// Evaluate computes the numeric value of e. Integral results are exact;
// others are rounded to DefaultPlaces decimals to hide float noise.
// Symbolic atoms, relations, text and tables yield ErrNotANumber; a Sum
// of more than two terms yields ErrTooManyOperands.
func Evaluate(e Expr) (float64, error) { return evaluate(e, DefaultPlaces) }

// EvaluatePlaces is Evaluate with a custom rounding.
func EvaluatePlaces(e Expr, places int) (float64, error) { return evaluate(e, places) }

// Canonical rounds v to places decimals unless it is already integral.
func Canonical(v float64, places int) float64 {
	if v == math.Trunc(v) {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func finite(v float64, e Expr, places int) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrNotANumber, e.LaTeX())
	}
	return Canonical(v, places), nil
}

func evaluate(e Expr, places int) (float64, error) {
	switch n := e.(type) {
	case *Atom:
		v, err := strconv.ParseFloat(strings.TrimSpace(n.value), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, n.value)
		}
		return finite(v, n, places)

	case *Negation:
		v, err := evaluate(n.inner, places)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *Wrapped:
		return evaluate(n.inner, places)

	case *Underline:
		return evaluate(n.inner, places)

	case *Sum:
		if len(n.terms) > 2 {
			return 0, fmt.Errorf("%w: sum of %d terms", ErrTooManyOperands, len(n.terms))
		}
		acc := 0.0
		for _, t := range n.terms {
			v, err := evaluate(t, places)
			if err != nil {
				return 0, err
			}
			acc += v
		}
		return finite(acc, n, places)

	case *Product:
		acc := 1.0
		for _, f := range n.factors {
			v, err := evaluate(f, places)
			if err != nil {
				return 0, err
			}
			acc *= v
		}
		return finite(acc, n, places)

	case *Fraction:
		num, err := evaluate(n.numer, places)
		if err != nil {
			return 0, err
		}
		den, err := evaluate(n.denom, places)
		if err != nil {
			return 0, err
		}
		return finite(num/den, n, places)

	case *Power:
		b, err := evaluate(n.base, places)
		if err != nil {
			return 0, err
		}
		x, err := evaluate(n.exp, places)
		if err != nil {
			return 0, err
		}
		return finite(math.Pow(b, x), n, places)

	case *BinaryOp:
		return evaluateBinOp(n, places)

	case *Text, *Relation, *Table:
		return 0, fmt.Errorf("%w: %s has no value", ErrNotANumber, e.exprType())
	}
	panic(fmt.Sprintf("annlat: evaluate: unhandled node %T", e))
}

func evaluateBinOp(b *BinaryOp, places int) (float64, error) {
	if len(b.args) == 0 {
		return 0, fmt.Errorf("%w: %s without operands", ErrNotANumber, b.op)
	}
	var apply func(a, c float64) float64
	switch strings.TrimSpace(b.op) {
	case "+":
		apply = func(a, c float64) float64 { return a + c }
	case "-":
		apply = func(a, c float64) float64 { return a - c }
	case "*", `\cdot`, `\times`:
		apply = func(a, c float64) float64 { return a * c }
	case "/", `\div`:
		apply = func(a, c float64) float64 { return a / c }
	case "^":
		apply = math.Pow
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrNotANumber, b.op)
	}
	acc, err := evaluate(b.args[0], places)
	if err != nil {
		return 0, err
	}
	for _, a := range b.args[1:] {
		v, err := evaluate(a, places)
		if err != nil {
			return 0, err
		}
		acc = apply(acc, v)
	}
	return finite(acc, b, places)
}
