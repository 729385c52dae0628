// Package annlat is the expression engine behind the AnnLat authoring tool.
//
// It turns LaTeX strings into immutable expression trees and back, and
// offers the operations tutoring content is built from:
//   - Parse / LaTeX: a small fixed grammar (sums, products, fractions,
//     powers, negation, relation chains, prose text) and its rendering
//   - Evaluate: float evaluation with canonical rounding
//   - SimplifyTrivial / Simplify: structural and numeric rewriting,
//     iterated to a fixed point
//   - Substitute: parameter substitution for question templates
//   - Table: LaTeX arrays with descriptive statistics and text plots
//
// Every rewrite returns a new tree; nodes are never mutated after
// construction and may be shared between goroutines.
package annlat

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'annlat'.
func tracer() tracing.Trace {
	return tracing.Select("annlat")
}
