package annlat

import (
	"errors"
	"fmt"
)

var (
	// ErrNestingMismatch reports a group whose closing marker is missing.
	ErrNestingMismatch = errors.New("nesting mismatch")
	// ErrMismatchedDelimiter reports a closing marker without an opener.
	ErrMismatchedDelimiter = errors.New("mismatched delimiter")
	// ErrMissingDenominator reports \frac{num} not followed by {den}.
	ErrMissingDenominator = errors.New(`missing denominator in \frac{}{}`)
	// ErrMalformedOperator reports an operator lacking an operand.
	ErrMalformedOperator = errors.New("malformed operator")
	// ErrIncompleteParse reports a token run that did not reduce to one node.
	ErrIncompleteParse = errors.New("incomplete parse")

	// ErrNotANumber is returned when evaluating symbolic or relational nodes.
	ErrNotANumber = errors.New("not a number")
	// ErrTooManyOperands is returned when evaluating a Sum of more than two terms.
	ErrTooManyOperands = errors.New("too many operands")

	ErrRaggedTable   = errors.New("table rows differ in length")
	ErrEmptyTable    = errors.New("table has no values")
	ErrNotIntegral   = errors.New("plot data must be integral")
	ErrPlotTooWide   = errors.New("plot too wide")
	ErrInvalidConfig = errors.New("invalid config")
)

// ParseError describes why a LaTeX string could not be parsed.
// Kind is one of the Err* parse sentinels and is matched by errors.Is.
type ParseError struct {
	Kind   error
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("annlat: %v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("annlat: %v: %s (parsing %q)", e.Kind, e.Detail, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Kind }

func parseErrorf(kind error, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
