package annlat

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Table statistics
// ============================================================
//
// Statistics read the cells row by row. Cell values are evaluated with
// StatsPlaces decimals; a cell without a value fails with ErrNotANumber.

// Flat returns the cells in row-major order.
func (t *Table) Flat() []Expr {
	out := make([]Expr, 0, t.Size())
	for _, row := range t.rows {
		out = append(out, row...)
	}
	return out
}

// Size is the number of cells.
func (t *Table) Size() int { return len(t.rows) * len(t.rows[0]) }

// Sorted returns the cell values in ascending order.
func (t *Table) Sorted() ([]float64, error) {
	vals, err := values(t.Flat())
	if err != nil {
		return nil, err
	}
	sort.Float64s(vals)
	return vals, nil
}

func values(cells []Expr) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := EvaluatePlaces(c, StatsPlaces)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Sum folds the cells into a left-nested sum, ((c0+c1)+c2)+..., in table
// order or, if sorted, in ascending order of value.
func (t *Table) Sum(sorted bool) (Expr, error) {
	cells := t.Flat()
	if sorted {
		vals, err := values(cells)
		if err != nil {
			return nil, err
		}
		idx := make([]int, len(cells))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })
		ordered := make([]Expr, len(cells))
		for i, j := range idx {
			ordered[i] = cells[j]
		}
		cells = ordered
	}
	var acc Expr = A("0")
	for _, c := range cells {
		acc = SumOf(acc, c)
	}
	return SimplifyTrivial(acc), nil
}

// Mean is the sum of the cells divided by their count.
func (t *Table) Mean() (float64, error) {
	if t.Size() == 0 {
		return 0, fmt.Errorf("%w: mean", ErrEmptyTable)
	}
	sum, err := t.Sum(false)
	if err != nil {
		return 0, err
	}
	return EvaluatePlaces(FracOf(sum, N(float64(t.Size()))), StatsPlaces)
}

// Median returns the middle value, or for an even count the expression
// \frac{a+b}{2} over the two middle values.
func (t *Table) Median() (Expr, error) {
	s, err := t.Sorted()
	if err != nil {
		return nil, err
	}
	return medianOf(s)
}

func medianOf(s []float64) (Expr, error) {
	n := len(s)
	switch {
	case n == 0:
		return nil, fmt.Errorf("%w: median", ErrEmptyTable)
	case n%2 == 1:
		return N(s[n/2]), nil
	}
	return FracOf(SumOf(N(s[n/2-1]), N(s[n/2])), A("2")), nil
}

func medianValue(s []float64) (float64, error) {
	m, err := medianOf(s)
	if err != nil {
		return 0, err
	}
	return EvaluatePlaces(m, StatsPlaces)
}

// Mode returns the most frequent value. Ties go to the value seen first.
func (t *Table) Mode() (float64, error) {
	occ := t.Occurrences()
	if len(occ) == 0 {
		return 0, fmt.Errorf("%w: mode", ErrEmptyTable)
	}
	best := occ[0]
	for _, o := range occ[1:] {
		if o.Count > best.Count {
			best = o
		}
	}
	return EvaluatePlaces(best.Value, StatsPlaces)
}

// Range is the largest value minus the smallest.
func (t *Table) Range() (float64, error) {
	s, err := t.Sorted()
	if err != nil {
		return 0, err
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: range", ErrEmptyTable)
	}
	return Canonical(s[len(s)-1]-s[0], StatsPlaces), nil
}

// Quartiles returns the medians of the lower half, of all values and of
// the upper half. With an odd count the middle value belongs to neither
// half.
func (t *Table) Quartiles() ([3]float64, error) {
	var q [3]float64
	s, err := t.Sorted()
	if err != nil {
		return q, err
	}
	n := len(s)
	lower, upper := s[:n/2], s[n/2:]
	if n%2 == 1 {
		upper = s[n/2+1:]
	}
	if len(lower) == 0 || len(upper) == 0 {
		return q, fmt.Errorf("%w: quartiles need at least two values", ErrEmptyTable)
	}
	for i, part := range [][]float64{lower, s, upper} {
		if q[i], err = medianValue(part); err != nil {
			return q, err
		}
	}
	return q, nil
}

// IQR is the distance between the first and third quartile.
func (t *Table) IQR() (float64, error) {
	q, err := t.Quartiles()
	if err != nil {
		return 0, err
	}
	return Canonical(q[2]-q[0], StatsPlaces), nil
}

// MAD is the mean absolute deviation from the mean.
func (t *Table) MAD() (float64, error) {
	m, err := t.Mean()
	if err != nil {
		return 0, err
	}
	vals, err := values(t.Flat())
	if err != nil {
		return 0, err
	}
	acc := 0.0
	for _, v := range vals {
		acc += Canonical(math.Abs(v-m), StatsPlaces)
	}
	return Canonical(acc/float64(len(vals)), StatsPlaces), nil
}

// ============================================================
// Occurrences
// ============================================================

// Occurrence counts the cells rendering as Value.
type Occurrence struct {
	Value Expr
	Count int
}

// Occurrences groups cells by their rendered LaTeX, in order of first
// appearance. Value is the first cell of each group.
func (t *Table) Occurrences() []Occurrence {
	var (
		out []Occurrence
		at  = map[string]int{}
	)
	for _, c := range t.Flat() {
		key := c.LaTeX()
		if i, ok := at[key]; ok {
			out[i].Count++
			continue
		}
		at[key] = len(out)
		out = append(out, Occurrence{Value: c, Count: 1})
	}
	return out
}

// OccurrenceCounts is Occurrences keyed by rendered LaTeX.
func (t *Table) OccurrenceCounts() map[string]int {
	occ := t.Occurrences()
	out := make(map[string]int, len(occ))
	for _, o := range occ {
		out[o.Value.LaTeX()] = o.Count
	}
	return out
}

// ============================================================
// Middle of the data
// ============================================================

// MiddleHalf returns a one-row table of the middle half of the sorted values.
func (t *Table) MiddleHalf() (*Table, error) {
	s, err := t.Sorted()
	if err != nil {
		return nil, err
	}
	lo, hi := middleHalf(len(s))
	return TableOf(Numbers(s[lo:hi]...)), nil
}

// MiddleQuarter returns a one-row table of the middle quarter of the sorted
// values.
func (t *Table) MiddleQuarter() (*Table, error) {
	s, err := t.Sorted()
	if err != nil {
		return nil, err
	}
	q, m := len(s)/4, len(s)/2
	return TableOf(Numbers(s[m-q/2 : m+(q+1)/2]...)), nil
}

// HighlightMiddle returns the sorted values as a one-row table with the
// middle half underlined.
func (t *Table) HighlightMiddle() (*Table, error) {
	s, err := t.Sorted()
	if err != nil {
		return nil, err
	}
	lo, hi := middleHalf(len(s))
	row := Numbers(s...)
	for i := lo; i < hi; i++ {
		row[i] = UnderlineOf(row[i])
	}
	return TableOf(row), nil
}

// middleHalf bounds the middle half of n sorted values as [lo, hi).
func middleHalf(n int) (lo, hi int) {
	h := n / 2
	return h - h/2, h + (h+1)/2
}
