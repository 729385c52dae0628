package annlat

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Rules
// ============================================================

// Lines selects which horizontal or vertical rules a table draws.
type Lines int

const (
	LinesAll Lines = iota
	LinesInside
	LinesOutside
	LinesNone
)

var linesNames = [...]string{"all", "inside", "outside", "none"}

func (l Lines) String() string {
	if l < 0 || int(l) >= len(linesNames) {
		return fmt.Sprintf("Lines(%d)", int(l))
	}
	return linesNames[l]
}

// ParseLines accepts "all", "inside", "outside" or "none".
func ParseLines(s string) (Lines, error) {
	for i, name := range linesNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Lines(i), nil
		}
	}
	return LinesAll, fmt.Errorf("unknown lines setting %q", s)
}

func (l Lines) outside() bool { return l == LinesAll || l == LinesOutside }
func (l Lines) inside() bool  { return l == LinesAll || l == LinesInside }

// ============================================================
// Table — LaTeX array of expressions
// ============================================================

// Table is a rectangular grid of expressions rendered as a LaTeX array.
// Like every node it is immutable; the With* methods return modified copies.
type Table struct {
	rows       [][]Expr
	hLines     Lines
	vLines     Lines
	align      string
	rowSpacing []string
}

// NewTable builds a table with all rules drawn and centred columns.
// Every row must have the same length.
func NewTable(rows [][]Expr) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrEmptyTable)
	}
	out := make([][]Expr, len(rows))
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrRaggedTable, i, len(row), len(rows[0]))
		}
		out[i] = append([]Expr(nil), row...)
	}
	return &Table{rows: out, align: "c"}, nil
}

// TableOf is NewTable for literal grids; it panics on ragged rows.
func TableOf(rows ...[]Expr) *Table {
	t, err := NewTable(rows)
	if err != nil {
		panic(fmt.Sprintf("annlat: TableOf: %v", err))
	}
	return t
}

// NumberTable builds a table of numeric cells.
func NumberTable(rows ...[]float64) (*Table, error) {
	cells := make([][]Expr, len(rows))
	for i, row := range rows {
		cells[i] = Numbers(row...)
	}
	return NewTable(cells)
}

func (t *Table) clone() *Table {
	c := *t
	c.rowSpacing = append([]string(nil), t.rowSpacing...)
	return &c
}

// WithLines sets both horizontal and vertical rules.
func (t *Table) WithLines(l Lines) *Table {
	c := t.clone()
	c.hLines, c.vLines = l, l
	return c
}

func (t *Table) WithHLines(l Lines) *Table {
	c := t.clone()
	c.hLines = l
	return c
}

func (t *Table) WithVLines(l Lines) *Table {
	c := t.clone()
	c.vLines = l
	return c
}

// WithAlign sets the column alignment. A string with one letter per column
// aligns each column separately; anything else is repeated for every column.
func (t *Table) WithAlign(align string) *Table {
	c := t.clone()
	c.align = align
	return c
}

// WithRowSpacing sets the extra space after each row, e.g. "-5pt".
// Rows beyond the list get none.
func (t *Table) WithRowSpacing(spacing ...string) *Table {
	c := t.clone()
	c.rowSpacing = append([]string(nil), spacing...)
	return c
}

func (t *Table) Rows() [][]Expr {
	out := make([][]Expr, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]Expr(nil), row...)
	}
	return out
}

func (t *Table) NumRows() int { return len(t.rows) }
func (t *Table) NumCols() int { return len(t.rows[0]) }

// Cell returns the cell at row i, column j.
func (t *Table) Cell(i, j int) Expr { return t.rows[i][j] }

func (t *Table) HLines() Lines        { return t.hLines }
func (t *Table) VLines() Lines        { return t.vLines }
func (t *Table) Align() string        { return t.align }
func (t *Table) RowSpacing() []string { return append([]string(nil), t.rowSpacing...) }
func (t *Table) exprType() string     { return "table" }

func (t *Table) mapCells(f func(Expr) Expr) *Table {
	c := t.clone()
	c.rows = make([][]Expr, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = mapExprs(row, f)
	}
	return c
}

func (t *Table) equal(o *Table) bool {
	if t.hLines != o.hLines || t.vLines != o.vLines || t.align != o.align {
		return false
	}
	if strings.Join(t.rowSpacing, "\x00") != strings.Join(o.rowSpacing, "\x00") || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !equalAll(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}

func (t *Table) columnAlign(j, ncols int) string {
	if len(t.align) == ncols && ncols > 1 {
		return t.align[j : j+1]
	}
	return t.align
}

// LaTeX renders the array environment:
//
//	\begin{array}{|c|c|}
//	\hline 1&2\\
//	\hline 3&4\\
//	\hline
//	\end{array}
func (t *Table) LaTeX() string {
	var sb strings.Builder
	ncols := t.NumCols()

	sb.WriteString(`\begin{array}{`)
	if t.vLines.outside() {
		sb.WriteString("|")
	}
	for j := 0; j < ncols; j++ {
		sb.WriteString(t.columnAlign(j, ncols))
		if j < ncols-1 && t.vLines.inside() {
			sb.WriteString("|")
		}
	}
	if t.vLines.outside() {
		sb.WriteString("|")
	}
	sb.WriteString("}\n")

	if t.hLines.outside() {
		sb.WriteString(`\hline `)
	}
	for i, row := range t.rows {
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("&")
			}
			sb.WriteString(cell.LaTeX())
		}
		sb.WriteString(`\\`)
		if i < len(t.rowSpacing) {
			sb.WriteString("[" + t.rowSpacing[i] + "]")
		}
		sb.WriteString("\n")
		if i < len(t.rows)-1 && t.hLines.inside() {
			sb.WriteString(`\hline `)
		}
	}
	if t.hLines.outside() {
		sb.WriteString("\\hline \n")
	}
	sb.WriteString(`\end{array}`)
	return sb.String()
}

// String renders the grid as nested lists: [[1, 2], [3, 4]].
func (t *Table) String() string {
	rows := make([]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

// ============================================================
// Text plots
// ============================================================

// DotPlot draws the occurrence histogram of the table's values as a LaTeX
// array: one column per integer from the smallest to the largest value,
// one \bigcirc per occurrence stacked above the axis labels.
func (t *Table) DotPlot() (*Table, error) {
	return t.histogram(func(h *histogram) *Table {
		var rows [][]Expr
		for level := 1; level <= h.tallest; level++ {
			row := make([]Expr, 0, len(h.xs))
			for _, x := range h.xs {
				if h.counts[x] >= level {
					row = append(row, A(`\bigcirc`))
				} else {
					row = append(row, A(`\ `))
				}
			}
			rows = append([][]Expr{row}, rows...)
		}
		axis := make([]Expr, len(h.xs))
		for i, x := range h.xs {
			axis[i] = N(float64(x))
		}
		axis[0] = A(`\hline` + axis[0].LaTeX())
		return TableOf(append(rows, axis)...).WithLines(LinesOutside)
	})
}

// BarChart draws the occurrence histogram as bars with a tick column on
// the left. Bars are capped with \lceil\rceil at their top level.
func (t *Table) BarChart() (*Table, error) {
	return t.histogram(func(h *histogram) *Table {
		var rows [][]Expr
		for level := 1; level <= h.tallest; level++ {
			row := make([]Expr, 0, len(h.xs)+1)
			row = append(row, A(fmt.Sprintf("^{%d-}", level)))
			for _, x := range h.xs {
				switch c := h.counts[x]; {
				case c == level:
					row = append(row, A(`\lceil\rceil`))
				case c > level:
					row = append(row, A(`|\ |`))
				default:
					row = append(row, A(`\ `))
				}
			}
			rows = append([][]Expr{row}, rows...)
		}
		axis := []Expr{A(`\hline \ `)}
		for _, x := range h.xs {
			axis = append(axis, N(float64(x)))
		}
		spacing := make([]string, 0, h.tallest)
		for i := 1; i < h.tallest; i++ {
			spacing = append(spacing, "-5pt")
		}
		return TableOf(append(rows, axis)...).WithLines(LinesOutside).WithRowSpacing(spacing...)
	})
}

// MaxPlotWidth bounds the number of columns of DotPlot and BarChart: one
// per integer between the smallest and largest value.
const MaxPlotWidth = 200

// maxPlotValue keeps plot values exactly representable as integers.
const maxPlotValue = 1e15

type histogram struct {
	xs      []int
	counts  map[int]int
	tallest int
}

func (t *Table) histogram(draw func(*histogram) *Table) (*Table, error) {
	occ := t.Occurrences()
	if len(occ) == 0 {
		return nil, fmt.Errorf("%w: nothing to plot", ErrEmptyTable)
	}
	h := &histogram{counts: make(map[int]int, len(occ))}
	lo, hi := 0, 0
	for i, o := range occ {
		v, err := EvaluatePlaces(o.Value, StatsPlaces)
		if err != nil {
			return nil, err
		}
		if v != math.Trunc(v) || math.Abs(v) > maxPlotValue {
			return nil, fmt.Errorf("%w: %s", ErrNotIntegral, o.Value.LaTeX())
		}
		x := int(v)
		h.counts[x] += o.Count
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
		if h.counts[x] > h.tallest {
			h.tallest = h.counts[x]
		}
	}
	if width := hi - lo + 1; width > MaxPlotWidth {
		return nil, fmt.Errorf("%w: %d columns from %d to %d, at most %d", ErrPlotTooWide, width, lo, hi, MaxPlotWidth)
	}
	for x := lo; x <= hi; x++ {
		h.xs = append(h.xs, x)
	}
	tracer().Debugf("histogram over [%d, %d], tallest %d", lo, hi, h.tallest)
	return draw(h), nil
}
