package annlat_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/njchilds90/annlat"
)

func lines(ls ...string) string { return strings.Join(ls, "\n") }

func numbers(t *testing.T, rows ...[]float64) *annlat.Table {
	t.Helper()
	tbl, err := annlat.NumberTable(rows...)
	assert.NoError(t, err)
	return tbl
}

func TestTable_LaTeX(t *testing.T) {
	want := lines(
		`\begin{array}{|c|c|c|}`,
		`\hline 1&2&3\\`,
		`\hline 4&5&6\\`,
		`\hline 7&8&9\\`,
		`\hline `,
		`\end{array}`,
	)
	tbl := numbers(t, []float64{1, 2, 3}, []float64{4, 5, 6}, []float64{7, 8, 9})
	assert.Equal(t, want, tbl.LaTeX())

	mixed := annlat.TableOf(annlat.Numbers(1, 2, 3), annlat.Atoms("4", "5", "6"), annlat.Numbers(7, 8, 9))
	assert.Equal(t, want, mixed.LaTeX())
}

func TestTable_SingleRow(t *testing.T) {
	want := lines(`\begin{array}{|c|c|c|}`, `\hline 1&2&3\\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, numbers(t, []float64{1, 2, 3}).LaTeX())
}

func TestTable_Empty(t *testing.T) {
	want := lines(`\begin{array}{||}`, `\hline \\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, annlat.TableOf([]annlat.Expr{}).LaTeX())

	want = lines(`\begin{array}{|c|}`, `\hline \ \\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, annlat.TableOf(annlat.Atoms(`\ `)).LaTeX())
}

func TestTable_Lines(t *testing.T) {
	tbl := numbers(t, []float64{1, 2}, []float64{3, 4})
	tests := []struct {
		lines annlat.Lines
		want  string
	}{
		{annlat.LinesNone, lines(`\begin{array}{cc}`, `1&2\\`, `3&4\\`, `\end{array}`)},
		{annlat.LinesInside, lines(`\begin{array}{c|c}`, `1&2\\`, `\hline 3&4\\`, `\end{array}`)},
		{annlat.LinesOutside, lines(`\begin{array}{|cc|}`, `\hline 1&2\\`, `3&4\\`, `\hline `, `\end{array}`)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tbl.WithLines(tt.lines).LaTeX(), tt.lines.String())
	}
	mixed := tbl.WithHLines(annlat.LinesNone).WithVLines(annlat.LinesAll)
	assert.Equal(t, lines(`\begin{array}{|c|c|}`, `1&2\\`, `3&4\\`, `\end{array}`), mixed.LaTeX())
}

func TestTable_AlignAndSpacing(t *testing.T) {
	tbl := numbers(t, []float64{1, 2}, []float64{3, 4}).WithAlign("lr").WithRowSpacing("-5pt")
	want := lines(`\begin{array}{|l|r|}`, `\hline 1&2\\[-5pt]`, `\hline 3&4\\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, tbl.LaTeX())
	assert.Equal(t, `\begin{array}{|r|r|}`, strings.Split(tbl.WithAlign("r").LaTeX(), "\n")[0])
}

func TestTable_Ragged(t *testing.T) {
	_, err := annlat.NewTable([][]annlat.Expr{annlat.Numbers(1, 2), annlat.Numbers(3)})
	assert.IsError(t, err, annlat.ErrRaggedTable)
	_, err = annlat.NewTable(nil)
	assert.IsError(t, err, annlat.ErrEmptyTable)
	assert.Panics(t, func() { annlat.TableOf(annlat.Numbers(1), annlat.Numbers(1, 2)) })
}

func TestTable_Immutable(t *testing.T) {
	tbl := numbers(t, []float64{1, 2})
	_ = tbl.WithLines(annlat.LinesNone).WithAlign("l")
	assert.Equal(t, annlat.LinesAll, tbl.HLines())
	assert.Equal(t, "c", tbl.Align())

	rows := tbl.Rows()
	rows[0][0] = annlat.A("99")
	assert.Equal(t, "1", tbl.Cell(0, 0).LaTeX())
}

func TestTable_String(t *testing.T) {
	assert.Equal(t, "[[1, 2], [3, 4]]", numbers(t, []float64{1, 2}, []float64{3, 4}).String())
}

func TestParseLines(t *testing.T) {
	l, err := annlat.ParseLines("Outside")
	assert.NoError(t, err)
	assert.Equal(t, annlat.LinesOutside, l)
	_, err = annlat.ParseLines("sideways")
	assert.Error(t, err)
}

// ============================================================
// Plots
// ============================================================

func TestTable_DotPlot(t *testing.T) {
	want := lines(
		`\begin{array}{|cccc|}`,
		`\hline \ &\ &\bigcirc&\ \\`,
		`\bigcirc&\ &\bigcirc&\ \\`,
		`\bigcirc&\bigcirc&\bigcirc&\ \\`,
		`\bigcirc&\bigcirc&\bigcirc&\bigcirc\\`,
		`\hline1&2&3&4\\`,
		`\hline `,
		`\end{array}`,
	)
	plot, err := numbers(t, []float64{3, 1, 3, 1, 3}, []float64{1, 2, 3, 4, 2}).DotPlot()
	assert.NoError(t, err)
	assert.Equal(t, want, plot.LaTeX())
}

func TestTable_BarChart(t *testing.T) {
	want := lines(
		`\begin{array}{|ccccc|}`,
		`\hline ^{4-}&\ &\ &\lceil\rceil&\ \\[-5pt]`,
		`^{3-}&\lceil\rceil&\ &|\ |&\ \\[-5pt]`,
		`^{2-}&|\ |&\lceil\rceil&|\ |&\ \\[-5pt]`,
		`^{1-}&|\ |&|\ |&|\ |&\lceil\rceil\\`,
		`\hline \ &1&2&3&4\\`,
		`\hline `,
		`\end{array}`,
	)
	plot, err := numbers(t, []float64{3, 1, 3, 1, 3}, []float64{1, 2, 3, 4, 2}).BarChart()
	assert.NoError(t, err)
	assert.Equal(t, want, plot.LaTeX())
}

func TestTable_PlotGaps(t *testing.T) {
	plot, err := numbers(t, []float64{1, 3}).DotPlot()
	assert.NoError(t, err)
	want := lines(`\begin{array}{|ccc|}`, `\hline \bigcirc&\ &\bigcirc\\`, `\hline1&2&3\\`, `\hline `, `\end{array}`)
	assert.Equal(t, want, plot.LaTeX())
}

func TestTable_PlotErrors(t *testing.T) {
	_, err := numbers(t, []float64{1.5, 2}).DotPlot()
	assert.IsError(t, err, annlat.ErrNotIntegral)
	_, err = annlat.TableOf(annlat.Atoms("x", "1")).BarChart()
	assert.IsError(t, err, annlat.ErrNotANumber)
	_, err = annlat.TableOf([]annlat.Expr{}).DotPlot()
	assert.IsError(t, err, annlat.ErrEmptyTable)
}

func TestTable_PlotWidth(t *testing.T) {
	_, err := numbers(t, []float64{0, 2000000}).DotPlot()
	assert.IsError(t, err, annlat.ErrPlotTooWide)

	plot, err := numbers(t, []float64{0, annlat.MaxPlotWidth - 1}).DotPlot()
	assert.NoError(t, err)
	assert.Equal(t, annlat.MaxPlotWidth, len(plot.Rows()[0]))
}
