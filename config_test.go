package annlat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/njchilds90/annlat"
)

func TestParseConfig(t *testing.T) {
	cfg, err := annlat.ParseConfig([]byte("max_iterations: 5\nplaces: 2\n"))
	assert.NoError(t, err)
	assert.Equal(t, annlat.Config{MaxIterations: 5, Places: 2, Lines: "all", Align: "c"}, cfg)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := annlat.ParseConfig(nil)
	assert.NoError(t, err)
	assert.Equal(t, annlat.DefaultConfig(), cfg)
}

func TestParseConfig_Invalid(t *testing.T) {
	for _, doc := range []string{
		"max_iterations: 0",
		"places: -1",
		"places: 99",
		"lines: sideways",
		"align: ''",
		"max_iterations: [1, 2]",
	} {
		_, err := annlat.ParseConfig([]byte(doc))
		assert.IsError(t, err, annlat.ErrInvalidConfig, doc)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annlat.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("lines: outside\nalign: l\n"), 0o600))
	cfg, err := annlat.LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "outside", cfg.Lines)
	assert.Equal(t, "l", cfg.Align)
	assert.Equal(t, annlat.DefaultMaxIterations, cfg.MaxIterations)

	_, err = annlat.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEngine(t *testing.T) {
	cfg := annlat.DefaultConfig()
	cfg.Places = 2
	cfg.Lines = "none"
	en, err := annlat.NewEngine(cfg)
	assert.NoError(t, err)
	assert.Equal(t, cfg, en.Config())

	e, err := en.Parse(`\frac{1}{3}`)
	assert.NoError(t, err)
	v, err := en.Evaluate(e)
	assert.NoError(t, err)
	assert.Equal(t, 0.33, v)
	assert.Equal(t, "0.33", en.Simplify(e).LaTeX())
	assert.Equal(t, "x", en.SimplifyTrivial(annlat.ProductOf(annlat.A("x"), annlat.A("1"))).LaTeX())
	assert.Equal(t, "3", en.Substitute(annlat.A("a"), annlat.Params{"a": annlat.N(3)}).LaTeX())

	tbl, err := en.NewTable([][]annlat.Expr{annlat.Numbers(1, 2)})
	assert.NoError(t, err)
	assert.Equal(t, lines(`\begin{array}{cc}`, `1&2\\`, `\end{array}`), tbl.LaTeX())
}

func TestNewEngine_Invalid(t *testing.T) {
	_, err := annlat.NewEngine(annlat.Config{})
	assert.IsError(t, err, annlat.ErrInvalidConfig)
}
