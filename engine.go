package annlat

// ============================================================
// Engine
// ============================================================

// Engine bundles the package operations under one Config. The package
// level functions behave like an Engine built from DefaultConfig.
type Engine struct {
	cfg        Config
	simplifier *Simplifier
	lines      Lines
}

// NewEngine validates cfg and builds an engine from it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lines, _ := ParseLines(cfg.Lines)
	return &Engine{
		cfg:        cfg,
		simplifier: NewSimplifier(cfg.MaxIterations, cfg.Places),
		lines:      lines,
	}, nil
}

var defaultEngine = func() *Engine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}()

func (en *Engine) Config() Config { return en.cfg }

func (en *Engine) Parse(s string) (Expr, error) { return Parse(s) }

// Evaluate rounds to the configured number of places.
func (en *Engine) Evaluate(e Expr) (float64, error) { return evaluate(e, en.cfg.Places) }

func (en *Engine) Simplify(e Expr) Expr { return en.simplifier.Simplify(e) }

func (en *Engine) SimplifyTrivial(e Expr) Expr { return SimplifyTrivial(e) }

func (en *Engine) Substitute(e Expr, params Params) Expr { return Substitute(e, params) }

// NewTable builds a table with the configured rules and alignment.
func (en *Engine) NewTable(rows [][]Expr) (*Table, error) {
	t, err := NewTable(rows)
	if err != nil {
		return nil, err
	}
	return t.WithLines(en.lines).WithAlign(en.cfg.Align), nil
}
