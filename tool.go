package annlat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall dispatches req with the default configuration.
func HandleToolCall(req ToolRequest) ToolResponse { return defaultEngine.HandleToolCall(req) }

// HandleToolCall runs one tool. Expressions are passed either as "latex"
// strings or as "expr" objects in the ToJSON form; table cells may be
// numbers, LaTeX strings or expression objects.
func (en *Engine) HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getExpr := func() (Expr, error) {
		if v, ok := req.Params["expr"]; ok {
			m, ok := v.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("param expr must be an expression object")
			}
			return FromJSON(m)
		}
		s, err := getString("latex")
		if err != nil {
			return nil, fmt.Errorf("missing param: expr or latex")
		}
		return en.Parse(s)
	}
	getParams := func() (Params, error) {
		raw, ok := req.Params["params"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param params must be an object")
		}
		out := make(Params, len(raw))
		for k, v := range raw {
			e, err := cellExpr(v)
			if err != nil {
				return nil, fmt.Errorf("params[%s]: %w", k, err)
			}
			out[k] = e
		}
		return out, nil
	}
	getTable := func() (*Table, error) {
		raw, ok := req.Params["rows"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("param rows must be an array of arrays")
		}
		rows := make([][]Expr, len(raw))
		for i, r := range raw {
			cells, ok := r.([]interface{})
			if !ok {
				return nil, fmt.Errorf("rows[%d] must be an array", i)
			}
			rows[i] = make([]Expr, len(cells))
			for j, c := range cells {
				e, err := cellExpr(c)
				if err != nil {
					return nil, fmt.Errorf("rows[%d][%d]: %w", i, j, err)
				}
				rows[i][j] = e
			}
		}
		t, err := en.NewTable(rows)
		if err != nil {
			return nil, err
		}
		if s, ok := req.Params["lines"].(string); ok {
			l, err := ParseLines(s)
			if err != nil {
				return nil, err
			}
			t = t.WithLines(l)
		}
		if s, ok := req.Params["align"].(string); ok && s != "" {
			t = t.WithAlign(s)
		}
		return t, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: toJSON(e), LaTeX: e.LaTeX(), String: e.String()}
	}
	fail := func(err error) ToolResponse {
		tracer().Debugf("tool %s: %v", req.Tool, err)
		return ToolResponse{Error: err.Error()}
	}

	switch req.Tool {
	case "parse":
		s, err := getString("latex")
		if err != nil {
			return fail(err)
		}
		e, err := en.Parse(s)
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "render":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: e.LaTeX(), LaTeX: e.LaTeX(), String: e.String()}

	case "evaluate":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		v, err := en.Evaluate(e)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: v, LaTeX: FormatNumber(v), String: FormatNumber(v)}

	case "simplify":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		return respond(en.Simplify(e))

	case "simplify_trivial":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		return respond(en.SimplifyTrivial(e))

	case "substitute":
		e, err := getExpr()
		if err != nil {
			return fail(err)
		}
		p, err := getParams()
		if err != nil {
			return fail(err)
		}
		return respond(en.Substitute(e, p))

	case "table":
		t, err := getTable()
		if err != nil {
			return fail(err)
		}
		return respond(t)

	case "table_stats":
		t, err := getTable()
		if err != nil {
			return fail(err)
		}
		stats, err := tableStats(t)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: stats, LaTeX: t.LaTeX(), String: t.String()}

	case "dot_plot", "bar_chart":
		t, err := getTable()
		if err != nil {
			return fail(err)
		}
		plot := t.DotPlot
		if req.Tool == "bar_chart" {
			plot = t.BarChart
		}
		p, err := plot()
		if err != nil {
			return fail(err)
		}
		return respond(p)

	case "schema":
		return ToolResponse{Result: ToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// cellExpr accepts a number, a LaTeX string or an expression object.
func cellExpr(v interface{}) (Expr, error) {
	switch c := v.(type) {
	case float64:
		return N(c), nil
	case string:
		return Parse(c)
	case map[string]interface{}:
		return FromJSON(c)
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

func tableStats(t *Table) (map[string]interface{}, error) {
	sum, err := t.Sum(false)
	if err != nil {
		return nil, err
	}
	mean, err := t.Mean()
	if err != nil {
		return nil, err
	}
	median, err := t.Median()
	if err != nil {
		return nil, err
	}
	medianValue, err := EvaluatePlaces(median, StatsPlaces)
	if err != nil {
		return nil, err
	}
	mode, err := t.Mode()
	if err != nil {
		return nil, err
	}
	rng, err := t.Range()
	if err != nil {
		return nil, err
	}
	mad, err := t.MAD()
	if err != nil {
		return nil, err
	}
	occ := t.Occurrences()
	occurrences := make([]interface{}, len(occ))
	for i, o := range occ {
		occurrences[i] = map[string]interface{}{"latex": o.Value.LaTeX(), "count": o.Count}
	}
	stats := map[string]interface{}{
		"size":         t.Size(),
		"sum":          sum.LaTeX(),
		"mean":         mean,
		"median":       median.LaTeX(),
		"median_value": medianValue,
		"mode":         mode,
		"range":        rng,
		"mad":          mad,
		"occurrences":  occurrences,
	}
	// Quartiles need two values; a single cell still gets the rest.
	switch q, err := t.Quartiles(); {
	case err == nil:
		iqr, _ := t.IQR()
		stats["quartiles"] = q[:]
		stats["iqr"] = iqr
	case !errors.Is(err, ErrEmptyTable):
		return nil, err
	}
	return stats, nil
}

// ============================================================
// Tool schema
// ============================================================

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
func ToolSpec() string {
	exprProps := map[string]string{"latex": "string", "expr": "object"}
	tableProps := map[string]string{"rows": "array", "lines": "string", "align": "string"}
	tools := []map[string]interface{}{
		ts("parse", "Parse a LaTeX string into an expression tree", []string{"latex"}, map[string]string{"latex": "string"}),
		ts("render", "Render an expression as LaTeX and plain text", []string{}, exprProps),
		ts("evaluate", "Evaluate an expression to a number", []string{}, exprProps),
		ts("simplify", "Simplify to a fixed point (trivial and numeric passes)", []string{}, exprProps),
		ts("simplify_trivial", "Apply structural identities only (x*1, x+0, 0/x, signs)", []string{}, exprProps),
		ts("substitute", "Replace variables. params maps names to numbers, LaTeX or expression objects", []string{"params"}, map[string]string{"latex": "string", "expr": "object", "params": "object"}),
		ts("table", "Render rows as a LaTeX array. lines: all|inside|outside|none", []string{"rows"}, tableProps),
		ts("table_stats", "Sum, mean, median, mode, range, quartiles, IQR, MAD and occurrences of table cells", []string{"rows"}, tableProps),
		ts("dot_plot", "Dot plot of integral table values as a LaTeX array", []string{"rows"}, tableProps),
		ts("bar_chart", "Bar chart of integral table values as a LaTeX array", []string{"rows"}, tableProps),
		ts("schema", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
