package annlat_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/njchilds90/annlat"
)

func call(tool string, params map[string]interface{}) annlat.ToolResponse {
	return annlat.HandleToolCall(annlat.ToolRequest{Tool: tool, Params: params})
}

func TestHandleToolCall_Parse(t *testing.T) {
	resp := call("parse", map[string]interface{}{"latex": `3+4^2-6`})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, `3+4^{2}-6`, resp.LaTeX)
	result, ok := resp.Result.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "sum", result["type"])

	resp = call("parse", map[string]interface{}{"latex": `\left(x+1`})
	assert.Contains(t, resp.Error, "nesting mismatch")
}

func TestHandleToolCall_Evaluate(t *testing.T) {
	resp := call("evaluate", map[string]interface{}{"latex": `3+\frac{4}{2}`})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, 5.0, resp.Result)
	assert.Equal(t, "5", resp.String)

	resp = call("evaluate", map[string]interface{}{"latex": `x+1`})
	assert.Contains(t, resp.Error, "not a number")
}

func TestHandleToolCall_ExprObject(t *testing.T) {
	expr := map[string]interface{}{
		"type": "product",
		"factors": []interface{}{
			map[string]interface{}{"type": "atom", "value": "x"},
			map[string]interface{}{"type": "atom", "value": "1"},
		},
	}
	resp := call("simplify_trivial", map[string]interface{}{"expr": expr})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, "x", resp.LaTeX)

	resp = call("render", map[string]interface{}{"expr": expr})
	assert.Equal(t, `x\cdot 1`, resp.LaTeX)
	assert.Equal(t, "x*1", resp.String)
}

func TestHandleToolCall_Simplify(t *testing.T) {
	resp := call("simplify", map[string]interface{}{"latex": `\frac{x}{1}+0`})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, "x", resp.LaTeX)
}

func TestHandleToolCall_Substitute(t *testing.T) {
	resp := call("substitute", map[string]interface{}{
		"latex":  `a\cdot x+b`,
		"params": map[string]interface{}{"a": 3.0, "x": `y+1`, "b": -5.0},
	})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, `3\cdot \left(y+1\right)-5`, resp.LaTeX)

	resp = call("substitute", map[string]interface{}{"latex": `x`})
	assert.Contains(t, resp.Error, "params")
}

func TestHandleToolCall_Table(t *testing.T) {
	resp := call("table", map[string]interface{}{
		"rows":  []interface{}{[]interface{}{1.0, "x"}, []interface{}{`\frac{1}{2}`, 4.0}},
		"lines": "none",
	})
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, lines(`\begin{array}{cc}`, `1&x\\`, `\frac{1}{2}&4\\`, `\end{array}`), resp.LaTeX)

	resp = call("table", map[string]interface{}{"rows": []interface{}{[]interface{}{1.0}, []interface{}{}}})
	assert.Contains(t, resp.Error, "differ in length")
}

func TestHandleToolCall_TableStats(t *testing.T) {
	row := []interface{}{}
	for i := 1; i <= 10; i++ {
		row = append(row, float64(i))
	}
	resp := call("table_stats", map[string]interface{}{"rows": []interface{}{row}})
	assert.Equal(t, "", resp.Error)
	stats, ok := resp.Result.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 5.5, stats["mean"])
	assert.Equal(t, `\frac{5+6}{2}`, stats["median"])
	assert.Equal(t, 5.5, stats["median_value"])
	assert.Equal(t, 9.0, stats["range"])
	assert.Equal(t, 5.0, stats["iqr"])
	assert.Equal(t, 2.5, stats["mad"])
	assert.Equal(t, 10, stats["size"])

	resp = call("table_stats", map[string]interface{}{"rows": []interface{}{[]interface{}{4.0}}})
	assert.Equal(t, "", resp.Error)
	stats = resp.Result.(map[string]interface{})
	_, hasQuartiles := stats["quartiles"]
	assert.False(t, hasQuartiles)
}

func TestHandleToolCall_Plots(t *testing.T) {
	rows := []interface{}{[]interface{}{1.0, 3.0}}
	resp := call("dot_plot", map[string]interface{}{"rows": rows})
	assert.Equal(t, "", resp.Error)
	assert.Contains(t, resp.LaTeX, `\bigcirc&\ &\bigcirc`)

	resp = call("bar_chart", map[string]interface{}{"rows": rows})
	assert.Equal(t, "", resp.Error)
	assert.Contains(t, resp.LaTeX, `^{1-}&\lceil\rceil&\ &\lceil\rceil`)

	resp = call("bar_chart", map[string]interface{}{"rows": []interface{}{[]interface{}{1.5}}})
	assert.Contains(t, resp.Error, "integral")
}

func TestHandleToolCall_Unknown(t *testing.T) {
	resp := call("integrate", nil)
	assert.Equal(t, "unknown tool: integrate", resp.Error)
}

func TestHandleToolCall_MissingExpr(t *testing.T) {
	resp := call("simplify", map[string]interface{}{})
	assert.Equal(t, "missing param: expr or latex", resp.Error)
}

func TestToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	assert.NoError(t, json.Unmarshal([]byte(annlat.ToolSpec()), &spec))
	names := make([]string, len(spec.Tools))
	for i, tool := range spec.Tools {
		names[i] = tool.Name
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"parse", "render", "evaluate", "simplify", "simplify_trivial", "substitute", "table", "table_stats", "dot_plot", "bar_chart", "schema"} {
		assert.Contains(t, ","+joined+",", ","+want+",")
	}

	resp := call("schema", nil)
	assert.Equal(t, interface{}(annlat.ToolSpec()), resp.Result)
}
