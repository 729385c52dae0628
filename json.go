package annlat

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as a tree of objects tagged by "type".
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(toJSON(e))
	return string(b), err
}

func toJSON(e Expr) map[string]interface{} {
	list := func(es []Expr) []interface{} {
		out := make([]interface{}, len(es))
		for i, x := range es {
			out[i] = toJSON(x)
		}
		return out
	}
	m := map[string]interface{}{"type": e.exprType()}
	switch n := e.(type) {
	case *Atom:
		m["value"] = n.value
	case *Negation:
		m["inner"] = toJSON(n.inner)
	case *Wrapped:
		m["inner"] = toJSON(n.inner)
	case *Underline:
		m["inner"] = toJSON(n.inner)
	case *Sum:
		m["terms"] = list(n.terms)
	case *Product:
		m["factors"] = list(n.factors)
	case *Fraction:
		m["numer"] = toJSON(n.numer)
		m["denom"] = toJSON(n.denom)
	case *Power:
		m["base"] = toJSON(n.base)
		m["exp"] = toJSON(n.exp)
	case *Text:
		m["parts"] = list(n.parts)
	case *Relation:
		ops := make([]interface{}, len(n.ops))
		for i, op := range n.ops {
			ops[i] = string(op)
		}
		m["parts"] = list(n.parts)
		m["ops"] = ops
	case *BinaryOp:
		m["op"] = n.op
		m["args"] = list(n.args)
	case *Table:
		rows := make([]interface{}, len(n.rows))
		for i, row := range n.rows {
			rows[i] = list(row)
		}
		spacing := make([]interface{}, len(n.rowSpacing))
		for i, s := range n.rowSpacing {
			spacing[i] = s
		}
		m["rows"] = rows
		m["h_lines"] = n.hLines.String()
		m["v_lines"] = n.vLines.String()
		m["align"] = n.align
		m["row_spacing"] = spacing
	}
	return m
}

// FromJSON decodes the object form produced by ToJSON, as delivered by
// encoding/json into a map.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subList := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		return exprList(typ+": "+field, v)
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%s: %q must be a string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "atom":
		v, err := subString("value")
		if err != nil {
			return nil, err
		}
		return A(v), nil

	case "negation", "wrapped", "underline":
		inner, err := sub("inner")
		if err != nil {
			return nil, err
		}
		switch typ {
		case "negation":
			return Negate(inner), nil
		case "wrapped":
			return Wrap(inner), nil
		}
		return UnderlineOf(inner), nil

	case "sum":
		terms, err := subList("terms")
		if err != nil {
			return nil, err
		}
		return SumOf(terms...), nil

	case "product":
		factors, err := subList("factors")
		if err != nil {
			return nil, err
		}
		return ProductOf(factors...), nil

	case "fraction":
		n, err := sub("numer")
		if err != nil {
			return nil, err
		}
		d, err := sub("denom")
		if err != nil {
			return nil, err
		}
		return FracOf(n, d), nil

	case "power":
		b, err := sub("base")
		if err != nil {
			return nil, err
		}
		x, err := sub("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(b, x), nil

	case "text":
		parts, err := subList("parts")
		if err != nil {
			return nil, err
		}
		return TextOf(parts...), nil

	case "relation":
		parts, err := subList("parts")
		if err != nil {
			return nil, err
		}
		raw, ok := data["ops"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("relation: \"ops\" must be an array")
		}
		ops := make([]RelOp, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("relation: ops[%d] must be a string", i)
			}
			ops[i] = RelOp(s)
		}
		r, err := Chain(parts, ops)
		if err != nil {
			return nil, err
		}
		return r, nil

	case "binop":
		op, err := subString("op")
		if err != nil {
			return nil, err
		}
		args, err := subList("args")
		if err != nil {
			return nil, err
		}
		return BinOp(op, args...), nil

	case "table":
		t, err := tableFromJSON(data)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

func exprList(what string, v interface{}) ([]Expr, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array", what)
	}
	out := make([]Expr, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an expression object", what, i)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", what, i, err)
		}
		out[i] = e
	}
	return out, nil
}

func tableFromJSON(data map[string]interface{}) (*Table, error) {
	rawRows, ok := data["rows"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("table: \"rows\" must be an array")
	}
	rows := make([][]Expr, len(rawRows))
	for i, r := range rawRows {
		row, err := exprList(fmt.Sprintf("table: rows[%d]", i), r)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	t, err := NewTable(rows)
	if err != nil {
		return nil, err
	}
	if s, ok := data["h_lines"].(string); ok {
		l, err := ParseLines(s)
		if err != nil {
			return nil, fmt.Errorf("table: h_lines: %w", err)
		}
		t = t.WithHLines(l)
	}
	if s, ok := data["v_lines"].(string); ok {
		l, err := ParseLines(s)
		if err != nil {
			return nil, fmt.Errorf("table: v_lines: %w", err)
		}
		t = t.WithVLines(l)
	}
	if s, ok := data["align"].(string); ok && s != "" {
		t = t.WithAlign(s)
	}
	if raw, ok := data["row_spacing"].([]interface{}); ok {
		spacing := make([]string, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("table: row_spacing[%d] must be a string", i)
			}
			spacing[i] = s
		}
		t = t.WithRowSpacing(spacing...)
	}
	return t, nil
}
