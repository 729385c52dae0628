package annlat

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
)

// ============================================================
// Tokens
// ============================================================

// TokenKind tells literal runs from vocabulary symbols.
type TokenKind int

const (
	LiteralToken TokenKind = iota
	SymbolToken
)

// Token is either an opaque literal run or one vocabulary symbol.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) is(sym string) bool { return t.Kind == SymbolToken && t.Text == sym }

const (
	symPow      = "^"
	symCdot     = `\cdot`
	symPlus     = "+"
	symMinus    = "-"
	symLeft     = `\left(`
	symRight    = `\right)`
	symFrac     = `\frac{`
	symOpen     = "{"
	symClose    = "}"
	symTextGlue = `\ `
)

// vocabulary is scanned in order; the first entry that prefixes the
// remaining input wins, so "<=" must precede "<".
var vocabulary = []string{
	symPow, symCdot, symPlus, symMinus,
	symLeft, symRight, symFrac, symOpen, symClose,
	"<=", ">=", "=", "<", ">", `\leq`, `\geq`,
	symTextGlue,
}

// relations maps every relational spelling to its rendered sign.
var relations = map[string]RelOp{
	"=":    RelEq,
	"<":    RelLt,
	">":    RelGt,
	"<=":   RelLe,
	`\leq`: RelLe,
	">=":   RelGe,
	`\geq`: RelGe,
}

var latexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Symbol", Pattern: vocabularyPattern()},
	{Name: "Char", Pattern: `.`},
})

func vocabularyPattern() string {
	alts := make([]string, len(vocabulary))
	for i, v := range vocabulary {
		alts[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(alts, "|")
}

// Tokenize splits a LaTeX string into literal runs and vocabulary symbols.
// Whitespace is dropped, except the space of a `\ ` text separator.
// Tokenize never fails; malformed structure is reported by Parse.
func Tokenize(s string) []Token {
	clean := stripSpace(s)
	if clean == "" {
		return nil
	}
	lx, err := latexLexer.Lex("", strings.NewReader(clean))
	if err != nil {
		return []Token{{Kind: LiteralToken, Text: clean}}
	}
	raw, err := lexer.ConsumeAll(lx)
	if err != nil {
		return []Token{{Kind: LiteralToken, Text: clean}}
	}
	symbolType := latexLexer.Symbols()["Symbol"]

	var (
		tokens  []Token
		pending strings.Builder
	)
	flush := func() {
		if pending.Len() > 0 {
			tokens = append(tokens, Token{Kind: LiteralToken, Text: pending.String()})
			pending.Reset()
		}
	}
	for _, t := range raw {
		if t.EOF() {
			break
		}
		if t.Type == symbolType {
			flush()
			tokens = append(tokens, Token{Kind: SymbolToken, Text: t.Value})
			continue
		}
		pending.WriteString(t.Value)
	}
	flush()
	return tokens
}

func stripSpace(s string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if escaped && r == ' ' {
				sb.WriteRune(r)
			}
			escaped = false
			continue
		}
		sb.WriteRune(r)
		escaped = r == '\\' && !escaped
	}
	return sb.String()
}
