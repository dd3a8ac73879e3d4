// Package jsregex parses the body of a JavaScript regular expression literal
// into a small syntax tree, enough to reason about which sub-patterns can
// match the empty string. It is not a regex engine.
package jsregex

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The lexer treats a whole character class or escape pair as one token so the
// grammar never has to look inside them. Order matters: a brace that spells a
// quantifier lexes as Brace, any other brace falls through to LoneBrace.
var regexLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "CharClass", Pattern: `\[\^?(?:\\.|[^\\\]])*\]`},
	{Name: "Brace", Pattern: `\{\d+(?:,\d*)?\}`},
	{Name: "GroupOpen", Pattern: `\((?:\?(?:<?[=!]|<[A-Za-z_$][A-Za-z0-9_$]*>|:))?`},
	{Name: "GroupClose", Pattern: `\)`},
	{Name: "Quant", Pattern: `[*+?]`},
	{Name: "Alt", Pattern: `\|`},
	{Name: "Anchor", Pattern: `[\^$]`},
	{Name: "Escape", Pattern: `\\[\s\S]`},
	{Name: "LoneBrace", Pattern: `[{}\]]`},
	{Name: "Char", Pattern: `[^\\\[\](){}|*+?^$]`},
})

type Pattern struct {
	Alternatives []*Sequence `@@ ("|" @@)*`
}

type Sequence struct {
	Terms []*Term `@@*`
}

type Term struct {
	Atom  *Atom       `@@`
	Quant *Quantifier `@@?`
}

type Quantifier struct {
	Symbol string `(@Quant | @Brace)`
	Lazy   bool   `@"?"?`
}

type Atom struct {
	Group  *Group  `( @@`
	Class  *string `| @CharClass`
	Escape *string `| @Escape`
	Anchor *string `| @Anchor`
	Char   *string `| @Char | @LoneBrace | @Brace )`
}

type Group struct {
	Open  string   `@GroupOpen`
	Inner *Pattern `@@?`
	Close string   `@GroupClose`
}

// Unbounded marks a quantifier with no upper repetition limit.
const Unbounded = -1

// Min returns the minimum repetition count of the quantifier.
func (q *Quantifier) Min() int {
	switch q.Symbol {
	case "*", "?":
		return 0
	case "+":
		return 1
	}
	lo, _ := q.bounds()
	return lo
}

// Max returns the maximum repetition count, or Unbounded.
func (q *Quantifier) Max() int {
	switch q.Symbol {
	case "*", "+":
		return Unbounded
	case "?":
		return 1
	}
	_, hi := q.bounds()
	return hi
}

func (q *Quantifier) bounds() (int, int) {
	body := strings.Trim(q.Symbol, "{}")
	lo, rest, hasComma := strings.Cut(body, ",")
	min, _ := strconv.Atoi(lo)
	if !hasComma {
		return min, min
	}
	if rest == "" {
		return min, Unbounded
	}
	max, _ := strconv.Atoi(rest)
	return min, max
}

// IsLookaround reports whether the group is a lookahead or lookbehind.
func (g *Group) IsLookaround() bool {
	switch {
	case strings.HasPrefix(g.Open, "(?="), strings.HasPrefix(g.Open, "(?!"):
		return true
	case strings.HasPrefix(g.Open, "(?<="), strings.HasPrefix(g.Open, "(?<!"):
		return true
	}
	return false
}

// Capturing reports whether the group captures. Irrelevant to nullability,
// kept for consumers that render pattern structure.
func (g *Group) Capturing() bool {
	return g.Open == "(" || strings.HasPrefix(g.Open, "(?<") && !g.IsLookaround()
}

var parser = participle.MustBuild[Pattern](
	participle.Lexer(regexLexer),
)

// Parse parses a regex literal body (the text between the slashes).
func Parse(source string) (*Pattern, error) {
	return parser.ParseString("", source)
}
