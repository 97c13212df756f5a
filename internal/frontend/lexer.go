package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// verilogLexer defines the token set for the supported Verilog subset.
// Keywords stay plain identifiers and are matched literally in the
// grammar. AttrOpen/AttrClose must precede Punct so "(*" and "*)" lex as
// attribute delimiters rather than paren-star pairs.
var verilogLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	{Name: "AttrOpen", Pattern: `\(\*`},
	{Name: "AttrClose", Pattern: `\*\)`},

	// Sized literals first so 4'b10xz does not split at the apostrophe.
	// '?' is the z alias inside literal digits.
	{Name: "SizedLit", Pattern: `[0-9]+'[sS]?[bBoOdDhH][0-9a-fA-FxXzZ?_]+`},
	{Name: "Number", Pattern: `[0-9][0-9_]*`},

	{Name: "SysIdent", Pattern: `\$[a-zA-Z_][a-zA-Z0-9_$]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},

	// Multi-character operators before the single-character catch-all.
	// "<=" serves both as the nonblocking assign and less-or-equal; the
	// grammar disambiguates by position.
	{Name: "LeNB", Pattern: `<=`},
	{Name: "Ge", Pattern: `>=`},
	{Name: "EqEq", Pattern: `==`},
	{Name: "NotEq", Pattern: `!=`},
	{Name: "AndAnd", Pattern: `&&`},
	{Name: "OrOr", Pattern: `\|\|`},
	{Name: "Shl", Pattern: `<<`},
	{Name: "Shr", Pattern: `>>`},
	{Name: "NandR", Pattern: `~&`},
	{Name: "NorR", Pattern: `~\|`},
	{Name: "XnorR", Pattern: `~\^`},

	{Name: "Punct", Pattern: `[-+*/%&|^~!<>=?:;,.#@(){}\[\]]`},
})
