package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var MirLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		{Name: "String", Pattern: `"(\\.|[^"\\])*"`, Action: nil},

		// Locals and block labels before identifiers (order matters)
		{Name: "Local", Pattern: `_[0-9]+\b`, Action: nil},
		{Name: "Block", Pattern: `bb[0-9]+\b`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},

		// Integer literals
		{Name: "Integer", Pattern: `-?[0-9]+`, Action: nil},

		// Multi-character punctuation first
		{Name: "Operator", Pattern: `->|=>|::|\.\.\.`, Action: nil},
		{Name: "Punctuation", Pattern: `[{}()\[\]<>,;:=#&*.!]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
