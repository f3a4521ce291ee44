package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `crate demo;
fn f(_1: u32) -> u32 {
    bb0: { _0 = copy _7; return; }
}`

	reporter := NewErrorReporter("test.mir", source)
	err := UnknownLocal("_7", Position{Filename: "test.mir", Line: 3, Column: 22})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUnknownLocal+"]")
	assert.Contains(t, formatted, "local '_7' is not declared")
	assert.Contains(t, formatted, "test.mir:3:22")
	assert.Contains(t, formatted, "  3 │     bb0: { _0 = copy _7; return; }")
	assert.Contains(t, formatted, "   │ "+strings.Repeat(" ", 21)+"^^\n")
	assert.Contains(t, formatted, "note: parameters are declared in the signature")
}

func TestErrorReporter_UsesReporterFilename(t *testing.T) {
	reporter := NewErrorReporter("fallback.mir", "crate demo;")
	formatted := reporter.FormatError(Syntax("unexpected token", Position{Line: 1, Column: 7}))
	assert.Contains(t, formatted, "fallback.mir:1:7")
}

func TestErrorReporter_OutOfRangeLine(t *testing.T) {
	reporter := NewErrorReporter("a.mir", "crate demo;")
	formatted := reporter.FormatError(UnknownEntry("main", nil))
	assert.Contains(t, formatted, "error["+ErrorUnknownEntry+"]")
	assert.NotContains(t, formatted, "^")
}

func TestDidYouMean(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UnknownType("Piar", pos, []string{"Pair", "Point"})
	require.Len(t, err.Suggestions, 1)
	assert.Equal(t, "did you mean 'Pair'?", err.Suggestions[0])

	err = UnknownBlock("bb7", pos, []string{"bb1", "bb2"})
	require.Len(t, err.Suggestions, 1)
	assert.Equal(t, "did you mean one of: 'bb1', 'bb2'?", err.Suggestions[0])

	err = UnknownFunction("xyz", pos, []string{"div", "div_pre"})
	assert.Empty(t, err.Suggestions)
}

func TestCompilerErrorAsError(t *testing.T) {
	err := DuplicateDefinition("function", "div", Position{Filename: "a.mir", Line: 4, Column: 4})
	assert.Equal(t, "a.mir:4:4: error[E0203]: function 'div' is defined more than once", err.Error())

	list := List{err, MisplacedTerminator("bb0", Position{Filename: "a.mir", Line: 5, Column: 1}, true)}
	assert.Contains(t, list.Error(), "(and 1 more errors)")
	assert.Equal(t, "no errors", List(nil).Error())
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("div", "div"))
	assert.Equal(t, 1, levenshteinDistance("div", "dev"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 2, levenshteinDistance("pair", "piar"))
}

func TestGetErrorDescription(t *testing.T) {
	for _, code := range []string{ErrorSyntax, ErrorUnknownType, ErrorCodegenInvariant, ErrorContractHelperArity} {
		assert.NotEqual(t, "Unknown error", GetErrorDescription(code), code)
	}
	assert.Equal(t, "Unknown error", GetErrorDescription("E9999"))
}
