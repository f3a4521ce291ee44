package errors

import (
	"fmt"
	"strings"
)

// Builder provides a fluent interface for creating errors with suggestions
type Builder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos Position) *Builder {
	return &Builder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *Builder) WithLength(length int) *Builder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, message)
	return b
}

// WithNote adds a note to the error
func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *Builder) Build() CompilerError {
	return b.err
}

func (b *Builder) didYouMean(target string, candidates []string) *Builder {
	similar := findSimilarNames(target, candidates)
	switch len(similar) {
	case 0:
		return b
	case 1:
		return b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		return b.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
}

// Syntax wraps a parser message.
func Syntax(message string, pos Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).Build()
}

func UnreadableSource(path string, err error) CompilerError {
	return NewError(ErrorUnreadableSource, fmt.Sprintf("cannot read '%s': %v", path, err), Position{Filename: path}).Build()
}

func UnknownType(name string, pos Position, known []string) CompilerError {
	return NewError(ErrorUnknownType, fmt.Sprintf("unknown type '%s'", name), pos).
		WithLength(len(name)).
		didYouMean(name, known).
		WithHelp("builtin types are bool, i8..i64, u8..u64, isize, usize, tuples, arrays, references and fn pointers").
		Build()
}

func UnknownLocal(local string, pos Position) CompilerError {
	return NewError(ErrorUnknownLocal, fmt.Sprintf("local '%s' is not declared", local), pos).
		WithLength(len(local)).
		WithNote("parameters are declared in the signature, other locals with 'let'").
		Build()
}

func UnknownBlock(label string, pos Position, known []string) CompilerError {
	return NewError(ErrorUnknownBlock, fmt.Sprintf("block '%s' does not exist", label), pos).
		WithLength(len(label)).
		didYouMean(label, known).
		Build()
}

func DuplicateDefinition(kind, name string, pos Position) CompilerError {
	return NewError(ErrorDuplicateDefinition, fmt.Sprintf("%s '%s' is defined more than once", kind, name), pos).
		WithLength(len(name)).
		Build()
}

// MisplacedTerminator reports a block without a final terminator, or a terminator
// followed by more lines.
func MisplacedTerminator(label string, pos Position, missing bool) CompilerError {
	msg := fmt.Sprintf("terminator in the middle of block '%s'", label)
	if missing {
		msg = fmt.Sprintf("block '%s' does not end with a terminator", label)
	}
	return NewError(ErrorMisplacedTerminator, msg, pos).
		WithHelp("a block ends with one of goto, return, unreachable, switchInt, assert or a call").
		Build()
}

func UnknownFunction(name string, pos Position, known []string) CompilerError {
	return NewError(ErrorUnknownFunction, fmt.Sprintf("function '%s' is not defined", name), pos).
		WithLength(len(name)).
		didYouMean(name, known).
		Build()
}

func InvalidSpreadArg(message string, pos Position) CompilerError {
	return NewError(ErrorInvalidSpreadArg, message, pos).
		WithNote("the spread argument is the tuple that callers pass as separate arguments").
		Build()
}

func LocalNumbering(local string, expected int, pos Position) CompilerError {
	return NewError(ErrorLocalNumbering, fmt.Sprintf("local '%s' is out of order, expected '_%d'", local, expected), pos).
		WithLength(len(local)).
		Build()
}

func BlockNumbering(label string, expected int, pos Position) CompilerError {
	return NewError(ErrorLocalNumbering, fmt.Sprintf("block '%s' is out of order, expected 'bb%d'", label, expected), pos).
		WithLength(len(label)).
		Build()
}

func TypeArguments(name string, expected, actual int, pos Position) CompilerError {
	return NewError(ErrorTypeArguments,
		fmt.Sprintf("'%s' takes %d type arguments but %d were supplied", name, expected, actual), pos).
		WithLength(len(name)).
		Build()
}

func InvalidOperand(message string, pos Position) CompilerError {
	return NewError(ErrorInvalidOperand, message, pos).Build()
}

func RecursiveType(name string, pos Position) CompilerError {
	return NewError(ErrorRecursiveType, fmt.Sprintf("struct '%s' contains itself", name), pos).
		WithLength(len(name)).
		WithHelp("store the recursive field behind a reference").
		Build()
}

// InstantiationLimit reports runaway monomorphization. chain lists the instances that
// required the offending one, nearest first; omitted counts the ones left out of it.
func InstantiationLimit(message string, chain []string, omitted int, pos Position) CompilerError {
	b := NewError(ErrorInstantiationLimit, message, pos).
		WithHelp("a generic function calls itself with ever larger type arguments; make the recursive call use the same type arguments")
	for _, name := range chain {
		b = b.WithNote(fmt.Sprintf("required by '%s'", name))
	}
	if omitted > 0 {
		b = b.WithNote(fmt.Sprintf("and %d more", omitted))
	}
	return b.Build()
}

// CodegenInvariant reports an internal error raised while generating code.
func CodegenInvariant(message string, pos Position) CompilerError {
	return NewError(ErrorCodegenInvariant, message, pos).
		WithNote("this is a bug in an earlier stage of the pipeline").
		Build()
}

func UnknownEntry(name string, known []string) CompilerError {
	return NewError(ErrorUnknownEntry, fmt.Sprintf("entry function '%s' is not a non-generic function of the crate", name), Position{}).
		didYouMean(name, known).
		Build()
}

func UnknownContractHelper(name string, pos Position, known []string) CompilerError {
	return NewError(ErrorUnknownContractHelper, fmt.Sprintf("contract helper '%s' is not defined", name), pos).
		WithLength(len(name)).
		didYouMean(name, known).
		Build()
}

func ContractHelperArity(helper, function string, expected, actual int, pos Position) CompilerError {
	return NewError(ErrorContractHelperArity,
		fmt.Sprintf("contract helper '%s' takes %d parameters, '%s' needs %d", helper, actual, function, expected), pos).
		WithLength(len(helper)).
		WithHelp("a contract helper takes the function's parameters followed by its return value").
		Build()
}

func ContractHelperReturn(helper, actual string, pos Position) CompilerError {
	return NewError(ErrorContractHelperReturn,
		fmt.Sprintf("contract helper '%s' returns %s, expected bool", helper, actual), pos).
		WithLength(len(helper)).
		Build()
}

func UnsupportedContract(function, reason string, pos Position) CompilerError {
	return NewError(ErrorUnsupportedContract,
		fmt.Sprintf("contracts on '%s' are not supported: %s", function, reason), pos).
		WithLength(len(function)).
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && len(candidate) > 2 && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
