package parser

import (
	"fmt"
	"os"

	"gotoc/grammar"
	"gotoc/internal/errors"

	"github.com/alecthomas/participle/v2"
)

var parser = buildParser()

func buildParser() *participle.Parser[grammar.File] {
	p, err := participle.Build[grammar.File](
		participle.Lexer(grammar.MirLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// ParseError is a syntax error at a source position.
type ParseError struct {
	Message  string
	Position errors.Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// CompilerError converts the parse error for reporting.
func (e ParseError) CompilerError() errors.CompilerError {
	return errors.Syntax(e.Message, e.Position)
}

func ParseFile(path string) (*grammar.File, []ParseError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	file, parseErrors := ParseSource(path, string(source))
	return file, parseErrors, nil
}

// ParseSource parses one crate. On failure the file is nil and the errors say where.
func ParseSource(sourceName string, source string) (*grammar.File, []ParseError) {
	file, err := parser.ParseString(sourceName, source)
	if err == nil {
		return file, nil
	}
	return nil, []ParseError{toParseError(sourceName, err)}
}

func toParseError(sourceName string, err error) ParseError {
	pe, ok := err.(participle.Error)
	if !ok {
		return ParseError{Message: err.Error(), Position: errors.Position{Filename: sourceName, Line: 1, Column: 1}}
	}
	pos := pe.Position()
	filename := pos.Filename
	if filename == "" {
		filename = sourceName
	}
	return ParseError{
		Message:  pe.Message(),
		Position: errors.Position{Filename: filename, Line: max(pos.Line, 1), Column: max(pos.Column, 1)},
	}
}
