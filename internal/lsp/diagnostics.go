package lsp

import (
	"strings"

	"gotoc/internal/errors"
	"gotoc/internal/parser"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ConvertParseErrors transforms parser errors into LSP diagnostics for IDE display.
func ConvertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	errs := make(errors.List, len(parseErrors))
	for i, pe := range parseErrors {
		errs[i] = pe.CompilerError()
	}
	return ConvertCompilerErrors(errs)
}

// ConvertCompilerErrors transforms front-end and codegen errors into diagnostics.
// Suggestions and help text are appended to the message since editors show no
// separate field for them.
func ConvertCompilerErrors(errs errors.List) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))

	for _, err := range errs {
		line := uint32(max(err.Position.Line-1, 0))    // Convert to 0-based indexing
		start := uint32(max(err.Position.Column-1, 0)) // Convert to 0-based indexing
		end := start + uint32(err.Length)
		if err.Length == 0 {
			end = start + 1
		}

		message := err.Message
		if len(err.Suggestions) > 0 {
			message += "\n" + strings.Join(err.Suggestions, "\n")
		}
		if err.HelpText != "" {
			message += "\nhelp: " + err.HelpText
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: end},
			},
			Severity: ptrSeverity(severity(err.Level)),
			Source:   ptrString("gotoc"),
			Message:  message,
		}
		if err.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: err.Code}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note, errors.Help:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
