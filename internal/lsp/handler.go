package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gotoc/grammar"
	"gotoc/internal/driver"
	"gotoc/internal/errors"
	"gotoc/internal/frontend"
	"gotoc/internal/gotoprog"
	"gotoc/internal/parser"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("gotoc.lsp")

// Define the set of supported semantic token types, advertised in the legend
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"struct",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"modifier",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

// document is the analysis of one open file. file is nil when the source does not
// parse; result is nil when it does not compile.
type document struct {
	text        string
	file        *grammar.File
	result      *driver.Result
	diagnostics []protocol.Diagnostic
}

// Handler implements the LSP server handlers for .mir files
type Handler struct {
	mu        sync.RWMutex
	documents map[string]*document
	options   driver.Options
}

// NewHandler creates a handler compiling documents with opts.
func NewHandler(opts driver.Options) *Handler {
	return &Handler{
		documents: make(map[string]*document),
		options:   opts,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("LSP Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("LSP Shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes the opened file and publishes its diagnostics
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened file: %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-analyzes the file from the full text sent by the editor
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed file: %s", params.TextDocument.URI)

	var text string
	found := false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			text, found = c.Text, true
		}
	}
	if !found {
		return nil
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidClose drops the cached analysis and clears the file's diagnostics
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed file: %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	delete(h.documents, path)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

// TextDocumentHover shows the GOTO code generated for the function under the cursor
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, err := h.getOrUpdate(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	if doc.file == nil {
		return nil, nil
	}

	token, ok := tokenAt(collectSemanticTokens(doc.file), params.Position)
	if !ok || token.TokenType != indexOf("function", SemanticTokenTypes) {
		return nil, nil
	}
	if doc.result == nil {
		return &protocol.Hover{Contents: markdown("`" + token.Text + "` was not compiled, see the diagnostics")}, nil
	}

	var sections []string
	for _, inst := range doc.result.Instances {
		if inst.Def.Name != token.Text {
			continue
		}
		sections = append(sections, strings.TrimRight(gotoprog.PrintFunction(doc.result.SymbolTable, inst.Name()), "\n"))
	}
	if len(sections) == 0 {
		return &protocol.Hover{Contents: markdown("`" + token.Text + "` is not reachable from any entry function")}, nil
	}

	r := token.Range()
	return &protocol.Hover{
		Contents: markdown("```c\n" + strings.Join(sections, "\n\n") + "\n```"),
		Range:    &r,
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, err := h.getOrUpdate(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range collectSemanticTokens(doc.file) {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// Diagnostics returns the diagnostics of the last analysis of uri.
func (h *Handler) Diagnostics(uri protocol.DocumentUri) []protocol.Diagnostic {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if doc, ok := h.documents[path]; ok {
		return doc.diagnostics
	}
	return nil
}

func (h *Handler) getOrUpdate(ctx *glsp.Context, uri protocol.DocumentUri) (*document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	h.mu.RLock()
	doc, ok := h.documents[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := h.update(ctx, uri, string(content)); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.documents[path], nil
}

func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	doc := h.analyze(path, text)

	h.mu.Lock()
	h.documents[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, doc.diagnostics)
	return nil
}

// analyze runs the whole pipeline and keeps every intermediate result that was
// produced before the first failing stage.
func (h *Handler) analyze(path, text string) *document {
	doc := &document{text: text, diagnostics: []protocol.Diagnostic{}}

	file, parseErrors := parser.ParseSource(path, text)
	if len(parseErrors) > 0 {
		doc.diagnostics = ConvertParseErrors(parseErrors)
		return doc
	}
	doc.file = file

	crate, errs := frontend.Lower(file)
	if len(errs) > 0 {
		doc.diagnostics = ConvertCompilerErrors(errs)
		return doc
	}

	result, err := driver.Compile(crate, h.options)
	if err != nil {
		if list, ok := err.(errors.List); ok {
			doc.diagnostics = ConvertCompilerErrors(list)
		} else {
			log.Errorf("compiling %s: %s", path, err)
		}
		return doc
	}
	doc.result = result
	return doc
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Debugf("sending %d diagnostics for %s", len(diagnostics), uri)

	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func markdown(value string) protocol.MarkupContent {
	return protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value}
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
