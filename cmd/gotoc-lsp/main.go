// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"gotoc/internal/driver"
	"gotoc/internal/lsp"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "gotoc" // Name identifier for the language server

var (
	version = "0.1.0"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure logging (1 = info level, nil = stderr, which leaves stdout to the protocol)
	commonlog.Configure(1, nil)
	log := commonlog.GetLogger("gotoc.lsp.main")

	gotocHandler := lsp.NewHandler(driver.Options{})

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     gotocHandler.Initialize,
		Initialized:                    gotocHandler.Initialized,
		Shutdown:                       gotocHandler.Shutdown,
		SetTrace:                       gotocHandler.SetTrace,
		TextDocumentDidOpen:            gotocHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           gotocHandler.TextDocumentDidClose,
		TextDocumentDidChange:          gotocHandler.TextDocumentDidChange,
		TextDocumentHover:              gotocHandler.TextDocumentHover,
		TextDocumentSemanticTokensFull: gotocHandler.TextDocumentSemanticTokensFull,
	}

	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting gotoc LSP server %s", version)

	// Start the server over standard input/output (used by most editors for LSP)
	if err := s.RunStdio(); err != nil {
		log.Errorf("error running gotoc LSP server: %s", err)
		os.Exit(1)
	}
}
