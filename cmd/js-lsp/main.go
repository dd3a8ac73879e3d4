package main

import (
	"os"

	"js-lint/lspserver"

	"github.com/hashicorp/go-hclog"
)

func main() {
	s := server{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:   "js-lsp",
			Output: os.Stderr,
			Level:  hclog.Info,
		}),
	}

	lspserver.StartServer(lspserver.MethodMap{
		"initialize":               lspserver.Adapt(s.Initialize),
		"initialized":              lspserver.Adapt(s.Initialized),
		"textDocument/didOpen":     lspserver.Adapt(s.DidOpen),
		"textDocument/didChange":   lspserver.Adapt(s.DidChange),
		"textDocument/didClose":    lspserver.Adapt(s.DidClose),
		"textDocument/codeAction":  lspserver.Adapt(s.CodeAction),
		"workspace/executeCommand": lspserver.Adapt(s.ExecuteCommand),
	})
}
