package main

import (
	"context"
	"strings"
	"sync"
	"unicode/utf16"

	"js-lint/analysis"
	"js-lint/config"

	"github.com/hashicorp/go-hclog"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

const commandApplyFixes = "js-lint.applyFixes"

type document struct {
	body        []byte
	diagnostics []analysis.Diagnostic
}

type server struct {
	logger hclog.Logger
	engine *analysis.Engine
	store  *config.Store

	mu   sync.Mutex
	docs map[lsp.DocumentURI]*document
}

func (s *server) Initialize(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.InitializeParams) (*lsp.InitializeResult, *lsp.InitializeError) {
	s.docs = map[lsp.DocumentURI]*document{}

	s.store = config.NewStore()
	if err := s.store.LoadDir("."); err != nil {
		s.logger.Warn("could not load project config", "error", err)
	}

	eng, err := analysis.New(analysis.DefaultRules(), s.store)
	if err != nil {
		s.logger.Error("could not build analysis engine", "error", err)
		return nil, &lsp.InitializeError{Retry: false}
	}
	s.engine = eng

	syncKind := lsp.TDSKFull
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Kind: &syncKind,
			},
			CodeActionProvider: true,
			ExecuteCommandProvider: &lsp.ExecuteCommandOptions{
				Commands: []string{commandApplyFixes},
			},
		},
	}, nil
}

func (s *server) Initialized(ctx context.Context, conn jsonrpc2.JSONRPC2, params struct{}) {
}

func (s *server) evaluate(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content []byte) {
	res, err := s.engine.Run(ctx, string(uri), content, analysis.RunOptions{})
	if err != nil {
		s.logger.Error("analysis failed", "uri", uri, "error", err)
		return
	}

	s.mu.Lock()
	s.docs[uri] = &document{body: content, diagnostics: res.Diagnostics}
	s.mu.Unlock()

	diags := lsp.PublishDiagnosticsParams{URI: uri}
	for _, d := range res.Diagnostics {
		diags.Diagnostics = append(diags.Diagnostics, d.ToLSP())
	}
	if err := conn.Notify(ctx, "textDocument/publishDiagnostics", diags); err != nil {
		s.logger.Error("could not publish diagnostics", "uri", uri, "error", err)
	}
}

func (s *server) DidOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidOpenTextDocumentParams) {
	go s.evaluate(ctx, conn, params.TextDocument.URI, []byte(params.TextDocument.Text))
}

func (s *server) DidChange(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidChangeTextDocumentParams) {
	if len(params.ContentChanges) == 0 {
		return
	}
	go s.evaluate(ctx, conn, params.TextDocument.URI, []byte(params.ContentChanges[0].Text))
}

func (s *server) DidClose(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidCloseTextDocumentParams) {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
}

func (s *server) CodeAction(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.CodeActionParams) ([]lsp.Command, error) {
	s.mu.Lock()
	doc, ok := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	for _, d := range doc.diagnostics {
		if d.HasFix() {
			return []lsp.Command{{
				Title:     "Apply all js-lint fixes",
				Command:   commandApplyFixes,
				Arguments: []interface{}{string(params.TextDocument.URI)},
			}}, nil
		}
	}
	return nil, nil
}

type applyWorkspaceEditParams struct {
	Edit lsp.WorkspaceEdit `json:"edit"`
}

func (s *server) ExecuteCommand(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.ExecuteCommandParams) (interface{}, error) {
	if params.Command != commandApplyFixes || len(params.Arguments) == 0 {
		return nil, nil
	}
	uri, ok := params.Arguments[0].(string)
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	doc, ok := s.docs[lsp.DocumentURI(uri)]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	outcome := analysis.ApplyFixes(doc.body, doc.diagnostics)
	if !outcome.Changed {
		return nil, nil
	}

	// One edit replacing the whole document keeps the client in sync even
	// when several fixes landed.
	edit := applyWorkspaceEditParams{
		Edit: lsp.WorkspaceEdit{
			Changes: map[string][]lsp.TextEdit{
				uri: {{
					Range:   wholeDocumentRange(doc.body),
					NewText: string(outcome.Source),
				}},
			},
		},
	}
	if err := conn.Notify(ctx, "workspace/applyEdit", edit); err != nil {
		s.logger.Error("could not apply workspace edit", "uri", uri, "error", err)
	}

	// The client sends didChange after applying, but re-evaluating now keeps
	// diagnostics fresh for clients that do not.
	go s.evaluate(ctx, conn, lsp.DocumentURI(uri), outcome.Source)
	return nil, nil
}

func wholeDocumentRange(body []byte) lsp.Range {
	text := string(body)
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return lsp.Range{
		Start: lsp.Position{Line: 0, Character: 0},
		// LSP positions count UTF-16 code units, not bytes.
		End: lsp.Position{Line: last, Character: len(utf16.Encode([]rune(lines[last])))},
	}
}
