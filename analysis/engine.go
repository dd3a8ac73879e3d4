package analysis

import (
	"context"
	"fmt"

	"js-lint/config"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Engine is the per-file run orchestrator. It holds only immutable state
// (the registry, the compiled queries, the config store), so files may be
// analyzed concurrently with one Engine.
type Engine struct {
	registry *Registry
	queries  Queries
	store    *config.Store
}

// New builds an engine around a rule registry. store may be nil, in which
// case every run sees default configuration.
func New(registry *Registry, store *config.Store) (*Engine, error) {
	e := &Engine{registry: registry, store: store}
	if err := e.queries.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize queries: %w", err)
	}
	return e, nil
}

// Queries exposes the compiled query set, mainly for rules under test.
func (e *Engine) Queries() *Queries {
	return &e.queries
}

type RunOptions struct {
	// Apply applies suggested fixes and re-analyzes the fixed text, so the
	// returned diagnostics describe what remains.
	Apply bool
}

// RunResult is the outcome of one file's run.
type RunResult struct {
	Diagnostics []Diagnostic
	// Source is the (possibly rewritten) file content. The caller persists
	// it when Changed is true.
	Source  []byte
	Changed bool
}

// Run parses source, dispatches all rules over it and, when requested,
// applies fixes. Each run captures one configuration snapshot; a concurrent
// reload does not affect it.
func (e *Engine) Run(ctx context.Context, path string, source []byte, opts RunOptions) (RunResult, error) {
	snap := e.store.Current()

	diags, err := e.analyze(ctx, path, source, snap)
	if err != nil {
		return RunResult{}, err
	}

	if !opts.Apply {
		return RunResult{Diagnostics: diags, Source: source}, nil
	}

	out := ApplyFixes(source, diags)
	if !out.Changed {
		return RunResult{Diagnostics: diags, Source: source}, nil
	}

	// Re-collect against the fixed text so callers observe remaining,
	// post-fix diagnostics with correct spans.
	diags, err = e.analyze(ctx, path, out.Source, snap)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to re-analyze fixed source of %s: %w", path, err)
	}

	return RunResult{Diagnostics: diags, Source: out.Source, Changed: true}, nil
}

func (e *Engine) analyze(ctx context.Context, path string, source []byte, snap *config.Snapshot) ([]Diagnostic, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rctx := &RuleContext{
		Path:    path,
		Body:    source,
		Root:    tree.RootNode(),
		Queries: &e.queries,
		Config:  snap,
	}

	col := &Collector{}
	e.registry.Dispatch(rctx, col)
	return col.All(), nil
}
