package main

import (
	"testing"

	"github.com/sourcegraph/go-lsp"
	"github.com/stretchr/testify/assert"
)

func TestWholeDocumentRange(t *testing.T) {
	cases := []struct {
		name string
		body string
		end  lsp.Position
	}{
		{"empty", "", lsp.Position{Line: 0, Character: 0}},
		{"ascii", "let a = 1;\nlet b = 2;", lsp.Position{Line: 1, Character: 10}},
		{"trailing newline", "let a = 1;\n", lsp.Position{Line: 1, Character: 0}},
		// é is one UTF-16 code unit despite two UTF-8 bytes; the emoji is a
		// surrogate pair, so it counts as two.
		{"non-ascii", "let a = 1;\nconst s = \"héllo🙂\";", lsp.Position{Line: 1, Character: 20}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := wholeDocumentRange([]byte(tc.body))
			assert.Equal(t, lsp.Position{Line: 0, Character: 0}, r.Start)
			assert.Equal(t, tc.end, r.End)
		})
	}
}
