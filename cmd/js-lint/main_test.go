package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"js-lint/analysis"
	"js-lint/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "fix: true" in the project config makes plain checks rewrite files, the
// same apply path the fix command takes.
func TestCheckHonorsConfiguredFixDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("fix: true\n"), 0o644))

	file := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("var x = 1;\n"), 0o644))

	store := config.NewStore()
	require.NoError(t, store.LoadDir(dir))
	require.True(t, store.Current().Fix)

	eng, err := analysis.New(analysis.DefaultRules(), store)
	require.NoError(t, err)

	results, failed := runFiles(context.Background(), eng, []string{file}, store.Current().Fix, 1)
	require.Zero(t, failed)
	require.True(t, results[file].Changed)

	fixed, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;\n", string(fixed))
}

func TestRunFilesLeavesFilesAloneWithoutApply(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("var x = 1;\n"), 0o644))

	store := config.NewStore()
	require.False(t, store.Current().Fix)

	eng, err := analysis.New(analysis.DefaultRules(), store)
	require.NoError(t, err)

	results, failed := runFiles(context.Background(), eng, []string{file}, store.Current().Fix, 1)
	require.Zero(t, failed)
	require.False(t, results[file].Changed)

	body, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;\n", string(body))
}
