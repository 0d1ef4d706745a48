package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/console"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefsForStrategy(t *testing.T) {
	assert.Equal(t, hook.FastHooks, defsForStrategy("fast"))
	assert.Equal(t, hook.FastHooks, defsForStrategy(""))
	assert.Equal(t, hook.ComprehensiveHooks, defsForStrategy("comprehensive"))

	both := defsForStrategy("both")
	assert.Len(t, both, len(hook.FastHooks)+len(hook.ComprehensiveHooks))
}

func TestHasExecutableEntryPoint(t *testing.T) {
	root := t.TempDir()
	assert.False(t, hasExecutableEntryPoint(root))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "cmd", "widget"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cmd", "widget", "main.go"), []byte("package main\n"), 0o644))
	assert.True(t, hasExecutableEntryPoint(root))
}

func TestHasPublishedPackageMarker(t *testing.T) {
	root := t.TempDir()
	assert.False(t, hasPublishedPackageMarker(root), "no go.mod yet")

	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/widget\n"), 0o644))
	assert.True(t, hasPublishedPackageMarker(root), "go.mod with no cmd/*/main.go is a library")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "cmd", "widget"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cmd", "widget", "main.go"), []byte("package main\n"), 0o644))
	assert.False(t, hasPublishedPackageMarker(root), "an executable entry point makes it not a published-library-only marker")
}

func TestNewSpinnerIfTTYDisabledWhenAccessibleSet(t *testing.T) {
	t.Setenv("ACCESSIBLE", "1")
	s := newSpinnerIfTTY(" running hooks...")
	assert.Nil(t, s, "spinner must be disabled when ACCESSIBLE is set, regardless of TTY status")
}

func TestNewSpinnerIfTTYMatchesConsoleIsTTY(t *testing.T) {
	t.Setenv("ACCESSIBLE", "")
	s := newSpinnerIfTTY(" running hooks...")
	if !console.IsTTY() {
		assert.Nil(t, s, "spinner must stay nil when stdout is not a terminal, e.g. under `go test` or redirected output")
		return
	}
	require.NotNil(t, s)
	assert.Equal(t, " running hooks...", s.Suffix)
}
