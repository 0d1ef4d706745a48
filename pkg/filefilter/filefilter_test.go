package filefilter

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if err := cmd.Run(); err != nil {
			t.Skipf("git unavailable or failed (%v), skipping", err)
		}
	}

	run("init")
	run("config", "user.name", "Test User")
	run("config", "user.email", "test@example.com")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.go"), []byte("package x\n"), 0o644))
	run("add", "base.go")
	run("commit", "-m", "initial")

	return dir
}

func TestFilesForScanFull(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.go"), []byte("package x\n"), 0o644))

	ff := New(dir, nil, "main")
	files, err := ff.FilesForScan(ScopeFull, 0, "")
	require.NoError(t, err)
	assert.Contains(t, files, "base.go")
}

func TestFilesForScanIncremental(t *testing.T) {
	dir := initRepo(t)

	cmd := exec.Command("git", "checkout", "-b", "feature")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Skip("git checkout failed")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "changed.go"), []byte("package x\n"), 0o644))
	for _, args := range [][]string{{"add", "changed.go"}, {"commit", "-m", "change"}} {
		c := exec.Command("git", args...)
		c.Dir = dir
		if err := c.Run(); err != nil {
			t.Skip("git commit failed")
		}
	}

	ff := New(dir, nil, "main")
	files, err := ff.FilesForScan(ScopeIncremental, 0, "main")
	require.NoError(t, err)
	assert.Contains(t, files, "changed.go")
	assert.NotContains(t, files, "base.go")
}

func TestFilesForScanAutoUpgradesToFullOverThreshold(t *testing.T) {
	dir := initRepo(t)

	cmd := exec.Command("git", "checkout", "-b", "feature")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Skip("git checkout failed")
	}

	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i))+".go")
		require.NoError(t, os.WriteFile(name, []byte("package x\n"), 0o644))
	}
	c := exec.Command("git", "add", ".")
	c.Dir = dir
	if err := c.Run(); err != nil {
		t.Skip("git add failed")
	}
	c = exec.Command("git", "commit", "-m", "many changes")
	c.Dir = dir
	if err := c.Run(); err != nil {
		t.Skip("git commit failed")
	}

	ff := New(dir, nil, "main")
	files, err := ff.FilesForScan(ScopeAuto, 2, "main")
	require.NoError(t, err)
	// Threshold exceeded -> full scan -> base.go (from the initial
	// commit, untouched by the feature branch) must be present too.
	assert.Contains(t, files, "base.go")
}

func TestFilesForScanNotARepoFallsBackToFull(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package x\n"), 0o644))

	ff := New(dir, nil, "main")
	files, err := ff.FilesForScan(ScopeAuto, 1, "main")
	require.NoError(t, err)
	assert.Contains(t, files, "a.go")
}

func TestIsIgnored(t *testing.T) {
	ff := New("/tmp/project", []string{"vendor/**", "**/*.pb.go"}, "main")
	assert.True(t, ff.isIgnored("vendor/lib/x.go"))
	assert.True(t, ff.isIgnored("pkg/api/gen.pb.go"))
	assert.False(t, ff.isIgnored("pkg/api/handler.go"))
}

func TestFilterByHook(t *testing.T) {
	files := FileSet{"a.go", "b.md", "c.go"}

	goOnly := hook.Definition{AcceptsFilePaths: true, FileExtensions: []string{".go"}}
	assert.Equal(t, FileSet{"a.go", "c.go"}, FilterByHook(files, goOnly))

	noExtFilter := hook.Definition{AcceptsFilePaths: true}
	assert.Equal(t, files, FilterByHook(files, noExtFilter))

	noFiles := hook.Definition{AcceptsFilePaths: false, FileExtensions: []string{".go"}}
	assert.Nil(t, FilterByHook(files, noFiles))
}
