package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFileFunc(dir string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))

	def := hook.Definition{Name: "fmt-go", CommandTemplate: []string{"gofmt", "-l"}}
	fp1, err := Fingerprint(def, []string{"a.go"}, readFileFunc(dir))
	require.NoError(t, err)
	fp2, err := Fingerprint(def, []string{"a.go"}, readFileFunc(dir))
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	def := hook.Definition{Name: "fmt-go", CommandTemplate: []string{"gofmt", "-l"}}
	fp1, err := Fingerprint(def, []string{"a.go"}, readFileFunc(dir))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("package a\n\nvar x = 1\n"), 0o644))
	fp2, err := Fingerprint(def, []string{"a.go"}, readFileFunc(dir))
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprintOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0o644))

	def := hook.Definition{Name: "fmt-go", CommandTemplate: []string{"gofmt", "-l"}}
	fp1, err := Fingerprint(def, []string{"a.go", "b.go"}, readFileFunc(dir))
	require.NoError(t, err)
	fp2, err := Fingerprint(def, []string{"b.go", "a.go"}, readFileFunc(dir))
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestLookupStoreRoundTrip(t *testing.T) {
	c := New("", 0)
	result := hook.Result{HookName: "fmt-go", Status: hook.StatusPassed}

	_, ok := c.Lookup("fp1")
	assert.False(t, ok)

	c.Store("fp1", []string{"a.go"}, result)
	got, ok := c.Lookup("fp1")
	require.True(t, ok)
	assert.Equal(t, "fmt-go", got.HookName)
	assert.True(t, got.CacheHit)
}

func TestStoreCachesFailedResultsToo(t *testing.T) {
	c := New("", 0)
	c.Store("fp1", []string{"a.go"}, hook.Result{HookName: "lint-fast", Status: hook.StatusFailed, IssuesCount: 3})

	got, ok := c.Lookup("fp1")
	require.True(t, ok)
	assert.Equal(t, hook.StatusFailed, got.Status)
	assert.Equal(t, 3, got.IssuesCount)
}

func TestInvalidateFileDropsEntry(t *testing.T) {
	c := New("", 0)
	c.Store("fp1", []string{"a.go", "b.go"}, hook.Result{HookName: "fmt-go"})
	c.Store("fp2", []string{"c.go"}, hook.Result{HookName: "md-format"})

	c.InvalidateFile("a.go")

	_, ok := c.Lookup("fp1")
	assert.False(t, ok)
	_, ok = c.Lookup("fp2")
	assert.True(t, ok)
}

func TestEvictionRespectsByteBudget(t *testing.T) {
	c := New("", 400) // fits one entry but not both, forcing eviction of the older one
	c.Store("fp1", []string{"a.go"}, hook.Result{HookName: "h1", Stdout: "some reasonably sized output"})
	c.Store("fp2", []string{"b.go"}, hook.Result{HookName: "h2", Stdout: "some reasonably sized output"})

	// fp1 should have been evicted in favor of the more recently used fp2.
	_, ok := c.Lookup("fp1")
	assert.False(t, ok)
	_, ok = c.Lookup("fp2")
	assert.True(t, ok)
}

func TestDiskPersistenceSurvivesNewCacheInstance(t *testing.T) {
	dir := t.TempDir()
	c1 := New(dir, 0)
	c1.Store("fp1", []string{"a.go"}, hook.Result{HookName: "fmt-go", Status: hook.StatusPassed})

	c2 := New(dir, 0)
	got, ok := c2.Lookup("fp1")
	require.True(t, ok)
	assert.Equal(t, "fmt-go", got.HookName)
}
