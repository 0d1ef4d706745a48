package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureStderr captures stderr output produced while f runs.
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		debugEnv  string
		namespace string
		enabled   bool
	}{
		{"empty disables all loggers", "", "test:logger", false},
		{"wildcard enables all loggers", "*", "test:logger", true},
		{"exact match enables logger", "test:logger", "test:logger", true},
		{"exact match different namespace disabled", "test:logger", "other:logger", false},
		{"namespace wildcard enables matching loggers", "test:*", "test:logger", true},
		{"namespace wildcard matches deeply nested", "test:*", "test:sub:logger", true},
		{"namespace wildcard does not match different prefix", "test:*", "other:logger", false},
		{"multiple patterns with comma", "test:*,other:*", "test:logger", true},
		{"multiple patterns second matches", "test:*,other:*", "other:logger", true},
		{"exclusion pattern disables specific logger", "test:*,-test:skip", "test:skip", false},
		{"exclusion does not affect other loggers", "test:*,-test:skip", "test:logger", true},
		{"exclusion with wildcard", "*,-test:*", "test:logger", false},
		{"exclusion with wildcard allows others", "*,-test:*", "other:logger", true},
		{"suffix wildcard", "*:logger", "test:logger", true},
		{"suffix wildcard no match", "*:logger", "test:other", false},
		{"middle wildcard", "test:*:end", "test:middle:end", true},
		{"middle wildcard no match prefix", "test:*:end", "other:middle:end", false},
		{"middle wildcard no match suffix", "test:*:end", "test:middle:other", false},
		{"spaces in patterns are trimmed", "test:* , other:*", "other:logger", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debugEnv = tt.debugEnv
			l := New(tt.namespace)
			assert.Equal(t, tt.enabled, l.Enabled())
		})
	}
}

func TestLoggerPrintf(t *testing.T) {
	t.Run("enabled logger prints", func(t *testing.T) {
		debugEnv = "*"
		l := New("test:logger")
		output := captureStderr(func() { l.Printf("hello %s", "world") })
		assert.Contains(t, output, "test:logger")
		assert.Contains(t, output, "hello world")
	})

	t.Run("disabled logger does not print", func(t *testing.T) {
		debugEnv = ""
		l := New("test:logger")
		output := captureStderr(func() { l.Printf("hello %s", "world") })
		assert.Empty(t, output)
	})
}

func TestLoggerPrint(t *testing.T) {
	debugEnv = "*"
	l := New("test:print")
	output := captureStderr(func() { l.Print("hello", " ", "world") })
	assert.Contains(t, output, "test:print")
	assert.Contains(t, output, "hello world")
}

func TestLoggerSub(t *testing.T) {
	debugEnv = "executor:*"
	l := New("executor")
	sub := l.Sub("golangci-lint")
	assert.True(t, sub.Enabled())
	output := captureStderr(func() { sub.Printf("running") })
	assert.Contains(t, output, "executor:golangci-lint")
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		pattern   string
		want      bool
	}{
		{"exact match", "test:logger", "test:logger", true},
		{"no match", "test:logger", "other:logger", false},
		{"wildcard all", "test:logger", "*", true},
		{"prefix wildcard", "test:logger", "test:*", true},
		{"prefix wildcard no match", "test:logger", "other:*", false},
		{"suffix wildcard", "test:logger", "*:logger", true},
		{"suffix wildcard no match", "test:logger", "*:other", false},
		{"middle wildcard", "test:middle:logger", "test:*:logger", true},
		{"middle wildcard no match prefix", "other:middle:logger", "test:*:logger", false},
		{"middle wildcard no match suffix", "test:middle:other", "test:*:logger", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchPattern(tt.namespace, tt.pattern))
		})
	}
}

func TestComputeEnabled(t *testing.T) {
	tests := []struct {
		name      string
		debugEnv  string
		namespace string
		want      bool
	}{
		{"single pattern match", "test:*", "test:logger", true},
		{"single pattern no match", "test:*", "other:logger", false},
		{"multiple patterns first match", "test:*,other:*", "test:logger", true},
		{"multiple patterns second match", "test:*,other:*", "other:logger", true},
		{"multiple patterns no match", "test:*,other:*", "third:logger", false},
		{"exclusion disables", "test:*,-test:skip", "test:skip", false},
		{"exclusion allows others", "test:*,-test:skip", "test:logger", true},
		{"exclusion wildcard", "*,-test:*", "test:logger", false},
		{"exclusion wildcard allows", "*,-test:*", "other:logger", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debugEnv = tt.debugEnv
			assert.Equal(t, tt.want, computeEnabled(tt.namespace))
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
}
