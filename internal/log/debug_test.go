package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDebugLogger(t *testing.T) {
	t.Helper()

	globalDebugLogger.mu.Lock()
	globalDebugLogger.closeLocked()
	globalDebugLogger.buffer = nil
	globalDebugLogger.discard = false
	globalDebugLogger.mu.Unlock()

	t.Cleanup(func() {
		globalDebugLogger.mu.Lock()
		globalDebugLogger.closeLocked()
		globalDebugLogger.buffer = nil
		globalDebugLogger.discard = false
		globalDebugLogger.mu.Unlock()
	})
}

func TestBufferedMessagesFlushOnSetFile(t *testing.T) {
	resetDebugLogger(t)

	Printf("run: %s", "git add -A")

	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	require.NoError(t, SetFile(path))
	Println("ok: git add -A")
	require.NoError(t, Close())

	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	assert.Contains(t, string(data), "run: git add -A")
	assert.Contains(t, string(data), "ok: git add -A")
}

func TestEmptyPathDiscards(t *testing.T) {
	resetDebugLogger(t)

	Printf("dropped")
	require.NoError(t, SetFile(""))
	Printf("also dropped")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.True(t, globalDebugLogger.discard)
	assert.Empty(t, globalDebugLogger.buffer)
}

func TestSetOutputWriter(t *testing.T) {
	resetDebugLogger(t)

	Printf("before")
	buf := &bytes.Buffer{}
	require.NoError(t, SetOutput(buf))
	Printf("after")

	assert.Contains(t, buf.String(), "ai-commit ")
	assert.Contains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	resetDebugLogger(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	Printf("buffered")
	err := SetFile(filepath.Join(blocker, "debug.log"))
	require.Error(t, err)

	Printf("should be discarded")

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.True(t, globalDebugLogger.discard)
	assert.Empty(t, globalDebugLogger.buffer)
}

func TestCloseWithoutFile(t *testing.T) {
	resetDebugLogger(t)
	assert.NoError(t, Close())
}
