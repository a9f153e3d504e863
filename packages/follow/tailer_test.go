package follow

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func startTailer(t *testing.T, path string) (*bufio.Scanner, context.CancelFunc, chan error) {
	t.Helper()
	pr, pw := io.Pipe()
	tailer := NewTailer(path, WithPollInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- tailer.Run(ctx, pw)
		_ = pw.Close()
	}()
	return bufio.NewScanner(pr), cancel, done
}

func TestTailer_StreamsExistingAndAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0644))

	sc, cancel, done := startTailer(t, path)
	defer cancel()

	require.True(t, sc.Scan())
	assert.Equal(t, "one", sc.Text())

	appendLine(t, path, "two\n")
	require.True(t, sc.Scan())
	assert.Equal(t, "two", sc.Text())

	cancel()
	require.NoError(t, <-done)
}

func TestTailer_WaitsForFileToAppear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	sc, cancel, done := startTailer(t, path)
	defer cancel()

	time.Sleep(30 * time.Millisecond)
	appendLine(t, path, "late arrival\n")

	require.True(t, sc.Scan())
	assert.Equal(t, "late arrival", sc.Text())

	cancel()
	require.NoError(t, <-done)
}

func TestTailer_StartsOverAfterTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("a very long first line\n"), 0644))

	sc, cancel, done := startTailer(t, path)
	defer cancel()

	require.True(t, sc.Scan())
	assert.Equal(t, "a very long first line", sc.Text())

	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0644))
	require.True(t, sc.Scan())
	assert.Equal(t, "new", sc.Text())

	cancel()
	require.NoError(t, <-done)
}
