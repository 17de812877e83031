// FILE: lixenwraith/asynclog/sink_test.go
package asynclog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDestinationSwapUnderLoad(t *testing.T) {
	logger, firstPath := createTestLogger(t, func(c *Config) { c.FlushIntervalMs = 1 })
	dir := filepath.Dir(firstPath)

	const producers = 10
	const perProducer = 1000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				logger.Log(LevelInfo, fmt.Sprintf("producer %d line %d with some padding to make writes longer", id, i))
			}
		}(p)
	}

	// Hot swap while the worker is draining
	paths := []string{firstPath}
	for i := 1; i <= 8; i++ {
		path := filepath.Join(dir, fmt.Sprintf("swap%d.log", i))
		require.NoError(t, logger.SetDestination(path))
		paths = append(paths, path)
		time.Sleep(2 * time.Millisecond)
	}

	wg.Wait()
	require.NoError(t, logger.Shutdown())

	seen := make(map[string]int)
	total := 0
	for _, path := range paths {
		for _, msg := range messages(t, readLines(t, path)) {
			seen[msg]++
			total++
		}
	}

	assert.Equal(t, producers*perProducer, total, "every line lands in exactly one file")
	for msg, count := range seen {
		assert.Equal(t, 1, count, "duplicated line %q", msg)
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestSetDestinationWhileStopped(t *testing.T) {
	logger, firstPath := createTestLogger(t)
	defer logger.Shutdown()

	logger.Log(LevelInfo, "to first")
	require.NoError(t, logger.Stop())

	secondPath := filepath.Join(filepath.Dir(firstPath), "nested", "dir", "second.log")
	require.NoError(t, logger.SetDestination(secondPath))
	assert.Equal(t, secondPath, logger.Stats().Destination)

	require.NoError(t, logger.Start())
	logger.Log(LevelInfo, "to second")
	require.NoError(t, logger.Stop())

	assert.Equal(t, []string{"to first"}, messages(t, readLines(t, firstPath)))
	assert.Equal(t, []string{"to second"}, messages(t, readLines(t, secondPath)))
}

func TestSetDestinationAppends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "existing.log")
	require.NoError(t, os.WriteFile(logPath, []byte("previous content\n"), 0644))

	logger, err := New(LevelInfo, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, logger.SetDestination(logPath))
	require.NoError(t, logger.Start())

	logger.Log(LevelInfo, "appended")
	require.NoError(t, logger.Shutdown())

	lines := readLines(t, logPath)
	require.Len(t, lines, 2)
	assert.Equal(t, "previous content", lines[0])
	assert.Equal(t, []string{"appended"}, messages(t, lines[1:]))
}

func TestSetDestinationOpenFailureKeepsPrevious(t *testing.T) {
	logger, logPath := createTestLogger(t)
	defer logger.Shutdown()

	diag := &syncBuffer{}
	logger.SetDiagnostics(diag)

	blocker := filepath.Join(filepath.Dir(logPath), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	badPath := filepath.Join(blocker, "app.log")

	err := logger.SetDestination(badPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, badPath, ioErr.Path)

	assert.Contains(t, diag.String(), "log: cannot open log destination")
	assert.Equal(t, uint64(1), logger.Stats().DestErrors)
	assert.Equal(t, logPath, logger.Stats().Destination, "previous destination stays in effect")

	logger.Log(LevelInfo, "still writing")
	require.NoError(t, logger.Stop())
	assert.Equal(t, []string{"still writing"}, messages(t, readLines(t, logPath)))
}

func TestSetDestinationConsoleFallback(t *testing.T) {
	logger, logPath := createTestLogger(t)
	defer logger.Shutdown()

	console := &bytes.Buffer{}
	logger.sink.mu.Lock()
	logger.sink.console = console
	logger.sink.mu.Unlock()

	require.NoError(t, logger.Stop())
	require.NoError(t, logger.SetDestination(""))
	assert.Empty(t, logger.Stats().Destination)

	require.NoError(t, logger.Start())
	logger.Log(LevelError, "to console")
	require.NoError(t, logger.Stop())

	assert.Empty(t, readLines(t, logPath))
	assert.Regexp(t, `^\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}:\d{2} ERROR: to console\n$`, console.String())
}

func TestWriteFailureKeepsWorkerAlive(t *testing.T) {
	logger, logPath := createTestLogger(t, func(c *Config) { c.FlushIntervalMs = 10_000 })
	defer logger.Shutdown()

	diag := &syncBuffer{}
	logger.SetDiagnostics(diag)

	// Close the handle underneath the sink so the next writes fail
	logger.sink.mu.Lock()
	require.NoError(t, logger.sink.dest.file.Close())
	logger.sink.mu.Unlock()

	logger.Log(LevelInfo, "lost one")
	logger.Log(LevelInfo, "lost two")
	require.NoError(t, logger.Flush(time.Second))

	stats := logger.Stats()
	assert.Equal(t, uint64(2), stats.WriteFailures)
	assert.True(t, stats.Running, "worker keeps running after write failures")
	require.Error(t, stats.LastDrainError)
	assert.ErrorIs(t, stats.LastDrainError, ErrWrite)
	assert.ErrorIs(t, stats.LastDrainError, os.ErrClosed)

	var wf *WriteFailure
	require.ErrorAs(t, stats.LastDrainError, &wf)
	assert.Equal(t, logPath, wf.Path)

	// One report per pass, not one per line
	assert.Contains(t, diag.String(), "drain pass wrote 0 lines, 2 failed")

	// Recover by switching to a working destination
	newPath := filepath.Join(filepath.Dir(logPath), "recovered.log")
	require.NoError(t, logger.SetDestination(newPath))
	logger.Log(LevelInfo, "recovered")
	require.NoError(t, logger.Stop())

	assert.Equal(t, []string{"recovered"}, messages(t, readLines(t, newPath)))

	// The retired handle was already closed, the closer reports it
	err := logger.sink.waitClosers()
	assert.ErrorIs(t, err, ErrIO)
}

func TestStopReturnsFinalPassError(t *testing.T) {
	logger, _ := createTestLogger(t, func(c *Config) {
		c.FlushIntervalMs = 10_000
		c.InternalErrorsToStderr = false
	})
	defer logger.Shutdown()

	logger.sink.mu.Lock()
	require.NoError(t, logger.sink.dest.file.Close())
	logger.sink.mu.Unlock()

	logger.Log(LevelError, "cannot be written")
	err := logger.Stop()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	// The logger stays usable
	require.NoError(t, logger.SetDestination(""))
	assert.NoError(t, logger.Start())
}

func TestSinkWaitClosers(t *testing.T) {
	var reports []string
	sink := newSinkManager(&bytes.Buffer{}, func(format string, args ...any) {
		reports = append(reports, fmt.Sprintf(format, args...))
	})

	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")

	require.NoError(t, sink.setDestination(first))
	require.NoError(t, sink.writeLine([]byte("line a")))
	require.NoError(t, sink.setDestination(second))
	require.NoError(t, sink.writeLine([]byte("line b")))
	require.NoError(t, sink.setDestination(""))

	require.NoError(t, sink.waitClosers())
	assert.Empty(t, reports)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "line a\n", string(a))

	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "line b\n", string(b))
}

func TestSinkWriteLineConsoleError(t *testing.T) {
	sink := newSinkManager(failingWriter{}, func(string, ...any) {})

	err := sink.writeLine([]byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	var wf *WriteFailure
	require.ErrorAs(t, err, &wf)
	assert.Empty(t, wf.Path)
	assert.Contains(t, wf.Error(), "'console'")
}

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func TestSetDestinationAfterShutdown(t *testing.T) {
	logger, logPath := createTestLogger(t)
	require.NoError(t, logger.Shutdown())

	late := filepath.Join(filepath.Dir(logPath), "late.log")
	assert.ErrorIs(t, logger.SetDestination(late), ErrShutdown)
	assert.Empty(t, logger.Stats().Destination)
	assert.Zero(t, logger.Stats().DestErrors)

	_, err := os.Stat(late)
	assert.ErrorIs(t, err, os.ErrNotExist, "no file may be opened after shutdown")
}

func TestSinkRejectsDestinationAfterClose(t *testing.T) {
	sink := newSinkManager(&bytes.Buffer{}, func(string, ...any) {})
	dir := t.TempDir()

	require.NoError(t, sink.setDestination(filepath.Join(dir, "a.log")))
	sink.close()
	require.NoError(t, sink.waitClosers())
	assert.Empty(t, sink.currentPath())

	err := sink.setDestination(filepath.Join(dir, "b.log"))
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Empty(t, sink.currentPath())
	assert.NoError(t, sink.waitClosers())
}
