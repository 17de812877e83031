// FILE: lixenwraith/asynclog/sink.go
package asynclog

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// destination is an open output file
type destination struct {
	path string
	file *os.File
}

// sinkManager owns the current destination. A single mutex covers exactly
// one line write or one swap, producers never touch it.
type sinkManager struct {
	mu      sync.Mutex
	dest    *destination // nil writes go to console
	closed  bool         // Set by close, no destination may be opened after it
	console io.Writer
	scratch []byte

	closers   sync.WaitGroup
	closeMu   sync.Mutex
	closeErrs error

	report func(format string, args ...any)
}

func newSinkManager(console io.Writer, report func(format string, args ...any)) *sinkManager {
	return &sinkManager{
		console: console,
		scratch: make([]byte, 0, 1024),
		report:  report,
	}
}

// setDestination swaps in path, or the console fallback when path is empty.
// The previous destination is closed asynchronously. On open failure the
// current destination stays in effect and an *IOError is returned.
// After close it fails with ErrShutdown and leaves nothing open.
func (s *sinkManager) setDestination(path string) error {
	var next *destination
	if path != "" {
		file, err := openDestination(path)
		if err != nil {
			ioErr := &IOError{Op: "open", Path: path, Err: err}
			s.report("%v\n", ioErr)
			return ioErr
		}
		next = &destination{path: path, file: file}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if next != nil {
			_ = next.file.Close()
		}
		return ErrShutdown
	}
	prev := s.dest
	s.dest = next
	s.mu.Unlock()

	if prev != nil {
		s.closers.Add(1)
		go s.closeDestination(prev)
	}
	return nil
}

// close retires the current destination for good and falls back to the
// console. Later setDestination calls fail with ErrShutdown.
func (s *sinkManager) close() {
	s.mu.Lock()
	prev := s.dest
	s.dest = nil
	s.closed = true
	s.mu.Unlock()

	if prev != nil {
		s.closers.Add(1)
		go s.closeDestination(prev)
	}
}

// openDestination opens path for appending, creating parent directories
func openDestination(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, destinationDirMode); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, destinationFileMode)
}

// closeDestination syncs and closes a retired destination.
// Nothing else references it once it has been swapped out.
func (s *sinkManager) closeDestination(d *destination) {
	defer s.closers.Done()
	defer func() {
		if r := recover(); r != nil {
			s.recordCloseError(&IOError{Op: "close", Path: d.path, Err: fmtErrorf("panic: %v", r)})
		}
	}()

	// Sync is best effort, a failed sync still gets a close attempt
	if err := d.file.Sync(); err != nil {
		s.recordCloseError(&IOError{Op: "sync", Path: d.path, Err: err})
	}
	if err := d.file.Close(); err != nil {
		s.recordCloseError(&IOError{Op: "close", Path: d.path, Err: err})
	}
}

func (s *sinkManager) recordCloseError(err error) {
	s.report("%v\n", err)
	s.closeMu.Lock()
	s.closeErrs = combineErrors(s.closeErrs, err)
	s.closeMu.Unlock()
}

// waitClosers blocks until every retired destination is closed and returns
// the close errors collected since the previous call
func (s *sinkManager) waitClosers() error {
	s.closers.Wait()
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	err := s.closeErrs
	s.closeErrs = nil
	return err
}

// writeLine appends line plus a newline to the current destination, or to
// the console when none is set
func (s *sinkManager) writeLine(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scratch = append(s.scratch[:0], line...)
	s.scratch = append(s.scratch, '\n')

	if s.dest != nil {
		if _, err := s.dest.file.Write(s.scratch); err != nil {
			return &WriteFailure{Path: s.dest.path, Err: err}
		}
		return nil
	}
	if _, err := s.console.Write(s.scratch); err != nil {
		return &WriteFailure{Err: err}
	}
	return nil
}

// currentPath returns the destination path, empty for console
func (s *sinkManager) currentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dest == nil {
		return ""
	}
	return s.dest.path
}
