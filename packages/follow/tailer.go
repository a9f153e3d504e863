// Package follow streams an event-log file as a test runner appends to
// it, so a live run can be rendered while it happens.
package follow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the fallback polling cadence for filesystems
// that do not deliver change notifications.
const DefaultPollInterval = time.Second

// Tailer follows one file. It starts at the beginning, forwards every
// appended byte, and starts over when the file is truncated or replaced.
type Tailer struct {
	path string
	poll time.Duration
	log  zerolog.Logger

	f      *os.File
	offset int64
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithPollInterval sets the fallback polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tailer) {
		t.poll = d
	}
}

// WithLogger sets the logger used for watch diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tailer) {
		t.log = log
	}
}

// NewTailer creates a Tailer for path. The file does not have to exist
// yet; Run waits for it to appear.
func NewTailer(path string, opts ...Option) *Tailer {
	t := &Tailer{
		path: filepath.Clean(path),
		poll: DefaultPollInterval,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run copies file contents into w until ctx is cancelled. The parent
// directory is watched rather than the file itself so creation and
// replacement are seen; a poll ticker covers filesystems without
// reliable notifications.
func (t *Tailer) Run(ctx context.Context, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	defer t.close()

	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	if err := t.drain(w); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = t.drain(w)
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != t.path {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Replaced file; reopen from the top.
				t.close()
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				if err := t.drain(w); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.log.Warn().Err(err).Msg("watcher error")

		case <-ticker.C:
			if err := t.drain(w); err != nil {
				return err
			}
		}
	}
}

// drain forwards everything between the current offset and end of file.
func (t *Tailer) drain(w io.Writer) error {
	if t.f == nil {
		f, err := os.Open(t.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		t.f = f
		t.offset = 0
	}

	info, err := t.f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < t.offset {
		// Truncated under us; start over.
		if _, err := t.f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		t.offset = 0
	}

	n, err := io.Copy(w, t.f)
	t.offset += n
	return err
}

func (t *Tailer) close() {
	if t.f != nil {
		_ = t.f.Close()
		t.f = nil
		t.offset = 0
	}
}
