package event

import (
	"bufio"
	"bytes"
	"io"

	"github.com/rs/zerolog"
)

const (
	scanBufSize = 64 * 1024
	// Stack dumps inside fail events can make lines very long.
	scanBufMax = 4 * 1024 * 1024
)

// Scanner reads a JSON-Lines event stream and yields one decoded event per
// Scan. Blank lines, malformed lines and unknown kinds are skipped (logged
// at debug); they never stop the stream.
type Scanner struct {
	sc   *bufio.Scanner
	cur  *Event
	line int
	log  zerolog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithLogger sets the logger used for skipped-line diagnostics.
func WithLogger(log zerolog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.log = log
	}
}

// NewScanner creates a Scanner over r.
func NewScanner(r io.Reader, opts ...ScannerOption) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, scanBufSize), scanBufMax)
	s := &Scanner{sc: sc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan advances to the next well-formed event. It returns false at end of
// stream or on a read error.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		ev, err := Decode(raw)
		if err != nil {
			s.log.Debug().Int("line", s.line).Err(err).Msg("skipping line")
			continue
		}
		s.cur = ev
		return true
	}
	return false
}

// Event returns the event produced by the last successful Scan.
func (s *Scanner) Event() *Event {
	return s.cur
}

// Line returns the 1-based input line number of the current event.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first read error encountered, if any.
func (s *Scanner) Err() error {
	return s.sc.Err()
}
