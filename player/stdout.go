package player

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/ticks"
	"github.com/samber/mo"
)

const maxStatusLine = 64 * 1024

// StdoutSource follows the player's terminal output and keeps the most recent
// timestamp it printed. mpv redraws its status line with '\r', so both '\r'
// and '\n' terminate a line.
type StdoutSource struct {
	mu      sync.Mutex
	last    mo.Option[ticks.Ticks]
	drained chan struct{}
}

// NewStdoutSource returns a source that has seen no output yet.
func NewStdoutSource() *StdoutSource {
	return &StdoutSource{
		last:    mo.None[ticks.Ticks](),
		drained: make(chan struct{}),
	}
}

// Consume reads r until EOF. It must be called once; Drained is closed when it returns.
func (s *StdoutSource) Consume(r io.Reader) {
	defer close(s.drained)

	for {
		err := s.scan(r)
		if err == nil {
			return
		}

		log.Warnf("player output: %v", err)
		if !errors.Is(err, bufio.ErrTooLong) {
			// keep the pipe flowing so the player never blocks on a full buffer
			_, _ = io.Copy(io.Discard, r)
			return
		}
		// the oversized line is dropped and scanning resumes at the next terminator
	}
}

func (s *StdoutSource) scan(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxStatusLine)
	scanner.Split(scanStatusLines)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		position, err := ticks.ParseTimestamp(line)
		if err != nil {
			continue
		}

		s.mu.Lock()
		s.last = mo.Some(position)
		s.mu.Unlock()
	}

	return scanner.Err()
}

// Drained is closed once the output has been read to the end.
func (s *StdoutSource) Drained() <-chan struct{} {
	return s.drained
}

// Position returns the last timestamp printed, ErrNoPosition before the first one.
func (s *StdoutSource) Position(context.Context) (ticks.Ticks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.last.Get()
	if !ok {
		return 0, ErrNoPosition
	}
	return position, nil
}

// scanStatusLines is a bufio.SplitFunc treating '\r' and '\n' alike.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, bytes.TrimSpace(data[:i]), nil
	}

	if atEOF {
		return len(data), bytes.TrimSpace(data), nil
	}

	return 0, nil, nil
}
