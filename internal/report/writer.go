package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink is an append-only text destination shared by concurrently
// completing items. A single mutex per sink guarantees that blocks from
// distinct items never interleave; a reader of the file only ever sees
// whole blocks.
type Sink struct {
	mu sync.Mutex
	f  *os.File
}

// Open creates the destination (and its directory) if needed and opens
// it for appending. Existing content is never rewritten or truncated.
func Open(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return &Sink{f: f}, nil
}

// Append writes one whole block under the sink's lock. A failure here
// means the logs themselves are unreliable, so callers treat it as
// fatal.
func (s *Sink) Append(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.WriteString(block); err != nil {
		return fmt.Errorf("append report block: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
