package scanner

import (
	"context"
	"sync"
)

// ChannelSource is fed by code that already holds a decoded barcode, e.g. the
// HTTP handler receiving results from the in-browser camera decoder.
type ChannelSource struct {
	mu     sync.Mutex
	ch     chan ScanEvent
	closed bool
}

func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{ch: make(chan ScanEvent, buffer)}
}

// Push queues a code without blocking.
func (s *ChannelSource) Push(code string) error {
	return s.send(ScanEvent{Code: code})
}

// Fail queues a reader failure, wrapped in ErrUnavailable by the caller if needed.
func (s *ChannelSource) Fail(err error) error {
	return s.send(ScanEvent{Err: err})
}

func (s *ChannelSource) send(ev ScanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.ch <- ev:
		return nil
	default:
		return ErrBusy
	}
}

// Close ends the stream; queued events are still delivered.
func (s *ChannelSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Events ignores ctx; consumers stop reading when their own context ends.
func (s *ChannelSource) Events(ctx context.Context) <-chan ScanEvent { return s.ch }
