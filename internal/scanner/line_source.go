package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// LineSource reads one code per line, the way keyboard-wedge and USB HID
// scanners type them. Only the line terminator is stripped.
type LineSource struct {
	r io.Reader
}

func NewLineSource(r io.Reader) *LineSource { return &LineSource{r: r} }

func (s *LineSource) Events(ctx context.Context) <-chan ScanEvent {
	ch := make(chan ScanEvent)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			code := sc.Text()
			if code == "" {
				continue
			}
			select {
			case ch <- ScanEvent{Code: code}:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case ch <- ScanEvent{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}
