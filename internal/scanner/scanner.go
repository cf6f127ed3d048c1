// Package scanner adapts barcode readers into a stream of decoded codes.
// Decoding itself happens upstream (camera SDK, browser decoder, hardware
// wedge); every Source here only delivers the resulting strings.
package scanner

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is carried in a ScanEvent when the reader cannot produce codes
	// (permission denied, device gone, read failure).
	ErrUnavailable = errors.New("scanner unavailable")
	ErrClosed      = errors.New("scanner closed")
	ErrBusy        = errors.New("scanner queue full")
)

// ScanEvent is either a decoded barcode or a reader failure.
type ScanEvent struct {
	Code string
	Err  error
}

// Source produces scan events until ctx is done or the reader is exhausted,
// then closes the channel.
type Source interface {
	Events(ctx context.Context) <-chan ScanEvent
}
