package services

import (
	"context"
	"sync"

	applog "novastock/internal/log"
	"novastock/internal/scanner"
)

// ScanFlow is the single consumer of a scanner.Source. Events are resolved one
// at a time in arrival order; HTTP handlers only read the latest outcome.
type ScanFlow struct {
	Catalog *CatalogService

	mu      sync.Mutex
	last    Resolution
	hasLast bool
	lastErr error
}

func NewScanFlow(c *CatalogService) *ScanFlow { return &ScanFlow{Catalog: c} }

// Run blocks until ctx is done or the source closes its stream.
func (f *ScanFlow) Run(ctx context.Context, src scanner.Source) error {
	events := src.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			f.Handle(ev)
		}
	}
}

// Handle resolves a single event and records the outcome.
func (f *ScanFlow) Handle(ev scanner.ScanEvent) {
	if ev.Err != nil {
		applog.Security(nil, "scan.error", map[string]any{"err": ev.Err.Error()})
		f.record(Resolution{}, false, ev.Err)
		return
	}
	res, err := f.Catalog.Resolve(ev.Code)
	if err != nil {
		applog.Error(nil, "scan.resolve.fail", err, map[string]any{"barcode": ev.Code})
		f.record(Resolution{}, false, err)
		return
	}
	if res.Found {
		applog.Info(nil, "scan.hit", map[string]any{"barcode": res.Barcode, "product": res.Product.ID})
	} else {
		applog.Info(nil, "scan.miss", map[string]any{"barcode": res.Barcode})
	}
	f.record(res, true, nil)
}

func (f *ScanFlow) record(res Resolution, ok bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = err
	if ok {
		f.last = res
		f.hasLast = true
	}
}

// Last returns the most recent resolution and the error of the most recent
// event, if that event failed.
func (f *ScanFlow) Last() (Resolution, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.hasLast, f.lastErr
}

// Discard forgets the last resolution and error, the "scan again" choice after a miss.
func (f *ScanFlow) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = Resolution{}
	f.hasLast = false
	f.lastErr = nil
}
