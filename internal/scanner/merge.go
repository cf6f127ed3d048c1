package scanner

import (
	"context"
	"sync"
)

type merged []Source

// Merge fans several sources into one stream so a single consumer sees every
// code. The stream closes when all sources have closed.
func Merge(sources ...Source) Source { return merged(sources) }

func (m merged) Events(ctx context.Context) <-chan ScanEvent {
	out := make(chan ScanEvent)
	var wg sync.WaitGroup
	for _, src := range m {
		wg.Add(1)
		go func(in <-chan ScanEvent) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-in:
					if !ok {
						return
					}
					select {
					case out <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}(src.Events(ctx))
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
