// Package batch runs a per-item function over a slice in parallel contiguous
// chunks and gathers the results back in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic wraps a panic raised inside a worker.
var ErrWorkerPanic = errors.New("batch: worker panicked")

// Workers resolves the worker count. A positive request wins; otherwise the
// host core count minus reserved is used. The result is never below one.
func Workers(requested, reserved int) int {
	if requested > 0 {
		return requested
	}
	n := runtime.NumCPU() - reserved
	if n < 1 {
		return 1
	}
	return n
}

// Span is a half-open [Start, End) range of item positions.
type Span struct {
	Start, End int
}

// Split partitions n items into at most parts contiguous spans whose sizes
// differ by at most one. Empty input yields no spans.
func Split(n, parts int) []Span {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	size, extra := n/parts, n%parts
	spans := make([]Span, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < extra {
			end++
		}
		spans = append(spans, Span{Start: start, End: end})
		start = end
	}
	return spans
}

// Map applies fn to every item using up to workers goroutines, one contiguous
// chunk each. Output position i holds fn(items[i]). The first error or panic
// cancels the remaining chunks and is returned; no partial output is returned.
func Map[In, Out any](ctx context.Context, items []In, workers int, fn func(In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))
	spans := Split(len(items), workers)

	g, gctx := errgroup.WithContext(ctx)
	for _, span := range spans {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: chunk [%d,%d): %v", ErrWorkerPanic, span.Start, span.End, r)
				}
			}()
			for i := span.Start; i < span.End; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := fn(items[i])
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				out[i] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
