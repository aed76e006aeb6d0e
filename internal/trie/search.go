package trie

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

// BuildBestTrie implements the Best-Trie Search of spec.md §4.4: it
// enumerates every shift combination in [minShift, maxShift]^(stages-1) as a
// mixed-radix index (least significant digit varies fastest) and builds each one
// concurrently against a shared, read-only ValueArray. The smallest
// TotalSize wins; ties go to whichever candidate's mixed-radix index is
// smallest, matching the deterministic "first smallest seen" tie-break.
//
// workers bounds how many candidate builds run at once; 0 means
// runtime.GOMAXPROCS(0). Bounding concurrency only affects footprint, never
// the result: every candidate is still built and compared, per spec.md §5.
func BuildBestTrie(ctx context.Context, values ucd.ValueArray, minShift, maxShift, stages, workers int) (*Trie, error) {
	delta := maxShift - minShift + 1
	iters := 1
	for i := 1; i < stages; i++ {
		iters *= delta
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Trie, iters)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < iters; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = BuildTrie(values, shiftsForIndex(i, minShift, delta, stages))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, t := range results[1:] {
		if t.TotalSize < best.TotalSize {
			best = t
		}
	}
	return best, nil
}

// shiftsForIndex decomposes i into mixed-radix base-delta digits — one per
// non-root stage — each producing a shift value minShift+digit. The least
// significant digit (i % delta) varies fastest and becomes shifts[0].
func shiftsForIndex(i, minShift, delta, stages int) []int {
	shifts := make([]int, stages-1)
	for j := range shifts {
		shifts[j] = minShift + i%delta
		i /= delta
	}
	return shifts
}
