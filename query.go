package entitree

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/erigontech/entitree/internal/xmath"
)

// defaultParallelChunk bounds how many entries a single worker is expected
// to cover when ForEachParallel is asked for an unbounded worker count: one
// worker per chunk, rather than one goroutine per entry.
const defaultParallelChunk = 64

// Entry is one result of a query: the entity's id paired with a typed
// Handle into its record. The Handle must be released once the caller is
// done with it, same as any other Handle.
type Entry[T any] struct {
	ID     EntityId
	Handle Handle[T]
}

// snapshotHandles clones a Handle[T] for every entry currently in p, iff
// p's extractor admits T. Caller must hold p.mu for reading; the returned
// slice holds no reference to p and can be used after the lock is
// released — that decoupling from p's lock is the entire point of taking
// a snapshot instead of iterating the pool live.
func snapshotHandles[T any](p *pool) ([]Entry[T], bool) {
	if !p.extractor.admits(typeOf[T]()) {
		return nil, false
	}
	out := make([]Entry[T], 0, len(p.ids))
	for i, id := range p.ids {
		h, ok := MakeHandle[T](p.recs[i])
		if !ok {
			continue
		}
		out = append(out, Entry[T]{ID: id, Handle: h})
	}
	return out, true
}

// Snapshot is the result of QueryFrom[T]: a point-in-time, lock-free
// collection of (EntityId, Handle[T]) pairs gathered by briefly read-
// locking each archetype pool that admits T. It is not a globally
// consistent view across pools — each pool was observed at a possibly
// different instant — and no ordering among its entries is promised.
type Snapshot[T any] struct {
	entries []Entry[T]
}

// Len reports the number of entries in the snapshot.
func (s *Snapshot[T]) Len() int {
	return len(s.entries)
}

// Entries returns the snapshot's entries directly. The caller owns the
// returned slice and is responsible for releasing every Handle in it.
func (s *Snapshot[T]) Entries() []Entry[T] {
	return s.entries
}

// ForEach calls fn for every entry, in the (unspecified) order they were
// collected. Handles are not released automatically; fn (or its caller)
// must call h.Release() once done with it.
func (s *Snapshot[T]) ForEach(fn func(id EntityId, h Handle[T])) {
	for _, e := range s.entries {
		fn(e.ID, e.Handle)
	}
}

// ForEachParallel fans the snapshot out across up to workers goroutines,
// using golang.org/x/sync/errgroup and a weighted semaphore to bound
// concurrent work the same way erigon's own aggregator caps fan-out over an
// otherwise-unbounded slice of independent items. It returns the first
// error any call to fn reports, after every already-started call has
// finished. workers <= 0 picks a default sized by the snapshot itself
// (one worker per defaultParallelChunk entries, minimum one) rather than
// spawning one goroutine per entry.
func (s *Snapshot[T]) ForEachParallel(ctx context.Context, workers int, fn func(id EntityId, h Handle[T]) error) error {
	if len(s.entries) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = xmath.CeilDiv(len(s.entries), defaultParallelChunk)
		if workers < 1 {
			workers = 1
		}
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(ctx)
	for _, e := range s.entries {
		e := e
		if err := sem.Acquire(ctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return fn(e.ID, e.Handle)
		})
	}
	return g.Wait()
}
