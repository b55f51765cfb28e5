package entitree

import (
	"sync/atomic"
	"unsafe"
)

// entityRecord is the heap-allocated, shared header for one stored record:
// a type-erased pointer to the boxed value, the extractor that knows how to
// resolve sub-types against it and how to destroy it, and an atomic
// reference count.
//
// refs starts at 1, representing the pool's own holding. Every Handle
// cloned from the record increments it; every Handle release decrements
// it; World.Remove releases the pool's holding once pool.remove has taken
// the record out of its pool. The transition to zero runs
// extractor.dropRecord exactly once.
//
// Go's GC does not move or reclaim data early while keep holds a reference
// to it, so — unlike the non-GC'd languages this design originates from —
// entityRecord needs no separate destructor call to reclaim memory; dropper
// only needs to run the record's user-visible Dropper side effect before
// the reference is released.
type entityRecord struct {
	data      unsafe.Pointer
	keep      any
	extractor *Extractor
	refs      atomic.Uint32
}

// newEntityRecord boxes value on the heap and returns a record with an
// initial reference count of 1.
func newEntityRecord[R Extractable](value R, extractor *Extractor) *entityRecord {
	boxed := new(R)
	*boxed = value
	rec := &entityRecord{
		data:      unsafe.Pointer(boxed),
		keep:      boxed,
		extractor: extractor,
	}
	rec.refs.Store(1)
	return rec
}

// clone increments the reference count and returns rec, for callers that
// want the same pointer back (Handle construction goes through this).
func (rec *entityRecord) clone() *entityRecord {
	rec.refs.Add(1)
	return rec
}

// release decrements the reference count. If it was the last reference,
// the record's dropper runs and the record stops retaining its payload.
func (rec *entityRecord) release() {
	if rec.refs.Add(^uint32(0)) == 0 {
		rec.extractor.dropRecord(rec.data)
		rec.data = nil
		rec.keep = nil
	}
}
