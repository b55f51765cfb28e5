package entitree

import "unsafe"

// Handle[T] is a reference-counted, typed view onto a sub-region of a live
// entityRecord. As long as a Handle is live, the record it points into
// cannot be destroyed, even if the World has since removed it from its
// pool — removal only drops the pool's own reference, not the record.
//
// Go has no destructors, so unlike a Drop-on-scope-exit model, a Handle's
// contribution to the record's reference count must be released explicitly
// by calling Release once the caller is done with it. Forgetting to call it
// leaks the record (it is never destroyed); calling it twice double-
// releases, which is as much a call-site bug as double-unlocking a mutex.
type Handle[T any] struct {
	target *T
	rec    *entityRecord
}

// MakeHandle resolves T against rec's extractor and, on success, returns a
// Handle sharing rec's reference count (bumped by one for the new Handle).
func MakeHandle[T any](rec *entityRecord) (Handle[T], bool) {
	off, ok := rec.extractor.offsetOf(typeOf[T]())
	if !ok {
		return Handle[T]{}, false
	}
	target := (*T)(unsafe.Add(rec.data, off))
	return Handle[T]{target: target, rec: rec.clone()}, true
}

// Get returns the shared pointer to T. It is valid for as long as h (or any
// Handle/clone derived from the same record) has not been released.
func (h Handle[T]) Get() *T {
	return h.target
}

// Clone shares the underlying record (bumping its reference count) and
// copies the target pointer; the result is an independent Handle that must
// be released on its own.
func (h Handle[T]) Clone() Handle[T] {
	return Handle[T]{target: h.target, rec: h.rec.clone()}
}

// Release drops this Handle's contribution to the record's reference
// count. Call it exactly once per Handle (including ones returned by
// Clone, MakeHandle, or ExtractAs).
func (h Handle[T]) Release() {
	h.rec.release()
}

// ExtractAs resolves U against the same underlying record h points into,
// returning a new Handle sharing the reference count. It succeeds iff the
// record's extractor admits U — Go cannot add a type parameter to a
// method, so this is a free function rather than Handle[T].Extract[U].
func ExtractAs[U, T any](h Handle[T]) (Handle[U], bool) {
	return MakeHandle[U](h.rec)
}
