package entitree

import deadlock "github.com/sasha-s/go-deadlock"

// EntityId is the 32-bit, monotonically assigned identifier Add returns
// for a stored record. Ids are unique within a World; once the id space is
// exhausted Add returns ErrEntityIDExhausted, and ids are never reused.
type EntityId uint32

// pool is the ordered collection of (EntityId, *entityRecord) pairs for one
// record type ("archetype"), guarded by its own reader-writer lock.
//
// pool's exported-looking methods assume the caller already holds the
// matching lock (mu.Lock for insert/remove, mu.RLock for snapshotHandles);
// pool itself never acquires mu, so that a World holding one pool's lock
// can never be tempted to recurse into locking another by calling through
// a pool method.
//
// mu is a deadlock-checked RWMutex (github.com/sasha-s/go-deadlock) rather
// than sync.RWMutex: callers must never hold two pools' locks at once, and
// go-deadlock catches a violation of that rule by failing fast in tests
// instead of deadlocking silently in production.
type pool struct {
	mu        deadlock.RWMutex
	extractor *Extractor
	ids       []EntityId
	recs      []*entityRecord
	index     map[EntityId]int
}

func newPool(extractor *Extractor) *pool {
	return &pool{
		extractor: extractor,
		index:     make(map[EntityId]int),
	}
}

// insert appends (id, rec) to the pool. Caller must hold mu (write).
func (p *pool) insert(id EntityId, rec *entityRecord) {
	p.index[id] = len(p.ids)
	p.ids = append(p.ids, id)
	p.recs = append(p.recs, rec)
}

// remove locates id by index lookup and swap-removes it, returning the
// removed record. Order within the pool is not a public contract. Caller
// must hold mu (write).
func (p *pool) remove(id EntityId) (*entityRecord, bool) {
	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	rec := p.recs[idx]
	last := len(p.ids) - 1
	if idx != last {
		movedID := p.ids[last]
		p.ids[idx] = movedID
		p.recs[idx] = p.recs[last]
		p.index[movedID] = idx
	}
	p.ids = p.ids[:last]
	p.recs = p.recs[:last]
	delete(p.index, id)
	return rec, true
}

// find locates id's record without removing it. Caller must hold mu (read
// or write).
func (p *pool) find(id EntityId) (*entityRecord, bool) {
	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.recs[idx], true
}

// len reports the number of entries currently in the pool. Caller must
// hold mu (read or write).
func (p *pool) len() int {
	return len(p.ids)
}
