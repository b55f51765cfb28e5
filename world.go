package entitree

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/erigontech/entitree/internal/xmath"
)

// World is the top-level container: a shard map of pools (one per record
// type), a cache of their extractors, an entity-to-archetype index, and
// the monotonic id allocator. Every operation takes *World by reference
// and is safe to call concurrently from any goroutine.
//
// The three maps are sync.Map rather than a single mutex-guarded map so
// that looking up a pool or extractor for one archetype never serializes
// against a lookup for another; no sharded/striped map type appears
// anywhere in this project's dependency graph (erigon itself leans on MDBX
// transactions for this kind of index rather than an in-process concurrent
// map), so the standard library's own concurrent map is the correct
// idiomatic choice here — see DESIGN.md.
type World struct {
	archetypes   sync.Map // TypeID -> *pool
	extractors   sync.Map // TypeID -> *Extractor
	entityIndex  sync.Map // EntityId -> TypeID
	nextEntityID atomic.Uint32
	logger       *zap.Logger
	metrics      *Metrics
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger attaches a logger used for the two unrecoverable conditions
// this package surfaces outside of normal returns: a metadata offset that
// lies outside its record's layout (logged in every build when a record
// type's Extractor is built on its first Add) and entity-id exhaustion in
// Add. Neither is on the hot path; Remove, ExtractFrom and QueryFrom never
// log.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// WithMetrics attaches a Metrics handle (see NewMetrics) for archetype-
// level population and churn counters.
func WithMetrics(m *Metrics) WorldOption {
	return func(w *World) { w.metrics = m }
}

// NewWorld returns an empty World.
func NewWorld(opts ...WorldOption) *World {
	w := &World{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add stores value in the pool for R, building and caching R's Extractor
// on first use, and returns its newly assigned EntityId. The only failure
// mode is entity-id exhaustion.
func Add[R Extractable](w *World, value R) (EntityId, error) {
	aid := typeOf[R]()
	extractor := w.extractorFor(aid, func() *Extractor { return buildExtractor[R](w.logger) })
	id, err := w.allocID()
	if err != nil {
		return 0, err
	}
	p := w.poolFor(aid, extractor)
	rec := newEntityRecord(value, extractor)

	p.mu.Lock()
	p.insert(id, rec)
	n := p.len()
	p.mu.Unlock()

	w.entityIndex.Store(id, aid)
	w.metrics.observeAdd(aid.String(), n)
	return id, nil
}

// Remove deletes id from its pool, if present, and drops the pool's
// reference to its record. Outstanding Handles keep the record alive
// regardless — removal only gives up the pool's own reference, it does not
// force the record out from under a live Handle. Returns false, with no
// side effects, if id is unknown.
func (w *World) Remove(id EntityId) bool {
	aidAny, ok := w.entityIndex.LoadAndDelete(id)
	if !ok {
		return false
	}
	aid := aidAny.(TypeID)

	pAny, ok := w.archetypes.Load(aid)
	if !ok {
		return false
	}
	p := pAny.(*pool)

	p.mu.Lock()
	rec, ok := p.remove(id)
	n := p.len()
	p.mu.Unlock()
	if !ok {
		return false
	}

	rec.release()
	w.metrics.observeRemove(aid.String(), n)
	return true
}

// ExtractFrom looks up id, locates its record under a brief read-lock, and
// resolves T against its extractor. It returns ok=false if id is unknown,
// was concurrently removed, or its record's type does not admit T.
func ExtractFrom[T any](w *World, id EntityId) (Handle[T], bool) {
	aidAny, ok := w.entityIndex.Load(id)
	if !ok {
		return Handle[T]{}, false
	}
	aid := aidAny.(TypeID)

	pAny, ok := w.archetypes.Load(aid)
	if !ok {
		return Handle[T]{}, false
	}
	p := pAny.(*pool)

	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, found := p.find(id)
	if !found {
		return Handle[T]{}, false
	}
	return MakeHandle[T](rec)
}

// QueryFrom gathers a Snapshot[T]: every pool whose extractor admits T is
// read-locked just long enough to clone a Handle[T] for each of its
// entries, then released; the Snapshot returned holds no lock during
// consumption. Pools are visited in no particular order, and the snapshot
// is not globally consistent across pools — each one is observed at a
// possibly different instant.
func QueryFrom[T any](w *World) *Snapshot[T] {
	var all []Entry[T]
	w.archetypes.Range(func(_, value any) bool {
		p := value.(*pool)
		p.mu.RLock()
		entries, admits := snapshotHandles[T](p)
		p.mu.RUnlock()
		if admits {
			all = append(all, entries...)
		}
		return true
	})
	return &Snapshot[T]{entries: all}
}

// extractorFor returns the cached Extractor for aid, building one with
// build() if this is the first time aid has been seen. If two goroutines
// race to build the same archetype's Extractor, the loser's copy is
// discarded in favor of whichever LoadOrStore wins; both copies are
// semantically identical since both are built from the same static
// metadata.
func (w *World) extractorFor(aid TypeID, build func() *Extractor) *Extractor {
	if v, ok := w.extractors.Load(aid); ok {
		return v.(*Extractor)
	}
	actual, _ := w.extractors.LoadOrStore(aid, build())
	return actual.(*Extractor)
}

// poolFor returns the pool for aid, creating it (seeded with extractor) if
// this is the first entity of that archetype.
func (w *World) poolFor(aid TypeID, extractor *Extractor) *pool {
	if v, ok := w.archetypes.Load(aid); ok {
		return v.(*pool)
	}
	actual, _ := w.archetypes.LoadOrStore(aid, newPool(extractor))
	return actual.(*pool)
}

// allocID assigns the next EntityId. nextEntityID only ever needs to be
// compared for equality, so a CAS retry loop with no further ordering
// requirement is sufficient to keep ids unique under concurrent Add calls.
func (w *World) allocID() (EntityId, error) {
	for {
		cur := w.nextEntityID.Load()
		sum, _ := xmath.SafeAdd(uint64(cur), 1)
		if sum > xmath.MaxUint32 {
			w.logger.Error("entitree: entity id space exhausted", zap.Uint32("next_entity_id", cur))
			return 0, fmt.Errorf("entitree: allocating id after %d: %w", cur, ErrEntityIDExhausted)
		}
		if w.nextEntityID.CompareAndSwap(cur, uint32(sum)) {
			return EntityId(cur), nil
		}
	}
}
