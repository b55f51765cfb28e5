package entitree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolInsertFindRemove(t *testing.T) {
	e := buildExtractor[Entity](zap.NewNop())
	p := newPool(e)

	r1 := newEntityRecord(Entity{Name: "a"}, e)
	r2 := newEntityRecord(Entity{Name: "b"}, e)
	r3 := newEntityRecord(Entity{Name: "c"}, e)

	p.insert(1, r1)
	p.insert(2, r2)
	p.insert(3, r3)
	require.Equal(t, 3, p.len())

	found, ok := p.find(2)
	require.True(t, ok)
	require.Same(t, r2, found)

	removed, ok := p.remove(1)
	require.True(t, ok)
	require.Same(t, r1, removed)
	require.Equal(t, 2, p.len())

	_, ok = p.find(1)
	require.False(t, ok, "removed id must no longer be findable")

	for _, id := range []EntityId{2, 3} {
		_, ok := p.find(id)
		require.True(t, ok, "swap-remove must not disturb surviving ids")
	}
}

func TestPoolRemoveUnknownID(t *testing.T) {
	e := buildExtractor[Entity](zap.NewNop())
	p := newPool(e)
	p.insert(1, newEntityRecord(Entity{Name: "a"}, e))

	_, ok := p.remove(99)
	require.False(t, ok)
	require.Equal(t, 1, p.len(), "failed remove must have no side effects")
}

func TestSnapshotHandlesEmptyPool(t *testing.T) {
	e := buildExtractor[Entity](zap.NewNop())
	p := newPool(e)

	entries, admits := snapshotHandles[string](p)
	require.True(t, admits)
	require.Empty(t, entries)
}

func TestSnapshotHandlesRejectsUnsupportedType(t *testing.T) {
	e := buildExtractor[Entity](zap.NewNop())
	p := newPool(e)
	p.insert(1, newEntityRecord(Entity{Name: "a"}, e))

	_, admits := snapshotHandles[int](p)
	require.False(t, admits)
}

func TestSnapshotHandlesClonesEveryEntry(t *testing.T) {
	e := buildExtractor[Entity](zap.NewNop())
	p := newPool(e)
	rec := newEntityRecord(Entity{Name: "a"}, e)
	p.insert(1, rec)

	entries, admits := snapshotHandles[string](p)
	require.True(t, admits)
	require.Len(t, entries, 1)
	require.Equal(t, uint32(2), rec.refs.Load(), "snapshot must bump the refcount for its clone")
	entries[0].Handle.Release()
}
