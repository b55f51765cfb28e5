package entitree

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotForEachParallelVisitsEveryEntry(t *testing.T) {
	w := NewWorld()
	const n = 200
	for i := 0; i < n; i++ {
		_, err := Add(w, Entity{Name: "x"})
		require.NoError(t, err)
	}

	snap := QueryFrom[Entity](w)
	var visited atomic.Int64
	err := snap.ForEachParallel(context.Background(), 8, func(_ EntityId, h Handle[Entity]) error {
		defer h.Release()
		visited.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, n, visited.Load())
}

func TestSnapshotForEachParallelPropagatesError(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 10; i++ {
		_, err := Add(w, Entity{Name: "x"})
		require.NoError(t, err)
	}

	snap := QueryFrom[Entity](w)
	boom := errBoom
	err := snap.ForEachParallel(context.Background(), 4, func(_ EntityId, h Handle[Entity]) error {
		defer h.Release()
		return boom
	})
	require.ErrorIs(t, err, errBoom)
}

func TestSnapshotForEachParallelEmpty(t *testing.T) {
	w := NewWorld()
	snap := QueryFrom[Entity](w)
	err := snap.ForEachParallel(context.Background(), 4, func(EntityId, Handle[Entity]) error {
		t.Fatal("fn must not be called for an empty snapshot")
		return nil
	})
	require.NoError(t, err)
}

var errBoom = errBoomSentinel{}

type errBoomSentinel struct{}

func (errBoomSentinel) Error() string { return "boom" }
