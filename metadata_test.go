package entitree

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestFlattenLeaf(t *testing.T) {
	offsets := map[TypeID]uintptr{}
	flatten(Entity{}.EntityMetadata(), 0, offsets)
	require.Equal(t, uintptr(0), offsets[typeOf[string]()])
	require.Len(t, offsets, 1)
}

func TestFlattenBranchShiftsBase(t *testing.T) {
	offsets := map[TypeID]uintptr{}
	flatten(Living{}.EntityMetadata(), 0, offsets)

	entityOff, ok := offsets[typeOf[Entity]()]
	require.True(t, ok)
	require.Equal(t, unsafe.Offsetof(Living{}.Inner), entityOff)

	stringOff, ok := offsets[typeOf[string]()]
	require.True(t, ok)
	require.Equal(t, unsafe.Offsetof(Living{}.Inner)+unsafe.Offsetof(Entity{}.Name), stringOff)
}

func TestFlattenFirstInsertionWins(t *testing.T) {
	offsets := map[TypeID]uintptr{typeOf[string](): 42}
	flatten(Entity{}.EntityMetadata(), 0, offsets)
	require.Equal(t, uintptr(42), offsets[typeOf[string]()], "pre-seeded entry must not be overwritten")
}

func TestEmptyMetadata(t *testing.T) {
	offsets := map[TypeID]uintptr{}
	flatten(Empty{}.EntityMetadata(), 0, offsets)
	require.Empty(t, offsets)
}
