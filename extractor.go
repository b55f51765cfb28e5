package entitree

import (
	"unsafe"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
)

// Extractor is the runtime table derived once from a record type's static
// metadata: a map from sub-type TypeID to byte offset within the record,
// plus the function that runs the record's destructor side effect and the
// record's layout facts, kept around for debug assertions.
//
// Built once per record type by buildExtractor and cached by World; shared
// by every EntityRecord of that type.
type Extractor struct {
	recordType TypeID
	size       uintptr
	align      uintptr
	offsets    map[TypeID]uintptr
	dropper    func(unsafe.Pointer)
}

// admits reports whether t is extractable from a record governed by e.
func (e *Extractor) admits(t TypeID) bool {
	_, ok := e.offsets[t]
	return ok
}

// offsetOf returns the byte offset of t within the record, if extractable.
func (e *Extractor) offsetOf(t TypeID) (uintptr, bool) {
	off, ok := e.offsets[t]
	return off, ok
}

// dropRecord runs the registered destructor on ptr. Must be called exactly
// once, when the last holder of an EntityRecord backed by e releases it.
func (e *Extractor) dropRecord(ptr unsafe.Pointer) {
	e.dropper(ptr)
}

// buildExtractor flattens R's metadata tree into an Extractor by a
// depth-first walk of EntityMetadata(). R's own type is inserted at offset
// 0 before any user-declared entry is flattened, so a record is always
// extractable as itself regardless of what its metadata says.
func buildExtractor[R Extractable](logger *zap.Logger) *Extractor {
	var zero R
	rt := typeOf[R]()

	offsets := make(map[TypeID]uintptr, 8)
	offsets[rt] = 0
	flatten(zero.EntityMetadata(), 0, offsets)

	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)

	for t, off := range offsets {
		subSize := uintptr(0)
		if t != nil {
			subSize = t.Size()
		}
		ok := off+subSize <= size
		if !ok && logger != nil {
			logger.Error("entitree: metadata offset outside record layout",
				zap.String("record_type", rt.String()),
				zap.String("sub_type", t.String()),
				zap.Uintptr("offset", off),
				zap.String("record_size", datasize.ByteSize(size).HumanReadable()),
			)
		}
		assertf(ok, "offset %d + size %d exceeds record %s (size %d)", off, subSize, rt, size)
	}

	dropper := func(p unsafe.Pointer) {
		rec := (*R)(p)
		if d, ok := any(rec).(Dropper); ok {
			d.Drop()
		}
	}

	return &Extractor{
		recordType: rt,
		size:       size,
		align:      align,
		offsets:    offsets,
		dropper:    dropper,
	}
}
