package binarycodec

import "encoding/binary"

// writeBuffer accumulates encoded bytes between pulls. All integers are
// written big-endian.
type writeBuffer struct {
	b []byte
}

func (w *writeBuffer) Len() int {
	return len(w.b)
}

func (w *writeBuffer) putBytes(p []byte) {
	w.b = append(w.b, p...)
}

func (w *writeBuffer) putInt16(v int16) {
	w.b = binary.BigEndian.AppendUint16(w.b, uint16(v))
}

func (w *writeBuffer) putInt32(v int32) {
	w.b = binary.BigEndian.AppendUint32(w.b, uint32(v))
}

// reserveInt32 appends a placeholder for a length prefix and returns its
// offset for setInt32.
func (w *writeBuffer) reserveInt32() int {
	pos := len(w.b)
	w.b = append(w.b, 0, 0, 0, 0)
	return pos
}

func (w *writeBuffer) setInt32(pos int, v int32) {
	binary.BigEndian.PutUint32(w.b[pos:pos+4], uint32(v))
}

// take hands the accumulated bytes to the caller, so they are never written
// again. When more output is expected a small fresh backing array is
// allocated; append grows it as tuples arrive, so next only caps the
// initial capacity.
func (w *writeBuffer) take(next int) []byte {
	out := w.b
	w.b = nil
	if next > 0 {
		w.b = make([]byte, 0, min(next, minBufferSize))
	}
	return out
}

// reset discards the accumulated bytes.
func (w *writeBuffer) reset() {
	w.b = w.b[:0]
}
