package binarycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteBufferTake(t *testing.T) {
	var w writeBuffer
	w.putInt16(-1)
	pos := w.reserveInt32()
	w.putBytes([]byte("ab"))
	w.setInt32(pos, 2)

	out := w.take(1 << 30)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0, 0, 2, 'a', 'b'}, out)
	assert.Zero(t, w.Len())
	assert.LessOrEqual(t, cap(w.b), minBufferSize, "a large hint must not be reserved up front")

	w.putInt32(7)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0, 0, 2, 'a', 'b'}, out, "taken bytes are never written again")

	assert.Equal(t, []byte{0, 0, 0, 7}, w.take(16))
	assert.Equal(t, 16, cap(w.b))

	assert.Empty(t, w.take(0))
	assert.Nil(t, w.b)
}
