package dwarfscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorReadCString(t *testing.T) {
	c := newCursor([]byte("hello\x00world"))
	assert.Equal(t, "hello", string(c.ReadCString()))
	assert.Equal(t, 6, c.Tell())
}

func TestCursorUintReaders(t *testing.T) {
	c := newCursor([]byte{0x01, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00})
	assert.Equal(t, uint8(0x01), c.Uint8())
	assert.Equal(t, uint16(0x0002), c.Uint16())
	assert.Equal(t, uint32(0x00000003), c.Uint32())
}

func TestCstringAtOutOfBounds(t *testing.T) {
	assert.Nil(t, cstringAt([]byte("abc"), 10))
}

func TestCstringAtFindsTerminator(t *testing.T) {
	assert.Equal(t, "world", string(cstringAt([]byte("hello\x00world\x00"), 6)))
}
