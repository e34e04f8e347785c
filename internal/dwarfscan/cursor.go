package dwarfscan

import "encoding/binary"

// cursor is a position-tracking reader over a section's already-materialized
// bytes (github.com/blacktop/go-macho's Section.Data() already copies and
// decompresses section content out of the mmap'd file, so there is nothing
// left for internal/freader to buy here — this is a plain slice cursor).
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor { return &cursor{data: data} }

func (c *cursor) Tell() int      { return c.pos }
func (c *cursor) Len() int       { return len(c.data) }
func (c *cursor) Done() bool     { return c.pos >= len(c.data) }
func (c *cursor) Seek(pos int)   { c.pos = pos }

func (c *cursor) Get() byte {
	b := c.data[c.pos]
	c.pos++
	return b
}

func (c *cursor) Read(n int) []byte {
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) ReadCString() []byte {
	start := c.pos
	for c.pos < len(c.data) && c.data[c.pos] != 0 {
		c.pos++
	}
	b := c.data[start:c.pos]
	c.pos++ // skip the NUL
	return b
}

func (c *cursor) Uint8() uint8   { return c.Get() }
func (c *cursor) Uint16() uint16 { return binary.LittleEndian.Uint16(c.Read(2)) }
func (c *cursor) Uint32() uint32 { return binary.LittleEndian.Uint32(c.Read(4)) }
func (c *cursor) Uint64() uint64 { return binary.LittleEndian.Uint64(c.Read(8)) }

// cstringAt reads a NUL-terminated string starting at an absolute offset
// into data, without disturbing the cursor's own position — used to resolve
// DW_FORM_strp/line_strp offsets into __debug_str/__debug_line_str.
func cstringAt(data []byte, offset uint32) []byte {
	if int(offset) >= len(data) {
		return nil
	}
	end := int(offset)
	for end < len(data) && data[end] != 0 {
		end++
	}
	return data[offset:end]
}
