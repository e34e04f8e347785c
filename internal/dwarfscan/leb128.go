package dwarfscan

// byteReader is the minimal cursor contract decodeULEB128/decodeSLEB128
// need; both *cursor (over a materialized section []byte) and
// *freader.Reader (over the mmap'd file) satisfy it.
type byteReader interface {
	Get() byte
}

// decodeULEB128 reads an unsigned LEB128 value, matching
// original_source/src/parse_file.cpp's uleb128: shifts of 32 or more on a
// 32-bit accumulator are undefined behavior in C++, so bits beyond the 32nd
// are silently dropped even though every continuation byte must still be
// consumed.
func decodeULEB128(r byteReader) uint32 {
	var result uint32
	var shift uint

	for {
		c := r.Get()
		if shift < 32 {
			result |= uint32(c&0x7f) << shift
		}
		if c&0x80 == 0 {
			return result
		}
		shift += 7
	}
}

// decodeSLEB128 reads a signed LEB128 value, matching
// original_source/src/parse_file.cpp's sleb128 exactly, including its
// narrowing to a 32-bit accumulator and sign extension from the sixth bit
// of the final byte.
func decodeSLEB128(r byteReader) int32 {
	var result int32
	var shift uint
	var sign bool

	for {
		c := r.Get()
		result |= int32(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			sign = c&0x40 != 0
			break
		}
	}

	const sizeBits = 32
	if sign && shift < sizeBits {
		result |= -(1 << shift)
	}

	return result
}

// decodeULEB128Offset is decodeULEB128 widened to 64 bits. The decoder uses
// it for every unsigned LEB128 field it reads (abbreviation codes, tags,
// attribute and form codes, block lengths, and udata/ref_udata/strx/addrx
// values); decodeULEB128 keeps the original's 32-bit behavior.
func decodeULEB128Offset(r byteReader) uint64 {
	var result uint64
	var shift uint

	for {
		c := r.Get()
		if shift < 64 {
			result |= uint64(c&0x7f) << shift
		}
		if c&0x80 == 0 {
			return result
		}
		shift += 7
	}
}
