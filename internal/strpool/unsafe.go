package strpool

import "unsafe"

// unsafeSlice reconstructs a []byte of the given length starting `offset`
// bytes from base. offset may be negative to reach back into the packed
// (length, hash) prefix that precedes every interned string's data pointer.
// This mirrors the original's unaligned-load accessors over a raw char*.
func unsafeSlice(base *byte, offset, length int) []byte {
	p := unsafe.Add(unsafe.Pointer(base), offset)
	return unsafe.Slice((*byte)(p), length)
}
