// Package freader memory-maps an object file and exposes a minimal,
// single-threaded, positional byte reader over it.
//
// Readers are not safe for concurrent use: independent parse tasks open
// independent Readers over the same path (separate mappings are permitted;
// see SPEC_FULL.md §5).
package freader

import (
	"encoding/binary"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// Whence mirrors io.Seeker's constants, named to match the original's
// std::ios::seekdir vocabulary (beg/cur/end) used throughout
// original_source/include/orc/parse_file.hpp.
type Whence int

const (
	Beg Whence = iota
	Cur
	End
)

// mapping is the mmap'd backing store for a Reader, reference counted via
// ordinary Go GC plus an explicit Close for early release.
type mapping struct {
	data   []byte
	closed bool
}

func mapFile(f *os.File, size int64) (*mapping, error) {
	if size == 0 {
		return &mapping{data: []byte{}}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "bad mmap")
	}
	return &mapping{data: data}, nil
}

func (m *mapping) Close() error {
	if m.closed || len(m.data) == 0 {
		m.closed = true
		return nil
	}
	m.closed = true
	return syscall.Munmap(m.data)
}

// Reader is a memory-mapped, random-access byte reader over a single file
// (or a sub-range of one). The zero value is not usable; construct with
// Open or Sub.
type Reader struct {
	m   *mapping
	f   int // absolute offset of m.data[0] within the logical file window
	pos int // current position, relative to f
	lim int // exclusive upper bound, relative to f
}

// Open mmaps the file at path in its entirety.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	m, err := mapFile(f, info.Size())
	if err != nil {
		return nil, err
	}

	return &Reader{m: m, f: 0, pos: 0, lim: len(m.data)}, nil
}

// OpenRange mmaps path in its entirety but windows the Reader to
// [start, end), matching what AbsoluteRange previously recorded. Used to
// reopen one embedded Mach-O image out of a fat binary or archive without
// re-walking the outer containers.
func OpenRange(path string, start, end int64) (*Reader, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	r.f += int(start)
	r.lim = int(end - start)
	r.pos = 0
	return r, nil
}

// Close releases the underlying mapping.
func (r *Reader) Close() error {
	return r.m.Close()
}

// Size returns the number of bytes remaining from the current position to
// the end of the reader's window, matching the original's freader::size().
func (r *Reader) Size() int { return r.lim - r.pos }

// Tell returns the current position relative to the start of the window.
func (r *Reader) Tell() int64 { return int64(r.pos) }

// Seek repositions the reader within its window.
func (r *Reader) Seek(offset int64, whence Whence) {
	switch whence {
	case Beg:
		r.pos = int(offset)
	case Cur:
		r.pos += int(offset)
	case End:
		r.pos = r.lim - int(offset)
	}
}

// Read copies n bytes from the current position and advances it.
func (r *Reader) Read(n int) []byte {
	assertInBounds(r, n)
	b := r.m.data[r.f+r.pos : r.f+r.pos+n]
	r.pos += n
	return b
}

// Get reads a single byte and advances the position.
func (r *Reader) Get() byte {
	assertInBounds(r, 1)
	b := r.m.data[r.f+r.pos]
	r.pos++
	return b
}

// ReadCString scans forward to (and past) a NUL terminator, returning the
// bytes up to but excluding it.
func (r *Reader) ReadCString() []byte {
	start := r.f + r.pos
	p := start
	for p < r.f+r.lim && r.m.data[p] != 0 {
		p++
	}
	n := p - start
	r.pos += n + 1
	return r.m.data[start:p]
}

// Uint32 / Uint64 read little-endian fixed-width integers, advancing the
// position — the Go equivalent of read_pod<T> for the fixed-width cases the
// DWARF/Mach-O decoders need.
func (r *Reader) Uint8() uint8   { return r.Get() }
func (r *Reader) Uint16() uint16 { return binary.LittleEndian.Uint16(r.Read(2)) }
func (r *Reader) Uint32() uint32 { return binary.LittleEndian.Uint32(r.Read(4)) }
func (r *Reader) Uint64() uint64 { return binary.LittleEndian.Uint64(r.Read(8)) }

// WindowBytes returns the raw bytes of the reader's whole window ([0, lim)
// relative to its own start), independent of the current position. This is
// used to hand a read-only byte range to libraries that want an
// io.ReaderAt, such as github.com/blacktop/go-macho's envelope reader.
func (r *Reader) WindowBytes() []byte {
	return r.m.data[r.f : r.f+r.lim]
}

// AbsoluteRange returns the window's [start, end) byte offsets within the
// backing mapping, letting a caller record a byte range that can be
// relocated later (internal/objfile's object-file registry uses this to
// reopen a specific embedded Mach-O image by path + range).
func (r *Reader) AbsoluteRange() (start, end int64) {
	return int64(r.f), int64(r.f + r.lim)
}

// Sub returns a new Reader whose window is [Tell(), end), sharing the same
// backing mapping. This is the Go analogue of freader::subbuf: no new mmap
// is created (the original remaps to release unused pages; Go's GC makes
// that optimization unnecessary, since the slice header alone keeps only
// the referenced pages logically reachable while the OS still owns the
// whole mapping until Close).
func (r *Reader) Sub(end int64) *Reader {
	return &Reader{
		m:   r.m,
		f:   r.f,
		pos: r.pos,
		lim: int(end),
	}
}

// TempSeek saves the current position, seeks to offset/whence, invokes fn,
// and restores the original position on every exit path (including panic),
// matching original_source/include/orc/parse_file.hpp's temp_seek.
func TempSeek[T any](r *Reader, offset int64, whence Whence, fn func() T) T {
	saved := r.pos
	defer func() { r.pos = saved }()
	r.Seek(offset, whence)
	return fn()
}

// TempSeekErr is TempSeek for functions that can fail.
func TempSeekErr[T any](r *Reader, offset int64, whence Whence, fn func() (T, error)) (T, error) {
	saved := r.pos
	defer func() { r.pos = saved }()
	r.Seek(offset, whence)
	return fn()
}
