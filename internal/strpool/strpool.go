// Package strpool interns byte strings into an immortal, append-only arena.
//
// A String handle is a pointer into the arena, immediately past a packed
// (length uint32, hash uint64) prefix. Equality and hashing of handles are
// O(1) on the stored hash. Interning is idempotent and safe for concurrent
// use from any goroutine.
package strpool

import (
	"encoding/binary"
	"sync"

	"github.com/twmb/murmur3"
)

const (
	shardCount  = 23 // prime, to spread hash bias across partitions
	slabMinSize = 16 * 1024 * 1024
	prefixSize  = 4 + 8 // uint32 length + uint64 hash
)

// String is an interned, null-terminated byte sequence. The zero value
// represents the empty string and requires no pool lookup.
type String struct {
	data *byte
}

// Empty reports whether s is the null handle (the interned "").
func (s String) Empty() bool { return s.data == nil }

func (s String) bytesBefore(n int) []byte {
	// Reconstruct the slice covering the packed prefix that precedes s.data.
	return unsafeSlice(s.data, -n, n)
}

// Len returns the byte length of the interned string.
func (s String) Len() int {
	if s.data == nil {
		return 0
	}
	return int(binary.LittleEndian.Uint32(s.bytesBefore(prefixSize)[:4]))
}

// Hash returns the 64-bit hash stored in the arena prefix.
func (s String) Hash() uint64 {
	if s.data == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(s.bytesBefore(prefixSize)[4:12])
}

// Bytes returns the interned bytes (without the trailing NUL).
func (s String) Bytes() []byte {
	if s.data == nil {
		return nil
	}
	return unsafeSlice(s.data, 0, s.Len())
}

// View is an alias of Bytes as a string, matching the C++ pool_string::view().
func (s String) View() string { return string(s.Bytes()) }

func (s String) String() string { return s.View() }

// Equal compares handles by their stored hash, matching the pool's
// one-slot-per-unique-content guarantee.
func (s String) Equal(o String) bool {
	if s.data == o.data {
		return true
	}
	if s.data == nil || o.data == nil {
		return false
	}
	return s.Hash() == o.Hash()
}

// Less provides a stable (non-lexicographic on content, but deterministic)
// ordering used only where a total order over handles is needed and the
// underlying bytes aren't already being compared (e.g. never for ancestry,
// which sorts by View()).
func (s String) Less(o String) bool { return s.Hash() < o.Hash() }

// arena is a bump allocator writing (length, hash, bytes, NUL) blocks. It is
// never freed: pool_string handles must outlive arbitrary later computation.
type arena struct {
	mu   sync.Mutex
	cur  []byte
	slab [][]byte // retained so the backing arrays are never collected
}

func (a *arena) empool(src []byte, hash uint64) String {
	a.mu.Lock()
	defer a.mu.Unlock()

	need := prefixSize + len(src) + 1
	if len(a.cur) < need {
		size := slabMinSize
		if need > size {
			size = need
		}
		a.cur = make([]byte, size)
		a.slab = append(a.slab, a.cur)
	}

	block := a.cur[:need]
	binary.LittleEndian.PutUint32(block[0:4], uint32(len(src)))
	binary.LittleEndian.PutUint64(block[4:12], hash)
	copy(block[prefixSize:], src)
	block[need-1] = 0

	a.cur = a.cur[need:]

	return String{data: &block[prefixSize]}
}

// Pool interns byte sequences into a set of sharded arenas. It has no
// package-level singleton state: callers hold their own Pool value, matching
// the "explicit Registry value" redesign described in SPEC_FULL.md §9.
type Pool struct {
	fast  sync.Map // uint64 hash -> String, lock-free fast path
	mu    [shardCount]sync.Mutex
	arena [shardCount]arena
}

// New constructs an empty Pool.
func New() *Pool {
	return &Pool{}
}

// Empool interns src, returning a stable handle. Concurrent and idempotent:
// two calls with equal content always return handles with equal Hash().
func (p *Pool) Empool(src []byte) String {
	if len(src) == 0 {
		return String{}
	}

	h := murmur3.SeedSum64(0, src)

	if v, ok := p.fast.Load(h); ok {
		return v.(String)
	}

	idx := int(h % shardCount)
	p.mu[idx].Lock()
	defer p.mu[idx].Unlock()

	// Re-check now that we hold the partition lock: another goroutine may
	// have interned the same content while we were waiting.
	if v, ok := p.fast.Load(h); ok {
		return v.(String)
	}

	s := p.arena[idx].empool(src, h)
	p.fast.Store(h, s)
	return s
}

// EmpoolString is a convenience wrapper over Empool for string inputs.
func (p *Pool) EmpoolString(src string) String {
	return p.Empool([]byte(src))
}
