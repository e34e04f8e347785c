package strpool

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpoolEmptyIsNullHandle(t *testing.T) {
	p := New()
	s := p.EmpoolString("")
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.View())
}

func TestEmpoolRoundTrip(t *testing.T) {
	p := New()
	for _, src := range []string{"a", "foo::bar", "::[u]::Namespace::Type::member", "x"} {
		s := p.EmpoolString(src)
		require.False(t, s.Empty())
		assert.Equal(t, len(src), s.Len())
		assert.Equal(t, src, s.View())
	}
}

func TestEmpoolIdempotent(t *testing.T) {
	p := New()
	a := p.EmpoolString("hello world")
	b := p.EmpoolString("hello world")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(b))
}

func TestEmpoolDistinctContentDistinctHash(t *testing.T) {
	p := New()
	a := p.EmpoolString("alpha")
	b := p.EmpoolString("beta")
	assert.False(t, a.Equal(b))
}

func TestEmpoolConcurrent(t *testing.T) {
	p := New()
	const goroutines = 64
	const perG = 200

	var wg sync.WaitGroup
	results := make([][]String, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]String, perG)
			for i := 0; i < perG; i++ {
				out[i] = p.EmpoolString(fmt.Sprintf("key-%d", i%17))
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	// Every goroutine must have interned "key-i" to the same handle hash.
	want := make(map[int]uint64)
	for i := 0; i < 17; i++ {
		want[i] = p.EmpoolString(fmt.Sprintf("key-%d", i)).Hash()
	}
	for _, out := range results {
		for i, s := range out {
			assert.Equal(t, want[i%17], s.Hash())
		}
	}
}

func TestArenaSlabGrowth(t *testing.T) {
	p := New()
	// Force a slab larger than the 16MiB default by interning a bigger string.
	big := make([]byte, slabMinSize+1)
	for i := range big {
		big[i] = byte(i)
	}
	s := p.Empool(big)
	assert.Equal(t, len(big), s.Len())
	assert.Equal(t, big, s.Bytes())
}
