package objfile

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blacktop/odrv/internal/dwarfdie"
)

func TestRegistryReservesZero(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get(0)
	assert.False(t, ok)
}

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	idx := r.Register(Entry{Path: "/tmp/x.o", Start: 10, End: 20, Arch: dwarfdie.ArchArm64})
	got, ok := r.Get(idx)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/x.o", got.Path)
	assert.Equal(t, int64(10), got.Start)
	assert.Equal(t, int64(20), got.End)
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register(Entry{Path: "x"})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 101, r.Len())
}
