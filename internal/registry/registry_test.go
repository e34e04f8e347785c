package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/odrv/internal/dwarfdie"
)

func TestInsertSingleDIENoCollision(t *testing.T) {
	r := New()
	batch := []dwarfdie.DIE{{Hash: 0x1}}
	r.Insert(batch)

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, int64(1), r.Stats.UniqueSymbolCount.Load())
	assert.Equal(t, int64(1), r.Stats.DieProcessedCount.Load())
}

func TestInsertSplicesChainOnCollision(t *testing.T) {
	r := New()
	r.Insert([]dwarfdie.DIE{{Hash: 0x1}})
	r.Insert([]dwarfdie.DIE{{Hash: 0x1}})

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, int64(1), r.Stats.UniqueSymbolCount.Load())

	var chainLen int
	for _, head := range r.Snapshot() {
		for d := head; d != nil; d = d.Next {
			chainLen++
		}
	}
	assert.Equal(t, 2, chainLen)
}

func TestInsertSkipsSkippableDIEs(t *testing.T) {
	r := New()
	r.Insert([]dwarfdie.DIE{{Hash: 0x1, Skippable: true}})

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, int64(0), r.Stats.UniqueSymbolCount.Load())
	// the skipped DIE still counts toward the processed total
	assert.Equal(t, int64(1), r.Stats.DieProcessedCount.Load())
}

func TestInsertEmptyBatchIsNoop(t *testing.T) {
	r := New()
	r.Insert(nil)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, int64(0), r.Stats.DieProcessedCount.Load())
}

func TestReplaceOverwritesChainHead(t *testing.T) {
	r := New()
	r.Insert([]dwarfdie.DIE{{Hash: 0x7, DebugInfoOffset: 1}})
	replacement := &dwarfdie.DIE{Hash: 0x7, DebugInfoOffset: 2}

	r.Replace(0x7, replacement)

	seen := r.Snapshot()[0x7]
	require.NotNil(t, seen)
	assert.Equal(t, uint32(2), seen.DebugInfoOffset)
}

func TestResetClearsEverything(t *testing.T) {
	r := New()
	r.Insert([]dwarfdie.DIE{{Hash: 0x1}, {Hash: 0x2}})
	r.Reset()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, int64(0), r.Stats.DieProcessedCount.Load())
	assert.Equal(t, int64(0), r.Stats.UniqueSymbolCount.Load())
}

func TestInsertConcurrentBatchesAreRaceFree(t *testing.T) {
	r := New()
	const batches = 100
	var wg sync.WaitGroup
	wg.Add(batches)
	for i := 0; i < batches; i++ {
		go func() {
			defer wg.Done()
			r.Insert([]dwarfdie.DIE{{Hash: 0x42}})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, int64(batches), r.Stats.DieProcessedCount.Load())
	assert.Equal(t, int64(1), r.Stats.UniqueSymbolCount.Load())

	var chainLen int
	for _, head := range r.Snapshot() {
		for d := head; d != nil; d = d.Next {
			chainLen++
		}
	}
	assert.Equal(t, batches, chainLen)
}
