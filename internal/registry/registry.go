// Package registry is the concurrent, process-wide index from a DIE's
// symbolic identity hash to the head of a singly linked chain of every DIE
// sharing that identity, matching original_source/src/orc.cpp's
// global_die_map / unsafe_global_die_collection / register_dies.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/blacktop/odrv/internal/dwarfdie"
)

// stripeCount is prime, to spread hash bias across partitions, matching
// orc.cpp's mutex_count_k.
const stripeCount = 67

// Stats accumulates the run-wide counters the CLI's progress reporter
// reads; all fields are updated with atomic adds so any number of
// Insert calls can run concurrently.
type Stats struct {
	DieProcessedCount atomic.Int64
	DieAnalyzedCount  atomic.Int64
	UniqueSymbolCount atomic.Int64
}

// Registry is a sharded hash map from identity hash to the head DIE of a
// chain, plus the append-only storage that keeps every DIE's address stable
// for the lifetime of the run.
//
// Registry is a value, not a package-level singleton (SPEC_FULL.md §9): a
// caller constructs one per analysis run and may discard it (Reset) without
// process-wide leakage, unlike orc.cpp's orc_reset clearing static state.
type Registry struct {
	index    sync.Map // uint64 identity hash -> *dwarfdie.DIE (chain head)
	stripes  [stripeCount]sync.Mutex
	batchesM sync.Mutex
	batches  [][]dwarfdie.DIE // retained forever; DIE addresses inside never move

	Stats Stats
}

func New() *Registry {
	return &Registry{}
}

// Insert registers every non-skippable DIE in batch, splicing it onto the
// chain for its identity hash if one already exists. batch is retained by
// the Registry for the rest of its lifetime — callers must not reuse or
// mutate it afterward.
func (r *Registry) Insert(batch []dwarfdie.DIE) {
	if len(batch) == 0 {
		return
	}

	r.batchesM.Lock()
	r.batches = append(r.batches, batch)
	r.batchesM.Unlock()

	r.Stats.DieProcessedCount.Add(int64(len(batch)))

	for i := range batch {
		d := &batch[i]
		if d.Skippable {
			continue
		}

		actual, loaded := r.index.LoadOrStore(d.Hash, d)
		if !loaded {
			r.Stats.UniqueSymbolCount.Add(1)
			continue
		}

		head := actual.(*dwarfdie.DIE)
		stripe := &r.stripes[d.Hash%stripeCount]
		stripe.Lock()
		d.Next = head.Next
		head.Next = d
		stripe.Unlock()
	}

	r.Stats.DieAnalyzedCount.Add(int64(len(batch)))
}

// Snapshot returns every distinct identity hash currently registered and
// its chain head, as of the moment of the call. Takers typically hand each
// pair to an asynchronous analysis task and write the result back with
// Replace once that task completes — Range/Chains-style synchronous
// replace-on-return does not fit an async per-chain analysis, since the
// callback would have to return before the task that computes the new head
// even runs.
func (r *Registry) Snapshot() map[uint64]*dwarfdie.DIE {
	out := make(map[uint64]*dwarfdie.DIE, r.Len())
	r.index.Range(func(key, value any) bool {
		out[key.(uint64)] = value.(*dwarfdie.DIE)
		return true
	})
	return out
}

// Replace writes a new chain head for hash, matching orc.cpp's
// `entry.second = enforce_odrv_for_die_list(entry.second, result)`
// assigning back into the concurrent map's value slot.
func (r *Registry) Replace(hash uint64, head *dwarfdie.DIE) {
	r.index.Store(hash, head)
}

// Len reports the number of distinct identity hashes currently registered.
func (r *Registry) Len() int {
	n := 0
	r.index.Range(func(any, any) bool { n++; return true })
	return n
}

// Reset clears the registry, matching orc_reset's global_die_map().clear()
// plus unsafe_global_die_collection().clear() — but as a method on a value
// instead of static process-wide state, so tests can run it repeatedly
// without cross-test leakage.
func (r *Registry) Reset() {
	r.index = sync.Map{}
	r.batchesM.Lock()
	r.batches = nil
	r.batchesM.Unlock()
	r.Stats = Stats{}
}
