package objfile

import (
	"sync"

	"github.com/blacktop/odrv/internal/dwarfdie"
)

// Entry records enough to relocate one decoded Mach-O image later: which
// physical file it came from, the byte range of that image within the file
// (a fat slice or archive member may start well past offset 0), its
// architecture, and the ancestry chain of container names that led to it.
// Conflict reporting re-opens the exact image a DIE came from by OFDIndex
// alone (SPEC_FULL.md §4.C/§9 "object-file registry").
type Entry struct {
	Path     string
	Start    int64
	End      int64
	Arch     dwarfdie.Arch
	Ancestry dwarfdie.Ancestry
}

// Registry is a process-wide, append-only, concurrency-safe table of Entry
// values. Index 0 is never issued: it is reserved so a zero-valued
// dwarfdie.DIE.OFDIndex is recognizable as "not yet registered."
type Registry struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make([]Entry, 1, 64)}
}

// Register appends e and returns its index.
func (r *Registry) Register(e Entry) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return uint32(len(r.entries) - 1)
}

// Get returns the entry previously returned by Register, or false if idx is
// out of range (including the reserved zero index).
func (r *Registry) Get(idx uint32) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx == 0 || int(idx) >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Len reports how many entries have been registered (including the
// reserved slot at index 0).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
