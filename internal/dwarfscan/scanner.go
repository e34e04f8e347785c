// Package dwarfscan decodes the DWARF debug sections of one Mach-O image
// into batches of dwarfdie.DIE values: compilation-unit headers, the
// abbreviation tables they reference, and the sequential DIE/attribute walk
// that builds each DIE's symbolic path and hashes, matching
// original_source/src/orc.cpp and original_source/include/orc/dwarf_structs.hpp.
package dwarfscan

import (
	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/objfile"
	"github.com/blacktop/odrv/internal/strpool"
)

// Cache wraps the abbreviation-table LRU so callers across the engine share
// one cache sized to the whole run rather than one per image.
type Cache struct {
	abbrev *abbrevCache
}

// NewCache builds a Cache holding up to size decoded abbreviation tables.
func NewCache(size int) *Cache {
	return &Cache{abbrev: newAbbrevCache(size)}
}

// ScanImage walks every compilation unit in sections.Info, invoking onBatch
// once per CU with that CU's decoded DIEs. A CU with no DIEs (shouldn't
// happen, but malformed input is not this engine's problem to reject)
// simply produces an empty batch.
func ScanImage(ofdIndex uint32, arch dwarfdie.Arch, sections *objfile.DWARFSections, pool *strpool.Pool, cache *Cache, onBatch func([]dwarfdie.DIE)) error {
	if sections.Empty() {
		return nil
	}

	c := newCursor(sections.Info)
	for !c.Done() {
		header := readCUHeader(c)
		table := cache.abbrev.get(ofdIndex, sections.Abbrev, header.AbbrevOffset)

		dec := &decoder{
			sections: sections,
			pool:     pool,
			abbrev:   table,
			cuStart:  header.Offset,
			addrSize: header.AddrSize,
			ofdIndex: ofdIndex,
			arch:     arch,
		}
		dec.decodeSiblings(c, nil)
		onBatch(dec.out)

		if int(header.NextOffset) <= c.Tell() {
			break // guard against a zero-length unit looping forever
		}
		c.Seek(int(header.NextOffset))
	}
	return nil
}

// FetchOneDIE re-walks sections looking for the DIE at debugInfoOffset and
// returns its tag, children flag, and full attribute sequence — the
// conflict analyzer's second pass, matching orc.cpp's fetch_attributes_for_die
// and dwarf_structs's fetch_one_die. It does not allocate a dwarfdie.DIE or
// compute hashes; the caller already has those from the first pass.
func FetchOneDIE(ofdIndex uint32, arch dwarfdie.Arch, sections *objfile.DWARFSections, pool *strpool.Pool, cache *Cache, debugInfoOffset uint32) (dwarfconst.Tag, bool, dwarfdie.AttributeSequence, bool) {
	if sections.Empty() {
		return 0, false, dwarfdie.AttributeSequence{}, false
	}

	c := newCursor(sections.Info)
	target := debugInfoOffset
	for !c.Done() {
		header := readCUHeader(c)
		if debugInfoOffset >= header.NextOffset {
			c.Seek(int(header.NextOffset))
			continue
		}

		table := cache.abbrev.get(ofdIndex, sections.Abbrev, header.AbbrevOffset)
		dec := &decoder{
			sections: sections,
			pool:     pool,
			abbrev:   table,
			cuStart:  header.Offset,
			addrSize: header.AddrSize,
			ofdIndex: ofdIndex,
			arch:     arch,
			target:   &target,
		}
		dec.decodeSiblings(c, nil)
		if dec.found != nil {
			return dec.found.Tag, dec.found.HasChildren, dec.found.Attrs, true
		}
		return 0, false, dwarfdie.AttributeSequence{}, false
	}
	return 0, false, dwarfdie.AttributeSequence{}, false
}
