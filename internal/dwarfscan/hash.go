package dwarfscan

import (
	"encoding/binary"

	"github.com/twmb/murmur3"

	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/strpool"
)

// identityHash computes H(arch, tag, path): two DIEs sharing this hash are
// assumed to name the same symbol, regardless of which object file produced
// them. The architecture is part of the hash, so the same symbol from two
// different architecture slices hashes apart (SPEC_FULL.md §3).
func identityHash(arch dwarfdie.Arch, tag dwarfconst.Tag, path strpool.String) uint64 {
	buf := make([]byte, 0, 3+path.Len())
	buf = append(buf, byte(arch))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(tag))
	buf = append(buf, path.Bytes()...)
	return murmur3.SeedSum64(0, buf)
}

// fatalAttributeHash computes H over the sequence of (at, normalized_value)
// pairs for every attribute that is not in the nonfatal set. Reference
// attributes are normalized to their raw __debug_info offset, with no
// file identity folded in: two object files built from the same source by
// the same compiler lay out __debug_info deterministically, so a referent
// declared at the same offset in both files still hashes equal. References
// are not resolved to the referent's path, so the hash still depends on
// file-scoped offsets (see DESIGN.md). As a result, two files that legitimately differ upstream of a reference can
// shift its referent to a different offset and read as a spurious
// divergence, and two files whose referents coincidentally land at the
// same offset while meaning different things read as a spurious match.
func fatalAttributeHash(attrs dwarfdie.AttributeSequence) uint64 {
	var buf []byte
	for _, a := range attrs.All() {
		if nonfatalAttribute(a.Name) {
			continue
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(a.Name))

		switch {
		case a.Has(dwarfdie.KindReference):
			buf = binary.LittleEndian.AppendUint32(buf, a.Value.Reference())
		case a.Has(dwarfdie.KindString):
			buf = append(buf, a.Value.StrVal().Bytes()...)
		case a.Has(dwarfdie.KindUint):
			buf = binary.LittleEndian.AppendUint64(buf, a.Value.Uint())
		case a.Has(dwarfdie.KindSint):
			buf = binary.LittleEndian.AppendUint64(buf, uint64(a.Value.Sint()))
		default:
			// passover: the attribute's presence still perturbs the hash
			// even though it carries no comparable value.
		}
	}
	return murmur3.SeedSum64(0, buf)
}
