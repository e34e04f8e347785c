// Package dwarfdie holds the shared data model for a decoded Debug
// Information Entry: attribute values, attributes, attribute sequences, the
// DIE record itself, architecture, and object-file ancestry. It has no
// dependency on how DIEs were produced (internal/dwarfscan) or how they're
// stored (internal/registry), matching the "arena + index" design of
// SPEC_FULL.md §9.
package dwarfdie

import (
	"fmt"
	"strings"

	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/strpool"
)

// ValueKind is a bitmask of the kinds of data an AttributeValue carries.
// Multiple bits may be set at once: e.g. a reference that also resolved to
// a string name carries both Reference and String (SPEC_FULL.md §3).
type ValueKind uint8

const (
	KindNone      ValueKind = 0
	KindPassover  ValueKind = 1 << 0
	KindUint      ValueKind = 1 << 1
	KindSint      ValueKind = 1 << 2
	KindString    ValueKind = 1 << 3
	KindReference ValueKind = 1 << 4
	KindDie       ValueKind = 1 << 5
)

// Has reports whether k includes every bit in want.
func (k ValueKind) Has(want ValueKind) bool { return k&want == want }

// AttributeValue is intentionally not a tagged union: several forms resolve
// to more than one representation at once (e.g. a DW_FORM_ref* that also
// resolves to a type name), and callers benefit from having both without an
// extra decode pass. See original_source/include/orc/dwarf_structs.hpp.
type AttributeValue struct {
	kind ValueKind
	u    uint64
	i    int64
	s    strpool.String
	ref  uint32
	die  *DIE
}

func (v *AttributeValue) SetPassover() { v.kind |= KindPassover }

func (v *AttributeValue) SetUint(x uint64) { v.kind |= KindUint; v.u = x }
func (v AttributeValue) Uint() uint64      { return v.u }

func (v *AttributeValue) SetSint(x int64) { v.kind |= KindSint; v.i = x }
func (v AttributeValue) Sint() int64      { return v.i }

func (v *AttributeValue) SetString(x strpool.String) { v.kind |= KindString; v.s = x }
func (v AttributeValue) StrVal() strpool.String      { return v.s }
func (v AttributeValue) StringHash() uint64          { return v.s.Hash() }

func (v *AttributeValue) SetReference(offset uint32) { v.kind |= KindReference; v.ref = offset }
func (v AttributeValue) Reference() uint32           { return v.ref }

func (v *AttributeValue) SetDie(d *DIE) { v.kind |= KindDie; v.die = d }
func (v AttributeValue) Die() *DIE      { return v.die }

func (v AttributeValue) Kind() ValueKind { return v.kind }
func (v AttributeValue) Has(k ValueKind) bool { return v.kind.Has(k) }

// Equal implements the deliberate ordering from SPEC_FULL.md §3: string
// beats uint beats sint; references and linked-DIE pointers are never
// compared, since offsets are scoped to the originating file.
func (x AttributeValue) Equal(y AttributeValue) bool {
	if x.kind.Has(KindString) {
		return x.s.Equal(y.s)
	}
	if x.kind.Has(KindUint) {
		return x.u == y.u
	}
	if x.kind.Has(KindSint) {
		return x.i == y.i
	}
	return x.kind == y.kind
}

// Attribute is a (name, form, value) triple.
type Attribute struct {
	Name  dwarfconst.At
	Form  dwarfconst.Form
	Value AttributeValue
}

func (a Attribute) Has(k ValueKind) bool { return a.Value.Has(k) }

// AttributeSequence is an ordered list of attributes; order reflects
// on-disk order, which matters for reproducible hashing (SPEC_FULL.md §3).
type AttributeSequence struct {
	attrs []Attribute
}

func NewAttributeSequence(capacity int) AttributeSequence {
	return AttributeSequence{attrs: make([]Attribute, 0, capacity)}
}

func (s *AttributeSequence) Append(a Attribute) { s.attrs = append(s.attrs, a) }
func (s AttributeSequence) Len() int            { return len(s.attrs) }
func (s AttributeSequence) Empty() bool         { return len(s.attrs) == 0 }

func (s AttributeSequence) find(name dwarfconst.At) (Attribute, bool) {
	for _, a := range s.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (s AttributeSequence) Has(name dwarfconst.At) bool {
	_, ok := s.find(name)
	return ok
}

func (s AttributeSequence) Get(name dwarfconst.At) (Attribute, bool) { return s.find(name) }

// All returns the attributes in on-disk order. Callers must not mutate the
// returned slice's elements' identity (they may read them freely).
func (s AttributeSequence) All() []Attribute { return s.attrs }

// Arch is the DIE's originating Mach-O architecture slice.
type Arch uint8

const (
	ArchUnknown Arch = iota
	ArchX86
	ArchX86_64
	ArchArm
	ArchArm64
	// ArchArm64_32 intentionally is never produced: arm64_32 cputypes map to
	// ArchArm64, preserving the original's (possibly unintentional)
	// collision — see SPEC_FULL.md §9's Open Question.
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX86_64:
		return "x86_64"
	case ArchArm:
		return "arm"
	case ArchArm64:
		return "arm64"
	default:
		return "unknown"
	}
}

// Ancestry is a bounded ordered sequence (<=5) of interned names describing
// how a DIE's object file was reached (outer fat -> archive -> member).
type Ancestry struct {
	names [5]strpool.String
	count int
}

func (a *Ancestry) Append(name strpool.String) {
	if a.count >= len(a.names) {
		panic("dwarfdie: ancestry overflow")
	}
	a.names[a.count] = name
	a.count++
}

func (a Ancestry) Len() int { return a.count }

func (a Ancestry) At(i int) strpool.String { return a.names[i] }

// Less provides the deterministic ordering used to tie-break chain members,
// matching original_source/include/orc/dwarf_structs.hpp's
// object_ancestry::operator<.
func (a Ancestry) Less(b Ancestry) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	for i := 0; i < a.count; i++ {
		av, bv := a.names[i].View(), b.names[i].View()
		if av != bv {
			return av < bv
		}
	}
	return false
}

func (a Ancestry) String() string {
	parts := make([]string, a.count)
	for i := 0; i < a.count; i++ {
		parts[i] = a.names[i].View()
	}
	return strings.Join(parts, " -> ")
}

// DIE is one decoded Debug Information Entry.
//
// Fields are ordered for alignment, mirroring the original's comment that at
// runtime these can number in the millions: the widest fields come first.
type DIE struct {
	Path               strpool.String
	Next               *DIE // chain pointer, mutated only under the registry's per-bucket lock
	Hash               uint64
	FatalAttributeHash uint64
	OFDIndex           uint32
	DebugInfoOffset    uint32
	Tag                dwarfconst.Tag
	Arch               Arch
	HasChildren        bool
	Conflict           bool
	Skippable          bool
}

func (d *DIE) String() string {
	return fmt.Sprintf("0x%08x %s (%s, %s)", d.DebugInfoOffset, d.Path.View(), d.Tag, d.Arch)
}

// Symbol strips the leading "::[u]::" (or bare "::[u]") CU-scope prefix from
// a DIE's path, matching orc.cpp's path_to_symbol.
func Symbol(path string) string {
	const prefix = "::[u]::"
	if len(path) < len(prefix) {
		return ""
	}
	return path[len(prefix):]
}
