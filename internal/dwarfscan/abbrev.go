package dwarfscan

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blacktop/odrv/internal/dwarfconst"
)

// abbrevAttrSpec is one (attribute, form) pair from an abbreviation
// declaration's attribute list, plus the constant value DW_FORM_implicit_const
// carries inline in the abbreviation itself rather than in __debug_info.
type abbrevAttrSpec struct {
	At            dwarfconst.At
	Form          dwarfconst.Form
	ImplicitConst int64
}

// abbrevDecl is one numbered entry of an abbreviation table: the tag it
// stamps a DIE with, whether that DIE has children, and the ordered list of
// attributes __debug_info must supply values for.
type abbrevDecl struct {
	Tag         dwarfconst.Tag
	HasChildren bool
	Attrs       []abbrevAttrSpec
}

// abbrevTable maps an abbreviation code (as it appears inline before each
// DIE in __debug_info) to its declaration.
type abbrevTable map[uint64]abbrevDecl

// decodeAbbrevTable walks one abbreviation table starting at offset within
// the section, stopping at the first code-0 terminator, matching DWARF5
// §7.5.3's encoding.
func decodeAbbrevTable(section []byte, offset uint32) abbrevTable {
	c := newCursor(section)
	c.Seek(int(offset))

	table := make(abbrevTable)
	for !c.Done() {
		code := decodeULEB128Offset(c)
		if code == 0 {
			break
		}

		tag := dwarfconst.Tag(decodeULEB128Offset(c))
		hasChildren := c.Get() != 0

		var attrs []abbrevAttrSpec
		for {
			at := dwarfconst.At(decodeULEB128Offset(c))
			form := dwarfconst.Form(decodeULEB128Offset(c))
			if at == dwarfconst.AtNone && form == dwarfconst.FormNone {
				break
			}

			var implicit int64
			if form == dwarfconst.FormImplicitConst {
				implicit = int64(decodeSLEB128(c))
			}
			attrs = append(attrs, abbrevAttrSpec{At: at, Form: form, ImplicitConst: implicit})
		}

		table[code] = abbrevDecl{Tag: tag, HasChildren: hasChildren, Attrs: attrs}
	}

	return table
}

// abbrevCacheKey scopes a cached table to the object file it came from:
// byte-identical abbrev_offset values from different images are unrelated.
type abbrevCacheKey struct {
	ofdIndex uint32
	offset   uint32
}

// abbrevCache lazily decodes and caches abbreviation tables per (object
// file, abbrev_offset) pair, since a compilation unit's abbreviations are
// frequently reused by many other CUs in the same __debug_abbrev section
// (SPEC_FULL.md §4.D).
type abbrevCache struct {
	cache *lru.Cache[abbrevCacheKey, abbrevTable]
}

func newAbbrevCache(size int) *abbrevCache {
	c, err := lru.New[abbrevCacheKey, abbrevTable](size)
	if err != nil {
		// Only returns an error for a non-positive size, which newAbbrevCache
		// callers never pass; a tiny fallback keeps this path panic-free.
		c, _ = lru.New[abbrevCacheKey, abbrevTable](1)
	}
	return &abbrevCache{cache: c}
}

func (a *abbrevCache) get(ofdIndex uint32, section []byte, offset uint32) abbrevTable {
	key := abbrevCacheKey{ofdIndex: ofdIndex, offset: offset}
	if table, ok := a.cache.Get(key); ok {
		return table
	}
	table := decodeAbbrevTable(section, offset)
	a.cache.Add(key, table)
	return table
}
