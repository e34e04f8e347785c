package dwarfscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/odrv/internal/dwarfconst"
)

func TestDecodeAbbrevTable(t *testing.T) {
	section := concat(
		uleb(1), uleb(uint32(dwarfconst.TagStructType)), []byte{1},
		uleb(uint32(dwarfconst.AtName)), uleb(uint32(dwarfconst.FormString)),
		uleb(uint32(dwarfconst.AtByteSize)), uleb(uint32(dwarfconst.FormData1)),
		[]byte{0, 0},
		[]byte{0},
	)

	table := decodeAbbrevTable(section, 0)
	require.Contains(t, table, uint64(1))

	decl := table[1]
	assert.Equal(t, dwarfconst.TagStructType, decl.Tag)
	assert.True(t, decl.HasChildren)
	require.Len(t, decl.Attrs, 2)
	assert.Equal(t, dwarfconst.AtName, decl.Attrs[0].At)
	assert.Equal(t, dwarfconst.FormString, decl.Attrs[0].Form)
	assert.Equal(t, dwarfconst.AtByteSize, decl.Attrs[1].At)
}

func TestDecodeAbbrevTableImplicitConst(t *testing.T) {
	var signed []byte
	signed = append(signed, uleb(uint32(dwarfconst.AtConstValue))...)
	signed = append(signed, uleb(uint32(dwarfconst.FormImplicitConst))...)
	signed = append(signed, 0x7e) // sleb128(-2)

	section := concat(
		uleb(1), uleb(uint32(dwarfconst.TagEnumerator)), []byte{0},
		signed,
		[]byte{0, 0},
		[]byte{0},
	)

	table := decodeAbbrevTable(section, 0)
	decl := table[1]
	require.Len(t, decl.Attrs, 1)
	assert.Equal(t, int64(-2), decl.Attrs[0].ImplicitConst)
}

func TestAbbrevCacheReusesDecodedTable(t *testing.T) {
	section := concat(
		uleb(1), uleb(uint32(dwarfconst.TagBaseType)), []byte{0},
		[]byte{0, 0},
		[]byte{0},
	)

	cache := newAbbrevCache(4)
	first := cache.get(1, section, 0)
	second := cache.get(1, section, 0)
	assert.Equal(t, first, second)

	// A different object file index is a separate cache key; decoding the
	// same bytes under it yields an equal table.
	third := cache.get(2, section, 0)
	assert.Equal(t, first, third)
}
