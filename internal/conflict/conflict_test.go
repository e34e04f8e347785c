package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/strpool"
)

func strAttr(pool *strpool.Pool, name dwarfconst.At, s string) dwarfdie.Attribute {
	var v dwarfdie.AttributeValue
	v.SetString(pool.EmpoolString(s))
	return dwarfdie.Attribute{Name: name, Value: v}
}

func uintAttr(name dwarfconst.At, x uint64) dwarfdie.Attribute {
	var v dwarfdie.AttributeValue
	v.SetUint(x)
	return dwarfdie.Attribute{Name: name, Value: v}
}

func refAttr(name dwarfconst.At, offset uint32) dwarfdie.Attribute {
	var v dwarfdie.AttributeValue
	v.SetReference(offset)
	return dwarfdie.Attribute{Name: name, Value: v}
}

func noopAncestry(uint32) dwarfdie.Ancestry { return dwarfdie.Ancestry{} }

func TestEnforceChainSingleDIENoConflict(t *testing.T) {
	d := &dwarfdie.DIE{Hash: 1}
	head, report := EnforceChain(d, noopAncestry, nil)
	assert.Same(t, d, head)
	assert.Nil(t, report)
}

func TestEnforceChainAgreeingHashesNoConflict(t *testing.T) {
	a := &dwarfdie.DIE{Hash: 1, FatalAttributeHash: 0xaa, OFDIndex: 1}
	b := &dwarfdie.DIE{Hash: 1, FatalAttributeHash: 0xaa, OFDIndex: 2}
	a.Next = b

	head, report := EnforceChain(a, noopAncestry, nil)
	require.NotNil(t, head)
	assert.Nil(t, report)
}

func TestEnforceChainDivergingHashesProducesReport(t *testing.T) {
	pool := strpool.New()

	path := pool.EmpoolString("::[u]::widget")
	a := &dwarfdie.DIE{Hash: 1, FatalAttributeHash: 0xaa, OFDIndex: 1, Tag: dwarfconst.TagStructType, Path: path}
	b := &dwarfdie.DIE{Hash: 1, FatalAttributeHash: 0xbb, OFDIndex: 2, Tag: dwarfconst.TagStructType, Path: path}
	a.Next = b

	seqA := dwarfdie.NewAttributeSequence(1)
	seqA.Append(uintAttr(dwarfconst.AtByteSize, 4))
	seqB := dwarfdie.NewAttributeSequence(1)
	seqB.Append(uintAttr(dwarfconst.AtByteSize, 8))

	fetch := func(d *dwarfdie.DIE) (dwarfconst.Tag, bool, dwarfdie.AttributeSequence, bool) {
		if d == a {
			return d.Tag, false, seqA, true
		}
		return d.Tag, false, seqB, true
	}

	head, report := EnforceChain(a, noopAncestry, fetch)
	require.NotNil(t, head)
	require.NotNil(t, report)
	assert.True(t, head.Conflict)
	assert.Equal(t, "widget", report.Symbol)
	assert.Equal(t, dwarfconst.AtByteSize, report.Name)
	assert.Equal(t, "structure_type:byte_size", report.Category())
	assert.Len(t, report.ConflictOrder, 2)
}

func TestFindAttributeConflictAgreesOnEverything(t *testing.T) {
	pool := strpool.New()
	x := dwarfdie.NewAttributeSequence(2)
	x.Append(strAttr(pool, dwarfconst.AtName, "foo"))
	x.Append(uintAttr(dwarfconst.AtByteSize, 4))

	y := dwarfdie.NewAttributeSequence(2)
	y.Append(strAttr(pool, dwarfconst.AtName, "foo"))
	y.Append(uintAttr(dwarfconst.AtByteSize, 4))

	assert.Equal(t, dwarfconst.AtNone, FindAttributeConflict(x, y))
}

func TestFindAttributeConflictIgnoresNonfatalAttribute(t *testing.T) {
	x := dwarfdie.NewAttributeSequence(1)
	x.Append(uintAttr(dwarfconst.AtDeclLine, 10))
	y := dwarfdie.NewAttributeSequence(1)
	y.Append(uintAttr(dwarfconst.AtDeclLine, 20))

	assert.Equal(t, dwarfconst.AtNone, FindAttributeConflict(x, y))
}

func TestFindAttributeConflictReportsMissingAttribute(t *testing.T) {
	x := dwarfdie.NewAttributeSequence(1)
	x.Append(uintAttr(dwarfconst.AtByteSize, 4))
	y := dwarfdie.NewAttributeSequence(0)

	assert.Equal(t, dwarfconst.AtByteSize, FindAttributeConflict(x, y))
}

func TestFindAttributeConflictTypeByReference(t *testing.T) {
	x := dwarfdie.NewAttributeSequence(1)
	x.Append(refAttr(dwarfconst.AtType, 0x40))
	y := dwarfdie.NewAttributeSequence(1)
	y.Append(refAttr(dwarfconst.AtType, 0x40))

	assert.Equal(t, dwarfconst.AtNone, FindAttributeConflict(x, y))
}

func TestFindAttributeConflictTypeMismatchByReference(t *testing.T) {
	x := dwarfdie.NewAttributeSequence(1)
	x.Append(refAttr(dwarfconst.AtType, 0x40))
	y := dwarfdie.NewAttributeSequence(1)
	y.Append(refAttr(dwarfconst.AtType, 0x50))

	assert.Equal(t, dwarfconst.AtType, FindAttributeConflict(x, y))
}

func TestTypeEquivalentByStringHash(t *testing.T) {
	pool := strpool.New()
	x := strAttr(pool, dwarfconst.AtType, "int")
	y := strAttr(pool, dwarfconst.AtType, "int")
	assert.True(t, typeEquivalent(x, y))
}

func TestTypeEquivalentMismatchedKinds(t *testing.T) {
	pool := strpool.New()
	x := strAttr(pool, dwarfconst.AtType, "int")
	y := refAttr(dwarfconst.AtType, 1)
	assert.False(t, typeEquivalent(x, y))
}
