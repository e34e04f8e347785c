package dwarfscan

import (
	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/objfile"
	"github.com/blacktop/odrv/internal/strpool"
)

// decoder walks one compilation unit's DIE tree, tracking the symbolic path
// stack and object-file identity every decoded DIE needs.
type decoder struct {
	sections *objfile.DWARFSections
	pool     *strpool.Pool
	abbrev   abbrevTable
	cuStart  uint32
	addrSize uint8
	ofdIndex uint32
	arch     dwarfdie.Arch

	out []dwarfdie.DIE

	// Set by FetchOneDIE to capture one DIE's attributes instead of folding
	// them into a hash, and to short-circuit the walk once it's found.
	target *uint32
	found  *fetchedDIE
}

type fetchedDIE struct {
	Tag         dwarfconst.Tag
	HasChildren bool
	Attrs       dwarfdie.AttributeSequence
}

// decodeForm reads one attribute's value per its form, matching DWARF5
// §7.5.6's encoding table. d.cuStart is the absolute __debug_info offset
// this CU's header starts at, needed to turn CU-relative reference forms
// into absolute ones.
func (d *decoder) decodeForm(c *cursor, form dwarfconst.Form, implicitConst int64) dwarfdie.AttributeValue {
	var v dwarfdie.AttributeValue

	switch form {
	case dwarfconst.FormAddr:
		if d.addrSize == 8 {
			v.SetUint(c.Uint64())
		} else {
			v.SetUint(uint64(c.Uint32()))
		}

	case dwarfconst.FormBlock1:
		n := int(c.Uint8())
		v.SetString(d.pool.Empool(c.Read(n)))
	case dwarfconst.FormBlock2:
		n := int(c.Uint16())
		v.SetString(d.pool.Empool(c.Read(n)))
	case dwarfconst.FormBlock4:
		n := int(c.Uint32())
		v.SetString(d.pool.Empool(c.Read(n)))
	case dwarfconst.FormBlock, dwarfconst.FormExprloc:
		n := int(decodeULEB128Offset(c))
		v.SetString(d.pool.Empool(c.Read(n)))

	case dwarfconst.FormData1:
		v.SetUint(uint64(c.Uint8()))
	case dwarfconst.FormData2:
		v.SetUint(uint64(c.Uint16()))
	case dwarfconst.FormData4:
		v.SetUint(uint64(c.Uint32()))
	case dwarfconst.FormData8:
		v.SetUint(c.Uint64())
	case dwarfconst.FormData16:
		v.SetString(d.pool.Empool(c.Read(16)))

	case dwarfconst.FormString:
		v.SetString(d.pool.Empool(c.ReadCString()))
	case dwarfconst.FormStrp:
		off := c.Uint32()
		v.SetString(d.pool.Empool(cstringAt(d.sections.Str, off)))
	case dwarfconst.FormLineStrp:
		off := c.Uint32()
		v.SetString(d.pool.Empool(cstringAt(d.sections.LineStr, off)))

	// DW_FORM_strx* resolve through __debug_str_offsets, which in turn
	// needs this CU's DW_AT_str_offsets_base — not generally known until
	// the CU DIE itself has been decoded. Object files built the way this
	// engine's targets are (non-split-DWARF, linked locally) essentially
	// never emit these for DW_AT_name, so the index is kept as the value
	// without resolving the string; see DESIGN.md.
	case dwarfconst.FormStrx1:
		v.SetUint(uint64(c.Uint8()))
	case dwarfconst.FormStrx2:
		v.SetUint(uint64(c.Uint16()))
	case dwarfconst.FormStrx3:
		v.SetUint(uint64(read3(c)))
	case dwarfconst.FormStrx4:
		v.SetUint(uint64(c.Uint32()))
	case dwarfconst.FormStrx:
		v.SetUint(decodeULEB128Offset(c))

	case dwarfconst.FormAddrx1:
		v.SetUint(uint64(c.Uint8()))
	case dwarfconst.FormAddrx2:
		v.SetUint(uint64(c.Uint16()))
	case dwarfconst.FormAddrx3:
		v.SetUint(uint64(read3(c)))
	case dwarfconst.FormAddrx4:
		v.SetUint(uint64(c.Uint32()))
	case dwarfconst.FormAddrx:
		v.SetUint(decodeULEB128Offset(c))

	case dwarfconst.FormFlag:
		v.SetUint(uint64(c.Uint8()))
	case dwarfconst.FormFlagPresent:
		v.SetUint(1)

	case dwarfconst.FormSdata:
		v.SetSint(int64(decodeSLEB128(c)))
	case dwarfconst.FormUdata:
		v.SetUint(decodeULEB128Offset(c))

	case dwarfconst.FormRef1:
		v.SetReference(d.cuStart + uint32(c.Uint8()))
	case dwarfconst.FormRef2:
		v.SetReference(d.cuStart + uint32(c.Uint16()))
	case dwarfconst.FormRef4:
		v.SetReference(d.cuStart + c.Uint32())
	case dwarfconst.FormRef8:
		v.SetReference(d.cuStart + uint32(c.Uint64()))
	case dwarfconst.FormRefUdata:
		v.SetReference(d.cuStart + uint32(decodeULEB128Offset(c)))
	case dwarfconst.FormRefAddr:
		v.SetReference(c.Uint32())
	case dwarfconst.FormRefSig8:
		v.SetUint(c.Uint64()) // type-unit signature, not a __debug_info offset

	case dwarfconst.FormSecOffset:
		v.SetUint(uint64(c.Uint32()))
	case dwarfconst.FormLoclistx, dwarfconst.FormRnglistx:
		v.SetUint(decodeULEB128Offset(c))

	case dwarfconst.FormImplicitConst:
		v.SetSint(implicitConst)

	case dwarfconst.FormIndirect:
		actual := dwarfconst.Form(decodeULEB128Offset(c))
		return d.decodeForm(c, actual, 0)

	default:
		v.SetPassover()
	}

	return v
}

func read3(c *cursor) uint32 {
	b := c.Read(3)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// dieName resolves the path-stack component a DIE contributes: its linkage
// name if present (mangled, and thus more precise than the simple name for
// overloaded functions), else its simple name, else the synthetic "[u]"
// marker for anonymous scopes. Compilation units are always "[u]": their
// DW_AT_name is a source file path, not a symbol-namespace component
// (SPEC_FULL.md §3).
func (d *decoder) dieName(tag dwarfconst.Tag, attrs dwarfdie.AttributeSequence) strpool.String {
	if tag == dwarfconst.TagCompileUnit || tag == dwarfconst.TagSkeletonUnit {
		return d.pool.EmpoolString("[u]")
	}
	if a, ok := attrs.Get(dwarfconst.AtLinkageName); ok && a.Has(dwarfdie.KindString) {
		return a.Value.StrVal()
	}
	if a, ok := attrs.Get(dwarfconst.AtName); ok && a.Has(dwarfdie.KindString) {
		return a.Value.StrVal()
	}
	return d.pool.EmpoolString("[u]")
}

func buildPath(stack []strpool.String) string {
	if len(stack) == 0 {
		return "::[u]"
	}
	out := make([]byte, 0, 32)
	for _, s := range stack {
		out = append(out, ':', ':')
		out = append(out, s.Bytes()...)
	}
	return string(out)
}

// decodeSiblings decodes a run of sibling DIEs (and, recursively, their
// children) starting at c's current position, stopping at the first
// end-of-children marker or end of section. stack is the symbolic path of
// this run's parent; it is never mutated in place so sibling recursions
// never alias each other's path components.
func (d *decoder) decodeSiblings(c *cursor, stack []strpool.String) {
	for !c.Done() {
		if d.found != nil {
			return
		}

		dieOffset := uint32(c.Tell())
		code := decodeULEB128Offset(c)
		if code == 0 {
			return
		}

		decl, ok := d.abbrev[code]
		if !ok {
			return // malformed abbreviation reference; abandon this subtree
		}

		attrs := dwarfdie.NewAttributeSequence(len(decl.Attrs))
		for _, spec := range decl.Attrs {
			value := d.decodeForm(c, spec.Form, spec.ImplicitConst)
			attrs.Append(dwarfdie.Attribute{Name: spec.At, Form: spec.Form, Value: value})
		}

		if d.target != nil && *d.target == dieOffset {
			d.found = &fetchedDIE{Tag: decl.Tag, HasChildren: decl.HasChildren, Attrs: attrs}
			return
		}

		name := d.dieName(decl.Tag, attrs)
		childStack := make([]strpool.String, len(stack)+1)
		copy(childStack, stack)
		childStack[len(stack)] = name

		pathString := d.pool.EmpoolString(buildPath(childStack))

		if d.target == nil {
			die := dwarfdie.DIE{
				Path:               pathString,
				Hash:               identityHash(d.arch, decl.Tag, pathString),
				FatalAttributeHash: fatalAttributeHash(attrs),
				OFDIndex:           d.ofdIndex,
				DebugInfoOffset:    dieOffset,
				Tag:                decl.Tag,
				Arch:               d.arch,
				HasChildren:        decl.HasChildren,
			}
			d.out = append(d.out, die)
		}

		if decl.HasChildren {
			d.decodeSiblings(c, childStack)
		}
	}
}
