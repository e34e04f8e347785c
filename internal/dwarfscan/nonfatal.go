package dwarfscan

import "github.com/blacktop/odrv/internal/dwarfconst"

// nonfatalAttributes is the curated set an attribute divergence never turns
// into a violation for: source-location noise, link-dependent addresses,
// and a handful of debugger-only fields. This table is preserved verbatim
// rather than tuned, per SPEC_FULL.md §4.D — widening or narrowing it changes
// the tool's false-positive rate in ways that must be a deliberate,
// reviewed decision, not an implementation accident.
var nonfatalAttributes = map[dwarfconst.At]bool{
	dwarfconst.AtDeclFile:   true,
	dwarfconst.AtDeclLine:   true,
	dwarfconst.AtDeclColumn: true,

	dwarfconst.AtLowpc:   true,
	dwarfconst.AtHighpc:  true,
	dwarfconst.AtRanges:  true,
	dwarfconst.AtLocation: true,

	dwarfconst.AtSibling:    true,
	dwarfconst.AtProducer:   true,
	dwarfconst.AtPrototyped: true,

	dwarfconst.AtAppleOptimized:        true,
	dwarfconst.AtAppleFlags:            true,
	dwarfconst.AtAppleMajorRuntimeVers: true,
	dwarfconst.AtAppleRuntimeClass:     true,
	dwarfconst.AtAppleSdk:              true,
}

// nonfatalAttribute reports whether a difference in this attribute's value
// is expected and should never produce a report, matching
// original_source/include/orc/dwarf_structs.hpp's nonfatal_attribute.
func nonfatalAttribute(at dwarfconst.At) bool {
	return nonfatalAttributes[at]
}

// NonfatalAttribute is the exported form of nonfatalAttribute: internal/conflict
// shares this exact table when deciding which attribute to blame for an
// ODRV, so the hashing pass and the reporting pass never disagree about
// what counts as fatal.
func NonfatalAttribute(at dwarfconst.At) bool {
	return nonfatalAttribute(at)
}
