// Package conflict turns a registered chain of same-identity DIEs into an
// ordered, deduplicated ODRV report, matching
// original_source/src/orc.cpp's enforce_odrv_for_die_list, odrv_report, and
// find_attribute_conflict/type_equivalent.
package conflict

import (
	"sort"

	"github.com/blacktop/odrv/internal/config"
	"github.com/blacktop/odrv/internal/dwarfconst"
	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/dwarfscan"
	"github.com/blacktop/odrv/internal/objfile"
	"github.com/blacktop/odrv/internal/strpool"
)

// Detail is one distinct definition found among a chain's fatal-hash
// buckets, matching orc.cpp's conflict_details.
type Detail struct {
	DIE        *dwarfdie.DIE
	Attributes dwarfdie.AttributeSequence
}

// Report is one One-Definition-Rule violation: a symbol whose chain split
// into two or more attribute-incompatible definitions.
type Report struct {
	Symbol string
	Name   dwarfconst.At // the attribute whose divergence triggered the category

	// ConflictOrder lists each distinct fatal attribute hash in ascending
	// order, matching the iteration order of orc.cpp's std::map-backed
	// conflict_map.
	ConflictOrder []uint64
	ConflictMap   map[uint64]Detail
}

// Tag is the DWARF tag of the report's head DIE, the "<tag>" half of its
// category string.
func (r *Report) Tag() dwarfconst.Tag {
	return r.ConflictMap[r.ConflictOrder[0]].DIE.Tag
}

// Category is the "<tag>:<attribute>" string the report is filtered and
// displayed by, matching orc.cpp's odrv_report::category.
func (r *Report) Category() string {
	return r.Tag().String() + ":" + r.Name.String()
}

// Fetcher resolves the full attribute sequence for one DIE, re-opening its
// originating object file as needed. internal/engine supplies the concrete
// implementation backed by an objfile.Registry + dwarfscan.Cache.
type Fetcher func(d *dwarfdie.DIE) (dwarfconst.Tag, bool, dwarfdie.AttributeSequence, bool)

// AncestryOf resolves a DIE's object-file ancestry for chain sorting.
// internal/engine supplies this backed by an objfile.Registry.
type AncestryOf func(ofdIndex uint32) dwarfdie.Ancestry

// EnforceChain sorts the chain headed by head into ancestry order, re-links
// it in place, and reports a violation if any adjacent pair's fatal
// attribute hash diverges. It returns the new chain head (sorting may
// change which DIE is first) and, if a conflict was found, a non-nil
// Report.
//
// Matches orc.cpp's enforce_odrv_for_die_list exactly, including its
// "assume distinct ancestry" simplifying theory noted there.
func EnforceChain(head *dwarfdie.DIE, ancestryOf AncestryOf, fetch Fetcher) (*dwarfdie.DIE, *Report) {
	var dies []*dwarfdie.DIE
	for d := head; d != nil; d = d.Next {
		dies = append(dies, d)
	}
	if len(dies) <= 1 {
		return head, nil
	}

	sort.SliceStable(dies, func(i, j int) bool {
		return ancestryOf(dies[i].OFDIndex).Less(ancestryOf(dies[j].OFDIndex))
	})

	conflict := false
	for i := 1; i < len(dies); i++ {
		dies[i-1].Next = dies[i]
		if !conflict {
			conflict = dies[i-1].FatalAttributeHash != dies[i].FatalAttributeHash
		}
	}
	dies[len(dies)-1].Next = nil

	if !conflict {
		return dies[0], nil
	}

	dies[0].Conflict = true
	report := buildReport(dwarfdie.Symbol(dies[0].Path.View()), dies[0], fetch)
	return dies[0], report
}

func buildReport(symbol string, listHead *dwarfdie.DIE, fetch Fetcher) *Report {
	order := make([]uint64, 0, 2)
	m := make(map[uint64]Detail, 2)

	for d := listHead; d != nil; d = d.Next {
		h := d.FatalAttributeHash
		if _, ok := m[h]; ok {
			continue
		}
		_, _, attrs, _ := fetch(d)
		order = append(order, h)
		m[h] = Detail{DIE: d, Attributes: attrs}
	}

	// orc.cpp's conflict_map is a std::map keyed by fatal hash, so its
	// begin()/end() iterate in ascending hash order; sort to match.
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	front := m[order[0]]
	back := m[order[len(order)-1]]
	name := FindAttributeConflict(front.Attributes, back.Attributes)

	return &Report{
		Symbol:        symbol,
		Name:          name,
		ConflictOrder: order,
		ConflictMap:   m,
	}
}

// FindAttributeConflict returns the first attribute whose value diverges
// between x and y (ignoring nonfatal attributes), or dwarfconst.AtNone if
// every fatal attribute agrees. Matches orc.cpp's find_attribute_conflict.
func FindAttributeConflict(x, y dwarfdie.AttributeSequence) dwarfconst.At {
	yAttrs := y.All()

	for _, xa := range x.All() {
		if dwarfscan.NonfatalAttribute(xa.Name) {
			continue
		}

		ya, found := findByName(yAttrs, xa.Name)
		if !found {
			return xa.Name
		}

		if xa.Name == dwarfconst.AtType {
			if typeEquivalent(xa, ya) {
				continue
			}
			return xa.Name
		}
		if xa.Value.Equal(ya.Value) {
			continue
		}
		return xa.Name
	}

	xAttrs := x.All()
	for _, ya := range yAttrs {
		if dwarfscan.NonfatalAttribute(ya.Name) {
			continue
		}
		if _, found := findByName(xAttrs, ya.Name); !found {
			return ya.Name
		}
	}

	return dwarfconst.AtNone
}

func findByName(attrs []dwarfdie.Attribute, name dwarfconst.At) (dwarfdie.Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return dwarfdie.Attribute{}, false
}

// typeEquivalent compares a DW_AT_type attribute pair the way orc.cpp's
// type_equivalent does: equivalent when both carry the same reference
// offset, or when both carry interned strings with the same hash. Anything
// else is a mismatch.
func typeEquivalent(x, y dwarfdie.Attribute) bool {
	if x.Has(dwarfdie.KindReference) && y.Has(dwarfdie.KindReference) &&
		x.Value.Reference() == y.Value.Reference() {
		return true
	}
	if x.Has(dwarfdie.KindString) && y.Has(dwarfdie.KindString) &&
		x.Value.StringHash() == y.Value.StringHash() {
		return true
	}
	return false
}

// NewFetcher builds a Fetcher backed by an objfile.Registry and a shared
// dwarfscan.Cache: given a DIE, it reopens the exact byte range its
// registry Entry recorded and re-decodes just that one DIE, matching
// orc.cpp's fetch_attributes_for_die.
func NewFetcher(reg *objfile.Registry, pool *strpool.Pool, cache *dwarfscan.Cache) Fetcher {
	return func(d *dwarfdie.DIE) (dwarfconst.Tag, bool, dwarfdie.AttributeSequence, bool) {
		entry, ok := reg.Get(d.OFDIndex)
		if !ok {
			return 0, false, dwarfdie.AttributeSequence{}, false
		}

		r, sections, err := objfile.Reopen(entry)
		if err != nil {
			return 0, false, dwarfdie.AttributeSequence{}, false
		}
		defer r.Close()

		return dwarfscan.FetchOneDIE(d.OFDIndex, d.Arch, sections, pool, cache, d.DebugInfoOffset)
	}
}

// Filter keeps only the reports that should be shown, matching orc.cpp's
// filter_report: an ignore list suppresses named categories; a report list
// (used only when ignore is empty) allows only named categories.
func Filter(reports []Report, violationIgnore, violationReport []string) []Report {
	if len(violationIgnore) == 0 && len(violationReport) == 0 {
		return reports
	}

	kept := make([]Report, 0, len(reports))
	for _, r := range reports {
		category := r.Category()
		doReport := true
		if len(violationIgnore) > 0 {
			doReport = !config.SortedHas(violationIgnore, category)
		} else if len(violationReport) > 0 {
			doReport = config.SortedHas(violationReport, category)
		}
		if doReport {
			kept = append(kept, r)
		}
	}
	return kept
}

// NewAncestryOf builds an AncestryOf backed by an objfile.Registry.
func NewAncestryOf(reg *objfile.Registry) AncestryOf {
	return func(ofdIndex uint32) dwarfdie.Ancestry {
		entry, ok := reg.Get(ofdIndex)
		if !ok {
			return dwarfdie.Ancestry{}
		}
		return entry.Ancestry
	}
}
