// Package objfile sniffs a file's container format (plain Mach-O, a
// universal/fat binary, or a Unix archive of either) and hands each
// embedded Mach-O image's debug sections to a caller-supplied visitor,
// recording enough in a Registry to re-open any one image later.
//
// This is deliberately an envelope reader only: it never looks inside
// __debug_info. That belongs to internal/dwarfscan.
package objfile

import (
	"github.com/pkg/errors"

	"github.com/blacktop/odrv/internal/dwarfdie"
	"github.com/blacktop/odrv/internal/freader"
	"github.com/blacktop/odrv/internal/strpool"
)

// Visitor is invoked once per Mach-O image found while walking a file
// (possibly nested inside a fat binary and/or an archive). ofdIndex is
// already registered by the time Visitor runs, so it can be embedded
// directly into every DIE the caller decodes from sections.
type Visitor func(ofdIndex uint32, arch dwarfdie.Arch, sections *DWARFSections, ancestry dwarfdie.Ancestry) error

// ParseFile opens path, appends path to ancestry, classifies its outermost
// container, and recurses through any fat slices or archive members until
// it reaches plain Mach-O images, invoking visit for each one. Archive
// members append their member name as well; a fat binary's slices are
// distinguished by architecture, not by a container name, so they append
// nothing.
func ParseFile(reg *Registry, pool *strpool.Pool, path string, ancestry dwarfdie.Ancestry, visit Visitor) error {
	r, err := freader.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	ancestry.Append(pool.EmpoolString(path))
	return parseWindow(reg, pool, path, r, ancestry, visit)
}

func parseWindow(reg *Registry, pool *strpool.Pool, path string, r *freader.Reader, ancestry dwarfdie.Ancestry, visit Visitor) error {
	window := r.WindowBytes()
	switch detectKind(window) {
	case KindMachO:
		return parseMachO(reg, path, r, ancestry, visit)
	case KindFat:
		return parseFat(reg, pool, path, r, ancestry, visit)
	case KindArchive:
		return parseArchive(reg, pool, path, r, ancestry, visit)
	default:
		return errors.Errorf("%s: unrecognized object-file magic", path)
	}
}

func parseMachO(reg *Registry, path string, r *freader.Reader, ancestry dwarfdie.Ancestry, visit Visitor) error {
	sections, arch, err := openMachoSections(r.WindowBytes())
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	if sections.Empty() {
		return nil // no debug info compiled into this image; not an error
	}

	start, end := r.AbsoluteRange()
	idx := reg.Register(Entry{Path: path, Start: start, End: end, Arch: arch, Ancestry: ancestry})
	return visit(idx, arch, sections, ancestry)
}

func parseFat(reg *Registry, pool *strpool.Pool, path string, r *freader.Reader, ancestry dwarfdie.Ancestry, visit Visitor) error {
	archs, err := readFatArchs(r.WindowBytes())
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}

	base, _ := r.AbsoluteRange()
	for _, a := range archs {
		start := base + int64(a.offset)
		end := start + int64(a.size)
		slice, err := freader.OpenRange(path, start, end)
		if err != nil {
			return err
		}
		err = func() error {
			defer slice.Close()
			return parseWindow(reg, pool, path, slice, ancestry, visit)
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

func parseArchive(reg *Registry, pool *strpool.Pool, path string, r *freader.Reader, ancestry dwarfdie.Ancestry, visit Visitor) error {
	members, err := readArMembers(r.WindowBytes())
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}

	base, _ := r.AbsoluteRange()
	for _, m := range members {
		memberAncestry := ancestry
		memberAncestry.Append(pool.EmpoolString(m.name))

		start := base + int64(m.start)
		end := base + int64(m.end)
		slice, err := freader.OpenRange(path, start, end)
		if err != nil {
			return err
		}
		err = func() error {
			defer slice.Close()
			return parseWindow(reg, pool, path, slice, memberAncestry, visit)
		}()
		if err != nil {
			return err
		}
	}
	return nil
}
