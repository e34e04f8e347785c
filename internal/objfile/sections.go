package objfile

import (
	"bytes"

	macho "github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
	"github.com/pkg/errors"

	"github.com/blacktop/odrv/internal/dwarfdie"
)

// DWARFSections holds the raw bytes of the debug sections this engine reads,
// keyed by the logical name rather than __DWARF,__debug_info so callers
// never repeat the segment literal (SPEC_FULL.md §4.C).
type DWARFSections struct {
	Info       []byte
	Abbrev     []byte
	Str        []byte
	StrOffsets []byte
	Line       []byte
	LineStr    []byte
	Addr       []byte
	Ranges     []byte
	Loc        []byte
	Loclists   []byte
	Rnglists   []byte
}

// Empty reports whether no __debug_info was found at all, in which case the
// image has nothing for internal/dwarfscan to walk (common for stub/shim
// Mach-O images with no compiled debug data).
func (s *DWARFSections) Empty() bool { return len(s.Info) == 0 }

func archFromCPU(cpu types.CPU) dwarfdie.Arch {
	switch cpu {
	case types.CPUI386:
		return dwarfdie.ArchX86
	case types.CPUAmd64:
		return dwarfdie.ArchX86_64
	case types.CPUArm:
		return dwarfdie.ArchArm
	case types.CPUArm64, types.CPUArm6432:
		// arm64_32 (CPUArm6432, the "ILP32 on AArch64" ABI used by some
		// watchOS binaries) is deliberately folded into ArchArm64 rather
		// than given its own case: see dwarfdie.Arch's doc comment and
		// SPEC_FULL.md §9's preserved Open Question.
		return dwarfdie.ArchArm64
	default:
		return dwarfdie.ArchUnknown
	}
}

// openMachoSections decodes one Mach-O image's header and extracts the
// debug sections this engine needs, without touching Symtab/Dysymtab or any
// other load command: this is an envelope reader, not a DWARF decoder
// (DESIGN.md explains why DWARF decode itself is hand-rolled rather than
// delegated to a library).
func openMachoSections(window []byte) (*DWARFSections, dwarfdie.Arch, error) {
	f, err := macho.NewFile(bytes.NewReader(window))
	if err != nil {
		return nil, dwarfdie.ArchUnknown, errors.Wrap(err, "decode macho envelope")
	}

	sections := &DWARFSections{
		Info:       sectionData(f, "__debug_info"),
		Abbrev:     sectionData(f, "__debug_abbrev"),
		Str:        sectionData(f, "__debug_str"),
		StrOffsets: sectionData(f, "__debug_str_offsets"),
		Line:       sectionData(f, "__debug_line"),
		LineStr:    sectionData(f, "__debug_line_str"),
		Addr:       sectionData(f, "__debug_addr"),
		Ranges:     sectionData(f, "__debug_ranges"),
		Loc:        sectionData(f, "__debug_loc"),
		Loclists:   sectionData(f, "__debug_loclists"),
		Rnglists:   sectionData(f, "__debug_rnglists"),
	}

	return sections, archFromCPU(f.CPU), nil
}

func sectionData(f *macho.File, name string) []byte {
	sec := f.Section("__DWARF", name)
	if sec == nil {
		return nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil
	}
	return data
}
