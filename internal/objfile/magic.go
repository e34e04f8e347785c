package objfile

import "encoding/binary"

// Magic numbers this engine recognizes, read as the first four bytes of a
// container in its own byte order (so both the plain and byte-swapped forms
// appear below, matching original_source/src/parse_file.cpp's dispatch).
const (
	magicMachO32        uint32 = 0xfeedface
	magicMachO32Swapped uint32 = 0xcefaedfe
	magicMachO64        uint32 = 0xfeedfacf
	magicMachO64Swapped uint32 = 0xcffaedfe

	magicFat        uint32 = 0xcafebabe
	magicFatSwapped uint32 = 0xbebafeca
)

const arMagic = "!<arch>\n"

// Kind classifies the four leading bytes of a container.
type Kind int

const (
	KindUnknown Kind = iota
	KindMachO
	KindFat
	KindArchive
)

// detectKind peeks the first 4 (or 8, for ar) bytes of data without
// consuming them.
func detectKind(data []byte) Kind {
	if len(data) >= 8 && string(data[:8]) == arMagic {
		return KindArchive
	}
	if len(data) < 4 {
		return KindUnknown
	}
	switch binary.BigEndian.Uint32(data[:4]) {
	case magicFat, magicFatSwapped:
		return KindFat
	case magicMachO32, magicMachO32Swapped, magicMachO64, magicMachO64Swapped:
		return KindMachO
	}
	return KindUnknown
}
