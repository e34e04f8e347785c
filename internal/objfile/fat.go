package objfile

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// fatArch is one entry of a universal binary's index, as laid out in
// mach-o/fat.h: five big-endian uint32 fields, regardless of the slice's own
// bit width (the 32-bit fat_arch layout covers every architecture this
// engine targets; fat_arch_64 exists for completeness elsewhere but isn't
// needed here since none of the example object files use it).
type fatArch struct {
	cpuType    uint32
	cpuSubtype uint32
	offset     uint32
	size       uint32
	align      uint32
}

const fatHeaderSize = 8
const fatArchSize = 20

// readFatArchs parses the fat_header + nfat_arch fat_arch entries from the
// start of window, matching original_source/src/parse_file.cpp's
// read_fat_header.
func readFatArchs(window []byte) ([]fatArch, error) {
	if len(window) < fatHeaderSize {
		return nil, errors.New("fat header truncated")
	}
	n := binary.BigEndian.Uint32(window[4:8])
	end := fatHeaderSize + int(n)*fatArchSize
	if end > len(window) {
		return nil, errors.New("fat arch table truncated")
	}

	archs := make([]fatArch, 0, n)
	for i := 0; i < int(n); i++ {
		b := window[fatHeaderSize+i*fatArchSize:]
		archs = append(archs, fatArch{
			cpuType:    binary.BigEndian.Uint32(b[0:4]),
			cpuSubtype: binary.BigEndian.Uint32(b[4:8]),
			offset:     binary.BigEndian.Uint32(b[8:12]),
			size:       binary.BigEndian.Uint32(b[12:16]),
			align:      binary.BigEndian.Uint32(b[16:20]),
		})
	}
	return archs, nil
}
