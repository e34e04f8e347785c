package dwarfscan

// cuHeader is one compilation unit's header, normalized across the DWARF4
// and DWARF5 encodings (DWARF5 §7.5.1.1 inserts a unit_type byte and
// reorders addr_size ahead of abbrev_offset).
type cuHeader struct {
	Offset       uint32 // absolute offset of this header's first byte within __debug_info
	NextOffset   uint32 // absolute offset of the following CU header (or section end)
	Version      uint16
	AbbrevOffset uint32
	AddrSize     uint8
}

// readCUHeader reads one CU header starting at c's current position and
// leaves c positioned at the header's first DIE.
func readCUHeader(c *cursor) cuHeader {
	start := c.Tell()
	unitLength := c.Uint32()
	next := c.Tell() + int(unitLength)
	version := c.Uint16()

	var abbrevOffset uint32
	var addrSize uint8
	if version >= 5 {
		c.Uint8() // unit_type: compile_unit/skeleton_unit/etc, not needed for decoding
		addrSize = c.Uint8()
		abbrevOffset = c.Uint32()
	} else {
		abbrevOffset = c.Uint32()
		addrSize = c.Uint8()
	}

	return cuHeader{
		Offset:       uint32(start),
		NextOffset:   uint32(next),
		Version:      version,
		AbbrevOffset: abbrevOffset,
		AddrSize:     addrSize,
	}
}
