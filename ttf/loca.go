package ttf

// Index-to-location formats from the head table.
const (
	indexToLocFormatShort = 0 // Offset16, stored divided by two
	indexToLocFormatLong  = 1 // Offset32
)

func parseLoca(p *Parser, numberOfGlyphs, indexToLocFormat uint16) error {
	count := uint32(numberOfGlyphs) + 1
	if indexToLocFormat == indexToLocFormatShort {
		for i := uint32(0); i < count; i++ {
			if _, err := readIndexed[Offset16](p, i); err != nil {
				return err
			}
		}
		return nil
	}
	for i := uint32(0); i < count; i++ {
		if _, err := readIndexed[Offset32](p, i); err != nil {
			return err
		}
	}
	return nil
}

// collectLocaOffsets extracts the glyph-location offsets for glyf
// slicing, resolving the short format's implicit ×2. Offsets must be
// monotonically non-decreasing.
func collectLocaOffsets(numberOfGlyphs, indexToLocFormat uint16, s *shadowParser) ([]uint32, error) {
	count := uint32(numberOfGlyphs) + 1
	offsets := make([]uint32, 0, count)
	last := uint32(0)
	for i := uint32(0); i < count; i++ {
		var offset uint32
		if indexToLocFormat == indexToLocFormatShort {
			v, err := sread[Offset16](s)
			if err != nil {
				return nil, err
			}
			offset = uint32(v) * 2
		} else {
			v, err := sread[Offset32](s)
			if err != nil {
				return nil, err
			}
			offset = uint32(v)
		}
		if offset < last {
			return nil, errInvalidOffset
		}
		offsets = append(offsets, offset)
		last = offset
	}
	return offsets, nil
}
