package ttf

func parseAnkr(p *Parser, numberOfGlyphs uint16) error {
	tableStart := p.offset()

	if _, err := read[UInt16](p, "Version"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Unused"); err != nil {
		return err
	}
	lookupTableOffset, err := read[OptOffset32](p, "Offset to lookup table")
	if err != nil {
		return err
	}
	glyphDataTableOffset, err := read[OptOffset32](p, "Offset to glyph data table")
	if err != nil {
		return err
	}

	if lookupTableOffset.isNull() {
		return errInvalidValue
	}

	if err := p.advanceTo(tableStart + uint32(lookupTableOffset)); err != nil {
		return err
	}
	offsets, err := parseAatLookup(p, numberOfGlyphs)
	if err != nil {
		return err
	}

	if glyphDataTableOffset.isNull() {
		return nil
	}

	return p.readArray("Glyphs Data", uint32(len(offsets)), func(index uint32) error {
		if err := p.advanceTo(tableStart + uint32(glyphDataTableOffset) + offsets[index]); err != nil {
			return err
		}
		p.beginGroupIndexed(index)
		numberOfPoints, err := read[UInt32](p, "Number of points")
		if err != nil {
			return err
		}
		err = p.readArray("Points", uint32(numberOfPoints), func(pointIndex uint32) error {
			p.beginGroupIndexed(pointIndex)
			if _, err := read[Int16](p, "X"); err != nil {
				return err
			}
			if _, err := read[Int16](p, "Y"); err != nil {
				return err
			}
			p.endGroup()
			return nil
		})
		if err != nil {
			return err
		}
		p.endGroup()
		return nil
	})
}
