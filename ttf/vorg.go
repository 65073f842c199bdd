package ttf

func parseVorg(p *Parser) error {
	majorVersion, err := read[UInt16](p, "Major version")
	if err != nil {
		return err
	}
	minorVersion, err := read[UInt16](p, "Minor version")
	if err != nil {
		return err
	}
	if !(majorVersion == 1 && minorVersion == 0) {
		return errInvalidTableVersion
	}

	if _, err := read[Int16](p, "Default vertical origin"); err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of metrics")
	if err != nil {
		return err
	}
	for i := uint16(0); i < uint16(count); i++ {
		p.beginGroup(p.intern("Metric " + p.indexLabel(uint32(i))))
		if _, err := read[GlyphID](p, "Glyph index"); err != nil {
			return err
		}
		if _, err := read[Int16](p, "Coordinate"); err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}
