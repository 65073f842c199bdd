package ttf

func parseAvar(p *Parser) error {
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

	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	axisCount, err := read[UInt16](p, "Axis count")
	if err != nil {
		return err
	}
	for i := uint16(0); i < uint16(axisCount); i++ {
		p.beginGroup("Segment map")
		pairsCount, err := read[UInt16](p, "Number of map pairs")
		if err != nil {
			return err
		}
		for j := uint16(0); j < uint16(pairsCount); j++ {
			p.beginGroup(p.intern("Pair " + p.indexLabel(uint32(j))))
			if _, err := read[F2DOT14](p, "From coordinate"); err != nil {
				return err
			}
			if _, err := read[F2DOT14](p, "To coordinate"); err != nil {
				return err
			}
			p.endGroup()
		}
		p.endGroup()
	}
	return nil
}
