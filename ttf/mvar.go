package ttf

func parseMvar(p *Parser) error {
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
	if _, err := read[UInt16](p, "Value record size"); err != nil {
		return err
	}
	valuesCount, err := read[UInt16](p, "Number of Value Records")
	if err != nil {
		return err
	}
	if _, err := read[Offset16](p, "Offset to the Item Variation Store"); err != nil {
		return err
	}

	if valuesCount == 0 {
		return nil
	}

	p.beginGroup("Records")
	for i := uint16(0); i < uint16(valuesCount); i++ {
		p.beginGroup(p.intern("Record " + p.indexLabel(uint32(i))))
		if _, err := read[Tag](p, "Tag"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "A delta-set outer index"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "A delta-set inner index"); err != nil {
			return err
		}
		p.endGroup()
	}
	p.endGroup()

	p.beginGroup("Item variation store")
	if err := parseItemVariationStore(p); err != nil {
		return err
	}
	p.endGroup()
	return nil
}
