package ttf

func parseFvar(p *Parser, names map[uint16]string) error {
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

	if _, err := read[Offset16](p, "Offset to VariationAxisRecord array"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	axisCount, err := read[UInt16](p, "The number of variation axes")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "The size of VariationAxisRecord"); err != nil {
		return err
	}
	instanceCount, err := read[UInt16](p, "The number of named instances")
	if err != nil {
		return err
	}
	instanceSize, err := read[UInt16](p, "The size of InstanceRecord")
	if err != nil {
		return err
	}

	p.beginGroup("Variation axis records")
	for i := uint16(0); i < uint16(axisCount); i++ {
		p.beginGroup("")
		tag, err := read[Tag](p, "Axis tag")
		if err != nil {
			return err
		}
		if _, err := read[Fixed](p, "Minimum coordinate"); err != nil {
			return err
		}
		if _, err := read[Fixed](p, "Default coordinate"); err != nil {
			return err
		}
		if _, err := read[Fixed](p, "Maximum coordinate"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Axis qualifiers"); err != nil {
			return err
		}
		if _, err := p.readNameID("The name ID", names); err != nil {
			return err
		}
		p.endGroupWith(p.intern("Axis "+tag.String()), "")
	}
	p.endGroup()

	if instanceCount == 0 {
		return nil
	}

	// An instance record optionally ends with a PostScript name ID;
	// only the record size reveals whether it is present.
	hasPostScriptNameID := uint32(instanceSize) == 4*uint32(axisCount)+6

	p.beginGroup("Instance records")
	for i := uint16(0); i < uint16(instanceCount); i++ {
		p.beginGroup("Instance")
		if _, err := p.readNameID("Subfamily name ID", names); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Reserved"); err != nil {
			return err
		}
		for a := uint16(0); a < uint16(axisCount); a++ {
			if _, err := read[Fixed](p, "Coordinate"); err != nil {
				return err
			}
		}
		if hasPostScriptNameID {
			if _, err := p.readNameID("PostScript name ID", names); err != nil {
				return err
			}
		}
		p.endGroup()
	}
	p.endGroup()
	return nil
}
