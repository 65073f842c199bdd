package ttf

// featFlags is the per-feature flag byte of the feature name table.
type featFlags uint8

func (v *featFlags) parse(b []byte) { *v = featFlags(b[0]) }
func (v featFlags) width() uint32   { return 1 }
func (v featFlags) typeName() string { return TypeBitFlags }
func (v featFlags) render() string {
	f := uint8(v)
	var lines []string
	if bit8(f, 6) {
		lines = append(lines, "Bit 6: Next byte is the default setting index")
	}
	if bit8(f, 7) {
		lines = append(lines, "Bit 7: Exclusive settings")
	}
	return bitLines(bitPrefix8(f), lines)
}

func parseFeat(p *Parser, names map[uint16]string) error {
	if _, err := read[Fixed](p, "Version"); err != nil {
		return err
	}
	numberOfFeatures, err := read[UInt16](p, "Number of features")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Reserved"); err != nil {
		return err
	}

	var numberOfSettings uint32
	err = p.readArray("Feature Name Array", uint32(numberOfFeatures), func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[UInt16](p, "Type"); err != nil {
			return err
		}
		settings, err := read[UInt16](p, "Number of settings")
		if err != nil {
			return err
		}
		numberOfSettings += uint32(settings)
		if _, err := read[Offset32](p, "Offset to setting name array"); err != nil {
			return err
		}
		if _, err := read[featFlags](p, "Flags"); err != nil {
			return err
		}
		if _, err := read[UInt8](p, "Default setting index"); err != nil {
			return err
		}
		name, err := p.readNameID("Name ID", names)
		if err != nil {
			return err
		}
		p.endGroupWith("", name)
		return nil
	})
	if err != nil {
		return err
	}

	return p.readArray("Setting Name Array", numberOfSettings, func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[UInt16](p, "Setting"); err != nil {
			return err
		}
		name, err := p.readNameID("Name ID", names)
		if err != nil {
			return err
		}
		p.endGroupWith("", name)
		return nil
	})
}
