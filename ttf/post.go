package ttf

func parsePost(p *Parser, end uint32) error {
	version, err := read[Fixed](p, "Version")
	if err != nil {
		return err
	}
	if _, err := read[Fixed](p, "Italic angle"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Underline position"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Underline thickness"); err != nil {
		return err
	}
	for _, title := range []string{
		"Is fixed pitch",
		"Min memory when font is downloaded",
		"Max memory when font is downloaded",
		"Min memory when font is downloaded as a Type 1",
		"Max memory when font is downloaded as a Type 1",
	} {
		if _, err := read[UInt32](p, title); err != nil {
			return err
		}
	}

	if version != 2.0 {
		return nil
	}

	numberOfGlyphs, err := read[UInt16](p, "Number of glyphs")
	if err != nil {
		return err
	}
	// Indices below 258 refer to the standard Macintosh names; custom
	// names are stored as Pascal strings indexed from 258 upward, so
	// the highest custom index bounds how many strings follow.
	var names uint32
	if numberOfGlyphs != 0 {
		p.beginGroup("Glyph name indexes")
		for i := uint16(0); i < uint16(numberOfGlyphs); i++ {
			idx, err := read[UInt16](p, "Index")
			if err != nil {
				return err
			}
			if idx >= 258 && uint32(idx)-257 > names {
				names = uint32(idx) - 257
			}
		}
		p.endGroup()
	}

	for i := uint32(0); i < names && p.offset() < end; i++ {
		if err := p.step(1); err != nil {
			return err
		}
		if _, err := p.readPascalString(); err != nil {
			return err
		}
	}
	return nil
}
