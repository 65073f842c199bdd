package ttf

// parseCbdt reads a bitmap data table (CBDT/EBDT/bdat). The image
// payload carries no directory of its own; the byte ranges come from
// the matching location table (CBLC/EBLC/bloc).
func parseCbdt(p *Parser, locations []cblcLocation) error {
	start := p.offset()

	majorVersion, err := read[UInt16](p, "Major version")
	if err != nil {
		return err
	}
	minorVersion, err := read[UInt16](p, "Minor version")
	if err != nil {
		return err
	}
	if !((majorVersion == 2 || majorVersion == 3) && minorVersion == 0) {
		return errInvalidTableVersion
	}

	for _, loca := range locations {
		if loca.end < loca.start {
			return errInvalidValue
		}
		size := loca.end - loca.start
		if err := p.jumpTo(start + loca.start); err != nil {
			return err
		}
		p.beginGroup(p.intern("Bitmap Format " + p.indexLabel(uint32(loca.imageFormat))))

		switch loca.imageFormat {
		case 1:
			if err := parseSbitSmallGlyphMetrics(p); err != nil {
				return err
			}
			if err := readBitmapData(p, size, 5, "Byte-aligned bitmap data"); err != nil {
				return err
			}
		case 2:
			if err := parseSbitSmallGlyphMetrics(p); err != nil {
				return err
			}
			if err := readBitmapData(p, size, 5, "Bit-aligned bitmap data"); err != nil {
				return err
			}
		case 5:
			if err := readBitmapData(p, size, 0, "Bit-aligned bitmap data"); err != nil {
				return err
			}
		case 6:
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
			if err := readBitmapData(p, size, 8, "Byte-aligned bitmap data"); err != nil {
				return err
			}
		case 7:
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
			if err := readBitmapData(p, size, 8, "Bit-aligned bitmap data"); err != nil {
				return err
			}
		case 8:
			if err := parseSbitSmallGlyphMetrics(p); err != nil {
				return err
			}
			if _, err := read[UInt8](p, "Pad"); err != nil {
				return err
			}
			if err := readEbdtComponents(p); err != nil {
				return err
			}
		case 9:
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
			if err := readEbdtComponents(p); err != nil {
				return err
			}
		case 17:
			if err := parseSbitSmallGlyphMetrics(p); err != nil {
				return err
			}
			if err := readPngData(p); err != nil {
				return err
			}
		case 18:
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
			if err := readPngData(p); err != nil {
				return err
			}
		case 19:
			if err := readPngData(p); err != nil {
				return err
			}
		}

		p.endGroup()
	}
	return nil
}

func readBitmapData(p *Parser, size, headerSize uint32, title string) error {
	if size < headerSize {
		return errInvalidValue
	}
	_, err := p.readBytes(title, size-headerSize)
	return err
}

func readEbdtComponents(p *Parser) error {
	count, err := read[UInt16](p, "Number of components")
	if err != nil {
		return err
	}
	for i := uint16(0); i < uint16(count); i++ {
		p.beginGroup("Ebdt component")
		if _, err := read[GlyphID](p, "Glyph ID"); err != nil {
			return err
		}
		if _, err := read[Int8](p, "X-axis offset"); err != nil {
			return err
		}
		if _, err := read[Int8](p, "Y-axis offset"); err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}

func readPngData(p *Parser) error {
	length, err := read[UInt32](p, "Length of data")
	if err != nil {
		return err
	}
	_, err = p.readBytes("Raw PNG data", uint32(length))
	return err
}
