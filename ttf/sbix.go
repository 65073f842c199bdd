package ttf

import "sort"

// sbixFlags is the sbix header flag field.
type sbixFlags uint16

func (v *sbixFlags) parse(b []byte) { *v = sbixFlags(be16(b)) }
func (v sbixFlags) width() uint32   { return 2 }
func (v sbixFlags) typeName() string { return TypeBitFlags }
func (v sbixFlags) render() string {
	f := uint16(v)
	var lines []string
	if bit16(f, 1) {
		lines = append(lines, "Bit 1: Draw outlines")
	}
	return bitLines(bitPrefix16(f), lines)
}

func parseSbix(p *Parser, numberOfGlyphs uint16) error {
	start := p.offset()

	version, err := read[UInt16](p, "Version")
	if err != nil {
		return err
	}
	if version != 1 {
		return errInvalidTableVersion
	}

	if _, err := read[sbixFlags](p, "Flags"); err != nil {
		return err
	}
	numStrikes, err := read[UInt32](p, "Number of bitmap strikes")
	if err != nil {
		return err
	}

	offsets := make([]uint32, 0, numStrikes)
	if numStrikes > 0 {
		p.beginGroupValue("Offsets", p.indexLabel(uint32(numStrikes)))
		for i := uint32(0); i < uint32(numStrikes); i++ {
			if err := p.step(1); err != nil {
				return err
			}
			off, err := read[Offset32](p, p.intern("Offset "+p.indexLabel(i)))
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
		}
		p.endGroup()
	}

	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	offsets = dedupUint32(offsets)

	for _, offset := range offsets {
		if err := p.jumpTo(start + offset); err != nil {
			return err
		}
		p.beginGroup("Strike")

		if _, err := read[UInt16](p, "PPEM"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "PPI"); err != nil {
			return err
		}

		glyphOffsets := make([]uint32, 0, uint32(numberOfGlyphs)+1)
		p.beginGroupValue("Offsets", p.indexLabel(uint32(numberOfGlyphs)))
		for i := uint32(0); i <= uint32(numberOfGlyphs); i++ {
			if err := p.step(1); err != nil {
				return err
			}
			off, err := read[Offset32](p, p.intern("Offset "+p.indexLabel(i)))
			if err != nil {
				return err
			}
			glyphOffsets = append(glyphOffsets, uint32(off))
		}
		p.endGroup()

		sort.Slice(glyphOffsets, func(i, j int) bool { return glyphOffsets[i] < glyphOffsets[j] })
		glyphOffsets = dedupUint32(glyphOffsets)

		// The last offset is the end byte of the last glyph.
		for i := 0; i+1 < len(glyphOffsets); i++ {
			dataSize := glyphOffsets[i+1] - glyphOffsets[i]
			if dataSize < 8 {
				return errInvalidValue
			}
			if err := p.jumpTo(start + offset + glyphOffsets[i]); err != nil {
				return err
			}
			p.beginGroup("Glyph data")
			if _, err := read[Int16](p, "Horizontal offset"); err != nil {
				return err
			}
			if _, err := read[Int16](p, "Vertical offset"); err != nil {
				return err
			}
			if _, err := read[Tag](p, "Type"); err != nil {
				return err
			}
			if _, err := p.readBytes("Data", dataSize-8); err != nil {
				return err
			}
			p.endGroup()
		}

		p.endGroup()
	}
	return nil
}
