package ttf

// gvar packing constants.
const (
	gvarSharedPointNumbers = 0x8000
	gvarCountMask          = 0x0FFF

	gvarEmbeddedPeakTuple   = 0x8000
	gvarIntermediateRegion  = 0x4000
	gvarPrivatePointNumbers = 0x2000

	gvarPointsAreWords     = 0x80
	gvarPointRunCountMask  = 0x7F
	gvarDeltasAreZero      = 0x80
	gvarDeltasAreWords     = 0x40
	gvarDeltaRunCountMask  = 0x3F
)

// unpackPoints reads one packed point-number block: a control byte
// (optionally extended to a 15-bit count) followed by runs of 1- or
// 2-byte point numbers.
func unpackPoints(p *Parser) error {
	control, err := read[UInt8](p, "Control")
	if err != nil {
		return err
	}
	if control == 0 {
		return nil
	}

	count := uint16(control)
	if uint8(control)&gvarPointsAreWords != 0 {
		b2, err := read[UInt8](p, "Control")
		if err != nil {
			return err
		}
		count = (count&gvarPointRunCountMask)<<8 | uint16(b2)
	}

	for i := uint16(0); i < count; {
		if err := p.step(1); err != nil {
			return err
		}
		control, err := read[UInt8](p, "Control")
		if err != nil {
			return err
		}
		runCount := uint16(uint8(control)&gvarPointRunCountMask) + 1
		if uint8(control)&gvarPointsAreWords != 0 {
			for j := uint16(0); j < runCount && i < count; j, i = j+1, i+1 {
				if _, err := read[UInt16](p, "Point"); err != nil {
					return err
				}
			}
		} else {
			for j := uint16(0); j < runCount && i < count; j, i = j+1, i+1 {
				if _, err := read[UInt8](p, "Point"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// unpackDeltas reads packed deltas until size bytes are consumed: runs
// of words, bytes, or implicit zeros, each introduced by a control byte.
func unpackDeltas(p *Parser, size uint32) error {
	end := p.offset() + size
	for p.offset() < end {
		if err := p.step(1); err != nil {
			return err
		}
		control, err := read[UInt8](p, "Control")
		if err != nil {
			return err
		}
		runCount := uint32(uint8(control)&gvarDeltaRunCountMask) + 1
		switch {
		case uint8(control)&gvarDeltasAreZero != 0:
			// Deltas are not stored.
		case uint8(control)&gvarDeltasAreWords != 0:
			for i := uint32(0); i < runCount; i++ {
				if _, err := read[UInt16](p, "Delta"); err != nil {
					return err
				}
			}
		default:
			for i := uint32(0); i < runCount; i++ {
				if _, err := read[UInt8](p, "Delta"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func parseGvar(p *Parser) error {
	if _, err := read[UInt16](p, "Major version"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Minor version"); err != nil {
		return err
	}
	axisCount, err := read[UInt16](p, "Axis count")
	if err != nil {
		return err
	}
	sharedTupleCount, err := read[UInt16](p, "Shared tuple count")
	if err != nil {
		return err
	}
	if _, err := read[Offset32](p, "Offset to the shared tuple records"); err != nil {
		return err
	}
	glyphCount, err := read[UInt16](p, "Glyphs count")
	if err != nil {
		return err
	}
	flags, err := read[UInt16](p, "Flags")
	if err != nil {
		return err
	}
	if _, err := read[Offset32](p, "Offset to the array of Glyph Variation Data tables"); err != nil {
		return err
	}
	// Per-glyph data is addressed by either 16-bit offsets stored
	// divided by two, or plain 32-bit offsets.
	longFormat := uint16(flags)&1 == 1

	offsets := make([]uint32, 0, uint32(glyphCount)+1)
	p.beginGroupValue("GlyphVariationData offsets", p.indexLabel(uint32(glyphCount)+1))
	for i := uint32(0); i <= uint32(glyphCount); i++ {
		if err := p.step(1); err != nil {
			return err
		}
		if longFormat {
			off, err := read[Offset32](p, "Offset")
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
		} else {
			off, err := read[Offset16](p, "Offset")
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off)*2)
		}
	}
	p.endGroup()

	if sharedTupleCount > 0 {
		p.beginGroupValue("Shared tuples", p.indexLabel(uint32(sharedTupleCount)))
		for i := uint16(0); i < uint16(sharedTupleCount); i++ {
			p.beginGroup("Tuple record")
			for a := uint16(0); a < uint16(axisCount); a++ {
				if _, err := read[F2DOT14](p, "Coordinate"); err != nil {
					return err
				}
			}
			p.endGroup()
		}
		p.endGroup()
	}

	// Consecutive equal offsets mean an empty glyph entry.
	offsets = dedupUint32(offsets)
	if len(offsets) == 0 {
		return nil
	}

	start := p.offset()

	type tupleHeader struct {
		dataSize               uint16
		hasPrivatePointNumbers bool
	}

	p.beginGroupValue("Tables", p.indexLabel(uint32(len(offsets)-1)))
	for i, offset := range offsets[1:] {
		p.beginGroup(p.intern("Glyph Variation Data " + p.indexLabel(uint32(i))))

		value, err := read[UInt16](p, "Value")
		if err != nil {
			return err
		}
		if _, err := read[Offset16](p, "Data offset"); err != nil {
			return err
		}

		// The high 4 bits are flags, the low 12 bits the number of
		// tuple variation tables for this glyph.
		hasSharedPointNumbers := uint16(value)&gvarSharedPointNumbers != 0
		tupleVariationCount := uint16(value) & gvarCountMask

		var headers []tupleHeader
		for h := uint16(0); h < tupleVariationCount; h++ {
			if err := p.step(1); err != nil {
				return err
			}
			p.beginGroup("Tuple Variation Header")
			dataSize, err := read[UInt16](p, "Size of the serialized data")
			if err != nil {
				return err
			}
			tupleIndex, err := read[UInt16](p, "Value")
			if err != nil {
				return err
			}

			headers = append(headers, tupleHeader{
				dataSize:               uint16(dataSize),
				hasPrivatePointNumbers: uint16(tupleIndex)&gvarPrivatePointNumbers != 0,
			})

			if uint16(tupleIndex)&gvarEmbeddedPeakTuple != 0 {
				p.beginGroup("Peak record")
				for a := uint16(0); a < uint16(axisCount); a++ {
					if _, err := read[F2DOT14](p, "Coordinate"); err != nil {
						return err
					}
				}
				p.endGroup()
			}
			if uint16(tupleIndex)&gvarIntermediateRegion != 0 {
				p.beginGroup("Intermediate record")
				for a := uint16(0); a < 2*uint16(axisCount); a++ {
					if _, err := read[F2DOT14](p, "Coordinate"); err != nil {
						return err
					}
				}
				p.endGroup()
			}
			p.endGroup()
		}

		if hasSharedPointNumbers {
			p.beginGroup("Shared points")
			if err := unpackPoints(p); err != nil {
				return err
			}
			p.endGroup()
		}

		for _, header := range headers {
			tupleStart := p.offset()
			if header.hasPrivatePointNumbers {
				p.beginGroup("Private points")
				if err := unpackPoints(p); err != nil {
					return err
				}
				p.endGroup()
			}
			privatePointsSize := p.offset() - tupleStart
			if uint32(header.dataSize) < privatePointsSize {
				return errInvalidValue
			}
			p.beginGroup("Deltas")
			if err := unpackDeltas(p, uint32(header.dataSize)-privatePointsSize); err != nil {
				return err
			}
			p.endGroup()
		}

		if consumed := p.offset() - start; consumed < offset {
			if err := p.padTo(start + offset); err != nil {
				return err
			}
		}

		p.endGroup()
	}
	p.endGroup()
	return nil
}
