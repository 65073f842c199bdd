package ttf

// Simple glyph flag bits.
const (
	glyfOnCurvePoint     = 0x01
	glyfXShortVector     = 0x02
	glyfYShortVector     = 0x04
	glyfRepeatFlag       = 0x08
	glyfXIsSameOrPositive = 0x10
	glyfYIsSameOrPositive = 0x20
	glyfOverlapSimple    = 0x40
)

// simpleGlyphFlags is one flag byte of a simple glyph's flag stream.
type simpleGlyphFlags uint8

func (v *simpleGlyphFlags) parse(b []byte) { *v = simpleGlyphFlags(b[0]) }
func (v simpleGlyphFlags) width() uint32   { return 1 }
func (v simpleGlyphFlags) typeName() string { return TypeBitFlags }
func (v simpleGlyphFlags) render() string {
	f := uint8(v)
	var lines []string
	if bit8(f, 0) {
		lines = append(lines, "Bit 0: On curve point")
	}
	if bit8(f, 1) {
		lines = append(lines, "Bit 1: X-coordinate is 1 byte long")
	}
	if bit8(f, 2) {
		lines = append(lines, "Bit 2: Y-coordinate is 1 byte long")
	}
	if bit8(f, 3) {
		lines = append(lines, "Bit 3: Repeat flag")
	}
	switch {
	case bit8(f, 1) && bit8(f, 4):
		lines = append(lines, "Bit 4: X-coordinate is positive")
	case bit8(f, 1) && !bit8(f, 4):
		lines = append(lines, "Bit 4: X-coordinate is negative")
	case !bit8(f, 1) && bit8(f, 4):
		lines = append(lines, "Bit 4: Use the previous X-coordinate")
	default:
		lines = append(lines, "Bit 4: X-coordinate is 2 byte long, signed")
	}
	switch {
	case bit8(f, 2) && bit8(f, 5):
		lines = append(lines, "Bit 5: Y-coordinate is positive")
	case bit8(f, 2) && !bit8(f, 5):
		lines = append(lines, "Bit 5: Y-coordinate is negative")
	case !bit8(f, 2) && bit8(f, 5):
		lines = append(lines, "Bit 5: Use the previous Y-coordinate")
	default:
		lines = append(lines, "Bit 5: Y-coordinate is 2 byte long, signed")
	}
	if bit8(f, 6) {
		lines = append(lines, "Bit 6: Contours may overlap")
	}
	// 7 - reserved
	return bitLines(bitPrefix8(f), lines)
}

// Composite glyph flag bits.
const (
	glyfArg1And2AreWords    = 0x0001
	glyfArgsAreXYValues     = 0x0002
	glyfRoundXYToGrid       = 0x0004
	glyfWeHaveAScale        = 0x0008
	glyfMoreComponents      = 0x0020
	glyfWeHaveAnXAndYScale  = 0x0040
	glyfWeHaveATwoByTwo     = 0x0080
	glyfWeHaveInstructions  = 0x0100
	glyfUseMyMetrics        = 0x0200
	glyfOverlapCompound     = 0x0400
	glyfScaledComponentOff  = 0x0800
	glyfUnscaledComponentOff = 0x1000
)

// compositeGlyphFlags is the 16-bit flag word of a glyph component.
type compositeGlyphFlags uint16

func (v *compositeGlyphFlags) parse(b []byte) { *v = compositeGlyphFlags(be16(b)) }
func (v compositeGlyphFlags) width() uint32   { return 2 }
func (v compositeGlyphFlags) typeName() string { return TypeBitFlags }
func (v compositeGlyphFlags) render() string {
	f := uint16(v)
	var lines []string
	if bit16(f, 0) {
		lines = append(lines, "Bit 0: Arguments are 16-bit")
	}
	if bit16(f, 1) {
		lines = append(lines, "Bit 1: Arguments are signed xy values")
	}
	if bit16(f, 2) {
		lines = append(lines, "Bit 2: Round XY to grid")
	}
	if bit16(f, 3) {
		lines = append(lines, "Bit 3: Has a simple scale")
	}
	// 4 - reserved
	if bit16(f, 5) {
		lines = append(lines, "Bit 5: Has more glyphs")
	}
	if bit16(f, 6) {
		lines = append(lines, "Bit 6: Non-propotional scale")
	}
	if bit16(f, 7) {
		lines = append(lines, "Bit 7: Has 2 by 2 transformation matrix")
	}
	if bit16(f, 8) {
		lines = append(lines, "Bit 8: Has instructions after the last component")
	}
	if bit16(f, 9) {
		lines = append(lines, "Bit 9: Use my metrics")
	}
	if bit16(f, 10) {
		lines = append(lines, "Bit 10: Components overlap")
	}
	if bit16(f, 11) {
		lines = append(lines, "Bit 11: Scaled component offset")
	}
	if bit16(f, 12) {
		lines = append(lines, "Bit 12: Unscaled component offset")
	}
	// 13, 14, 15 - reserved
	return bitLines(bitPrefix16(f), lines)
}

func parseGlyf(p *Parser, numberOfGlyphs uint16, locaOffsets []uint32) error {
	if len(locaOffsets) != int(numberOfGlyphs)+1 {
		return errInvalidValue
	}
	for gid := uint16(0); gid < numberOfGlyphs; gid++ {
		size := locaOffsets[gid+1] - locaOffsets[gid]
		if size == 0 {
			continue
		}

		start := p.offset()
		p.beginGroup(p.glyphLabel(uint32(gid)))
		composite, err := parseGlyph(p)
		if err != nil {
			return err
		}
		if composite {
			p.endGroupWith(p.intern(p.glyphLabel(uint32(gid))+" (composite)"), "")
		} else {
			p.endGroup()
		}

		consumed := p.offset() - start
		switch {
		case size > consumed:
			if err := p.readPadding(size - consumed); err != nil {
				return err
			}
		case size < consumed:
			return errInvalidValue
		}
	}
	return nil
}

// parseGlyph reads one glyph body and reports whether it is composite.
func parseGlyph(p *Parser) (composite bool, err error) {
	numberOfContours, err := read[Int16](p, "Number of contours")
	if err != nil {
		return false, err
	}
	for _, title := range []string{"x min", "y min", "x max", "y max"} {
		if _, err := read[Int16](p, title); err != nil {
			return false, err
		}
	}

	switch {
	case numberOfContours == 0:
		return false, nil
	case numberOfContours > 0:
		return false, parseSimpleGlyph(p, uint16(numberOfContours))
	default:
		return true, parseCompositeGlyph(p)
	}
}

func parseSimpleGlyph(p *Parser, numberOfContours uint16) error {
	var lastPoint uint16
	p.beginGroup("Endpoints")
	for i := uint16(0); i < numberOfContours; i++ {
		v, err := read[UInt16](p, p.intern("Endpoint "+p.indexLabel(uint32(i))))
		if err != nil {
			return err
		}
		lastPoint = uint16(v)
	}
	p.endGroup()

	instructionLength, err := read[UInt16](p, "Instructions size")
	if err != nil {
		return err
	}
	if instructionLength > 0 {
		if _, err := p.readBytes("Instructions", uint32(instructionLength)); err != nil {
			return err
		}
	}

	// The flag stream is run-length packed: a flag with the repeat bit
	// set is followed by a repeat count.
	p.beginGroup("Flags")
	var allFlags []simpleGlyphFlags
	totalPoints := int(lastPoint) + 1
	pointsLeft := totalPoints
	for pointsLeft > 0 {
		if err := p.step(1); err != nil {
			return err
		}
		flags, err := read[simpleGlyphFlags](p, "Flag")
		if err != nil {
			return err
		}
		allFlags = append(allFlags, flags)

		repeats := 1
		if uint8(flags)&glyfRepeatFlag != 0 {
			n, err := read[UInt8](p, "Number of repeats")
			if err != nil {
				return err
			}
			for i := uint8(0); i < uint8(n); i++ {
				allFlags = append(allFlags, flags)
			}
			repeats = int(n) + 1
		}
		pointsLeft -= repeats
	}
	p.endGroup()

	// X coordinates, then Y coordinates, each encoded per-flag as one
	// unsigned byte with a separate sign bit, a signed word, or nothing
	// at all ("same as previous").
	p.beginGroup("X-coordinates")
	for _, flags := range allFlags {
		f := uint8(flags)
		switch {
		case f&glyfXShortVector != 0:
			if _, err := read[UInt8](p, "Coordinate"); err != nil {
				return err
			}
		case f&glyfXIsSameOrPositive != 0:
			// Same as the previous coordinate; nothing stored.
		default:
			if _, err := read[Int16](p, "Coordinate"); err != nil {
				return err
			}
		}
	}
	p.endGroup()

	p.beginGroup("Y-coordinates")
	for _, flags := range allFlags {
		f := uint8(flags)
		switch {
		case f&glyfYShortVector != 0:
			if _, err := read[UInt8](p, "Coordinate"); err != nil {
				return err
			}
		case f&glyfYIsSameOrPositive != 0:
			// Same as the previous coordinate; nothing stored.
		default:
			if _, err := read[Int16](p, "Coordinate"); err != nil {
				return err
			}
		}
	}
	p.endGroup()
	return nil
}

// maxComponents bounds the composite component chain, which continues
// while the MORE_COMPONENTS bit is set.
const maxComponents = 512

func parseCompositeGlyph(p *Parser) error {
	haveInstructions := false
	for components := 0; ; components++ {
		if components >= maxComponents {
			return errInvalidValue
		}
		if err := p.step(1); err != nil {
			return err
		}
		flags, err := parseGlyphComponent(p)
		if err != nil {
			return err
		}
		if uint16(flags)&glyfWeHaveInstructions != 0 {
			haveInstructions = true
		}
		if uint16(flags)&glyfMoreComponents == 0 {
			break
		}
	}

	if haveInstructions {
		instructionLength, err := read[UInt16](p, "Instructions size")
		if err != nil {
			return err
		}
		if instructionLength > 0 {
			if _, err := p.readBytes("Instructions", uint32(instructionLength)); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseGlyphComponent reads one component record as a "Component" group
// whose value is the component's transformation matrix.
func parseGlyphComponent(p *Parser) (compositeGlyphFlags, error) {
	p.beginGroup("Component")
	flags, err := read[compositeGlyphFlags](p, "Flag")
	if err != nil {
		return 0, err
	}
	if _, err := read[GlyphID](p, "Glyph ID"); err != nil {
		return 0, err
	}

	var matrix [6]float64
	f := uint16(flags)
	if f&glyfArgsAreXYValues != 0 {
		if f&glyfArg1And2AreWords != 0 {
			e, err := read[Int16](p, "E")
			if err != nil {
				return 0, err
			}
			ff, err := read[Int16](p, "F")
			if err != nil {
				return 0, err
			}
			matrix[4], matrix[5] = float64(e), float64(ff)
		} else {
			e, err := read[Int8](p, "E")
			if err != nil {
				return 0, err
			}
			ff, err := read[Int8](p, "F")
			if err != nil {
				return 0, err
			}
			matrix[4], matrix[5] = float64(e), float64(ff)
		}
	} else {
		if f&glyfArg1And2AreWords != 0 {
			if _, err := read[UInt16](p, "Point 1"); err != nil {
				return 0, err
			}
			if _, err := read[UInt16](p, "Point 2"); err != nil {
				return 0, err
			}
		} else {
			if _, err := read[UInt8](p, "Point 1"); err != nil {
				return 0, err
			}
			if _, err := read[UInt8](p, "Point 2"); err != nil {
				return 0, err
			}
		}
	}

	switch {
	case f&glyfWeHaveATwoByTwo != 0:
		a, err := read[F2DOT14](p, "A")
		if err != nil {
			return 0, err
		}
		b, err := read[F2DOT14](p, "B")
		if err != nil {
			return 0, err
		}
		c, err := read[F2DOT14](p, "C")
		if err != nil {
			return 0, err
		}
		d, err := read[F2DOT14](p, "D")
		if err != nil {
			return 0, err
		}
		matrix[0], matrix[1], matrix[2], matrix[3] = float64(a), float64(b), float64(c), float64(d)
	case f&glyfWeHaveAnXAndYScale != 0:
		a, err := read[F2DOT14](p, "A")
		if err != nil {
			return 0, err
		}
		d, err := read[F2DOT14](p, "D")
		if err != nil {
			return 0, err
		}
		matrix[0], matrix[3] = float64(a), float64(d)
	case f&glyfWeHaveAScale != 0:
		a, err := read[F2DOT14](p, "A")
		if err != nil {
			return 0, err
		}
		matrix[0], matrix[3] = float64(a), float64(a)
	}

	p.endGroupTVT("", p.intern("Matrix ("+
		numString(matrix[0])+" "+numString(matrix[1])+" "+
		numString(matrix[2])+" "+numString(matrix[3])+" "+
		numString(matrix[4])+" "+numString(matrix[5])+")"), "")
	return flags, nil
}
