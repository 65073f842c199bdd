package ttf

// headFlags is the 16-bit flag field of the font header, rendered as a
// bit list with one explanation line per set bit.
type headFlags uint16

func (v *headFlags) parse(b []byte) { *v = headFlags(be16(b)) }
func (v headFlags) width() uint32   { return 2 }
func (v headFlags) typeName() string { return TypeBitFlags }
func (v headFlags) render() string {
	f := uint16(v)
	var lines []string
	if bit16(f, 0) {
		lines = append(lines, "Bit 0: Baseline for font at y=0")
	}
	if bit16(f, 1) {
		lines = append(lines, "Bit 1: Left sidebearing point at x=0")
	}
	if bit16(f, 2) {
		lines = append(lines, "Bit 2: Instructions may depend on point size")
	}
	if bit16(f, 3) {
		lines = append(lines, "Bit 3: Force ppem to integer values")
	}
	if bit16(f, 4) {
		lines = append(lines, "Bit 4: Instructions may alter advance width")
	}
	if bit16(f, 5) {
		lines = append(lines, "Bit 5: (AAT only) Vertical layout")
	}
	// 6 - reserved
	if bit16(f, 7) {
		lines = append(lines, "Bit 7: (AAT only) Requires linguistic rendering")
	}
	if bit16(f, 8) {
		lines = append(lines, "Bit 8: (AAT only) Has metamorphosis effects")
	}
	if bit16(f, 9) {
		lines = append(lines, "Bit 9: (AAT only) Font contains strong right-to-left glyphs")
	}
	if bit16(f, 10) {
		lines = append(lines, "Bit 10: (AAT only) Font contains Indic-style rearrangement effects")
	}
	if bit16(f, 11) {
		lines = append(lines, "Bit 11: Font data is lossless")
	}
	if bit16(f, 12) {
		lines = append(lines, "Bit 12: Font converted")
	}
	if bit16(f, 13) {
		lines = append(lines, "Bit 13: Font optimized for ClearType")
	}
	if bit16(f, 14) {
		lines = append(lines, "Bit 14: Last Resort font")
	}
	// 15 - reserved
	return bitLines(bitPrefix16(f), lines)
}

// macStyleFlags is the head table's macStyle field.
type macStyleFlags uint16

func (v *macStyleFlags) parse(b []byte) { *v = macStyleFlags(be16(b)) }
func (v macStyleFlags) width() uint32   { return 2 }
func (v macStyleFlags) typeName() string { return TypeBitFlags }
func (v macStyleFlags) render() string {
	f := uint16(v)
	var lines []string
	if bit16(f, 0) {
		lines = append(lines, "Bit 0: Bold")
	}
	if bit16(f, 1) {
		lines = append(lines, "Bit 1: Italic")
	}
	if bit16(f, 2) {
		lines = append(lines, "Bit 2: Underline")
	}
	if bit16(f, 3) {
		lines = append(lines, "Bit 3: Outline")
	}
	if bit16(f, 4) {
		lines = append(lines, "Bit 4: Shadow")
	}
	if bit16(f, 5) {
		lines = append(lines, "Bit 5: Condensed")
	}
	if bit16(f, 6) {
		lines = append(lines, "Bit 6: Extended")
	}
	// 7-15 - reserved
	return bitLines(bitPrefix16(f), lines)
}

func parseHead(p *Parser) error {
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

	if _, err := read[Fixed](p, "Font revision"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Checksum adjustment"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Magic number"); err != nil {
		return err
	}
	if _, err := read[headFlags](p, "Flags"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Units per EM"); err != nil {
		return err
	}
	if _, err := read[LongDateTime](p, "Created"); err != nil {
		return err
	}
	if _, err := read[LongDateTime](p, "Modified"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "X min for all glyph bounding boxes"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Y min for all glyph bounding boxes"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "X max for all glyph bounding boxes"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Y max for all glyph bounding boxes"); err != nil {
		return err
	}
	if _, err := read[macStyleFlags](p, "Mac style"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Smallest readable size in pixels"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Font direction hint"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Index to location format"); err != nil {
		return err
	}
	_, err = read[Int16](p, "Glyph data format")
	return err
}
