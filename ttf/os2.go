package ttf

import "strconv"

// weightClass renders the usWeightClass field by name.
type weightClass uint16

func (v *weightClass) parse(b []byte) { *v = weightClass(be16(b)) }
func (v weightClass) width() uint32   { return 2 }
func (v weightClass) typeName() string { return TypeUInt16 }
func (v weightClass) render() string {
	var name string
	switch uint16(v) {
	case 100:
		name = "Thin"
	case 200:
		name = "Extra-light"
	case 300:
		name = "Light"
	case 400:
		name = "Normal"
	case 500:
		name = "Medium"
	case 600:
		name = "Semi-bold"
	case 700:
		name = "Bold"
	case 800:
		name = "Extra-bold"
	case 900:
		name = "Black"
	default:
		name = "Other"
	}
	return name + " (" + strconv.FormatUint(uint64(v), 10) + ")"
}

// widthClass renders the usWidthClass field by name.
type widthClass uint16

func (v *widthClass) parse(b []byte) { *v = widthClass(be16(b)) }
func (v widthClass) width() uint32   { return 2 }
func (v widthClass) typeName() string { return TypeUInt16 }
func (v widthClass) render() string {
	var name string
	switch uint16(v) {
	case 1:
		name = "Ultra-condensed"
	case 2:
		name = "Extra-condensed"
	case 3:
		name = "Condensed"
	case 4:
		name = "Semi-condensed"
	case 5:
		name = "Normal"
	case 6:
		name = "Semi-expanded"
	case 7:
		name = "Expanded"
	case 8:
		name = "Extra-expanded"
	case 9:
		name = "Ultra-expanded"
	default:
		name = "Invalid"
	}
	return name + " (" + strconv.FormatUint(uint64(v), 10) + ")"
}

// typeFlags is the fsType embedding-permissions field.
type typeFlags uint16

func (v *typeFlags) parse(b []byte) { *v = typeFlags(be16(b)) }
func (v typeFlags) width() uint32   { return 2 }
func (v typeFlags) typeName() string { return TypeBitFlags }
func (v typeFlags) render() string {
	f := uint16(v)
	var lines []string
	permissions := "Invalid"
	switch f & 0x000F {
	case 0:
		permissions = "Installable"
	case 2:
		permissions = "Restricted License"
	case 4:
		permissions = "Preview & Print"
	case 8:
		permissions = "Editable"
	}
	lines = append(lines, "Bits 0-3: Usage permissions: "+permissions)
	// 4-7 - reserved
	if bit16(f, 8) {
		lines = append(lines, "Bit 8: No subsetting")
	}
	if bit16(f, 9) {
		lines = append(lines, "Bit 9: Bitmap embedding only")
	}
	// 10-15 - reserved
	return bitLines(bitPrefix16(f), lines)
}

// fontSelectionFlags is the fsSelection field.
type fontSelectionFlags uint16

func (v *fontSelectionFlags) parse(b []byte) { *v = fontSelectionFlags(be16(b)) }
func (v fontSelectionFlags) width() uint32   { return 2 }
func (v fontSelectionFlags) typeName() string { return TypeBitFlags }
func (v fontSelectionFlags) render() string {
	f := uint16(v)
	var lines []string
	names := []string{
		"Italic", "Underscored", "Negative", "Outlined", "Overstruck",
		"Bold", "Regular", "Use typographic metrics", "WWS", "Oblique",
	}
	for i, name := range names {
		if bit16(f, uint(i)) {
			lines = append(lines, "Bit "+strconv.Itoa(i)+": "+name)
		}
	}
	// 10-15 - reserved
	return bitLines(bitPrefix16(f), lines)
}

func parseOS2(p *Parser) error {
	version, err := read[UInt16](p, "Version")
	if err != nil {
		return err
	}

	if _, err := read[Int16](p, "Average weighted escapement"); err != nil {
		return err
	}
	if _, err := read[weightClass](p, "Weight class"); err != nil {
		return err
	}
	if _, err := read[widthClass](p, "Width class"); err != nil {
		return err
	}
	if _, err := read[typeFlags](p, "Type flags"); err != nil {
		return err
	}
	for _, title := range []string{
		"Subscript horizontal font size",
		"Subscript vertical font size",
		"Subscript X offset",
		"Subscript Y offset",
		"Superscript horizontal font size",
		"Superscript vertical font size",
		"Superscript X offset",
		"Superscript Y offset",
		"Strikeout size",
		"Strikeout position",
		"Font-family class",
	} {
		if _, err := read[Int16](p, title); err != nil {
			return err
		}
	}

	p.beginGroup("panose")
	for _, title := range []string{
		"Family type", "Serif style", "Weight", "Proportion", "Contrast",
		"Stroke variation", "Arm style", "Letterform", "Midline", "x height",
	} {
		if _, err := read[UInt8](p, title); err != nil {
			return err
		}
	}
	p.endGroup()

	for _, title := range []string{
		"Unicode Character Range 1",
		"Unicode Character Range 2",
		"Unicode Character Range 3",
		"Unicode Character Range 4",
	} {
		if _, err := read[UInt32](p, title); err != nil {
			return err
		}
	}
	if _, err := read[Tag](p, "Font Vendor Identification"); err != nil {
		return err
	}
	if _, err := read[fontSelectionFlags](p, "Font selection flags"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "The minimum Unicode index"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "The maximum Unicode index"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Typographic ascender"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Typographic descender"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Typographic line gap"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Windows ascender"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Windows descender"); err != nil {
		return err
	}

	if version == 0 {
		return nil
	}

	if _, err := read[UInt32](p, "Code Page Character Range 1"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Code Page Character Range 2"); err != nil {
		return err
	}

	if version < 2 {
		return nil
	}

	if _, err := read[Int16](p, "x height"); err != nil {
		return err
	}
	if _, err := read[Int16](p, "Capital height"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Default character"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Break character"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "The maximum glyph context"); err != nil {
		return err
	}

	if version < 5 {
		return nil
	}

	if _, err := read[UInt16](p, "Lower optical point size"); err != nil {
		return err
	}
	_, err = read[UInt16](p, "Upper optical point size")
	return err
}
