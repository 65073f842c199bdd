package ttf

func parseMaxp(p *Parser) error {
	version, err := read[Fixed](p, "Version")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Number of glyphs"); err != nil {
		return err
	}

	if version == 0.3125 { // v0.5
		return nil
	}
	if version != 1.0 {
		return errInvalidTableVersion
	}

	fields := []string{
		"Maximum points in a non-composite glyph",
		"Maximum contours in a non-composite glyph",
		"Maximum points in a composite glyph",
		"Maximum contours in a composite glyph",
		"Maximum zones",
		"Maximum twilight points",
		"Number of Storage Area locations",
		"Number of FDEFs",
		"Number of IDEFs",
		"Maximum stack depth",
		"Maximum byte count for glyph instructions",
		"Maximum number of components",
		"Maximum levels of recursion",
	}
	for _, title := range fields {
		if _, err := read[UInt16](p, title); err != nil {
			return err
		}
	}
	return nil
}
