package ttf

// Horizontal and vertical header/metrics tables. hhea and vhea expose
// the metric counts that hmtx and vmtx depend on; the dispatcher
// extracts those ahead of time with a shadow cursor.

func parseHhea(p *Parser) error {
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

	fields := []struct {
		title  string
		signed bool
	}{
		{"Typographic ascent", true},
		{"Typographic descent", true},
		{"Typographic line gap", true},
		{"Maximum advance width", false},
		{"Minimum left sidebearing", true},
		{"Minimum right sidebearing", true},
		{"Maximum X extent", true},
		{"Caret slope rise", true},
		{"Caret slope run", true},
		{"Caret offset", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Metric data format", true},
	}
	for _, f := range fields {
		if f.signed {
			if _, err := read[Int16](p, f.title); err != nil {
				return err
			}
		} else {
			if _, err := read[UInt16](p, f.title); err != nil {
				return err
			}
		}
	}
	_, err = read[UInt16](p, "Number of horizontal metrics")
	return err
}

func parseVhea(p *Parser) error {
	version, err := read[Fixed](p, "Version")
	if err != nil {
		return err
	}
	// 1.0625 actually means version 1.1; the two differ only in field
	// naming and we use the 1.1 names throughout.
	if version != 1.0 && version != 1.0625 {
		return errInvalidTableVersion
	}

	fields := []struct {
		title  string
		signed bool
	}{
		{"Vertical typographic ascender", true},
		{"Vertical typographic descender", true},
		{"Vertical typographic line gap", true},
		{"Maximum advance width", false},
		{"Minimum top sidebearing", true},
		{"Minimum bottom sidebearing", true},
		{"Maximum Y extent", true},
		{"Caret slope rise", true},
		{"Caret slope run", true},
		{"Caret offset", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Reserved", true},
		{"Metric data format", true},
	}
	for _, f := range fields {
		if f.signed {
			if _, err := read[Int16](p, f.title); err != nil {
				return err
			}
		} else {
			if _, err := read[UInt16](p, f.title); err != nil {
				return err
			}
		}
	}
	_, err = read[UInt16](p, "Number of vertical metrics")
	return err
}

func parseHmtx(p *Parser, numberOfMetrics, numberOfGlyphs uint16) error {
	return parseLongMetrics(p, numberOfMetrics, numberOfGlyphs,
		"Advance width", "Left side bearing")
}

func parseVmtx(p *Parser, numberOfMetrics, numberOfGlyphs uint16) error {
	return parseLongMetrics(p, numberOfMetrics, numberOfGlyphs,
		"Advance height", "Top side bearing")
}

// parseLongMetrics reads numberOfMetrics {advance, side bearing} pairs
// followed by lone side bearings for the remaining glyphs.
func parseLongMetrics(p *Parser, numberOfMetrics, numberOfGlyphs uint16, advanceTitle, bearingTitle string) error {
	for i := uint16(0); i < numberOfMetrics; i++ {
		p.beginGroup(p.glyphLabel(uint32(i)))
		if _, err := read[UInt16](p, advanceTitle); err != nil {
			return err
		}
		if _, err := read[Int16](p, bearingTitle); err != nil {
			return err
		}
		p.endGroup()
	}
	if numberOfGlyphs <= numberOfMetrics {
		return nil
	}
	for i := numberOfMetrics; i < numberOfGlyphs; i++ {
		p.beginGroup(p.glyphLabel(uint32(i)))
		if _, err := read[Int16](p, bearingTitle); err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}

// glyphLabel returns the interned "Glyph N" title.
func (p *Parser) glyphLabel(n uint32) string {
	return p.intern("Glyph " + p.indexLabel(n))
}
