package ttf

import (
	"sort"
	"strconv"
)

// parseClassDefinitionTable reads an OpenType class-definition table:
// format 1 is a first-glyph plus per-glyph class array, format 2 a list
// of range records.
func parseClassDefinitionTable(p *Parser) error {
	format, err := read[UInt16](p, "Format")
	if err != nil {
		return err
	}
	switch format {
	case 1:
		if _, err := read[UInt16](p, "First glyph ID"); err != nil {
			return err
		}
		glyphCount, err := read[UInt16](p, "Number of classes")
		if err != nil {
			return err
		}
		for i := uint16(0); i < uint16(glyphCount); i++ {
			if _, err := read[UInt16](p, "Class"); err != nil {
				return err
			}
		}
		return nil
	case 2:
		rangeCount, err := read[UInt16](p, "Number of records")
		if err != nil {
			return err
		}
		for i := uint16(0); i < uint16(rangeCount); i++ {
			p.beginGroup("Class Range Record")
			first, err := read[UInt16](p, "First glyph ID")
			if err != nil {
				return err
			}
			last, err := read[UInt16](p, "Last glyph ID")
			if err != nil {
				return err
			}
			class, err := read[UInt16](p, "Class")
			if err != nil {
				return err
			}
			p.endGroupWith("", p.intern(
				strconv.FormatUint(uint64(first), 10)+".."+
					strconv.FormatUint(uint64(last), 10)+" "+
					strconv.FormatUint(uint64(class), 10)))
		}
		return nil
	default:
		return errInvalidValue
	}
}

// parseCoverageTable reads an OpenType coverage table: format 1 lists
// glyphs, format 2 lists range records.
func parseCoverageTable(p *Parser) error {
	format, err := read[UInt16](p, "Format")
	if err != nil {
		return err
	}
	switch format {
	case 1:
		glyphCount, err := read[UInt16](p, "Number of glyphs")
		if err != nil {
			return err
		}
		for i := uint16(0); i < uint16(glyphCount); i++ {
			if _, err := read[GlyphID](p, "Glyph"); err != nil {
				return err
			}
		}
		return nil
	case 2:
		rangeCount, err := read[UInt16](p, "Number of records")
		if err != nil {
			return err
		}
		for i := uint16(0); i < uint16(rangeCount); i++ {
			p.beginGroup("Range Record")
			first, err := read[UInt16](p, "First glyph ID")
			if err != nil {
				return err
			}
			last, err := read[UInt16](p, "Last glyph ID")
			if err != nil {
				return err
			}
			index, err := read[UInt16](p, "Coverage Index of first glyph ID")
			if err != nil {
				return err
			}
			p.endGroupWith("", p.intern(
				strconv.FormatUint(uint64(first), 10)+".."+
					strconv.FormatUint(uint64(last), 10)+" "+
					strconv.FormatUint(uint64(index), 10)))
		}
		return nil
	default:
		return errInvalidValue
	}
}

func parseGdef(p *Parser) error {
	start := p.offset()

	majorVersion, err := read[UInt16](p, "Major version")
	if err != nil {
		return err
	}
	minorVersion, err := read[UInt16](p, "Minor version")
	if err != nil {
		return err
	}
	glyphClassDefOffset, err := read[OptOffset16](p, "Offset to class definition table")
	if err != nil {
		return err
	}
	attachListOffset, err := read[OptOffset16](p, "Offset to attachment point list table")
	if err != nil {
		return err
	}
	if _, err := read[OptOffset16](p, "Offset to ligature caret list table"); err != nil {
		return err
	}
	markAttachClassDefOffset, err := read[OptOffset16](p, "Offset to class definition table for mark attachment type")
	if err != nil {
		return err
	}

	var markGlyphSetsDefOffset, varStoreOffset uint32
	if majorVersion == 1 && minorVersion == 2 {
		off, err := read[OptOffset16](p, "Offset to the table of mark glyph set definitions")
		if err != nil {
			return err
		}
		markGlyphSetsDefOffset = uint32(off)
	} else if majorVersion == 1 && minorVersion == 3 {
		off, err := read[OptOffset16](p, "Offset to the table of mark glyph set definitions")
		if err != nil {
			return err
		}
		markGlyphSetsDefOffset = uint32(off)
		off32, err := read[OptOffset32](p, "Offset to the Item Variation Store table")
		if err != nil {
			return err
		}
		varStoreOffset = uint32(off32)
	}

	// All subtable offsets are from the beginning of the GDEF header.
	type gdefOffset struct {
		kind   int
		offset uint32
	}
	const (
		kindGlyphClassDef = iota
		kindAttachList
		kindMarkAttachClassDef
		kindMarkGlyphSetsDef
		kindVarStore
	)
	offsets := []gdefOffset{
		{kindGlyphClassDef, uint32(glyphClassDefOffset)},
		{kindAttachList, uint32(attachListOffset)},
		{kindMarkAttachClassDef, uint32(markAttachClassDefOffset)},
		{kindMarkGlyphSetsDef, markGlyphSetsDefOffset},
		{kindVarStore, varStoreOffset},
	}
	sort.SliceStable(offsets, func(i, j int) bool {
		return offsets[i].offset < offsets[j].offset
	})

	for _, off := range offsets {
		if off.offset == 0 {
			continue
		}
		if err := p.advanceTo(start + off.offset); err != nil {
			return err
		}
		switch off.kind {
		case kindGlyphClassDef:
			p.beginGroup("Class Definition Table")
			if err := parseClassDefinitionTable(p); err != nil {
				return err
			}
			p.endGroup()
		case kindAttachList:
			if err := parseAttachmentPointList(p, start+uint32(attachListOffset)); err != nil {
				return err
			}
		case kindMarkAttachClassDef:
			p.beginGroup("Mark Attachment Class Definition Table")
			if err := parseClassDefinitionTable(p); err != nil {
				return err
			}
			p.endGroup()
		case kindMarkGlyphSetsDef:
			if err := parseMarkGlyphSets(p); err != nil {
				return err
			}
		case kindVarStore:
			p.beginGroup("Item Variation Store Table")
			if err := parseItemVariationStore(p); err != nil {
				return err
			}
			p.endGroup()
		}
	}
	return nil
}

func parseAttachmentPointList(p *Parser, listStart uint32) error {
	p.beginGroup("Attachment Point List Table")
	coverageOffset, err := read[Offset16](p, "Offset to Coverage table")
	if err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of glyphs with attachment points")
	if err != nil {
		return err
	}

	offsets := make([]uint32, 0, count)
	if count > 0 {
		p.beginGroup("Offsets to Attach Point tables")
		for i := uint16(0); i < uint16(count); i++ {
			off, err := read[Offset16](p, p.intern("Offset "+p.indexLabel(uint32(i))))
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
		}
		p.endGroup()
	}

	if err := p.advanceTo(listStart + uint32(coverageOffset)); err != nil {
		return err
	}
	p.beginGroup("Coverage Table")
	if err := parseCoverageTable(p); err != nil {
		return err
	}
	p.endGroup()

	if len(offsets) > 0 {
		sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
		offsets = dedupUint32(offsets)

		p.beginGroup("Attach Point Tables")
		for i, offset := range offsets {
			if err := p.advanceTo(listStart + offset); err != nil {
				return err
			}
			p.beginGroup(p.intern("Attach Point " + p.indexLabel(uint32(i))))
			pointCount, err := read[UInt16](p, "Number of attachment points")
			if err != nil {
				return err
			}
			for j := uint16(0); j < uint16(pointCount); j++ {
				if _, err := read[UInt16](p, "Contour point index"); err != nil {
					return err
				}
			}
			p.endGroup()
		}
		p.endGroup()
	}

	p.endGroup()
	return nil
}

func parseMarkGlyphSets(p *Parser) error {
	p.beginGroup("Mark Glyph Sets Table")
	start := p.offset()

	if _, err := read[UInt16](p, "Format"); err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of mark glyph sets")
	if err != nil {
		return err
	}

	if count != 0 {
		// The offset list may carry duplicates; each coverage table is
		// parsed once.
		offsets := make([]uint32, 0, count)
		err = p.readArray("Offsets to Mark Glyph Set Coverage Tables", uint32(count),
			func(index uint32) error {
				off, err := readIndexed[Offset32](p, index)
				if err != nil {
					return err
				}
				offsets = append(offsets, uint32(off))
				return nil
			})
		if err != nil {
			return err
		}
		sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
		offsets = dedupUint32(offsets)

		for _, offset := range offsets {
			if err := p.advanceTo(start + offset); err != nil {
				return err
			}
			p.beginGroup("Coverage Table")
			if err := parseCoverageTable(p); err != nil {
				return err
			}
			p.endGroup()
		}
	}

	p.endGroup()
	return nil
}
