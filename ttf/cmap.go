package ttf

import (
	"sort"
	"strconv"
)

func cmapSubtableName(format uint16) string {
	switch format {
	case 0:
		return "Byte encoding table"
	case 2:
		return "High-byte mapping through table"
	case 4:
		return "Segment mapping to delta values"
	case 6:
		return "Trimmed table mapping"
	case 8:
		return "Mixed 16-bit and 32-bit coverage"
	case 10:
		return "Trimmed array"
	case 12:
		return "Segmented coverage"
	case 13:
		return "Many-to-one range mappings"
	case 14:
		return "Unicode variation sequences"
	default:
		return ""
	}
}

func parseCmap(p *Parser) error {
	tableStart := p.offset()

	version, err := read[UInt16](p, "Version")
	if err != nil {
		return err
	}
	if version != 0 {
		return errInvalidTableVersion
	}

	type encodingRecord struct {
		offset   uint32
		platform platformID
	}

	numberOfTables, err := read[UInt16](p, "Number of tables")
	if err != nil {
		return err
	}
	var records []encodingRecord
	err = p.readArray("Encoding Records", uint32(numberOfTables), func(index uint32) error {
		p.beginGroupIndexed(index)
		platform, err := read[platformID](p, "Platform ID")
		if err != nil {
			return err
		}
		encodingID, err := peek[UInt16](p)
		if err != nil {
			return err
		}
		if _, err := readRendered[UInt16](p, "Encoding ID",
			p.intern(encodingName(platform, uint16(encodingID)))); err != nil {
			return err
		}
		offset, err := read[Offset32](p, "Offset")
		if err != nil {
			return err
		}
		p.endGroup()
		records = append(records, encodingRecord{uint32(offset), platform})
		return nil
	})
	if err != nil {
		return err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].offset < records[j].offset
	})

	seen := false
	var lastOffset uint32
	for _, record := range records {
		if seen && record.offset == lastOffset {
			continue
		}
		seen, lastOffset = true, record.offset

		if err := p.advanceTo(tableStart + record.offset); err != nil {
			return err
		}
		p.beginGroup("")
		format, err := read[UInt16](p, "Format")
		if err != nil {
			return err
		}
		switch uint16(format) {
		case 0:
			err = parseCmapFormat0(p, record.platform)
		case 2:
			err = parseCmapFormat2(p, record.platform)
		case 4:
			err = parseCmapFormat4(p, record.platform)
		case 6:
			err = parseCmapFormat6(p, record.platform)
		case 8:
			err = parseCmapFormat8(p, record.platform)
		case 10:
			err = parseCmapFormat10(p, record.platform)
		case 12:
			err = parseCmapFormat12(p, record.platform)
		case 13:
			err = parseCmapFormat13(p, record.platform)
		case 14:
			err = parseCmapFormat14(p)
		}
		if err != nil {
			return err
		}
		p.endGroupWith(
			p.intern("Subtable "+strconv.FormatUint(uint64(format), 10)),
			cmapSubtableName(uint16(format)))
	}
	return nil
}

func parseCmapLanguage16(p *Parser, platform platformID) error {
	id, err := peek[UInt16](p)
	if err != nil {
		return err
	}
	_, err = readRendered[UInt16](p, "Language ID",
		p.intern(languageName(platform, uint16(id))))
	return err
}

func parseCmapLanguage32(p *Parser, platform platformID) error {
	id, err := peek[UInt32](p)
	if err != nil {
		return err
	}
	_, err = readRendered[UInt32](p, "Language ID",
		p.intern(languageName(platform, uint16(id))))
	return err
}

func parseCmapFormat0(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage16(p, platform); err != nil {
		return err
	}
	return readBasicArray[UInt8](p, "Glyphs", 256)
}

func parseCmapFormat2(p *Parser, platform platformID) error {
	tableStart := p.offset() - 2
	tableSize, err := read[UInt16](p, "Subtable size")
	if err != nil {
		return err
	}
	if err := parseCmapLanguage16(p, platform); err != nil {
		return err
	}

	var subHeadersCount uint16
	err = p.readArray("SubHeader Keys", 256, func(index uint32) error {
		key, err := readIndexed[UInt16](p, index)
		if err != nil {
			return err
		}
		if n := uint16(key) / 8; n > subHeadersCount {
			subHeadersCount = n
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = p.readArray("SubHeader Records", uint32(subHeadersCount)+1, func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[UInt16](p, "First valid low byte"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Number of valid low bytes"); err != nil {
			return err
		}
		if _, err := read[Int16](p, "ID delta"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "ID range offset"); err != nil {
			return err
		}
		p.endGroup()
		return nil
	})
	if err != nil {
		return err
	}

	// The tail is one flat glyph-index array; subarray ranges can
	// overlap, so they cannot be split apart safely.
	consumed := p.offset() - tableStart
	if uint32(tableSize) < consumed {
		return errInvalidValue
	}
	return readBasicArray[GlyphID](p, "Glyph index array", (uint32(tableSize)-consumed)/2)
}

func parseCmapFormat4(p *Parser, platform platformID) error {
	tableStart := p.offset() - 2
	tableSize, err := read[UInt16](p, "Subtable size")
	if err != nil {
		return err
	}
	if err := parseCmapLanguage16(p, platform); err != nil {
		return err
	}
	segCount2, err := read[UInt16](p, "2 × segCount")
	if err != nil {
		return err
	}
	segCount := uint32(segCount2) / 2
	if _, err := read[UInt16](p, "Search range"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Entry selector"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Range shift"); err != nil {
		return err
	}
	if err := readBasicArray[UInt16](p, "End Character Codes", segCount); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if err := readBasicArray[UInt16](p, "Start Character Codes", segCount); err != nil {
		return err
	}
	if err := readBasicArray[Int16](p, "Deltas", segCount); err != nil {
		return err
	}
	if err := readBasicArray[UInt16](p, "Offsets into Glyph Index Array", segCount); err != nil {
		return err
	}

	consumed := p.offset() - tableStart
	if uint32(tableSize) < consumed {
		return errInvalidValue
	}
	return readBasicArray[GlyphID](p, "Glyph Index Array", (uint32(tableSize)-consumed)/2)
}

func parseCmapFormat6(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage16(p, platform); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "First code"); err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of codes")
	if err != nil {
		return err
	}
	return readBasicArray[GlyphID](p, "Glyph Index Array", uint32(count))
}

func parseCmapFormat8(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage32(p, platform); err != nil {
		return err
	}
	if _, err := p.readBytes("Packed data", 8192); err != nil {
		return err
	}
	count, err := read[UInt32](p, "Number of groups")
	if err != nil {
		return err
	}
	return p.readArray("SequentialMapGroup Records", uint32(count), func(index uint32) error {
		return parseCmapMapGroup(p, index, "Starting glyph index")
	})
}

func parseCmapFormat10(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage32(p, platform); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "First code"); err != nil {
		return err
	}
	count, err := read[UInt32](p, "Number of codes")
	if err != nil {
		return err
	}
	return readBasicArray[GlyphID](p, "Glyph Index Array", uint32(count))
}

func parseCmapFormat12(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage32(p, platform); err != nil {
		return err
	}
	count, err := read[UInt32](p, "Number of groups")
	if err != nil {
		return err
	}
	return p.readArray("SequentialMapGroup Records", uint32(count), func(index uint32) error {
		return parseCmapMapGroup(p, index, "Starting glyph index")
	})
}

func parseCmapFormat13(p *Parser, platform platformID) error {
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Subtable size"); err != nil {
		return err
	}
	if err := parseCmapLanguage32(p, platform); err != nil {
		return err
	}
	count, err := read[UInt32](p, "Number of groups")
	if err != nil {
		return err
	}
	return p.readArray("ConstantMapGroup Records", uint32(count), func(index uint32) error {
		return parseCmapMapGroup(p, index, "Glyph index")
	})
}

func parseCmapMapGroup(p *Parser, index uint32, glyphTitle string) error {
	p.beginGroupIndexed(index)
	if _, err := read[UInt32](p, "First character code"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Last character code"); err != nil {
		return err
	}
	if _, err := read[UInt32](p, glyphTitle); err != nil {
		return err
	}
	p.endGroup()
	return nil
}

func parseCmapFormat14(p *Parser) error {
	tableStart := p.offset() - 2

	if _, err := read[UInt32](p, "Subtable size"); err != nil {
		return err
	}
	count, err := read[UInt32](p, "Number of records")
	if err != nil {
		return err
	}

	type uvsRecord struct {
		isDefault bool
		offset    uint32
	}
	var records []uvsRecord
	err = p.readArray("VariationSelector Records", uint32(count), func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[UInt24](p, "Variation selector"); err != nil {
			return err
		}
		defOffset, err := read[Offset32](p, "Offset to Default UVS Table")
		if err != nil {
			return err
		}
		nonDefOffset, err := read[Offset32](p, "Offset to Non-Default UVS Table")
		if err != nil {
			return err
		}
		p.endGroup()

		if defOffset != 0 {
			records = append(records, uvsRecord{true, tableStart + uint32(defOffset)})
		}
		if nonDefOffset != 0 {
			records = append(records, uvsRecord{false, tableStart + uint32(nonDefOffset)})
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].offset < records[j].offset
	})

	seen := false
	var lastOffset uint32
	for _, record := range records {
		if seen && record.offset == lastOffset {
			continue
		}
		seen, lastOffset = true, record.offset
		if err := p.advanceTo(record.offset); err != nil {
			return err
		}
		if record.isDefault {
			p.beginGroup("Default UVS table")
			rangeCount, err := read[UInt32](p, "Number of Unicode character ranges")
			if err != nil {
				return err
			}
			for i := uint32(0); i < uint32(rangeCount); i++ {
				if err := p.step(1); err != nil {
					return err
				}
				p.beginGroup("Unicode range")
				if _, err := read[UInt24](p, "First value in this range"); err != nil {
					return err
				}
				if _, err := read[UInt8](p, "Number of additional values"); err != nil {
					return err
				}
				p.endGroup()
			}
			p.endGroup()
		} else {
			p.beginGroup("Non-Default UVS table")
			mappingCount, err := read[UInt32](p, "Number of UVS Mappings")
			if err != nil {
				return err
			}
			for i := uint32(0); i < uint32(mappingCount); i++ {
				if err := p.step(1); err != nil {
					return err
				}
				p.beginGroup("UVS mapping")
				if _, err := read[UInt24](p, "Base Unicode value"); err != nil {
					return err
				}
				if _, err := read[GlyphID](p, "Glyph ID"); err != nil {
					return err
				}
				p.endGroup()
			}
			p.endGroup()
		}
	}
	return nil
}
