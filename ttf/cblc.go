package ttf

import "sort"

// cblcLocation is one {image format, byte range} entry collected from a
// bitmap location table, used by the matching data table to slice its
// image payload without re-parsing the directory.
type cblcLocation struct {
	imageFormat uint16
	start, end  uint32
}

// eblcBitmapFlags is the bitmap-size flag field of CBLC/EBLC/bloc.
type eblcBitmapFlags uint8

func (v *eblcBitmapFlags) parse(b []byte) { *v = eblcBitmapFlags(b[0]) }
func (v eblcBitmapFlags) width() uint32   { return 1 }
func (v eblcBitmapFlags) typeName() string { return TypeBitFlags }
func (v eblcBitmapFlags) render() string {
	f := uint8(v)
	var lines []string
	if bit8(f, 0) {
		lines = append(lines, "Bit 0: Horizontal")
	}
	if bit8(f, 1) {
		lines = append(lines, "Bit 1: Vertical")
	}
	return bitLines(bitPrefix8(f), lines)
}

func parseSbitLineMetrics(p *Parser) error {
	for _, title := range []string{
		"Ascender", "Descender",
	} {
		if _, err := read[Int8](p, title); err != nil {
			return err
		}
	}
	if _, err := read[UInt8](p, "Max width"); err != nil {
		return err
	}
	for _, title := range []string{
		"Caret slope numerator", "Caret slope denominator", "Caret offset",
		"Min origin SB", "Min advance SB", "Max before BL", "Min after BL",
	} {
		if _, err := read[Int8](p, title); err != nil {
			return err
		}
	}
	return p.readPadding(2)
}

func parseSbitSmallGlyphMetrics(p *Parser) error {
	if _, err := read[UInt8](p, "Height"); err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Width"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "X-axis bearing"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "Y-axis bearing"); err != nil {
		return err
	}
	_, err := read[UInt8](p, "Advance")
	return err
}

func parseSbitBigGlyphMetrics(p *Parser) error {
	if _, err := read[UInt8](p, "Height"); err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Width"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "Horizontal X-axis bearing"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "Horizontal Y-axis bearing"); err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Horizontal advance"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "Vertical X-axis bearing"); err != nil {
		return err
	}
	if _, err := read[Int8](p, "Vertical Y-axis bearing"); err != nil {
		return err
	}
	_, err := read[UInt8](p, "Vertical advance")
	return err
}

type cblcSubtableArray struct {
	offset         uint32
	numOfSubtables uint32
}

type cblcSubtableInfo struct {
	firstGlyph uint16
	lastGlyph  uint16
	offset     uint32
}

func parseCblc(p *Parser) error {
	start := p.offset()

	majorVersion, err := read[UInt16](p, "Major version")
	if err != nil {
		return err
	}
	minorVersion, err := read[UInt16](p, "Minor version")
	if err != nil {
		return err
	}
	// Some old Noto Emoji fonts carry a 2.0 version.
	if !((majorVersion == 2 || majorVersion == 3) && minorVersion == 0) {
		return errInvalidTableVersion
	}

	numSizes, err := read[UInt32](p, "Number of tables")
	if err != nil {
		return err
	}

	var arrays []cblcSubtableArray
	for i := uint32(0); i < uint32(numSizes); i++ {
		if err := p.step(1); err != nil {
			return err
		}
		p.beginGroup("Table")

		offset, err := read[Offset32](p, "Offset to index subtable")
		if err != nil {
			return err
		}
		if _, err := read[UInt32](p, "Index tables size"); err != nil {
			return err
		}
		numOfSubtables, err := read[UInt32](p, "Number of index subtables")
		if err != nil {
			return err
		}
		if _, err := read[UInt32](p, "Reserved"); err != nil {
			return err
		}

		p.beginGroup("Line metrics for horizontal text")
		if err := parseSbitLineMetrics(p); err != nil {
			return err
		}
		p.endGroup()

		p.beginGroup("Line metrics for vertical text")
		if err := parseSbitLineMetrics(p); err != nil {
			return err
		}
		p.endGroup()

		if _, err := read[GlyphID](p, "Lowest glyph index"); err != nil {
			return err
		}
		if _, err := read[GlyphID](p, "Highest glyph index"); err != nil {
			return err
		}
		if _, err := read[UInt8](p, "Horizontal pixels per em"); err != nil {
			return err
		}
		if _, err := read[UInt8](p, "Vertical pixels per em"); err != nil {
			return err
		}
		if _, err := read[UInt8](p, "Bit depth"); err != nil {
			return err
		}
		if _, err := read[eblcBitmapFlags](p, "Flags"); err != nil {
			return err
		}

		p.endGroup()

		arrays = append(arrays, cblcSubtableArray{uint32(offset), uint32(numOfSubtables)})
	}

	sortDedupCblcArrays(&arrays)

	var subtables []cblcSubtableInfo
	for _, array := range arrays {
		if err := p.jumpTo(start + array.offset); err != nil {
			return err
		}
		for i := uint32(0); i < array.numOfSubtables; i++ {
			if err := p.step(1); err != nil {
				return err
			}
			p.beginGroup("Index subtable array")
			firstGlyph, err := read[GlyphID](p, "First glyph ID")
			if err != nil {
				return err
			}
			lastGlyph, err := read[GlyphID](p, "Last glyph ID")
			if err != nil {
				return err
			}
			offset2, err := read[Offset32](p, "Additional offset to index subtable")
			if err != nil {
				return err
			}
			p.endGroup()

			subtables = append(subtables, cblcSubtableInfo{
				firstGlyph: uint16(firstGlyph),
				lastGlyph:  uint16(lastGlyph),
				offset:     start + array.offset + uint32(offset2),
			})
		}
	}

	sortDedupCblcSubtables(&subtables)

	for _, info := range subtables {
		if err := p.jumpTo(info.offset); err != nil {
			return err
		}
		p.beginGroup("Index subtable")
		indexFormat, err := read[UInt16](p, "Index format")
		if err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Image format"); err != nil {
			return err
		}
		if _, err := read[Offset32](p, "Offset to image data"); err != nil {
			return err
		}

		switch uint16(indexFormat) {
		case 1:
			count := uint32(info.lastGlyph) - uint32(info.firstGlyph) + 2
			if err := readBasicArray[Offset32](p, "Offsets", count); err != nil {
				return err
			}
		case 2:
			if _, err := read[UInt32](p, "Image size"); err != nil {
				return err
			}
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
		case 3:
			count := uint32(info.lastGlyph) - uint32(info.firstGlyph) + 2
			if err := readBasicArray[Offset16](p, "Offsets", count); err != nil {
				return err
			}
		case 4:
			numGlyphs, err := read[UInt32](p, "Number of glyphs")
			if err != nil {
				return err
			}
			for i := uint32(0); i <= uint32(numGlyphs); i++ {
				if err := p.step(1); err != nil {
					return err
				}
				if _, err := read[GlyphID](p, "Glyph ID"); err != nil {
					return err
				}
				if _, err := read[Offset16](p, "Offset"); err != nil {
					return err
				}
			}
		case 5:
			if _, err := read[UInt32](p, "Image size"); err != nil {
				return err
			}
			if err := parseSbitBigGlyphMetrics(p); err != nil {
				return err
			}
			numGlyphs, err := read[UInt32](p, "Number of glyphs")
			if err != nil {
				return err
			}
			if err := readBasicArray[GlyphID](p, "Glyphs", uint32(numGlyphs)); err != nil {
				return err
			}
		default:
			return errInvalidValue
		}

		p.endGroup()
	}
	return nil
}

func sortDedupCblcArrays(arrays *[]cblcSubtableArray) {
	a := *arrays
	sort.SliceStable(a, func(i, j int) bool { return a[i].offset < a[j].offset })
	out := a[:0]
	for i, v := range a {
		if i > 0 && v.offset == out[len(out)-1].offset {
			continue
		}
		out = append(out, v)
	}
	*arrays = out
}

func sortDedupCblcSubtables(subtables *[]cblcSubtableInfo) {
	s := *subtables
	sort.SliceStable(s, func(i, j int) bool { return s[i].offset < s[j].offset })
	out := s[:0]
	for i, v := range s {
		if i > 0 && v.offset == out[len(out)-1].offset {
			continue
		}
		out = append(out, v)
	}
	*subtables = out
}

// collectCblcLocations walks a bitmap location table with a read-only
// cursor and returns the {image format, range} entries the matching
// data table needs. Offsets in the result are relative to the data
// table start.
func collectCblcLocations(s *shadowParser) ([]cblcLocation, error) {
	var locations []cblcLocation

	start := s.offset()

	if err := sskip[UInt16](s); err != nil { // major version
		return nil, err
	}
	if err := sskip[UInt16](s); err != nil { // minor version
		return nil, err
	}

	numSizes, err := sread[UInt32](s)
	if err != nil {
		return nil, err
	}

	var arrays []cblcSubtableArray
	for i := uint32(0); i < uint32(numSizes); i++ {
		offset, err := sread[Offset32](s)
		if err != nil {
			return nil, err
		}
		if err := sskip[UInt32](s); err != nil { // index tables size
			return nil, err
		}
		numOfSubtables, err := sread[UInt32](s)
		if err != nil {
			return nil, err
		}
		if err := s.advance(36); err != nil {
			return nil, err
		}
		arrays = append(arrays, cblcSubtableArray{uint32(offset), uint32(numOfSubtables)})
	}

	sortDedupCblcArrays(&arrays)

	var subtables []cblcSubtableInfo
	for _, array := range arrays {
		if err := s.jumpTo(start + array.offset); err != nil {
			return nil, err
		}
		for i := uint32(0); i < array.numOfSubtables; i++ {
			firstGlyph, err := sread[GlyphID](s)
			if err != nil {
				return nil, err
			}
			lastGlyph, err := sread[GlyphID](s)
			if err != nil {
				return nil, err
			}
			offset2, err := sread[Offset32](s)
			if err != nil {
				return nil, err
			}
			subtables = append(subtables, cblcSubtableInfo{
				firstGlyph: uint16(firstGlyph),
				lastGlyph:  uint16(lastGlyph),
				offset:     start + array.offset + uint32(offset2),
			})
		}
	}

	sortDedupCblcSubtables(&subtables)

	for _, info := range subtables {
		if err := s.jumpTo(info.offset); err != nil {
			return nil, err
		}
		indexFormat, err := sread[UInt16](s)
		if err != nil {
			return nil, err
		}
		imageFormat, err := sread[UInt16](s)
		if err != nil {
			return nil, err
		}
		imageDataOffset, err := sread[Offset32](s)
		if err != nil {
			return nil, err
		}

		appendRuns := func(offsets []uint32) {
			sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
			offsets = dedupUint32(offsets)
			for i := 0; i+1 < len(offsets); i++ {
				locations = append(locations, cblcLocation{
					imageFormat: uint16(imageFormat),
					start:       offsets[i],
					end:         offsets[i+1],
				})
			}
		}

		switch uint16(indexFormat) {
		case 1:
			count := uint32(info.lastGlyph) - uint32(info.firstGlyph) + 2
			offsets := make([]uint32, 0, count)
			for i := uint32(0); i < count; i++ {
				off, err := sread[Offset32](s)
				if err != nil {
					return nil, err
				}
				offsets = append(offsets, uint32(imageDataOffset)+uint32(off))
			}
			appendRuns(offsets)
		case 2:
			imageSize, err := sread[UInt32](s)
			if err != nil {
				return nil, err
			}
			count := uint32(info.lastGlyph) - uint32(info.firstGlyph) + 1
			offset := uint32(imageDataOffset)
			for i := uint32(0); i < count; i++ {
				locations = append(locations, cblcLocation{
					imageFormat: uint16(imageFormat),
					start:       offset,
					end:         offset + uint32(imageSize),
				})
				offset += uint32(imageSize)
			}
		case 3:
			count := uint32(info.lastGlyph) - uint32(info.firstGlyph) + 2
			offsets := make([]uint32, 0, count)
			for i := uint32(0); i < count; i++ {
				off, err := sread[Offset16](s)
				if err != nil {
					return nil, err
				}
				offsets = append(offsets, uint32(imageDataOffset)+uint32(off))
			}
			appendRuns(offsets)
		case 4:
			numGlyphs, err := sread[UInt32](s)
			if err != nil {
				return nil, err
			}
			offsets := make([]uint32, 0, uint32(numGlyphs)+1)
			for i := uint32(0); i <= uint32(numGlyphs); i++ {
				if err := sskip[GlyphID](s); err != nil {
					return nil, err
				}
				off, err := sread[Offset16](s)
				if err != nil {
					return nil, err
				}
				offsets = append(offsets, uint32(imageDataOffset)+uint32(off))
			}
			appendRuns(offsets)
		case 5:
			imageSize, err := sread[UInt32](s)
			if err != nil {
				return nil, err
			}
			if err := s.advance(8); err != nil { // big glyph metrics
				return nil, err
			}
			numGlyphs, err := sread[UInt32](s)
			if err != nil {
				return nil, err
			}
			offsets := make([]uint32, 0, uint32(numGlyphs)+1)
			offset := uint32(imageDataOffset)
			for i := uint32(0); i <= uint32(numGlyphs); i++ {
				offsets = append(offsets, offset)
				offset += uint32(imageSize)
			}
			appendRuns(offsets)
		}
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].start < locations[j].start
	})
	return locations, nil
}
