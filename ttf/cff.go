package ttf

import "sort"

// CFF DICT operators.
const (
	cffOpVersion          = 0
	cffOpNotice           = 1
	cffOpFullName         = 2
	cffOpFamilyName       = 3
	cffOpWeight           = 4
	cffOpFontBBox         = 5
	cffOpBlueValues       = 6
	cffOpOtherBlues       = 7
	cffOpFamilyBlues      = 8
	cffOpFamilyOtherBlues = 9
	cffOpStdHW            = 10
	cffOpStdVW            = 11
	cffOpUniqueID         = 13
	cffOpXUID             = 14
	cffOpCharset          = 15
	cffOpEncoding         = 16
	cffOpCharStrings      = 17
	cffOpPrivate          = 18
	cffOpSubrs            = 19
	cffOpDefaultWidthX    = 20
	cffOpNominalWidthX    = 21

	cffOpCopyright         = 1200
	cffOpIsFixedPitch      = 1201
	cffOpItalicAngle       = 1202
	cffOpUnderlinePosition = 1203
	cffOpUnderlineThickness = 1204
	cffOpPaintType         = 1205
	cffOpCharStringType    = 1206
	cffOpFontMatrix        = 1207
	cffOpStrokeWidth       = 1208
	cffOpBlueScale         = 1209
	cffOpBlueShift         = 1210
	cffOpBlueFuzz          = 1211
	cffOpStemSnapH         = 1212
	cffOpStemSnapV         = 1213
	cffOpForceBold         = 1214
	cffOpLanguageGroup     = 1217
	cffOpExpansionFactor   = 1218
	cffOpInitialRandomSeed = 1219
	cffOpSyntheticBase     = 1220
	cffOpPostScript        = 1221
	cffOpBaseFontName      = 1222
	cffOpBaseFontBlend     = 1223
	cffOpROS               = 1230
	cffOpCIDFontVersion    = 1231
	cffOpCIDFontRevision   = 1232
	cffOpCIDFontType       = 1233
	cffOpCIDCount          = 1234
	cffOpUIDBase           = 1235
	cffOpFDArray           = 1236
	cffOpFDSelect          = 1237
	cffOpFontName          = 1238
)

func cffOperatorName(op uint16) string {
	switch op {
	case cffOpVersion:
		return "Version"
	case cffOpNotice:
		return "Notice"
	case cffOpFullName:
		return "Full name"
	case cffOpFamilyName:
		return "Family name"
	case cffOpWeight:
		return "Weight"
	case cffOpFontBBox:
		return "Font bbox"
	case cffOpBlueValues:
		return "Blue values"
	case cffOpOtherBlues:
		return "Other blues"
	case cffOpFamilyBlues:
		return "Family blues"
	case cffOpFamilyOtherBlues:
		return "Family other blues"
	case cffOpStdHW:
		return "Std HW"
	case cffOpStdVW:
		return "Std VW"
	case cffOpUniqueID:
		return "Unique ID"
	case cffOpXUID:
		return "XUID"
	case cffOpCharset:
		return "charset"
	case cffOpEncoding:
		return "Encoding"
	case cffOpCharStrings:
		return "CharStrings"
	case cffOpPrivate:
		return "Private"
	case cffOpSubrs:
		return "Local subroutines"
	case cffOpDefaultWidthX:
		return "Default width X"
	case cffOpNominalWidthX:
		return "Nominal width X"
	case cffOpCopyright:
		return "Copyright"
	case cffOpIsFixedPitch:
		return "Is fixed pitch"
	case cffOpItalicAngle:
		return "Italic angle"
	case cffOpUnderlinePosition:
		return "Underline position"
	case cffOpUnderlineThickness:
		return "Underline thickness"
	case cffOpPaintType:
		return "Paint type"
	case cffOpCharStringType:
		return "Charstring type"
	case cffOpFontMatrix:
		return "Font matrix"
	case cffOpStrokeWidth:
		return "Stroke width"
	case cffOpBlueScale:
		return "Blue scale"
	case cffOpBlueShift:
		return "Blue shift"
	case cffOpBlueFuzz:
		return "Blue fuzz"
	case cffOpStemSnapH:
		return "Stem snap H"
	case cffOpStemSnapV:
		return "Stem snap V"
	case cffOpForceBold:
		return "Force bold"
	case cffOpLanguageGroup:
		return "Language group"
	case cffOpExpansionFactor:
		return "Expansion factor"
	case cffOpInitialRandomSeed:
		return "Initial random seed"
	case cffOpSyntheticBase:
		return "Synthetic base"
	case cffOpPostScript:
		return "PostScript"
	case cffOpBaseFontName:
		return "Base font name"
	case cffOpBaseFontBlend:
		return "Base font blend"
	case cffOpROS:
		return "ROS"
	case cffOpCIDFontVersion:
		return "CID font version"
	case cffOpCIDFontRevision:
		return "CID font revision"
	case cffOpCIDFontType:
		return "CID font type"
	case cffOpCIDCount:
		return "CID count"
	case cffOpUIDBase:
		return "UID base"
	case cffOpFDArray:
		return "FD array"
	case cffOpFDSelect:
		return "FD select"
	case cffOpFontName:
		return "Font name"
	default:
		return ""
	}
}

// parseCffIndex reads a CFF INDEX: count, offset size, count+1 one-based
// offsets, then the packed entries, each handed to f in order.
func parseCffIndex(p *Parser, title, subtitle string, f indexEntry) error {
	p.beginGroup(title)

	count, err := read[UInt16](p, "Count")
	if err != nil {
		return err
	}
	if count == 0 {
		p.endGroup()
		return nil
	}

	offSize, err := read[offsetSize](p, "Offset size")
	if err != nil {
		return err
	}
	if !offSize.valid() {
		return errInvalidValue
	}

	// One extra offset at the end marks the data length.
	offsets := make([]uint32, 0, uint32(count)+1)
	err = p.readArray("Indexes", uint32(count)+1, func(index uint32) error {
		offset, err := readCffOffset(p, offSize, index)
		if err != nil {
			return err
		}
		offsets = append(offsets, offset)
		return nil
	})
	if err != nil {
		return err
	}

	err = p.readArray(subtitle, uint32(len(offsets)-1), func(index uint32) error {
		// Offsets are 1-based.
		start := offsets[index]
		end := offsets[index+1]
		if start < 1 || end < 1 || start > end {
			return errInvalidValue
		}
		if start == end {
			return nil
		}
		return runIndexEntry(p, start-1, end-1, index, f)
	})
	if err != nil {
		return err
	}

	p.endGroup()
	return nil
}

func readCffOffset(p *Parser, offSize offsetSize, index uint32) (uint32, error) {
	switch offSize {
	case 1:
		v, err := readIndexed[UInt8](p, index)
		return uint32(v), err
	case 2:
		v, err := readIndexed[UInt16](p, index)
		return uint32(v), err
	case 3:
		v, err := readIndexed[UInt24](p, index)
		return uint32(v), err
	default:
		v, err := readIndexed[UInt32](p, index)
		return uint32(v), err
	}
}

// parseCffCharset reads a charset; the glyph count comes from the
// CharStrings INDEX and `.notdef` is always omitted.
func parseCffCharset(p *Parser, numberOfGlyphs uint16) error {
	format, err := read[UInt8](p, "Format")
	if err != nil {
		return err
	}
	switch uint8(format) {
	case 0:
		return readBasicArray[UInt16](p, "Glyph Name Array", uint32(numberOfGlyphs)-1)
	case 1:
		left := int64(numberOfGlyphs) - 1
		for left > 0 {
			if err := p.step(1); err != nil {
				return err
			}
			p.beginGroup("Range")
			if _, err := read[UInt16](p, "First glyph"); err != nil {
				return err
			}
			n, err := read[UInt8](p, "Glyphs left")
			if err != nil {
				return err
			}
			left -= int64(n) + 1
			p.endGroup()
		}
		return nil
	case 2:
		// The same as format 1, but with 16-bit counts.
		left := int64(numberOfGlyphs) - 1
		for left > 0 {
			if err := p.step(1); err != nil {
				return err
			}
			p.beginGroup("Range")
			if _, err := read[UInt16](p, "First glyph"); err != nil {
				return err
			}
			n, err := read[UInt16](p, "Glyphs left")
			if err != nil {
				return err
			}
			left -= int64(n) + 1
			p.endGroup()
		}
		return nil
	default:
		return errInvalidValue
	}
}

func parseCff(p *Parser, tableStart uint32) error {
	p.beginGroup("Header")
	if _, err := read[UInt8](p, "Major version"); err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Minor version"); err != nil {
		return err
	}
	headerSize, err := read[UInt8](p, "Header size")
	if err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Absolute offset"); err != nil {
		return err
	}
	p.endGroup()

	if headerSize > 4 {
		if err := p.readPadding(uint32(headerSize) - 4); err != nil {
			return err
		}
	} else if headerSize < 4 {
		return errInvalidValue
	}

	err = parseCffIndex(p, "Name INDEX", "Names", func(start, end, index uint32) error {
		_, err := p.readUTF8String(p.indexLabel(index), end-start)
		return err
	})
	if err != nil {
		return err
	}

	var topDict cffDict
	err = parseCffIndex(p, "Top DICT INDEX", "Values", func(start, end, index uint32) error {
		if index != 0 {
			return errInvalidValue
		}
		var err error
		topDict, err = parseDict(p, end-start, cffOperatorName)
		return err
	})
	if err != nil {
		return err
	}

	err = parseCffIndex(p, "String INDEX", "Strings", func(start, end, index uint32) error {
		_, err := p.readUTF8String(p.indexLabel(index), end-start)
		return err
	})
	if err != nil {
		return err
	}

	err = parseCffIndex(p, "Global Subr INDEX", "Subrs", func(start, end, index uint32) error {
		return parseCharstring(p, start, end, index, cffVersion1)
	})
	if err != nil {
		return err
	}

	type cffOffset struct {
		kind   int
		offset uint32
	}
	const (
		kindCharset = iota
		kindCharStrings
		kindPrivateDict
	)
	var offsets []cffOffset

	charStringsOffset, hasCharStrings, err := topDict.singleOffsetOperand(cffOpCharStrings)
	if err != nil {
		return err
	}

	// "The number of glyphs is the value of the count field in the
	// CharStrings INDEX."
	var numberOfGlyphs uint16
	if hasCharStrings {
		s := p.shadowAll()
		if err := s.jumpTo(tableStart + charStringsOffset); err != nil {
			return err
		}
		n, err := sread[UInt16](&s)
		if err != nil {
			return err
		}
		numberOfGlyphs = uint16(n)
		offsets = append(offsets, cffOffset{kindCharStrings, tableStart + charStringsOffset})
	}

	charsetOffset, hasCharset, err := topDict.singleOffsetOperand(cffOpCharset)
	if err != nil {
		return err
	}
	// There is no charset when the glyph count is zero.
	if hasCharset && numberOfGlyphs > 0 {
		offsets = append(offsets, cffOffset{kindCharset, tableStart + charsetOffset})
	}

	var privateDictSize uint32
	if operands, ok := topDict.operands(cffOpPrivate); ok {
		if len(operands) != 2 || operands[0] < 0 || operands[1] < 0 {
			return errInvalidValue
		}
		privateDictSize = uint32(operands[0])
		offsets = append(offsets, cffOffset{kindPrivateDict, tableStart + uint32(operands[1])})
	}

	sort.SliceStable(offsets, func(i, j int) bool { return offsets[i].offset < offsets[j].offset })

	for _, off := range offsets {
		if off.offset == 0 {
			continue
		}
		if err := p.advanceTo(off.offset); err != nil {
			return err
		}
		switch off.kind {
		case kindCharset:
			p.beginGroup("Charsets")
			if err := parseCffCharset(p, numberOfGlyphs); err != nil {
				return err
			}
			p.endGroup()
		case kindCharStrings:
			err := parseCffIndex(p, "CharStrings INDEX", "CharStrings",
				func(start, end, index uint32) error {
					return parseCharstring(p, start, end, index, cffVersion1)
				})
			if err != nil {
				return err
			}
		case kindPrivateDict:
			p.beginGroup("Private DICT")
			privateDict, err := parseDict(p, privateDictSize, cffOperatorName)
			if err != nil {
				return err
			}
			p.endGroup()

			subrsOffset, hasSubrs, err := privateDict.singleOffsetOperand(cffOpSubrs)
			if err != nil {
				return err
			}
			if hasSubrs {
				// The local subroutines offset is relative to the
				// beginning of the Private DICT data.
				if err := p.advanceTo(off.offset + subrsOffset); err != nil {
					return err
				}
				err := parseCffIndex(p, "Local Subr INDEX", "Subrs",
					func(start, end, index uint32) error {
						return parseCharstring(p, start, end, index, cffVersion1)
					})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
