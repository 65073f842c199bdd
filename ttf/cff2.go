package ttf

import "sort"

// CFF2 DICT operators.
const (
	cff2OpBlueValues       = 6
	cff2OpOtherBlues       = 7
	cff2OpFamilyBlues      = 8
	cff2OpFamilyOtherBlues = 9
	cff2OpStdHW            = 10
	cff2OpStdVW            = 11
	cff2OpCharStrings      = 17
	cff2OpPrivate          = 18
	cff2OpSubrs            = 19
	cff2OpVSIndex          = 22
	cff2OpBlend            = 23
	cff2OpVStore           = 24

	cff2OpFontMatrix      = 1207
	cff2OpBlueScale       = 1209
	cff2OpBlueShift       = 1210
	cff2OpBlueFuzz        = 1211
	cff2OpStemSnapH       = 1212
	cff2OpStemSnapV       = 1213
	cff2OpLanguageGroup   = 1217
	cff2OpExpansionFactor = 1218
	cff2OpFDArray         = 1236
	cff2OpFDSelect        = 1237
)

func cff2OperatorName(op uint16) string {
	switch op {
	case cff2OpBlueValues:
		return "Blue values"
	case cff2OpOtherBlues:
		return "Other blues"
	case cff2OpFamilyBlues:
		return "Family blues"
	case cff2OpFamilyOtherBlues:
		return "Family other blues"
	case cff2OpStdHW:
		return "Std HW"
	case cff2OpStdVW:
		return "Std VW"
	case cff2OpCharStrings:
		return "CharStrings"
	case cff2OpPrivate:
		return "Private"
	case cff2OpSubrs:
		return "Local subroutines"
	case cff2OpVSIndex:
		return "Variation Store index"
	case cff2OpBlend:
		return "Blend"
	case cff2OpVStore:
		return "Variation Store offset"
	case cff2OpFontMatrix:
		return "Font matrix"
	case cff2OpBlueScale:
		return "Blue scale"
	case cff2OpBlueShift:
		return "Blue shift"
	case cff2OpBlueFuzz:
		return "Blue fuzz"
	case cff2OpStemSnapH:
		return "Stem snap H"
	case cff2OpStemSnapV:
		return "Stem snap V"
	case cff2OpLanguageGroup:
		return "Language group"
	case cff2OpExpansionFactor:
		return "Expansion factor"
	case cff2OpFDArray:
		return "Font DICT INDEX"
	case cff2OpFDSelect:
		return "FD select"
	default:
		return ""
	}
}

// parseCff2Index reads a CFF2 INDEX, which has a 32-bit count where CFF
// has a 16-bit one. Counts of 65535 and above are rejected as invalid.
func parseCff2Index(p *Parser, title string, f indexEntry) error {
	p.beginGroup(title)

	count, err := read[UInt32](p, "Count")
	if err != nil {
		return err
	}
	if count == 0 {
		p.endGroup()
		return nil
	}
	if uint32(count) >= 1<<16-1 {
		return errInvalidValue
	}

	offSize, err := read[offsetSize](p, "Offset size")
	if err != nil {
		return err
	}
	if !offSize.valid() {
		return errInvalidValue
	}

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

	for i := 1; i < len(offsets); i++ {
		// Offsets are 1-based.
		start := offsets[i-1]
		end := offsets[i]
		if start < 1 || end < 1 || start > end {
			return errInvalidValue
		}
		if start == end {
			continue
		}
		if err := runIndexEntry(p, start-1, end-1, uint32(i-1), f); err != nil {
			return err
		}
	}

	p.endGroup()
	return nil
}

func parseCff2(p *Parser, tableStart uint32) error {
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
	topDictSize, err := read[UInt16](p, "Length of Top DICT")
	if err != nil {
		return err
	}
	p.endGroup()

	if headerSize > 5 {
		if err := p.readPadding(uint32(headerSize) - 5); err != nil {
			return err
		}
	} else if headerSize < 5 {
		return errInvalidValue
	}

	p.beginGroup("Top DICT")
	topDict, err := parseDict(p, uint32(topDictSize), cff2OperatorName)
	if err != nil {
		return err
	}
	p.endGroup()

	err = parseCff2Index(p, "Global Subr INDEX", func(start, end, index uint32) error {
		return parseCharstring(p, start, end, index, cffVersion2)
	})
	if err != nil {
		return err
	}

	vstoreOffset, hasVStore, err := topDict.singleOffsetOperand(cff2OpVStore)
	if err != nil {
		return err
	}
	if hasVStore {
		if err := p.jumpTo(tableStart + vstoreOffset); err != nil {
			return err
		}
		p.beginGroup("Variation Store")
		if _, err := read[UInt16](p, "Variation Store size"); err != nil {
			return err
		}
		if err := parseItemVariationStore(p); err != nil {
			return err
		}
		p.endGroup()
	}

	charStringsOffset, hasCharStrings, err := topDict.singleOffsetOperand(cff2OpCharStrings)
	if err != nil {
		return err
	}
	if hasCharStrings {
		if err := p.jumpTo(tableStart + charStringsOffset); err != nil {
			return err
		}
		err := parseCff2Index(p, "CharStrings INDEX", func(start, end, index uint32) error {
			return parseCharstring(p, start, end, index, cffVersion2)
		})
		if err != nil {
			return err
		}
	}

	type dictRange struct {
		offset uint32
		size   uint32
	}
	var privateDictRanges []dictRange

	fdArrayOffset, hasFDArray, err := topDict.singleOffsetOperand(cff2OpFDArray)
	if err != nil {
		return err
	}
	if hasFDArray {
		if err := p.jumpTo(tableStart + fdArrayOffset); err != nil {
			return err
		}
		err := parseCff2Index(p, "Font DICT INDEX", func(start, end, index uint32) error {
			p.beginGroup(p.intern("DICT " + p.indexLabel(index)))
			dict, err := parseDict(p, end-start, cff2OperatorName)
			if err != nil {
				return err
			}
			p.endGroup()

			if operands, ok := dict.operands(cff2OpPrivate); ok {
				if len(operands) != 2 || operands[0] < 0 || operands[1] < 0 {
					return errInvalidValue
				}
				privateDictRanges = append(privateDictRanges, dictRange{
					offset: uint32(operands[1]),
					size:   uint32(operands[0]),
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	sort.SliceStable(privateDictRanges, func(i, j int) bool {
		return privateDictRanges[i].offset < privateDictRanges[j].offset
	})

	var subrsOffsets []uint32
	for _, r := range privateDictRanges {
		if err := p.jumpTo(tableStart + r.offset); err != nil {
			return err
		}
		p.beginGroup("Private DICT")
		privateDict, err := parseDict(p, r.size, cff2OperatorName)
		if err != nil {
			return err
		}
		p.endGroup()

		subrsOffset, hasSubrs, err := privateDict.singleOffsetOperand(cff2OpSubrs)
		if err != nil {
			return err
		}
		if hasSubrs {
			// The local subroutines offset is relative to the beginning
			// of the Private DICT data.
			subrsOffsets = append(subrsOffsets, tableStart+r.offset+subrsOffset)
		}
	}

	for _, offset := range subrsOffsets {
		if err := p.jumpTo(offset); err != nil {
			return err
		}
		err := parseCff2Index(p, "Local Subr INDEX", func(start, end, index uint32) error {
			return parseCharstring(p, start, end, index, cffVersion2)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
