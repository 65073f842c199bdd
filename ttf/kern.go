package ttf

import (
	"sort"
	"strconv"
)

// otKernCoverage is the coverage byte of an OpenType kern subtable.
type otKernCoverage uint8

func (v *otKernCoverage) parse(b []byte) { *v = otKernCoverage(b[0]) }
func (v otKernCoverage) width() uint32   { return 1 }
func (v otKernCoverage) typeName() string { return TypeBitFlags }
func (v otKernCoverage) render() string {
	f := uint8(v)
	var lines []string
	if bit8(f, 0) {
		lines = append(lines, "Bit 0: Horizontal")
	}
	if bit8(f, 1) {
		lines = append(lines, "Bit 1: Has minimum values")
	}
	if bit8(f, 2) {
		lines = append(lines, "Bit 2: Cross-stream")
	}
	if bit8(f, 3) {
		lines = append(lines, "Bit 3: Override")
	}
	// 4-7 - reserved
	return bitLines(bitPrefix8(f), lines)
}

// appleKernCoverage is the coverage byte of an Apple kern subtable.
type appleKernCoverage uint8

func (v *appleKernCoverage) parse(b []byte) { *v = appleKernCoverage(b[0]) }
func (v appleKernCoverage) width() uint32   { return 1 }
func (v appleKernCoverage) typeName() string { return TypeBitFlags }
func (v appleKernCoverage) render() string {
	f := uint8(v)
	var lines []string
	// 0-4 - reserved
	if bit8(f, 5) {
		lines = append(lines, "Bit 5: Has variation")
	}
	if bit8(f, 6) {
		lines = append(lines, "Bit 6: Cross-stream")
	}
	if bit8(f, 7) {
		lines = append(lines, "Bit 7: Vertical")
	}
	return bitLines(bitPrefix8(f), lines)
}

// kernEntryFlags is a state-machine entry: a state offset in the low
// bits plus action flags.
type kernEntryFlags uint16

func (v *kernEntryFlags) parse(b []byte) { *v = kernEntryFlags(be16(b)) }
func (v kernEntryFlags) width() uint32   { return 2 }
func (v kernEntryFlags) typeName() string { return TypeBitFlags }
func (v kernEntryFlags) render() string {
	f := uint16(v)
	s := "Offset " + strconv.FormatUint(uint64(f&0x3FFF), 10) + "\n" + bitPrefix16(f)
	if bit16(f, 15) {
		s += "\nBit 15: Push onto the kerning stack"
	}
	return s
}

// kernAction is one state-machine action value.
type kernAction uint16

func (v *kernAction) parse(b []byte) { *v = kernAction(be16(b)) }
func (v kernAction) width() uint32   { return 2 }
func (v kernAction) typeName() string { return "Action" }
func (v kernAction) render() string {
	switch uint16(v) {
	case 0x0001:
		return "Kerning 0. End of List."
	case 0x8001:
		return "Reset cross-stream. End of List."
	default:
		return "Kerning " + strconv.FormatInt(int64(int16(v)), 10)
	}
}

// parseKern distinguishes the OpenType and Apple dialects of the kern
// table. There is no robust marker; the OpenType header starts with a
// 16-bit zero version, the Apple one with the Fixed version 1.0.
func parseKern(p *Parser) error {
	version, err := peek[UInt16](p)
	if err != nil {
		return err
	}
	if version == 0 {
		return parseKernOpenType(p)
	}
	return parseKernApple(p)
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/kern
func parseKernOpenType(p *Parser) error {
	if _, err := read[UInt16](p, "Version"); err != nil {
		return err
	}
	numberOfTables, err := read[UInt16](p, "Number of tables")
	if err != nil {
		return err
	}
	return p.readArray("Subtables", uint32(numberOfTables), func(index uint32) error {
		subtableStart := p.offset()

		p.beginGroupIndexed(index)
		if _, err := read[UInt16](p, "Version"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Length"); err != nil {
			return err
		}
		format, err := read[UInt8](p, "Format")
		if err != nil {
			return err
		}
		if _, err := read[otKernCoverage](p, "Coverage"); err != nil {
			return err
		}

		switch uint8(format) {
		case 0:
			if err := parseKernFormat0(p); err != nil {
				return err
			}
		case 2:
			if err := parseKernFormat2(p, subtableStart); err != nil {
				return err
			}
		default:
			return errInvalidValue
		}

		p.endGroupWith("", p.intern("Format "+p.indexLabel(uint32(format))))
		return nil
	})
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6kern.html
func parseKernApple(p *Parser) error {
	if _, err := read[Fixed](p, "Version"); err != nil {
		return err
	}
	numberOfTables, err := read[UInt32](p, "Number of tables")
	if err != nil {
		return err
	}
	return p.readArray("Subtables", uint32(numberOfTables), func(index uint32) error {
		subtableStart := p.offset()

		p.beginGroupIndexed(index)
		length, err := read[UInt32](p, "Length")
		if err != nil {
			return err
		}
		// The coverage and format order is inverted relative to the
		// OpenType dialect.
		if _, err := read[appleKernCoverage](p, "Coverage"); err != nil {
			return err
		}
		format, err := read[UInt8](p, "Format")
		if err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Tuple index"); err != nil {
			return err
		}

		switch uint8(format) {
		case 0:
			if err := parseKernFormat0(p); err != nil {
				return err
			}
		case 1:
			if err := parseKernFormat1(p, uint32(length)); err != nil {
				return err
			}
		case 2:
			if err := parseKernFormat2(p, subtableStart); err != nil {
				return err
			}
		case 3:
			if err := parseKernFormat3(p, subtableStart, uint32(length)); err != nil {
				return err
			}
		default:
			return errInvalidValue
		}

		p.endGroupWith("", p.intern("Format "+p.indexLabel(uint32(format))))
		return nil
	})
}

func parseKernFormat0(p *Parser) error {
	count, err := read[UInt16](p, "Number of kerning pairs")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Search range"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Entry selector"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Range shift"); err != nil {
		return err
	}

	return p.readArray("Values", uint32(count), func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[GlyphID](p, "Left"); err != nil {
			return err
		}
		if _, err := read[GlyphID](p, "Right"); err != nil {
			return err
		}
		if _, err := read[Int16](p, "Value"); err != nil {
			return err
		}
		p.endGroup()
		return nil
	})
}

// kernStateEntry is one raw {new state, flags} entry of the format 1
// state machine.
type kernStateEntry struct {
	newState uint16
	flags    uint16
}

// detectNumberOfKernEntries derives the number of state-machine entries
// of a format 1 subtable. The count is not stored; it is found by
// sweeping the reachable positive and negative states from state 0 and
// following entry next-state offsets until a fixed point. Malformed
// subtables can diverge, so every pass burns operation budget.
func detectNumberOfKernEntries(p *Parser, numberOfClasses int32, stateArrayOffset uint16,
	states []byte, entries []kernStateEntry) (uint32, error) {

	if numberOfClasses <= 0 {
		return 0, errInvalidStateMachine
	}

	var minState, maxState int32
	var numEntries uint32

	var statePos, stateNeg int32
	var entry uint32
	for minState < stateNeg || statePos <= maxState {
		if minState < stateNeg {
			// Negative states.
			if err := p.step(int64(stateNeg - minState)); err != nil {
				return 0, errInvalidStateMachine
			}

			end := minState * numberOfClasses
			if end > 0 {
				for i := end - 1; i >= 0; i-- {
					if int(i)-1 >= len(states) || i < 1 {
						return 0, errInvalidStateMachine
					}
					if n := uint32(states[i-1]) + 1; n > numEntries {
						numEntries = n
					}
				}
			}
			stateNeg = minState
		}

		if statePos <= maxState {
			// Positive states.
			if err := p.step(int64(maxState - statePos + 1)); err != nil {
				return 0, errInvalidStateMachine
			}

			start := statePos * numberOfClasses
			end := (maxState + 1) * numberOfClasses
			for i := start; i < end; i++ {
				if i < 0 || int(i) >= len(states) {
					return 0, errInvalidStateMachine
				}
				if n := uint32(states[i]) + 1; n > numEntries {
					numEntries = n
				}
			}
			statePos = maxState + 1
		}

		if err := p.step(int64(numEntries-entry) + 1); err != nil {
			return 0, errInvalidStateMachine
		}

		// Sweep new entries.
		for i := entry; i < numEntries; i++ {
			if int(i) >= len(entries) {
				return 0, errInvalidStateMachine
			}
			newState := (int32(entries[i].newState) - int32(stateArrayOffset)) / numberOfClasses
			if newState < minState {
				minState = newState
			}
			if newState > maxState {
				maxState = newState
			}
		}
		entry = numEntries
	}

	return numEntries, nil
}

// parseKernFormat1 reads the AAT contextual-kerning state machine. The
// layout follows HarfBuzz's interpretation; the format is otherwise
// only loosely documented.
func parseKernFormat1(p *Parser, subtableSize uint32) error {
	start := p.offset()
	shadow := p.shadow()

	numberOfClasses, err := read[UInt16](p, "Number of classes")
	if err != nil {
		return err
	}
	// Offsets are not from the subtable start but from the subtable
	// start plus the 8-byte header.
	classTableOffset, err := read[Offset16](p, "Offset to class subtable")
	if err != nil {
		return err
	}
	stateArrayOffset, err := read[Offset16](p, "Offset to state array")
	if err != nil {
		return err
	}
	entryTableOffset, err := read[Offset16](p, "Offset to entry table")
	if err != nil {
		return err
	}
	valuesOffset, err := read[Offset16](p, "Offset to values")
	if err != nil {
		return err
	}

	// Random section order is not supported.
	if !(classTableOffset < stateArrayOffset &&
		stateArrayOffset < entryTableOffset &&
		entryTableOffset < valuesOffset) {
		return errInvalidStateMachine
	}
	if subtableSize < uint32(valuesOffset) || subtableSize < 8 {
		return errInvalidStateMachine
	}

	var numberOfEntries uint32
	{
		// The state array's length is unknown up front; sweep all data
		// from its offset to the end of the subtable.
		s1 := shadow
		if err := s1.advanceTo(uint32(stateArrayOffset)); err != nil {
			return errInvalidStateMachine
		}
		states, err := s1.readBytes(subtableSize - uint32(stateArrayOffset))
		if err != nil {
			return errInvalidStateMachine
		}

		s2 := shadow
		if err := s2.advanceTo(uint32(entryTableOffset)); err != nil {
			return errInvalidStateMachine
		}
		entriesCount := (subtableSize - uint32(entryTableOffset)) / 4
		entries := make([]kernStateEntry, 0, entriesCount)
		for i := uint32(0); i < entriesCount; i++ {
			newState, err := sread[UInt16](&s2)
			if err != nil {
				return errInvalidStateMachine
			}
			flags, err := sread[UInt16](&s2)
			if err != nil {
				return errInvalidStateMachine
			}
			entries = append(entries, kernStateEntry{uint16(newState), uint16(flags)})
		}

		numberOfEntries, err = detectNumberOfKernEntries(p,
			int32(numberOfClasses), uint16(stateArrayOffset), states, entries)
		if err != nil {
			return err
		}
	}

	if err := p.padTo(start + uint32(classTableOffset)); err != nil {
		return err
	}
	p.beginGroup("Class Subtable")
	if _, err := read[GlyphID](p, "First glyph"); err != nil {
		return err
	}
	numberOfGlyphs, err := read[UInt16](p, "Number of glyphs")
	if err != nil {
		return err
	}
	if err := readBasicArray[UInt8](p, "Classes", uint32(numberOfGlyphs)); err != nil {
		return err
	}
	p.endGroup()

	if err := p.padTo(start + uint32(stateArrayOffset)); err != nil {
		return err
	}
	// The entry table is assumed to start right after the state array.
	arraysCount := (uint32(entryTableOffset) - uint32(stateArrayOffset)) / uint32(numberOfClasses)
	err = p.readArray("State Array", arraysCount, func(uint32) error {
		_, err := p.readBytes("Data", uint32(numberOfClasses))
		return err
	})
	if err != nil {
		return err
	}

	if err := p.padTo(start + uint32(entryTableOffset)); err != nil {
		return err
	}
	err = p.readArray("Entries", numberOfEntries, func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[Offset16](p, "State offset"); err != nil {
			return err
		}
		if _, err := read[kernEntryFlags](p, "Flags"); err != nil {
			return err
		}
		p.endGroup()
		return nil
	})
	if err != nil {
		return err
	}

	if err := p.padTo(start + uint32(valuesOffset)); err != nil {
		return err
	}
	consumed := p.offset() - start
	if subtableSize < 8 || subtableSize-8 < consumed {
		return errInvalidStateMachine
	}
	numberOfActions := (subtableSize - 8 - consumed) / 2
	return readBasicArray[kernAction](p, "Actions", numberOfActions)
}

// detectKernFormat2Classes counts the distinct classes of a format 2
// class table, which the kerning-array size depends on.
func detectKernFormat2Classes(shadow shadowParser, offset uint32) (uint32, error) {
	s := shadow
	if err := s.advanceTo(offset); err != nil {
		return 0, err
	}
	if err := sskip[GlyphID](&s); err != nil {
		return 0, err
	}
	count, err := sread[UInt16](&s)
	if err != nil {
		return 0, err
	}
	classes := map[uint16]struct{}{}
	for i := uint16(0); i < uint16(count); i++ {
		class, err := sread[UInt16](&s)
		if err != nil {
			return 0, err
		}
		classes[uint16(class)] = struct{}{}
	}
	return uint32(len(classes)), nil
}

func parseKernFormat2(p *Parser, subtableStart uint32) error {
	shadow := p.shadow()
	headerSize := p.offset() - subtableStart

	if _, err := read[UInt16](p, "Row width in bytes"); err != nil {
		return err
	}
	leftHandTableOffset, err := read[Offset16](p, "Offset to left-hand class table")
	if err != nil {
		return err
	}
	rightHandTableOffset, err := read[Offset16](p, "Offset to right-hand class table")
	if err != nil {
		return err
	}
	arrayOffset, err := read[Offset16](p, "Offset to kerning array")
	if err != nil {
		return err
	}

	if uint32(leftHandTableOffset) < headerSize || uint32(rightHandTableOffset) < headerSize {
		return errInvalidValue
	}
	rows, err := detectKernFormat2Classes(shadow, uint32(leftHandTableOffset)-headerSize)
	if err != nil {
		return err
	}
	columns, err := detectKernFormat2Classes(shadow, uint32(rightHandTableOffset)-headerSize)
	if err != nil {
		return err
	}

	type kernOffset struct {
		kind   int
		offset uint32
	}
	const (
		kindLeftHand = iota
		kindRightHand
		kindArray
	)
	offsets := []kernOffset{
		{kindLeftHand, uint32(leftHandTableOffset)},
		{kindRightHand, uint32(rightHandTableOffset)},
		{kindArray, uint32(arrayOffset)},
	}
	sort.SliceStable(offsets, func(i, j int) bool { return offsets[i].offset < offsets[j].offset })

	for _, off := range offsets {
		if off.offset == 0 {
			continue
		}
		if err := p.advanceTo(subtableStart + off.offset); err != nil {
			return err
		}
		switch off.kind {
		case kindLeftHand, kindRightHand:
			title := "Left-hand Class Table"
			if off.kind == kindRightHand {
				title = "Right-hand Class Table"
			}
			p.beginGroup(title)
			if _, err := read[GlyphID](p, "First glyph"); err != nil {
				return err
			}
			count, err := read[UInt16](p, "Number of glyphs")
			if err != nil {
				return err
			}
			if err := readBasicArray[UInt16](p, "Classes", uint32(count)); err != nil {
				return err
			}
			p.endGroup()
		case kindArray:
			if err := readBasicArray[Int16](p, "Kerning Values", rows*columns); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseKernFormat3(p *Parser, subtableStart, subtableSize uint32) error {
	glyphCount, err := read[UInt16](p, "Number of glyphs")
	if err != nil {
		return err
	}
	kernValues, err := read[UInt8](p, "Number of kerning values")
	if err != nil {
		return err
	}
	leftHandClasses, err := read[UInt8](p, "Number of left-hand classes")
	if err != nil {
		return err
	}
	rightHandClasses, err := read[UInt8](p, "Number of right-hand classes")
	if err != nil {
		return err
	}
	if _, err := read[UInt8](p, "Reserved"); err != nil {
		return err
	}

	if err := readBasicArray[Int16](p, "Kerning Values", uint32(kernValues)); err != nil {
		return err
	}
	if err := readBasicArray[UInt8](p, "Left-hand Classes", uint32(glyphCount)); err != nil {
		return err
	}
	if err := readBasicArray[UInt8](p, "Right-hand Classes", uint32(glyphCount)); err != nil {
		return err
	}
	if err := readBasicArray[UInt8](p, "Indices",
		uint32(leftHandClasses)*uint32(rightHandClasses)); err != nil {
		return err
	}

	consumed := p.offset() - subtableStart
	if subtableSize < consumed {
		return errInvalidValue
	}
	return p.readPadding(subtableSize - consumed)
}
