package ttf

import "sort"

// AAT lookup tables come in five formats that all converge on a sorted
// list of sub-resource offsets.

// parseAatBinarySearchTable reads the binary-search header shared by
// lookup formats 2, 4 and 6, then hands each segment to f.
func parseAatBinarySearchTable(p *Parser, format uint16, f func(index uint32) error) error {
	p.beginGroup("Binary Search Table")
	if _, err := read[UInt16](p, "Segment size"); err != nil {
		return err
	}
	n, err := read[UInt16](p, "Number of segments")
	if err != nil {
		return err
	}
	numberOfSegments := uint32(n)
	if _, err := read[UInt16](p, "Search range"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Entry selector"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Range shift"); err != nil {
		return err
	}

	if numberOfSegments < 2 {
		p.endGroup()
		return nil
	}

	// Not specified in the spec, but present in all Apple fonts: a
	// format 6 table carries one extra terminating segment.
	if format == 6 {
		numberOfSegments++
	}

	if err := p.readArray("Segments", numberOfSegments, f); err != nil {
		return err
	}
	p.endGroup()
	return nil
}

// parseAatLookup reads a lookup table and returns the sorted offsets it
// refers to.
func parseAatLookup(p *Parser, numberOfGlyphs uint16) ([]uint32, error) {
	start := p.offset()

	var offsets []uint32

	p.beginGroup("Lookup Table")
	format, err := read[UInt16](p, "Format")
	if err != nil {
		return nil, err
	}
	switch uint16(format) {
	case 0:
		err = p.readArray("Offsets", uint32(numberOfGlyphs), func(index uint32) error {
			off, err := readIndexed[Offset16](p, index)
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
			return nil
		})
		if err != nil {
			return nil, err
		}
	case 2:
		err = parseAatBinarySearchTable(p, 2, func(index uint32) error {
			p.beginGroupIndexed(index)
			last, err := read[UInt16](p, "Last glyph")
			if err != nil {
				return err
			}
			if _, err := read[UInt16](p, "First glyph"); err != nil {
				return err
			}
			offset, err := read[Offset16](p, "Offset")
			if err != nil {
				return err
			}
			p.endGroup()

			if last == 0xFFFF {
				return nil
			}
			offsets = append(offsets, uint32(offset))
			return nil
		})
		if err != nil {
			return nil, err
		}
	case 4:
		type segmentData struct {
			offset uint32
			count  uint32
		}
		var segments []segmentData
		err = parseAatBinarySearchTable(p, 4, func(index uint32) error {
			p.beginGroupIndexed(index)
			last, err := read[UInt16](p, "Last glyph")
			if err != nil {
				return err
			}
			first, err := read[UInt16](p, "First glyph")
			if err != nil {
				return err
			}
			offset, err := read[Offset16](p, "Offset")
			if err != nil {
				return err
			}
			p.endGroup()

			if last == 0xFFFF {
				return nil
			}
			if last < first {
				return errInvalidValue
			}
			segments = append(segments, segmentData{
				offset: uint32(offset),
				count:  uint32(last) - uint32(first) + 1,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.SliceStable(segments, func(i, j int) bool {
			return segments[i].offset < segments[j].offset
		})
		for _, segment := range segments {
			if err := p.advanceTo(start + segment.offset); err != nil {
				return nil, err
			}
			err = p.readArray("Offsets", segment.count, func(index uint32) error {
				off, err := readIndexed[Offset16](p, index)
				if err != nil {
					return err
				}
				offsets = append(offsets, uint32(off))
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	case 6:
		err = parseAatBinarySearchTable(p, 6, func(index uint32) error {
			p.beginGroupIndexed(index)
			if _, err := read[UInt16](p, "Glyph"); err != nil {
				return err
			}
			offset, err := read[Offset16](p, "Offset")
			if err != nil {
				return err
			}
			p.endGroup()

			if offset == 0xFFFF {
				return nil
			}
			offsets = append(offsets, uint32(offset))
			return nil
		})
		if err != nil {
			return nil, err
		}
	case 8:
		if _, err := read[UInt16](p, "First glyph"); err != nil {
			return nil, err
		}
		count, err := read[UInt16](p, "Glyph count")
		if err != nil {
			return nil, err
		}
		err = p.readArray("Offsets", uint32(count), func(index uint32) error {
			off, err := readIndexed[Offset16](p, index)
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, errInvalidValue
	}
	p.endGroup()

	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets, nil
}
