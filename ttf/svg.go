package ttf

import "sort"

func parseSvg(p *Parser) error {
	start := p.offset()

	if _, err := read[UInt16](p, "Version"); err != nil {
		return err
	}
	listOffset, err := read[Offset32](p, "Offset to the SVG Document List")
	if err != nil {
		return err
	}
	if _, err := read[UInt32](p, "Reserved"); err != nil {
		return err
	}

	if err := p.advanceTo(start + uint32(listOffset)); err != nil {
		return err
	}
	p.beginGroup("SVG Document List")
	count, err := read[UInt16](p, "Number of records")
	if err != nil {
		return err
	}
	type docRange struct{ start, end uint32 }
	var ranges []docRange
	for i := uint16(0); i < uint16(count); i++ {
		p.beginGroup(p.intern("Record " + p.indexLabel(uint32(i))))
		if _, err := read[UInt16](p, "First glyph ID"); err != nil {
			return err
		}
		if _, err := read[UInt16](p, "Last glyph ID"); err != nil {
			return err
		}
		offset, err := read[Offset32](p, "Offset to an SVG Document")
		if err != nil {
			return err
		}
		size, err := read[UInt32](p, "SVG Document length")
		if err != nil {
			return err
		}
		p.endGroup()

		docStart := start + uint32(listOffset) + uint32(offset)
		ranges = append(ranges, docRange{docStart, docStart + uint32(size)})
	}
	p.endGroup()

	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	seen := false
	var lastStart uint32
	for _, r := range ranges {
		if seen && r.start == lastStart {
			continue
		}
		seen, lastStart = true, r.start
		if err := p.advanceTo(r.start); err != nil {
			return err
		}

		// Documents are either plain UTF-8 SVG or gzip-compressed; the
		// gzip pair of magic bytes (0x1F8B) tells them apart.
		magic, err := peek[UInt16](p)
		if err != nil {
			return err
		}
		if uint16(magic) == 0x1F8B {
			if _, err := p.readBytes("SVGZ", r.end-r.start); err != nil {
				return err
			}
		} else {
			if _, err := p.readUTF8String("SVG", r.end-r.start); err != nil {
				return err
			}
		}
	}
	return nil
}
