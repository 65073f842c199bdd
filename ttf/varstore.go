package ttf

import (
	"sort"
	"strconv"
)

// Shared sub-parsers for variable-font structures: the item variation
// store, its region list, and the HVAR-style delta-set index map.

func parseItemVariationStore(p *Parser) error {
	start := p.offset()

	if _, err := read[UInt16](p, "Format"); err != nil {
		return err
	}
	regionListOffset, err := read[Offset32](p, "Offset to the variation region list")
	if err != nil {
		return err
	}
	dataCount, err := read[UInt16](p, "Number of item variation subtables")
	if err != nil {
		return err
	}

	offsets := make([]uint32, 0, dataCount)
	if dataCount != 0 {
		p.beginGroup("Offsets")
		for i := uint16(0); i < uint16(dataCount); i++ {
			off, err := read[Offset32](p, p.intern("Offset "+p.indexLabel(uint32(i))))
			if err != nil {
				return err
			}
			offsets = append(offsets, uint32(off))
		}
		p.endGroup()
	}

	if regionListOffset != 0 {
		if err := p.jumpTo(start + uint32(regionListOffset)); err != nil {
			return err
		}
		p.beginGroup("Region list")
		if err := parseVariationRegionList(p); err != nil {
			return err
		}
		p.endGroup()
	}

	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	for _, offset := range offsets {
		if err := p.jumpTo(start + offset); err != nil {
			return err
		}
		p.beginGroup("Item variation subtable")
		if err := parseItemVariationData(p); err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}

func parseVariationRegionList(p *Parser) error {
	axisCount, err := read[UInt16](p, "Axis count")
	if err != nil {
		return err
	}
	regionCount, err := read[UInt16](p, "Region count")
	if err != nil {
		return err
	}

	for i := uint16(0); i < uint16(regionCount); i++ {
		p.beginGroup("Region")
		for a := uint16(0); a < uint16(axisCount); a++ {
			p.beginGroup("Region axis")
			if _, err := read[F2DOT14](p, "Start coordinate"); err != nil {
				return err
			}
			if _, err := read[F2DOT14](p, "Peak coordinate"); err != nil {
				return err
			}
			if _, err := read[F2DOT14](p, "End coordinate"); err != nil {
				return err
			}
			p.endGroup()
		}
		p.endGroup()
	}
	return nil
}

// parseItemVariationData reads one item-variation subtable: per-row
// deltas split between 16-bit and 8-bit columns.
func parseItemVariationData(p *Parser) error {
	itemCount, err := read[UInt16](p, "Number of delta sets")
	if err != nil {
		return err
	}
	shortDeltaCount, err := read[UInt16](p, "Number of short deltas")
	if err != nil {
		return err
	}
	regionIndexCount, err := read[UInt16](p, "Number of variation regions")
	if err != nil {
		return err
	}
	if shortDeltaCount > regionIndexCount {
		return errInvalidValue
	}

	if regionIndexCount != 0 {
		p.beginGroup("Region indices")
		for i := uint16(0); i < uint16(regionIndexCount); i++ {
			if _, err := read[UInt16](p, p.intern("Index "+p.indexLabel(uint32(i)))); err != nil {
				return err
			}
		}
		p.endGroup()
	}

	if itemCount == 0 {
		return nil
	}
	p.beginGroup("Delta-set rows")
	for i := uint16(0); i < uint16(itemCount); i++ {
		p.beginGroup(p.intern("Delta-set " + p.indexLabel(uint32(i))))
		for j := uint16(0); j < uint16(shortDeltaCount); j++ {
			if _, err := read[Int16](p, "Delta"); err != nil {
				return err
			}
		}
		for j := uint16(shortDeltaCount); j < uint16(regionIndexCount); j++ {
			if _, err := read[Int8](p, "Delta"); err != nil {
				return err
			}
		}
		p.endGroup()
	}
	p.endGroup()
	return nil
}

// deltaSetEntryFormat is the packed entry-format word of a delta-set
// index map: the low nibble holds the inner-index bit count, the next
// two bits the per-entry byte size.
type deltaSetEntryFormat uint16

func (v *deltaSetEntryFormat) parse(b []byte) { *v = deltaSetEntryFormat(be16(b)) }
func (v deltaSetEntryFormat) width() uint32   { return 2 }
func (v deltaSetEntryFormat) typeName() string { return TypeMasks }
func (v deltaSetEntryFormat) innerIndexBits() uint16 { return uint16(v) & 0x000F }
func (v deltaSetEntryFormat) entrySize() uint16      { return (uint16(v)&0x0030)>>4 + 1 }
func (v deltaSetEntryFormat) render() string {
	return "Inner index bit count: " + strconv.FormatUint(uint64(v.innerIndexBits()), 10) +
		"\nMap entry size: " + strconv.FormatUint(uint64(v.entrySize()), 10)
}

// parseDeltaSetIndexMap reads an HVAR/VVAR-style delta-set index map.
// Each entry decomposes into an outer and inner index per the packed
// entry format.
func parseDeltaSetIndexMap(p *Parser) error {
	format, err := read[deltaSetEntryFormat](p, "Entry format")
	if err != nil {
		return err
	}
	count, err := read[UInt16](p, "Number of entries")
	if err != nil {
		return err
	}

	innerIndexBits := uint32(format.innerIndexBits())
	entrySize := format.entrySize()
	render := func(entry uint32) string {
		outer := entry >> (innerIndexBits + 1)
		inner := entry & ((1 << (innerIndexBits + 1)) - 1)
		return p.intern("Outer index: " + strconv.FormatUint(uint64(outer), 10) +
			"\nInner index: " + strconv.FormatUint(uint64(inner), 10))
	}

	return p.readArray("Entries", uint32(count), func(index uint32) error {
		switch entrySize {
		case 1:
			entry, err := peek[UInt8](p)
			if err != nil {
				return err
			}
			_, err = readRendered[UInt8](p, p.indexLabel(index), render(uint32(entry)))
			return err
		case 2:
			entry, err := peek[UInt16](p)
			if err != nil {
				return err
			}
			_, err = readRendered[UInt16](p, p.indexLabel(index), render(uint32(entry)))
			return err
		default:
			return errInvalidValue
		}
	})
}
