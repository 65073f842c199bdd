package ttf

import "sort"

// HVAR and VVAR share one layout: a version, an item variation store,
// and a handful of optional delta-set index maps reached via offsets
// that are parsed in ascending order.

type namedOffset struct {
	title  string
	store  bool // item variation store rather than a delta-set map
	offset uint32
}

func parseHvar(p *Parser) error {
	start := p.offset()

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

	varStoreOffset, err := read[Offset32](p, "Item Variation Store offset")
	if err != nil {
		return err
	}
	advanceOffset, err := read[OptOffset32](p, "Advance width mapping offset")
	if err != nil {
		return err
	}
	lsbOffset, err := read[OptOffset32](p, "Left side bearing mapping offset")
	if err != nil {
		return err
	}
	rsbOffset, err := read[OptOffset32](p, "Right side bearing mapping offset")
	if err != nil {
		return err
	}

	offsets := []namedOffset{
		{"Item Variation Store", true, uint32(varStoreOffset)},
		{"Advance Width Mapping", false, uint32(advanceOffset)},
		{"Left Side Bearing Mapping", false, uint32(lsbOffset)},
		{"Right Side Bearing Mapping", false, uint32(rsbOffset)},
	}
	return parseNamedOffsets(p, start, offsets)
}

func parseVvar(p *Parser) error {
	start := p.offset()

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

	varStoreOffset, err := read[Offset32](p, "Item variation store offset")
	if err != nil {
		return err
	}
	advanceOffset, err := read[OptOffset32](p, "Advance height mapping offset")
	if err != nil {
		return err
	}
	tsbOffset, err := read[OptOffset32](p, "Top side bearing mapping offset")
	if err != nil {
		return err
	}
	bsbOffset, err := read[OptOffset32](p, "Bottom side bearing mapping offset")
	if err != nil {
		return err
	}
	vorgOffset, err := read[OptOffset32](p, "Vertical origin mapping offset")
	if err != nil {
		return err
	}

	offsets := []namedOffset{
		{"Item Variation Store", true, uint32(varStoreOffset)},
		{"Advance Height Mapping", false, uint32(advanceOffset)},
		{"Top Side Bearing Mapping", false, uint32(tsbOffset)},
		{"Bottom Side Bearing Mapping", false, uint32(bsbOffset)},
		{"Vertical Origin Mapping", false, uint32(vorgOffset)},
	}
	return parseNamedOffsets(p, start, offsets)
}

func parseNamedOffsets(p *Parser, start uint32, offsets []namedOffset) error {
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
		p.beginGroup(off.title)
		var err error
		if off.store {
			err = parseItemVariationStore(p)
		} else {
			err = parseDeltaSetIndexMap(p)
		}
		if err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}
