package ttf

import "sort"

func parseTrak(p *Parser, names map[uint16]string) error {
	tableStart := p.offset()

	if _, err := read[Fixed](p, "Version"); err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Format"); err != nil {
		return err
	}
	horOffset, err := read[OptOffset16](p, "Offset to horizontal Track Data")
	if err != nil {
		return err
	}
	verOffset, err := read[OptOffset16](p, "Offset to vertical Track Data")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Reserved"); err != nil {
		return err
	}

	if !horOffset.isNull() {
		p.beginGroup("Horizontal Track Data")
		if err := parseTrackData(p, names, tableStart); err != nil {
			return err
		}
		p.endGroup()
	}
	if !verOffset.isNull() {
		p.beginGroup("Vertical Track Data")
		if err := parseTrackData(p, names, tableStart); err != nil {
			return err
		}
		p.endGroup()
	}
	return nil
}

func parseTrackData(p *Parser, names map[uint16]string, tableStart uint32) error {
	var offsets []uint32

	numberOfTracks, err := read[UInt16](p, "Number of tracks")
	if err != nil {
		return err
	}
	numberOfSizes, err := read[UInt16](p, "Number of point sizes")
	if err != nil {
		return err
	}
	if _, err := read[Offset32](p, "Offset to size subtable"); err != nil {
		return err
	}
	err = p.readArray("Tracks", uint32(numberOfTracks), func(index uint32) error {
		p.beginGroupIndexed(index)
		if _, err := read[Fixed](p, "Value"); err != nil {
			return err
		}
		name, err := p.readNameID("Name ID", names)
		if err != nil {
			return err
		}
		offset, err := read[Offset16](p, "Offset to per-size tracking values")
		if err != nil {
			return err
		}
		offsets = append(offsets, uint32(offset))
		p.endGroupWith("", name)
		return nil
	})
	if err != nil {
		return err
	}
	if err := readBasicArray[Fixed](p, "Point Sizes", uint32(numberOfSizes)); err != nil {
		return err
	}

	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	offsets = dedupUint32(offsets)

	return p.readArray("Tracks Values", uint32(len(offsets)), func(index uint32) error {
		if err := p.advanceTo(tableStart + offsets[index]); err != nil {
			return err
		}
		return readBasicArray[Int16](p,
			p.intern("Track "+p.indexLabel(index)), uint32(numberOfSizes))
	})
}
