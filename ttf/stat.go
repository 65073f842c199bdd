package ttf

import "strconv"

func parseStat(p *Parser, names map[uint16]string) error {
	if _, err := read[UInt16](p, "Major version"); err != nil {
		return err
	}
	minorVersion, err := read[UInt16](p, "Minor version")
	if err != nil {
		return err
	}
	if _, err := read[UInt16](p, "Axis record size"); err != nil {
		return err
	}
	designAxisCount, err := read[UInt16](p, "Number of records")
	if err != nil {
		return err
	}
	if _, err := read[Offset32](p, "Offset to the axes array"); err != nil {
		return err
	}
	axisValueCount, err := read[UInt16](p, "Number of axis value tables")
	if err != nil {
		return err
	}
	if _, err := read[Offset32](p, "Offset to the axes value offsets array"); err != nil {
		return err
	}
	if minorVersion > 0 {
		if _, err := p.readNameID("Fallback name ID", names); err != nil {
			return err
		}
	}

	if designAxisCount > 0 {
		p.beginGroupValue("Design axes",
			p.intern(strconv.FormatUint(uint64(designAxisCount), 10)))
		for i := uint16(0); i < uint16(designAxisCount); i++ {
			p.beginGroup("Record")
			if _, err := read[Tag](p, "Tag"); err != nil {
				return err
			}
			if _, err := p.readNameID("Name ID", names); err != nil {
				return err
			}
			if _, err := read[UInt16](p, "Axis ordering"); err != nil {
				return err
			}
			p.endGroup()
		}
		p.endGroup()
	}

	if axisValueCount > 0 {
		p.beginGroupValue("Axis value tables offsets",
			p.intern(strconv.FormatUint(uint64(axisValueCount), 10)))
		for i := uint16(0); i < uint16(axisValueCount); i++ {
			if _, err := read[UInt16](p, "Offset"); err != nil {
				return err
			}
		}
		p.endGroup()
	}
	return nil
}
