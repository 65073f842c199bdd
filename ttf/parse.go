package ttf

import (
	"fmt"
	"math"
	"sort"
)

// Top-level magic values accepted by Parse.
const (
	magicTrueType   = 0x00010000
	magicOpenType   = 0x4F54544F // 'OTTO'
	magicCollection = 0x74746366 // 'ttcf'
)

// ParseOutput is the result of a successful parse: the fully built tree,
// human-readable warnings for tables that could not be parsed, and the
// byte-coverage summary for the hex view.
type ParseOutput struct {
	Tree     *Tree
	Warnings []string
	Coverage Coverage
}

// Option configures a parse.
type Option func(*Parser)

// WithOpBudget overrides the per-parse operation budget that bounds
// state-machine loops and packed-data decoders.
func WithOpBudget(n int64) Option {
	return func(p *Parser) { p.budget = n }
}

// fontTable is one table-directory record, tagged with the face it
// belongs to.
type fontTable struct {
	faceIndex uint32
	tag       Tag
	offset    uint32
	length    uint32
}

func (t fontTable) end() uint32 { return t.offset + t.length }

// tableName maps a table tag to its human-readable name. Unknown tags
// map to "Unknown Table" and their bytes are skipped.
func tableName(tag Tag) string {
	switch tag.String() {
	case "acnt":
		return "Accent Attachment Table"
	case "ankr":
		return "Anchor Point Table"
	case "avar":
		return "Axis Variations Table"
	case "BASE":
		return "Baseline Table"
	case "bdat":
		return "Bitmap Data Table"
	case "bhed":
		return "Bitmap Font Header Table"
	case "bloc":
		return "Bitmap Location Table"
	case "bsln":
		return "Baseline Table"
	case "CBDT":
		return "Color Bitmap Data Table"
	case "CBLC":
		return "Color Bitmap Location Table"
	case "CFF ":
		return "Compact Font Format Table"
	case "CFF2":
		return "Compact Font Format 2 Table"
	case "cmap":
		return "Character to Glyph Index Mapping Table"
	case "COLR":
		return "Color Table"
	case "CPAL":
		return "Color Palette Table"
	case "cvar":
		return "CVT Variations Table"
	case "cvt ":
		return "Control Value Table"
	case "DSIG":
		return "Digital Signature Table"
	case "EBDT":
		return "Embedded Bitmap Data Table"
	case "EBLC":
		return "Embedded Bitmap Location Table"
	case "EBSC":
		return "Embedded Bitmap Scaling Table"
	case "fdsc":
		return "Font Descriptors Table"
	case "feat":
		return "Feature Name Table"
	case "fmtx":
		return "Font Metrics Table"
	case "fpgm":
		return "Font Program Table"
	case "fvar":
		return "Font Variations Table"
	case "gasp":
		return "Grid-fitting and Scan-conversion Procedure Table"
	case "gcid":
		return "Character to CID Table"
	case "GDEF":
		return "Glyph Definition Table"
	case "glyf":
		return "Glyph Data Table"
	case "GPOS":
		return "Glyph Positioning Table"
	case "GSUB":
		return "Glyph Substitution Table"
	case "gvar":
		return "Glyph Variations Table"
	case "hdmx":
		return "Horizontal Device Metrics"
	case "head":
		return "Font Header Table"
	case "hhea":
		return "Horizontal Header Table"
	case "hmtx":
		return "Horizontal Metrics Table"
	case "HVAR":
		return "Horizontal Metrics Variations Table"
	case "JSTF", "just":
		return "Justification Table"
	case "kern":
		return "Kerning Table"
	case "kerx":
		return "Extended Kerning Table"
	case "lcar":
		return "Ligature Caret Table"
	case "loca":
		return "Index to Location Table"
	case "ltag":
		return "IETF Language Tags Table"
	case "LTSH":
		return "Linear Threshold Table"
	case "MATH":
		return "The Mathematical Typesetting Table"
	case "maxp":
		return "Maximum Profile Table"
	case "MERG":
		return "Merge Table"
	case "meta":
		return "Metadata Table"
	case "mort":
		return "Glyph Metamorphosis Table"
	case "morx":
		return "Extended Glyph Metamorphosis Table"
	case "MVAR":
		return "Metrics Variations Table"
	case "name":
		return "Naming Table"
	case "opbd":
		return "Optical Bounds Table"
	case "OS/2":
		return "OS/2 and Windows Metrics Table"
	case "PCLT":
		return "PCL 5 Table"
	case "post":
		return "PostScript Table"
	case "prep":
		return "Control Value Program"
	case "prop":
		return "Glyph Properties Table"
	case "sbix":
		return "Standard Bitmap Graphics Table"
	case "STAT":
		return "Style Attributes Table"
	case "SVG ":
		return "Scalable Vector Graphics Table"
	case "trak":
		return "Tracking Table"
	case "VDMX":
		return "Vertical Device Metrics"
	case "vhea":
		return "Vertical Header Table"
	case "vmtx":
		return "Vertical Metrics Table"
	case "VORG":
		return "Vertical Origin Table"
	case "VVAR":
		return "Vertical Metrics Variations Table"
	case "Zapf":
		return "Glyph Information Table"
	default:
		return "Unknown Table"
	}
}

func magicName(v uint32) string {
	switch v {
	case magicTrueType:
		return "TrueType"
	case magicOpenType:
		return "OpenType"
	case magicCollection:
		return "Font Collection"
	default:
		return ""
	}
}

// Parse walks a font binary and builds the labeled byte tree.
//
// The input buffer is borrowed immutably and must outlive the returned
// tree. It fails on an unrecognized top-level magic, on an input too
// large to address with 32-bit offsets, and on a font header, collection
// header or table-record list that cannot be read; those header errors
// are not recovered. Every per-table problem is recovered and reported
// through ParseOutput.Warnings.
func Parse(data []byte, opts ...Option) (*ParseOutput, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: file too large", ErrNotATrueTypeFont)
	}
	p := newParser(data)
	for _, opt := range opts {
		opt(p)
	}

	magic, err := peek[UInt32](p)
	if err != nil || !(uint32(magic) == magicTrueType ||
		uint32(magic) == magicOpenType || uint32(magic) == magicCollection) {
		return nil, ErrNotATrueTypeFont
	}
	tracer().Debugf("font magic = %08x (%s)", uint32(magic), magicName(uint32(magic)))

	var tables []fontTable
	numberOfFaces := 1
	if uint32(magic) != magicCollection {
		if err := parseFaceHeader(p, 0, &tables); err != nil {
			return nil, err
		}
	} else {
		n, err := parseCollectionHeader(p, &tables)
		if err != nil {
			return nil, err
		}
		numberOfFaces = n
	}

	// Tables are parsed in ascending offset order; the directory order
	// is irrelevant. Ties keep the first record.
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].offset < tables[j].offset
	})

	warnings := parseTables(p, numberOfFaces, tables)
	p.finish()

	return &ParseOutput{
		Tree:     p.tree,
		Warnings: warnings,
		Coverage: finalizeCoverage(p.tree, p.offsets, p.unsupported, uint32(len(data))),
	}, nil
}

// parseFaceHeader reads one sfnt header plus its table records,
// appending the records to tables.
func parseFaceHeader(p *Parser, faceIndex uint32, tables *[]fontTable) error {
	p.beginGroup("Header")
	magic, err := peek[UInt32](p)
	if err != nil {
		return err
	}
	if uint32(magic) != magicTrueType && uint32(magic) != magicOpenType {
		return ErrNotATrueTypeFont
	}
	if _, err := readRendered[UInt32](p, "Magic", magicName(uint32(magic))); err != nil {
		return err
	}
	numberOfTables, err := read[UInt16](p, "Number of tables")
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
	p.endGroup()

	return p.readArray("Table Records", uint32(numberOfTables), func(uint32) error {
		p.beginGroup("")
		tag, err := read[Tag](p, "Tag")
		if err != nil {
			return err
		}
		if _, err := read[UInt32](p, "Checksum"); err != nil {
			return err
		}
		offset, err := read[Offset32](p, "Offset")
		if err != nil {
			return err
		}
		length, err := read[UInt32](p, "Length")
		if err != nil {
			return err
		}
		*tables = append(*tables, fontTable{
			faceIndex: faceIndex,
			tag:       tag,
			offset:    uint32(offset),
			length:    uint32(length),
		})
		p.endGroupWith(tableName(tag), tag.String())
		return nil
	})
}

// parseCollectionHeader reads a ttcf header and every face header it
// points to. Returns the number of faces.
func parseCollectionHeader(p *Parser, tables *[]fontTable) (int, error) {
	p.beginGroup("Header")
	if _, err := readRendered[UInt32](p, "Magic", magicName(magicCollection)); err != nil {
		return 0, err
	}
	majorVersion, err := read[UInt16](p, "Major version")
	if err != nil {
		return 0, err
	}
	if _, err := read[UInt16](p, "Minor version"); err != nil {
		return 0, err
	}
	numberOfFaces, err := read[UInt32](p, "Number of fonts")
	if err != nil {
		return 0, err
	}

	offsets := make([]uint32, 0, numberOfFaces)
	err = p.readArray("Offsets", uint32(numberOfFaces), func(i uint32) error {
		off, err := readIndexed[Offset32](p, i)
		if err != nil {
			return err
		}
		offsets = append(offsets, uint32(off))
		return nil
	})
	if err != nil {
		return 0, err
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	offsets = dedupUint32(offsets)

	if majorVersion == 2 {
		if _, err := read[Tag](p, "DSIG tag"); err != nil {
			return 0, err
		}
		if _, err := read[UInt32](p, "DSIG table length"); err != nil {
			return 0, err
		}
		if _, err := read[OptOffset32](p, "DSIG table offset"); err != nil {
			return 0, err
		}
	}
	p.endGroup()

	for i, offset := range offsets {
		if err := p.jumpTo(offset); err != nil {
			return 0, err
		}
		p.beginGroup("Font")
		if err := parseFaceHeader(p, uint32(i), tables); err != nil {
			return 0, err
		}
		p.endGroup()
	}
	return len(offsets), nil
}

// parseTables runs every table record, in offset order, through its
// per-table parser under a recovery boundary.
func parseTables(p *Parser, numberOfFaces int, tables []fontTable) []string {
	faces := make([]faceData, numberOfFaces)
	shadow := p.shadowAll()
	for i := range faces {
		faces[i] = collectFaceData(tables, uint32(i), shadow)
	}

	var warnings []string
	processed := make(map[uint32]bool, len(tables))

	for _, table := range tables {
		// Multiple records can point at the same bytes, mainly in font
		// collections; the bytes are parsed once.
		if table.offset < p.offset() || processed[table.offset] {
			continue
		}
		processed[table.offset] = true

		title := tableName(table.tag)
		if numberOfFaces > 1 {
			title = p.intern(fmt.Sprintf("%s (Face %d)", title, table.faceIndex))
		}

		cp := p.checkpoint()
		p.beginGroupValue(title, table.tag.String())
		if err := parseOneTable(p, table, &faces[table.faceIndex]); err != nil {
			p.undo(cp)
			warnings = append(warnings,
				fmt.Sprintf("Failed to parse the '%s' table because %s", table.tag, err))
			tracer().Infof("table %s at %d failed: %v", table.tag, table.offset, err)
			skipFailedTable(p, table)
			continue
		}
		p.endGroup()
	}
	return warnings
}

// parseOneTable positions the cursor, dispatches by tag, then pads the
// group out to the record's declared length and its 4-byte alignment.
func parseOneTable(p *Parser, table fontTable, fd *faceData) error {
	if err := p.advanceTo(table.offset); err != nil {
		return err
	}
	if err := dispatchTable(p, table, fd); err != nil {
		return err
	}
	if p.offset() > table.end() {
		// Sub-structures reached via offsets may legitimately live
		// beyond the record's declared length; keep what was parsed
		// and skip the alignment padding.
		tracer().Debugf("table %s read %d bytes past its declared length",
			table.tag, p.offset()-table.end())
		return nil
	}
	if p.offset() < table.end() {
		if err := p.advanceTo(table.end()); err != nil {
			return err
		}
	}
	// Tables are 4-byte aligned; label alignment bytes as padding when
	// they are actually present.
	pad := ((table.length + 3) &^ 3) - table.length
	if pad > 0 && pad <= p.left() {
		if err := p.readPadding(pad); err != nil {
			return err
		}
	}
	return nil
}

// skipFailedTable keeps the coverage coherent after a rollback: the
// rejected table's bytes, as far as they exist, become one Unsupported
// run at the root.
func skipFailedTable(p *Parser, table fontTable) {
	if table.offset < p.offset() || table.offset >= uint32(len(p.data)) {
		return
	}
	if err := p.advanceTo(table.offset); err != nil {
		return
	}
	size := table.length
	if size > p.left() {
		size = p.left()
	}
	_ = p.readUnsupported(size)
}

// dispatchTable routes a record to its per-table parser, supplying the
// cross-table values collected in advance.
func dispatchTable(p *Parser, table fontTable, fd *faceData) error {
	switch table.tag.String() {
	case "ankr":
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		return parseAnkr(p, fd.numberOfGlyphs)
	case "avar":
		return parseAvar(p)
	case "bdat":
		if !fd.hasBloc {
			return errMissingTable("bloc")
		}
		if fd.blocErr != nil {
			return fd.blocErr
		}
		return parseCbdt(p, fd.blocLocations)
	case "bloc":
		return parseCblc(p)
	case "CBDT":
		if !fd.hasCblc {
			return errMissingTable("CBLC")
		}
		if fd.cblcErr != nil {
			return fd.cblcErr
		}
		return parseCbdt(p, fd.cblcLocations)
	case "CBLC":
		return parseCblc(p)
	case "CFF ":
		return parseCff(p, table.offset)
	case "CFF2":
		return parseCff2(p, table.offset)
	case "cmap":
		return parseCmap(p)
	case "cvt ":
		return readBasicArray[Int16](p, "Values", table.length/2)
	case "EBDT":
		if !fd.hasEblc {
			return errMissingTable("EBLC")
		}
		if fd.eblcErr != nil {
			return fd.eblcErr
		}
		return parseCbdt(p, fd.eblcLocations)
	case "EBLC":
		return parseCblc(p)
	case "feat":
		return parseFeat(p, fd.names)
	case "fpgm", "prep":
		_, err := p.readBytes("Instructions", table.length)
		return err
	case "fvar":
		return parseFvar(p, fd.names)
	case "GDEF":
		return parseGdef(p)
	case "glyf":
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		if !fd.hasHead {
			return errMissingTable("head")
		}
		if !fd.hasLoca {
			return errMissingTable("loca")
		}
		if fd.locaErr != nil {
			return fd.locaErr
		}
		return parseGlyf(p, fd.numberOfGlyphs, fd.locaOffsets)
	case "gvar":
		return parseGvar(p)
	case "head":
		return parseHead(p)
	case "hhea":
		return parseHhea(p)
	case "hmtx":
		if !fd.hasHhea {
			return errMissingTable("hhea")
		}
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		return parseHmtx(p, fd.numberOfHMetrics, fd.numberOfGlyphs)
	case "HVAR":
		return parseHvar(p)
	case "kern":
		return parseKern(p)
	case "loca":
		if !fd.hasHead {
			return errMissingTable("head")
		}
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		return parseLoca(p, fd.numberOfGlyphs, fd.indexToLocFormat)
	case "maxp":
		return parseMaxp(p)
	case "MVAR":
		return parseMvar(p)
	case "name":
		return parseName(p)
	case "OS/2":
		return parseOS2(p)
	case "post":
		return parsePost(p, table.end())
	case "sbix":
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		return parseSbix(p, fd.numberOfGlyphs)
	case "STAT":
		return parseStat(p, fd.names)
	case "SVG ":
		return parseSvg(p)
	case "trak":
		return parseTrak(p, fd.names)
	case "vhea":
		return parseVhea(p)
	case "vmtx":
		if !fd.hasVhea {
			return errMissingTable("vhea")
		}
		if !fd.hasMaxp {
			return errMissingTable("maxp")
		}
		return parseVmtx(p, fd.numberOfVMetrics, fd.numberOfGlyphs)
	case "VORG":
		return parseVorg(p)
	case "VVAR":
		return parseVvar(p)
	default:
		return p.readUnsupported(table.length)
	}
}

// faceData carries the cross-table values a face's parsers depend on,
// extracted ahead of time with a read-only cursor. Extraction is
// best-effort: a missing or unreadable prerequisite is only reported
// when a depending table is parsed.
type faceData struct {
	hasMaxp        bool
	numberOfGlyphs uint16

	hasHead          bool
	indexToLocFormat uint16

	hasHhea          bool
	numberOfHMetrics uint16

	hasVhea          bool
	numberOfVMetrics uint16

	hasLoca     bool
	locaErr     error
	locaOffsets []uint32

	names map[uint16]string

	hasBloc       bool
	blocErr       error
	blocLocations []cblcLocation

	hasEblc       bool
	eblcErr       error
	eblcLocations []cblcLocation

	hasCblc       bool
	cblcErr       error
	cblcLocations []cblcLocation
}

func findTable(tables []fontTable, faceIndex uint32, tag string) (fontTable, bool) {
	for _, t := range tables {
		if t.faceIndex == faceIndex && t.tag.String() == tag {
			return t, true
		}
	}
	return fontTable{}, false
}

func collectFaceData(tables []fontTable, faceIndex uint32, shadow shadowParser) faceData {
	fd := faceData{names: map[uint16]string{}}

	if t, ok := findTable(tables, faceIndex, "maxp"); ok {
		s := shadow
		if s.jumpTo(t.offset+4) == nil {
			if n, err := sread[UInt16](&s); err == nil {
				fd.hasMaxp = true
				fd.numberOfGlyphs = uint16(n)
			}
		}
	}

	if t, ok := findTable(tables, faceIndex, "head"); ok {
		s := shadow
		if s.jumpTo(t.offset+50) == nil {
			if n, err := sread[UInt16](&s); err == nil {
				fd.hasHead = true
				fd.indexToLocFormat = uint16(n)
			}
		}
	}

	if t, ok := findTable(tables, faceIndex, "hhea"); ok {
		s := shadow
		if s.jumpTo(t.offset+34) == nil {
			if n, err := sread[UInt16](&s); err == nil {
				fd.hasHhea = true
				fd.numberOfHMetrics = uint16(n)
			}
		}
	}

	if t, ok := findTable(tables, faceIndex, "vhea"); ok {
		s := shadow
		if s.jumpTo(t.offset+34) == nil {
			if n, err := sread[UInt16](&s); err == nil {
				fd.hasVhea = true
				fd.numberOfVMetrics = uint16(n)
			}
		}
	}

	if t, ok := findTable(tables, faceIndex, "loca"); ok {
		s := shadow
		if err := s.jumpTo(t.offset); err != nil {
			fd.hasLoca, fd.locaErr = true, err
		} else {
			fd.hasLoca = true
			fd.locaOffsets, fd.locaErr = collectLocaOffsets(fd.numberOfGlyphs, fd.indexToLocFormat, &s)
		}
	}

	if t, ok := findTable(tables, faceIndex, "name"); ok {
		s := shadow
		if s.jumpTo(t.offset) == nil {
			fd.names = collectNames(&s)
		}
	}

	collectBitmapLocations := func(tag string, has *bool, locs *[]cblcLocation, errp *error) {
		if t, ok := findTable(tables, faceIndex, tag); ok {
			*has = true
			s := shadow
			if err := s.jumpTo(t.offset); err != nil {
				*errp = err
				return
			}
			sub := s.shadow()
			*locs, *errp = collectCblcLocations(&sub)
		}
	}
	collectBitmapLocations("bloc", &fd.hasBloc, &fd.blocLocations, &fd.blocErr)
	collectBitmapLocations("EBLC", &fd.hasEblc, &fd.eblcLocations, &fd.eblcErr)
	collectBitmapLocations("CBLC", &fd.hasCblc, &fd.cblcLocations, &fd.cblcErr)

	return fd
}

func dedupUint32(v []uint32) []uint32 {
	if len(v) == 0 {
		return v
	}
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
