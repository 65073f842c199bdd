package ttf

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fontWriter assembles synthetic font binaries for tests.
type fontWriter struct {
	b []byte
}

func (w *fontWriter) u8(v uint8)   { w.b = append(w.b, v) }
func (w *fontWriter) u16(v uint16) { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *fontWriter) u32(v uint32) { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *fontWriter) i16(v int16)  { w.u16(uint16(v)) }
func (w *fontWriter) tag(s string) { w.b = append(w.b, s[:4]...) }
func (w *fontWriter) raw(b []byte) { w.b = append(w.b, b...) }
func (w *fontWriter) pad4() {
	for len(w.b)%4 != 0 {
		w.b = append(w.b, 0)
	}
}

type tableSpec struct {
	tag  string
	body []byte
}

// sfntFont lays out a header, table records and the table bodies, each
// 4-byte aligned.
func sfntFont(magic uint32, tables ...tableSpec) []byte {
	w := &fontWriter{}
	w.u32(magic)
	w.u16(uint16(len(tables)))
	w.u16(16) // search range
	w.u16(0)  // entry selector
	w.u16(0)  // range shift

	offset := uint32(12 + 16*len(tables))
	for _, t := range tables {
		w.tag(t.tag)
		w.u32(0) // checksum
		w.u32(offset)
		w.u32(uint32(len(t.body)))
		offset += uint32(len(t.body))
		offset = (offset + 3) &^ 3
	}
	for _, t := range tables {
		w.raw(t.body)
		w.pad4()
	}
	return w.b
}

func maxpV05(numGlyphs uint16) []byte {
	w := &fontWriter{}
	w.u32(0x00005000) // version 0.5
	w.u16(numGlyphs)
	return w.b
}

func headTable(indexToLocFormat int16) []byte {
	w := &fontWriter{}
	w.u16(1) // major version
	w.u16(0) // minor version
	w.u32(0x00010000)
	w.u32(0)          // checksum adjustment
	w.u32(0x5F0F3CF5) // magic number
	w.u16(0)          // flags
	w.u16(1000)       // units per em
	w.raw(make([]byte, 16))
	w.i16(0) // x min
	w.i16(0) // y min
	w.i16(100)
	w.i16(100)
	w.u16(0) // mac style
	w.u16(8) // smallest readable size
	w.i16(2) // direction hint
	w.i16(indexToLocFormat)
	w.i16(0) // glyph data format
	return w.b
}

func hheaTable(numberOfHMetrics uint16) []byte {
	w := &fontWriter{}
	w.u16(1)
	w.u16(0)
	w.i16(750)  // ascent
	w.i16(-250) // descent
	w.i16(0)    // line gap
	w.u16(600) // max advance
	// min LSB/RSB, max extent, caret fields, reserved, metric format
	for i := 0; i < 11; i++ {
		w.i16(0)
	}
	w.u16(numberOfHMetrics)
	return w.b
}

func findRootChild(t *testing.T, tree *Tree, title string) (NodeID, bool) {
	t.Helper()
	for row := 0; row < tree.ChildrenCount(RootID); row++ {
		id, _ := tree.ChildAt(RootID, row)
		if tree.Title(id) == title {
			return id, true
		}
	}
	return 0, false
}

func rootChildTitles(tree *Tree) []string {
	var titles []string
	for row := 0; row < tree.ChildrenCount(RootID); row++ {
		id, _ := tree.ChildAt(RootID, row)
		titles = append(titles, tree.Title(id))
	}
	return titles
}

func assertCoverageInvariants(t *testing.T, out *ParseOutput, n uint32) {
	t.Helper()
	offsets := out.Coverage.Offsets()
	require.NotEmpty(t, offsets)
	assert.Equal(t, n, offsets[len(offsets)-1], "sentinel")
	for i := 1; i < len(offsets); i++ {
		assert.Less(t, offsets[i-1], offsets[i], "offsets strictly ascending")
	}
	for _, u := range out.Coverage.Unsupported() {
		assert.True(t, hasOffset(offsets, u), "unsupported ⊆ offsets")
	}
	for _, o := range offsets[:len(offsets)-1] {
		if out.Coverage.IsUnsupported(o) {
			continue
		}
		_, ok := out.Tree.ItemAtByte(o)
		assert.True(t, ok, "leaf labels offset %d", o)
	}
}

// --- End-to-end scenarios --------------------------------------------------

func TestParseMinimalTrueType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttfexplorer.ttf")
	defer teardown()
	//
	font := sfntFont(magicTrueType, tableSpec{"maxp", maxpV05(0)})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	titles := rootChildTitles(out.Tree)
	assert.Equal(t, []string{"Header", "Table Records", "Maximum Profile Table"}, titles)

	maxp, ok := findRootChild(t, out.Tree, "Maximum Profile Table")
	require.True(t, ok)
	assert.Equal(t, "maxp", out.Tree.Value(maxp))

	// maxp v0.5 has exactly the version and the glyph count, plus the
	// table's alignment padding.
	version, _ := out.Tree.ChildAt(maxp, 0)
	assert.Equal(t, "Version", out.Tree.Title(version))
	assert.Equal(t, "0.3125", out.Tree.Value(version))
	glyphs, _ := out.Tree.ChildAt(maxp, 1)
	assert.Equal(t, "Number of glyphs", out.Tree.Title(glyphs))
	assert.Equal(t, "0", out.Tree.Value(glyphs))

	assertCoverageInvariants(t, out, uint32(len(font)))
	assertTreeInvariants(t, out.Tree, uint32(len(font)))
}

func TestParseOpenTypeMagic(t *testing.T) {
	font := sfntFont(magicOpenType, tableSpec{"maxp", maxpV05(0)})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)
	titles := rootChildTitles(out.Tree)
	assert.Equal(t, []string{"Header", "Table Records", "Maximum Profile Table"}, titles)
}

func TestParseCollection(t *testing.T) {
	// Two faces sharing one maxp table.
	w := &fontWriter{}
	w.u32(magicCollection)
	w.u16(1) // major version
	w.u16(0)
	w.u32(2)  // number of fonts
	w.u32(20) // offset to face 0
	w.u32(48) // offset to face 1

	maxpOffset := uint32(48 + 28)
	face := func() {
		w.u32(magicTrueType)
		w.u16(1)
		w.u16(16)
		w.u16(0)
		w.u16(0)
		w.tag("maxp")
		w.u32(0)
		w.u32(maxpOffset)
		w.u32(6)
	}
	face()
	face()
	w.raw(maxpV05(0))
	w.pad4()

	out, err := Parse(w.b)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	titles := rootChildTitles(out.Tree)
	require.GreaterOrEqual(t, len(titles), 3)
	assert.Equal(t, "Header", titles[0])
	assert.Equal(t, "Font", titles[1])
	assert.Equal(t, "Font", titles[2])
	// The shared table is parsed once and tagged with its face.
	_, ok := findRootChild(t, out.Tree, "Maximum Profile Table (Face 0)")
	assert.True(t, ok)

	assertCoverageInvariants(t, out, uint32(len(w.b)))
}

func TestParseNotAFont(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNotATrueTypeFont)
	_, err = Parse([]byte{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrNotATrueTypeFont)
	_, err = Parse([]byte{0, 1})
	assert.ErrorIs(t, err, ErrNotATrueTypeFont)
}

func TestParseMissingDependency(t *testing.T) {
	// glyf without maxp: the glyf table is skipped with a warning,
	// other tables still parse.
	font := sfntFont(magicTrueType,
		tableSpec{"glyf", []byte{0, 0, 0, 0}},
		tableSpec{"head", headTable(0)},
	)
	out, err := Parse(font)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "Failed to parse the 'glyf' table because no 'maxp' table", out.Warnings[0])

	_, ok := findRootChild(t, out.Tree, "Glyph Data Table")
	assert.False(t, ok)
	_, ok = findRootChild(t, out.Tree, "Font Header Table")
	assert.True(t, ok)

	assertCoverageInvariants(t, out, uint32(len(font)))
}

func TestParseTruncatedHmtx(t *testing.T) {
	// hmtx needs 2 metrics × 4 bytes but the file ends 2 bytes early.
	hmtx := make([]byte, 6)
	font := sfntFont(magicTrueType,
		tableSpec{"hhea", hheaTable(2)},
		tableSpec{"maxp", maxpV05(2)},
		tableSpec{"hmtx", hmtx},
	)
	// Drop the alignment padding so the last read genuinely runs out
	// of bytes.
	font = font[:len(font)-2]

	out, err := Parse(font)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "Failed to parse the 'hmtx' table because read out of bounds", out.Warnings[0])

	// The partial subtree is discarded.
	_, ok := findRootChild(t, out.Tree, "Horizontal Metrics Table")
	assert.False(t, ok)
	_, ok = findRootChild(t, out.Tree, "Horizontal Header Table")
	assert.True(t, ok)

	assertCoverageInvariants(t, out, uint32(len(font)))
}

func glyfFont(glyf []byte, numGlyphs uint16, locaEntries []uint16) []byte {
	w := &fontWriter{}
	for _, e := range locaEntries {
		w.u16(e)
	}
	return sfntFont(magicTrueType,
		tableSpec{"head", headTable(0)},
		tableSpec{"maxp", maxpV05(numGlyphs)},
		tableSpec{"loca", w.b},
		tableSpec{"glyf", glyf},
	)
}

func TestParseCompositeGlyph(t *testing.T) {
	g := &fontWriter{}
	g.i16(-1) // number of contours: composite
	g.i16(0)
	g.i16(0)
	g.i16(10)
	g.i16(10)
	// Component 1: words + xy values + more components.
	g.u16(0x0023)
	g.u16(0) // glyph id
	g.i16(5)
	g.i16(6)
	// Component 2: last one.
	g.u16(0x0003)
	g.u16(1)
	g.i16(-5)
	g.i16(-6)
	glyf := g.b // 26 bytes

	font := glyfFont(glyf, 1, []uint16{0, uint16(len(glyf) / 2)})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	glyfNode, ok := findRootChild(t, out.Tree, "Glyph Data Table")
	require.True(t, ok)
	glyph, ok := out.Tree.ChildAt(glyfNode, 0)
	require.True(t, ok)
	assert.Equal(t, "Glyph 0 (composite)", out.Tree.Title(glyph))

	var components int
	for row := 0; row < out.Tree.ChildrenCount(glyph); row++ {
		id, _ := out.Tree.ChildAt(glyph, row)
		if out.Tree.Title(id) == "Component" {
			components++
		}
	}
	assert.Equal(t, 2, components)

	assertTreeInvariants(t, out.Tree, uint32(len(font)))
}

func TestParseSimpleGlyph(t *testing.T) {
	g := &fontWriter{}
	g.i16(1) // one contour
	g.i16(0)
	g.i16(0)
	g.i16(10)
	g.i16(10)
	g.u16(1)    // endpoint 0: two points total? no - last point index 1
	g.u16(0)    // instruction length
	g.u8(0x01)  // flag: on curve, 2-byte coords, point 0
	g.u8(0x37)  // flag: short x, short y, both positive, point 1
	g.i16(5)    // x0
	g.u8(3)     // x1
	g.i16(7)    // y0
	g.u8(2)     // y1
	glyf := g.b
	for len(glyf)%2 != 0 {
		glyf = append(glyf, 0)
	}

	font := glyfFont(glyf, 1, []uint16{0, uint16(len(glyf) / 2)})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	glyfNode, ok := findRootChild(t, out.Tree, "Glyph Data Table")
	require.True(t, ok)
	glyph, _ := out.Tree.ChildAt(glyfNode, 0)
	assert.Equal(t, "Glyph 0", out.Tree.Title(glyph))

	var titles []string
	for row := 0; row < out.Tree.ChildrenCount(glyph); row++ {
		id, _ := out.Tree.ChildAt(glyph, row)
		titles = append(titles, out.Tree.Title(id))
	}
	assert.Contains(t, titles, "Endpoints")
	assert.Contains(t, titles, "Flags")
	assert.Contains(t, titles, "X-coordinates")
	assert.Contains(t, titles, "Y-coordinates")
}

func TestParseNonMonotonicLoca(t *testing.T) {
	font := glyfFont([]byte{0, 0, 0, 0}, 1, []uint16{2, 0})
	out, err := Parse(font)
	require.NoError(t, err)

	var glyfWarning string
	for _, w := range out.Warnings {
		if strings.Contains(w, "'glyf'") {
			glyfWarning = w
		}
	}
	assert.Equal(t, "Failed to parse the 'glyf' table because invalid offset", glyfWarning)

	// Other tables still produce subtrees.
	_, ok := findRootChild(t, out.Tree, "Font Header Table")
	assert.True(t, ok)
	_, ok = findRootChild(t, out.Tree, "Index to Location Table")
	assert.True(t, ok)
}

func TestParseTrailingBytes(t *testing.T) {
	font := sfntFont(magicTrueType, tableSpec{"maxp", maxpV05(0)})
	plain, err := Parse(font)
	require.NoError(t, err)

	padded := append(append([]byte{}, font...), 0xDE, 0xAD, 0xBE, 0xEF)
	out, err := Parse(padded)
	require.NoError(t, err)

	// The recognized portion is unchanged.
	assert.Equal(t, plain.Tree.Len()+1, out.Tree.Len())
	last, _ := out.Tree.ChildAt(RootID, out.Tree.ChildrenCount(RootID)-1)
	assert.Equal(t, titleUnsupported, out.Tree.Title(last))
	start, end := out.Tree.Range(last)
	assert.Equal(t, uint32(len(font)), start)
	assert.Equal(t, uint32(len(padded)), end)

	assertCoverageInvariants(t, out, uint32(len(padded)))
}

func TestParseDeterminism(t *testing.T) {
	g := &fontWriter{}
	g.i16(0)
	g.i16(0)
	g.i16(0)
	g.i16(1)
	g.i16(1)
	font := glyfFont(g.b, 1, []uint16{0, uint16(len(g.b) / 2)})

	first, err := Parse(font)
	require.NoError(t, err)
	second, err := Parse(font)
	require.NoError(t, err)

	exportTree := func(out *ParseOutput) [][4]string {
		var rows [][4]string
		tree := out.Tree
		for id := NodeID(0); int(id) < tree.Len(); id++ {
			start, end := tree.Range(id)
			rows = append(rows, [4]string{
				tree.Title(id), tree.Value(id), tree.ValueType(id),
				fmt.Sprintf("%d:%d", start, end),
			})
		}
		return rows
	}
	if diff := cmp.Diff(exportTree(first), exportTree(second)); diff != "" {
		t.Errorf("trees differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Coverage.Offsets(), second.Coverage.Offsets()); diff != "" {
		t.Errorf("coverage differs between runs:\n%s", diff)
	}
}

func TestParseUnknownTableBecomesUnsupported(t *testing.T) {
	font := sfntFont(magicTrueType,
		tableSpec{"zzzz", []byte{1, 2, 3, 4}},
		tableSpec{"maxp", maxpV05(0)},
	)
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	unknown, ok := findRootChild(t, out.Tree, "Unknown Table")
	require.True(t, ok)
	child, _ := out.Tree.ChildAt(unknown, 0)
	assert.Equal(t, titleUnsupported, out.Tree.Title(child))

	assertCoverageInvariants(t, out, uint32(len(font)))
}

func TestParseTableRecordPastEnd(t *testing.T) {
	// A record pointing past the input produces a warning and no
	// subtree, without aborting the parse.
	w := &fontWriter{}
	w.u32(magicTrueType)
	w.u16(1)
	w.u16(16)
	w.u16(0)
	w.u16(0)
	w.tag("maxp")
	w.u32(0)
	w.u32(0xFFFF) // far past the end
	w.u32(6)

	out, err := Parse(w.b)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "Failed to parse the 'maxp' table")
	_, ok := findRootChild(t, out.Tree, "Maximum Profile Table")
	assert.False(t, ok)
}

func TestParseHmtxMetrics(t *testing.T) {
	m := &fontWriter{}
	m.u16(500) // advance width 0
	m.i16(10)  // lsb 0
	m.i16(-3)  // lone lsb for glyph 1
	font := sfntFont(magicTrueType,
		tableSpec{"hhea", hheaTable(1)},
		tableSpec{"maxp", maxpV05(2)},
		tableSpec{"hmtx", m.b},
	)
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	hmtx, ok := findRootChild(t, out.Tree, "Horizontal Metrics Table")
	require.True(t, ok)
	require.GreaterOrEqual(t, out.Tree.ChildrenCount(hmtx), 2)
	g0, _ := out.Tree.ChildAt(hmtx, 0)
	assert.Equal(t, "Glyph 0", out.Tree.Title(g0))
	assert.Equal(t, 2, out.Tree.ChildrenCount(g0))
	g1, _ := out.Tree.ChildAt(hmtx, 1)
	assert.Equal(t, "Glyph 1", out.Tree.Title(g1))
	assert.Equal(t, 1, out.Tree.ChildrenCount(g1))
}

func TestParseNameTable(t *testing.T) {
	n := &fontWriter{}
	n.u16(0) // format
	n.u16(1) // one record
	n.u16(18)
	// Record: Windows / Unicode BMP / en-US / Family.
	n.u16(3)
	n.u16(1)
	n.u16(0x0409)
	n.u16(1) // name id: Family
	n.u16(6) // length
	n.u16(0) // offset
	n.raw([]byte{0x00, 'F', 0x00, 'a', 0x00, 'm'})

	font := sfntFont(magicTrueType, tableSpec{"name", n.b})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	name, ok := findRootChild(t, out.Tree, "Naming Table")
	require.True(t, ok)

	var found bool
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if out.Tree.Title(id) == "Family (Unicode BMP, English, United States)" {
			found = true
			assert.Equal(t, "Fam", out.Tree.Value(id))
			assert.Equal(t, TypeString, out.Tree.ValueType(id))
		}
		for row := 0; row < out.Tree.ChildrenCount(id); row++ {
			child, _ := out.Tree.ChildAt(id, row)
			walk(child)
		}
	}
	walk(name)
	assert.True(t, found, "decoded name leaf present")
}

func TestParseKernOpenTypeFormat0(t *testing.T) {
	k := &fontWriter{}
	k.u16(0) // version: OpenType dialect
	k.u16(1) // one subtable
	k.u16(0) // subtable version
	k.u16(20)
	k.u8(0) // format 0
	k.u8(1) // coverage: horizontal
	k.u16(1)
	k.u16(6)
	k.u16(0)
	k.u16(0)
	k.u16(4)          // left
	k.u16(5)          // right
	k.i16(-40)        // value
	font := sfntFont(magicTrueType, tableSpec{"kern", k.b})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)
	_, ok := findRootChild(t, out.Tree, "Kerning Table")
	assert.True(t, ok)
	assertCoverageInvariants(t, out, uint32(len(font)))
}

func TestParseLocaShortAndLong(t *testing.T) {
	shortLoca := &fontWriter{}
	shortLoca.u16(0)
	shortLoca.u16(2)
	font := sfntFont(magicTrueType,
		tableSpec{"head", headTable(0)},
		tableSpec{"maxp", maxpV05(1)},
		tableSpec{"loca", shortLoca.b},
	)
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	loca, ok := findRootChild(t, out.Tree, "Index to Location Table")
	require.True(t, ok)
	assert.Equal(t, 2, out.Tree.ChildrenCount(loca))
	first, _ := out.Tree.ChildAt(loca, 0)
	assert.Equal(t, TypeOffset16, out.Tree.ValueType(first))

	longLoca := &fontWriter{}
	longLoca.u32(0)
	longLoca.u32(4)
	font = sfntFont(magicTrueType,
		tableSpec{"head", headTable(1)},
		tableSpec{"maxp", maxpV05(1)},
		tableSpec{"loca", longLoca.b},
	)
	out, err = Parse(font)
	require.NoError(t, err)
	loca, ok = findRootChild(t, out.Tree, "Index to Location Table")
	require.True(t, ok)
	first, _ = out.Tree.ChildAt(loca, 0)
	assert.Equal(t, TypeOffset32, out.Tree.ValueType(first))
}

func TestParseHeadInvalidVersion(t *testing.T) {
	head := headTable(0)
	head[0] = 0x00
	head[1] = 0x02 // major version 2
	font := sfntFont(magicTrueType, tableSpec{"head", head})
	out, err := Parse(font)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "Failed to parse the 'head' table because invalid table version", out.Warnings[0])
}

func TestParseOpBudget(t *testing.T) {
	// A tiny budget trips the state-machine guard inside glyf's flag
	// decoding and is recovered as a table warning.
	g := &fontWriter{}
	g.i16(1)
	g.i16(0)
	g.i16(0)
	g.i16(1)
	g.i16(1)
	g.u16(0) // endpoint 0
	g.u16(0) // instructions
	g.u8(0x01)
	g.i16(1)
	g.i16(1)
	glyf := g.b
	for len(glyf)%2 != 0 {
		glyf = append(glyf, 0)
	}
	font := glyfFont(glyf, 1, []uint16{0, uint16(len(glyf) / 2)})

	out, err := Parse(font, WithOpBudget(1))
	require.NoError(t, err)
	var found bool
	for _, w := range out.Warnings {
		if w == "Failed to parse the 'glyf' table because budget exceeded" {
			found = true
		}
	}
	assert.True(t, found, "expected a budget warning, got %v", out.Warnings)
}

func TestParsedTreeIsNavigableByByte(t *testing.T) {
	font := sfntFont(magicTrueType, tableSpec{"maxp", maxpV05(0)})
	out, err := Parse(font)
	require.NoError(t, err)

	// Byte 0 is inside the header's magic leaf.
	id, ok := out.Tree.ItemAtByte(0)
	require.True(t, ok)
	assert.Equal(t, "Magic", out.Tree.Title(id))

	// The first byte of the maxp body is its version leaf.
	id, ok = out.Tree.ItemAtByte(28)
	require.True(t, ok)
	assert.Equal(t, "Version", out.Tree.Title(id))
}
