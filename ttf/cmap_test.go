package ttf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmapFormat4Table() []byte {
	w := &fontWriter{}
	w.u16(0) // version
	w.u16(1) // one encoding record
	// Record: Windows / Unicode BMP.
	w.u16(3)
	w.u16(1)
	w.u32(12)
	// Format 4 subtable with a single terminating segment.
	w.u16(4)
	w.u16(24) // subtable size
	w.u16(0)  // language
	w.u16(2)  // 2 × segCount
	w.u16(2)  // search range
	w.u16(0)  // entry selector
	w.u16(0)  // range shift
	w.u16(0xFFFF)
	w.u16(0) // reserved
	w.u16(0xFFFF)
	w.i16(1)
	w.u16(0)
	return w.b
}

func TestParseCmapFormat4(t *testing.T) {
	font := sfntFont(magicTrueType, tableSpec{"cmap", cmapFormat4Table()})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	cmap, ok := findRootChild(t, out.Tree, "Character to Glyph Index Mapping Table")
	require.True(t, ok)

	var subtable NodeID
	for row := 0; row < out.Tree.ChildrenCount(cmap); row++ {
		id, _ := out.Tree.ChildAt(cmap, row)
		if out.Tree.Title(id) == "Subtable 4" {
			subtable = id
		}
	}
	require.NotZero(t, subtable)
	assert.Equal(t, "Segment mapping to delta values", out.Tree.Value(subtable))

	assertCoverageInvariants(t, out, uint32(len(font)))
	assertTreeInvariants(t, out.Tree, uint32(len(font)))
}

func TestParseCmapInvalidVersion(t *testing.T) {
	w := &fontWriter{}
	w.u16(9)
	w.u16(0)
	font := sfntFont(magicTrueType, tableSpec{"cmap", w.b})
	out, err := Parse(font)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "Failed to parse the 'cmap' table because invalid table version", out.Warnings[0])
}

func fvarTable() []byte {
	w := &fontWriter{}
	w.u16(1)  // major version
	w.u16(0)  // minor version
	w.u16(16) // offset to axes
	w.u16(2)  // reserved
	w.u16(1)  // axis count
	w.u16(20) // axis record size
	w.u16(0)  // instance count
	w.u16(8)  // instance record size
	// Axis record.
	w.tag("wght")
	w.u32(100 << 16) // min 100.0
	w.u32(400 << 16) // default 400.0
	w.u32(900 << 16) // max 900.0
	w.u16(0)         // qualifiers
	w.u16(256)       // name id
	return w.b
}

func nameTableWithWeight() []byte {
	w := &fontWriter{}
	w.u16(0)
	w.u16(1)
	w.u16(18)
	// Windows / Unicode BMP / en-US / id 256 → "Weight".
	w.u16(3)
	w.u16(1)
	w.u16(0x0409)
	w.u16(256)
	w.u16(12)
	w.u16(0)
	w.raw([]byte{0x00, 'W', 0x00, 'e', 0x00, 'i', 0x00, 'g', 0x00, 'h', 0x00, 't'})
	return w.b
}

func TestParseFvarResolvesNames(t *testing.T) {
	font := sfntFont(magicTrueType,
		tableSpec{"name", nameTableWithWeight()},
		tableSpec{"fvar", fvarTable()},
	)
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	fvar, ok := findRootChild(t, out.Tree, "Font Variations Table")
	require.True(t, ok)

	var axisTitle, nameValue string
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if out.Tree.Title(id) == "Axis wght" {
			axisTitle = out.Tree.Title(id)
		}
		if out.Tree.Title(id) == "The name ID" {
			nameValue = out.Tree.Value(id)
		}
		for row := 0; row < out.Tree.ChildrenCount(id); row++ {
			child, _ := out.Tree.ChildAt(id, row)
			walk(child)
		}
	}
	walk(fvar)
	assert.Equal(t, "Axis wght", axisTitle)
	assert.Equal(t, "Weight (256)", nameValue)
}
