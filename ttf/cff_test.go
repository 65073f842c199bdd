package ttf

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCffFloat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttfexplorer.ttf")
	defer teardown()
	//
	p := newParser(nil)

	// 0.140541E-3, from the CFF specification: ten nibbles, so the 0xF
	// sentinel fills the whole last byte.
	s := newShadow([]byte{0x0A, 0x14, 0x05, 0x41, 0xC3, 0xFF})
	v, err := parseCffFloat(&s, p)
	require.NoError(t, err)
	assert.Equal(t, "0.000140541", v)

	// -2.25
	s = newShadow([]byte{0xE2, 0xA2, 0x5F})
	v, err = parseCffFloat(&s, p)
	require.NoError(t, err)
	assert.Equal(t, "-2.25", v)

	// Reserved nibble 0xD fails.
	s = newShadow([]byte{0xD0, 0x0F})
	_, err = parseCffFloat(&s, p)
	assert.ErrorIs(t, err, errInvalidFloat)
}

func cffTable() []byte {
	w := &fontWriter{}
	// Header.
	w.u8(1)
	w.u8(0)
	w.u8(4) // header size
	w.u8(4) // absolute offset
	// Name INDEX: one entry, "test".
	w.u16(1)
	w.u8(1) // offset size
	w.u8(1)
	w.u8(5)
	w.raw([]byte("test"))
	// Top DICT INDEX: one dict {0 Version}.
	w.u16(1)
	w.u8(1)
	w.u8(1)
	w.u8(3)
	w.u8(0x8B) // operand 0
	w.u8(0x00) // operator: Version
	// String INDEX: empty.
	w.u16(0)
	// Global Subr INDEX: empty.
	w.u16(0)
	return w.b
}

func TestParseCffTable(t *testing.T) {
	font := sfntFont(magicOpenType, tableSpec{"CFF ", cffTable()})
	out, err := Parse(font)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	cff, ok := findRootChild(t, out.Tree, "Compact Font Format Table")
	require.True(t, ok)

	var titles []string
	for row := 0; row < out.Tree.ChildrenCount(cff); row++ {
		id, _ := out.Tree.ChildAt(cff, row)
		titles = append(titles, out.Tree.Title(id))
	}
	assert.Contains(t, titles, "Header")
	assert.Contains(t, titles, "Name INDEX")
	assert.Contains(t, titles, "Top DICT INDEX")
	assert.Contains(t, titles, "String INDEX")
	assert.Contains(t, titles, "Global Subr INDEX")

	// The name entry decodes as a string leaf.
	var foundName bool
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if out.Tree.Value(id) == "test" && out.Tree.ValueType(id) == TypeString {
			foundName = true
		}
		for row := 0; row < out.Tree.ChildrenCount(id); row++ {
			child, _ := out.Tree.ChildAt(id, row)
			walk(child)
		}
	}
	walk(cff)
	assert.True(t, foundName, "Name INDEX entry decoded")

	assertCoverageInvariants(t, out, uint32(len(font)))
	assertTreeInvariants(t, out.Tree, uint32(len(font)))
}

func TestDictOperandEncodings(t *testing.T) {
	// Operands in every encoding, terminated by the Version operator:
	// 28 (3-byte int16), 29 (5-byte int32), one-byte, two-byte
	// positive, two-byte negative.
	data := []byte{
		28, 0xFF, 0x38, // -200
		29, 0x00, 0x01, 0x00, 0x00, // 65536
		0x8B,       // 0
		0xF7, 0x00, // 108
		0xFB, 0x00, // -108
		0x00, // Version
	}
	p := newParser(data)
	dict, err := parseDict(p, uint32(len(data)), cffOperatorName)
	require.NoError(t, err)

	operands, ok := dict.operands(cffOpVersion)
	require.True(t, ok)
	assert.Equal(t, []float64{-200, 65536, 0, 108, -108}, operands)
}

func TestCharstringHaltsAtEndchar(t *testing.T) {
	// rmoveto-ish numbers followed by endchar, then trailing garbage
	// that must stay unread.
	data := []byte{0x8B, 0x8B, 21, 14, 0xAA, 0xBB}
	p := newParser(data)
	err := runIndexEntry(p, 0, uint32(len(data)), 0, func(start, end, index uint32) error {
		return parseCharstring(p, start, end, index, cffVersion1)
	})
	require.NoError(t, err)

	// The two bytes after endchar are skipped as Unsupported.
	assert.Equal(t, []uint32{4}, p.unsupported)

	group, ok := p.tree.ChildAt(RootID, 0)
	require.True(t, ok)
	last, _ := p.tree.ChildAt(group, p.tree.ChildrenCount(group)-1)
	assert.Equal(t, "Endchar (endchar)", p.tree.Title(last))
}
