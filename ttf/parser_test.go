package ttf

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserReadAppendsLeaves(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttfexplorer.ttf")
	defer teardown()
	//
	p := newParser([]byte{0x00, 0x2A, 0x01})
	v, err := read[UInt16](p, "Answer")
	require.NoError(t, err)
	assert.Equal(t, UInt16(42), v)
	assert.Equal(t, uint32(2), p.offset())

	id, ok := p.tree.ChildAt(RootID, 0)
	require.True(t, ok)
	assert.Equal(t, "Answer", p.tree.Title(id))
	assert.Equal(t, "42", p.tree.Value(id))
	assert.Equal(t, TypeUInt16, p.tree.ValueType(id))
	start, end := p.tree.Range(id)
	assert.Equal(t, uint32(0), start)
	assert.Equal(t, uint32(2), end)
	assert.Equal(t, []uint32{0}, p.offsets)
}

func TestParserReadOutOfBounds(t *testing.T) {
	p := newParser([]byte{0x01})
	_, err := read[UInt32](p, "nope")
	assert.ErrorIs(t, err, errReadOutOfBounds)
	// Nothing is recorded on failure.
	assert.Equal(t, 1, p.tree.Len())
	assert.Equal(t, uint32(0), p.offset())
}

func TestParserPeekDoesNotAdvance(t *testing.T) {
	p := newParser([]byte{0x12, 0x34})
	v, err := peek[UInt16](p)
	assert.NoError(t, err)
	assert.Equal(t, UInt16(0x1234), v)
	assert.Equal(t, uint32(0), p.offset())
	assert.Equal(t, 1, p.tree.Len())
}

func TestParserGroupRanges(t *testing.T) {
	p := newParser([]byte{0, 1, 0, 2, 0, 3})
	p.beginGroup("outer")
	_, err := read[UInt16](p, "a")
	require.NoError(t, err)
	_, err = read[UInt16](p, "b")
	require.NoError(t, err)
	p.endGroup()

	group, ok := p.tree.ChildAt(RootID, 0)
	require.True(t, ok)
	start, end := p.tree.Range(group)
	assert.Equal(t, uint32(0), start)
	assert.Equal(t, uint32(4), end)
	assert.Equal(t, 2, p.tree.ChildrenCount(group))
}

func TestEndGroupLateBinding(t *testing.T) {
	p := newParser([]byte{0, 1})
	p.beginGroup("")
	_, err := read[UInt16](p, "a")
	require.NoError(t, err)
	p.endGroupWith("Late Title", "late value")

	group, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, "Late Title", p.tree.Title(group))
	assert.Equal(t, "late value", p.tree.Value(group))
}

func TestEndGroupKeepsEmptyGroupsUntitled(t *testing.T) {
	p := newParser([]byte{0, 1})
	p.beginGroup("before")
	p.endGroupWith("after", "value")
	// Empty groups do not late-bind.
	group, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, "before", p.tree.Title(group))
	assert.Equal(t, "", p.tree.Value(group))
}

func TestReadArrayElidesEmpty(t *testing.T) {
	p := newParser([]byte{0, 1})
	err := p.readArray("Stuff", 0, func(uint32) error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, p.tree.Len())
}

func TestReadBasicArray(t *testing.T) {
	p := newParser([]byte{0, 1, 0, 2, 0, 3})
	err := readBasicArray[UInt16](p, "Values", 3)
	require.NoError(t, err)

	array, ok := p.tree.ChildAt(RootID, 0)
	require.True(t, ok)
	assert.Equal(t, "Values", p.tree.Title(array))
	assert.Equal(t, "3 items", p.tree.Value(array))
	assert.Equal(t, TypeArray, p.tree.ValueType(array))
	require.Equal(t, 3, p.tree.ChildrenCount(array))

	second, _ := p.tree.ChildAt(array, 1)
	assert.Equal(t, "1", p.tree.Title(second))
	index, ok := p.tree.Index(second)
	require.True(t, ok)
	assert.Equal(t, uint32(1), index)
}

func TestUndoRestoresBuilderState(t *testing.T) {
	p := newParser([]byte{0, 1, 0, 2, 0, 3, 0, 4})
	_, err := read[UInt16](p, "keep")
	require.NoError(t, err)

	cp := p.checkpoint()
	p.beginGroup("doomed")
	_, err = read[UInt16](p, "a")
	require.NoError(t, err)
	p.beginGroup("inner")
	_, err = read[UInt16](p, "b")
	require.NoError(t, err)
	p.undo(cp)

	assert.Equal(t, 2, p.tree.Len()) // root + "keep"
	assert.Equal(t, 1, p.tree.ChildrenCount(RootID))
	assert.Equal(t, uint32(2), p.offset())
	assert.Equal(t, 1, len(p.offsets))
	assert.Equal(t, RootID, p.parent)

	// The builder keeps working after the rollback.
	_, err = read[UInt16](p, "next")
	require.NoError(t, err)
	id, _ := p.tree.ChildAt(RootID, 1)
	assert.Equal(t, "next", p.tree.Title(id))
}

func TestReadUnsupportedMarksCoverage(t *testing.T) {
	p := newParser(make([]byte, 8))
	require.NoError(t, p.readUnsupported(4))
	assert.Equal(t, []uint32{0}, p.unsupported)
	assert.Equal(t, []uint32{0}, p.offsets)

	id, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, titleUnsupported, p.tree.Title(id))
}

func TestAdvanceToBackwardFails(t *testing.T) {
	p := newParser(make([]byte, 8))
	require.NoError(t, p.jumpTo(4))
	assert.ErrorIs(t, p.advanceTo(2), errAdvanceBackwards)
	assert.NoError(t, p.advanceTo(4))
}

func TestPadToCreatesPaddingLeaf(t *testing.T) {
	p := newParser(make([]byte, 8))
	require.NoError(t, p.padTo(3))
	id, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, titlePadding, p.tree.Title(id))
	assert.Equal(t, TypeBytes, p.tree.ValueType(id))
	assert.Empty(t, p.unsupported)
}

func TestIndexLabelCache(t *testing.T) {
	p := newParser(nil)
	assert.Equal(t, "0", p.indexLabel(0))
	assert.Equal(t, "7", p.indexLabel(7))
	assert.Equal(t, "3", p.indexLabel(3))
}

func TestInternReturnsSameString(t *testing.T) {
	p := newParser(nil)
	a := p.intern("Glyph " + p.indexLabel(1))
	b := p.intern("Glyph " + p.indexLabel(1))
	assert.Equal(t, a, b)
}

func TestOpBudget(t *testing.T) {
	p := newParser(nil)
	p.budget = 2
	assert.NoError(t, p.step(1))
	assert.ErrorIs(t, p.step(1), errBudgetExceeded)
}

func TestReadNameID(t *testing.T) {
	p := newParser([]byte{0x00, 0x02, 0x00, 0x63})
	names := map[uint16]string{2: "Subfamily"}
	name, err := p.readNameID("Name ID", names)
	require.NoError(t, err)
	assert.Equal(t, "Subfamily", name)
	id, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, "Subfamily (2)", p.tree.Value(id))

	name, err = p.readNameID("Name ID", names)
	require.NoError(t, err)
	assert.Equal(t, "", name)
	id, _ = p.tree.ChildAt(RootID, 1)
	assert.Equal(t, "99", p.tree.Value(id))
}

func TestReadPascalString(t *testing.T) {
	p := newParser([]byte{0x03, 'a', 'b', 'c'})
	value, err := p.readPascalString()
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	group, _ := p.tree.ChildAt(RootID, 0)
	assert.Equal(t, "abc", p.tree.Title(group))
	assert.Equal(t, 2, p.tree.ChildrenCount(group))
}

func TestFinishLabelsTrailingBytes(t *testing.T) {
	p := newParser(make([]byte, 10))
	_, err := read[UInt32](p, "head")
	require.NoError(t, err)
	p.finish()
	assert.Equal(t, uint32(10), p.offset())
	assert.Equal(t, []uint32{4}, p.unsupported)
	assert.Equal(t, uint32(10), p.offsets[len(p.offsets)-1])
}
