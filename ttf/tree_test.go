package ttf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTree(t *testing.T) *Parser {
	t.Helper()
	p := newParser(make([]byte, 12))
	p.beginGroup("table")
	if _, err := read[UInt16](p, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := read[UInt16](p, "b"); err != nil {
		t.Fatal(err)
	}
	p.beginGroup("inner")
	if _, err := read[UInt32](p, "c"); err != nil {
		t.Fatal(err)
	}
	p.endGroup()
	p.endGroup()
	return p
}

func TestTreeNavigation(t *testing.T) {
	p := buildSampleTree(t)
	tree := p.tree

	assert.Equal(t, RootID, tree.RootID())
	require.Equal(t, 1, tree.ChildrenCount(RootID))

	table, ok := tree.ChildAt(RootID, 0)
	require.True(t, ok)
	assert.Equal(t, "table", tree.Title(table))
	assert.True(t, tree.HasChildren(table))
	assert.Equal(t, 3, tree.ChildrenCount(table))

	inner, ok := tree.ChildAt(table, 2)
	require.True(t, ok)
	assert.Equal(t, "inner", tree.Title(inner))
	assert.Equal(t, 2, tree.ChildIndex(inner))

	parent, ok := tree.Parent(inner)
	require.True(t, ok)
	assert.Equal(t, table, parent)

	_, ok = tree.Parent(RootID)
	assert.False(t, ok)
	_, ok = tree.ChildAt(table, 99)
	assert.False(t, ok)
}

func TestTreeItemAtByte(t *testing.T) {
	p := buildSampleTree(t)
	tree := p.tree

	// Offsets 0..3 belong to the two UInt16 leaves.
	id, ok := tree.ItemAtByte(0)
	require.True(t, ok)
	assert.Equal(t, "a", tree.Title(id))
	id, ok = tree.ItemAtByte(3)
	require.True(t, ok)
	assert.Equal(t, "b", tree.Title(id))

	// Offsets 4..7 belong to the nested UInt32 leaf.
	id, ok = tree.ItemAtByte(6)
	require.True(t, ok)
	assert.Equal(t, "c", tree.Title(id))

	// Bytes past the parsed region have no leaf.
	_, ok = tree.ItemAtByte(9)
	assert.False(t, ok)
	_, ok = tree.ItemAtByte(100)
	assert.False(t, ok)
}

func TestTreeLeafInvariants(t *testing.T) {
	p := buildSampleTree(t)
	assertTreeInvariants(t, p.tree, uint32(len(p.data)))
}

// assertTreeInvariants checks the structural guarantees every parsed
// tree upholds: childless nodes (leaves, and empty groups kept with
// start == end) have ordered ranges inside the file, group ranges span
// their children, and leaf siblings do not overlap.
func assertTreeInvariants(t *testing.T, tree *Tree, n uint32) {
	t.Helper()
	for id := NodeID(1); int(id) < tree.Len(); id++ {
		start, end := tree.Range(id)
		if tree.HasChildren(id) {
			firstChild, _ := tree.ChildAt(id, 0)
			lastChild, _ := tree.ChildAt(id, tree.ChildrenCount(id)-1)
			cStart, _ := tree.Range(firstChild)
			_, cEnd := tree.Range(lastChild)
			assert.Equal(t, cStart, start, "group %d start", id)
			assert.GreaterOrEqual(t, end, cEnd, "group %d end", id)
		} else {
			assert.LessOrEqual(t, start, end, "leaf %d range", id)
			assert.LessOrEqual(t, end, n, "leaf %d end inside file", id)
		}
		// Adjacent leaf siblings do not overlap.
		for row := 1; row < tree.ChildrenCount(id); row++ {
			prev, _ := tree.ChildAt(id, row-1)
			cur, _ := tree.ChildAt(id, row)
			_, prevEnd := tree.Range(prev)
			curStart, _ := tree.Range(cur)
			if !tree.HasChildren(prev) && !tree.HasChildren(cur) {
				assert.LessOrEqual(t, prevEnd, curStart,
					"leaf siblings %d/%d under %d overlap", prev, cur, id)
			}
		}
	}
}
