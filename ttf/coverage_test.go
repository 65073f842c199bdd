package ttf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeCoverageSortsAndDedupes(t *testing.T) {
	p := newParser(make([]byte, 8))
	require.NoError(t, p.jumpTo(4))
	require.NoError(t, p.readUnsupported(4))
	require.NoError(t, p.jumpTo(0))
	_, err := read[UInt32](p, "value")
	require.NoError(t, err)
	// Duplicate raw offsets happen when aliasing tables label the same
	// bytes twice.
	p.offsets = append(p.offsets, 0)

	cov := finalizeCoverage(p.tree, p.offsets, p.unsupported, 8)
	assert.Equal(t, []uint32{0, 4, 8}, cov.Offsets())
	assert.Equal(t, []uint32{4}, cov.Unsupported())
	assert.True(t, cov.IsUnsupported(4))
	assert.False(t, cov.IsUnsupported(0))
	assert.False(t, cov.IsUnsupported(5))
}

func TestCoverageRunsPartitionTheFile(t *testing.T) {
	font := sfntFont(magicTrueType,
		tableSpec{"zzzz", []byte{1, 2, 3, 4}},
		tableSpec{"maxp", maxpV05(0)},
	)
	out, err := Parse(font)
	require.NoError(t, err)

	offsets := out.Coverage.Offsets()
	require.NotEmpty(t, offsets)
	assert.Equal(t, uint32(0), offsets[0])
	assert.Equal(t, uint32(len(font)), offsets[len(offsets)-1])

	// Every run is either labeled by a leaf at its start or skipped.
	for i := 0; i+1 < len(offsets); i++ {
		o := offsets[i]
		if out.Coverage.IsUnsupported(o) {
			continue
		}
		id, ok := out.Tree.ItemAtByte(o)
		require.True(t, ok, "offset %d", o)
		start, end := out.Tree.Range(id)
		assert.LessOrEqual(t, start, o)
		assert.Greater(t, end, o)
	}
}
