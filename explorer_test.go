package ttfexplorer

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalFont is an sfnt binary holding a single maxp v0.5 table.
func minimalFont() []byte {
	var b []byte
	u16 := func(v uint16) { b = binary.BigEndian.AppendUint16(b, v) }
	u32 := func(v uint32) { b = binary.BigEndian.AppendUint32(b, v) }

	u32(0x00010000) // sfnt magic
	u16(1)          // number of tables
	u16(16)
	u16(0)
	u16(0)
	b = append(b, "maxp"...)
	u32(0)  // checksum
	u32(28) // offset
	u32(6)  // length
	u32(0x00005000)
	u16(0)
	u16(0) // alignment padding
	return b
}

func TestInspect(t *testing.T) {
	insp, err := Inspect(minimalFont())
	require.NoError(t, err)
	require.NotNil(t, insp.Output)
	assert.Empty(t, insp.Output.Warnings)
	assert.Equal(t, 3, insp.Output.Tree.ChildrenCount(insp.Output.Tree.RootID()))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("not a font at all"))
	assert.Error(t, err)
}

func TestInspectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.ttf")
	require.NoError(t, os.WriteFile(path, minimalFont(), 0o644))

	insp, err := InspectFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, insp.Filepath)
	// The sfnt probe cannot name this skeleton font, so the file name
	// stands in.
	assert.Equal(t, "mini.ttf", insp.Fontname)
	assert.NotEmpty(t, insp.Output.Coverage.Offsets())
}

func TestInspectFileMissing(t *testing.T) {
	_, err := InspectFile(filepath.Join(t.TempDir(), "nope.ttf"))
	assert.Error(t, err)
}
