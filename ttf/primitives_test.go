package ttf

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestPrimitiveDecoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttfexplorer.ttf")
	defer teardown()
	//
	s := newShadow([]byte{0xFF, 0x80, 0x00, 0x2A})
	v8, err := sread[UInt8](&s)
	assert.NoError(t, err)
	assert.Equal(t, UInt8(0xFF), v8)
	i8, err := sread[Int8](&s)
	assert.NoError(t, err)
	assert.Equal(t, Int8(-128), i8)
	u16, err := sread[UInt16](&s)
	assert.NoError(t, err)
	assert.Equal(t, UInt16(42), u16)
	_, err = sread[UInt8](&s)
	assert.ErrorIs(t, err, errReadOutOfBounds)
}

func TestPrimitiveWidths(t *testing.T) {
	assert.Equal(t, uint32(1), UInt8(0).width())
	assert.Equal(t, uint32(2), Int16(0).width())
	assert.Equal(t, uint32(3), UInt24(0).width())
	assert.Equal(t, uint32(4), Fixed(0).width())
	assert.Equal(t, uint32(4), Tag(0).width())
	assert.Equal(t, uint32(8), LongDateTime(0).width())
}

func TestUInt24Decoding(t *testing.T) {
	s := newShadow([]byte{0x01, 0x02, 0x03})
	v, err := sread[UInt24](&s)
	assert.NoError(t, err)
	assert.Equal(t, UInt24(0x010203), v)
}

func TestFixedRendering(t *testing.T) {
	// One unit is 1/65536; whole values force a trailing ".0".
	var v Fixed
	v.parse([]byte{0x00, 0x01, 0x00, 0x00})
	assert.Equal(t, "1.0", v.render())
	v.parse([]byte{0x00, 0x01, 0x80, 0x00})
	assert.Equal(t, "1.5", v.render())
	v.parse([]byte{0xFF, 0xFF, 0x00, 0x00})
	assert.Equal(t, "-1.0", v.render())
}

func TestF2DOT14Rendering(t *testing.T) {
	var v F2DOT14
	v.parse([]byte{0x40, 0x00})
	assert.Equal(t, "1.0", v.render())
	v.parse([]byte{0x60, 0x00})
	assert.Equal(t, "1.5", v.render())
	v.parse([]byte{0xC0, 0x00})
	assert.Equal(t, "-1.0", v.render())
}

func TestTag(t *testing.T) {
	tag := T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	var v Tag
	v.parse([]byte("glyf"))
	if v != T("glyf") {
		t.Errorf("expected parsed tag to equal T(glyf)")
	}
	if v.render() != "glyf" {
		t.Errorf("expected tag rendering 'glyf', got %s", v.render())
	}
}

func TestOptionalOffsetRendering(t *testing.T) {
	var v16 OptOffset16
	v16.parse([]byte{0x00, 0x00})
	assert.Equal(t, "NULL", v16.render())
	assert.True(t, v16.isNull())
	v16.parse([]byte{0x00, 0x0C})
	assert.Equal(t, "12", v16.render())

	var v32 OptOffset32
	v32.parse([]byte{0x00, 0x00, 0x00, 0x00})
	assert.Equal(t, "NULL", v32.render())
}

func TestLongDateTimeRendering(t *testing.T) {
	var v LongDateTime
	v.parse([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, "1904-01-01 00:00:00", v.render())
	// One day later.
	v.parse([]byte{0, 0, 0, 0, 0, 0x01, 0x51, 0x80})
	assert.Equal(t, "1904-01-02 00:00:00", v.render())
}

func TestBitPrefixRendering(t *testing.T) {
	assert.Equal(t, "00000001", bitPrefix8(1))
	assert.Equal(t, "10000000", bitPrefix8(0x80))
	assert.Equal(t, "0000000000000011", bitPrefix16(3))
}

func TestHeadFlagsRendering(t *testing.T) {
	var v headFlags
	v.parse([]byte{0x00, 0x03})
	s := v.render()
	assert.Contains(t, s, "0000000000000011")
	assert.Contains(t, s, "Bit 0: Baseline for font at y=0")
	assert.Contains(t, s, "Bit 1: Left sidebearing point at x=0")
}

func TestMacRomanDecoding(t *testing.T) {
	// 0xA5 is the bullet in Mac OS Roman.
	assert.Equal(t, "A•", decodeMacRoman([]byte{0x41, 0xA5}))
}

func TestUTF16BEDecoding(t *testing.T) {
	assert.Equal(t, "Fam", decodeUTF16BE([]byte{0x00, 'F', 0x00, 'a', 0x00, 'm'}))
}

func TestPrettySize(t *testing.T) {
	assert.Equal(t, "12B", prettySize(12))
	assert.Equal(t, "2.00KiB", prettySize(2048))
}
