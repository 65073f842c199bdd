package ttf

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// shadowParser is a bounds-checked cursor over a byte window that does
// not touch the tree. It is used for look-ahead: cross-table values the
// dispatcher extracts before the owning table is parsed, and in-table
// probes (CFF floats, kern state machines) that must not emit leaves.
type shadowParser struct {
	data []byte
	off  uint32
}

func newShadow(data []byte) shadowParser {
	return shadowParser{data: data}
}

func (s *shadowParser) offset() uint32 { return s.off }

func (s *shadowParser) left() uint32 { return uint32(len(s.data)) - s.off }

func (s *shadowParser) atEnd() bool { return s.off >= uint32(len(s.data)) }

func (s *shadowParser) outOfBounds(size uint32) bool {
	return uint64(s.off)+uint64(size) > uint64(len(s.data))
}

func (s *shadowParser) jumpTo(offset uint32) error {
	if offset > uint32(len(s.data)) {
		return errReadOutOfBounds
	}
	s.off = offset
	return nil
}

func (s *shadowParser) advance(size uint32) error {
	if s.outOfBounds(size) {
		return errReadOutOfBounds
	}
	s.off += size
	return nil
}

func (s *shadowParser) advanceTo(offset uint32) error {
	switch {
	case offset < s.off:
		return errAdvanceBackwards
	case offset == s.off:
		return nil
	default:
		return s.advance(offset - s.off)
	}
}

// shadow returns a sub-cursor over the remaining window.
func (s *shadowParser) shadow() shadowParser {
	return shadowParser{data: s.data[s.off:]}
}

func (s *shadowParser) readBytes(size uint32) ([]byte, error) {
	if s.outOfBounds(size) {
		return nil, errReadOutOfBounds
	}
	b := s.data[s.off : s.off+size]
	s.off += size
	return b, nil
}

// sread decodes one primitive and advances the cursor.
func sread[T any, PT primitive[T]](s *shadowParser) (T, error) {
	var v T
	pt := PT(&v)
	w := pt.width()
	if s.outOfBounds(w) {
		return v, errReadOutOfBounds
	}
	pt.parse(s.data[s.off:])
	s.off += w
	return v, nil
}

// sskip advances the cursor over one primitive without decoding it.
func sskip[T any, PT primitive[T]](s *shadowParser) error {
	var v T
	return s.advance(PT(&v).width())
}

var (
	utf16beDecoder  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	macRomanCharmap = charmap.Macintosh
)

// decodeUTF16BE converts big-endian UTF-16 bytes to a Go string.
// An odd trailing byte is dropped, matching what font consumers do.
func decodeUTF16BE(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	out, err := utf16beDecoder.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// decodeMacRoman converts Mac OS Roman bytes to a Go string using the
// standard Apple mapping.
func decodeMacRoman(b []byte) string {
	out, err := macRomanCharmap.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

func (s *shadowParser) readUTF16String(length uint32) (string, error) {
	b, err := s.readBytes(length)
	if err != nil {
		return "", err
	}
	return decodeUTF16BE(b), nil
}

func (s *shadowParser) readMacRomanString(length uint32) (string, error) {
	b, err := s.readBytes(length)
	if err != nil {
		return "", err
	}
	return decodeMacRoman(b), nil
}
