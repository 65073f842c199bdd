// Package fontload reads font files from disk for the explorer.
//
// The inspector core only ever sees a byte slice; this package adds the
// small amount of file handling around it, plus a best-effort probe of
// the font's full name through x/image's sfnt parser for display
// purposes. A file the sfnt package rejects is still perfectly fine to
// inspect, so probe failures are not errors.
package fontload

import (
	"os"
	"path/filepath"

	"golang.org/x/image/font/sfnt"
)

// FontFile is a font binary loaded from disk.
type FontFile struct {
	Fontname string // full name from the name table, or the file name
	Filepath string
	Binary   []byte
}

// Load reads a font file into memory.
func Load(fontfile string) (*FontFile, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f := &FontFile{
		Filepath: fontfile,
		Binary:   bytez,
		Fontname: displayName(bytez),
	}
	if f.Fontname == "" {
		f.Fontname = filepath.Base(fontfile)
	}
	return f, nil
}

// displayName extracts the font's full name, if the binary parses as a
// single sfnt face. Collections and malformed fonts yield "".
func displayName(b []byte) string {
	f, err := sfnt.Parse(b)
	if err != nil {
		return ""
	}
	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}
