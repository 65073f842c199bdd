/*
Package ttfexplorer inspects TrueType and OpenType font binaries.

The heavy lifting happens in the ttf sub-package, which walks a font
byte-by-byte and produces a labeled tree over the file's byte ranges.
This package is the thin entry layer: it loads a file from disk and
hands the result of parsing, together with the original bytes, to a
caller such as the interactive CLI in ttfcli.

# License

Governed by the MIT license.
*/
package ttfexplorer

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/RazrFalcon/ttf-explorer/internal/fontload"
	"github.com/RazrFalcon/ttf-explorer/ttf"
)

// tracer writes to trace with key 'ttfexplorer'
func tracer() tracing.Trace {
	return tracing.Select("ttfexplorer")
}

// Inspection is a parsed font file: the raw bytes, the labeled tree
// with its coverage summary, and any table-level warnings.
type Inspection struct {
	Fontname string
	Filepath string
	Binary   []byte
	Output   *ttf.ParseOutput
}

// InspectFile loads a font file and parses it into a byte tree.
// Table-level problems become warnings in the result; it fails when the
// file cannot be read or when ttf.Parse rejects the binary.
func InspectFile(path string, opts ...ttf.Option) (*Inspection, error) {
	f, err := fontload.Load(path)
	if err != nil {
		return nil, err
	}
	return inspect(f, opts...)
}

// Inspect parses an in-memory font binary.
func Inspect(data []byte, opts ...ttf.Option) (*Inspection, error) {
	return inspect(&fontload.FontFile{Binary: data}, opts...)
}

func inspect(f *fontload.FontFile, opts ...ttf.Option) (*Inspection, error) {
	out, err := ttf.Parse(f.Binary, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Infof("parsed '%s': %d nodes, %d warnings",
		f.Fontname, out.Tree.Len(), len(out.Warnings))
	return &Inspection{
		Fontname: f.Fontname,
		Filepath: f.Filepath,
		Binary:   f.Binary,
		Output:   out,
	}, nil
}
