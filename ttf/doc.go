/*
Package ttf walks a TrueType/OpenType font binary and produces a labeled,
hierarchical description of every byte it recognizes.

The result of Parse is a single tree whose leaves cover disjoint byte
ranges of the input, suitable for driving a hex viewer and a structural
tree view. Parsing is strictly read-only: the package does not validate
fonts beyond what parsing requires, does not render glyphs, and does not
rewrite or emit fonts.

Fonts in the wild are frequently malformed, so a broken table must not
poison the rest of the file. Every per-table parser runs under a recovery
boundary: on failure its partial subtree is discarded, a human-readable
warning is recorded, and parsing continues with the next table. Only an
unrecognized top-level magic aborts the whole parse.

Byte offsets are preserved exactly. All ranges stored in the tree are
absolute file offsets, even when the binary encodes them relative to a
table or subtable start.

# Recognized tables

avar, ankr, bdat, bloc, CBDT, CBLC, CFF , CFF2, cmap, cvt , EBDT, EBLC,
feat, fpgm, fvar, GDEF, glyf, gvar, head, hhea, hmtx, HVAR, kern, loca,
maxp, MVAR, name, OS/2, post, prep, sbix, STAT, SVG , trak, vhea, vmtx,
VORG, VVAR. Anything else is labeled with its table-directory name and
skipped as Unsupported.

# License

Governed by the MIT license.
*/
package ttf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ttfexplorer.ttf'
func tracer() tracing.Trace {
	return tracing.Select("ttfexplorer.ttf")
}
