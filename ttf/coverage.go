package ttf

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Coverage summarizes which bytes of the input the parser labeled and
// which it skipped. Offsets holds every recognized leaf start plus the
// input length as a sentinel; Unsupported holds the starts of skipped
// spans. Together the two sorted sequences partition the file into
// labeled and skipped runs for the hex view.
type Coverage struct {
	offsets     []uint32
	unsupported []uint32
}

// Offsets returns the sorted, deduplicated leaf-start offsets, ending
// with the input-length sentinel.
func (c Coverage) Offsets() []uint32 { return c.offsets }

// Unsupported returns the sorted starts of skipped spans. It is always
// a subset of Offsets.
func (c Coverage) Unsupported() []uint32 { return c.unsupported }

// IsUnsupported reports whether the run starting at offset was skipped.
func (c Coverage) IsUnsupported(offset uint32) bool {
	lo, hi := 0, len(c.unsupported)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.unsupported[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(c.unsupported) && c.unsupported[lo] == offset
}

// finalizeCoverage turns the raw append-only offset logs into the two
// sorted arrays, then verifies that every run between consecutive
// offsets is either labeled by a leaf or marked unsupported.
func finalizeCoverage(tree *Tree, rawOffsets, rawUnsupported []uint32, n uint32) Coverage {
	offsetSet := treeset.NewWith(utils.UInt32Comparator)
	for _, o := range rawOffsets {
		offsetSet.Add(o)
	}
	offsetSet.Add(n)

	unsupportedSet := treeset.NewWith(utils.UInt32Comparator)
	for _, o := range rawUnsupported {
		unsupportedSet.Add(o)
	}

	cov := Coverage{
		offsets:     make([]uint32, 0, offsetSet.Size()),
		unsupported: make([]uint32, 0, unsupportedSet.Size()),
	}
	for _, v := range offsetSet.Values() {
		cov.offsets = append(cov.offsets, v.(uint32))
	}
	for _, v := range unsupportedSet.Values() {
		cov.unsupported = append(cov.unsupported, v.(uint32))
	}

	verifyCoverage(tree, cov, n)
	return cov
}

// verifyCoverage is a single linear pass over the final structure. A
// violation means a parser bug, not a malformed font; it is traced, not
// fatal.
func verifyCoverage(tree *Tree, cov Coverage, n uint32) {
	if len(cov.offsets) == 0 || cov.offsets[len(cov.offsets)-1] != n {
		tracer().Errorf("coverage: missing end sentinel %d", n)
		return
	}
	for _, u := range cov.unsupported {
		if !hasOffset(cov.offsets, u) {
			tracer().Errorf("coverage: unsupported offset %d missing from offsets", u)
		}
	}
	for i := 0; i+1 < len(cov.offsets); i++ {
		o := cov.offsets[i]
		if cov.IsUnsupported(o) {
			continue
		}
		if _, ok := tree.ItemAtByte(o); !ok {
			tracer().Errorf("coverage: no leaf labels the run at offset %d", o)
		}
	}
}

func hasOffset(sorted []uint32, o uint32) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < o {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(sorted) && sorted[lo] == o
}
