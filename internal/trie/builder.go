package trie

import (
	"math"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

// rootMask is the sentinel mask used for the root stage, which has no real
// chunk boundary: lookups there compute cp >> shift with no masking at all.
const rootMask = math.MaxInt32

// Stage is one level of the lookup trie: an array of values to index into,
// the shift that extracts this stage's slice of a codepoint, and the mask
// that confines that slice to this stage's chunk size (rootMask for the
// root stage, which effectively has none).
type Stage struct {
	Values []word
	Shift  int
	Mask   int
	Bits   int
}

// Trie is an ordered sequence of stages, root first, leaf last, together
// with the total byte size of its tables.
type Trie struct {
	Stages    []*Stage
	TotalSize int
}

// Lookup replays the §3 lookup algorithm for a single codepoint. It exists
// primarily for the Sanity Verifier and for tests; the emitted C++ accessor
// implements the same algorithm directly against the chosen stage arrays.
func (t *Trie) Lookup(cp int) ucd.PackedValue {
	var i word
	for _, s := range t.Stages {
		i = s.Values[int(i)+((cp>>s.Shift)&s.Mask)]
	}
	return ucd.PackedValue(i)
}

// BuildTrie implements the Trie Builder of spec.md §4.3: it runs the Stage
// Compressor once per shift in shifts, leaf-to-root, threading each stage's
// offsets into the next, then reverses the result so the root stage comes
// first and assigns each stage its minimal emission width.
func BuildTrie(values ucd.ValueArray, shifts []int) *Trie {
	work := make([]word, len(values))
	for i, v := range values {
		work[i] = word(v)
	}

	var cumulativeShift int
	var stages []*Stage

	for _, shift := range shifts {
		compressed, offsets := compressStage(work, shift)
		stages = append(stages, &Stage{
			Values: compressed,
			Shift:  cumulativeShift,
			Mask:   (1 << shift) - 1,
		})
		work = offsets
		cumulativeShift += shift
	}

	stages = append(stages, &Stage{
		Values: work,
		Shift:  cumulativeShift,
		Mask:   rootMask,
	})

	reverse(stages)

	totalSize := 0
	for _, s := range stages {
		s.Bits = bitSize(maxOf(s.Values))
		totalSize += (s.Bits / 8) * len(s.Values)
	}

	return &Trie{Stages: stages, TotalSize: totalSize}
}

func reverse(s []*Stage) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func maxOf(v []word) word {
	var m word
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

// bitSize returns the smallest of {8, 16, 32} that admits x.
func bitSize(x word) int {
	switch {
	case x <= 0xff:
		return 8
	case x <= 0xffff:
		return 16
	default:
		return 32
	}
}
