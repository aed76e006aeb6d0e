// Package trie builds the multi-stage, constant-time lookup trie that
// compresses a dense per-codepoint PackedValue array down to a handful of
// small stage tables. The data model mirrors the symbol-table packing the
// teacher library (axiomhq/fsst) uses for byte strings: a cache keyed by
// content, a fallback scan for an existing occurrence, and greedy table
// growth — just applied to fixed-size chunks of arbitrary values instead of
// variable-length byte symbols.
package trie

import (
	"bytes"
	"unsafe"
)

// word is the working element type of the compression pipeline. The leaf
// stage ultimately holds narrow PackedValue bytes, but every intermediate
// stage holds offsets into the stage below it, which routinely exceed a
// single byte — so the whole pipeline works in a uniform 32-bit word and
// each Stage picks its own minimal emission width afterwards.
type word uint32

// compressStage implements the Stage Compressor of spec.md §4.2: given an
// input sequence and a chunk shift, it returns a deduplicated, overlap-fused
// "compressed" sequence containing every distinct chunk as a contiguous
// sub-sequence, plus the per-chunk offsets into it.
//
// Per chunk, in priority order:
//  1. an exact cache hit on the chunk's bytes reuses its offset;
//  2. failing that, an aligned full-substring search over the compressed
//     sequence so far reuses an existing occurrence;
//  3. failing that, the chunk is appended after fusing away its overlap with
//     the tail of the compressed sequence.
//
// The final, possibly short, chunk is treated as a full chunk throughout —
// no padding — which is the only sensible reading of an otherwise-silent
// spec given the 0x110000-length leaf array and the documented shift range.
func compressStage(u []word, shift int) (compressed, offsets []word) {
	chunkSize := 1 << shift
	cache := make(map[string]word, len(u)/chunkSize+1)
	compressed = make([]word, 0, len(u)/2)
	offsets = make([]word, 0, (len(u)+chunkSize-1)/chunkSize)

	for i := 0; i < len(u); i += chunkSize {
		end := i + chunkSize
		if end > len(u) {
			end = len(u)
		}
		chunk := u[i:end]
		key := wordsAsString(chunk)

		offset, ok := cache[key]
		if !ok {
			if existing := findAligned(compressed, chunk); existing >= 0 {
				offset = word(existing)
			} else {
				overlap := measureOverlap(compressed, chunk)
				offset = word(len(compressed) - overlap)
				compressed = append(compressed, chunk[overlap:]...)
			}
			cache[key] = offset
		}
		offsets = append(offsets, offset)
	}

	return compressed, offsets
}

// wordsAsString reinterprets a word slice as its raw bytes so it can key a
// map without per-call allocation.
func wordsAsString(v []word) string {
	if len(v) == 0 {
		return ""
	}
	return unsafe.String((*byte)(unsafe.Pointer(&v[0])), len(v)*int(unsafe.Sizeof(v[0])))
}

// findAligned returns the index of needle's first occurrence in haystack at
// an element-aligned offset, or -1 if there is none. It searches at the byte
// level with bytes.Index for speed, but a byte-level substring search admits
// matches starting mid-element; any such hit is rejected and the search
// resumes just past it; forward progress is guaranteed because each
// rejected position advances the search window by at least one byte.
func findAligned(haystack, needle []word) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}

	elemSize := int(unsafe.Sizeof(word(0)))
	h := unsafe.Slice((*byte)(unsafe.Pointer(&haystack[0])), len(haystack)*elemSize)
	n := unsafe.Slice((*byte)(unsafe.Pointer(&needle[0])), len(needle)*elemSize)

	pos := 0
	for {
		i := bytes.Index(h[pos:], n)
		if i == -1 {
			return -1
		}
		abs := pos + i
		if abs%elemSize == 0 {
			return abs / elemSize
		}
		pos = abs + 1
	}
}

// measureOverlap returns the largest k such that the last k elements of prev
// equal the first k elements of next.
func measureOverlap(prev, next []word) int {
	limit := min(len(prev), len(next))
	for overlap := limit; overlap > 0; overlap-- {
		if equalWords(prev[len(prev)-overlap:], next[:overlap]) {
			return overlap
		}
	}
	return 0
}

func equalWords(a, b []word) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
