// Package ucd parses the Unicode Character Database grouped XML format and
// folds it into a dense, codepoint-indexed array of PackedValue.
package ucd

// CharacterWidth is the East Asian display width class of a codepoint, as
// rendered by a terminal: how many cells it occupies.
type CharacterWidth uint8

const (
	WidthZero CharacterWidth = iota
	WidthNarrow
	WidthWide
	WidthAmbiguous
)

// ClusterBreak is the simplified grapheme-cluster-break class of a codepoint.
// The ordinal values are load-bearing: they index the join-rule tables in
// package graphemes, so this ordering must never change independently of
// those tables.
type ClusterBreak uint8

const (
	Other ClusterBreak = iota
	Control
	Extend
	RI
	Prepend
	HangulL
	HangulV
	HangulT
	HangulLV
	HangulLVT
	InCBLinker
	InCBConsonant
	ExtPic
	ZWJ

	ClusterBreakCount
)

// classBits is the number of low bits PackedValue reserves for ClusterBreak.
// ClusterBreakCount must fit, or the bit layout below silently truncates it.
const classBits = 4

func init() {
	if ClusterBreakCount > 1<<classBits {
		panic("ucd: ClusterBreak no longer fits in its packed bit field")
	}
}

// PackedValue packs a (ClusterBreak, CharacterWidth) pair into a single byte:
// low 4 bits hold the ClusterBreak ordinal, bits 4-5 are zero, and the top 2
// bits hold the CharacterWidth ordinal. Width sits at the top so extracting
// it is a single unsigned right-shift by 6, matching the emitted
// ucdToCharacterWidth accessor.
type PackedValue uint8

// NewPackedValue builds a PackedValue from its two fields.
func NewPackedValue(cb ClusterBreak, width CharacterWidth) PackedValue {
	return PackedValue(uint8(cb) | uint8(width)<<6)
}

// ClusterBreak extracts the low 4 bits.
func (v PackedValue) ClusterBreak() ClusterBreak {
	return ClusterBreak(v & 0x0F)
}

// CharacterWidth extracts the top 2 bits.
func (v PackedValue) CharacterWidth() CharacterWidth {
	return CharacterWidth(v >> 6)
}

// CodepointCount is the size of a ValueArray: one entry per Unicode scalar
// value 0..0x10FFFF, surrogates included (they carry the default value).
const CodepointCount = 0x110000

// ValueArray is the dense, per-codepoint table produced by ExtractValues and
// consumed by the trie builder.
type ValueArray []PackedValue

// NewValueArray allocates a ValueArray of CodepointCount entries, all set to
// the default value PackedValue(Other, WidthNarrow).
func NewValueArray() ValueArray {
	v := make(ValueArray, CodepointCount)
	fillRange(v, NewPackedValue(Other, WidthNarrow))
	return v
}

func fillRange(v []PackedValue, value PackedValue) {
	for i := range v {
		v[i] = value
	}
}
