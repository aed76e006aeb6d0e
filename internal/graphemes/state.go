package graphemes

import "github.com/ucdgen/ucdgen/internal/ucd"

// GraphemeJoins implements the contract of the emitted ucdGraphemeJoins
// accessor (spec.md §4.6): given the current state and the ClusterBreak
// ordinals of the previous ("lead") and incoming ("trail") scalar, it
// returns the next state.
func GraphemeJoins(packed [2][rulesRowWidth]uint32, state uint8, lead, trail ucd.ClusterBreak) uint8 {
	l := lead & 0x0F
	t := trail & 0x0F
	return uint8(packed[state][l]>>(uint32(t)*uint32(omegaBits))) & Omega
}

// GraphemeDone implements ucdGraphemeDone: true iff state is the break
// sentinel Omega.
func GraphemeDone(state uint8) bool {
	return state == Omega
}

// ToCharacterWidth implements ucdToCharacterWidth: a cluster's width is
// always the CharacterWidth of its first scalar value.
func ToCharacterWidth(v ucd.PackedValue) ucd.CharacterWidth {
	return v.CharacterWidth()
}

// Iterator walks a sequence of PackedValue and reports cluster boundaries by
// driving the same state machine the emitted accessors implement. It is not
// part of the emitted module — it exists so tests can exercise §4.6
// without hand-simulating transitions, the same role the
// teacher's Example tests play for round-tripping Table.Encode/Decode.
type Iterator struct {
	packed [2][rulesRowWidth]uint32
	state  uint8
	lead   ucd.ClusterBreak
	first  bool
}

// NewIterator returns an Iterator ready to classify the first scalar of a
// new sequence.
func NewIterator(packed [2][rulesRowWidth]uint32) *Iterator {
	return &Iterator{packed: packed, first: true}
}

// Next feeds the next scalar's PackedValue into the state machine and
// reports whether a cluster boundary lies immediately before it (always
// false for the very first scalar fed in).
func (it *Iterator) Next(v ucd.PackedValue) (boundary bool) {
	cb := v.ClusterBreak()
	if it.first {
		it.first = false
		it.lead = cb
		it.state = 0
		return false
	}

	next := GraphemeJoins(it.packed, it.state, it.lead, cb)
	if GraphemeDone(next) {
		it.state = 0
		it.lead = cb
		return true
	}
	it.state = next
	it.lead = cb
	return false
}
