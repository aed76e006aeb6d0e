// Package graphemes builds and packs the simplified grapheme-cluster-break
// join rules of spec.md §4.5-§4.6, and exposes the small state machine the
// emitted accessors implement.
package graphemes

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

// Omega is the sentinel "break here" state, written Ω in spec.md. It is not
// reachable by continuing a cluster; only by a join rule explicitly
// producing it.
const Omega uint8 = 0b11

// omegaBits is the number of bits needed to represent {0, 1, Omega}; it is
// also the number of bits each 2-bit cell occupies when packed.
var omegaBits = bits.Len8(Omega)

// classCount is the number of ClusterBreak variants; the join-rule tables
// are classCount x classCount but packed as if 16-wide, since a u32 word
// holds exactly sixteen 2-bit cells.
const classCount = int(ucd.ClusterBreakCount)

// rulesRowWidth is how many trailing-class columns a packed rule row holds.
// It must be >= classCount for every class to have a column.
const rulesRowWidth = 16

// RawTables is the unpacked [state][lead][trail] rule matrix, state ∈ {0,1}.
// State 1 is reachable only via an RI×RI transition from state 0, and
// forbids any further RI join — it is otherwise a copy of state 0.
type RawTables [2][classCount][classCount]uint8

// BuildRules constructs the two join-rule tables implementing the
// deliberately simplified UAX #29 subset documented in spec.md §9:
//   - GB9c: "× Linker" and "Linker × Consonant", no leading-Consonant or
//     Extend/Linker-run requirement.
//   - GB11: "ZWJ × ExtPic", no leading-ExtPic requirement.
//   - GB12/GB13: pair RIs, then break — asymmetric on odd-length RI runs,
//     accepted for terminal use.
//
// Built in GB-rule-number-descending order so that lower-numbered rules
// (checked later in this function) take priority by overwriting, matching
// GB5's priority over GB9b at the Prepend/Control boundary.
func BuildRules() RawTables {
	var r RawTables

	// GB999: Any ÷ Any. Break everywhere by default; every rule below
	// clears a cell back to "continue" (0), and the final Control pass
	// re-breaks around Control regardless of what earlier rules decided.
	for s := range r {
		for lead := range r[s] {
			for trail := range r[s][lead] {
				r[s][lead][trail] = Omega
			}
		}
	}

	// GB13/GB12: do not break between a pair of regional indicators; do not
	// allow a third. We don't track RI-run parity, so we simply pair once
	// and forbid further joins via the second table.
	r[0][ucd.RI][ucd.RI] = 1
	r[1][ucd.RI][ucd.RI] = Omega

	// GB11: ZWJ × ExtPic, without checking for a leading ExtPic.
	for s := range r {
		r[s][ucd.ZWJ][ucd.ExtPic] = 0
	}

	// GB9c: × InCBLinker, and InCBLinker × InCBConsonant, without checking
	// for a leading InCBConsonant or an intervening Extend/Linker run.
	for s := range r {
		for lead := range r[s] {
			r[s][lead][ucd.InCBLinker] = 0
		}
		r[s][ucd.InCBLinker][ucd.InCBConsonant] = 0
	}

	// GB9b: Prepend ×
	for s := range r {
		for trail := range r[s][ucd.Prepend] {
			r[s][ucd.Prepend][trail] = 0
		}
	}

	// GB9/GB9a: × (Extend | ZWJ), which also covers SpacingMark since it is
	// folded into Extend by the Value Extractor.
	for s := range r {
		for lead := range r[s] {
			r[s][lead][ucd.Extend] = 0
			r[s][lead][ucd.ZWJ] = 0
		}
	}

	// GB8: (LVT | T) × T
	for s := range r {
		r[s][ucd.HangulLVT][ucd.HangulT] = 0
		r[s][ucd.HangulT][ucd.HangulT] = 0
		// GB7: (LV | V) × (V | T)
		r[s][ucd.HangulLV][ucd.HangulT] = 0
		r[s][ucd.HangulLV][ucd.HangulV] = 0
		r[s][ucd.HangulV][ucd.HangulV] = 0
		r[s][ucd.HangulV][ucd.HangulT] = 0
		// GB6: L × (L | V | LV | LVT)
		r[s][ucd.HangulL][ucd.HangulL] = 0
		r[s][ucd.HangulL][ucd.HangulV] = 0
		r[s][ucd.HangulL][ucd.HangulLV] = 0
		r[s][ucd.HangulL][ucd.HangulLVT] = 0
	}

	// GB4/GB5: always break before and after Control, overriding every rule
	// above — this must run last to take priority.
	for s := range r {
		for lead := range r[s] {
			r[s][lead][ucd.Control] = Omega
		}
		for trail := range r[s][ucd.Control] {
			r[s][ucd.Control][trail] = Omega
		}
	}

	return r
}

// PackRules implements the Rule Packer of spec.md §4.5: it packs the raw
// [state][lead][trail] matrix into [state][lead] u32 words, 2 bits per
// trailing class. Returns a *PackerError if a row is too wide to pack or a
// cell value doesn't fit in 2 bits.
func PackRules(r RawTables) ([2][rulesRowWidth]uint32, error) {
	var packed [2][rulesRowWidth]uint32

	for state := range r {
		for lead := 0; lead < classCount; lead++ {
			row := r[state][lead]
			if len(row) > rulesRowWidth {
				return packed, errors.WithStack(&PackerError{
					State: state, Lead: lead,
					Reason: "row longer than 16 entries",
				})
			}
			var word uint32
			for trail, cell := range row {
				if cell > Omega {
					return packed, errors.WithStack(&PackerError{
						State: state, Lead: lead, Trail: trail,
						Reason: "cell value exceeds Omega",
					})
				}
				word |= uint32(cell) << (trail * omegaBits)
			}
			packed[state][lead] = word
		}
	}

	return packed, nil
}

// PackerError reports a Rule Packer constraint violation: a developer-
// authored table bug, not a data error, so it names the table coordinates
// rather than a codepoint range.
type PackerError struct {
	State, Lead, Trail int
	Reason             string
}

func (e *PackerError) Error() string {
	return fmt.Sprintf("graphemes: %s (state %d, lead %d, trail %d)", e.Reason, e.State, e.Lead, e.Trail)
}

// RulesSize returns the byte size of the packed rule tables, per spec.md
// §4.5: |states| * 16 * 4 bytes.
func RulesSize(packed [2][rulesRowWidth]uint32) int {
	return len(packed) * rulesRowWidth * 4
}
