// Package emit renders a built Trie and packed grapheme-join rules into the
// text format of spec.md §6: a single self-contained C++ source fragment,
// written the way the teacher's Table.WriteTo builds its output incrementally
// against an io.Writer rather than returning a pre-built string.
package emit

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ucdgen/ucdgen/internal/graphemes"
	"github.com/ucdgen/ucdgen/internal/trie"
	"github.com/ucdgen/ucdgen/internal/ucd"
)

// rulesStates and rulesRowWidth mirror package graphemes' packed rule shape;
// duplicated here because graphemes does not export them. This package uses
// only the exported [2][16]uint32 type and graphemes.RulesSize.
const (
	rulesStates   = 2
	rulesRowWidth = 16
)

// Write renders the emitted module described in spec.md §6 to w: the header
// comment, one constant array per trie stage (root first), the packed
// join-rule table, and the four fixed-contract accessor routines, bracketed
// by clang-format directives. now is the UTC timestamp recorded in the
// header; callers pass time.Now().UTC() so the output stays reproducible
// under test.
func Write(w io.Writer, doc *ucd.Document, t *trie.Trie, rules [rulesStates][rulesRowWidth]uint32, now time.Time) error {
	if len(t.Stages) == 0 {
		return errors.New("emit: trie has no stages")
	}

	rulesSize := rulesStates * rulesRowWidth * 4

	fmt.Fprintln(w, "// Generated by ucdgen. DO NOT EDIT.")
	fmt.Fprintf(w, "// %s UTC, source: %q, total size: %d bytes\n",
		now.Format("2006-01-02T15:04:05"), doc.Description, t.TotalSize+rulesSize)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "// clang-format off")

	for i, stage := range t.Stages {
		perRow := 16
		if i != 0 {
			perRow = stage.Mask + 1
		}
		if err := writeStage(w, i, stage, perRow); err != nil {
			return errors.Wrapf(err, "emit: stage %d", i)
		}
	}

	if err := writeJoinRules(w, rules); err != nil {
		return errors.Wrap(err, "emit: join rules")
	}

	writeAccessors(w, t)

	fmt.Fprintln(w, "// clang-format on")
	return nil
}

func writeStage(w io.Writer, index int, stage *trie.Stage, perRow int) error {
	ctype, nibbles, err := cTypeFor(stage.Bits)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "static const %s s_stage%d[%d] = {\n", ctype, index+1, len(stage.Values))
	for row := 0; row < len(stage.Values); row += perRow {
		fmt.Fprint(w, "    ")
		end := row + perRow
		if end > len(stage.Values) {
			end = len(stage.Values)
		}
		for i := row; i < end; i++ {
			fmt.Fprintf(w, "0x%0*x, ", nibbles, uint64(stage.Values[i]))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "};")
	fmt.Fprintln(w)
	return nil
}

func cTypeFor(bits int) (ctype string, nibbles int, err error) {
	switch bits {
	case 8:
		return "uint8_t", 2, nil
	case 16:
		return "uint16_t", 4, nil
	case 32:
		return "uint32_t", 8, nil
	default:
		return "", 0, errors.Errorf("unsupported stage width %d", bits)
	}
}

func writeJoinRules(w io.Writer, rules [rulesStates][rulesRowWidth]uint32) error {
	if graphemes.RulesSize(rules) != rulesStates*rulesRowWidth*4 {
		return errors.New("join rule table has an unexpected shape")
	}

	fmt.Fprintf(w, "static const uint32_t s_joinRules[%d][%d] = {\n", rulesStates, rulesRowWidth)
	for _, row := range rules {
		fmt.Fprint(w, "    {")
		for _, cell := range row {
			fmt.Fprintf(w, "0b%032b, ", cell)
		}
		fmt.Fprintln(w, "},")
	}
	fmt.Fprintln(w, "};")
	fmt.Fprintln(w)
	return nil
}

func writeAccessors(w io.Writer, t *trie.Trie) {
	leaf := t.Stages[len(t.Stages)-1]
	leafType, _, _ := cTypeFor(leaf.Bits)

	fmt.Fprintf(w, `
%s ucdLookup(char32_t cp) {
    uint32_t i = 0;
`, leafType)
	for idx, stage := range t.Stages {
		if idx == 0 {
			// The root stage has no chunk boundary: index by the shifted
			// codepoint directly, with no masking.
			fmt.Fprintf(w, "    i = s_stage%d[i + (cp >> %d)];\n", idx+1, stage.Shift)
			continue
		}
		fmt.Fprintf(w, "    i = s_stage%d[i + ((cp >> %d) & 0x%x)];\n", idx+1, stage.Shift, stage.Mask)
	}
	fmt.Fprintln(w, "    return i;")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	fmt.Fprint(w, `
uint8_t ucdGraphemeJoins(uint8_t state, uint8_t lead, uint8_t trail) {
    return (s_joinRules[state][lead] >> (trail * 2)) & 0x3;
}

bool ucdGraphemeDone(uint8_t state) {
    return state == 0b11;
}

uint8_t ucdToCharacterWidth(uint8_t val) {
    return val >> 6;
}
`)
}
