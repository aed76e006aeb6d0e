package trie

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

// Verify implements the Sanity Verifier of spec.md §4.7: it replays the
// lookup of §3 for every codepoint in values and returns an error naming
// the first mismatching codepoint. No partial or aggregated report — a
// generator bug aborts immediately, before anything is emitted.
func Verify(values ucd.ValueArray, t *Trie) error {
	for cp, expected := range values {
		if got := t.Lookup(cp); got != expected {
			return errors.Wrapf(
				fmt.Errorf("trie sanity check failed"),
				"U+%04X: got %#02x, want %#02x", cp, byte(got), byte(expected),
			)
		}
	}
	return nil
}
