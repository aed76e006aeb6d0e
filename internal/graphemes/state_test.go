package graphemes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

func packedRules(t *testing.T) [2][rulesRowWidth]uint32 {
	t.Helper()
	packed, err := PackRules(BuildRules())
	require.NoError(t, err)
	return packed
}

// TestIterator_CombiningMark covers S2: U+0041 U+0301 forms a single
// cluster, since Extend never breaks away from its lead.
func TestIterator_CombiningMark(t *testing.T) {
	it := NewIterator(packedRules(t))

	require.False(t, it.Next(ucd.NewPackedValue(ucd.Other, ucd.WidthNarrow)))  // U+0041
	require.False(t, it.Next(ucd.NewPackedValue(ucd.Extend, ucd.WidthNarrow))) // U+0301
}

// TestIterator_RegionalIndicatorPairs covers S3: four regional indicators
// pair into two flags, not one cluster of four or four singletons.
func TestIterator_RegionalIndicatorPairs(t *testing.T) {
	it := NewIterator(packedRules(t))

	ri := ucd.NewPackedValue(ucd.RI, ucd.WidthWide)
	require.False(t, it.Next(ri)) // first scalar of the sequence, never a boundary
	require.False(t, it.Next(ri)) // pairs with the first RI
	require.True(t, it.Next(ri))  // third RI starts a new cluster
	require.False(t, it.Next(ri)) // pairs with the third RI
}

// TestIterator_IndicConjunct covers S4: KA, VIRAMA, KA stays one cluster
// under the simplified GB9c rule.
func TestIterator_IndicConjunct(t *testing.T) {
	it := NewIterator(packedRules(t))

	require.False(t, it.Next(ucd.NewPackedValue(ucd.InCBConsonant, ucd.WidthNarrow)))
	require.False(t, it.Next(ucd.NewPackedValue(ucd.InCBLinker, ucd.WidthNarrow)))
	require.False(t, it.Next(ucd.NewPackedValue(ucd.InCBConsonant, ucd.WidthNarrow)))
}

// TestIterator_VariationSelectorExtend covers S6: U+FE0F is classified
// Extend and never breaks away from a preceding Extend.
func TestIterator_VariationSelectorExtend(t *testing.T) {
	it := NewIterator(packedRules(t))

	require.False(t, it.Next(ucd.NewPackedValue(ucd.Extend, ucd.WidthWide)))
	require.False(t, it.Next(ucd.NewPackedValue(ucd.Extend, ucd.WidthWide)))
}

// TestIterator_ControlAlwaysBreaks exercises GB4/GB5 taking priority over
// every continuation rule, including Extend.
func TestIterator_ControlAlwaysBreaks(t *testing.T) {
	it := NewIterator(packedRules(t))

	require.False(t, it.Next(ucd.NewPackedValue(ucd.Extend, ucd.WidthNarrow)))
	require.True(t, it.Next(ucd.NewPackedValue(ucd.Control, ucd.WidthZero)))
	require.True(t, it.Next(ucd.NewPackedValue(ucd.Other, ucd.WidthNarrow)))
}

func TestGraphemeDone(t *testing.T) {
	require.True(t, GraphemeDone(Omega))
	require.False(t, GraphemeDone(0))
	require.False(t, GraphemeDone(1))
}

func TestToCharacterWidth_BoxDrawingOverride(t *testing.T) {
	// S5: U+2500 must read back Narrow despite being Ambiguous in the UCD —
	// enforced by the Value Extractor's post-pass, not by this accessor, but
	// the accessor must still report whatever PackedValue carries.
	v := ucd.NewPackedValue(ucd.Other, ucd.WidthNarrow)
	require.Equal(t, ucd.WidthNarrow, ToCharacterWidth(v))
}
