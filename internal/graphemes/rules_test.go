package graphemes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ucdgen/ucdgen/internal/ucd"
)

func TestPackRules_RoundTrip(t *testing.T) {
	raw := BuildRules()
	packed, err := PackRules(raw)
	require.NoError(t, err)

	for state := range raw {
		for lead := 0; lead < classCount; lead++ {
			for trail := 0; trail < classCount; trail++ {
				got := GraphemeJoins(packed, uint8(state), ucd.ClusterBreak(lead), ucd.ClusterBreak(trail))
				require.Equal(t, raw[state][lead][trail], got,
					"state=%d lead=%d trail=%d", state, lead, trail)
			}
		}
	}
}

func TestPackRules_RejectsOversizedCell(t *testing.T) {
	raw := BuildRules()
	raw[0][ucd.Other][ucd.Other] = 4 // doesn't fit in 2 bits

	_, err := PackRules(raw)
	require.Error(t, err)

	var perr *PackerError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 0, perr.State)
	require.Equal(t, int(ucd.Other), perr.Lead)
	require.Equal(t, int(ucd.Other), perr.Trail)
}

func TestRulesSize(t *testing.T) {
	packed, err := PackRules(BuildRules())
	require.NoError(t, err)
	require.Equal(t, 2*16*4, RulesSize(packed))
}

func TestBuildRules_ControlAlwaysBreaks(t *testing.T) {
	r := BuildRules()
	for state := range r {
		for lead := 0; lead < classCount; lead++ {
			require.Equal(t, Omega, r[state][lead][ucd.Control], "lead=%d", lead)
		}
		for trail := 0; trail < classCount; trail++ {
			require.Equal(t, Omega, r[state][ucd.Control][trail], "trail=%d", trail)
		}
	}
}

func TestBuildRules_RegionalIndicatorPairing(t *testing.T) {
	r := BuildRules()
	require.EqualValues(t, 1, r[0][ucd.RI][ucd.RI])
	require.Equal(t, Omega, r[1][ucd.RI][ucd.RI])
}

func TestBuildRules_ExtendAndZWJContinue(t *testing.T) {
	r := BuildRules()
	for state := range r {
		for lead := 0; lead < classCount; lead++ {
			if ucd.ClusterBreak(lead) == ucd.Control {
				continue
			}
			require.EqualValues(t, 0, r[state][lead][ucd.Extend], "lead=%d", lead)
			require.EqualValues(t, 0, r[state][lead][ucd.ZWJ], "lead=%d", lead)
		}
	}
}

func TestBuildRules_HangulSyllables(t *testing.T) {
	r := BuildRules()
	continues := [][2]ucd.ClusterBreak{
		{ucd.HangulL, ucd.HangulL},
		{ucd.HangulL, ucd.HangulV},
		{ucd.HangulL, ucd.HangulLV},
		{ucd.HangulL, ucd.HangulLVT},
		{ucd.HangulLV, ucd.HangulV},
		{ucd.HangulLV, ucd.HangulT},
		{ucd.HangulV, ucd.HangulV},
		{ucd.HangulV, ucd.HangulT},
		{ucd.HangulLVT, ucd.HangulT},
		{ucd.HangulT, ucd.HangulT},
	}
	for _, pair := range continues {
		require.EqualValues(t, 0, r[0][pair[0]][pair[1]], "lead=%d trail=%d", pair[0], pair[1])
	}
}
