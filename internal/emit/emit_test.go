package emit

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ucdgen/ucdgen/internal/graphemes"
	"github.com/ucdgen/ucdgen/internal/trie"
	"github.com/ucdgen/ucdgen/internal/ucd"
)

func syntheticTrie(t *testing.T) *trie.Trie {
	t.Helper()
	values := ucd.NewValueArray()[:1<<12]
	for i := range values {
		cb := ucd.ClusterBreak(i % int(ucd.ClusterBreakCount))
		width := ucd.CharacterWidth((i / 5) % 4)
		values[i] = ucd.NewPackedValue(cb, width)
	}
	return trie.BuildTrie(values, []int{4, 4})
}

func packedRules(t *testing.T) [2][16]uint32 {
	t.Helper()
	packed, err := graphemes.PackRules(graphemes.BuildRules())
	require.NoError(t, err)
	return packed
}

func sampleDoc() *ucd.Document {
	return &ucd.Document{Description: "Unicode 15.1.0"}
}

func TestWrite_Bracketing(t *testing.T) {
	var buf bytes.Buffer
	tr := syntheticTrie(t)
	require.NoError(t, Write(&buf, sampleDoc(), tr, packedRules(t), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	out := buf.String()
	require.True(t, strings.HasPrefix(strings.TrimSpace(strings.Split(out, "\n")[1]), "// 2026-01-02T03:04:05 UTC"))
	require.Contains(t, out, "// clang-format off")
	require.Contains(t, out, "// clang-format on")
	require.True(t, strings.Index(out, "// clang-format off") < strings.Index(out, "// clang-format on"))
}

func TestWrite_EmitsOneArrayPerStage(t *testing.T) {
	var buf bytes.Buffer
	tr := syntheticTrie(t)
	require.NoError(t, Write(&buf, sampleDoc(), tr, packedRules(t), time.Now().UTC()))

	out := buf.String()
	for i := range tr.Stages {
		require.Contains(t, out, "s_stage"+strconv.Itoa(i+1)+"[")
	}
}

func TestWrite_JoinRulesAndAccessorsPresent(t *testing.T) {
	var buf bytes.Buffer
	tr := syntheticTrie(t)
	require.NoError(t, Write(&buf, sampleDoc(), tr, packedRules(t), time.Now().UTC()))

	out := buf.String()
	require.Contains(t, out, "static const uint32_t s_joinRules[2][16]")
	require.Contains(t, out, "ucdLookup(")
	require.Contains(t, out, "ucdGraphemeJoins(")
	require.Contains(t, out, "ucdGraphemeDone(")
	require.Contains(t, out, "ucdToCharacterWidth(")
	require.Contains(t, out, "return val >> 6;")
}

func TestWrite_RootStageHasNoMask(t *testing.T) {
	var buf bytes.Buffer
	tr := syntheticTrie(t)
	require.NoError(t, Write(&buf, sampleDoc(), tr, packedRules(t), time.Now().UTC()))

	out := buf.String()
	require.Contains(t, out, "s_stage1[i + (cp >> "+strconv.Itoa(tr.Stages[0].Shift)+")]")
}

func TestWrite_RejectsEmptyTrie(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, sampleDoc(), &trie.Trie{}, packedRules(t), time.Now().UTC()))
}
