package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"trims ends", "  hello world  ", "hello world"},
		{"newlines and tabs", "line one\n\nline two\tend", "line one line two end"},
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	assert.Nil(t, Split("", 100, 10))
	assert.Nil(t, Split("   \n\t  ", 100, 10))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("short text", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_WindowAndOverlap(t *testing.T) {
	// 26 characters, size 10, overlap 4 -> step 6.
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := Split(text, 10, 4)

	require.Equal(t, []string{
		"abcdefghij",
		"ghijklmnop",
		"mnopqrstuv",
		"stuvwxyz",
	}, chunks)

	// Consecutive chunks overlap by exactly 4 characters.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.Equal(t, prev[len(prev)-4:], chunks[i][:4])
	}
}

func TestSplit_ExactCoverageNoGaps(t *testing.T) {
	cases := []struct {
		size, overlap int
	}{
		{10, 0},
		{10, 4},
		{10, 9},
		{7, 3},
		{100, 25},
	}
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	normalized := Normalize(text)

	for _, tc := range cases {
		chunks := Split(text, tc.size, tc.overlap)
		require.NotEmpty(t, chunks)

		// No chunk exceeds the window size.
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), tc.size)
		}

		// Reconstructing from steps reproduces the normalized text exactly.
		step := tc.size - tc.overlap
		var rebuilt strings.Builder
		for i, c := range chunks {
			runes := []rune(c)
			if i < len(chunks)-1 {
				rebuilt.WriteString(string(runes[:step]))
			} else {
				rebuilt.WriteString(string(runes))
			}
		}
		assert.Equal(t, normalized, rebuilt.String(),
			"size=%d overlap=%d", tc.size, tc.overlap)
	}
}

func TestSplit_Idempotent(t *testing.T) {
	text := strings.Repeat("Barcelona architecture and Catalan modernism. ", 30)
	first := Split(text, 90, 15)
	second := Split(text, 90, 15)
	assert.Equal(t, first, second)
}

func TestSplit_FinalPartialWindowIncluded(t *testing.T) {
	// 12 characters, size 10, overlap 0: tail of 2 must survive.
	chunks := Split("abcdefghijkl", 10, 0)
	require.Len(t, chunks, 2)
	assert.Equal(t, "kl", chunks[1])
}

func TestSplit_NormalizesBeforeWindowing(t *testing.T) {
	chunks := Split("a  b\nc\td", 3, 1)
	// Normalized form is "a b c d" (7 chars), step 2.
	require.Equal(t, []string{"a b", "b c", "c d", "d"}, chunks)
}

func TestSplit_MultibyteRunesNotSplit(t *testing.T) {
	text := strings.Repeat("ñá ", 20)
	chunks := Split(text, 7, 2)
	for _, c := range chunks {
		assert.True(t, strings.ContainsAny(c, "ñá"))
		// Chunks remain valid UTF-8 of at most 7 runes.
		assert.LessOrEqual(t, len([]rune(c)), 7)
	}
}
