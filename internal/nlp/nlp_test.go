package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnglue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"glued", "The vote ended.The count began.", "The vote ended. The count began."},
		{"already spaced", "One. Two.", "One. Two."},
		{"lowercase follows", "v1.x release", "v1.x release"},
		{"decimal", "Rates rose 2.5 percent.", "Rates rose 2.5 percent."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unglue(tt.in))
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines([]string{"First line\nsecond line", "  ", "Third.\n\n"})
	assert.Equal(t, []string{"First line", "second line", "Third."}, got)
}

func TestContentTokens(t *testing.T) {
	got := ContentTokens([]string{"The", "cat", "sat", "on", "the", "mat", "."})
	// Matching is case-sensitive, so the capitalized "The" is kept.
	assert.Equal(t, []string{"The", "cat", "sat", "mat"}, got)
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("."))
	assert.False(t, IsStopword("The"))
	assert.False(t, IsStopword("election"))
}

func TestPunktSplitter(t *testing.T) {
	s, err := NewPunktSplitter()
	require.NoError(t, err)

	got := s.Split("The cat sat on the mat. The dog ran away.The bird flew.\nA new line starts here.")
	assert.Equal(t, []string{
		"The cat sat on the mat.",
		"The dog ran away.",
		"The bird flew.",
		"A new line starts here.",
	}, got)
}

func TestPunktSplitterEmpty(t *testing.T) {
	s, err := NewPunktSplitter()
	require.NoError(t, err)
	assert.Empty(t, s.Split(""))
}

func TestWordTokenizer(t *testing.T) {
	tok := NewWordTokenizer(SplitterFunc(func(text string) []string {
		return []string{text}
	}))
	assert.Equal(t, []string{"A", "cat", "sat", "on", "a", "mat", "."}, tok.Tokenize("A cat sat on a mat."))
	assert.Nil(t, tok.Tokenize("   "))
}
