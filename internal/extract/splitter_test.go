package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, 0)
	assert.Equal(t, 1000, s.ChunkSize)
	assert.Equal(t, 0, s.Overlap)

	s = NewSplitter(100, 100)
	assert.Equal(t, 100, s.ChunkSize)
	assert.Equal(t, 20, s.Overlap)

	s = NewSplitter(100, -1)
	assert.Equal(t, 20, s.Overlap)
}

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter(100, 20)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.Split("just a short sentence")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short sentence", chunks[0])
}

func TestSplitRespectsChunkSize(t *testing.T) {
	words := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		words = append(words, "alpha", "beta", "gamma")
	}
	text := strings.Join(words, " ")

	s := NewSplitter(50, 10)
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitMixedPieceLengths(t *testing.T) {
	// A short piece followed by pieces nearly as large as the chunk size: the
	// overlap tail retained after an emit must not push the next chunk over
	// the bound.
	text := "aaaaaaaa\n\n" + strings.Repeat("b", 45) + "\n\n" + strings.Repeat("c", 45)

	s := NewSplitter(50, 10)
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50, "chunk %q", c)
	}
	assert.Contains(t, strings.Join(chunks, " "), strings.Repeat("b", 45))
	assert.Contains(t, strings.Join(chunks, " "), strings.Repeat("c", 45))
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	s := NewSplitter(25, 0)
	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first paragraph here", chunks[0])
	assert.Equal(t, "second paragraph here", chunks[1])
	assert.Equal(t, "third paragraph here", chunks[2])
}

func TestSplitCoversAllContent(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog near the riverbank every single morning"
	s := NewSplitter(30, 8)
	chunks := s.Split(text)
	joined := strings.Join(chunks, " ")
	for _, w := range strings.Fields(text) {
		assert.Contains(t, joined, w)
	}
}

func TestSplitOverlapCarriesTail(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve"
	s := NewSplitter(25, 10)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first must start with material already seen.
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i])[0]
		assert.Contains(t, strings.Join(chunks[:i], " "), firstWord)
	}
}
