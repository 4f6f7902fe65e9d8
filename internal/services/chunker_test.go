package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker().ChunkText("Jane Doe\n\nPython developer", 1000, 200)

	assert.Equal(t, []string{"Jane Doe\n\nPython developer"}, chunks)
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("  \n\n  ", 100, 10))
}

func TestChunkText_RespectsSizeAndOverlap(t *testing.T) {
	paras := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		paras = append(paras, strings.Repeat("word ", 10)+string(rune('a'+i)))
	}
	text := strings.Join(paras, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 120, 20)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 120+20, "chunk %d", i)
		if i > 0 {
			tail := lastRunes(chunks[i-1], 20)
			assert.True(t, strings.HasPrefix(c, tail), "chunk %d lacks overlap", i)
		}
	}
	assert.Contains(t, chunks[len(chunks)-1], "word j")
}

func TestChunkText_LongParagraphSplitsOnSentences(t *testing.T) {
	text := strings.Repeat("Built services in Go. ", 20)

	chunks := NewTextChunker().ChunkText(text, 100, 0)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
	}
}

func TestLastRunes(t *testing.T) {
	assert.Equal(t, "", lastRunes("abc", 0))
	assert.Equal(t, "abc", lastRunes("abc", 5))
	assert.Equal(t, "ümé", lastRunes("résümé", 3))
}
