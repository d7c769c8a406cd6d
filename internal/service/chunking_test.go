package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDocument_ShortDocumentSingleChunk(t *testing.T) {
	text := "Q: What is the return window?\nA: Thirty days."
	chunks := ChunkDocument(text, "faq.md", ChunkConfig{Size: 500, Overlap: 50})

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Metadata.ChunkIndex)
	assert.Equal(t, "faq.md", chunks[0].Metadata.Source)
}

func TestChunkDocument_IndexesAreContiguous(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Q: Question number with some padding to fill the paragraph out nicely?\n")
		b.WriteString("A: An answer paragraph that goes on for a little while to add bulk.\n\n")
	}

	chunks := ChunkDocument(b.String(), "faq.md", ChunkConfig{Size: 300, Overlap: 40})
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.NotEmpty(t, chunk.Content)
	}
}

func TestChunkDocument_Idempotent(t *testing.T) {
	text := strings.Repeat("One sentence here. Another sentence there. ", 60)

	first := ChunkDocument(text, "faq.md", ChunkConfig{Size: 200, Overlap: 30})
	second := ChunkDocument(text, "faq.md", ChunkConfig{Size: 200, Overlap: 30})

	assert.Equal(t, first, second)
}

func TestChunkDocument_RespectsSizeWhereSplittable(t *testing.T) {
	text := strings.Repeat("word ", 500)

	chunks := ChunkDocument(text, "faq.md", ChunkConfig{Size: 100, Overlap: 20})
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}

func TestChunkDocument_UnsplittableRunExceedsSize(t *testing.T) {
	// A single run with no separators at all gets hard-split on characters.
	text := strings.Repeat("x", 250)

	chunks := ChunkDocument(text, "faq.md", ChunkConfig{Size: 100, Overlap: 10})
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}

func TestChunkDocument_ConsecutiveChunksOverlap(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon ", 40)

	chunks := ChunkDocument(text, "faq.md", ChunkConfig{Size: 120, Overlap: 40})
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		tail := prev[len(prev)-20:]
		assert.Contains(t, chunks[i].Content, strings.TrimSpace(tail),
			"chunk %d should start with trailing context of chunk %d", i, i-1)
	}
}

func TestChunkDocument_LinePositions(t *testing.T) {
	text := "first line\nsecond line\n\nthird paragraph line\n"

	chunks := ChunkDocument(text, "faq.md", ChunkConfig{Size: 500, Overlap: 0})
	require.Len(t, chunks, 1)
	require.NotNil(t, chunks[0].Metadata.StartLine)
	assert.Equal(t, 1, *chunks[0].Metadata.StartLine)
	require.NotNil(t, chunks[0].Metadata.EndLine)
	assert.GreaterOrEqual(t, *chunks[0].Metadata.EndLine, 4)
}

func TestChunkDocument_EmptyDocument(t *testing.T) {
	chunks := ChunkDocument("", "faq.md", ChunkConfig{Size: 100, Overlap: 10})
	assert.Empty(t, chunks)
}
