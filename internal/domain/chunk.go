package domain

// ChunkMetadata carries positional information for a chunk of the source
// document. StartLine/EndLine are only set by loaders that track line
// positions.
type ChunkMetadata struct {
	ChunkIndex int    `json:"chunkIndex"`
	Source     string `json:"source"`
	StartLine  *int   `json:"startLine,omitempty"`
	EndLine    *int   `json:"endLine,omitempty"`
}

// Chunk is a bounded substring of the source document. Chunks are produced
// once at index-build time and are immutable afterwards; ChunkIndex is the
// zero-based emission order of the splitter.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RetrievedChunk is a chunk returned by a vector store query.
// SimilarityScore is set only when the store surfaces a distance metric.
type RetrievedChunk struct {
	Chunk
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}
