package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/cloo-solutions/faqrag/internal/domain"
	"github.com/cloo-solutions/faqrag/internal/llm"
	"github.com/cloo-solutions/faqrag/internal/store"
)

const (
	chunkInfoFile     = "chunk-info.json"
	embedBatchSize    = 64
	chunkPreviewChars = 80
)

// ChunkInfoEntry summarizes one indexed chunk.
type ChunkInfoEntry struct {
	Index   int    `json:"index"`
	Preview string `json:"preview"`
	Length  int    `json:"length"`
}

// ChunkInfo is the build summary persisted next to the vector index.
type ChunkInfo struct {
	TotalChunks    int              `json:"totalChunks"`
	ChunkSize      int              `json:"chunkSize"`
	ChunkOverlap   int              `json:"chunkOverlap"`
	EmbeddingModel string           `json:"embeddingModel"`
	DocumentPath   string           `json:"documentPath"`
	Chunks         []ChunkInfoEntry `json:"chunks"`
}

// IndexerConfig configures an index build.
type IndexerConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
	DocumentPath   string
	// InfoDir is where chunk-info.json is written; empty disables the summary.
	InfoDir string
	// ShowProgress renders a progress bar while embedding.
	ShowProgress bool
}

// Indexer builds the vector index from a document.
type Indexer struct {
	embedding llm.EmbeddingClient
	store     store.VectorStore
	cfg       IndexerConfig
}

func NewIndexer(embedding llm.EmbeddingClient, vs store.VectorStore, cfg IndexerConfig) *Indexer {
	return &Indexer{
		embedding: embedding,
		store:     vs,
		cfg:       cfg,
	}
}

// Build chunks the document text, embeds every chunk in batches, replaces
// the store contents, and writes the chunk-info.json summary.
func (s *Indexer) Build(ctx context.Context, text, source string) (*ChunkInfo, error) {
	chunks := ChunkDocument(text, source, ChunkConfig{
		Size:    s.cfg.ChunkSize,
		Overlap: s.cfg.ChunkOverlap,
	})
	if len(chunks) == 0 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document produced no chunks")
	}
	if len(chunks) < MinChunksWarning {
		log.Printf("warning: document produced only %d chunks (fewer than %d); consider adding content", len(chunks), MinChunksWarning)
	}

	var bar *progressbar.ProgressBar
	if s.cfg.ShowProgress {
		bar = progressbar.Default(int64(len(chunks)), "embedding chunks")
	}

	entries := make([]store.IndexEntry, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		vectors, err := s.embedding.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
		}

		for i, vector := range vectors {
			entries = append(entries, store.IndexEntry{
				Chunk:  chunks[start+i],
				Vector: vector,
			})
		}
		if bar != nil {
			_ = bar.Add(end - start)
		}
	}

	if err := s.store.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to store index entries: %w", err)
	}

	info := buildChunkInfo(chunks, s.cfg)
	if s.cfg.InfoDir != "" {
		if err := writeChunkInfo(s.cfg.InfoDir, info); err != nil {
			return nil, err
		}
	}

	return info, nil
}

func buildChunkInfo(chunks []domain.Chunk, cfg IndexerConfig) *ChunkInfo {
	info := &ChunkInfo{
		TotalChunks:    len(chunks),
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		EmbeddingModel: cfg.EmbeddingModel,
		DocumentPath:   cfg.DocumentPath,
		Chunks:         make([]ChunkInfoEntry, 0, len(chunks)),
	}

	for _, c := range chunks {
		preview := c.Content
		if len(preview) > chunkPreviewChars {
			preview = preview[:chunkPreviewChars]
		}
		info.Chunks = append(info.Chunks, ChunkInfoEntry{
			Index:   c.Metadata.ChunkIndex,
			Preview: preview,
			Length:  len(c.Content),
		})
	}

	return info
}

func writeChunkInfo(dir string, info *ChunkInfo) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, chunkInfoFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
