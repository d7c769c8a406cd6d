package service

import (
	"strings"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// MinChunksWarning is the chunk count under which a document is considered
// thin on content. Falling below it is a signal, not a failure.
const MinChunksWarning = 20

// separators are tried coarsest-first; the empty string means a hard split
// on character boundaries.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// ChunkConfig controls document splitting.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// ChunkDocument splits text into overlapping chunks along natural
// boundaries. Each chunk is at most cfg.Size characters wherever a split
// point allows it, and consecutive chunks share roughly cfg.Overlap
// characters of context. Chunks carry a zero-based index in emission order
// and source as their origin identifier.
func ChunkDocument(text, source string, cfg ChunkConfig) []domain.Chunk {
	pieces := splitRecursive(text, separators, cfg)

	chunks := make([]domain.Chunk, 0, len(pieces))
	searchFrom := 0
	for i, piece := range pieces {
		meta := domain.ChunkMetadata{
			ChunkIndex: i,
			Source:     source,
		}

		// Best-effort line positions: locate the piece in the original
		// text, scanning forward from the previous chunk's start so
		// overlapping content resolves to the right occurrence.
		if offset := strings.Index(text[searchFrom:], piece); offset >= 0 {
			abs := searchFrom + offset
			start := 1 + strings.Count(text[:abs], "\n")
			end := start + strings.Count(piece, "\n")
			meta.StartLine = &start
			meta.EndLine = &end
			searchFrom = abs + 1
		}

		chunks = append(chunks, domain.Chunk{Content: piece, Metadata: meta})
	}

	return chunks
}

// splitRecursive tries each separator in order, splitting on the first one
// present and recursing with finer separators on any piece still larger
// than the chunk size.
func splitRecursive(text string, seps []string, cfg ChunkConfig) []string {
	if len(text) <= cfg.Size {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[len(seps)-1]
	var finer []string
	for i, s := range seps {
		if s == "" {
			sep = ""
			finer = nil
			break
		}
		if strings.Contains(text, s) {
			sep = s
			finer = seps[i+1:]
			break
		}
	}

	splits := splitOn(text, sep)

	var pieces []string
	var pending []string
	for _, s := range splits {
		if len(s) < cfg.Size {
			pending = append(pending, s)
			continue
		}
		if len(pending) > 0 {
			pieces = append(pieces, mergeSplits(pending, sep, cfg)...)
			pending = nil
		}
		if len(finer) == 0 {
			pieces = append(pieces, s)
		} else {
			pieces = append(pieces, splitRecursive(s, finer, cfg)...)
		}
	}
	if len(pending) > 0 {
		pieces = append(pieces, mergeSplits(pending, sep, cfg)...)
	}

	return pieces
}

// splitOn splits text around sep without losing the separator's width:
// splitting on "" yields individual characters.
func splitOn(text, sep string) []string {
	if sep == "" {
		return strings.Split(text, "")
	}
	parts := strings.Split(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeSplits greedily packs adjacent splits into chunks no larger than
// cfg.Size, carrying cfg.Overlap characters of trailing context into the
// next chunk.
func mergeSplits(splits []string, sep string, cfg ChunkConfig) []string {
	sepLen := len(sep)

	var chunks []string
	var window []string
	total := 0

	for _, s := range splits {
		extra := len(s)
		if len(window) > 0 {
			extra += sepLen
		}

		if total+extra > cfg.Size && len(window) > 0 {
			if doc := joinSplits(window, sep); doc != "" {
				chunks = append(chunks, doc)
			}
			// Shed from the front until the retained tail fits within the
			// overlap budget and leaves room for the incoming split.
			for total > cfg.Overlap || (total+extra > cfg.Size && total > 0) {
				total -= len(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
				extra = len(s)
				if len(window) > 0 {
					extra += sepLen
				}
			}
		}

		window = append(window, s)
		total += extra
	}

	if doc := joinSplits(window, sep); doc != "" {
		chunks = append(chunks, doc)
	}

	return chunks
}

func joinSplits(splits []string, sep string) string {
	return strings.TrimSpace(strings.Join(splits, sep))
}
