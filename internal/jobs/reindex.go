package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// RebuildFunc loads the FAQ document and rebuilds the vector index.
type RebuildFunc func(ctx context.Context) error

// ReindexWorker rebuilds the index when the source document changes on disk.
// It implements the JobProcessor interface.
type ReindexWorker struct {
	documentPath string
	rebuild      RebuildFunc
	statFile     func(string) (os.FileInfo, error)
	lastModified time.Time
}

// NewReindexWorker creates a ReindexWorker watching documentPath. lastModified
// should be the modification time of the document at the last index build, or
// zero to force a rebuild on the first poll.
func NewReindexWorker(documentPath string, lastModified time.Time, rebuild RebuildFunc) *ReindexWorker {
	return &ReindexWorker{
		documentPath: documentPath,
		rebuild:      rebuild,
		statFile:     os.Stat,
		lastModified: lastModified,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *ReindexWorker) ProcessJobs(ctx context.Context) error {
	info, err := w.statFile(w.documentPath)
	if err != nil {
		return fmt.Errorf("failed to stat document %s: %w", w.documentPath, err)
	}

	modified := info.ModTime()
	if !modified.After(w.lastModified) {
		return nil
	}

	log.Printf("Document %s changed at %s, rebuilding index", w.documentPath, modified.Format(time.RFC3339))

	if err := w.rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	w.lastModified = modified
	log.Printf("Index rebuild for %s completed", w.documentPath)
	return nil
}
