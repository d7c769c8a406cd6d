package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker in goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(250 * time.Millisecond)

	// Stop worker
	worker.Stop()
	wg.Wait()

	// Verify ProcessJobs was called at least once
	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	// Start worker in goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(150 * time.Millisecond)

	// Cancel context
	cancel()
	wg.Wait()

	// Verify ProcessJobs was called
	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func writeDocument(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "faq.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestReindexWorker_RebuildsOnChange tests that a newer document triggers a rebuild
func TestReindexWorker_RebuildsOnChange(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "original")

	var rebuilds int
	worker := NewReindexWorker(path, time.Time{}, func(ctx context.Context) error {
		rebuilds++
		return nil
	})

	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, rebuilds)
}

// TestReindexWorker_SkipsUnchangedDocument tests that an up-to-date document is left alone
func TestReindexWorker_SkipsUnchangedDocument(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "original")

	info, err := os.Stat(path)
	require.NoError(t, err)

	var rebuilds int
	worker := NewReindexWorker(path, info.ModTime(), func(ctx context.Context) error {
		rebuilds++
		return nil
	})

	err = worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, rebuilds)
}

// TestReindexWorker_RebuildOnlyOnce tests that a rebuild advances the watermark
func TestReindexWorker_RebuildOnlyOnce(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "original")

	var rebuilds int
	worker := NewReindexWorker(path, time.Time{}, func(ctx context.Context) error {
		rebuilds++
		return nil
	})

	ctx := context.Background()
	require.NoError(t, worker.ProcessJobs(ctx))
	require.NoError(t, worker.ProcessJobs(ctx))

	assert.Equal(t, 1, rebuilds)
}

// TestReindexWorker_RebuildFailureKeepsWatermark tests that a failed rebuild is retried
func TestReindexWorker_RebuildFailureKeepsWatermark(t *testing.T) {
	path := writeDocument(t, t.TempDir(), "original")

	var rebuilds int
	worker := NewReindexWorker(path, time.Time{}, func(ctx context.Context) error {
		rebuilds++
		if rebuilds == 1 {
			return errors.New("provider unavailable")
		}
		return nil
	})

	ctx := context.Background()
	err := worker.ProcessJobs(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to rebuild index")

	// Watermark was not advanced, so the next poll retries
	require.NoError(t, worker.ProcessJobs(ctx))
	assert.Equal(t, 2, rebuilds)
}

// TestReindexWorker_StatError tests document stat failure handling
func TestReindexWorker_StatError(t *testing.T) {
	worker := NewReindexWorker(filepath.Join(t.TempDir(), "missing.md"), time.Time{}, func(ctx context.Context) error {
		t.Fatal("rebuild should not run when the document cannot be read")
		return nil
	})

	err := worker.ProcessJobs(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat document")
}
