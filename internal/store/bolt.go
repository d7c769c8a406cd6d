package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

const boltIndexFile = "index.db"

var (
	bucketChunks  = []byte("chunks")
	bucketVectors = []byte("vectors")
)

// BoltStore is a bbolt-backed vector index persisted under a directory.
// Search is brute-force cosine over all stored vectors, which is fine for a
// single FAQ document's worth of chunks.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the index under dir. Used at build time; the
// directory is created when absent.
func OpenBolt(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vector store directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, boltIndexFile), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketVectors} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// LoadBolt opens an existing index under dir. It fails with
// domain.ErrIndexNotFound when no index has been built there.
func LoadBolt(dir string) (*BoltStore, error) {
	if _, err := os.Stat(filepath.Join(dir, boltIndexFile)); err != nil {
		return nil, domain.ErrIndexNotFound
	}
	return OpenBolt(dir)
}

// Replace drops both buckets and writes the entries keyed by chunk index.
func (s *BoltStore) Replace(ctx context.Context, entries []IndexEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketChunks, bucketVectors} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		chunks := tx.Bucket(bucketChunks)
		vectors := tx.Bucket(bucketVectors)
		for _, entry := range entries {
			key := itob(entry.Chunk.Metadata.ChunkIndex)

			chunkData, err := json.Marshal(entry.Chunk)
			if err != nil {
				return err
			}
			if err := chunks.Put(key, chunkData); err != nil {
				return err
			}

			vectorData, err := json.Marshal(entry.Vector)
			if err != nil {
				return err
			}
			if err := vectors.Put(key, vectorData); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	type scored struct {
		key   []byte
		score float64
	}

	var scores []scored
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).ForEach(func(key, value []byte) error {
			var stored []float32
			if err := json.Unmarshal(value, &stored); err != nil {
				return fmt.Errorf("corrupt vector at key %x: %w", key, err)
			}
			scores = append(scores, scored{
				key:   append([]byte(nil), key...),
				score: CosineSimilarity(vector, stored),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if k > len(scores) {
		k = len(scores)
	}
	scores = scores[:k]

	results := make([]domain.RetrievedChunk, 0, len(scores))
	err = s.db.View(func(tx *bbolt.Tx) error {
		chunks := tx.Bucket(bucketChunks)
		for _, sc := range scores {
			data := chunks.Get(sc.key)
			if data == nil {
				return fmt.Errorf("chunk missing for key %x", sc.key)
			}
			var chunk domain.Chunk
			if err := json.Unmarshal(data, &chunk); err != nil {
				return err
			}
			score := sc.score
			results = append(results, domain.RetrievedChunk{
				Chunk:           chunk,
				SimilarityScore: &score,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (s *BoltStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketChunks).Stats().KeyN
		return nil
	})
	return count, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func itob(v int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
