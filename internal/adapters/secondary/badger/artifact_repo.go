package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

const (
	artifactPrefix = "artifact/"
	sequenceKey    = "seq/artifact"
	sequenceLease  = 100
)

// Open opens a badger database at path, or an in-memory one when path is empty.
func Open(path string) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

type ArtifactRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewArtifactRepository(db *badger.DB) (*ArtifactRepository, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceLease)
	if err != nil {
		return nil, fmt.Errorf("artifact id sequence: %w", err)
	}
	return &ArtifactRepository{db: db, seq: seq}, nil
}

// Close releases the unused part of the id lease.
func (r *ArtifactRepository) Close() error {
	return r.seq.Release()
}

func artifactKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", artifactPrefix, id))
}

func (r *ArtifactRepository) Create(ctx context.Context, artifact *domain.Artifact) error {
	next, err := r.seq.Next()
	if err != nil {
		return fmt.Errorf("next artifact id: %w", err)
	}
	artifact.ID = int64(next) + 1

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(artifactKey(artifact.ID), data)
	})
}

func (r *ArtifactRepository) Get(ctx context.Context, id int64) (*domain.Artifact, error) {
	var artifact domain.Artifact
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &artifact)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %d: %w", id, err)
	}
	return &artifact, nil
}

func (r *ArtifactRepository) Update(ctx context.Context, artifact *domain.Artifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key := artifactKey(artifact.ID)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrArtifactNotFound
	}
	return err
}

func (r *ArtifactRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := artifactKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrArtifactNotFound
	}
	return err
}

// Scan lists artifacts in id order. Name matches case-insensitively as a substring;
// an empty name or "*" matches everything.
func (r *ArtifactRepository) Scan(ctx context.Context, filter ports.ArtifactFilter) ([]*domain.Artifact, int, error) {
	name := strings.ToLower(filter.Name)
	if name == "*" {
		name = ""
	}

	var items []*domain.Artifact
	total := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var a domain.Artifact
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &a) }); err != nil {
				return err
			}
			if filter.Type != "" && a.Type != filter.Type {
				continue
			}
			if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
				continue
			}

			total++
			if total <= filter.Offset || (filter.Limit > 0 && len(items) >= filter.Limit) {
				continue
			}
			items = append(items, &a)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan artifacts: %w", err)
	}
	return items, total, nil
}

// Reset deletes every artifact. Ids keep increasing across resets.
func (r *ArtifactRepository) Reset(ctx context.Context) error {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(artifactPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset artifacts: %w", err)
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("reset artifacts: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("reset artifacts: %w", err)
	}
	return nil
}
