// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/storage"
)

const maxConflictRetries = 5

// EntityRepository implements storage.EntityRepository for BadgerDB.
type EntityRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
//
// Returns storage.EntityRepository to keep callers decoupled from BadgerDB.
func NewEntityRepository(backend *Backend) (storage.EntityRepository, error) {
	return newEntityRepository(backend)
}

func newEntityRepository(backend *Backend) (*EntityRepository, error) {
	idSeq, err := backend.GetSequence(entityIDSeq)
	if err != nil {
		return nil, err
	}

	return &EntityRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *EntityRepository) Close() error {
	return r.idSeq.Release()
}

// AddEntities adds one or more entities to storage.
func (r *EntityRepository) AddEntities(ctx context.Context, entities ...*core.Entity) ([]*core.Entity, error) {
	for _, entity := range entities {
		if err := core.ValidateEntity(entity); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		dim, err := readDimension(tx)
		if err != nil {
			return err
		}

		for _, entity := range entities {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			entity.Id = core.ID(nextID)

			entity.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
			entity.UpdatedAt = entity.InsertedAt

			if entity.HasEmbedding() {
				if dim == 0 {
					dim = len(entity.Embedding)
					if err := tx.Set([]byte(entityDimensionKey), storage.MarshalDimension(dim)); err != nil {
						return err
					}
				} else if len(entity.Embedding) != dim {
					return fmt.Errorf("%w: entity %q has %d, store has %d",
						storage.ErrDimensionMismatch, entity.Name, len(entity.Embedding), dim)
				}
			}

			if err := writeEntity(tx, entity); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// GetEntity retrieves a single entity by ID.
func (r *EntityRepository) GetEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	var result *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListEntities retrieves every entity in ID order.
func (r *EntityRepository) ListEntities(ctx context.Context) ([]*core.Entity, error) {
	return r.scan(ctx, func(*core.Entity) bool { return true }, 0)
}

// ListAllWithEmbeddings retrieves every entity carrying an embedding, in ID order.
func (r *EntityRepository) ListAllWithEmbeddings(ctx context.Context) ([]*core.Entity, error) {
	return r.scan(ctx, (*core.Entity).HasEmbedding, 0)
}

// FindByNameOrAliasExact scans entities for a whole-word, case-insensitive
// occurrence of name in their name or aliases.
func (r *EntityRepository) FindByNameOrAliasExact(ctx context.Context, name string, limit int) ([]*core.Entity, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	folded := core.Fold(name)
	if folded == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", storage.ErrInvalidQuery)
	}

	results, err := r.scan(ctx, func(entity *core.Entity) bool {
		for _, candidate := range entity.Names() {
			if core.ContainsWord(core.Fold(candidate), folded) {
				return true
			}
		}
		return false
	}, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*core.Entity{}
	}
	return results, nil
}

// FindMissingEmbedding walks the missing-embedding index rather than every record.
func (r *EntityRepository) FindMissingEmbedding(ctx context.Context) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(entityMissingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, ok := idFromKey(iter.Item().Key(), entityMissingPrefix)
			if !ok {
				continue
			}
			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			// Index entries for deleted or already embedded records are ignored.
			if entity == nil || entity.HasEmbedding() {
				continue
			}
			results = append(results, entity)
		}
		return nil
	}, false)
	return results, err
}

// UpdateEmbedding stores the embedding for one entity and drops it from the
// missing-embedding index. Writing the same vector twice is harmless.
func (r *EntityRepository) UpdateEmbedding(ctx context.Context, id core.ID, vector []float32) error {
	if len(vector) == 0 {
		return storage.ErrEmptyEmbedding
	}

	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = r.updateEmbedding(id, vector)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		r.backend.logger.Debug("embedding update conflicted, retrying", "id", id, "attempt", attempt)
	}
	return err
}

func (r *EntityRepository) updateEmbedding(id core.ID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEntityKey(id)
		entity, err := readEntity(tx, key)
		if err != nil {
			return err
		}
		if entity == nil {
			return storage.ErrNotFound
		}

		dim, err := readDimension(tx)
		if err != nil {
			return err
		}
		switch {
		case dim == 0:
			if err := tx.Set([]byte(entityDimensionKey), storage.MarshalDimension(len(vector))); err != nil {
				return err
			}
		case dim != len(vector):
			return fmt.Errorf("%w: got %d, store has %d", storage.ErrDimensionMismatch, len(vector), dim)
		}

		entity.Embedding = append([]float32(nil), vector...)
		entity.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		if err := writeEntity(tx, entity); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Dimension returns the stored embedding dimension, or 0 if none is established.
func (r *EntityRepository) Dimension(ctx context.Context) (int, error) {
	var dim int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		dim, err = readDimension(tx)
		return err
	}, false)
	return dim, err
}

// scan iterates entity records in ID order, keeping those accepted by keep.
// A positive limit stops the scan once that many entities are collected.
func (r *EntityRepository) scan(ctx context.Context, keep func(*core.Entity) bool, limit int) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entity *core.Entity
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}

			if entity == nil || !keep(entity) {
				continue
			}
			results = append(results, entity)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Helper methods

// writeEntity stores the record and keeps the missing-embedding index in step.
func writeEntity(tx *badger.Txn, entity *core.Entity) error {
	if err := tx.Set(makeEntityKey(entity.Id), storage.MarshalEntity(entity)); err != nil {
		return err
	}

	missingKey := makeMissingKey(entity.Id)
	if entity.HasEmbedding() {
		return tx.Delete(missingKey)
	}
	return tx.Set(missingKey, []byte{})
}

// readEntity reads an entity from the transaction.
// Returns nil, nil if the key doesn't exist.
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}

// readDimension returns the established embedding dimension, or 0.
func readDimension(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(entityDimensionKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var dim int
	err = item.Value(func(val []byte) error {
		var err error
		dim, err = storage.UnmarshalDimension(val)
		return err
	})
	return dim, err
}
