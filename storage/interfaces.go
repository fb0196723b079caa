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

package storage

import (
	"context"

	"github.com/poiesic/chronicle/core"
)

// EntityRepository stores historical entities and their embeddings.
// Iteration order of every listing method is ascending ID order, which is
// the order entities were added.
type EntityRepository interface {
	// AddEntities validates and stores one or more entities.
	// IDs are generated from a sequence and InsertedAt/UpdatedAt are set.
	// Entities carrying an embedding must match the store's dimension.
	// Returns the entities with generated IDs and timestamps populated.
	AddEntities(ctx context.Context, entities ...*core.Entity) ([]*core.Entity, error)

	// GetEntity retrieves a single entity by ID.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id core.ID) (*core.Entity, error)

	// ListEntities returns every stored entity.
	ListEntities(ctx context.Context) ([]*core.Entity, error)

	// ListAllWithEmbeddings returns every entity whose embedding is present.
	ListAllWithEmbeddings(ctx context.Context) ([]*core.Entity, error)

	// FindByNameOrAliasExact returns up to limit entities whose name or one of
	// whose aliases contains name as a whole word, compared case-insensitively.
	// Returns an empty slice (not an error) when nothing matches.
	FindByNameOrAliasExact(ctx context.Context, name string, limit int) ([]*core.Entity, error)

	// FindMissingEmbedding returns every entity whose embedding is absent.
	FindMissingEmbedding(ctx context.Context) ([]*core.Entity, error)

	// UpdateEmbedding stores vector as the embedding of the entity with the given ID.
	// Returns ErrNotFound if the entity doesn't exist, ErrEmptyEmbedding for an
	// empty vector and ErrDimensionMismatch if the length differs from the
	// store's established dimension.
	UpdateEmbedding(ctx context.Context, id core.ID, vector []float32) error

	// Dimension returns the embedding dimension established by the first stored
	// embedding, or 0 if no embedding has been stored yet.
	Dimension(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
