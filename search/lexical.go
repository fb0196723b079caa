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

package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/dictionary"
	"github.com/poiesic/chronicle/storage"
)

// DefaultLexicalLimit caps the store rows returned for a dictionary match.
const DefaultLexicalLimit = 5

// LexicalResult is the outcome of the lexical stage.
type LexicalResult struct {
	// Name is the dictionary entry found in the query, empty when none matched.
	Name string
	// Matches holds the store rows for Name, each with similarity 1.0.
	Matches []Match
}

// Extracted reports whether the dictionary matched a name.
func (r LexicalResult) Extracted() bool {
	return r.Name != ""
}

// Hit reports whether the store returned entities for the matched name.
func (r LexicalResult) Hit() bool {
	return len(r.Matches) > 0
}

// LexicalResolver resolves queries through the dictionary and an exact store
// lookup, without embeddings.
type LexicalResolver struct {
	repository storage.EntityRepository
	limit      int
	logger     *slog.Logger
}

// LexicalOption configures a LexicalResolver.
type LexicalOption func(*LexicalResolver)

// WithLimit caps the number of store rows per match. Default is DefaultLexicalLimit.
func WithLimit(limit int) LexicalOption {
	return func(r *LexicalResolver) {
		r.limit = limit
	}
}

// WithLexicalLogger sets a custom logger.
func WithLexicalLogger(logger *slog.Logger) LexicalOption {
	return func(r *LexicalResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewLexicalResolver creates a resolver reading from repository.
func NewLexicalResolver(repository storage.EntityRepository, opts ...LexicalOption) (*LexicalResolver, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	r := &LexicalResolver{
		repository: repository,
		limit:      DefaultLexicalLimit,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.limit < 1 {
		return nil, ErrInvalidLimit
	}
	return r, nil
}

// Resolve matches query against index and, on a match, looks the name up in
// the store. A dictionary miss returns immediately without touching the store.
// A match the store no longer knows about yields an empty result carrying Name.
func (r *LexicalResolver) Resolve(ctx context.Context, query string, index *dictionary.Index) (LexicalResult, error) {
	entry, ok := index.Match(query)
	if !ok {
		return LexicalResult{}, nil
	}

	entities, err := r.repository.FindByNameOrAliasExact(ctx, entry.Text, r.limit)
	if err != nil {
		r.logger.Error("error looking up dictionary match", "name", entry.Text, "err", err)
		return LexicalResult{}, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	result := LexicalResult{Name: entry.Text}
	if len(entities) == 0 {
		r.logger.Debug("dictionary match not found in store", "name", entry.Text)
		return result, nil
	}

	result.Matches = make([]Match, len(entities))
	for i, e := range entities {
		result.Matches[i] = Match{Entity: e, Similarity: 1.0}
	}
	return result, nil
}
