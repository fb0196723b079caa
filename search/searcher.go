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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/dictionary"
	"github.com/poiesic/chronicle/gateway"
	"github.com/poiesic/chronicle/storage"
)

// DefaultGatewayTimeout bounds the query embedding call.
const DefaultGatewayTimeout = 10 * time.Second

// Searcher is the single entry point for entity queries. It is safe for
// concurrent use; each query reads the dictionary snapshot current at its start.
type Searcher struct {
	repository     storage.EntityRepository
	embedder       gateway.Embedder
	dictionary     *dictionary.Holder
	lexical        *LexicalResolver
	ranker         *Ranker
	threshold      float64
	topK           int
	lexicalLimit   int
	gatewayTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithThreshold sets the minimum semantic similarity. Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) error {
		s.threshold = threshold
		return nil
	}
}

// WithTopK caps semantic matches. Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		s.topK = k
		return nil
	}
}

// WithLexicalLimit caps lexical matches. Default is DefaultLexicalLimit.
func WithLexicalLimit(limit int) Option {
	return func(s *Searcher) error {
		s.lexicalLimit = limit
		return nil
	}
}

// WithGatewayTimeout bounds the embedding call. Zero or negative disables the
// searcher's own deadline and leaves timing to the embedder and ctx.
func WithGatewayTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		s.gatewayTimeout = timeout
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.EntityRepository,
	embedder gateway.Embedder,
	dict *dictionary.Holder,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if dict == nil {
		return nil, ErrDictionaryRequired
	}

	s := &Searcher{
		repository:     repository,
		embedder:       embedder,
		dictionary:     dict,
		threshold:      DefaultThreshold,
		topK:           DefaultTopK,
		lexicalLimit:   DefaultLexicalLimit,
		gatewayTimeout: DefaultGatewayTimeout,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	ranker, err := NewRanker(s.threshold, s.topK)
	if err != nil {
		return nil, err
	}
	s.ranker = ranker

	lexical, err := NewLexicalResolver(repository, WithLimit(s.lexicalLimit), WithLexicalLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.lexical = lexical

	return s, nil
}

// Search resolves query lexically, falling back to semantic ranking.
func (s *Searcher) Search(ctx context.Context, query string) (*Result, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with stage callbacks.
// Errors wrap core.ErrInput, core.ErrGateway or core.ErrStore.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query text is empty", core.ErrInput)
	}

	monitor.Start(query)

	// 1. Lexical stage
	lexical, err := s.lexical.Resolve(ctx, query, s.dictionary.Load())
	if err != nil {
		return nil, err
	}
	monitor.AfterLexical(lexical)

	if lexical.Hit() {
		result := &Result{
			Query:   query,
			Source:  SourceLexical,
			Matches: lexical.Matches,
		}
		s.logger.Debug("lexical hit", "name", lexical.Name, "matches", len(result.Matches))
		monitor.Finish(result)
		return result, nil
	}

	// 2. Semantic stage, embedding the extracted name when there is one
	text := query
	if lexical.Extracted() {
		text = lexical.Name
	}
	monitor.BeforeEmbedding(text)

	vector, err := s.embed(ctx, text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	candidates, err := s.repository.ListAllWithEmbeddings(ctx)
	if err != nil {
		s.logger.Error("error listing embedded entities", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	ranking := s.ranker.Rank(vector, candidates)
	monitor.AfterRanking(ranking)

	var result *Result
	if ranking.NoResult {
		result = noResult(query, text)
	} else {
		result = &Result{
			Query:        query,
			EmbeddedText: text,
			Source:       SourceSemantic,
			Matches:      ranking.Matches,
		}
	}
	s.logger.Debug("semantic search finished",
		"candidates", ranking.Candidates, "matches", len(result.Matches))
	monitor.Finish(result)
	return result, nil
}

func (s *Searcher) embed(ctx context.Context, text string) ([]float32, error) {
	if s.gatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.gatewayTimeout)
		defer cancel()
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err == nil && len(vector) == 0 {
		err = gateway.ErrEmptyEmbedding
	}
	if err != nil {
		if errors.Is(err, core.ErrGateway) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrGateway, err)
	}
	return vector, nil
}
