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

package chronicle

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/chronicle/backfill"
	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/dictionary"
	"github.com/poiesic/chronicle/gateway"
	"github.com/poiesic/chronicle/gateway/httpapi"
	"github.com/poiesic/chronicle/gateway/openai"
	"github.com/poiesic/chronicle/search"
	"github.com/poiesic/chronicle/storage"
	"github.com/poiesic/chronicle/storage/badger"
)

// Database wires the entity store, the embedding gateway and the dictionary
// snapshot shared by searchers.
type Database struct {
	backend    *badger.Backend
	repo       storage.EntityRepository
	embedder   gateway.Embedder
	dictionary *dictionary.Holder
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	gatewayConfig *gateway.Config
	embedder      gateway.Embedder
	inMemory      bool
	logger        *slog.Logger
}

// WithGatewayConfig sets the embedding gateway configuration.
// Default is gateway.DefaultConfig().
func WithGatewayConfig(cfg *gateway.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.gatewayConfig = cfg
	}
}

// WithEmbedder replaces the configured gateway client. The gateway Config's
// call policy still applies to it.
func WithEmbedder(embedder gateway.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory keeps all data in memory. The path argument is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens the store at filePath, connects the embedding gateway and
// builds the dictionary from the stored entities.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		gatewayConfig: gateway.DefaultConfig(), // Default if not provided
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.gatewayConfig == nil {
		options.gatewayConfig = gateway.DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	if err := options.gatewayConfig.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithBackendLogger(options.logger))
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewEntityRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	var embedder gateway.Embedder
	if options.embedder != nil {
		embedder, err = gateway.NewGuard(options.embedder, options.gatewayConfig, options.logger)
	} else {
		embedder, err = NewEmbedder(options.gatewayConfig, options.logger)
	}
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	db := &Database{
		backend:    backend,
		repo:       repo,
		embedder:   embedder,
		dictionary: dictionary.NewHolder(nil, options.logger),
		logger:     options.logger,
	}

	if _, err := db.RebuildDictionary(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// NewEmbedder builds the gateway client selected by cfg.Kind and wraps it in a
// Guard applying cfg's timeout, retry, breaker and cache policy.
func NewEmbedder(cfg *gateway.Config, logger *slog.Logger) (gateway.Embedder, error) {
	if cfg == nil {
		cfg = gateway.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var client gateway.Embedder
	switch cfg.Kind {
	case gateway.KindOpenAI:
		e, err := openai.NewEmbedder(cfg, logger)
		if err != nil {
			return nil, err
		}
		client = e
	default:
		client = httpapi.NewClient(cfg, httpapi.WithLogger(logger))
	}

	return gateway.NewGuard(client, cfg, logger)
}

func (db *Database) Close() error {
	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing entity repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Repository() storage.EntityRepository {
	return db.repo
}

func (db *Database) Embedder() gateway.Embedder {
	return db.embedder
}

func (db *Database) Dictionary() *dictionary.Holder {
	return db.dictionary
}

// AddEntities stores entities and publishes a dictionary that includes them.
func (db *Database) AddEntities(ctx context.Context, entities ...*core.Entity) ([]*core.Entity, error) {
	added, err := db.repo.AddEntities(ctx, entities...)
	if err != nil {
		return nil, err
	}
	if _, err := db.RebuildDictionary(ctx); err != nil {
		return added, err
	}
	return added, nil
}

// RebuildDictionary rebuilds the dictionary from the store and swaps it in.
func (db *Database) RebuildDictionary(ctx context.Context) (*dictionary.Index, error) {
	return db.dictionary.Rebuild(ctx, db.repo)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.repo, db.embedder, db.dictionary, opts...)
}

func (db *Database) NewBackfillJob(cfg *backfill.Config, progress io.Writer, opts ...backfill.Option) (*backfill.Job, error) {
	opts = append([]backfill.Option{backfill.WithLogger(db.logger)}, opts...)
	return backfill.NewJob(db.repo, db.embedder, cfg, progress, opts...)
}
