package search

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/dictionary"
	"github.com/poiesic/chronicle/storage"
	storagebadger "github.com/poiesic/chronicle/storage/badger"
	"github.com/stretchr/testify/require"
)

// stubRepository overrides the two read paths used by searches.
type stubRepository struct {
	storage.EntityRepository
	found     []*core.Entity
	findErr   error
	listed    []*core.Entity
	listErr   error
	findCalls atomic.Int32
	listCalls atomic.Int32
}

func (s *stubRepository) FindByNameOrAliasExact(_ context.Context, _ string, limit int) ([]*core.Entity, error) {
	s.findCalls.Add(1)
	if s.findErr != nil {
		return nil, s.findErr
	}
	if len(s.found) > limit {
		return s.found[:limit], nil
	}
	return s.found, nil
}

func (s *stubRepository) ListAllWithEmbeddings(context.Context) ([]*core.Entity, error) {
	s.listCalls.Add(1)
	return s.listed, s.listErr
}

func setupRepo(t *testing.T, entities ...*core.Entity) (storage.EntityRepository, []*core.Entity) {
	t.Helper()
	repo, backend, err := storagebadger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	if len(entities) == 0 {
		return repo, nil
	}
	added, err := repo.AddEntities(context.Background(), entities...)
	require.NoError(t, err)
	return repo, added
}

func holderFor(entities ...*core.Entity) *dictionary.Holder {
	return dictionary.NewHolder(dictionary.Build(entities), nil)
}
