package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.EntityRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func seed(t *testing.T, repo storage.EntityRepository, entities ...*core.Entity) []*core.Entity {
	t.Helper()
	added, err := repo.AddEntities(context.Background(), entities...)
	require.NoError(t, err)
	return added
}

func TestAddEntities(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added := seed(t, repo,
		&core.Entity{Name: "Hồ Chí Minh", Aliases: []string{"Bác Hồ"}, Kind: core.KindPerson},
		&core.Entity{Name: "Chiến thắng Điện Biên Phủ", Kind: core.KindEvent},
	)
	require.Len(t, added, 2)

	assert.NotZero(t, added[0].Id)
	assert.Greater(t, added[1].Id, added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())
	assert.Equal(t, added[0].InsertedAt, added[0].UpdatedAt)

	got, err := repo.GetEntity(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Hồ Chí Minh", got.Name)
	assert.Equal(t, []string{"Bác Hồ"}, got.Aliases)
}

func TestAddEntities_Validation(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.AddEntities(context.Background(), &core.Entity{Name: "", Kind: core.KindPerson})
	assert.ErrorIs(t, err, core.ErrEmptyName)

	all, err := repo.ListEntities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddEntities_DimensionMismatch(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.AddEntities(context.Background(),
		&core.Entity{Name: "A", Kind: core.KindPerson, Embedding: []float32{1, 0, 0}},
		&core.Entity{Name: "B", Kind: core.KindPerson, Embedding: []float32{1, 0}},
	)
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)

	all, err := repo.ListEntities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "failed batch must not be partially written")
}

func TestGetEntity_NotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.GetEntity(context.Background(), core.ID(999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListEntities_IDOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// Enough entities that decimal key ordering would differ from numeric ordering.
	var entities []*core.Entity
	for i := 0; i < 12; i++ {
		entities = append(entities, &core.Entity{Name: "entity", Kind: core.KindEvent})
	}
	seed(t, repo, entities...)

	all, err := repo.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 12)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Id, all[i].Id)
	}
}

func TestListAllWithEmbeddings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added := seed(t, repo,
		&core.Entity{Name: "Embedded", Kind: core.KindPerson, Embedding: []float32{0.1, 0.2}},
		&core.Entity{Name: "Pending", Kind: core.KindPerson},
	)

	withEmb, err := repo.ListAllWithEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, withEmb, 1)
	assert.Equal(t, added[0].Id, withEmb[0].Id)
}

func TestFindByNameOrAliasExact(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added := seed(t, repo,
		&core.Entity{Name: "Hồ Chí Minh", Aliases: []string{"Bác Hồ", "Nguyễn Ái Quốc"}, Kind: core.KindPerson},
		&core.Entity{Name: "Quang Trung", Aliases: []string{"Nguyễn Huệ"}, Kind: core.KindPerson},
		&core.Entity{Name: "Trưng Trắc", Aliases: []string{"Trung"}, Kind: core.KindPerson},
		&core.Entity{Name: "Hồng Bàng", Kind: core.KindEvent},
	)

	t.Run("matches canonical name case-insensitively", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "hồ chí minh", 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, added[0].Id, got[0].Id)
	})

	t.Run("matches alias", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "Bác Hồ", 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, added[0].Id, got[0].Id)
	})

	t.Run("whole word only", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "Hồ", 5)
		require.NoError(t, err)
		// "Hồ" is a word of "Hồ Chí Minh" and "Bác Hồ" but only a prefix of "Hồng".
		require.Len(t, got, 1)
		assert.Equal(t, added[0].Id, got[0].Id)
	})

	t.Run("shared word returns several in ID order", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "Trung", 5)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, added[1].Id, got[0].Id)
		assert.Equal(t, added[2].Id, got[1].Id)
	})

	t.Run("respects limit", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "Nguyễn", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		got, err := repo.FindByNameOrAliasExact(ctx, "Lý Công Uẩn", 5)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := repo.FindByNameOrAliasExact(ctx, "", 5)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
		_, err = repo.FindByNameOrAliasExact(ctx, "Trung", 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestFindMissingEmbeddingAndUpdate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added := seed(t, repo,
		&core.Entity{Name: "A", Kind: core.KindPerson, Description: core.StringPtr("a")},
		&core.Entity{Name: "B", Kind: core.KindPerson, Embedding: []float32{1, 0, 0}},
		&core.Entity{Name: "C", Kind: core.KindEvent},
	)

	missing, err := repo.FindMissingEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, added[0].Id, missing[0].Id)
	assert.Equal(t, added[2].Id, missing[1].Id)

	require.NoError(t, repo.UpdateEmbedding(ctx, added[0].Id, []float32{0, 1, 0}))

	missing, err = repo.FindMissingEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, added[2].Id, missing[0].Id)

	got, err := repo.GetEntity(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, got.Embedding)
	assert.True(t, got.UpdatedAt.After(got.InsertedAt) || got.UpdatedAt.Equal(got.InsertedAt))

	// Writing the same vector again leaves the same end state.
	require.NoError(t, repo.UpdateEmbedding(ctx, added[0].Id, []float32{0, 1, 0}))
	got, err = repo.GetEntity(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, got.Embedding)
}

func TestUpdateEmbedding_Errors(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	added := seed(t, repo,
		&core.Entity{Name: "A", Kind: core.KindPerson},
		&core.Entity{Name: "B", Kind: core.KindPerson},
	)

	assert.ErrorIs(t, repo.UpdateEmbedding(ctx, added[0].Id, nil), storage.ErrEmptyEmbedding)
	assert.ErrorIs(t, repo.UpdateEmbedding(ctx, core.ID(4242), []float32{1}), storage.ErrNotFound)

	dim, err := repo.Dimension(ctx)
	require.NoError(t, err)
	assert.Zero(t, dim)

	require.NoError(t, repo.UpdateEmbedding(ctx, added[0].Id, []float32{1, 2, 3}))
	dim, err = repo.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	err = repo.UpdateEmbedding(ctx, added[1].Id, []float32{1, 2})
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)

	got, err := repo.GetEntity(ctx, added[1].Id)
	require.NoError(t, err)
	assert.False(t, got.HasEmbedding(), "rejected vector must not be stored")
}

func TestUpdateEmbedding_Concurrent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	var entities []*core.Entity
	for i := 0; i < 20; i++ {
		entities = append(entities, &core.Entity{Name: "E", Kind: core.KindEvent})
	}
	added := seed(t, repo, entities...)

	var wg sync.WaitGroup
	errs := make([]error, len(added))
	for i, entity := range added {
		wg.Add(1)
		go func(i int, id core.ID) {
			defer wg.Done()
			errs[i] = repo.UpdateEmbedding(ctx, id, []float32{float32(i), 1})
		}(i, entity.Id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	missing, err := repo.FindMissingEmbedding(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
