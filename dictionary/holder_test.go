package dictionary

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/chronicle/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	entities []*core.Entity
	err      error
}

func (f *fakeSource) ListEntities(ctx context.Context) ([]*core.Entity, error) {
	return f.entities, f.err
}

func TestHolder_Rebuild(t *testing.T) {
	holder := NewHolder(nil, nil)
	require.Zero(t, holder.Load().Len())

	source := &fakeSource{entities: []*core.Entity{entity(1, "Hồ Chí Minh", "Bác Hồ")}}
	idx, err := holder.Rebuild(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Same(t, idx, holder.Load())

	_, ok := holder.Load().Match("Bác Hồ là ai?")
	assert.True(t, ok)
}

func TestHolder_RebuildErrorKeepsSnapshot(t *testing.T) {
	original := Build([]*core.Entity{entity(1, "Lê Lợi")})
	holder := NewHolder(original, nil)

	cause := errors.New("boom")
	_, err := holder.Rebuild(context.Background(), &fakeSource{err: cause})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, original, holder.Load())

	_, err = holder.Rebuild(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSourceRequired)
}

func TestHolder_OldSnapshotUnchangedAfterSwap(t *testing.T) {
	holder := NewHolder(Build([]*core.Entity{entity(1, "Lê Lợi")}), nil)
	old := holder.Load()

	replaced := holder.Swap(Build([]*core.Entity{entity(2, "Nguyễn Trãi")}))
	assert.Same(t, old, replaced)

	_, ok := old.Match("Lê Lợi")
	assert.True(t, ok, "readers of the old snapshot keep seeing it")
	_, ok = holder.Load().Match("Lê Lợi")
	assert.False(t, ok)
}

func TestHolder_ConcurrentReadersAndSwaps(t *testing.T) {
	holder := NewHolder(Build([]*core.Entity{entity(1, "Quang Trung")}), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				entry, ok := holder.Load().Match("Quang Trung")
				if ok {
					assert.Equal(t, "Quang Trung", entry.Text)
				}
			}
		}()
	}
	for j := 0; j < 50; j++ {
		holder.Swap(Build([]*core.Entity{entity(core.ID(j), "Quang Trung")}))
	}
	wg.Wait()
}
