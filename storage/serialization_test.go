package storage

import (
	"math"
	"testing"
	"time"

	"github.com/poiesic/chronicle/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalID(t *testing.T) {
	for _, id := range []core.ID{0, 1, 300, math.MaxUint64} {
		decoded, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	_, err := UnmarshalID(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalDimension(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestMarshalDimension(t *testing.T) {
	for _, dim := range []int{0, 3, 384, 1536} {
		decoded, err := UnmarshalDimension(MarshalDimension(dim))
		require.NoError(t, err)
		assert.Equal(t, dim, decoded)
	}
}

func TestMarshalEntity_PreservesOptionalFields(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("absent description and embedding stay absent", func(t *testing.T) {
		decoded, err := UnmarshalEntity(MarshalEntity(&core.Entity{Id: 7, Name: "Lý Thường Kiệt", Kind: core.KindPerson, InsertedAt: now}))
		require.NoError(t, err)
		assert.Nil(t, decoded.Description)
		assert.Nil(t, decoded.Aliases)
		assert.False(t, decoded.HasEmbedding())
		assert.Equal(t, now, decoded.InsertedAt)
		assert.True(t, decoded.UpdatedAt.IsZero())
	})

	t.Run("every field survives", func(t *testing.T) {
		entity := &core.Entity{
			Id:          8,
			Name:        "Hồ Chí Minh",
			Aliases:     []string{"Bác Hồ", "Nguyễn Ái Quốc"},
			Description: core.StringPtr("Chủ tịch nước"),
			Embedding:   []float32{0.25, -0.5, 1, 3.1415927},
			Kind:        core.KindPerson,
			InsertedAt:  now,
			UpdatedAt:   now.Add(time.Second),
		}

		decoded, err := UnmarshalEntity(MarshalEntity(entity))
		require.NoError(t, err)
		assert.Equal(t, entity, decoded)
	})

	t.Run("empty description is kept distinct from absent", func(t *testing.T) {
		decoded, err := UnmarshalEntity(MarshalEntity(&core.Entity{Id: 9, Name: "x", Kind: core.KindEvent, Description: core.StringPtr("")}))
		require.NoError(t, err)
		require.NotNil(t, decoded.Description)
		assert.Empty(t, *decoded.Description)
	})
}

func TestUnmarshalEntity_Invalid(t *testing.T) {
	data := MarshalEntity(&core.Entity{Id: 1, Name: "Trần Hưng Đạo", Kind: core.KindPerson})

	_, err := UnmarshalEntity(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalEntity(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
