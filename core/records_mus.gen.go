// MUS serializers for stored records, in the layout cmd/musgen emits.
// Regenerate with `go run ./cmd/musgen` after changing Entity.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	ptrStringMUS    = ord.NewPtrSer[string](ord.String)
	sliceStringMUS  = ord.NewSliceSer[string](ord.String)
	sliceFloat32MUS = ord.NewSliceSer[float32](raw.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var KindMUS = kindMUS{}

type kindMUS struct{}

func (s kindMUS) Marshal(v Kind, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s kindMUS) Unmarshal(bs []byte) (v Kind, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Kind(tmp)
	return
}

func (s kindMUS) Size(v Kind) (size int) {
	return varint.Int.Size(int(v))
}

func (s kindMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var EntityMUS = entityMUS{}

type entityMUS struct{}

func (s entityMUS) Marshal(v Entity, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += sliceStringMUS.Marshal(v.Aliases, bs[n:])
	n += ptrStringMUS.Marshal(v.Description, bs[n:])
	n += sliceFloat32MUS.Marshal(v.Embedding, bs[n:])
	n += KindMUS.Marshal(v.Kind, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicroUTC.Marshal(v.UpdatedAt, bs[n:])
}

func (s entityMUS) Unmarshal(bs []byte) (v Entity, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Aliases, n1, err = sliceStringMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ptrStringMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Embedding, n1, err = sliceFloat32MUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind, n1, err = KindMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (s entityMUS) Size(v Entity) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += sliceStringMUS.Size(v.Aliases)
	size += ptrStringMUS.Size(v.Description)
	size += sliceFloat32MUS.Size(v.Embedding)
	size += KindMUS.Size(v.Kind)
	size += raw.TimeUnixMicroUTC.Size(v.InsertedAt)
	return size + raw.TimeUnixMicroUTC.Size(v.UpdatedAt)
}

func (s entityMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceStringMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ptrStringMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceFloat32MUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = KindMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	return
}
