package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// EmbeddingTypeIDMUS serializes EmbeddingTypeID values.
var EmbeddingTypeIDMUS = embeddingTypeIDMUS{}

type embeddingTypeIDMUS struct{}

func (embeddingTypeIDMUS) Marshal(id EmbeddingTypeID, bs []byte) (n int) {
	return varint.Int.Marshal(int(id), bs)
}

func (embeddingTypeIDMUS) Unmarshal(bs []byte) (id EmbeddingTypeID, n int, err error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return EmbeddingTypeID(v), n, err
}

func (embeddingTypeIDMUS) Size(id EmbeddingTypeID) (size int) {
	return varint.Int.Size(int(id))
}

func (embeddingTypeIDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

// EmbeddingRecordMUS serializes EmbeddingRecord values. Fields are encoded
// in declaration order; slices carry a varint length prefix.
var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (embeddingRecordMUS) Marshal(r EmbeddingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Accession, bs)
	n += EmbeddingTypeIDMUS.Marshal(r.EmbeddingTypeID, bs[n:])
	n += varint.PositiveInt.Marshal(len(r.Embedding), bs[n:])
	for _, v := range r.Embedding {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += varint.PositiveInt.Marshal(len(r.Shape), bs[n:])
	for _, d := range r.Shape {
		n += varint.Int.Marshal(d, bs[n:])
	}
	return n
}

func (embeddingRecordMUS) Unmarshal(bs []byte) (r EmbeddingRecord, n int, err error) {
	var n1 int
	r.Accession, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.EmbeddingTypeID, n1, err = EmbeddingTypeIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		// A corrupt length prefix must not size the allocation beyond
		// what the buffer can hold.
		r.Embedding = make([]float32, 0, min(count, len(bs[n:])/4))
		for i := 0; i < count; i++ {
			var v float32
			v, n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			r.Embedding = append(r.Embedding, v)
		}
	}

	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		r.Shape = make([]int, 0, min(count, len(bs[n:])))
		for i := 0; i < count; i++ {
			var d int
			d, n1, err = varint.Int.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			r.Shape = append(r.Shape, d)
		}
	}
	return
}

func (embeddingRecordMUS) Size(r EmbeddingRecord) (size int) {
	size = ord.String.Size(r.Accession)
	size += EmbeddingTypeIDMUS.Size(r.EmbeddingTypeID)
	size += varint.PositiveInt.Size(len(r.Embedding))
	for _, v := range r.Embedding {
		size += raw.Float32.Size(v)
	}
	size += varint.PositiveInt.Size(len(r.Shape))
	for _, d := range r.Shape {
		size += varint.Int.Size(d)
	}
	return size
}

func (embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = EmbeddingTypeIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < count; i++ {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < count; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
