package orm

import (
	"bytes"
	"math"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	a := NewSequence("treasury", "id")
	b := NewSequence("treasury", "other")

	for want := uint64(0); want < 300; want++ {
		got, err := a.Next(db)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}

	// sequences do not share state
	got, err := b.Next(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got)

	cur, err := a.Current(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(300), cur)
}

func TestSequenceOverflow(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("treasury", "id")
	assert.Nil(t, db.Set(s.id, EncodeSequence(math.MaxUint64)))

	_, err := s.Next(db)
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestSequenceEncodingKeepsOrder(t *testing.T) {
	prev := EncodeSequence(0)
	for _, v := range []uint64{1, 255, 256, 1 << 32, math.MaxUint64} {
		cur := EncodeSequence(v)
		if bytes.Compare(prev, cur) >= 0 {
			t.Fatalf("encoding of %d does not sort after previous value", v)
		}
		back, err := DecodeSequence(cur)
		assert.Nil(t, err)
		assert.Equal(t, v, back)
		prev = cur
	}

	_, err := DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}
