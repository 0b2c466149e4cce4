package orm

import (
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest/assert"
	amino "github.com/tendermint/go-amino"
)

var testCodec = amino.NewCodec()

type Counter struct {
	Count int64
}

func (c *Counter) Marshal() ([]byte, error) { return testCodec.MarshalBinaryBare(c) }

func (c *Counter) Unmarshal(raw []byte) error { return testCodec.UnmarshalBinaryBare(raw, c) }

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

type Other struct {
	Counter
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{})

	if err := b.Put(db, []byte("c1"), &Counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}

	var c1 Counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
}

func TestModelBucketZeroValue(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	assert.Nil(t, b.Put(db, []byte("zero"), &Counter{}))
	assert.Nil(t, b.Has(db, []byte("zero")))

	c := Counter{Count: 99}
	assert.Nil(t, b.One(db, []byte("zero"), &c))
	assert.Equal(t, int64(0), c.Count)
}

func TestModelBucketPutValidation(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	assert.IsErr(t, errors.ErrModel, b.Put(db, []byte("neg"), &Counter{Count: -1}))
	assert.IsErr(t, errors.ErrModel, b.Put(db, nil, &Counter{Count: 1}))
	assert.IsErr(t, errors.ErrType, b.Put(db, []byte("other"), &Other{}))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("neg")))
}

func TestModelBucketByPrefix(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	for i, key := range [][]byte{
		CompositeKey(EncodeSequence(1), EncodeSequence(0)),
		CompositeKey(EncodeSequence(1), EncodeSequence(1)),
		CompositeKey(EncodeSequence(2), EncodeSequence(0)),
	} {
		assert.Nil(t, b.Put(db, key, &Counter{Count: int64(i)}))
	}

	var values []Counter
	keys, err := b.ByPrefix(db, EncodeSequence(1), &values)
	assert.Nil(t, err)
	assert.Equal(t, []Counter{{Count: 0}, {Count: 1}}, values)
	assert.Equal(t, [][]byte{
		CompositeKey(EncodeSequence(1), EncodeSequence(0)),
		CompositeKey(EncodeSequence(1), EncodeSequence(1)),
	}, keys)

	var ptrs []*Counter
	_, err = b.ByPrefix(db, nil, &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(ptrs))

	var wrong []Other
	_, err = b.ByPrefix(db, nil, &wrong)
	assert.IsErr(t, errors.ErrType, err)

	n, err := b.DeletePrefix(db, EncodeSequence(1))
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	ptrs = nil
	_, err = b.ByPrefix(db, nil, &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, []*Counter{{Count: 2}}, ptrs)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})
	assert.Nil(t, b.Put(db, []byte("a1"), &Counter{Count: 5}))
	assert.Nil(t, b.Put(db, []byte("a2"), &Counter{Count: 6}))
	assert.Nil(t, b.Put(db, []byte("b1"), &Counter{Count: 7}))

	qr := weave.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("query handler not registered")
	}

	res, err := h.Query(db, weave.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	var c Counter
	assert.Nil(t, Unpack(res[1].Value, &c))
	assert.Equal(t, int64(6), c.Count)

	res, err = h.Query(db, weave.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))
}

func TestPrefixRangeEnd(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		want   []byte
	}{
		"simple":         {prefix: []byte{1, 2}, want: []byte{1, 3}},
		"carry":          {prefix: []byte{1, 0xFF}, want: []byte{2}},
		"no upper bound": {prefix: []byte{0xFF, 0xFF}, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, PrefixRangeEnd(tc.prefix))
		})
	}
}
