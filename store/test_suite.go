package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/weavetest/assert"
)

// TestSuite runs the same set of storage checks against any
// CacheableKVStore implementation. Both the in-memory btree store and the
// iavl backed store are verified with it.
//
// Cases follow the way the ledger uses a store: transactions write through
// savepoints that are either committed or discarded, and state owned by a
// treasury is laid out under a common key prefix that is iterated and
// purged as a whole.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// Savepoints checks that writes to a cache wrap are visible only in the
// cache until written, and that a discarded cache leaves no trace.
func (s *TestSuite) Savepoints(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	treasury, funds := []byte("supersig:0"), []byte("alice,bob")
	s.AssertGetHas(t, base, treasury, nil, false)
	assert.Nil(t, base.Set(treasury, funds))
	s.AssertGetHas(t, base, treasury, funds, true)

	committed := base.CacheWrap()
	s.AssertGetHas(t, committed, treasury, funds, true)
	call, payload := []byte("call:0:0"), []byte("send 20")
	assert.Nil(t, committed.Set(call, payload))
	s.AssertGetHas(t, committed, call, payload, true)
	s.AssertGetHas(t, base, call, nil, false)
	assert.Nil(t, committed.Write())
	s.AssertGetHas(t, base, call, payload, true)

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("call:0:1"), []byte("rejected")))
	assert.Nil(t, discarded.Delete(treasury))
	s.AssertGetHas(t, discarded, treasury, nil, false)
	discarded.Discard()
	s.AssertGetHas(t, base, treasury, funds, true)
	s.AssertGetHas(t, base, []byte("call:0:1"), nil, false)

	removal := base.CacheWrap()
	assert.Nil(t, removal.Delete(treasury))
	assert.Nil(t, removal.Write())
	s.AssertGetHas(t, base, treasury, nil, false)
	s.AssertGetHas(t, base, call, payload, true)
}

// NestedSavepoints checks a savepoint opened inside another one, as done
// when an approved call is dispatched within a transaction.
func (s *TestSuite) NestedSavepoints(t *testing.T) {
	cases := map[string]struct {
		commitInner bool
		want        []Model
	}{
		"inner committed": {
			commitInner: true,
			want: []Model{
				weave.Pair([]byte("tally"), nil),
				weave.Pair([]byte("wallet:dave"), []byte("20")),
				weave.Pair([]byte("wallet:treasury"), []byte("30")),
			},
		},
		"inner discarded": {
			commitInner: false,
			want: []Model{
				weave.Pair([]byte("tally"), nil),
				weave.Pair([]byte("wallet:dave"), nil),
				weave.Pair([]byte("wallet:treasury"), []byte("50")),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			assert.Nil(t, base.Set([]byte("wallet:treasury"), []byte("50")))
			assert.Nil(t, base.Set([]byte("tally"), []byte("1")))

			outer := base.CacheWrap()
			// The call is purged before it runs.
			assert.Nil(t, outer.Delete([]byte("tally")))

			inner := outer.CacheWrap()
			assert.Nil(t, inner.Set([]byte("wallet:treasury"), []byte("30")))
			assert.Nil(t, inner.Set([]byte("wallet:dave"), []byte("20")))
			if tc.commitInner {
				assert.Nil(t, inner.Write())
			} else {
				inner.Discard()
			}
			assert.Nil(t, outer.Write())

			for _, m := range tc.want {
				s.AssertGetHas(t, base, m.Key, m.Value, m.Value != nil)
			}
		})
	}
}

// Overlay checks that a cache shadows the values of its parent: updates
// and deletes in the cache win, untouched keys fall through.
func (s *TestSuite) Overlay(t *testing.T) {
	cases := map[string]struct {
		parentOps   []Op
		childOps    []Op
		parentWants []Model // Key is what we query, Value is what we expect
		childWants  []Model
	}{
		"update, delete and insert": {
			parentOps: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			childOps:  []Op{SetOp([]byte("a"), []byte("11")), SetOp([]byte("c"), []byte("3")), DelOp([]byte("b"))},
			parentWants: []Model{
				weave.Pair([]byte("a"), []byte("1")),
				weave.Pair([]byte("b"), []byte("2")),
				weave.Pair([]byte("c"), nil),
			},
			childWants: []Model{
				weave.Pair([]byte("a"), []byte("11")),
				weave.Pair([]byte("b"), nil),
				weave.Pair([]byte("c"), []byte("3")),
			},
		},
		"delete then set again": {
			parentOps: []Op{SetOp([]byte("a"), []byte("1"))},
			childOps:  []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("2"))},
			parentWants: []Model{
				weave.Pair([]byte("a"), []byte("1")),
			},
			childWants: []Model{
				weave.Pair([]byte("a"), []byte("2")),
			},
		},
		"delete of a missing key": {
			childOps: []Op{DelOp([]byte("missing"))},
			childWants: []Model{
				weave.Pair([]byte("missing"), nil),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()
			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, w := range tc.parentWants {
				s.AssertGetHas(t, parent, w.Key, w.Value, w.Value != nil)
			}
			for _, w := range tc.childWants {
				s.AssertGetHas(t, child, w.Key, w.Value, w.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, w := range tc.childWants {
				s.AssertGetHas(t, parent, w.Key, w.Value, w.Value != nil)
			}
		})
	}
}

// Iteration checks ordered range iteration over a cache that merges its
// own writes with the content of the parent.
func (s *TestSuite) Iteration(t *testing.T) {
	// Calls 0..9 of treasuries 0..2, parent holds even calls and the
	// cache the odd ones.
	var all, even, odd []Model
	for treasury := uint64(0); treasury < 3; treasury++ {
		for call := uint64(0); call < 10; call++ {
			m := weave.Pair(callKey(treasury, call), []byte(fmt.Sprintf("%d/%d", treasury, call)))
			all = append(all, m)
			if call%2 == 0 {
				even = append(even, m)
			} else {
				odd = append(odd, m)
			}
		}
	}

	cases := map[string]iterCase{
		"cache only": {
			child: makeSetOps(all...),
			queries: []rangeQuery{
				{nil, nil, false, all},
				{callKey(1, 0), callKey(2, 0), false, all[10:20]},
				{callKey(0, 5), nil, false, all[5:]},
				{nil, callKey(0, 5), false, all[:5]},
				{nil, nil, true, reverse(all)},
				{callKey(1, 0), callKey(2, 0), true, reverse(all[10:20])},
			},
		},
		"parent only": {
			pre: makeSetOps(all...),
			queries: []rangeQuery{
				{nil, nil, false, all},
				{callKey(2, 3), callKey(2, 7), false, all[23:27]},
				{nil, nil, true, reverse(all)},
			},
		},
		"merged": {
			pre:   makeSetOps(even...),
			child: makeSetOps(odd...),
			queries: []rangeQuery{
				{nil, nil, false, all},
				{callKey(1, 0), callKey(2, 0), false, all[10:20]},
				{callKey(0, 5), callKey(1, 5), true, reverse(all[5:15])},
			},
		},
		"cache deletes hide parent": {
			pre:   makeSetOps(all...),
			child: makeDelOps(odd...),
			queries: []rangeQuery{
				{nil, nil, false, even},
				{callKey(1, 0), callKey(2, 0), false, even[5:10]},
				{nil, nil, true, reverse(even)},
				// A range holding only deleted keys is empty.
				{callKey(0, 1), callKey(0, 2), false, nil},
			},
		},
		"cache overwrites parent": {
			pre: makeSetOps(all...),
			child: []Op{
				SetOp(callKey(1, 4), []byte("updated")),
			},
			queries: []rangeQuery{
				{callKey(1, 3), callKey(1, 6), false, []Model{
					all[13],
					weave.Pair(callKey(1, 4), []byte("updated")),
					all[15],
				}},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// PrefixPurge removes every key of a single treasury inside a savepoint
// and checks that no other treasury is affected.
func (s *TestSuite) PrefixPurge(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for treasury := uint64(0); treasury < 3; treasury++ {
		for call := uint64(0); call < 4; call++ {
			assert.Nil(t, base.Set(callKey(treasury, call), []byte("pending")))
		}
	}

	cache := base.CacheWrap()
	// One more call submitted in the same transaction.
	assert.Nil(t, cache.Set(callKey(1, 4), []byte("pending")))

	start, end := treasuryKey(1), treasuryKey(2)
	iter, err := cache.Iterator(start, end)
	assert.Nil(t, err)
	var doomed [][]byte
	for ; iter.Valid(); assert.Nil(t, iter.Next()) {
		doomed = append(doomed, append([]byte(nil), iter.Key()...))
	}
	iter.Close()
	assert.Equal(t, 5, len(doomed))
	for _, k := range doomed {
		assert.Nil(t, cache.Delete(k))
	}
	assert.Nil(t, cache.Write())

	for treasury := uint64(0); treasury < 3; treasury++ {
		iter, err := base.Iterator(treasuryKey(treasury), treasuryKey(treasury+1))
		assert.Nil(t, err)
		n := 0
		for ; iter.Valid(); assert.Nil(t, iter.Next()) {
			n++
		}
		iter.Close()
		if treasury == 1 {
			assert.Equal(t, 0, n)
		} else {
			assert.Equal(t, 4, n)
		}
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func treasuryKey(index uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, index)
	return key
}

func callKey(index, call uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, index)
	binary.BigEndian.PutUint64(key[8:], call)
	return key
}

// iterCase is a test case for iteration
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (i iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range i.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range i.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range i.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		var got []Model
		for ; iter.Valid(); assert.Nil(t, iter.Next()) {
			got = append(got, weave.Pair(iter.Key(), iter.Value()))
		}
		iter.Close()

		if len(got) != len(q.expected) {
			t.Fatalf("want %d models, got %d", len(q.expected), len(got))
		}
		for i := range q.expected {
			if !bytes.Equal(q.expected[i].Key, got[i].Key) {
				t.Fatalf("key %d: want %X, got %X", i, q.expected[i].Key, got[i].Key)
			}
			assert.Equal(t, q.expected[i].Value, got[i].Value)
		}
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

// reverse returns a copy of the slice with elements in reverse order
func reverse(models []Model) []Model {
	n := len(models)
	res := make([]Model, n)
	for i := range models {
		res[i] = models[n-1-i]
	}
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
