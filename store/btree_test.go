package store

import (
	"testing"

	"github.com/iov-one/supersig/weavetest/assert"
)

func memStoreConstructor() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeSavepoints(t *testing.T) {
	NewTestSuite(memStoreConstructor).Savepoints(t)
}

func TestBTreeNestedSavepoints(t *testing.T) {
	NewTestSuite(memStoreConstructor).NestedSavepoints(t)
}

func TestBTreeOverlay(t *testing.T) {
	NewTestSuite(memStoreConstructor).Overlay(t)
}

func TestBTreeIteration(t *testing.T) {
	NewTestSuite(memStoreConstructor).Iteration(t)
}

func TestBTreePrefixPurge(t *testing.T) {
	NewTestSuite(memStoreConstructor).PrefixPurge(t)
}

func TestSliceIterator(t *testing.T) {
	models := []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}
	iter := NewSliceIterator(models)
	var keys []string
	for ; iter.Valid(); assert.Nil(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	if err := iter.Next(); err == nil {
		t.Fatal("advancing past the end must fail")
	}
	assert.Panics(t, func() { iter.Key() })
}
