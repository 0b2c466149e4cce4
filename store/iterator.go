package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/supersig/errors"
)

// itemCursor walks over a snapshot of btree items. The snapshot is taken
// when the iterator is created, so writes done afterwards are not visible.
type itemCursor struct {
	items []keyer
	idx   int
}

func collect(items *[]keyer) btree.ItemIterator {
	return func(i btree.Item) bool {
		*items = append(*items, i.(keyer))
		return true
	}
}

func ascendBtree(bt *btree.BTree, start, end []byte) *itemCursor {
	var items []keyer
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect(&items))
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect(&items))
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect(&items))
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect(&items))
	}
	return &itemCursor{items: items}
}

func descendBtree(bt *btree.BTree, start, end []byte) *itemCursor {
	var items []keyer
	switch {
	case start == nil && end == nil:
		bt.Descend(collect(&items))
	case start == nil:
		bt.DescendLessOrEqual(bkeyLess{end}, collect(&items))
	case end == nil:
		bt.DescendGreaterThan(bkeyLess{start}, collect(&items))
	default:
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, collect(&items))
	}
	return &itemCursor{items: items}
}

func (c *itemCursor) wrap(parent Iterator, reverse bool) (*itemIter, error) {
	iter := &itemIter{
		cache:   c,
		parent:  parent,
		reverse: reverse,
	}
	if err := iter.skipAllDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

func (c *itemCursor) valid() bool {
	return c.idx < len(c.items)
}

func (c *itemCursor) next() {
	c.idx++
}

// get requires this is valid, gets what we are pointing at
func (c *itemCursor) get() keyer {
	return c.items[c.idx]
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines cached writes with the parent iterator, taking into
// consideration overwrites and deletes.
type itemIter struct {
	cache   *itemCursor
	parent  Iterator
	reverse bool
}

var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.cache.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *itemIter) Next() error {
	switch i.firstKey() {
	case us:
		i.cache.next()
	case both:
		i.cache.next()
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		return errors.Wrap(errors.ErrDatabase, "iterator advanced past the end")
	}
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.cache.get().(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	i.parent.Close()
	i.cache.items = nil
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() error {
	for {
		src := i.firstKey()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.cache.get().(deletedItem); !ok {
			return nil
		}
		i.cache.next()
		// if parent had the same key, advance parent as well
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// firstKey selects the iterator that holds the next key in iteration
// order, if any.
func (i *itemIter) firstKey() source {
	if !i.parentValid() {
		if !i.cache.valid() {
			return none
		}
		return us
	} else if !i.cache.valid() {
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.cache.get().Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
