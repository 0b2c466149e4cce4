/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key, which may be composite. Composite keys are built
  from fixed width parts so that all entries sharing a leading part can be
  scanned or removed together.
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. It knows nothing about the
// values it stores, use ModelBucket for typed access.
type Bucket struct {
	name   string
	prefix []byte
}

var _ weave.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Register registers this Bucket under given query path. If name is empty,
// bucket name is used.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter. Returned keys are the full
// database keys.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(key, value)}, nil
	case weave.PrefixQueryMod:
		return b.scan(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// scan returns all entries which primary key starts with given prefix, in
// key order.
func (b Bucket) scan(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	start := b.DBKey(prefix)
	iter, err := db.Iterator(start, PrefixRangeEnd(start))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(iter)
}

// DeletePrefix removes every entry which primary key starts with given
// prefix. It returns the number of removed entries.
func (b Bucket) DeletePrefix(db weave.KVStore, prefix []byte) (int, error) {
	found, err := b.scan(db, prefix)
	if err != nil {
		return 0, err
	}
	for _, m := range found {
		if err := db.Delete(m.Key); err != nil {
			return 0, errors.Wrap(err, "cannot delete")
		}
	}
	return len(found), nil
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr weave.Iterator) ([]weave.Model, error) {
	defer itr.Close()

	var res []weave.Model
	for itr.Valid() {
		res = append(res, weave.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// PrefixRangeEnd returns the first key that does not start with given
// prefix. It returns nil if there is no such key (all bytes are 0xFF).
func PrefixRangeEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
