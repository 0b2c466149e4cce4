package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// Sequence maintains a counter, and generates a series of keys. Values
// are handed out starting from zero and every value is greater than the
// last, both as a number and compared with bytes.Compare on its encoding.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// Next returns the current value of the sequence and increments the stored
// state. The first call returns zero.
func (s *Sequence) Next(db weave.KVStore) (uint64, error) {
	val, err := s.Current(db)
	if err != nil {
		return 0, err
	}
	if val == math.MaxUint64 {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, errors.Wrap(err, "cannot store sequence")
	}
	return val, nil
}

// Current returns the value that will be handed out by the next call to
// Next. This method does not modify the sequence state.
func (s *Sequence) Current(db weave.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load sequence")
	}
	if raw == nil {
		return 0, nil
	}
	return DecodeSequence(raw)
}

// EncodeSequence returns the big endian representation of given value.
// Encoded values keep the numeric order when compared as bytes.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// DecodeSequence is the inverse of EncodeSequence.
func DecodeSequence(bz []byte) (uint64, error) {
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "invalid sequence length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// CompositeKey joins given parts into a single key. Parts are not
// separated, so each of them but the last one must be of fixed width.
func CompositeKey(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}
