package orm

import (
	"reflect"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	weave.Persistent
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for
// us. Instead we use a placeholder type and the validation is done during
// the runtime.
type ModelSlicePtr interface{}

// modelFormat is written in front of every stored value. A model with all
// default fields encodes to zero bytes and the marker keeps it
// distinguishable from a missing entry.
const modelFormat byte = 1

// ModelBucket is implemented by buckets that operates on Models rather than
// raw values.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// ByPrefix loads all entities which primary key starts with given
	// prefix into dest, in key order. Full primary keys of loaded entities
	// are returned in the same order.
	ByPrefix(db weave.ReadOnlyKVStore, prefix []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database.
	Put(db weave.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db weave.KVStore, key []byte) error

	// DeletePrefix removes all entities which primary key starts with
	// given prefix and returns their count.
	DeletePrefix(db weave.KVStore, prefix []byte) (int, error)

	// Register registers this buckets content to be accessible via query
	// requests under the given name.
	Register(name string, r weave.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance storing its entities under
// the given bucket name.
func NewModelBucket(name string, m Model) ModelBucket {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	return &modelBucket{
		b:     NewBucket(name),
		model: tp.Elem(),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	return Unpack(raw, dest)
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := db.Has(mb.b.DBKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) ByPrefix(db weave.ReadOnlyKVStore, prefix []byte, destination ModelSlicePtr) ([][]byte, error) {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	if dest.IsNil() {
		return nil, errors.Wrap(errors.ErrType, "got nil destination")
	}
	slice := dest.Elem()
	if slice.Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to slice of models")
	}
	ptrElem := slice.Type().Elem().Kind() == reflect.Ptr
	elemType := slice.Type().Elem()
	if ptrElem {
		elemType = elemType.Elem()
	}
	if elemType != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "this bucket operates on %s model and cannot return %s", mb.model, elemType)
	}

	found, err := mb.b.scan(db, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(found))
	for _, m := range found {
		val := reflect.New(mb.model)
		if err := Unpack(m.Value, val.Interface().(Model)); err != nil {
			return nil, err
		}
		if ptrElem {
			slice = reflect.Append(slice, val)
		} else {
			slice = reflect.Append(slice, val.Elem())
		}
		keys = append(keys, m.Key[len(mb.b.prefix):])
	}
	dest.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if key == nil {
		return errors.Wrap(errors.ErrModel, "missing key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize model")
	}
	value := make([]byte, 1+len(raw))
	value[0] = modelFormat
	copy(value[1:], raw)
	if err := db.Set(mb.b.DBKey(key), value); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.b.DBKey(key))
}

func (mb *modelBucket) DeletePrefix(db weave.KVStore, prefix []byte) (int, error) {
	return mb.b.DeletePrefix(db, prefix)
}

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	mb.b.Register(name, r)
}

// Unpack decodes a value as stored by a ModelBucket. Use it to read query
// results.
func Unpack(raw []byte, dest Model) error {
	if len(raw) == 0 || raw[0] != modelFormat {
		return errors.Wrap(errors.ErrModel, "unknown stored value format")
	}
	if len(raw) == 1 {
		// All fields hold default values.
		v := reflect.ValueOf(dest).Elem()
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if err := dest.Unmarshal(raw[1:]); err != nil {
		return errors.Wrap(err, "cannot deserialize model")
	}
	return nil
}

var _ ModelBucket = (*modelBucket)(nil)
