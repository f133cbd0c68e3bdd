package orm

import (
	"reflect"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	custody.Persistent
	Validate() error
}

// ModelBucket stores models of a single type under caller chosen keys.
type ModelBucket interface {
	// One loads the model stored under the key into dest.
	// It returns ErrNotFound if the entity does not exist and ErrType
	// if dest is not of the type this bucket stores.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity is stored under the key.
	Has(db custody.ReadOnlyKVStore, key []byte) (bool, error)

	// Put validates and saves the model, overwriting any previous value.
	Put(db custody.KVStore, key []byte, m Model) error

	// Create saves the model only if the key is not in use yet.
	// It returns ErrDuplicate otherwise and never modifies stored data.
	Create(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// Iterate calls fn with every stored key, in key order. The model is
	// only valid for the duration of the call.
	Iterate(db custody.ReadOnlyKVStore, fn func(key []byte, m Model) error) error
}

// NewModelBucket returns a ModelBucket storing models of the same type as
// given prototype in a bucket of given name.
func NewModelBucket(name string, proto Model) ModelBucket {
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr {
		panic("model prototype must be a pointer")
	}
	return &modelBucket{
		b:     NewBucket(name),
		model: t,
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", mb.model, t)
	}
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", mb.b.Name(), key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model, err)
	}
	return nil
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %s in %s bucket", t, mb.b.Name())
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Create(db custody.KVStore, key []byte, m Model) error {
	exists, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicate, "%s %q", mb.b.Name(), key)
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	exists, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", mb.b.Name(), key)
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Iterate(db custody.ReadOnlyKVStore, fn func(key []byte, m Model) error) error {
	return mb.b.Iterate(db, func(key, raw []byte) error {
		m := reflect.New(mb.model.Elem()).Interface().(Model)
		if err := m.Unmarshal(raw); err != nil {
			return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model, err)
		}
		return fn(key, m)
	})
}
