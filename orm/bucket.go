/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object, stored under
a primary key chosen by the owning extension.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data. Panics on an invalid name.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// The result never shares memory with the prefix, so that consecutive
// calls do not overwrite each other.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under the key, or nil.
func (b Bucket) Get(db custody.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get from %s: %s", b.name, err)
	}
	return raw, nil
}

// Has returns true if a value is stored under the key.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has in %s: %s", b.name, err)
	}
	return ok, nil
}

// Set writes the raw value under the key.
func (b Bucket) Set(db custody.KVStore, key, value []byte) error {
	if err := db.Set(b.DBKey(key), value); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set in %s: %s", b.name, err)
	}
	return nil
}

// Delete removes the value stored under the key.
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete from %s: %s", b.name, err)
	}
	return nil
}

// Iterate calls fn for every entry of the bucket in key order.
// Keys are passed without the bucket prefix. Iteration stops on the
// first error returned by fn.
func (b Bucket) Iterate(db custody.ReadOnlyKVStore, fn func(key, value []byte) error) error {
	iter, err := db.Iterator(b.prefix, prefixEnd(b.prefix))
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "iterate %s: %s", b.name, err)
	}
	defer iter.Release()

	for {
		key, value, err := iter.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return nil
			}
			return err
		}
		if err := fn(key[len(b.prefix):], value); err != nil {
			return err
		}
	}
}

// prefixEnd returns the first key that does not start with prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
