package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest/assert"
)

// TestSuite runs the same set of checks against any CacheableKVStore.
// Each store implementation only provides a constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a function
// releasing all its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet ensures that data written to a cache is visible only in
// that cache until written, and that discarded data never shows up.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, hundred := []byte("alice"), []byte("100")
	s.AssertGetHas(t, base, alice, nil, false)
	assert.Nil(t, base.Set(alice, hundred))
	s.AssertGetHas(t, base, alice, hundred, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, alice, hundred, true)

	bob, fifty := []byte("bob"), []byte("50")
	assert.Nil(t, cache.Set(bob, fifty))
	s.AssertGetHas(t, cache, bob, fifty, true)
	s.AssertGetHas(t, base, bob, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, alice, hundred, true)
	s.AssertGetHas(t, base, bob, fifty, true)

	carol := []byte("carol")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(carol, []byte("7")))
	assert.Nil(t, discarded.Delete(alice))
	discarded.Discard()
	s.AssertGetHas(t, base, alice, hundred, true)
	s.AssertGetHas(t, base, carol, nil, false)

	written := base.CacheWrap()
	assert.Nil(t, written.Delete(alice))
	assert.Nil(t, written.Write())
	s.AssertGetHas(t, base, alice, nil, false)
	s.AssertGetHas(t, base, bob, fifty, true)
}

// CacheConflicts checks that a cache can overwrite and delete
// values of the underlying store.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(4, 16)
	vs := randKeys(4, 40)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[0]), SetOp(ks[3], vs[3]), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], vs[1]), Pair(ks[2], vs[2]), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], vs[0]), Pair(ks[2], nil), Pair(ks[3], vs[3])},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(ks[0], vs[0])},
			childOps:      []Op{DelOp(ks[0]), SetOp(ks[0], vs[2])},
			parentQueries: []Model{Pair(ks[0], vs[0])},
			childQueries:  []Model{Pair(ks[0], vs[2])},
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

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator iterates over random data spread between a cache
// and its parent, including deletes of missing keys.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 40

	childSet := randModels(size, 8, 32)
	childOps := append(makeSetOps(childSet...), makeDelOps(randModels(10, 8, 32)...)...)
	parentSet := randModels(size, 8, 32)
	parentOps := append(makeSetOps(parentSet...), makeDelOps(randModels(10, 8, 32)...)...)

	child := sortModels(childSet)
	all := sortModels(append(childSet, parentSet...))

	cases := map[string]iterCase{
		"child only": {
			child: childOps,
			queries: []rangeQuery{
				{nil, nil, false, child},
				{child[5].Key, nil, false, child[5:]},
				{nil, child[30].Key, false, child[:30]},
				{child[12].Key, child[21].Key, false, child[12:21]},
				{nil, nil, true, reverse(child)},
				{child[5].Key, nil, true, reverse(child[5:])},
				{nil, child[30].Key, true, reverse(child[:30])},
				{child[12].Key, child[21].Key, true, reverse(child[12:21])},
			},
		},
		"child and parent": {
			pre:   parentOps,
			child: childOps,
			queries: []rangeQuery{
				{nil, nil, false, all},
				{all[9].Key, nil, false, all[9:]},
				{nil, all[70].Key, false, all[:70]},
				{all[20].Key, all[44].Key, false, all[20:44]},
				{nil, nil, true, reverse(all)},
				{all[9].Key, nil, true, reverse(all[9:])},
				{nil, all[70].Key, true, reverse(all[:70])},
				{all[20].Key, all[44].Key, true, reverse(all[20:44])},
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

// IteratorWithConflicts checks iteration when the cache overwrites
// or deletes parent values.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key = a.Key
	b2.Key = b.Key

	abc := sortModels([]Model{a, b, c})
	overwritten := sortModels([]Model{a2, b2, c, d})

	cases := map[string]iterCase{
		"parent only": {
			pre: makeSetOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"split between parent and child": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(c),
			queries: []rangeQuery{
				{nil, nil, false, abc},
				{abc[1].Key, abc[2].Key, false, abc[1:2]},
				{nil, nil, true, reverse(abc)},
			},
		},
		"child overwrites parent": {
			pre:   makeSetOps(a, b, c),
			child: makeSetOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, overwritten},
				{overwritten[1].Key, overwritten[3].Key, false, overwritten[1:3]},
				{nil, nil, true, reverse(overwritten)},
			},
		},
		"child deletes parent": {
			pre:   makeSetOps(a, c, d),
			child: makeDelOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
				{nil, nil, true, []Model{c}},
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

// AssertGetHas fails the test if the store does not return the
// expected value for the key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

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

		for n, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("item %d: want key %X, got %X", n, want.Key, key)
			}
			assert.Equal(t, want.Value, value)
		}
		if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("want iterator to be done, got %+v", err)
		}
		iter.Release()
	}
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
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
