package store

import (
	"bytes"

	"github.com/iov-one/custody/errors"
)

// mergedIterator combines items from a cache layer with the results of the
// parent store iterator. Cached values take precedence over the parent and
// deleted items hide parent values.
type mergedIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool

	// next parent item, read ahead so it can be compared
	parentKey   []byte
	parentValue []byte
	parentDone  bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []keyer, parent Iterator, ascending bool) *mergedIterator {
	it := &mergedIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	return it
}

func (m *mergedIterator) advanceParent() error {
	if m.parentDone || m.parentKey != nil {
		return nil
	}
	key, value, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.parentDone = true
			return nil
		}
		return err
	}
	m.parentKey, m.parentValue = key, value
	return nil
}

// Next returns the next key-value pair, skipping deleted entries.
func (m *mergedIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.advanceParent(); err != nil {
			return nil, nil, err
		}

		haveItem := m.idx < len(m.items)
		haveParent := !m.parentDone

		switch {
		case !haveItem && !haveParent:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
		case !haveItem:
			return m.takeParent()
		case !haveParent:
			k, v, ok := m.takeItem()
			if ok {
				return k, v, nil
			}
			continue
		}

		cmp := bytes.Compare(m.items[m.idx].Key(), m.parentKey)
		if !m.ascending {
			cmp = -cmp
		}
		switch {
		case cmp > 0:
			return m.takeParent()
		case cmp == 0:
			// Cache overwrites the parent value.
			m.parentKey, m.parentValue = nil, nil
		}
		k, v, ok := m.takeItem()
		if ok {
			return k, v, nil
		}
	}
}

func (m *mergedIterator) takeParent() ([]byte, []byte, error) {
	k, v := m.parentKey, m.parentValue
	m.parentKey, m.parentValue = nil, nil
	return k, v, nil
}

// takeItem consumes one cached item. It returns false if the item was a
// deletion marker.
func (m *mergedIterator) takeItem() ([]byte, []byte, bool) {
	item := m.items[m.idx]
	m.idx++
	set, ok := item.(setItem)
	if !ok {
		return nil, nil, false
	}
	return set.Key(), set.value, true
}

// Release releases the Iterator.
func (m *mergedIterator) Release() {
	m.parent.Release()
	m.items = nil
}
